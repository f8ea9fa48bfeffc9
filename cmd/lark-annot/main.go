package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lark/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lark-annot",
	Short: "Inspect, query, and merge lark annotation snapshots",
	Long:  `lark-annot works with the .lam annotation snapshots the lark compiler emits: decode them, look up what is known at a source position, and merge per-file snapshots into one table`,
}

// main registers subcommands and persistent flags, then executes the
// root command. Execution errors exit with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this path")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this path on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to this path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
