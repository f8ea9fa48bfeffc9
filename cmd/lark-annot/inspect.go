package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lark/internal/annotfmt"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <snapshot.lam>...",
	Short: "Decode annotation snapshots and print their entries",
	Long:  `Decode one or more annotation snapshots and print every entry in table order, one line per annotation`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Bool("json", false, "emit entries as JSON")
	inspectCmd.Flags().Bool("docs", false, "include reference docs in output")
	inspectCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runInspect(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	showDocs, err := cmd.Flags().GetBool("docs")
	if err != nil {
		return fmt.Errorf("failed to get docs flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	useColor, err := readColorFlag(cmd)
	if err != nil {
		return err
	}

	pathMode := annotfmt.PathModeAuto
	if fullPath {
		pathMode = annotfmt.PathModeAbsolute
	}
	opts := annotfmt.Options{
		Color:    useColor && !asJSON,
		ShowDocs: showDocs,
		PathMode: pathMode,
	}

	if asJSON {
		if len(args) == 1 {
			snap, err := openSnapshot(args[0])
			if err != nil {
				return err
			}
			return annotfmt.WriteJSON(os.Stdout, snap.fs, snap.m.Entries(), opts)
		}

		output := make(map[string]annotfmt.EntriesOutput, len(args))
		for _, path := range args {
			snap, err := openSnapshot(path)
			if err != nil {
				return err
			}
			output[path] = annotfmt.BuildEntriesOutput(snap.fs, snap.m.Entries(), opts)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}

	for idx, path := range args {
		snap, err := openSnapshot(path)
		if err != nil {
			return err
		}
		if idx > 0 {
			fmt.Fprintln(os.Stdout)
		}
		if len(args) > 1 {
			fmt.Fprintf(os.Stdout, "== %s ==\n", path)
		}
		if snap.payload.Module != "" {
			fmt.Fprintf(os.Stdout, "module %s: %d annotations across %d files\n",
				snap.payload.Module, snap.m.Len(), snap.fs.Len())
		}
		if snap.m.Len() == 0 {
			fmt.Fprintln(os.Stdout, "no annotations")
			continue
		}
		annotfmt.FormatEntries(os.Stdout, snap.fs, snap.m.Entries(), opts)
	}
	return nil
}
