package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lark/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the disk cache",
}

var cacheDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Remove every cached payload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := cache.OpenDiskCache(cacheAppName)
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		if err := dc.DropAll(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "dropped cache at %s\n", dc.Dir())
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the disk cache location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := cache.OpenDiskCache(cacheAppName)
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		fmt.Fprintln(os.Stdout, dc.Dir())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDropCmd)
	cacheCmd.AddCommand(cachePathCmd)
}
