package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lark/internal/cache"
)

var storeCmd = &cobra.Command{
	Use:   "store <snapshot.lam>...",
	Short: "Copy snapshots into the disk cache",
	Long: `Validate snapshots and store their payloads in the disk cache keyed
by snapshot digest. Snapshots covering a single file are also keyed by
that file's content hash, so query --source can find them after the
snapshot file itself is gone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStore,
}

func runStore(cmd *cobra.Command, args []string) error {
	dc, err := cache.OpenDiskCache(cacheAppName)
	if err != nil {
		return fmt.Errorf("failed to open disk cache: %w", err)
	}

	for _, path := range args {
		// openSnapshot decodes the payload, so nothing that will not
		// decode later ends up cached.
		snap, err := openSnapshot(path)
		if err != nil {
			return err
		}
		if err := dc.Put(snap.digest, snap.payload); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		keys := snap.digest.String()[:12]
		if files := snap.payload.Files; len(files) == 1 {
			if err := dc.Put(files[0].Hash, snap.payload); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			keys += ", " + files[0].Hash.String()[:12]
		}
		fmt.Fprintf(os.Stdout, "stored %s (%d annotations) under %s\n", path, snap.m.Len(), keys)
	}
	return nil
}
