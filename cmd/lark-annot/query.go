package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lark/internal/annotfmt"
	"lark/internal/project"
	"lark/internal/source"
)

var queryCmd = &cobra.Command{
	Use:   "query [flags] [<snapshot.lam>]",
	Short: "Look up annotations at source positions",
	Long: `Look up the annotations visible at one or more source positions,
the way an editor asks for hover info.

Positions are given as --at line:col (1-based) or --at '#offset' (raw
byte offset). Lookups share one cursor that only moves forward, so
positions must be passed in non-decreasing order; whatever falls behind
the cursor is consumed.

The snapshot comes either from an explicit .lam path or, with --source,
from the lark.toml manifest of the file being queried.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringArray("at", nil, "position to query, line:col or '#offset' (repeatable)")
	queryCmd.Flags().String("source", "", "source file to query; its snapshot is found via lark.toml")
	queryCmd.Flags().String("file", "", "file within the snapshot positions refer to (default: first)")
	queryCmd.Flags().Bool("docs", false, "include reference docs in output")
	queryCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// atPosition is one parsed --at value.
type atPosition struct {
	lc        source.LineCol
	off       uint32
	isLineCol bool
}

func parseAt(value string) (atPosition, error) {
	v := strings.TrimSpace(value)
	if strings.Contains(v, ":") {
		linePart, colPart, _ := strings.Cut(v, ":")
		line, err := strconv.ParseUint(linePart, 10, 32)
		if err != nil || line == 0 {
			return atPosition{}, fmt.Errorf("invalid --at value %q (expected line:col or #offset)", value)
		}
		col, err := strconv.ParseUint(colPart, 10, 32)
		if err != nil || col == 0 {
			return atPosition{}, fmt.Errorf("invalid --at value %q (expected line:col or #offset)", value)
		}
		return atPosition{lc: source.LineCol{Line: uint32(line), Col: uint32(col)}, isLineCol: true}, nil
	}
	off, err := strconv.ParseUint(strings.TrimPrefix(v, "#"), 10, 32)
	if err != nil {
		return atPosition{}, fmt.Errorf("invalid --at value %q (expected line:col or #offset)", value)
	}
	return atPosition{off: uint32(off)}, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	atValues, err := cmd.Flags().GetStringArray("at")
	if err != nil {
		return fmt.Errorf("failed to get at flag: %w", err)
	}
	sourceFlag, err := cmd.Flags().GetString("source")
	if err != nil {
		return fmt.Errorf("failed to get source flag: %w", err)
	}
	fileFlag, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
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

	if len(atValues) == 0 {
		return fmt.Errorf("at least one --at position is required")
	}
	ats := make([]atPosition, 0, len(atValues))
	needContent := false
	for _, v := range atValues {
		at, err := parseAt(v)
		if err != nil {
			return err
		}
		needContent = needContent || at.isLineCol
		ats = append(ats, at)
	}

	var (
		snap   *loadedSnapshot
		target *source.File
	)
	switch {
	case sourceFlag != "" && len(args) > 0:
		return fmt.Errorf("pass either a snapshot path or --source, not both")

	case sourceFlag != "":
		raw, err := os.ReadFile(sourceFlag)
		if err != nil {
			return fmt.Errorf("%s: %w", sourceFlag, err)
		}
		var root string
		snap, root, err = resolveSourceSnapshot(sourceFlag, raw)
		if err != nil {
			return err
		}
		target, err = snap.findSourceFile(sourceFlag, root)
		if err != nil {
			return err
		}
		if err := snap.fs.Hydrate(target.ID, raw); err != nil {
			if needContent {
				return fmt.Errorf("snapshot is stale: %w", err)
			}
			fmt.Fprintf(os.Stderr, "warning: snapshot is stale: %v\n", err)
		}

	case len(args) == 1:
		snap, err = openSnapshot(args[0])
		if err != nil {
			return err
		}
		if snap.fs.Len() == 0 {
			return fmt.Errorf("%s: snapshot covers no files", args[0])
		}
		if fileFlag != "" {
			target, err = snap.findSourceFile(fileFlag, "")
			if err != nil {
				return err
			}
		} else {
			target = snap.fs.Get(0)
		}
		if needContent {
			if err := hydrateFromDisk(snap, target, args[0]); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("pass a snapshot path or --source")
	}

	positions := make([]source.Pos, 0, len(ats))
	for i, at := range ats {
		var pos source.Pos
		if at.isLineCol {
			pos, err = snap.fs.OffsetAt(target.ID, at.lc)
			if err != nil {
				return err
			}
		} else {
			pos = source.Pos{File: target.ID, Off: at.off}
		}
		if i > 0 && pos.Before(positions[i-1]) {
			return fmt.Errorf("--at %s precedes --at %s: lookups scan left to right, pass positions in order",
				atValues[i], atValues[i-1])
		}
		positions = append(positions, pos)
	}

	pathMode := annotfmt.PathModeAuto
	if fullPath {
		pathMode = annotfmt.PathModeAbsolute
	}
	opts := annotfmt.Options{Color: useColor, ShowDocs: showDocs, PathMode: pathMode}

	cursor := snap.m.Cursor()
	for i, pos := range positions {
		results, next := cursor.Lookup(pos)
		cursor = next
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		annotfmt.FormatLookup(os.Stdout, snap.fs, pos, results, opts)
	}
	return nil
}

// hydrateFromDisk attaches source content to a meta-only snapshot file
// so line:col positions can resolve. The recorded path is tried as-is
// and below the package root of the nearest manifest.
func hydrateFromDisk(snap *loadedSnapshot, target *source.File, snapPath string) error {
	if target.HasContent() {
		return nil
	}
	var lastErr error
	for _, cand := range contentCandidates(target.Path, snapPath) {
		raw, err := os.ReadFile(cand)
		if err != nil {
			if lastErr == nil {
				lastErr = err
			}
			continue
		}
		if err := snap.fs.Hydrate(target.ID, raw); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("cannot resolve line:col positions for %s: %w", target.Path, lastErr)
}

func contentCandidates(recorded, snapPath string) []string {
	out := []string{recorded}
	if filepath.IsAbs(recorded) {
		return out
	}
	tomlPath, ok, err := project.FindLarkToml(filepath.Dir(snapPath))
	if err != nil || !ok {
		return out
	}
	manifest, err := project.LoadManifest(tomlPath)
	if err != nil {
		return out
	}
	rootDir, err := manifest.RootDir(filepath.Dir(tomlPath))
	if err != nil {
		return out
	}
	return append(out, filepath.Join(rootDir, recorded))
}
