package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lark/internal/cache"
	"lark/internal/driver"
	"lark/internal/ui"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [flags] -o <out.lam> <snapshot.lam>...",
	Short: "Merge per-file snapshots into one annotation table",
	Long: `Decode every input snapshot in parallel, rebase their file tables onto
one shared table, merge the annotation maps in input order, and write
the result as a single snapshot. Re-merging an unchanged input set is
served from the disk cache.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringP("output", "o", "", "path for the merged snapshot (required)")
	_ = mergeCmd.MarkFlagRequired("output")
	mergeCmd.Flags().Int("jobs", 0, "max parallel snapshot decoders (0=auto)")
	mergeCmd.Flags().Bool("no-cache", false, "skip the on-disk merge cache")
	mergeCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	useColor, err := readColorFlag(cmd)
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := driver.MergeOptions{Jobs: jobs}
	if !noCache {
		dc, err := cache.OpenDiskCache(cacheAppName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: disk cache unavailable: %v\n", err)
		} else {
			opts.Cache = dc
		}
	}

	var res *driver.Result
	if shouldUseTUI(mode) {
		res, err = runMergeWithUI(cmd.Context(), "merging annotation snapshots", args, outPath, opts)
	} else {
		opts.Events = plainSink(os.Stdout, useColor)
		res, err = driver.Merge(cmd.Context(), args, opts)
		if err == nil {
			err = driver.WriteMerged(outPath, res, opts.Events)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "merged %d snapshots into %s (%d annotations, %d files)\n",
		len(args), outPath, res.Map.Len(), res.Set.Len())
	if res.CacheHit {
		fmt.Fprintf(os.Stdout, "reused cached merge %s\n", res.Key.String()[:12])
	}
	if showTimings && res.Timings != nil {
		fmt.Fprintln(os.Stdout, res.Timings.Summary())
	}
	return nil
}

type mergeOutcome struct {
	result *driver.Result
	err    error
}

// runMergeWithUI drives the merge behind a progress TUI. The pipeline
// runs in its own goroutine and feeds the model through an event
// channel; closing the channel tells the model to quit.
func runMergeWithUI(ctx context.Context, title string, inputs []string, outPath string, opts driver.MergeOptions) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan mergeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = func(e driver.Event) { events <- e }
		res, err := driver.Merge(ctx, inputs, optsCopy)
		if err == nil {
			err = driver.WriteMerged(outPath, res, optsCopy.Events)
		}
		outcomeCh <- mergeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, inputs, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// plainSink prints one line per finished stage. Decode events arrive
// from worker goroutines, so printing is serialized with a mutex.
func plainSink(out io.Writer, useColor bool) driver.Sink {
	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed, color.Bold)
	paint := func(c *color.Color, s string) string {
		if !useColor {
			return s
		}
		return c.Sprint(s)
	}

	var mu sync.Mutex
	return func(e driver.Event) {
		mu.Lock()
		defer mu.Unlock()
		switch e.Status {
		case driver.StatusError:
			fmt.Fprintf(out, "%s  %s: %v\n", paint(failColor, fmt.Sprintf("%8s", "failed")), e.Path, e.Err)
		case driver.StatusDone:
			fmt.Fprintf(out, "%s  %s\n", paint(okColor, fmt.Sprintf("%8s", stageVerb(e.Stage))), e.Path)
		}
	}
}

func stageVerb(stage driver.Stage) string {
	switch stage {
	case driver.StageDecode:
		return "decoded"
	case driver.StageMerge:
		return "merged"
	case driver.StageWrite:
		return "wrote"
	default:
		return "done"
	}
}
