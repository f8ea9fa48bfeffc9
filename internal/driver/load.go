package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"lark/internal/annot"
	"lark/internal/cache"
)

// Snapshot is one decoded .lam input.
type Snapshot struct {
	Path   string
	Module string
	Digest cache.Digest
	Files  []cache.FileMeta
	Map    *annot.Map
}

// LoadSnapshots reads and decodes snapshot files in parallel. Results
// keep the input order regardless of completion order. jobs <= 0 means
// one worker per CPU.
func LoadSnapshots(ctx context.Context, paths []string, jobs int, sink Sink) ([]Snapshot, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	for _, path := range paths {
		sink.emit(Event{Path: path, Stage: StageDecode, Status: StatusQueued})
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns a distinct index, so the slice needs no lock.
	results := make([]Snapshot, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			sink.emit(Event{Path: path, Stage: StageDecode, Status: StatusWorking})

			payload, digest, err := cache.ReadFile(path)
			if err != nil {
				sink.emit(Event{Path: path, Stage: StageDecode, Status: StatusError, Err: err})
				return fmt.Errorf("%s: %w", path, err)
			}
			m, err := cache.Decode(payload)
			if err != nil {
				sink.emit(Event{Path: path, Stage: StageDecode, Status: StatusError, Err: err})
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = Snapshot{
				Path:   path,
				Module: payload.Module,
				Digest: digest,
				Files:  payload.Files,
				Map:    m,
			}
			sink.emit(Event{Path: path, Stage: StageDecode, Status: StatusDone})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
