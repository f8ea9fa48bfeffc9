// Package driver merges per-file annotation snapshots into one
// queryable table: parallel decode, file table union, ordered merge,
// a single final sort. Merged results round-trip through the disk
// cache keyed by the combined input digests.
package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lark/internal/annot"
	"lark/internal/cache"
	"lark/internal/source"
)

// ErrStaleSnapshot indicates two inputs recorded the same file path
// with different content hashes, usually a partially rebuilt project.
var ErrStaleSnapshot = errors.New("conflicting file hashes across snapshots")

// MergeOptions configures a merge run.
type MergeOptions struct {
	Jobs   int              // decode workers, <= 0 means GOMAXPROCS
	Cache  *cache.DiskCache // nil disables caching
	Events Sink             // nil disables progress reporting
}

// Result is a completed merge.
type Result struct {
	Set      *source.FileSet
	Map      *annot.Map
	Modules  []string
	Payload  *cache.Payload
	Key      cache.Digest
	CacheHit bool
	Timings  *Timings
}

// MergeAll rebases every snapshot onto a shared file table and merges
// the annotation maps in input order, then sorts once. Snapshots that
// disagree on a file's content hash abort the merge.
func MergeAll(fset *source.FileSet, snaps []Snapshot, sink Sink) (*annot.Map, []string, error) {
	merged := annot.New(nil)
	var modules []string
	seen := make(map[string]bool, len(snaps))

	for _, snap := range snaps {
		sink.emit(Event{Path: snap.Path, Stage: StageMerge, Status: StatusWorking})

		remap := make(map[source.FileID]source.FileID, len(snap.Files))
		for i, meta := range snap.Files {
			id := fset.AddMeta(meta.Path, meta.Hash)
			if file := fset.Get(id); file.Hash != [32]byte(meta.Hash) {
				err := fmt.Errorf("%w: %s in %s", ErrStaleSnapshot, meta.Path, snap.Path)
				sink.emit(Event{Path: snap.Path, Stage: StageMerge, Status: StatusError, Err: err})
				return nil, nil, err
			}
			remap[source.FileID(i)] = id
		}

		snap.Map.Rebase(remap)
		merged.Merge(snap.Map)

		if snap.Module != "" && !seen[snap.Module] {
			seen[snap.Module] = true
			modules = append(modules, snap.Module)
		}
		sink.emit(Event{Path: snap.Path, Stage: StageMerge, Status: StatusDone})
	}

	merged.Sort()
	return merged, modules, nil
}

// Merge runs the full pipeline: load, cache probe, merge, encode.
// Cache failures are not fatal, the driver just merges for real.
func Merge(ctx context.Context, paths []string, opts MergeOptions) (*Result, error) {
	timings := NewTimings()

	idx := timings.Begin("load")
	snaps, err := LoadSnapshots(ctx, paths, opts.Jobs, opts.Events)
	if err != nil {
		return nil, err
	}
	timings.End(idx, fmt.Sprintf("%d snapshots", len(snaps)))

	digests := make([]cache.Digest, len(snaps))
	for i, snap := range snaps {
		digests[i] = snap.Digest
	}
	key := cache.Combine(digests...)

	if opts.Cache != nil {
		idx = timings.Begin("cache")
		var payload cache.Payload
		hit, err := opts.Cache.Get(key, &payload)
		note := "miss"
		if hit {
			note = "hit"
		}
		timings.End(idx, note)
		if err == nil && hit {
			res, err := resultFromPayload(&payload, key, timings)
			if err == nil {
				markMergeSkipped(snaps, opts.Events)
				return res, nil
			}
		}
	}

	idx = timings.Begin("merge")
	fset := source.NewFileSet()
	merged, modules, err := MergeAll(fset, snaps, opts.Events)
	if err != nil {
		return nil, err
	}
	timings.End(idx, fmt.Sprintf("%d entries", merged.Len()))

	idx = timings.Begin("encode")
	files := make([]cache.FileMeta, 0, fset.Len())
	for _, f := range fset.Files() {
		files = append(files, cache.FileMeta{Path: f.Path, Hash: f.Hash})
	}
	payload, err := cache.Encode(strings.Join(modules, ","), files, merged)
	if err != nil {
		return nil, err
	}
	timings.End(idx, "")

	if opts.Cache != nil {
		_ = opts.Cache.Put(key, payload)
	}

	return &Result{
		Set:     fset,
		Map:     merged,
		Modules: modules,
		Payload: payload,
		Key:     key,
		Timings: timings,
	}, nil
}

// WriteMerged writes the merged payload as a snapshot file.
func WriteMerged(path string, res *Result, sink Sink) error {
	sink.emit(Event{Path: path, Stage: StageWrite, Status: StatusWorking})
	if err := cache.WriteFile(path, res.Payload); err != nil {
		sink.emit(Event{Path: path, Stage: StageWrite, Status: StatusError, Err: err})
		return err
	}
	sink.emit(Event{Path: path, Stage: StageWrite, Status: StatusDone})
	return nil
}

func resultFromPayload(payload *cache.Payload, key cache.Digest, timings *Timings) (*Result, error) {
	m, err := cache.Decode(payload)
	if err != nil {
		return nil, err
	}
	m.Sort()

	fset := source.NewFileSet()
	for _, meta := range payload.Files {
		fset.AddMeta(meta.Path, meta.Hash)
	}

	var modules []string
	if payload.Module != "" {
		modules = strings.Split(payload.Module, ",")
	}
	return &Result{
		Set:      fset,
		Map:      m,
		Modules:  modules,
		Payload:  payload,
		Key:      key,
		CacheHit: true,
		Timings:  timings,
	}, nil
}

func markMergeSkipped(snaps []Snapshot, sink Sink) {
	for _, snap := range snaps {
		sink.emit(Event{Path: snap.Path, Stage: StageMerge, Status: StatusDone})
	}
}
