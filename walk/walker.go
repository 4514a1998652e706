package walk

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gobeaver/icekit"
	"github.com/gobeaver/icekit/manifest"
	"github.com/rs/zerolog"
)

// Snapshot is the part of a table snapshot the walk needs
type Snapshot interface {
	ManifestListLocation() string
}

// Walker walks snapshot file trees over a store.
// A Walker holds no per-walk state and may be reused.
type Walker struct {
	store  icekit.FileReader
	parser manifest.Parser

	manifestWidth int
	probeWidth    int
	probeRetries  int
	retryBackoff  time.Duration
	batched       bool

	log zerolog.Logger
}

// New creates a walker reading from store. Batched verification is used
// when store implements icekit.CanResolveLister.
func New(store icekit.FileReader, parser manifest.Parser, options ...Option) *Walker {
	w := &Walker{
		store:         store,
		parser:        parser,
		manifestWidth: DefaultManifestConcurrency,
		probeWidth:    DefaultProbeConcurrency,
		retryBackoff:  DefaultRetryBackoff,
		batched:       true,
		log:           zerolog.Nop(),
	}

	for _, option := range options {
		option(w)
	}

	return w
}

// Walk returns the lazy sequence of files for snap: the manifest list, then
// each manifest followed by its live data files, in manifest-list and entry
// order. With verify set, every data file carries its existence.
//
// A fetch or parse failure of the manifest list or a manifest ends the
// sequence with that error. A failing existence probe is not fatal; the
// file is reported missing. The strategy is chosen once, on first
// iteration.
func (w *Walker) Walk(ctx context.Context, snap Snapshot, version manifest.FormatVersion, verify bool) iter.Seq2[FileRecord, error] {
	return func(yield func(FileRecord, error) bool) {
		location := snap.ManifestListLocation()
		if verify && w.batched {
			if _, ok := w.lister(ctx, location); ok {
				w.log.Debug().Str("manifest_list", location).Msg("using batched verification")
				w.walkBatched(ctx, location, version, yield)
				return
			}
			w.log.Debug().Str("manifest_list", location).Msg("store cannot list, probing data files one by one")
		}
		w.walkStreaming(ctx, location, version, verify, yield)
	}
}

func (w *Walker) walkStreaming(ctx context.Context, location string, version manifest.FormatVersion, verify bool, yield func(FileRecord, error) bool) {
	exists := implied(verify)
	if !yield(FileRecord{Kind: KindManifestList, Path: location, Exists: exists}, nil) {
		return
	}

	files, err := w.readManifestList(ctx, location, version)
	if err != nil {
		yield(FileRecord{}, err)
		return
	}

	checker := NewDirectChecker(w.store)
	for m, err := range w.manifests(ctx, files) {
		if err != nil {
			yield(FileRecord{}, err)
			return
		}
		if !yield(FileRecord{Kind: KindManifest, Path: m.path, Exists: exists}, nil) {
			return
		}

		paths := manifest.LiveEntries(m.entries)
		if !verify {
			for _, path := range paths {
				if !yield(FileRecord{Kind: KindData, Path: path}, nil) {
					return
				}
			}
			continue
		}

		for rec, err := range w.probe(ctx, checker, paths) {
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

type manifestResult struct {
	path    string
	entries []manifest.Entry
}

func (w *Walker) readManifestList(ctx context.Context, location string, version manifest.FormatVersion) ([]manifest.ManifestFile, error) {
	data, err := w.store.ReadAll(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest list %s: %w", location, err)
	}
	files, err := w.parser.ParseManifestList(data, version)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest list %s: %w", location, err)
	}
	return files, nil
}

func (w *Walker) readManifest(ctx context.Context, location string) (manifestResult, error) {
	data, err := w.store.ReadAll(ctx, location)
	if err != nil {
		return manifestResult{}, fmt.Errorf("failed to read manifest %s: %w", location, err)
	}
	entries, err := w.parser.ParseManifest(data)
	if err != nil {
		return manifestResult{}, fmt.Errorf("failed to parse manifest %s: %w", location, err)
	}
	return manifestResult{path: location, entries: entries}, nil
}

// manifests fetches and parses manifests ahead of the consumer, in order
func (w *Walker) manifests(ctx context.Context, files []manifest.ManifestFile) iter.Seq2[manifestResult, error] {
	return ordered(ctx, len(files), w.manifestWidth, func(ctx context.Context, i int) (manifestResult, error) {
		return w.readManifest(ctx, files[i].Path)
	})
}

// probe resolves existence for paths, in order. Cancelling ctx ends the
// sequence with the context error rather than reporting files missing.
func (w *Walker) probe(ctx context.Context, checker ExistenceChecker, paths []string) iter.Seq2[FileRecord, error] {
	return func(yield func(FileRecord, error) bool) {
		seq := ordered(ctx, len(paths), w.probeWidth, func(ctx context.Context, i int) (FileRecord, error) {
			return FileRecord{Kind: KindData, Path: paths[i], Exists: boolPtr(w.exists(ctx, checker, paths[i]))}, nil
		})
		for rec := range seq {
			if err := ctx.Err(); err != nil {
				yield(FileRecord{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// exists asks checker about path, retrying failures. A probe that still
// fails counts as a missing file.
func (w *Walker) exists(ctx context.Context, checker ExistenceChecker, path string) bool {
	var found bool
	probe := func() error {
		var err error
		found, err = checker.Exists(ctx, path)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newLinearBackOff(w.retryBackoff), uint64(w.probeRetries)), ctx)
	err := backoff.RetryNotify(probe, policy, func(err error, wait time.Duration) {
		w.log.Debug().Err(err).Str("path", path).Dur("wait", wait).Msg("existence check failed, retrying")
	})
	if err == nil {
		return found
	}

	if ctx.Err() == nil {
		w.log.Warn().Err(err).Str("path", path).Int("retries", w.probeRetries).
			Msg("existence check failed, counting file as missing")
	}
	return false
}

// linearBackOff waits step, 2*step, 3*step and so on between attempts
type linearBackOff struct {
	step    time.Duration
	attempt int64
}

func newLinearBackOff(step time.Duration) *linearBackOff {
	return &linearBackOff{step: step}
}

// NextBackOff implements backoff.BackOff
func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.step * time.Duration(b.attempt)
}

// Reset implements backoff.BackOff
func (b *linearBackOff) Reset() {
	b.attempt = 0
}

func (w *Walker) lister(ctx context.Context, location string) (icekit.CanListKeys, bool) {
	resolver, ok := w.store.(icekit.CanResolveLister)
	if !ok {
		return nil, false
	}
	return resolver.Lister(ctx, location)
}
