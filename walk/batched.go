package walk

import (
	"context"
	"fmt"

	"github.com/gobeaver/icekit/manifest"
	"github.com/sourcegraph/conc/stream"
)

// walkBatched reads every manifest first, lists the data files' common
// prefix once and then answers existence from that listing. Nothing is
// yielded until the listing is done.
func (w *Walker) walkBatched(ctx context.Context, location string, version manifest.FormatVersion, yield func(FileRecord, error) bool) {
	files, err := w.readManifestList(ctx, location, version)
	if err != nil {
		yield(FileRecord{}, err)
		return
	}

	records := []FileRecord{{Kind: KindManifestList, Path: location, Exists: boolPtr(true)}}
	paths, err := w.collect(ctx, files, func(path string) {
		records = append(records, FileRecord{Kind: KindManifest, Path: path, Exists: boolPtr(true)})
	})
	if err != nil {
		yield(FileRecord{}, err)
		return
	}

	preloaded, err := w.preload(ctx, paths)
	if err != nil {
		yield(FileRecord{}, err)
		return
	}

	for _, rec := range records {
		if !yield(rec, nil) {
			return
		}
	}

	if preloaded == nil {
		for rec, err := range w.probe(ctx, NewDirectChecker(w.store), paths) {
			if !yield(rec, err) || err != nil {
				return
			}
		}
		return
	}

	for _, path := range paths {
		found, _ := preloaded.Exists(ctx, path)
		if !yield(FileRecord{Kind: KindData, Path: path, Exists: boolPtr(found)}, nil) {
			return
		}
	}
}

// collect reads all manifests with bounded concurrency and returns their
// live data file paths in manifest-list and entry order. onManifest runs
// once per manifest, in order. The first failure in list order is returned.
func (w *Walker) collect(ctx context.Context, files []manifest.ManifestFile, onManifest func(path string)) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		paths    []string
		firstErr error
	)

	s := stream.New().WithMaxGoroutines(w.manifestWidth)
	for _, f := range files {
		s.Go(func() stream.Callback {
			m, err := w.readManifest(ctx, f.Path)
			return func() {
				if firstErr != nil {
					return
				}
				if err != nil {
					firstErr = err
					cancel()
					return
				}
				onManifest(m.path)
				paths = append(paths, manifest.LiveEntries(m.entries)...)
			}
		})
	}
	s.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return paths, nil
}

// preload lists the common prefix of paths. A nil checker with a nil error
// means the listing does not apply and files must be probed directly.
func (w *Walker) preload(ctx context.Context, paths []string) (*PreloadedChecker, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	prefix, ok := CommonPrefix(paths)
	if !ok {
		w.log.Debug().Int("files", len(paths)).Msg("data files have no common prefix, probing one by one")
		return nil, nil
	}

	lister, ok := w.lister(ctx, prefix.String())
	if !ok {
		w.log.Debug().Str("prefix", prefix.String()).Msg("data bucket cannot list, probing one by one")
		return nil, nil
	}

	preloaded, err := Preload(ctx, lister, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	w.log.Debug().Str("prefix", prefix.String()).Int("keys", preloaded.Len()).Int("files", len(paths)).
		Msg("listed data files")
	return preloaded, nil
}
