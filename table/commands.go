package table

import (
	"context"
	"fmt"
	"iter"
	"strconv"

	"github.com/gobeaver/icekit"
	"github.com/gobeaver/icekit/output"
	"github.com/gobeaver/icekit/walk"
)

// Current selects the table's current schema or snapshot
const Current = "current"

// Commands runs the inspection commands against one table
type Commands struct {
	table  *Table
	out    *output.Terminal
	walker *walk.Walker
}

// NewCommands creates the command set for t. walker is only needed by
// SnapshotFiles.
func NewCommands(t *Table, out *output.Terminal, walker *walk.Walker) *Commands {
	return &Commands{table: t, out: out, walker: walker}
}

// Metadata prints the table metadata
func (c *Commands) Metadata() error {
	return c.out.DisplayObject(c.table.Metadata)
}

// Schemas prints every schema, one per line
func (c *Commands) Schemas() error {
	return output.DisplaySeq(c.out, each(c.table.Metadata.Schemas))
}

// Schema prints one schema by id or "current"
func (c *Commands) Schema(id string) error {
	schema, err := c.schema(id)
	if err != nil {
		return err
	}
	return c.out.DisplayObject(schema)
}

// Snapshots prints every snapshot, one per line
func (c *Commands) Snapshots() error {
	return output.DisplaySeq(c.out, each(c.table.Metadata.Snapshots))
}

// Snapshot prints one snapshot by id or "current"
func (c *Commands) Snapshot(id string) error {
	snapshot, err := c.snapshot(id)
	if err != nil {
		return err
	}
	return c.out.DisplayObject(snapshot)
}

// FilesOptions controls SnapshotFiles
type FilesOptions struct {
	// Verify checks that every data file exists
	Verify bool
	// IncludeMetadata starts the listing with the table metadata file
	IncludeMetadata bool
	// Summary prints counts and the record digest after the listing
	Summary bool
}

// SnapshotFiles prints every file of a snapshot, one record per line.
// With Verify set, missing data files make it return
// *icekit.ValidationError once all records were printed.
func (c *Commands) SnapshotFiles(ctx context.Context, id string, opts FilesOptions) (walk.Summary, error) {
	snapshot, err := c.snapshot(id)
	if err != nil {
		return walk.Summary{}, err
	}
	if snapshot.ManifestList == "" {
		return walk.Summary{}, fmt.Errorf("snapshot %d has no manifest list", snapshot.ID)
	}

	seq := c.walker.Walk(ctx, snapshot, c.table.Metadata.Version(), opts.Verify)
	if opts.IncludeMetadata {
		seq = withMetadata(c.table.MetadataLocation, opts.Verify, seq)
	}

	summary, err := walk.Relay(seq, opts.Verify, func(rec walk.FileRecord) error {
		return c.out.DisplayLine(rec)
	})
	if opts.Summary && (err == nil || icekit.IsExpected(err)) {
		if serr := c.out.DisplayLine(summaryLine(summary)); serr != nil {
			return summary, serr
		}
	}
	return summary, err
}

func (c *Commands) schema(id string) (*Schema, error) {
	m := c.table.Metadata

	var schemaID int32
	if id == Current {
		schemaID = m.CurrentSchemaID
	} else {
		n, err := strconv.ParseInt(id, 10, 32)
		if err != nil {
			return nil, icekit.UserInputf("Schema ID must be an integer")
		}
		schemaID = int32(n)
	}

	schema, ok := m.SchemaByID(schemaID)
	if !ok {
		return nil, icekit.UserInputf("Schema %d not found", schemaID)
	}
	return schema, nil
}

func (c *Commands) snapshot(id string) (*Snapshot, error) {
	m := c.table.Metadata

	var snapshotID int64
	if id == Current {
		if m.CurrentSnapshotID == nil {
			return nil, icekit.UserInputf("Table has no current snapshot")
		}
		snapshotID = *m.CurrentSnapshotID
	} else {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, icekit.UserInputf("Snapshot ID must be an integer")
		}
		snapshotID = n
	}

	snapshot, ok := m.SnapshotByID(snapshotID)
	if !ok {
		return nil, icekit.UserInputf("Snapshot %d not found", snapshotID)
	}
	return snapshot, nil
}

type summaryJSON struct {
	Records   int    `json:"records"`
	Manifests int    `json:"manifests"`
	DataFiles int    `json:"data_files"`
	Missing   int    `json:"missing"`
	Digest    string `json:"digest"`
}

func summaryLine(s walk.Summary) summaryJSON {
	return summaryJSON{
		Records:   s.Records,
		Manifests: s.Manifests,
		DataFiles: s.DataFiles,
		Missing:   s.Missing,
		Digest:    fmt.Sprintf("%016x", s.Digest),
	}
}

// withMetadata yields a record for the metadata file ahead of seq
func withMetadata(location string, verify bool, seq iter.Seq2[walk.FileRecord, error]) iter.Seq2[walk.FileRecord, error] {
	return func(yield func(walk.FileRecord, error) bool) {
		rec := walk.FileRecord{Kind: walk.KindMetadata, Path: location}
		if verify {
			exists := true
			rec.Exists = &exists
		}
		if !yield(rec, nil) {
			return
		}
		for r, err := range seq {
			if !yield(r, err) {
				return
			}
		}
	}
}

func each[T any](items []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}
