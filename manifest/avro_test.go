package manifest

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/hamba/avro/v2/ocf"
)

const manifestListSchema = `{
	"type": "record",
	"name": "manifest_file",
	"fields": [
		{"name": "manifest_path", "type": "string"},
		{"name": "manifest_length", "type": "long"},
		{"name": "partition_spec_id", "type": "int"},
		{"name": "content", "type": "int"},
		{"name": "sequence_number", "type": "long"},
		{"name": "added_snapshot_id", "type": "long"},
		{"name": "added_files_count", "type": ["null", "int"], "default": null}
	]
}`

type testManifestFile struct {
	ManifestPath    string `avro:"manifest_path"`
	ManifestLength  int64  `avro:"manifest_length"`
	PartitionSpecID int32  `avro:"partition_spec_id"`
	Content         int32  `avro:"content"`
	SequenceNumber  int64  `avro:"sequence_number"`
	AddedSnapshotID int64  `avro:"added_snapshot_id"`
	AddedFilesCount *int32 `avro:"added_files_count"`
}

const manifestSchema = `{
	"type": "record",
	"name": "manifest_entry",
	"fields": [
		{"name": "status", "type": "int"},
		{"name": "snapshot_id", "type": ["null", "long"], "default": null},
		{"name": "data_file", "type": {
			"type": "record",
			"name": "r2",
			"fields": [
				{"name": "content", "type": "int"},
				{"name": "file_path", "type": "string"},
				{"name": "file_format", "type": "string"},
				{"name": "partition", "type": {
					"type": "record",
					"name": "r102",
					"fields": [{"name": "day", "type": ["null", "int"], "default": null}]
				}},
				{"name": "record_count", "type": "long"}
			]
		}}
	]
}`

type testPartition struct {
	Day *int32 `avro:"day"`
}

type testDataFile struct {
	Content     int32         `avro:"content"`
	FilePath    string        `avro:"file_path"`
	FileFormat  string        `avro:"file_format"`
	Partition   testPartition `avro:"partition"`
	RecordCount int64         `avro:"record_count"`
}

type testEntry struct {
	Status     int32        `avro:"status"`
	SnapshotID *int64       `avro:"snapshot_id"`
	DataFile   testDataFile `avro:"data_file"`
}

func encodeOCF(t *testing.T, schema string, records ...any) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := ocf.NewEncoder(schema, &buf)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("failed to encode record: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to close encoder: %v", err)
	}
	return buf.Bytes()
}

func TestParseManifestList(t *testing.T) {
	count := int32(3)
	data := encodeOCF(t, manifestListSchema,
		testManifestFile{ManifestPath: "s3://b/t/metadata/m1.avro", ManifestLength: 100, PartitionSpecID: 0, Content: 0, SequenceNumber: 1, AddedSnapshotID: 7, AddedFilesCount: &count},
		testManifestFile{ManifestPath: "s3://b/t/metadata/m2.avro", ManifestLength: 200, PartitionSpecID: 1, Content: 1, SequenceNumber: 2, AddedSnapshotID: 8},
	)

	p := NewAvroParser()

	t.Run("v2 keeps content", func(t *testing.T) {
		got, err := p.ParseManifestList(data, V2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []ManifestFile{
			{Path: "s3://b/t/metadata/m1.avro", Length: 100, PartitionSpecID: 0, Content: ContentData},
			{Path: "s3://b/t/metadata/m2.avro", Length: 200, PartitionSpecID: 1, Content: ContentDeletes},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("v1 has no content", func(t *testing.T) {
		got, err := p.ParseManifestList(data, V1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, mf := range got {
			if mf.Content != ContentData {
				t.Errorf("expected data content for v1, got %d", mf.Content)
			}
		}
	})

	t.Run("empty list", func(t *testing.T) {
		got, err := p.ParseManifestList(encodeOCF(t, manifestListSchema), V2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no manifests, got %d", len(got))
		}
	})

	t.Run("not avro", func(t *testing.T) {
		if _, err := p.ParseManifestList([]byte("not an avro file"), V2); err == nil {
			t.Error("expected error for non-avro payload")
		}
	})
}

func TestParseManifest(t *testing.T) {
	snap := int64(42)
	day := int32(19000)
	data := encodeOCF(t, manifestSchema,
		testEntry{Status: 1, SnapshotID: &snap, DataFile: testDataFile{FilePath: "s3://b/t/data/a.parquet", FileFormat: "PARQUET", Partition: testPartition{Day: &day}, RecordCount: 10}},
		testEntry{Status: 2, DataFile: testDataFile{FilePath: "s3://b/t/data/b.parquet", FileFormat: "PARQUET", RecordCount: 5}},
		testEntry{Status: 0, DataFile: testDataFile{FilePath: "s3://b/t/data/c.parquet", FileFormat: "PARQUET", RecordCount: 1}},
	)

	got, err := NewAvroParser().ParseManifest(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Entry{
		{Status: StatusAdded, DataFilePath: "s3://b/t/data/a.parquet"},
		{Status: StatusDeleted, DataFilePath: "s3://b/t/data/b.parquet"},
		{Status: StatusExisting, DataFilePath: "s3://b/t/data/c.parquet"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	live := LiveEntries(got)
	wantLive := []string{"s3://b/t/data/a.parquet", "s3://b/t/data/c.parquet"}
	if !reflect.DeepEqual(live, wantLive) {
		t.Errorf("LiveEntries() = %v, want %v", live, wantLive)
	}
}

func TestParseManifestRejectsUnknownStatus(t *testing.T) {
	data := encodeOCF(t, manifestSchema,
		testEntry{Status: 9, DataFile: testDataFile{FilePath: "x", FileFormat: "PARQUET"}},
	)
	if _, err := NewAvroParser().ParseManifest(data); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusExisting, "existing"},
		{StatusAdded, "added"},
		{StatusDeleted, "deleted"},
		{Status(5), "status(5)"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int32(tt.status), got, tt.want)
		}
	}
}
