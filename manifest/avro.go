package manifest

import (
	"bytes"
	"fmt"

	"github.com/hamba/avro/v2/ocf"
)

// avroManifestFile mirrors the manifest_file record. Fields of the writer
// schema without a tag here are skipped while decoding.
type avroManifestFile struct {
	ManifestPath    string `avro:"manifest_path"`
	ManifestLength  int64  `avro:"manifest_length"`
	PartitionSpecID int32  `avro:"partition_spec_id"`
	Content         int32  `avro:"content"`
}

type avroDataFile struct {
	FilePath string `avro:"file_path"`
}

// avroEntry mirrors the manifest_entry record
type avroEntry struct {
	Status   int32        `avro:"status"`
	DataFile avroDataFile `avro:"data_file"`
}

// AvroParser decodes Avro object container files
type AvroParser struct{}

// NewAvroParser creates a new Avro parser
func NewAvroParser() *AvroParser {
	return &AvroParser{}
}

// ParseManifestList implements Parser
func (p *AvroParser) ParseManifestList(data []byte, version FormatVersion) ([]ManifestFile, error) {
	dec, err := ocf.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest list: %w", err)
	}

	var files []ManifestFile
	for dec.HasNext() {
		var rec avroManifestFile
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode manifest list entry %d: %w", len(files), err)
		}
		if rec.ManifestPath == "" {
			return nil, fmt.Errorf("manifest list entry %d has no manifest_path", len(files))
		}

		mf := ManifestFile{
			Path:            rec.ManifestPath,
			Length:          rec.ManifestLength,
			PartitionSpecID: rec.PartitionSpecID,
		}
		if version >= V2 {
			mf.Content = Content(rec.Content)
		}
		files = append(files, mf)
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("failed to read manifest list: %w", err)
	}

	return files, nil
}

// ParseManifest implements Parser
func (p *AvroParser) ParseManifest(data []byte) ([]Entry, error) {
	dec, err := ocf.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}

	var entries []Entry
	for dec.HasNext() {
		var rec avroEntry
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode manifest entry %d: %w", len(entries), err)
		}

		status := Status(rec.Status)
		if status < StatusExisting || status > StatusDeleted {
			return nil, fmt.Errorf("manifest entry %d has unknown status %d", len(entries), rec.Status)
		}
		entries = append(entries, Entry{Status: status, DataFilePath: rec.DataFile.FilePath})
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return entries, nil
}

var _ Parser = (*AvroParser)(nil)
