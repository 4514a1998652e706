// Package table loads table metadata and implements the commands that
// inspect it.
package table

import (
	"fmt"

	"github.com/gobeaver/icekit/manifest"
	"github.com/goccy/go-json"
)

// Schema is one schema of the table. It renders as the JSON it was parsed from.
type Schema struct {
	ID  int32
	raw json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Schema) UnmarshalJSON(data []byte) error {
	var head struct {
		ID int32 `json:"schema-id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	s.ID = head.ID
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON implements json.Marshaler
func (s Schema) MarshalJSON() ([]byte, error) {
	return s.raw, nil
}

// Snapshot is one snapshot of the table. It renders as the JSON it was parsed from.
type Snapshot struct {
	ID           int64
	ManifestList string
	raw          json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var head struct {
		ID           int64  `json:"snapshot-id"`
		ManifestList string `json:"manifest-list"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	s.ID = head.ID
	s.ManifestList = head.ManifestList
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON implements json.Marshaler
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return s.raw, nil
}

// ManifestListLocation returns where the snapshot's manifest list lives
func (s *Snapshot) ManifestListLocation() string {
	return s.ManifestList
}

// Metadata is a parsed table metadata file. Only the fields the commands
// need are decoded; it renders as the JSON it was parsed from.
type Metadata struct {
	FormatVersion     int
	Location          string
	CurrentSchemaID   int32
	CurrentSnapshotID *int64
	Schemas           []Schema
	Snapshots         []Snapshot

	raw json.RawMessage
}

type metadataJSON struct {
	FormatVersion     int        `json:"format-version"`
	Location          string     `json:"location"`
	CurrentSchemaID   *int32     `json:"current-schema-id"`
	CurrentSnapshotID *int64     `json:"current-snapshot-id"`
	Schemas           []Schema   `json:"schemas"`
	Schema            *Schema    `json:"schema"`
	Snapshots         []Snapshot `json:"snapshots"`
}

// ParseMetadata decodes a table metadata file.
// Version 1 files with a single "schema" are read as one schema list.
func ParseMetadata(data []byte) (*Metadata, error) {
	var raw metadataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse table metadata: %w", err)
	}

	if raw.FormatVersion < 1 || raw.FormatVersion > 3 {
		return nil, fmt.Errorf("unsupported table format version %d", raw.FormatVersion)
	}

	m := &Metadata{
		FormatVersion: raw.FormatVersion,
		Location:      raw.Location,
		Schemas:       raw.Schemas,
		Snapshots:     raw.Snapshots,
		raw:           append(json.RawMessage(nil), data...),
	}

	if len(m.Schemas) == 0 && raw.Schema != nil {
		m.Schemas = []Schema{*raw.Schema}
	}
	if raw.CurrentSchemaID != nil {
		m.CurrentSchemaID = *raw.CurrentSchemaID
	} else if len(m.Schemas) > 0 {
		m.CurrentSchemaID = m.Schemas[0].ID
	}

	// Older writers use -1 for a table without snapshots
	if raw.CurrentSnapshotID != nil && *raw.CurrentSnapshotID >= 0 {
		m.CurrentSnapshotID = raw.CurrentSnapshotID
	}

	return m, nil
}

// MarshalJSON implements json.Marshaler
func (m *Metadata) MarshalJSON() ([]byte, error) {
	return m.raw, nil
}

// Version returns the format version for manifest decoding
func (m *Metadata) Version() manifest.FormatVersion {
	return manifest.FormatVersion(m.FormatVersion)
}

// SchemaByID finds a schema by id
func (m *Metadata) SchemaByID(id int32) (*Schema, bool) {
	for i := range m.Schemas {
		if m.Schemas[i].ID == id {
			return &m.Schemas[i], true
		}
	}
	return nil, false
}

// SnapshotByID finds a snapshot by id
func (m *Metadata) SnapshotByID(id int64) (*Snapshot, bool) {
	for i := range m.Snapshots {
		if m.Snapshots[i].ID == id {
			return &m.Snapshots[i], true
		}
	}
	return nil, false
}
