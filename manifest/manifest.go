// Package manifest decodes the manifest list and manifest files a table
// snapshot is made of.
package manifest

import "fmt"

// FormatVersion is the table format version from table metadata.
// Version 1 manifest lists carry no content type.
type FormatVersion int

// Supported format versions
const (
	V1 FormatVersion = 1
	V2 FormatVersion = 2
)

// Content describes what a manifest tracks
type Content int32

const (
	ContentData    Content = 0
	ContentDeletes Content = 1
)

// ManifestFile is one entry of a manifest list
type ManifestFile struct {
	Path            string
	Length          int64
	PartitionSpecID int32
	Content         Content
}

// Status is the lifecycle status of a manifest entry relative to the
// snapshot that wrote the manifest.
type Status int32

const (
	StatusExisting Status = 0
	StatusAdded    Status = 1
	StatusDeleted  Status = 2
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusExisting:
		return "existing"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Entry is one data file reference inside a manifest
type Entry struct {
	Status       Status
	DataFilePath string
}

// Live reports whether the entry names a file that must currently exist.
// Deleted entries are no longer part of the snapshot's file set.
func (e Entry) Live() bool {
	return e.Status == StatusAdded || e.Status == StatusExisting
}

// Parser decodes manifest list and manifest payloads
type Parser interface {
	ParseManifestList(data []byte, version FormatVersion) ([]ManifestFile, error)
	ParseManifest(data []byte) ([]Entry, error)
}

// LiveEntries returns the data file paths of the live entries, in order.
func LiveEntries(entries []Entry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Live() {
			paths = append(paths, e.DataFilePath)
		}
	}
	return paths
}
