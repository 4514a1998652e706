// Package walk discovers and verifies the files a table snapshot is made
// of. It walks the manifest list, every manifest and every live data file,
// yielding one FileRecord per file in a stable order.
package walk

import "fmt"

// FileKind classifies a file of the snapshot tree
type FileKind int

const (
	KindMetadata FileKind = iota
	KindManifestList
	KindManifest
	KindData
)

// String returns the kebab-case kind name used in output
func (k FileKind) String() string {
	switch k {
	case KindMetadata:
		return "metadata"
	case KindManifestList:
		return "manifest-list"
	case KindManifest:
		return "manifest"
	case KindData:
		return "data"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler
func (k FileKind) MarshalText() ([]byte, error) {
	switch k {
	case KindMetadata, KindManifestList, KindManifest, KindData:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown file kind %d", int(k))
	}
}

// FileRecord is one file of the snapshot tree. Exists is nil when
// existence was not checked.
type FileRecord struct {
	Kind   FileKind `json:"type"`
	Path   string   `json:"path"`
	Exists *bool    `json:"exists,omitempty"`
}

// Missing reports whether the record was checked and found absent
func (r FileRecord) Missing() bool {
	return r.Exists != nil && !*r.Exists
}

func boolPtr(b bool) *bool {
	return &b
}

// implied is the existence reported for files the walk had to read anyway
func implied(verify bool) *bool {
	if verify {
		return boolPtr(true)
	}
	return nil
}
