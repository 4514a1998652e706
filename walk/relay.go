package walk

import (
	"iter"

	"github.com/cespare/xxhash/v2"
	"github.com/gobeaver/icekit"
)

// Summary counts what a relayed walk produced
type Summary struct {
	Records   int    `json:"records"`
	Manifests int    `json:"manifests"`
	DataFiles int    `json:"data_files"`
	Missing   int    `json:"missing"`
	Digest    uint64 `json:"digest"`
}

// Relay forwards every record of seq to sink and counts missing data files.
// It stops at the first error from seq or sink. When verify is set and any
// file is missing, Relay returns *icekit.ValidationError after the whole
// sequence was delivered.
//
// Digest hashes the records in order, so two walks of the same snapshot
// can be compared.
func Relay(seq iter.Seq2[FileRecord, error], verify bool, sink func(FileRecord) error) (Summary, error) {
	var s Summary
	h := xxhash.New()

	for rec, err := range seq {
		if err != nil {
			s.Digest = h.Sum64()
			return s, err
		}

		s.Records++
		switch rec.Kind {
		case KindManifest:
			s.Manifests++
		case KindData:
			s.DataFiles++
			if rec.Missing() {
				s.Missing++
			}
		}
		hashRecord(h, rec)

		if err := sink(rec); err != nil {
			s.Digest = h.Sum64()
			return s, err
		}
	}

	s.Digest = h.Sum64()
	if verify && s.Missing > 0 {
		return s, &icekit.ValidationError{Missing: s.Missing}
	}
	return s, nil
}

func hashRecord(h *xxhash.Digest, rec FileRecord) {
	_, _ = h.WriteString(rec.Kind.String())
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(rec.Path)
	switch {
	case rec.Exists == nil:
		_, _ = h.Write([]byte{0, '-', '\n'})
	case *rec.Exists:
		_, _ = h.Write([]byte{0, '1', '\n'})
	default:
		_, _ = h.Write([]byte{0, '0', '\n'})
	}
}
