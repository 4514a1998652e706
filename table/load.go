package table

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gobeaver/icekit"
)

// VersionHintFile names the file under a table's metadata directory that
// points at the current metadata file.
const VersionHintFile = "version-hint.text"

// Table is a loaded table: its metadata and where it was read from
type Table struct {
	MetadataLocation string
	Metadata         *Metadata
}

// Load reads table metadata from location. A location ending in ".json" is
// read as a metadata file; anything else is taken as the table directory
// and resolved through metadata/version-hint.text.
func Load(ctx context.Context, store icekit.FileReader, location string) (*Table, error) {
	metadataLocation := location
	if !strings.HasSuffix(location, ".json") {
		resolved, err := resolveVersionHint(ctx, store, location)
		if err != nil {
			return nil, err
		}
		metadataLocation = resolved
	}

	data, err := store.ReadAll(ctx, metadataLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to read table metadata %s: %w", metadataLocation, err)
	}

	metadata, err := ParseMetadata(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", metadataLocation, err)
	}

	return &Table{MetadataLocation: metadataLocation, Metadata: metadata}, nil
}

func resolveVersionHint(ctx context.Context, store icekit.FileReader, tableLocation string) (string, error) {
	metadataDir := strings.TrimSuffix(tableLocation, "/") + "/metadata/"

	data, err := store.ReadAll(ctx, metadataDir+VersionHintFile)
	if err != nil {
		if icekit.IsNotExist(err) {
			return "", icekit.UserInputf("no table metadata at %s: expected a metadata file or a table with %s", tableLocation, VersionHintFile)
		}
		return "", fmt.Errorf("failed to read version hint: %w", err)
	}

	hint := strings.TrimSpace(string(data))
	if hint == "" {
		return "", fmt.Errorf("version hint for %s is empty", tableLocation)
	}
	if strings.HasSuffix(hint, ".metadata.json") {
		return metadataDir + hint, nil
	}
	if _, err := strconv.Atoi(hint); err != nil {
		return "", fmt.Errorf("invalid version hint %q for %s", hint, tableLocation)
	}
	return metadataDir + "v" + hint + ".metadata.json", nil
}
