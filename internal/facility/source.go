package facility

import (
	"context"
	"fmt"
	"os"

	"address-resolver/internal/models"

	"gopkg.in/yaml.v3"
)

// Source loads a facility table from wherever it is kept
type Source interface {
	LoadFacilities(ctx context.Context) (models.FacilityTable, error)
}

// Load reads the table from src once and builds a Directory from it
func Load(ctx context.Context, src Source) (*Directory, error) {
	table, err := src.LoadFacilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("facility: load: %w", err)
	}
	return New(table)
}

// FileSource reads a facility table from a YAML file
type FileSource struct {
	Path string
}

// LoadFacilities implements Source
func (s FileSource) LoadFacilities(_ context.Context) (models.FacilityTable, error) {
	return LoadFile(s.Path)
}

// LoadFile decodes a YAML facility table keyed by directory name
func LoadFile(path string) (models.FacilityTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("facility: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var table models.FacilityTable
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("facility: decode %s: %w", path, err)
	}
	return table, nil
}
