// Package geometry joins aggregated district totals onto a GeoJSON feature
// collection by normalized district key and reports match diagnostics.
//
// Geometry payloads are carried opaquely as raw JSON: the merge reads and
// writes feature properties only and never interprets coordinates.
package geometry

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openlegis/amendmap/pkg/constants"
	"github.com/openlegis/amendmap/pkg/errors"
)

// Feature is one GeoJSON feature. Properties are preserved as-is apart from
// the injected total.
type Feature struct {
	Type       string          `json:"type"`
	ID         any             `json:"id,omitempty"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// Load reads a GeoJSON feature collection from disk.
func Load(path string) (*FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return &fc, nil
}

// Save writes the feature collection to disk.
func (fc *FeatureCollection) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	return errors.WrapIO("write", path, os.WriteFile(path, data, constants.FilePermissions))
}
