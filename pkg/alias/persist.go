package alias

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openlegis/amendmap/pkg/constants"
	"github.com/openlegis/amendmap/pkg/errors"
)

// Load reads a human-curated alias map from a JSON object file
// ({"raw observed name": "canonical roster name"}). A missing file yields an
// empty store: aliases are an accelerator, not a required input.
func Load(path string) (*Store, error) {
	s := NewStore()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	s.Merge(m)
	s.added = 0 // loaded entries are not "new"
	return s, nil
}

// LoadLedger seeds the store with a previously published unmatched ledger
// (a JSON array of entries). The ledger grows across runs: entries are never
// dropped just because today's input no longer contains their records. A
// missing file seeds nothing.
func (s *Store) LoadLedger(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapIO("read", path, err)
	}
	var entries []LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.WrapParse("json", path, err)
	}
	s.SeedUnmatched(entries)
	return nil
}

// Save writes the alias map back to path as pretty-printed JSON. The ledger
// is saved separately by the artifact writer; the alias file stays a flat
// object so humans can edit it.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(s.aliases, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
