// Package snapshot implements the chain's tail provider: the raw record set
// a previous successful run wrote to disk. It also rewrites that snapshot
// after any fresher provider succeeds, so the tail never goes stale while a
// live source works.
package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openlegis/amendmap/pkg/constants"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
	"github.com/openlegis/amendmap/pkg/record"
)

// ProviderID identifies this provider in chain outcomes.
const ProviderID = "snapshot"

// Provider serves the last known-good raw record set.
type Provider struct {
	path string
}

// New creates a snapshot provider over path.
func New(path string) *Provider {
	return &Provider{path: path}
}

// ID implements sources.Provider.
func (p *Provider) ID() string { return ProviderID }

// Fetch loads the snapshot and filters it to the requested year. Snapshots
// are whole-run captures; a year mismatch means the snapshot predates this
// session and is useless for it.
func (p *Provider) Fetch(ctx context.Context, year int) ([]record.Raw, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, errors.WrapIO("read", p.path, err)
	}

	var all []record.Raw
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, errors.WrapParse("json", p.path, err)
	}

	out := all[:0:0]
	for _, rec := range all {
		if rec.Year == year || rec.Year == 0 {
			out = append(out, rec)
		}
	}

	logging.Warn().
		Str("file", p.path).
		Int("records", len(out)).
		Msg("Serving last known-good snapshot")
	return out, nil
}

// Write replaces the snapshot with a fresh record set. Written via a temp
// file and rename so a crash mid-write cannot corrupt the chain's tail.
func Write(path string, records []record.Raw) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return errors.WrapParse("json", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
