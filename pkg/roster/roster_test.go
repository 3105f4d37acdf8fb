package roster_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/roster"
)

func TestNewIndexLookups(t *testing.T) {
	idx := roster.NewIndex([]roster.Member{
		{CanonicalName: "Creigh Deeds", District: "SD-25", Chamber: roster.ChamberUpper},
		{CanonicalName: "Luke Torian", District: "52"},
		{CanonicalName: "David Jordan", District: "14"},
		{CanonicalName: "Michael Jordan", District: "77"},
	})

	require.Equal(t, 4, idx.Len())

	m, ok := idx.ByNormalizedName("creigh deeds")
	require.True(t, ok)
	assert.Equal(t, "Creigh Deeds", m.CanonicalName)
	assert.Equal(t, "25", m.District, "district normalized at construction")
	assert.Equal(t, roster.ChamberUpper, m.Chamber)

	m, ok = idx.ByNormalizedName("luke torian")
	require.True(t, ok)
	assert.Equal(t, roster.ChamberLower, m.Chamber, "chamber defaults to lower")

	assert.Len(t, idx.ByLastName("jordan"), 2)
	assert.Empty(t, idx.ByLastName("nobody"))

	m, ok = idx.ByDistrict("HD-52")
	require.True(t, ok)
	assert.Equal(t, "Luke Torian", m.CanonicalName)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.json")
	// District appears both as string and as bare number in real exports.
	payload := `[
		{"delegate_name": "Creigh Deeds", "district": "SD-25", "chamber": "upper"},
		{"delegate_name": "Luke Torian", "district": 52},
		{"delegate_name": "", "district": 1}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	idx, err := roster.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len(), "blank names dropped")

	m, ok := idx.ByNormalizedName("luke torian")
	require.True(t, ok)
	assert.Equal(t, "52", m.District)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	payload := "- delegate_name: Creigh Deeds\n  district: SD-25\n- delegate_name: Luke Torian\n  district: 52\n"
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	idx, err := roster.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestLoadMissingOrEmptyIsFatal(t *testing.T) {
	_, err := roster.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, errors.ErrMissingInput)

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))
	_, err = roster.Load(path)
	assert.ErrorIs(t, err, errors.ErrMissingInput)
}
