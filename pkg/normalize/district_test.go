package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openlegis/amendmap/pkg/normalize"
)

func TestDistrictEquivalences(t *testing.T) {
	// Every spelling the sources use for House district 7 must normalize to "7".
	for _, raw := range []any{"HD-07", "HD 07", "hd7", "District 7", "district  07", 7, "07", "7", 7.0, "VA HD-07", "SD-07"} {
		assert.Equal(t, "7", normalize.District(raw), "raw=%v", raw)
	}
}

func TestDistrictRules(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"plain number", 25, "25"},
		{"leading zeros stripped", "0025", "25"},
		{"all zeros keeps one digit", "000", "0"},
		{"ordinal form", "25th", "25"},
		{"chamber prefix", "SD-33", "33"},
		{"congressional prefix", "CD 11", "11"},
		{"state then chamber", "VA-HD-52", "52"},
		{"non-numeric key survives uppercased", "At Large", "AT LARGE"},
		{"prefix-like surname untouched", "Vaughan", "VAUGHAN"},
		{"empty", "", ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.District(tt.raw))
		})
	}
}

func TestDistrictNonNumericBucketsStayDistinct(t *testing.T) {
	// Free-text keys are legitimate buckets, not errors, and must not collide.
	assert.NotEqual(t, normalize.District("Statewide"), normalize.District("At Large"))
}
