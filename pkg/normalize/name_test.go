package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openlegis/amendmap/pkg/normalize"
)

func TestNameEquivalences(t *testing.T) {
	// Spellings of the same person must collide on one key.
	groups := [][]string{
		{"Del. Jane Doe", "Doe, Jane", "Jane Doe", "DELEGATE JANE DOE", "doe,  jane"},
		{"Creigh Deeds", "Deeds, Creigh", "Sen. Creigh Deeds"},
		{"John A. Smith Jr.", "Smith Jr, John A.", "john a smith"},
		{"Luke Torian", "Torian, Luke", "Delegate Luke Torian (Prince William)"},
	}
	for _, group := range groups {
		want := normalize.Name(group[0])
		for _, raw := range group[1:] {
			assert.Equal(t, want, normalize.Name(raw), "raw=%q", raw)
		}
	}
}

func TestNameRules(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercase and trim", "  JANE DOE  ", "jane doe"},
		{"collapse whitespace", "jane   doe", "jane doe"},
		{"honorific stripped", "Delegate Jane Doe", "jane doe"},
		{"dotted honorific", "Del. Jane Doe", "jane doe"},
		{"suffix stripped", "Jane Doe Jr.", "jane doe"},
		{"roman suffix", "Henry Marsh III", "henry marsh"},
		{"parenthetical stripped", "Jane Doe (Fairfax)", "jane doe"},
		{"comma flip", "Doe, Jane", "jane doe"},
		{"comma flip with middle", "Smith, John A.", "john a smith"},
		{"suffix inside comma form", "Smith Jr, John", "john smith"},
		{"punctuation removed", "O'Brien, Mary-Kate", "mary kate o brien"},
		{"diacritics folded", "Peña", "pena"},
		{"surname only", "Deeds", "deeds"},
		{"empty", "", ""},
		{"honorific only", "Delegate", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Name(tt.raw))
		})
	}
}

func TestNameIsDeterministic(t *testing.T) {
	raw := "Hon. Kathy J. Byron (Bedford)"
	first := normalize.Name(raw)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, normalize.Name(raw))
	}
}

func TestNameDistinctPeopleStayDistinct(t *testing.T) {
	assert.NotEqual(t, normalize.Name("John Smith"), normalize.Name("Jane Smith"))
	// A suffix distinguishes spellings, not people, so it must not split keys;
	// but a genuinely different surname must.
	assert.NotEqual(t, normalize.Name("Jane Doe"), normalize.Name("Jane Dove"))
}

func TestLastNameFirstInitial(t *testing.T) {
	key := normalize.Name("Smith, John A.")
	assert.Equal(t, "smith", normalize.LastName(key))
	assert.Equal(t, "john", normalize.FirstName(key))
	assert.Equal(t, byte('j'), normalize.FirstInitial(key))

	solo := normalize.Name("Deeds")
	assert.Equal(t, "deeds", normalize.LastName(solo))
	assert.Equal(t, "", normalize.FirstName(solo))
	assert.Equal(t, byte(0), normalize.FirstInitial(solo))
}
