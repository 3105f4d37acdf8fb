// Package roster holds the canonical list of current legislators and the
// read-only index the resolver matches against. The index is built once per
// run and never mutated afterwards; every consumer receives it by parameter.
package roster

import (
	"github.com/openlegis/amendmap/pkg/normalize"
)

// Chamber identifies which body a member sits in.
type Chamber string

// Chambers of the legislature.
const (
	ChamberLower Chamber = "lower"
	ChamberUpper Chamber = "upper"
)

// Member is one canonical legislator.
type Member struct {
	// CanonicalName is the curated display spelling, e.g. "Creigh Deeds".
	CanonicalName string `json:"delegate_name" yaml:"delegate_name"`

	// District is the canonical district key (see normalize.District).
	District string `json:"district" yaml:"district"`

	// Chamber is the body the member sits in. Optional in roster files;
	// defaults to the lower chamber.
	Chamber Chamber `json:"chamber,omitempty" yaml:"chamber,omitempty"`
}

// Index is an immutable lookup structure over the roster. Construct it with
// NewIndex and pass it by reference; it must never be mutated after that.
type Index struct {
	members    []Member
	byName     map[string]*Member   // normalized canonical name -> member
	byLastName map[string][]*Member // normalized last name -> members sharing it
	byDistrict map[string]*Member   // canonical district key -> member
}

// NewIndex builds the lookup index for a roster. District values are
// normalized on the way in so lookups by normalized key always succeed.
func NewIndex(members []Member) *Index {
	idx := &Index{
		members:    make([]Member, len(members)),
		byName:     make(map[string]*Member, len(members)),
		byLastName: make(map[string][]*Member),
		byDistrict: make(map[string]*Member, len(members)),
	}
	copy(idx.members, members)

	for i := range idx.members {
		m := &idx.members[i]
		m.District = normalize.District(m.District)
		if m.Chamber == "" {
			m.Chamber = ChamberLower
		}

		key := normalize.Name(m.CanonicalName)
		if key == "" {
			continue
		}
		idx.byName[key] = m
		last := normalize.LastName(key)
		idx.byLastName[last] = append(idx.byLastName[last], m)
		if m.District != "" {
			idx.byDistrict[m.District] = m
		}
	}
	return idx
}

// Len returns the number of roster members.
func (idx *Index) Len() int {
	return len(idx.members)
}

// Members returns a copy of the roster, safe for callers to reorder.
func (idx *Index) Members() []Member {
	out := make([]Member, len(idx.members))
	copy(out, idx.members)
	return out
}

// ByNormalizedName returns the member whose canonical name normalizes to key.
func (idx *Index) ByNormalizedName(key string) (*Member, bool) {
	m, ok := idx.byName[key]
	return m, ok
}

// ByLastName returns every member sharing a normalized last name.
func (idx *Index) ByLastName(last string) []*Member {
	return idx.byLastName[last]
}

// ByDistrict returns the member representing a canonical district key.
func (idx *Index) ByDistrict(key string) (*Member, bool) {
	m, ok := idx.byDistrict[normalize.District(key)]
	return m, ok
}
