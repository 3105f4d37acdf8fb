package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/normalize"
)

// fileMember is the on-disk roster row. District arrives as a string in some
// exports and a bare number in others.
type fileMember struct {
	DelegateName string  `json:"delegate_name" yaml:"delegate_name"`
	District     any     `json:"district" yaml:"district"`
	Chamber      Chamber `json:"chamber" yaml:"chamber"`
}

// Load reads a roster file (JSON array, or YAML when the extension is .yaml
// or .yml) and returns the built index. An absent or empty roster is fatal:
// nothing downstream can resolve without it.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: roster %s: %v", errors.ErrMissingInput, path, err)
	}

	var rows []fileMember
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rows); err != nil {
			return nil, errors.WrapParse("yaml", path, err)
		}
	default:
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, errors.WrapParse("json", path, err)
		}
	}

	members := make([]Member, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.DelegateName)
		if name == "" {
			continue
		}
		members = append(members, Member{
			CanonicalName: name,
			District:      normalize.District(row.District),
			Chamber:       row.Chamber,
		})
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("%w: roster %s has no members", errors.ErrMissingInput, path)
	}
	return NewIndex(members), nil
}
