// Package filedrop implements the manual drop provider: when both live
// sources are down, an analyst can leave a CSV or JSONL export in the drop
// directory and the pipeline picks up the newest one for the year.
package filedrop

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
	"github.com/openlegis/amendmap/pkg/record"
)

// SourceTag is the provenance tag stamped on records from this provider.
const SourceTag = "manual-drop"

// Provider reads raw records from a drop directory.
type Provider struct {
	dir string
}

// New creates a filedrop provider over dir.
func New(dir string) *Provider {
	return &Provider{dir: dir}
}

// ID implements sources.Provider.
func (p *Provider) ID() string { return "filedrop" }

// Fetch loads the newest matching drop file for the year. Supported names:
// amendments-<year>.csv, amendments-<year>.jsonl, amendments-<year>.json.
func (p *Provider) Fetch(ctx context.Context, year int) ([]record.Raw, error) {
	path, err := p.newestDrop(year)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	defer f.Close()

	var records []record.Raw
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(f, year)
	case ".jsonl":
		records, err = readJSONL(f, year)
	default:
		err = json.NewDecoder(f).Decode(&records)
	}
	if err != nil {
		return nil, errors.WrapParse(strings.TrimPrefix(filepath.Ext(path), "."), path, err)
	}

	for i := range records {
		if records[i].Source == "" {
			records[i].Source = SourceTag
		}
		if records[i].Year == 0 {
			records[i].Year = year
		}
	}

	logging.Info().
		Str("file", path).
		Int("records", len(records)).
		Msg("Loaded manual drop")
	return records, nil
}

// newestDrop finds the most recently modified drop file for the year.
func (p *Provider) newestDrop(year int) (string, error) {
	patterns := []string{
		fmt.Sprintf("amendments-%d.csv", year),
		fmt.Sprintf("amendments-%d.jsonl", year),
		fmt.Sprintf("amendments-%d.json", year),
	}

	var newest string
	var newestMod int64
	for _, name := range patterns {
		path := filepath.Join(p.dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest, newestMod = path, mod
		}
	}
	if newest == "" {
		return "", errors.NewSourceError(p.ID(), fmt.Sprintf("no drop file for %d in %s", year, p.dir), nil)
	}
	return newest, nil
}

// csvColumns is the fixed drop-file column order.
var csvColumns = []string{"sponsor", "amount", "district", "recipient", "agency", "title"}

// readCSV parses the analyst CSV format. A header row matching csvColumns is
// optional; malformed rows are skipped, not fatal, so a half-typed drop file
// still yields its good rows.
func readCSV(r io.Reader, year int) ([]record.Raw, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var out []record.Raw
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 || strings.EqualFold(strings.TrimSpace(row[0]), csvColumns[0]) {
			continue
		}

		rec := record.Raw{Sponsor: strings.TrimSpace(row[0]), Year: year}
		if d, err := decimalFromCell(row[1]); err == nil {
			rec.Amount = d
			rec.AmountSet = true
		} else {
			continue
		}
		if len(row) > 2 {
			rec.District = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			rec.Recipient = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			rec.Agency = strings.TrimSpace(row[4])
		}
		if len(row) > 5 {
			rec.Title = strings.TrimSpace(row[5])
		}
		out = append(out, rec)
	}
	return out, nil
}

// decimalFromCell parses a CSV amount cell, tolerating "$1,200,000" styling.
func decimalFromCell(cell string) (decimal.Decimal, error) {
	s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(cell))
	return decimal.NewFromString(s)
}

// readJSONL parses one JSON record per line, skipping blank lines.
func readJSONL(r io.Reader, year int) ([]record.Raw, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []record.Raw
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec record.Raw
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, scanner.Err()
}
