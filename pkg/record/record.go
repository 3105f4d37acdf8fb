// Package record defines the raw fiscal-action record produced by the
// acquisition layer and consumed, immutable, by the rest of the pipeline.
package record

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Raw is one reported fiscal action as produced by an acquisition provider.
// It is created once by the acquisition layer and never mutated downstream.
type Raw struct {
	Sponsor   string          `json:"sponsor"`
	Amount    decimal.Decimal `json:"amount"`
	District  string          `json:"district,omitempty"`
	Recipient string          `json:"recipient,omitempty"`
	Agency    string          `json:"agency,omitempty"`
	Title     string          `json:"title,omitempty"`
	Year      int             `json:"year"`
	Source    string          `json:"source"`

	// AmountSet distinguishes a genuine zero amount from an absent field.
	// Providers set it when they parsed an amount; JSON decoding sets it
	// when the amount key was present.
	AmountSet bool `json:"-"`
}

// rawAlias avoids recursion inside UnmarshalJSON.
type rawAlias struct {
	Sponsor   string          `json:"sponsor"`
	Amount    json.RawMessage `json:"amount"`
	District  json.RawMessage `json:"district"`
	Recipient string          `json:"recipient"`
	Agency    string          `json:"agency"`
	Title     string          `json:"title"`
	Year      int             `json:"year"`
	Source    string          `json:"source"`
}

// UnmarshalJSON decodes a raw record, accepting amount as a JSON number or a
// numeric string and district as a string or a number. The upstream systems
// disagree on both.
func (r *Raw) UnmarshalJSON(data []byte) error {
	var a rawAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	r.Sponsor = a.Sponsor
	r.Recipient = a.Recipient
	r.Agency = a.Agency
	r.Title = a.Title
	r.Year = a.Year
	r.Source = a.Source

	if len(a.Amount) > 0 && string(a.Amount) != "null" {
		// An unparseable amount leaves AmountSet false instead of failing the
		// decode: one garbage row must not reject a whole input file. The
		// pipeline counts the record malformed and moves on.
		if amt, err := decodeFlexibleDecimal(a.Amount); err == nil {
			r.Amount = amt
			r.AmountSet = true
		}
	}

	if len(a.District) > 0 && string(a.District) != "null" {
		r.District = decodeFlexibleString(a.District)
	}
	return nil
}

// Resolvable reports whether the record names anything the resolver could
// work with. A record with neither a sponsor nor a recipient nor an agency
// is malformed and is skipped and counted by the pipeline.
func (r *Raw) Resolvable() bool {
	return strings.TrimSpace(r.Sponsor) != "" ||
		strings.TrimSpace(r.Recipient) != "" ||
		strings.TrimSpace(r.Agency) != ""
}

func decodeFlexibleDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if len(s) > 1 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return decimal.Zero, err
		}
		// Tolerate "$1,200,000" style values from scraped tables.
		str = strings.NewReplacer("$", "", ",", "", " ", "").Replace(str)
		if str == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(str)
	}
	return decimal.NewFromString(s)
}

func decodeFlexibleString(raw json.RawMessage) string {
	if len(raw) > 1 && raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	}
	return strings.TrimSpace(string(raw))
}
