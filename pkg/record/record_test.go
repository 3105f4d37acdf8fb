package record_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlegis/amendmap/pkg/record"
)

func TestUnmarshalAmountForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"number", `{"sponsor":"Jane Doe","amount":120000}`, "120000"},
		{"decimal number", `{"sponsor":"Jane Doe","amount":1250.50}`, "1250.5"},
		{"plain string", `{"sponsor":"Jane Doe","amount":"120000"}`, "120000"},
		{"dollar string", `{"sponsor":"Jane Doe","amount":"$1,200,000"}`, "1200000"},
		{"negative number", `{"sponsor":"Jane Doe","amount":-20000}`, "-20000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r record.Raw
			require.NoError(t, json.Unmarshal([]byte(tt.in), &r))
			assert.True(t, r.AmountSet)
			assert.Equal(t, tt.want, r.Amount.String())
		})
	}
}

func TestUnmarshalAmountAbsentOrNull(t *testing.T) {
	for _, in := range []string{
		`{"sponsor":"Jane Doe"}`,
		`{"sponsor":"Jane Doe","amount":null}`,
	} {
		var r record.Raw
		require.NoError(t, json.Unmarshal([]byte(in), &r))
		assert.False(t, r.AmountSet, "absent amount must not look like a genuine zero")
	}

	var r record.Raw
	require.NoError(t, json.Unmarshal([]byte(`{"sponsor":"Jane Doe","amount":0}`), &r))
	assert.True(t, r.AmountSet, "an explicit zero is a real amount")
}

func TestUnmarshalDistrictForms(t *testing.T) {
	var asString record.Raw
	require.NoError(t, json.Unmarshal([]byte(`{"sponsor":"Jane Doe","district":"HD-07"}`), &asString))
	assert.Equal(t, "HD-07", asString.District)

	var asNumber record.Raw
	require.NoError(t, json.Unmarshal([]byte(`{"sponsor":"Jane Doe","district":7}`), &asNumber))
	assert.Equal(t, "7", asNumber.District)
}

func TestUnmarshalBadAmountIsMalformedNotFatal(t *testing.T) {
	var r record.Raw
	require.NoError(t, json.Unmarshal([]byte(`{"sponsor":"Jane Doe","amount":"not money"}`), &r))
	assert.False(t, r.AmountSet, "a garbage amount reads as absent so the pipeline counts it malformed")
	assert.Equal(t, "Jane Doe", r.Sponsor, "the rest of the row still decodes")
}

func TestUnmarshalOneBadRowKeepsTheRest(t *testing.T) {
	input := `[
		{"sponsor":"Jane Doe","amount":120000},
		{"sponsor":"Creigh Deeds","amount":"n/a"},
		{"sponsor":"Luke Torian","amount":"$50,000"}
	]`

	var records []record.Raw
	require.NoError(t, json.Unmarshal([]byte(input), &records))
	require.Len(t, records, 3)

	assert.True(t, records[0].AmountSet)
	assert.False(t, records[1].AmountSet, "only the garbage row loses its amount")
	assert.True(t, records[2].AmountSet)
	assert.Equal(t, "50000", records[2].Amount.String())
}

func TestResolvable(t *testing.T) {
	assert.True(t, (&record.Raw{Sponsor: "Jane Doe"}).Resolvable())
	assert.True(t, (&record.Raw{Recipient: "Some Clinic"}).Resolvable())
	assert.True(t, (&record.Raw{Agency: "Department of Health"}).Resolvable())
	assert.False(t, (&record.Raw{Sponsor: "   "}).Resolvable())
	assert.False(t, (&record.Raw{}).Resolvable())
}
