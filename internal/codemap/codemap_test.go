package codemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/airport-ops/revenue-reconciler/internal/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "code with suffix", raw: "US1035-Airport check in", want: "US1035"},
		{name: "padded code", raw: "  US1016 - Torba 20kg", want: "US1016"},
		{name: "no suffix", raw: "RB0001", want: "RB0001"},
		{name: "only first dash splits", raw: "000022-a-b", want: "000022"},
		{name: "empty", raw: "", want: ""},
		{name: "leading dash", raw: "-US1035", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestLookup(t *testing.T) {
	code, m, ok := Lookup("US1035-Airport check in")
	assert.True(t, ok)
	assert.Equal(t, "US1035", code)
	assert.Equal(t, KindFee, m.Kind)
	assert.Equal(t, types.CarrierWizz, m.Carrier)
	assert.Equal(t, 40.0, m.Price)

	code, m, ok = Lookup("US1005 - korekcija")
	assert.True(t, ok)
	assert.Equal(t, "US1005", code)
	assert.Equal(t, KindExtra, m.Kind)
	assert.Equal(t, SlotAdjustments, m.Slot)

	code, _, ok = Lookup("ZZ9999-unknown")
	assert.False(t, ok)
	assert.Equal(t, "ZZ9999", code)

	_, _, ok = Lookup("   ")
	assert.False(t, ok)
}

func TestLookup_IsCaseSensitive(t *testing.T) {
	_, _, ok := Lookup("us1035-lower")
	assert.False(t, ok)
}

func TestEntries(t *testing.T) {
	entries := Entries()
	assert.Len(t, entries, len(table))
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Code, entries[i].Code)
	}

	for _, e := range entries {
		switch e.Kind {
		case KindFee:
			assert.NotEmpty(t, e.Carrier, e.Code)
			assert.NotEmpty(t, e.Label, e.Code)
			assert.Positive(t, e.Price, e.Code)
		case KindBooking, KindCommission:
			assert.NotEmpty(t, e.Carrier, e.Code)
		case KindExtra:
			if e.Slot != SlotAdjustments {
				assert.NotNil(t, types.NewDailyReport("2025-01-01").AirportService(e.Slot), e.Code)
			}
		default:
			t.Fatalf("code %s has no kind", e.Code)
		}
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "fee", KindFee.String())
	assert.Equal(t, "booking", KindBooking.String())
	assert.Equal(t, "commission", KindCommission.String())
	assert.Equal(t, "extra", KindExtra.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
