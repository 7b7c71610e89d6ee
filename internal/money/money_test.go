package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_RoundsToMinorUnit(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     string
	}{
		{"two decimals", 10.00, "USD", "10.00"},
		{"half rounds away from zero", 10.005, "USD", "10.01"},
		{"sub-cent noise", 4.995, "USD", "5.00"},
		{"truncation not applied", 9.999, "EUR", "10.00"},
		{"negative", -2.505, "USD", "-2.51"},
		{"zero-decimal yen", 1234.4, "JPY", "1234"},
		{"zero-decimal forint", 999.6, "HUF", "1000"},
		{"zero-decimal taiwan dollar", 50.5, "TWD", "51"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromFloat(tt.amount, tt.currency).Value())
		})
	}
}

func TestValue_StableUnderReformatting(t *testing.T) {
	m := FromFloat(10.005, "USD")
	first := m.Value()

	reparsed, err := Parse(first, "USD")
	require.NoError(t, err)
	assert.Equal(t, first, reparsed.Value())
	assert.Equal(t, first, reparsed.Value()) // repeated formatting is a no-op
}

func TestEqual_ComparesWireForm(t *testing.T) {
	// Differ only below the minor unit: equal on the wire.
	a := FromFloat(10.001, "USD")
	b := FromFloat(10.004, "USD")
	assert.True(t, a.Equal(b))

	// Same digits, different currency: not equal.
	c := FromFloat(10.001, "EUR")
	assert.False(t, a.Equal(c))

	// One cent apart: not equal.
	d := FromFloat(10.011, "USD")
	assert.False(t, a.Equal(d))
}

func TestArithmetic(t *testing.T) {
	a := FromFloat(4.995, "USD")

	assert.Equal(t, "9.99", a.MulInt(2).Value())
	assert.Equal(t, "6.00", a.Add(FromFloat(1.005, "USD")).Value())
	assert.Equal(t, "4.00", a.Sub(FromFloat(1.00, "USD")).Value())
	assert.True(t, Zero("USD").IsZero())
	assert.False(t, a.IsZero())
}

func TestExponent(t *testing.T) {
	assert.Equal(t, int32(2), Exponent("USD"))
	assert.Equal(t, int32(2), Exponent("EUR"))
	assert.Equal(t, int32(0), Exponent("JPY"))
	assert.Equal(t, int32(0), Exponent("HUF"))
	assert.Equal(t, int32(0), Exponent("TWD"))
}

func TestJSONRoundTrip(t *testing.T) {
	m := New(decimal.RequireFromString("10.005"), "USD")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency_code":"USD","value":"10.01"}`, string(data))

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equal(back))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("10.00", "")
	assert.Error(t, err)

	_, err = Parse("10.00", "USDT")
	assert.Error(t, err)

	_, err = Parse("", "USD")
	assert.Error(t, err)

	_, err = Parse("ten", "USD")
	assert.Error(t, err)
}
