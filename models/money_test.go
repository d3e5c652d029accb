package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		in      string
		want    Cents
		wantErr bool
	}{
		{"120.00", 12000, false},
		{"120", 12000, false},
		{"120.5", 12050, false},
		{"0.01", 1, false},
		{"-3.33", -333, false},
		{" 42.00 ", 4200, false},
		{"", 0, true},
		{".", 0, true},
		{"1.234", 0, true}, // sub-cent precision is rejected, not rounded
		{"12a.00", 0, true},
		{"12.x0", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCents(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseCentsDigitCap(t *testing.T) {
	// Largest admissible amount: eight integer digits.
	got, err := ParseCents("99999999.99")
	require.NoError(t, err)
	assert.Equal(t, Cents(9999999999), got)

	// Leading zeros do not count against the cap.
	got, err = ParseCents("00000000042.00")
	require.NoError(t, err)
	assert.Equal(t, Cents(4200), got)

	for _, in := range []string{
		"100000000.00",
		"999999999",
		"-100000000.00",
		// Would silently wrap int64 without the cap.
		"99999999999999999999.00",
	} {
		_, err := ParseCents(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestCentsString(t *testing.T) {
	assert.Equal(t, "120.00", Cents(12000).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-3.33", Cents(-333).String())
	assert.Equal(t, "0.00", Cents(0).String())
}

func TestCentsJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Cents(12345))
	require.NoError(t, err)
	assert.Equal(t, `"123.45"`, string(data))

	var fromString Cents
	require.NoError(t, json.Unmarshal([]byte(`"99.99"`), &fromString))
	assert.Equal(t, Cents(9999), fromString)

	// Bare JSON numbers are accepted too.
	var fromNumber Cents
	require.NoError(t, json.Unmarshal([]byte(`120.5`), &fromNumber))
	assert.Equal(t, Cents(12050), fromNumber)

	var bad Cents
	assert.Error(t, json.Unmarshal([]byte(`"1.999"`), &bad))
}

func TestCentsScan(t *testing.T) {
	var c Cents
	require.NoError(t, c.Scan(int64(4200)))
	assert.Equal(t, Cents(4200), c)

	require.NoError(t, c.Scan([]byte("123")))
	assert.Equal(t, Cents(123), c)

	assert.Error(t, c.Scan("not supported"))
}
