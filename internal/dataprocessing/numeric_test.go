package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name   string
		cell   string
		want   float64
		wantOK bool
	}{
		{name: "period decimal", cell: "10.5", want: 10.5, wantOK: true},
		{name: "comma decimal with spaces", cell: " 9,75 ", want: 9.75, wantOK: true},
		{name: "integer", cell: "8", want: 8, wantOK: true},
		{name: "negative", cell: "-3.25", want: -3.25, wantOK: true},
		{name: "explicit plus", cell: "+7.5", want: 7.5, wantOK: true},
		{name: "exponent", cell: "1e2", want: 100, wantOK: true},
		{name: "trailing point", cell: "10.", want: 10, wantOK: true},
		{name: "thousands with period", cell: "1,234.5", wantOK: false},
		{name: "two commas", cell: "1,234,5", wantOK: false},
		{name: "not available", cell: "n/a", wantOK: false},
		{name: "empty", cell: "", wantOK: false},
		{name: "blank", cell: "   ", wantOK: false},
		{name: "nan", cell: "NaN", wantOK: false},
		{name: "infinity", cell: "Inf", wantOK: false},
		{name: "inner sign", cell: "1-2", wantOK: false},
		{name: "unit suffix", cell: "9.5pts", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseScore(tt.cell)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.3, round(0.1+0.2, 4))
	assert.Equal(t, 10.0667, round(30.2/3, 4))
	assert.Equal(t, 2.5, round(2.5, -1))
}
