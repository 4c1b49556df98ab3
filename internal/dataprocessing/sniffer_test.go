package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantDelimiter  rune
		wantConsistent bool
		wantFields     int
	}{
		{
			name:           "semicolon three columns",
			text:           "Start NR;Primary score;Secondary score\n1;10.5;10\n1;9.0;9\n2;8.0;8\n2;9.1;9\n3;10.2;10\n",
			wantDelimiter:  ';',
			wantConsistent: true,
			wantFields:     3,
		},
		{
			name:           "semicolon with comma decimals",
			text:           "1;10,5\n2;9,5\n3;8,0\n",
			wantDelimiter:  ';',
			wantConsistent: true,
			wantFields:     2,
		},
		{
			name:           "tab",
			text:           "ID\tScore\n1\t9.5\n2\t10.1\n",
			wantDelimiter:  '\t',
			wantConsistent: true,
			wantFields:     2,
		},
		{
			name:           "comma",
			text:           "id,score,relay\n1,9.5,1\n2,10.1,1\n",
			wantDelimiter:  ',',
			wantConsistent: true,
			wantFields:     3,
		},
		{
			name:           "blank lines are ignored",
			text:           "\n\nA;B\n\n1;2\r\n\n",
			wantDelimiter:  ';',
			wantConsistent: true,
			wantFields:     2,
		},
		{
			name:           "single column falls back to comma",
			text:           "abc\ndef\n",
			wantDelimiter:  ',',
			wantConsistent: false,
			wantFields:     1,
		},
		{
			name:           "empty text falls back to comma",
			text:           "",
			wantDelimiter:  ',',
			wantConsistent: false,
			wantFields:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SniffDelimiter(tt.text)
			assert.Equal(t, string(tt.wantDelimiter), string(got.Delimiter))
			assert.Equal(t, tt.wantConsistent, got.Consistent)
			assert.Equal(t, tt.wantFields, got.FieldCount)
		})
	}
}

func TestSniffDelimiter_PrefersMostConsistent(t *testing.T) {
	// Every line has two semicolon fields but only some have a comma.
	text := "Name;Score\nSmith, J;9.5\nDoe;10.1\nRoe;8.7\n"

	got := SniffDelimiter(text)

	assert.Equal(t, ';', got.Delimiter)
	assert.InDelta(t, 1.0, got.Consistency, 1e-9)
}

func TestSniffDelimiterLines_LimitsSample(t *testing.T) {
	// Only the first two lines are sampled; the comma rows below never count.
	text := "a;b\n1;2\nx,y,z\nx,y,z\nx,y,z\n"

	assert.Equal(t, ';', SniffDelimiterLines(text, 2).Delimiter)
	assert.Equal(t, ',', SniffDelimiterLines(text, 10).Delimiter)
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: ";", want: ';'},
		{in: "Semicolon", want: ';'},
		{in: ",", want: ','},
		{in: "comma", want: ','},
		{in: "\t", want: '\t'},
		{in: `\t`, want: '\t'},
		{in: "TAB", want: '\t'},
		{in: "|", want: '|'},
		{in: "pipe", want: '|'},
		{in: ":", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, string(tt.want), string(got))
		})
	}
}
