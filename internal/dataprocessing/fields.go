package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Canonical SIUS field names.
const (
	FieldStartNr        = "Start NR"
	FieldPrimaryScore   = "Primary score"
	FieldSecondaryScore = "Secondary score"
	FieldRelay          = "Relay"
	FieldTime           = "Time"
	FieldX              = "X"
	FieldY              = "Y"
)

var (
	startNrAliases   = []string{"startnr", "startnumber", "startno"}
	primaryAliases   = []string{"primaryscore", "decimalscore"}
	secondaryAliases = []string{"secondaryscore"}
)

// FieldSuggestions names the headers that carry the SIUS start number and
// the two score fields. Empty means no header matched.
type FieldSuggestions struct {
	StartNr   string `json:"start_nr"`
	Primary   string `json:"primary_score"`
	Secondary string `json:"secondary_score"`
}

// LoadFieldNames reads a SIUS field list: tab-separated with a header row.
// Names come from the "Field" or "Fields" column, or the first column when
// neither exists.
func LoadFieldNames(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read field list: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := 0
	for i, h := range rows[0] {
		if n := normalizeHeader(h); n == "field" || n == "fields" {
			col = i
			break
		}
	}

	var names []string
	for _, row := range rows[1:] {
		if col < len(row) {
			if name := strings.TrimSpace(row[col]); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// LoadFieldNamesFile is LoadFieldNames over a file path. A missing file is
// not an error and yields no names.
func LoadFieldNamesFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open field list: %w", err)
	}
	defer f.Close()
	return LoadFieldNames(f)
}

// MatchHeaderToField returns the header in headers that stands for the SIUS
// field, comparing normalized names and then the field's known aliases.
func MatchHeaderToField(headers []string, field string) string {
	target := normalizeHeader(field)
	for _, h := range headers {
		if normalizeHeader(h) == target {
			return h
		}
	}

	switch target {
	case normalizeHeader(FieldStartNr):
		return firstHeaderIn(headers, startNrAliases)
	case normalizeHeader(FieldPrimaryScore):
		if h := firstHeaderIn(headers, primaryAliases); h != "" {
			return h
		}
		for _, h := range headers {
			n := normalizeHeader(h)
			if strings.Contains(n, "decimal") && strings.Contains(n, "score") {
				return h
			}
		}
	case normalizeHeader(FieldSecondaryScore):
		return firstHeaderIn(headers, secondaryAliases)
	}
	return ""
}

func firstHeaderIn(headers, aliases []string) string {
	for _, h := range headers {
		n := normalizeHeader(h)
		for _, a := range aliases {
			if n == a {
				return h
			}
		}
	}
	return ""
}

// SuggestFields matches headers to the SIUS start number and score fields.
// The start number falls back to the first header.
func SuggestFields(headers []string) FieldSuggestions {
	s := FieldSuggestions{
		StartNr:   MatchHeaderToField(headers, FieldStartNr),
		Primary:   MatchHeaderToField(headers, FieldPrimaryScore),
		Secondary: MatchHeaderToField(headers, FieldSecondaryScore),
	}
	if s.StartNr == "" && len(headers) > 0 {
		s.StartNr = headers[0]
	}
	return s
}
