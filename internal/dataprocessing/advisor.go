package dataprocessing

import (
	"strings"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

// DefaultSampleSize is the number of data rows handed to the advisor and
// returned as a preview.
const DefaultSampleSize = 5

// maxIDValue bounds the values accepted by the "looks like a start number"
// content fallback.
const maxIDValue = 100000

var idVocabulary = map[string]struct{}{
	"startnumber": {},
	"startnr":     {},
	"startno":     {},
	"id":          {},
	"competitor":  {},
	"shooter":     {},
	"athlete":     {},
	"bib":         {},
}

var scoreVocabulary = map[string]struct{}{
	"decimalscore": {},
	"score":        {},
	"decimal":      {},
	"points":       {},
	"innerten":     {},
	"primaryscore": {},
	"total":        {},
}

// normalizeHeader lowercases name and drops spaces, underscores and hyphens.
func normalizeHeader(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

func isIDHeader(name string) bool {
	n := normalizeHeader(name)
	if _, ok := idVocabulary[n]; ok {
		return true
	}
	return strings.Contains(n, "start") && !strings.Contains(n, "time")
}

func isScoreHeader(name string) bool {
	n := normalizeHeader(name)
	if _, ok := scoreVocabulary[n]; ok {
		return true
	}
	return strings.Contains(n, "score")
}

// SuggestColumns proposes the ID and score columns from header names and a
// sample of data rows. Names win over content; when neither matches the
// choice falls back to column 0 and the first other column. It never fails.
func SuggestColumns(headers []string, sample [][]string) domain.ColumnChoice {
	width := len(headers)
	for _, row := range sample {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return domain.ColumnChoice{}
	}

	id := -1
	for i := 0; i < len(headers); i++ {
		if isIDHeader(headers[i]) {
			id = i
			break
		}
	}
	if id < 0 {
		id = firstColumn(width, -1, sample, func(cell string) bool {
			v, ok := ParseScore(cell)
			return ok && isInteger(cell) && v >= 0 && v < maxIDValue
		}, nil)
	}
	if id < 0 {
		id = 0
	}

	score := -1
	for i := 0; i < len(headers); i++ {
		if i != id && isScoreHeader(headers[i]) {
			score = i
			break
		}
	}
	if score < 0 {
		numeric := func(cell string) bool { _, ok := ParseScore(cell); return ok }
		score = firstColumn(width, id, sample, numeric, hasFraction)
		if score < 0 {
			score = firstColumn(width, id, sample, numeric, nil)
		}
	}
	if score < 0 {
		score = defaultScoreColumn(width, id)
	}

	return domain.ColumnChoice{IDColumn: id, ScoreColumn: score}
}

// firstColumn returns the first column other than skip where every non-empty
// sampled cell satisfies all and, when some is set, at least one cell
// satisfies some. Columns with no non-empty cell never qualify.
func firstColumn(width, skip int, sample [][]string, all, some func(string) bool) int {
	for col := 0; col < width; col++ {
		if col == skip {
			continue
		}
		seen, matchedAny := 0, some == nil
		qualifies := true
		for _, row := range sample {
			if col >= len(row) || row[col] == "" {
				continue
			}
			seen++
			if !all(row[col]) {
				qualifies = false
				break
			}
			if some != nil && some(row[col]) {
				matchedAny = true
			}
		}
		if qualifies && seen > 0 && matchedAny {
			return col
		}
	}
	return -1
}

func defaultScoreColumn(width, id int) int {
	if width == 1 {
		return 0
	}
	for col := 1; col < width; col++ {
		if col != id {
			return col
		}
	}
	return 0
}
