package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// DefaultSniffLines is how many non-blank lines the sniffer inspects.
const DefaultSniffLines = 10

// candidateDelimiters is ordered by preference. Comma comes last because it
// doubles as a decimal separator in SIUS exports from some locales.
var candidateDelimiters = []rune{';', '\t', ','}

// SniffResult is the delimiter decision for a file.
type SniffResult struct {
	Delimiter rune
	// Consistent is false when no candidate split the sample into at least
	// two fields; Delimiter is then the comma fallback.
	Consistent bool
	// FieldCount is the modal number of fields per sampled line.
	FieldCount int
	// Consistency is the share of sampled lines that have FieldCount fields.
	Consistency float64
}

type candidateScore struct {
	delimiter rune
	modal     int
	hits      int
	lines     int
	rank      int
}

func (c candidateScore) better(o candidateScore) bool {
	// Compare hits/lines without floating point.
	l, r := c.hits*o.lines, o.hits*c.lines
	if l != r {
		return l > r
	}
	if c.modal != o.modal {
		return c.modal > o.modal
	}
	return c.rank < o.rank
}

// SniffDelimiter picks the field separator from the first DefaultSniffLines
// non-blank lines of text. It never fails.
func SniffDelimiter(text string) SniffResult {
	return SniffDelimiterLines(text, DefaultSniffLines)
}

// SniffDelimiterLines is SniffDelimiter with an explicit sample size.
func SniffDelimiterLines(text string, maxLines int) SniffResult {
	if maxLines <= 0 {
		maxLines = DefaultSniffLines
	}
	sample := sampleLines(text, maxLines)

	var best *candidateScore
	for rank, delim := range candidateDelimiters {
		score, ok := scoreCandidate(sample, delim)
		if !ok || score.modal < 2 {
			continue
		}
		score.rank = rank
		if best == nil || score.better(*best) {
			s := score
			best = &s
		}
	}

	if best == nil {
		return SniffResult{Delimiter: ',', Consistent: false, FieldCount: 1}
	}
	return SniffResult{
		Delimiter:   best.delimiter,
		Consistent:  true,
		FieldCount:  best.modal,
		Consistency: float64(best.hits) / float64(best.lines),
	}
}

// sampleLines returns up to n non-blank lines of text joined by newlines.
func sampleLines(text string, n int) string {
	var b strings.Builder
	taken := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(strings.TrimRight(line, "\r"))
		b.WriteByte('\n')
		taken++
		if taken == n {
			break
		}
	}
	return b.String()
}

func scoreCandidate(sample string, delim rune) (candidateScore, bool) {
	r := newCSVReader(strings.NewReader(sample), delim)

	counts := make(map[int]int)
	lines := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return candidateScore{}, false
		}
		counts[len(record)]++
		lines++
	}
	if lines == 0 {
		return candidateScore{}, false
	}

	modal, hits := 0, 0
	for n, c := range counts {
		if c > hits || (c == hits && n > modal) {
			modal, hits = n, c
		}
	}
	return candidateScore{delimiter: delim, modal: modal, hits: hits, lines: lines}, true
}

// ParseDelimiter turns a user supplied delimiter, either the character
// itself or its name, into a rune.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case ";", "semicolon":
		return ';', nil
	case ",", "comma":
		return ',', nil
	case "\t", "\\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported delimiter %q", s)
}

func newCSVReader(r io.Reader, delim rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false
	return cr
}
