package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	apperrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

// SIUSColumns holds the column indices of the SIUS fields in a table; -1
// marks a field the table does not have.
type SIUSColumns struct {
	StartNr   int
	Primary   int
	Secondary int
	Time      int
	Relay     int
	X         int
	Y         int
}

// ResolveSIUSColumns locates the SIUS fields among headers. The start
// number falls back to the first column and Time to the first header
// mentioning "time".
func ResolveSIUSColumns(headers []string) SIUSColumns {
	fields := SuggestFields(headers)
	cols := SIUSColumns{
		StartNr:   indexOf(headers, fields.StartNr),
		Primary:   indexOf(headers, fields.Primary),
		Secondary: indexOf(headers, fields.Secondary),
		Time:      indexOf(headers, FieldTime),
		Relay:     indexOf(headers, FieldRelay),
		X:         indexOf(headers, FieldX),
		Y:         indexOf(headers, FieldY),
	}
	if cols.Time < 0 {
		for i, h := range headers {
			if strings.Contains(strings.ToLower(h), "time") {
				cols.Time = i
				break
			}
		}
	}
	return cols
}

// WithNamed overrides columns with explicitly chosen header names. Unknown
// names leave the resolved column untouched.
func (c SIUSColumns) WithNamed(headers []string, startNr, primary, secondary string) SIUSColumns {
	if i := indexOf(headers, startNr); i >= 0 {
		c.StartNr = i
	}
	if i := indexOf(headers, primary); i >= 0 {
		c.Primary = i
	}
	if i := indexOf(headers, secondary); i >= 0 {
		c.Secondary = i
	}
	return c
}

func indexOf(headers []string, name string) int {
	if name == "" {
		return -1
	}
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// columnHasDecimals reports whether any cell of col has a fractional part.
func columnHasDecimals(table *domain.RawTable, col int) bool {
	if col < 0 {
		return false
	}
	for i := range table.Rows {
		if hasFraction(table.Cell(i, col)) {
			return true
		}
	}
	return false
}

// DecimalIntegerScores derives a shot's decimal and integer values from the
// SIUS primary and secondary scores. When the primary column holds decimals
// the secondary is the integer, or floor(primary) when it is missing or 0.
// Otherwise the primary is the integer and the secondary the decimal.
func DecimalIntegerScores(primary, secondary *float64, primaryIsDecimal bool) (decimal, integer *float64) {
	if primaryIsDecimal {
		decimal = primary
		switch {
		case secondary != nil && *secondary != 0:
			integer = ptr(math.Trunc(*secondary))
		case primary != nil:
			integer = ptr(math.Floor(*primary))
		}
		return decimal, integer
	}

	if primary != nil {
		integer = ptr(math.Trunc(*primary))
	}
	return secondary, integer
}

func ptr(v float64) *float64 { return &v }

func parsedCell(table *domain.RawTable, row, col int) *float64 {
	if col < 0 {
		return nil
	}
	if v, ok := ParseScore(table.Cell(row, col)); ok {
		return &v
	}
	return nil
}

type decimalIntegerGroup struct {
	count      int
	decimalSum float64
	decimalN   int
	integerSum float64
	integerN   int
}

// SummarizeDecimalInteger groups table by start number and sums the decimal
// and integer value of every shot.
func (s *Summarizer) SummarizeDecimalInteger(ctx context.Context, table *domain.RawTable, cols SIUSColumns) ([]domain.DecimalIntegerRow, error) {
	width := table.Width()
	if cols.StartNr < 0 || cols.StartNr >= width || cols.Primary < 0 || cols.Primary >= width {
		return nil, apperrors.NewInvalidColumnChoiceError(cols.StartNr, cols.Primary, width, nil).
			WithContext("mode", "sius")
	}

	primaryIsDecimal := columnHasDecimals(table, cols.Primary)
	groups := make(map[string]*decimalIntegerGroup)

	for i := range table.Rows {
		id := table.Cell(i, cols.StartNr)
		if id == "" {
			continue
		}
		g, ok := groups[id]
		if !ok {
			g = &decimalIntegerGroup{}
			groups[id] = g
		}
		g.count++

		dec, integer := DecimalIntegerScores(parsedCell(table, i, cols.Primary), parsedCell(table, i, cols.Secondary), primaryIsDecimal)
		if dec != nil {
			g.decimalSum += *dec
			g.decimalN++
		}
		if integer != nil {
			g.integerSum += *integer
			g.integerN++
		}
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return compareIDs(ids[i], ids[j]) < 0 })

	p := s.config.Precision
	out := make([]domain.DecimalIntegerRow, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		row := domain.DecimalIntegerRow{ID: id, Count: g.count}
		if g.decimalN > 0 {
			sum := round(g.decimalSum, p)
			row.DecimalSum = ptr(sum)
			row.DecimalMean = ptr(sum / float64(g.decimalN))
		}
		if g.integerN > 0 {
			row.IntegerSum = ptr(g.integerSum)
			row.IntegerMean = ptr(g.integerSum / float64(g.integerN))
		}
		out = append(out, row)
	}

	s.logger.InfoContext(ctx, "Decimal/integer summary generated",
		slog.Int("groups", len(out)),
		slog.Bool("primary_is_decimal", primaryIsDecimal))
	return out, nil
}
