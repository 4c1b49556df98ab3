package dataprocessing

import (
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

// ShotsFor lists the shots of one start number ordered by Time, latest
// first. Clock times such as "10:02:13" rank above plain numbers.
func ShotsFor(table *domain.RawTable, cols SIUSColumns, startNr string) []domain.Shot {
	startNr = strings.TrimSpace(startNr)
	shots := []domain.Shot{}
	if cols.StartNr < 0 || cols.Primary < 0 {
		return shots
	}

	primaryIsDecimal := columnHasDecimals(table, cols.Primary)
	for i := range table.Rows {
		if table.Cell(i, cols.StartNr) != startNr {
			continue
		}
		primary := parsedCell(table, i, cols.Primary)
		secondary := parsedCell(table, i, cols.Secondary)
		dec, integer := DecimalIntegerScores(primary, secondary, primaryIsDecimal)
		if dec != nil {
			dec = ptr(round(*dec, DefaultPrecision))
		}

		shot := domain.Shot{
			Index:     i,
			Primary:   formatOptional(primary),
			Secondary: formatOptional(secondary),
			Decimal:   dec,
			Integer:   integer,
		}
		if cols.Time >= 0 {
			shot.Time = table.Cell(i, cols.Time)
		}
		shots = append(shots, shot)
	}

	sort.SliceStable(shots, func(i, j int) bool {
		return compareTimes(shots[i].Time, shots[j].Time) > 0
	})
	return shots
}

// compareTimes orders numeric times before textual ones.
func compareTimes(a, b string) int {
	av, aerr := strconv.ParseFloat(a, 64)
	bv, berr := strconv.ParseFloat(b, 64)
	switch {
	case aerr == nil && berr == nil:
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// TargetData returns the shot positions of one start number in ShotsFor
// order, numbered from 1. The table must have X and Y columns.
func TargetData(table *domain.RawTable, cols SIUSColumns, startNr string) ([]domain.TargetPoint, error) {
	var missing []string
	if cols.X < 0 {
		missing = append(missing, FieldX)
	}
	if cols.Y < 0 {
		missing = append(missing, FieldY)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingCoordinatesError(missing...)
	}

	shots := ShotsFor(table, cols, startNr)
	points := make([]domain.TargetPoint, 0, len(shots))
	for n, shot := range shots {
		points = append(points, domain.TargetPoint{
			ShotNum:      n + 1,
			X:            parsedCell(table, shot.Index, cols.X),
			Y:            parsedCell(table, shot.Index, cols.Y),
			DecimalScore: shot.Decimal,
		})
	}
	return points, nil
}
