package dataprocessing

import (
	"fmt"
	"io"
	"strings"

	apperrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

// ParseOptions tunes ParseTable.
type ParseOptions struct {
	// FieldNames names the columns of a headerless export, typically the
	// SIUS field list. It is only used when it covers every column.
	FieldNames []string
}

// ParseTable splits text on delimiter into a RawTable. Blank rows are
// dropped. The first row is used as the header when none of its cells is a
// number. An input without any non-blank row is an EmptyFile error; a lone
// header row is a valid table with no data.
func ParseTable(text string, delimiter rune, opts ParseOptions) (*domain.RawTable, error) {
	r := newCSVReader(strings.NewReader(text), delimiter)

	var records [][]string
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read record %d", line), err)
		}
		records = append(records, record)
	}

	table, err := BuildTable(records, opts)
	if err != nil {
		return nil, err
	}
	table.Delimiter = delimiter
	return table, nil
}

// BuildTable applies blank-row removal and header detection to records that
// were already split.
func BuildTable(records [][]string, opts ParseOptions) (*domain.RawTable, error) {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		cells := make([]string, len(record))
		blank := true
		for i, c := range record {
			cells[i] = cleanCell(c)
			if cells[i] != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return nil, apperrors.NewEmptyFileError()
	}

	table := &domain.RawTable{}
	if isHeaderRow(rows[0]) {
		table.HasHeader = true
		table.Headers = rows[0]
		table.Rows = rows[1:]
	} else {
		table.Rows = rows
	}

	width := table.Width()
	switch {
	case !table.HasHeader && len(opts.FieldNames) >= width:
		table.Headers = append([]string(nil), opts.FieldNames[:width]...)
	default:
		table.Headers = padHeaders(table.Headers, width)
	}
	return table, nil
}

// cleanCell drops surrounding whitespace and a stray BOM, in either order.
func cleanCell(c string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(c), "\ufeff"))
}

// isHeaderRow reports whether row has text in it and no numeric cell.
func isHeaderRow(row []string) bool {
	nonEmpty := 0
	for _, cell := range row {
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, ok := ParseScore(cell); ok {
			return false
		}
	}
	return nonEmpty > 0
}

// padHeaders fills missing or blank names with "Column N" up to width.
func padHeaders(headers []string, width int) []string {
	out := make([]string, width)
	copy(out, headers)
	for i := range out {
		if out[i] == "" {
			out[i] = fmt.Sprintf("Column %d", i+1)
		}
	}
	return out
}
