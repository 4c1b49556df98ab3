package dataprocessing

import (
	"sort"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

// RowFilter narrows a table before summaries and shot listings.
type RowFilter struct {
	// Relay keeps rows whose relay cell equals it. Empty disables the check.
	Relay string
	// StartNrs keeps rows whose start number is listed. Nil disables the
	// check; a non-nil empty slice keeps nothing.
	StartNrs []string
	// ExcludedIndices drops rows by position after the relay and start
	// number checks ran.
	ExcludedIndices []int
}

// Apply returns a copy of table holding only the rows that pass f. Filters
// whose column is missing from cols are ignored.
func (f RowFilter) Apply(table *domain.RawTable, cols SIUSColumns) *domain.RawTable {
	out := &domain.RawTable{
		Headers:   table.Headers,
		HasHeader: table.HasHeader,
		Delimiter: table.Delimiter,
		Rows:      make([][]string, 0, len(table.Rows)),
	}

	var allowed map[string]struct{}
	if f.StartNrs != nil && cols.StartNr >= 0 {
		allowed = make(map[string]struct{}, len(f.StartNrs))
		for _, s := range f.StartNrs {
			allowed[s] = struct{}{}
		}
	}

	for i, row := range table.Rows {
		if f.Relay != "" && cols.Relay >= 0 && table.Cell(i, cols.Relay) != f.Relay {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[table.Cell(i, cols.StartNr)]; !ok {
				continue
			}
		}
		out.Rows = append(out.Rows, row)
	}

	if len(f.ExcludedIndices) > 0 {
		excluded := make(map[int]struct{}, len(f.ExcludedIndices))
		for _, i := range f.ExcludedIndices {
			excluded[i] = struct{}{}
		}
		kept := out.Rows[:0:0]
		for i, row := range out.Rows {
			if _, ok := excluded[i]; !ok {
				kept = append(kept, row)
			}
		}
		out.Rows = kept
	}
	return out
}

// UniqueValues returns the distinct non-empty values of col, numeric
// values first in numeric order, then the rest as text.
func UniqueValues(table *domain.RawTable, col int) []string {
	if col < 0 {
		return []string{}
	}
	seen := make(map[string]struct{})
	values := []string{}
	for i := range table.Rows {
		v := table.Cell(i, col)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return compareIDs(values[i], values[j]) < 0 })
	return values
}
