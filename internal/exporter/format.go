package exporter

import "strconv"

// formatFloat writes the shortest representation that round-trips, so
// values already rounded by the summarizer are printed as is.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatOptional formats a value that may be absent; absent prints empty.
func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
