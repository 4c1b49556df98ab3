// Package api contains the HTTP contracts of the score calculator.
// Score endpoints take multipart uploads; the fields below are bound from
// the multipart form by their form tags.
package api

// Summary modes.
const (
	ModeBasic = "basic"
	ModeSIUS  = "sius"
)

// UploadRequest holds the fields shared by every score upload.
type UploadRequest struct {
	// Delimiter forces the field separator instead of sniffing it.
	Delimiter string `form:"delimiter" json:"delimiter,omitempty" validate:"omitempty,delimiter"`
}

// AnalyzeRequest selects columns for POST /api/scores/analyze. Nil columns
// fall back to the advisor's suggestions.
type AnalyzeRequest struct {
	UploadRequest
	IDColumn    *int `form:"id_column" json:"id_column,omitempty" validate:"omitempty,min=0"`
	ScoreColumn *int `form:"score_column" json:"score_column,omitempty" validate:"omitempty,min=0"`
	SampleSize  int  `form:"sample_size" json:"sample_size,omitempty" validate:"omitempty,min=1,max=100"`
}

// ColumnsRequest is the body of POST /api/scores/columns.
type ColumnsRequest struct {
	UploadRequest
}

// SIUSColumnsRequest names SIUS columns by header. Empty names are resolved
// against the loaded field list.
type SIUSColumnsRequest struct {
	StartNrColumn   string `form:"start_nr_column" json:"start_nr_column,omitempty" validate:"omitempty,max=200"`
	PrimaryColumn   string `form:"primary_column" json:"primary_column,omitempty" validate:"omitempty,max=200"`
	SecondaryColumn string `form:"secondary_column" json:"secondary_column,omitempty" validate:"omitempty,max=200"`
}

// FilterRequest narrows the rows a summary or listing sees.
type FilterRequest struct {
	Relay string `form:"relay" json:"relay,omitempty" validate:"omitempty,max=100"`
	// StartNrs keeps only these start numbers when non-nil. A present but
	// empty field selects nothing.
	StartNrs        []string `form:"start_nrs" json:"start_nrs,omitempty" validate:"omitempty,dive,max=100"`
	ExcludedIndices []int    `form:"excluded_indices" json:"excluded_indices,omitempty" validate:"omitempty,dive,min=0"`
}

// SummaryRequest is the body of POST /api/scores/summary.
type SummaryRequest struct {
	AnalyzeRequest
	SIUSColumnsRequest
	FilterRequest
	Mode string `form:"mode" json:"mode,omitempty" validate:"omitempty,oneof=basic sius"`
}

// ShotsRequest is the body of POST /api/scores/shots and /api/scores/target.
type ShotsRequest struct {
	UploadRequest
	SIUSColumnsRequest
	FilterRequest
	StartNr string `form:"start_nr" json:"start_nr" validate:"required,max=100"`
}

// ExportRequest is the body of POST /api/scores/export.
type ExportRequest struct {
	SummaryRequest
	OutputDelimiter string `form:"delimiter_out" json:"delimiter_out,omitempty" validate:"omitempty,delimiter"`
}
