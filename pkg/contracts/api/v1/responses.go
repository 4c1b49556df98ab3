package api

import "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"

// Response is the success envelope of every JSON endpoint.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Count  *int        `json:"count,omitempty"`
}

// Success wraps data in the success envelope.
func Success(data interface{}) Response {
	return Response{Status: "success", Data: data}
}

// SuccessCount wraps a list in the success envelope with its length.
func SuccessCount(data interface{}, count int) Response {
	return Response{Status: "success", Data: data, Count: &count}
}

// ColumnsResponse describes an upload before any aggregation.
type ColumnsResponse struct {
	Headers              []string         `json:"headers"`
	SampleRows           [][]string       `json:"sample_rows"`
	HasHeader            bool             `json:"has_header"`
	Delimiter            string           `json:"delimiter"`
	Source               string           `json:"source"`
	RowCount             int              `json:"row_count"`
	SuggestedIDColumn    int              `json:"suggested_id_column"`
	SuggestedScoreColumn int              `json:"suggested_score_column"`
	Fields               FieldSuggestions `json:"fields"`
	Relays               []string         `json:"relays"`
	StartNrs             []string         `json:"start_nrs"`
	Warnings             []domain.Warning `json:"warnings,omitempty"`
	Fingerprint          string           `json:"fingerprint"`
}

// FieldSuggestions are header names matched against the SIUS field list.
type FieldSuggestions struct {
	StartNr   string `json:"start_nr"`
	Primary   string `json:"primary_score"`
	Secondary string `json:"secondary_score"`
}

// SummaryResponse carries either basic or SIUS rows depending on Mode.
type SummaryResponse struct {
	Mode        string                     `json:"mode"`
	Rows        []domain.SummaryRow        `json:"rows,omitempty"`
	SIUSRows    []domain.DecimalIntegerRow `json:"sius_rows,omitempty"`
	ParsedRows  int                        `json:"parsed_rows"`
	SkippedRows int                        `json:"skipped_rows"`
	BlankIDRows int                        `json:"blank_id_rows,omitempty"`
	Warnings    []domain.Warning           `json:"warnings,omitempty"`
	Fingerprint string                     `json:"fingerprint"`
}

// ShotsResponse lists the shots of one start number.
type ShotsResponse struct {
	StartNr string        `json:"start_nr"`
	Shots   []domain.Shot `json:"shots"`
}

// TargetResponse lists shot coordinates of one start number.
type TargetResponse struct {
	StartNr string               `json:"start_nr"`
	Points  []domain.TargetPoint `json:"points"`
}
