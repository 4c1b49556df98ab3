package http

import (
	"context"
	"io"

	api "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/api/v1"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

// ScoreServiceInterface is what ScoreHandler needs from the score service.
// Every call receives the raw bytes of one uploaded file.
type ScoreServiceInterface interface {
	Analyze(ctx context.Context, data []byte, req api.AnalyzeRequest) (*domain.Analysis, error)
	Columns(ctx context.Context, data []byte, req api.ColumnsRequest) (*api.ColumnsResponse, error)
	Summary(ctx context.Context, data []byte, req api.SummaryRequest) (*api.SummaryResponse, error)
	Shots(ctx context.Context, data []byte, req api.ShotsRequest) (*api.ShotsResponse, error)
	Target(ctx context.Context, data []byte, req api.ShotsRequest) (*api.TargetResponse, error)
	Export(ctx context.Context, data []byte, req api.ExportRequest, w io.Writer) error
}
