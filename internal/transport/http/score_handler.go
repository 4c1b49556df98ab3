package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/config"
	apierrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/infrastructure"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/middleware"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/validation"
	api "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/api/v1"
)

// uploadField is the multipart part carrying the score file.
const uploadField = "file"

const defaultMemoryBytes = 8 << 20

type uploadKey struct{}

// upload is a score file read by UploadCtx.
type upload struct {
	Filename string
	Data     []byte
}

// ScoreHandler serves the score endpoints. Every endpoint takes a multipart
// upload; nothing is kept between requests.
type ScoreHandler struct {
	service      ScoreServiceInterface
	validator    *middleware.ValidationMiddleware
	limits       config.UploadConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(
	service ScoreServiceInterface,
	validator *middleware.ValidationMiddleware,
	limits config.UploadConfig,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *ScoreHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	if validator == nil {
		validator = middleware.NewValidationMiddleware(logger, errorHandler)
	}
	return &ScoreHandler{
		service:      service,
		validator:    validator,
		limits:       limits,
		logger:       logger.With(slog.String("component", "score_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the score routes
func (h *ScoreHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Inline group so unmatched methods reach 405 before the body is read
	r.Group(func(r chi.Router) {
		r.Use(h.validator.ContentTypeValidator("multipart/form-data"))
		r.Use(h.UploadCtx)

		r.Post("/analyze", h.Analyze)
		r.Post("/columns", h.Columns)
		r.Post("/summary", h.Summary)
		r.Post("/shots", h.Shots)
		r.Post("/target", h.Target)
		r.Post("/export", h.Export)
	})

	return r
}

// UploadCtx middleware reads the uploaded file into the request context.
func (h *ScoreHandler) UploadCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up, err := h.readUpload(w, r)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		h.logger.DebugContext(r.Context(), "upload received",
			slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			infrastructure.FileAttr(up.Filename, len(up.Data)),
		)

		ctx := context.WithValue(r.Context(), uploadKey{}, up)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *ScoreHandler) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	if h.limits.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.limits.MaxBytes)
	}
	memory := h.limits.MemoryBytes
	if memory <= 0 {
		memory = defaultMemoryBytes
	}

	if err := r.ParseMultipartForm(memory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}
	// The file is copied into memory below; parts that spilled past
	// MemoryBytes must not outlive the request.
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.WarnContext(r.Context(), "failed to remove multipart temp files",
				slog.String("error", err.Error()))
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, apierrors.ErrMissingFile
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &upload{Filename: header.Filename, Data: data}, nil
}

func uploadFrom(ctx context.Context) *upload {
	if up, ok := ctx.Value(uploadKey{}).(*upload); ok {
		return up
	}
	return &upload{}
}

// bind fills req from the multipart form fields and validates it.
func (h *ScoreHandler) bind(r *http.Request, req interface{}) error {
	if r.MultipartForm != nil {
		if err := bindForm(r.MultipartForm.Value, req); err != nil {
			return err
		}
	}
	return h.validator.ValidateStruct(req)
}

// Analyze handles POST /api/scores/analyze
func (h *ScoreHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeRequest
	if err := h.bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Analyze(r.Context(), uploadFrom(r.Context()).Data, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.Success(result))
}

// Columns handles POST /api/scores/columns
func (h *ScoreHandler) Columns(w http.ResponseWriter, r *http.Request) {
	var req api.ColumnsRequest
	if err := h.bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Columns(r.Context(), uploadFrom(r.Context()).Data, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.Success(result))
}

// Summary handles POST /api/scores/summary
func (h *ScoreHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req api.SummaryRequest
	if err := h.bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Summary(r.Context(), uploadFrom(r.Context()).Data, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	count := len(result.Rows)
	if result.Mode == api.ModeSIUS {
		count = len(result.SIUSRows)
	}
	render.JSON(w, r, api.SuccessCount(result, count))
}

// Shots handles POST /api/scores/shots
func (h *ScoreHandler) Shots(w http.ResponseWriter, r *http.Request) {
	var req api.ShotsRequest
	if err := h.bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Shots(r.Context(), uploadFrom(r.Context()).Data, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.SuccessCount(result, len(result.Shots)))
}

// Target handles POST /api/scores/target
func (h *ScoreHandler) Target(w http.ResponseWriter, r *http.Request) {
	var req api.ShotsRequest
	if err := h.bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Target(r.Context(), uploadFrom(r.Context()).Data, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.SuccessCount(result, len(result.Points)))
}

// Export handles POST /api/scores/export. The summary is rendered in full
// before anything is written so a failure still yields a problem response.
func (h *ScoreHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req api.ExportRequest
	if err := h.bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	up := uploadFrom(r.Context())
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), up.Data, req, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := validation.SanitizeFilename(up.Filename) + validation.SummarySuffix
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("error", err.Error()),
			slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	}
}
