package http

import (
	"net/http"

	apierrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
)

// MetricsHandler serves the Prometheus exposition of the meter provider.
type MetricsHandler struct {
	exporter     http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler wraps exporter; a nil exporter means metrics are disabled.
func NewMetricsHandler(exporter http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(nil, false)
	}
	return &MetricsHandler{exporter: exporter, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrServiceUnavailable.WithMessage("Metrics are disabled"))
		return
	}
	h.exporter.ServeHTTP(w, r)
}
