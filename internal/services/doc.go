// Package services implements the use cases of the score calculator. It
// sits between the HTTP handlers and the dataprocessing core, keeping the
// handlers free of parsing and aggregation details.
//
// # Architecture
//
// Services follow these principles:
//
//	1. Stateless calls: every operation receives the uploaded bytes
//	2. Context propagation for cancellation and trace correlation
//	3. Dependency injection of the analyzer, metrics and event publisher
//
// # Available Services
//
//	- ScoreService: analyze, columns, summary, shots, target and export
//	- HealthService: health, readiness, liveness and version reports
//
// # Observability
//
// Every ScoreService operation records the score_* business metrics and
// publishes an analysis:completed or analysis:failed event through the
// EventPublisher, usually the websocket hub:
//
//	svc := services.NewScoreService(analyzer, metrics, hub, logger)
//	result, err := svc.Analyze(ctx, data, api.AnalyzeRequest{})
//
// # Error Handling
//
// Core failures are *errors.AppError values and pass through unchanged so
// the HTTP error handler can map them to problem details. A malformed
// delimiter is reported as a validation AppError.
package services
