// Package shared holds helpers used by more than one package of the score
// calculator. It must not contain scoring logic.
//
// The testutil subpackage provides the SIUS export fixtures the parser,
// service, handler and command tests share, plus a slog handler that
// captures records for assertions:
//
//	logger, handler := testutil.NewTestLogger(t)
//	svc := services.NewScoreService(analyzer, nil, nil, logger)
//	_, _ = svc.Columns(ctx, []byte(testutil.ShotExport), api.ColumnsRequest{})
//	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Score operation completed")
package shared
