package services

import "errors"

// Service errors
var (
	ErrAnalyzerNotConfigured = errors.New("score analyzer not configured")
	ErrHubNotRunning         = errors.New("websocket hub not running")
)
