package handlers

import "github.com/cylin-tw/line-daily-push/internal/notifier"

// RunResponse is returned by the trigger and preview endpoints.
type RunResponse struct {
	Mode       string `json:"mode"`
	DryRun     bool   `json:"dry_run"`
	Message    string `json:"message"`
	Dispatched bool   `json:"dispatched"`
}

type StatusResponse struct {
	Runs map[string]notifier.RunResult `json:"runs"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}
