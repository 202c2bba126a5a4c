// Package dto defines request and response payloads for the HTTP surface.
package dto

import "time"

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// TokenRequest is the body of POST /auth/token. IssueKey must match the
// configured key before a service token is minted.
type TokenRequest struct {
	Caller   string `json:"caller"`
	IssueKey string `json:"issue_key"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TableResponse is the JSON shape for tabular query results.
type TableResponse struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Count   int              `json:"count"`
}

// SnapshotResponse describes the currently loaded dataset version.
type SnapshotResponse struct {
	SnapshotID string    `json:"snapshot_id"`
	Rows       int       `json:"rows"`
	LoadedAt   time.Time `json:"loaded_at"`
}
