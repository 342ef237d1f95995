package models

import "time"

// IngestResult summarizes one completed ingestion run for a tenant.
type IngestResult struct {
	TenantID      string        `json:"tenant_id"`
	Documents     int           `json:"documents"`      // documents successfully extracted
	FailedDocs    []string      `json:"failed_docs,omitempty"` // file names that failed at container level
	Pages         int           `json:"pages"`          // pages carrying text
	EmptyPages    int           `json:"empty_pages"`    // pages no strategy could read
	Chunks        int           `json:"chunks"`
	Duration      time.Duration `json:"duration"`
	CompletedAt   time.Time     `json:"completed_at"`
}

// Answer is the result of a question-answering request.
type Answer struct {
	TenantID string         `json:"tenant_id"`
	Question string         `json:"question"`
	Text     string         `json:"text"`
	Sources  []SearchResult `json:"sources,omitempty"`
	Model    string         `json:"model,omitempty"`
}
