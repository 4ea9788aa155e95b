package models

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single question or answer in a conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
}

// ChatResponse is the answer to a chat request. InsufficientContext is set when
// retrieval found nothing above the similarity floor and no answer was synthesized.
type ChatResponse struct {
	Answer              string     `json:"answer"`
	SessionID           string     `json:"session_id"`
	CitedSources        []Citation `json:"cited_sources"`
	InsufficientContext bool       `json:"insufficient_context"`
}

// IngestRequest is the body of POST /api/v1/ingest.
type IngestRequest struct {
	Path string `json:"path"`
}

// IngestResponse reports the outcome of an ingestion run.
type IngestResponse struct {
	Status   string `json:"status"`
	Document string `json:"document"`
	Pages    int    `json:"pages"`
	Chunks   int    `json:"chunks"`
	Reason   string `json:"reason,omitempty"`
}
