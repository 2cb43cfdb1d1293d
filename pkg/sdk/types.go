package concierge

import (
	"fmt"
	"time"
)

// Answer is the pipeline's terminal output for one question.
type Answer struct {
	Answer  string            `json:"answer"`
	Outcome string            `json:"outcome"` // "answered" / "no_result"
	Meta    map[string]string `json:"meta,omitempty"`
}

// HistoryEntry is one recorded exchange.
type HistoryEntry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Outcome  string    `json:"outcome"`
	AskedAt  time.Time `json:"asked_at"`
}

// Health is the server's aggregated health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// APIError is a non-2xx API response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("concierge: API error %d (%s): %s", e.Status, e.Code, e.Message)
}
