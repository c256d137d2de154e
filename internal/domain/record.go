package domain

import "time"

// GenerationRecord is one entry in a client's generation history.
type GenerationRecord struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"-"`
	Operation   Operation `json:"operation"`
	Framework   Framework `json:"framework"`
	Prompt      string    `json:"prompt"`
	Code        string    `json:"code"`
	Explanation string    `json:"explanation"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Changes     []string  `json:"changes,omitempty"`
	Fallback    bool      `json:"fallback"`
	CreatedAt   time.Time `json:"createdAt"`
}
