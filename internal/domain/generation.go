package domain

import "time"

const (
	GenerationSucceeded = "SUCCEEDED"
	GenerationFailed    = "FAILED"
)

// Generation is one settled video request as recorded in history. VideoURL is
// the ready-to-fetch URI returned by the orchestrator (credential already
// appended); ErrorMessage is set only for failed generations.
type Generation struct {
	ID           string    `json:"id"`
	Prompt       string    `json:"prompt"`
	Locale       string    `json:"locale"`
	Status       string    `json:"status"`
	VideoURL     string    `json:"video_url,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
