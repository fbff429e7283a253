package model

import "time"

// Submission is the journal record of a submit attempt. A row with
// Registered=false marks content that reached the store but never made it
// into the ledger; registration can be retried for it without re-uploading.
type Submission struct {
	ID          string    `json:"id"`
	ContentID   string    `json:"content_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Registered  bool      `json:"registered"`
	CreatedAt   time.Time `json:"created_at"`
}
