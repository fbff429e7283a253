package model

import "time"

// Status is the moderation state of a document. The ledger is the
// authoritative source for pending/approved/denied; StatusUnknown is a
// client-side marker for documents whose status read failed and is never
// sent to the ledger.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
	StatusUnknown  Status = "unknown"
)

// Valid reports whether s is one of the ledger's wire statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied:
		return true
	}
	return false
}

// Decided reports whether the ledger has recorded a final decision.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusDenied
}

// Document is the read-model for a submitted file. It is rebuilt from the
// content store listing and the ledger on every fetch; metadata fields are
// descriptive copies and may lag the store. Status never silently defaults:
// a failed status read yields StatusUnknown.
type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
	LocationRef string    `json:"location_ref"`
	Status      Status    `json:"status"`
}
