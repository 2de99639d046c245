package domain

import "time"

// Status of a job application, derived from email signals. Always one of the
// four values below, never empty.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// JobApplication is one tracked application, extracted from a mailbox message.
type JobApplication struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	UserID      string  `json:"user_id" gorm:"index:idx_user_email_id,unique;not null"`
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	Status      Status  `json:"status"`
	DateApplied string  `json:"date_applied"` // YYYY-MM-DD
	Location    *string `json:"location,omitempty"`
	Confidence  float64 `json:"confidence"`

	// EmailID ties the record back to the source message; re-syncing the same
	// mailbox window must not duplicate it.
	EmailID string `json:"email_id" gorm:"index:idx_user_email_id,unique;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
