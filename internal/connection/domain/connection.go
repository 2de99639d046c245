package domain

import (
	"errors"
	"time"
)

// ErrDisconnected is returned when a user has no usable mail connection.
// The user must authorize (or re-authorize) before sync can run.
var ErrDisconnected = errors.New("mailbox not connected")

// ErrRefreshFailed is returned when the provider rejected the stored refresh
// token. The connection has been force-disconnected; callers must not retry
// with stale tokens.
var ErrRefreshFailed = errors.New("token refresh failed")

type Provider string

const (
	ProviderGmail Provider = "gmail"
	ProviderIMAP  Provider = "imap"
)

// Connection pairs a user with their mailbox credentials. At most one active
// connection exists per user (unique index on UserID).
type Connection struct {
	ID       string   `json:"id" gorm:"primaryKey"`
	UserID   string   `json:"user_id" gorm:"uniqueIndex;not null"`
	Provider Provider `json:"provider"`
	Email    string   `json:"email"`

	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	Connected    bool      `json:"connected"`

	// IMAP connections only; AccessToken holds the app password for these.
	ImapHost string `json:"imap_host,omitempty"`
	ImapPort int    `json:"imap_port,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expired reports whether the access token is past (or within margin of) its
// expiry and needs a refresh before use.
func (c *Connection) Expired(margin time.Duration) bool {
	return time.Now().Add(margin).After(c.ExpiresAt)
}
