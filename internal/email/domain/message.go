package domain

import (
	"context"
	"errors"
	"time"

	conndomain "careerpulse-backend/internal/connection/domain"
)

// ErrNotFound is returned when the provider has no message with the given id.
var ErrNotFound = errors.New("message not found")

// RawMessage is a fetched mail item. It is immutable once fetched and never
// persisted; only the applications extracted from it are.
type RawMessage struct {
	ID         string
	From       string
	Subject    string
	Body       string // may contain markup
	ReceivedAt time.Time
}

// MailProvider lists and fetches messages from an external mailbox. It does
// not classify or filter by content; it only narrows by provider-side query
// and caller-supplied limits.
type MailProvider interface {
	// ListMessageIDs returns an ordered sequence of candidate message ids.
	// after, when set, is translated into the provider query as a date
	// filter; max is a hard cap on the number of ids returned.
	ListMessageIDs(ctx context.Context, conn *conndomain.Connection, accessToken, query string, after *time.Time, max int64) ([]string, error)

	// GetMessage fetches one full message. Failures are wrapped with the
	// operation and message id before surfacing.
	GetMessage(ctx context.Context, conn *conndomain.Connection, accessToken, id string) (*RawMessage, error)
}
