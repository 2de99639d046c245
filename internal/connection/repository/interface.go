package repository

import conndomain "careerpulse-backend/internal/connection/domain"

// ConnectionRepository persists per-user OAuth credential records. Only the
// token manager mutates token fields.
type ConnectionRepository interface {
	FindByUserID(userID string) (*conndomain.Connection, error)
	Upsert(conn *conndomain.Connection) error
	Update(conn *conndomain.Connection) error
}
