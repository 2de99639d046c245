package repository

import (
	"errors"
	"time"

	conndomain "careerpulse-backend/internal/connection/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// connectionRepository implements ConnectionRepository interface
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new instance of connectionRepository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{
		db: db,
	}
}

func (r *connectionRepository) FindByUserID(userID string) (*conndomain.Connection, error) {
	var conn conndomain.Connection
	err := r.db.Where("user_id = ?", userID).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

// Upsert replaces any existing connection for the user so the one-connection
// invariant holds across re-authorization.
func (r *connectionRepository) Upsert(conn *conndomain.Connection) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing conndomain.Connection
		err := tx.Where("user_id = ?", conn.UserID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			conn.ID = uuid.New().String()
			conn.CreatedAt = now
			conn.UpdatedAt = now
			return tx.Create(conn).Error
		}

		conn.ID = existing.ID
		conn.CreatedAt = existing.CreatedAt
		conn.UpdatedAt = now
		return tx.Save(conn).Error
	})
}

func (r *connectionRepository) Update(conn *conndomain.Connection) error {
	conn.UpdatedAt = time.Now()
	return r.db.Save(conn).Error
}
