package repository

import (
	"time"

	appdomain "careerpulse-backend/internal/application/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new instance of applicationRepository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{
		db: db,
	}
}

func (r *applicationRepository) Create(app *appdomain.JobApplication) error {
	app.ID = uuid.New().String()
	app.CreatedAt = time.Now()
	app.UpdatedAt = time.Now()
	return r.db.Create(app).Error
}

func (r *applicationRepository) ListByUserID(userID string) ([]*appdomain.JobApplication, error) {
	var apps []*appdomain.JobApplication
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&appdomain.JobApplication{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
