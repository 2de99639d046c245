package repository

import appdomain "careerpulse-backend/internal/application/domain"

// ApplicationRepository persists extracted job applications.
type ApplicationRepository interface {
	Create(app *appdomain.JobApplication) error
	ListByUserID(userID string) ([]*appdomain.JobApplication, error)
	CountByUserID(userID string) (int64, error)
}
