package repositories

import (
	"errors"
	"time"

	"eras_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlertNotFound = errors.New("alert not found")

type AlertRepository interface {
	WithTx(tx *gorm.DB) AlertRepository

	// CreateIgnoreConflicts bulk-inserts alerts with ON CONFLICT DO NOTHING
	// on the (disaster, user) unique index and returns how many rows were
	// actually inserted. Re-dispatching for the same disaster is a no-op for
	// already-alerted users.
	CreateIgnoreConflicts(alerts []models.DisasterAlert) (int, error)

	FindUnreadByUser(userID string) ([]models.DisasterAlert, error)
	FindByIDForUser(alertID, userID string) (*models.DisasterAlert, error)
	MarkRead(alertID, userID string) error
	CountByDisaster(disasterID string) (int64, error)
	UnreadCount(userID string) (int64, error)
}

type AlertRepositoryImpl struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &AlertRepositoryImpl{db: db}
}

func (r *AlertRepositoryImpl) WithTx(tx *gorm.DB) AlertRepository {
	return &AlertRepositoryImpl{db: tx}
}

func (r *AlertRepositoryImpl) CreateIgnoreConflicts(alerts []models.DisasterAlert) (int, error) {
	if len(alerts) == 0 {
		return 0, nil
	}

	result := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "disaster_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		CreateInBatches(&alerts, 100)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *AlertRepositoryImpl) FindUnreadByUser(userID string) ([]models.DisasterAlert, error) {
	var alerts []models.DisasterAlert
	err := r.db.
		Preload("Disaster").
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepositoryImpl) FindByIDForUser(alertID, userID string) (*models.DisasterAlert, error) {
	var alert models.DisasterAlert
	err := r.db.First(&alert, "id = ? AND user_id = ?", alertID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return &alert, nil
}

func (r *AlertRepositoryImpl) MarkRead(alertID, userID string) error {
	result := r.db.Model(&models.DisasterAlert{}).
		Where("id = ? AND user_id = ?", alertID, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (r *AlertRepositoryImpl) CountByDisaster(disasterID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.DisasterAlert{}).
		Where("disaster_id = ?", disasterID).
		Count(&count).Error
	return count, err
}

func (r *AlertRepositoryImpl) UnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.DisasterAlert{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
