package repositories

import (
	"errors"

	"eras_backend/internal/models"

	"gorm.io/gorm"
)

var ErrResponseNotFound = errors.New("response not found")

type ResponseRepository interface {
	WithTx(tx *gorm.DB) ResponseRepository

	FindByDisasterAndProvider(disasterID, providerID string) (*models.DisasterResponse, error)
	Save(response *models.DisasterResponse) error
	ListByDisaster(disasterID string) ([]models.DisasterResponse, error)
	ListByProvider(providerID string) ([]models.DisasterResponse, error)
	CountByDisasterAndProvider(disasterID, providerID string) (int64, error)
}

type ResponseRepositoryImpl struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &ResponseRepositoryImpl{db: db}
}

func (r *ResponseRepositoryImpl) WithTx(tx *gorm.DB) ResponseRepository {
	return &ResponseRepositoryImpl{db: tx}
}

func (r *ResponseRepositoryImpl) FindByDisasterAndProvider(disasterID, providerID string) (*models.DisasterResponse, error) {
	var response models.DisasterResponse
	err := r.db.First(&response, "disaster_id = ? AND service_provider_id = ?", disasterID, providerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResponseNotFound
		}
		return nil, err
	}
	return &response, nil
}

// Save persists a new response or updates an existing one in place. The
// composite unique index on (disaster, provider) backs the one-row-per-pair
// invariant; the service resolves the existing row before calling.
func (r *ResponseRepositoryImpl) Save(response *models.DisasterResponse) error {
	return r.db.Save(response).Error
}

func (r *ResponseRepositoryImpl) ListByDisaster(disasterID string) ([]models.DisasterResponse, error) {
	var responses []models.DisasterResponse
	err := r.db.
		Preload("ServiceProvider").
		Where("disaster_id = ?", disasterID).
		Order("created_at DESC").
		Find(&responses).Error
	return responses, err
}

func (r *ResponseRepositoryImpl) ListByProvider(providerID string) ([]models.DisasterResponse, error) {
	var responses []models.DisasterResponse
	err := r.db.
		Where("service_provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&responses).Error
	return responses, err
}

func (r *ResponseRepositoryImpl) CountByDisasterAndProvider(disasterID, providerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.DisasterResponse{}).
		Where("disaster_id = ? AND service_provider_id = ?", disasterID, providerID).
		Count(&count).Error
	return count, err
}
