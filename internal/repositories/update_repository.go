package repositories

import (
	"encoding/json"

	"eras_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UpdateRepository is the append-only audit log. The core only ever writes;
// reads serve the reporting surface.
type UpdateRepository interface {
	WithTx(tx *gorm.DB) UpdateRepository

	// Record appends one audit entry. oldValues/newValues may be nil.
	Record(disasterID, actorID string, updateType models.UpdateType, oldValues, newValues map[string]interface{}, notes string) error

	ListByDisaster(disasterID string, limit int) ([]models.DisasterUpdate, error)
}

type UpdateRepositoryImpl struct {
	db *gorm.DB
}

func NewUpdateRepository(db *gorm.DB) UpdateRepository {
	return &UpdateRepositoryImpl{db: db}
}

func (r *UpdateRepositoryImpl) WithTx(tx *gorm.DB) UpdateRepository {
	return &UpdateRepositoryImpl{db: tx}
}

func (r *UpdateRepositoryImpl) Record(disasterID, actorID string, updateType models.UpdateType, oldValues, newValues map[string]interface{}, notes string) error {
	update := models.DisasterUpdate{
		DisasterID:  disasterID,
		UpdatedByID: actorID,
		UpdateType:  updateType,
		Notes:       notes,
	}

	if oldValues != nil {
		raw, err := json.Marshal(oldValues)
		if err != nil {
			return err
		}
		update.OldValues = datatypes.JSON(raw)
	}
	if newValues != nil {
		raw, err := json.Marshal(newValues)
		if err != nil {
			return err
		}
		update.NewValues = datatypes.JSON(raw)
	}

	return r.db.Create(&update).Error
}

func (r *UpdateRepositoryImpl) ListByDisaster(disasterID string, limit int) ([]models.DisasterUpdate, error) {
	var updates []models.DisasterUpdate
	query := r.db.
		Where("disaster_id = ?", disasterID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&updates).Error
	return updates, err
}
