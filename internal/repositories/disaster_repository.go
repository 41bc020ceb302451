package repositories

import (
	"errors"
	"time"

	"eras_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDisasterNotFound = errors.New("disaster not found")
	ErrTooManyImages    = errors.New("a disaster may have at most 5 images")
)

const maxImagesPerDisaster = 5

// DisasterCriteria filters the public list. Search is a case-insensitive
// substring match over title, description, city and area_sector.
type DisasterCriteria struct {
	DisasterType string    `form:"disaster_type"`
	Severity     string    `form:"severity"`
	City         string    `form:"city"`
	AreaSector   string    `form:"area_sector"`
	DateFrom     time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo       time.Time `form:"date_to" time_format:"2006-01-02"`
	Search       string    `form:"search"`
	Page         int       `form:"page"`
	PageSize     int       `form:"page_size"`
}

// DisasterStats is the per-status breakdown for dashboards.
type DisasterStats struct {
	Total    int64 `json:"total"`
	Draft    int64 `json:"draft"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Resolved int64 `json:"resolved"`
}

type DisasterRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) DisasterRepository

	Create(disaster *models.Disaster) error
	Save(disaster *models.Disaster) error
	FindByID(id string) (*models.Disaster, error)
	FindByIDForUpdate(id string) (*models.Disaster, error)

	// DeleteCascade removes the disaster and its dependent rows (images,
	// alerts, updates, responses, reports) in one transaction.
	DeleteCascade(id string) error

	ListApproved(criteria DisasterCriteria) ([]models.Disaster, int64, error)
	ListByReporter(reporterID string, page, pageSize int) ([]models.Disaster, int64, error)
	ListByCity(city string) ([]models.Disaster, error)
	ListAll(status models.DisasterStatus, page, pageSize int) ([]models.Disaster, int64, error)
	StatsByReporter(reporterID string) (*DisasterStats, error)
	StatsAll() (*DisasterStats, error)

	// IncrementViewCount is a read-modify-write; concurrent views may
	// undercount. Tolerated for a non-critical metric.
	IncrementViewCount(disaster *models.Disaster) error

	ReplaceImages(disasterID string, images []models.DisasterImage) error
	ListImages(disasterID string) ([]models.DisasterImage, error)
}

type DisasterRepositoryImpl struct {
	db *gorm.DB
}

func NewDisasterRepository(db *gorm.DB) DisasterRepository {
	return &DisasterRepositoryImpl{db: db}
}

func (r *DisasterRepositoryImpl) WithTx(tx *gorm.DB) DisasterRepository {
	return &DisasterRepositoryImpl{db: tx}
}

func (r *DisasterRepositoryImpl) Create(disaster *models.Disaster) error {
	return r.db.Create(disaster).Error
}

func (r *DisasterRepositoryImpl) Save(disaster *models.Disaster) error {
	return r.db.Save(disaster).Error
}

func (r *DisasterRepositoryImpl) FindByID(id string) (*models.Disaster, error) {
	var disaster models.Disaster
	err := r.db.
		Preload("Reporter").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, created_at ASC")
		}).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Responses.ServiceProvider").
		First(&disaster, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisasterNotFound
		}
		return nil, err
	}
	return &disaster, nil
}

// FindByIDForUpdate loads the bare row with a row lock so concurrent
// moderation decisions serialize on it. SQLite serializes writers already,
// so the clause is skipped there.
func (r *DisasterRepositoryImpl) FindByIDForUpdate(id string) (*models.Disaster, error) {
	query := r.db
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var disaster models.Disaster
	err := query.First(&disaster, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisasterNotFound
		}
		return nil, err
	}
	return &disaster, nil
}

func (r *DisasterRepositoryImpl) DeleteCascade(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("disaster_id = ?", id).Delete(&models.DisasterImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("disaster_id = ?", id).Delete(&models.DisasterAlert{}).Error; err != nil {
			return err
		}
		if err := tx.Where("disaster_id = ?", id).Delete(&models.DisasterResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("disaster_id = ?", id).Delete(&models.DisasterReport{}).Error; err != nil {
			return err
		}
		if err := tx.Where("disaster_id = ?", id).Delete(&models.DisasterUpdate{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Disaster{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDisasterNotFound
		}
		return nil
	})
}

func (r *DisasterRepositoryImpl) ListApproved(criteria DisasterCriteria) ([]models.Disaster, int64, error) {
	query := r.db.Model(&models.Disaster{}).Where("status = ?", models.StatusApproved)

	if criteria.DisasterType != "" {
		query = query.Where("disaster_type = ?", criteria.DisasterType)
	}
	if criteria.Severity != "" {
		query = query.Where("severity = ?", criteria.Severity)
	}
	if criteria.City != "" {
		query = query.Where("LOWER(city) LIKE LOWER(?)", "%"+criteria.City+"%")
	}
	if criteria.AreaSector != "" {
		query = query.Where("LOWER(area_sector) LIKE LOWER(?)", "%"+criteria.AreaSector+"%")
	}
	if !criteria.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", criteria.DateFrom)
	}
	if !criteria.DateTo.IsZero() {
		// inclusive upper bound on the calendar day
		query = query.Where("created_at < ?", criteria.DateTo.AddDate(0, 0, 1))
	}
	if criteria.Search != "" {
		pattern := "%" + criteria.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(city) LIKE LOWER(?) OR LOWER(area_sector) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var disasters []models.Disaster
	err := query.
		Preload("Reporter").
		Order("created_at DESC").
		Limit(criteria.PageSize).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&disasters).Error

	return disasters, total, err
}

func (r *DisasterRepositoryImpl) ListByReporter(reporterID string, page, pageSize int) ([]models.Disaster, int64, error) {
	query := r.db.Model(&models.Disaster{}).Where("reporter_id = ?", reporterID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var disasters []models.Disaster
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&disasters).Error

	return disasters, total, err
}

func (r *DisasterRepositoryImpl) ListByCity(city string) ([]models.Disaster, error) {
	var disasters []models.Disaster
	err := r.db.
		Preload("Reporter").
		Preload("Responses").
		Where("status = ? AND city = ?", models.StatusApproved, city).
		Order("created_at DESC").
		Find(&disasters).Error
	return disasters, err
}

func (r *DisasterRepositoryImpl) ListAll(status models.DisasterStatus, page, pageSize int) ([]models.Disaster, int64, error) {
	query := r.db.Model(&models.Disaster{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var disasters []models.Disaster
	err := query.
		Preload("Reporter").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&disasters).Error

	return disasters, total, err
}

func (r *DisasterRepositoryImpl) StatsByReporter(reporterID string) (*DisasterStats, error) {
	return r.stats(r.db.Model(&models.Disaster{}).Where("reporter_id = ?", reporterID))
}

func (r *DisasterRepositoryImpl) StatsAll() (*DisasterStats, error) {
	return r.stats(r.db.Model(&models.Disaster{}))
}

func (r *DisasterRepositoryImpl) stats(base *gorm.DB) (*DisasterStats, error) {
	var stats DisasterStats
	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status models.DisasterStatus
		Count  int64
	}
	err := base.Session(&gorm.Session{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		switch row.Status {
		case models.StatusDraft:
			stats.Draft = row.Count
		case models.StatusPending:
			stats.Pending = row.Count
		case models.StatusApproved:
			stats.Approved = row.Count
		case models.StatusRejected:
			stats.Rejected = row.Count
		case models.StatusResolved:
			stats.Resolved = row.Count
		}
	}
	return &stats, nil
}

func (r *DisasterRepositoryImpl) IncrementViewCount(disaster *models.Disaster) error {
	disaster.ViewCount++
	return r.db.Model(disaster).UpdateColumn("view_count", disaster.ViewCount).Error
}

// ReplaceImages swaps the disaster's image set, enforcing the store-level
// invariants: at most 5 images and at most one primary.
func (r *DisasterRepositoryImpl) ReplaceImages(disasterID string, images []models.DisasterImage) error {
	if len(images) > maxImagesPerDisaster {
		return ErrTooManyImages
	}

	primarySeen := false
	for i := range images {
		images[i].DisasterID = disasterID
		if images[i].IsPrimary {
			if primarySeen {
				images[i].IsPrimary = false
			}
			primarySeen = true
		}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("disaster_id = ?", disasterID).Delete(&models.DisasterImage{}).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}

func (r *DisasterRepositoryImpl) ListImages(disasterID string) ([]models.DisasterImage, error) {
	var images []models.DisasterImage
	err := r.db.
		Where("disaster_id = ?", disasterID).
		Order("is_primary DESC, created_at ASC").
		Find(&images).Error
	return images, err
}
