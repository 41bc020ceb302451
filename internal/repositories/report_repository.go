package repositories

import (
	"errors"

	"eras_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrAlreadyReported = errors.New("user has already reported this disaster")
)

type ReportRepository interface {
	// Create inserts the report; a duplicate (disaster, user) pair yields
	// ErrAlreadyReported via the unique constraint.
	Create(report *models.DisasterReport) error

	FindByID(id string) (*models.DisasterReport, error)
	ExistsForUser(disasterID, userID string) (bool, error)
	ListUnreviewed(page, pageSize int) ([]models.DisasterReport, int64, error)
	CountUnreviewed() (int64, error)
	MarkReviewed(reportID, adminID, notes string) error
}

type ReportRepositoryImpl struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

func (r *ReportRepositoryImpl) Create(report *models.DisasterReport) error {
	err := r.db.Create(report).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyReported
		}
		return err
	}
	return nil
}

func (r *ReportRepositoryImpl) FindByID(id string) (*models.DisasterReport, error) {
	var report models.DisasterReport
	err := r.db.First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) ExistsForUser(disasterID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.DisasterReport{}).
		Where("disaster_id = ? AND reported_by_id = ?", disasterID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReportRepositoryImpl) ListUnreviewed(page, pageSize int) ([]models.DisasterReport, int64, error) {
	query := r.db.Model(&models.DisasterReport{}).Where("is_reviewed = ?", false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.DisasterReport
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reports).Error

	return reports, total, err
}

func (r *ReportRepositoryImpl) CountUnreviewed() (int64, error) {
	var count int64
	err := r.db.Model(&models.DisasterReport{}).
		Where("is_reviewed = ?", false).
		Count(&count).Error
	return count, err
}

func (r *ReportRepositoryImpl) MarkReviewed(reportID, adminID, notes string) error {
	result := r.db.Model(&models.DisasterReport{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"is_reviewed":    true,
			"reviewed_by_id": adminID,
			"admin_notes":    notes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}
