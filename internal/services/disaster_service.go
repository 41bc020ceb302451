package services

import (
	"errors"
	"time"

	"eras_backend/internal/logger"
	"eras_backend/internal/models"
	"eras_backend/internal/repositories"
	"eras_backend/internal/services/dto"
	"eras_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	publicPageSize  = 12
	myPageSize      = 10
	adminPageSize   = 20
	maxListPageSize = 100

	detailUpdatesLimit = 10
)

type DisasterService interface {
	CreateDisaster(actor models.ActorContext, req *dto.CreateDisasterRequest) (*models.Disaster, error)
	UpdateDisaster(actor models.ActorContext, disasterID string, req *dto.UpdateDisasterRequest) (*models.Disaster, error)
	DeleteDisaster(actor models.ActorContext, disasterID string) error

	GetDisaster(actor models.ActorContext, disasterID string) (*dto.DisasterDetailResponse, error)
	ListPublic(criteria repositories.DisasterCriteria) (*dto.DisasterListResponse, error)
	MyDisasters(actor models.ActorContext, page int) (*dto.MyDisastersResponse, error)
	NearbyDisasters(actor models.ActorContext) ([]dto.NearbyDisaster, error)

	Moderate(actor models.ActorContext, disasterID string, req *dto.ModerateDisasterRequest) (*models.Disaster, error)
	MarkResolved(actor models.ActorContext, disasterID string, req *dto.ResolveDisasterRequest, resolvedAt time.Time) (*models.Disaster, error)
	AdminList(status string, page int) (*dto.AdminDisastersResponse, error)

	ReportDisaster(actor models.ActorContext, disasterID string, req *dto.ReportDisasterRequest) (*models.DisasterReport, error)
	ReviewReport(actor models.ActorContext, reportID string, req *dto.ReviewReportRequest) error
}

type DisasterServiceImpl struct {
	db           *gorm.DB
	disasterRepo repositories.DisasterRepository
	responseRepo repositories.ResponseRepository
	reportRepo   repositories.ReportRepository
	updateRepo   repositories.UpdateRepository
	alertService AlertService
}

func NewDisasterService(
	db *gorm.DB,
	disasterRepo repositories.DisasterRepository,
	responseRepo repositories.ResponseRepository,
	reportRepo repositories.ReportRepository,
	updateRepo repositories.UpdateRepository,
	alertService AlertService,
) DisasterService {
	return &DisasterServiceImpl{
		db:           db,
		disasterRepo: disasterRepo,
		responseRepo: responseRepo,
		reportRepo:   reportRepo,
		updateRepo:   updateRepo,
		alertService: alertService,
	}
}

func (s *DisasterServiceImpl) CreateDisaster(actor models.ActorContext, req *dto.CreateDisasterRequest) (*models.Disaster, error) {
	status := models.StatusPending
	if req.SaveDraft {
		status = models.StatusDraft
	}

	disaster := &models.Disaster{
		Title:            req.Title,
		DisasterType:     models.DisasterType(req.DisasterType),
		Severity:         models.DisasterSeverity(req.Severity),
		Description:      req.Description,
		City:             req.City,
		AreaSector:       req.AreaSector,
		SpecificAddress:  req.SpecificAddress,
		Landmarks:        req.Landmarks,
		IncidentDatetime: req.IncidentDatetime,
		EmergencyContact: req.EmergencyContact,
		ReporterID:       actor.UserID,
		Status:           status,
		IsActive:         true,
	}
	disaster.Normalize()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.disasterRepo.WithTx(tx)
		if err := repo.Create(disaster); err != nil {
			return err
		}
		if err := repo.ReplaceImages(disaster.ID, imagesFromInput(req.Images)); err != nil {
			return err
		}
		return s.updateRepo.WithTx(tx).Record(
			disaster.ID, actor.UserID, models.UpdateTypeStatusChange,
			nil, map[string]interface{}{"status": string(status)},
			"Disaster reported",
		)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTooManyImages) {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		return nil, apperrors.InternalError(err)
	}

	logger.Info("disaster created",
		"disaster_id", disaster.ID,
		"reporter_id", actor.UserID,
		"status", disaster.Status,
	)
	return disaster, nil
}

func (s *DisasterServiceImpl) UpdateDisaster(actor models.ActorContext, disasterID string, req *dto.UpdateDisasterRequest) (*models.Disaster, error) {
	disaster, err := s.disasterRepo.FindByID(disasterID)
	if err != nil {
		return nil, s.mapDisasterError(err)
	}
	if !disaster.VisibleTo(actor) {
		// hide existence of unpublished reports from strangers
		return nil, apperrors.ErrDisasterNotFound
	}
	if !disaster.CanEdit(actor) {
		return nil, apperrors.NewForbiddenError("You cannot edit this disaster")
	}

	oldValues := map[string]interface{}{
		"title":       disaster.Title,
		"severity":    string(disaster.Severity),
		"description": disaster.Description,
		"city":        disaster.City,
		"area_sector": disaster.AreaSector,
		"status":      string(disaster.Status),
	}

	disaster.Title = req.Title
	disaster.DisasterType = models.DisasterType(req.DisasterType)
	disaster.Severity = models.DisasterSeverity(req.Severity)
	disaster.Description = req.Description
	disaster.City = req.City
	disaster.AreaSector = req.AreaSector
	disaster.SpecificAddress = req.SpecificAddress
	disaster.Landmarks = req.Landmarks
	disaster.IncidentDatetime = req.IncidentDatetime
	disaster.EmergencyContact = req.EmergencyContact
	disaster.Normalize()

	// An explicit submit of a draft puts it in the moderation queue. Edits
	// never change status otherwise; a rejected report stays rejected with
	// its reason intact.
	if disaster.Status == models.StatusDraft && req.Submit {
		disaster.Status = models.StatusPending
	}

	newValues := map[string]interface{}{
		"title":       disaster.Title,
		"severity":    string(disaster.Severity),
		"description": disaster.Description,
		"city":        disaster.City,
		"area_sector": disaster.AreaSector,
		"status":      string(disaster.Status),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.disasterRepo.WithTx(tx)
		// drop preloaded relations before the save so gorm does not upsert them
		saved := *disaster
		saved.Images = nil
		saved.Responses = nil
		saved.Reporter = nil
		if err := repo.Save(&saved); err != nil {
			return err
		}
		if err := repo.ReplaceImages(disaster.ID, imagesFromInput(req.Images)); err != nil {
			return err
		}
		return s.updateRepo.WithTx(tx).Record(
			disaster.ID, actor.UserID, models.UpdateTypeContentEdit,
			oldValues, newValues, "Disaster details updated",
		)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTooManyImages) {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		return nil, apperrors.InternalError(err)
	}

	return s.disasterRepo.FindByID(disaster.ID)
}

func (s *DisasterServiceImpl) DeleteDisaster(actor models.ActorContext, disasterID string) error {
	disaster, err := s.disasterRepo.FindByID(disasterID)
	if err != nil {
		return s.mapDisasterError(err)
	}
	if !disaster.VisibleTo(actor) {
		return apperrors.ErrDisasterNotFound
	}
	if !disaster.CanDelete(actor) {
		return apperrors.NewForbiddenError("You cannot delete this disaster")
	}

	if err := s.disasterRepo.DeleteCascade(disasterID); err != nil {
		return s.mapDisasterError(err)
	}

	logger.Info("disaster deleted", "disaster_id", disasterID, "actor_id", actor.UserID)
	return nil
}

func (s *DisasterServiceImpl) GetDisaster(actor models.ActorContext, disasterID string) (*dto.DisasterDetailResponse, error) {
	disaster, err := s.disasterRepo.FindByID(disasterID)
	if err != nil {
		return nil, s.mapDisasterError(err)
	}
	if !disaster.VisibleTo(actor) {
		return nil, apperrors.ErrDisasterNotFound
	}

	// Lost increments under concurrent views are tolerated here.
	if err := s.disasterRepo.IncrementViewCount(disaster); err != nil {
		logger.Warn("view count increment failed", "disaster_id", disasterID, "error", err)
	}

	updates, err := s.updateRepo.ListByDisaster(disasterID, detailUpdatesLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	detail := &dto.DisasterDetailResponse{
		Disaster:  disaster,
		Updates:   updates,
		CanEdit:   disaster.CanEdit(actor),
		CanDelete: disaster.CanDelete(actor),
	}

	if actor.IsServiceProvider() {
		response, err := s.responseRepo.FindByDisasterAndProvider(disasterID, actor.ProviderProfileID)
		if err == nil {
			detail.UserResponse = response
		} else if !errors.Is(err, repositories.ErrResponseNotFound) {
			return nil, apperrors.InternalError(err)
		}
		// The respond action is offered only until a response exists.
		detail.CanRespond = disaster.Status == models.StatusApproved && detail.UserResponse == nil
	}

	return detail, nil
}

func (s *DisasterServiceImpl) ListPublic(criteria repositories.DisasterCriteria) (*dto.DisasterListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 {
		criteria.PageSize = publicPageSize
	}
	if criteria.PageSize > maxListPageSize {
		criteria.PageSize = maxListPageSize
	}

	disasters, total, err := s.disasterRepo.ListApproved(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.DisasterListResponse{
		Disasters: disasters,
		Total:     total,
		Page:      criteria.Page,
		PageSize:  criteria.PageSize,
	}, nil
}

func (s *DisasterServiceImpl) MyDisasters(actor models.ActorContext, page int) (*dto.MyDisastersResponse, error) {
	if page < 1 {
		page = 1
	}

	disasters, total, err := s.disasterRepo.ListByReporter(actor.UserID, page, myPageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	stats, err := s.disasterRepo.StatsByReporter(actor.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.MyDisastersResponse{
		Disasters: disasters,
		Stats:     stats,
		Total:     total,
		Page:      page,
		PageSize:  myPageSize,
	}, nil
}

// NearbyDisasters lists approved disasters in the provider's city, same-area
// first, each annotated with the provider's own response if any.
func (s *DisasterServiceImpl) NearbyDisasters(actor models.ActorContext) ([]dto.NearbyDisaster, error) {
	if !actor.IsServiceProvider() {
		return nil, apperrors.NewForbiddenError("Only service providers can view nearby disasters")
	}
	if actor.City == "" {
		return nil, apperrors.ErrProfileNotFound
	}

	disasters, err := s.disasterRepo.ListByCity(actor.City)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses, err := s.responseRepo.ListByProvider(actor.ProviderProfileID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byDisaster := make(map[string]*models.DisasterResponse, len(responses))
	for i := range responses {
		byDisaster[responses[i].DisasterID] = &responses[i]
	}

	sameArea := make([]dto.NearbyDisaster, 0)
	otherAreas := make([]dto.NearbyDisaster, 0)
	for _, disaster := range disasters {
		row := dto.NearbyDisaster{
			Disaster:     disaster,
			SameArea:     disaster.AreaSector == actor.AreaSector,
			UserResponse: byDisaster[disaster.ID],
		}
		if row.SameArea {
			sameArea = append(sameArea, row)
		} else {
			otherAreas = append(otherAreas, row)
		}
	}
	return append(sameArea, otherAreas...), nil
}

// Moderate applies an admin decision. Approval stamps approved_by/approved_at
// exactly once and dispatches alerts in the same transaction, so a decision
// either fully lands or not at all.
func (s *DisasterServiceImpl) Moderate(actor models.ActorContext, disasterID string, req *dto.ModerateDisasterRequest) (*models.Disaster, error) {
	target := models.DisasterStatus(req.Status)
	switch target {
	case models.StatusApproved, models.StatusRejected, models.StatusCancelled:
	default:
		return nil, apperrors.ErrInvalidTransition
	}
	if target == models.StatusRejected && req.RejectionReason == "" {
		return nil, apperrors.ErrRejectionReasonNeeded
	}

	var alertsCreated int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.disasterRepo.WithTx(tx)
		disaster, err := repo.FindByIDForUpdate(disasterID)
		if err != nil {
			return err
		}
		if !models.CanTransition(disaster.Status, target) {
			return apperrors.ErrInvalidTransition
		}

		oldStatus := disaster.Status
		disaster.Status = target

		switch target {
		case models.StatusApproved:
			if disaster.ApprovedAt == nil {
				now := time.Now()
				disaster.ApprovedAt = &now
				disaster.ApprovedByID = &actor.UserID
			}
			disaster.RejectionReason = ""
		case models.StatusRejected:
			disaster.RejectionReason = req.RejectionReason
		case models.StatusCancelled:
			disaster.IsActive = false
		}

		if err := repo.Save(disaster); err != nil {
			return err
		}

		if target == models.StatusApproved {
			alertsCreated, err = s.alertService.DispatchAlerts(tx, disaster)
			if err != nil {
				return err
			}
		}

		notes := "Status changed by moderator"
		if target == models.StatusRejected {
			notes = req.RejectionReason
		}
		return s.updateRepo.WithTx(tx).Record(
			disasterID, actor.UserID, models.UpdateTypeStatusChange,
			map[string]interface{}{"status": string(oldStatus)},
			map[string]interface{}{"status": string(target)},
			notes,
		)
	})
	if err != nil {
		return nil, s.mapDisasterError(err)
	}

	logger.Info("disaster moderated",
		"disaster_id", disasterID,
		"status", target,
		"admin_id", actor.UserID,
		"alerts_created", alertsCreated,
	)
	return s.disasterRepo.FindByID(disasterID)
}

func (s *DisasterServiceImpl) MarkResolved(actor models.ActorContext, disasterID string, req *dto.ResolveDisasterRequest, resolvedAt time.Time) (*models.Disaster, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.disasterRepo.WithTx(tx)
		disaster, err := repo.FindByIDForUpdate(disasterID)
		if err != nil {
			return err
		}
		// Only the reporter or an admin may close out a disaster.
		if !actor.IsSuperuser && disaster.ReporterID != actor.UserID {
			return apperrors.NewForbiddenError("You cannot resolve this disaster")
		}
		if !models.CanTransition(disaster.Status, models.StatusResolved) {
			return apperrors.ErrInvalidTransition
		}

		oldStatus := disaster.Status
		disaster.Status = models.StatusResolved
		disaster.ResolvedAt = &resolvedAt
		disaster.ResolutionNotes = req.ResolutionNotes

		if err := repo.Save(disaster); err != nil {
			return err
		}
		return s.updateRepo.WithTx(tx).Record(
			disasterID, actor.UserID, models.UpdateTypeResolved,
			map[string]interface{}{"status": string(oldStatus)},
			map[string]interface{}{"status": string(models.StatusResolved)},
			req.ResolutionNotes,
		)
	})
	if err != nil {
		return nil, s.mapDisasterError(err)
	}

	logger.Info("disaster resolved", "disaster_id", disasterID, "admin_id", actor.UserID)
	return s.disasterRepo.FindByID(disasterID)
}

func (s *DisasterServiceImpl) AdminList(status string, page int) (*dto.AdminDisastersResponse, error) {
	if page < 1 {
		page = 1
	}

	disasters, total, err := s.disasterRepo.ListAll(models.DisasterStatus(status), page, adminPageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	stats, err := s.disasterRepo.StatsAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unreviewed, err := s.reportRepo.CountUnreviewed()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AdminDisastersResponse{
		Disasters: disasters,
		Stats: &dto.AdminDisasterStats{
			DisasterStats:     *stats,
			UnreviewedReports: unreviewed,
		},
		Total:    total,
		Page:     page,
		PageSize: adminPageSize,
	}, nil
}

func (s *DisasterServiceImpl) ReportDisaster(actor models.ActorContext, disasterID string, req *dto.ReportDisasterRequest) (*models.DisasterReport, error) {
	disaster, err := s.disasterRepo.FindByID(disasterID)
	if err != nil {
		return nil, s.mapDisasterError(err)
	}
	if !disaster.VisibleTo(actor) {
		return nil, apperrors.ErrDisasterNotFound
	}

	report := &models.DisasterReport{
		DisasterID:   disasterID,
		ReportedByID: actor.UserID,
		Reason:       models.ReportReason(req.Reason),
		Description:  req.Description,
	}
	if err := s.reportRepo.Create(report); err != nil {
		if errors.Is(err, repositories.ErrAlreadyReported) {
			return nil, apperrors.ErrAlreadyReported
		}
		return nil, apperrors.InternalError(err)
	}

	logger.Info("disaster flagged for review",
		"disaster_id", disasterID,
		"reported_by", actor.UserID,
		"reason", req.Reason,
	)
	return report, nil
}

func (s *DisasterServiceImpl) ReviewReport(actor models.ActorContext, reportID string, req *dto.ReviewReportRequest) error {
	err := s.reportRepo.MarkReviewed(reportID, actor.UserID, req.AdminNotes)
	if err != nil {
		if errors.Is(err, repositories.ErrReportNotFound) {
			return apperrors.NotFound("Report")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *DisasterServiceImpl) mapDisasterError(err error) error {
	if errors.Is(err, repositories.ErrDisasterNotFound) {
		return apperrors.ErrDisasterNotFound
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}

func imagesFromInput(inputs []dto.ImageInput) []models.DisasterImage {
	images := make([]models.DisasterImage, 0, len(inputs))
	for _, input := range inputs {
		images = append(images, models.DisasterImage{
			ImagePath: input.ImagePath,
			Caption:   input.Caption,
			IsPrimary: input.IsPrimary,
		})
	}
	return images
}
