package services

import (
	"errors"

	"eras_backend/internal/logger"
	"eras_backend/internal/models"
	"eras_backend/internal/repositories"
	"eras_backend/internal/services/dto"
	"eras_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ResponseService interface {
	// SubmitResponse creates or updates the provider's response to a
	// disaster. Each provider holds at most one response row per disaster;
	// repeated submissions edit it in place.
	SubmitResponse(actor models.ActorContext, disasterID string, req *dto.SubmitResponseRequest) (*models.DisasterResponse, error)

	ListByDisaster(disasterID string) ([]models.DisasterResponse, error)
	MyResponses(actor models.ActorContext) ([]models.DisasterResponse, error)
}

type ResponseServiceImpl struct {
	db           *gorm.DB
	disasterRepo repositories.DisasterRepository
	responseRepo repositories.ResponseRepository
	updateRepo   repositories.UpdateRepository
}

func NewResponseService(
	db *gorm.DB,
	disasterRepo repositories.DisasterRepository,
	responseRepo repositories.ResponseRepository,
	updateRepo repositories.UpdateRepository,
) ResponseService {
	return &ResponseServiceImpl{
		db:           db,
		disasterRepo: disasterRepo,
		responseRepo: responseRepo,
		updateRepo:   updateRepo,
	}
}

func (s *ResponseServiceImpl) SubmitResponse(actor models.ActorContext, disasterID string, req *dto.SubmitResponseRequest) (*models.DisasterResponse, error) {
	if !actor.IsServiceProvider() {
		return nil, apperrors.NewForbiddenError("Only service providers can respond to disasters")
	}
	if actor.ProviderProfileID == "" {
		return nil, apperrors.ErrProfileNotFound
	}

	disaster, err := s.disasterRepo.FindByID(disasterID)
	if err != nil {
		if errors.Is(err, repositories.ErrDisasterNotFound) {
			return nil, apperrors.ErrDisasterNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if disaster.Status != models.StatusApproved {
		return nil, apperrors.NewBadRequestError("Responses can only be submitted to approved disasters")
	}

	response, err := s.responseRepo.FindByDisasterAndProvider(disasterID, actor.ProviderProfileID)
	created := false
	if err != nil {
		if !errors.Is(err, repositories.ErrResponseNotFound) {
			return nil, apperrors.InternalError(err)
		}
		response = &models.DisasterResponse{
			DisasterID:        disasterID,
			ServiceProviderID: actor.ProviderProfileID,
			ResponseStatus:    models.ResponseStatusNotified,
		}
		created = true
	}

	if req.ResponseStatus != "" {
		response.ResponseStatus = models.ResponseStatus(req.ResponseStatus)
	}
	if req.ResponseNotes != "" {
		response.ResponseNotes = req.ResponseNotes
	}
	if req.EstimatedArrival != nil {
		response.EstimatedArrival = req.EstimatedArrival
	}
	if req.ActualArrival != nil {
		response.ActualArrival = req.ActualArrival
	}
	if req.CompletionTime != nil {
		response.CompletionTime = req.CompletionTime
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.responseRepo.WithTx(tx).Save(response); err != nil {
			return err
		}
		// Every submission is audited, updates included.
		return s.updateRepo.WithTx(tx).Record(
			disasterID, actor.UserID, models.UpdateTypeResponseAdded,
			nil,
			map[string]interface{}{
				"service_provider_id": actor.ProviderProfileID,
				"response_status":     string(response.ResponseStatus),
			},
			"Service provider responded",
		)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("disaster response saved",
		"disaster_id", disasterID,
		"provider_id", actor.ProviderProfileID,
		"status", response.ResponseStatus,
		"created", created,
	)
	return response, nil
}

func (s *ResponseServiceImpl) ListByDisaster(disasterID string) ([]models.DisasterResponse, error) {
	responses, err := s.responseRepo.ListByDisaster(disasterID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return responses, nil
}

func (s *ResponseServiceImpl) MyResponses(actor models.ActorContext) ([]models.DisasterResponse, error) {
	if !actor.IsServiceProvider() {
		return nil, apperrors.NewForbiddenError("Only service providers have responses")
	}
	responses, err := s.responseRepo.ListByProvider(actor.ProviderProfileID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return responses, nil
}
