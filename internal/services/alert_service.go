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

type AlertService interface {
	// DispatchAlerts fans an approved disaster out to every user with a
	// location profile in the disaster's city, at most one alert per user.
	// Idempotent: re-invocation creates nothing new. Returns the number of
	// alerts actually created. Runs inside the caller's transaction.
	DispatchAlerts(tx *gorm.DB, disaster *models.Disaster) (int, error)

	UserAlerts(userID string) (*dto.AlertListResponse, error)
	MarkAlertRead(userID, alertID string) error
	UnreadCount(userID string) (int64, error)
	AreasByCity(city string) (*dto.AreasByCityResponse, error)
}

type AlertServiceImpl struct {
	alertRepo   repositories.AlertRepository
	profileRepo repositories.ProfileRepository
}

func NewAlertService(alertRepo repositories.AlertRepository, profileRepo repositories.ProfileRepository) AlertService {
	return &AlertServiceImpl{alertRepo: alertRepo, profileRepo: profileRepo}
}

// matchTypeFor classifies why a profile is alerted. Area match wins over the
// severity override: a critical disaster in another area of the same city is
// tagged critical, not city.
func matchTypeFor(disaster *models.Disaster, areaSector string) models.AlertMatchType {
	if areaSector == disaster.AreaSector {
		return models.MatchTypeExact
	}
	if disaster.Severity == models.SeverityCritical {
		return models.MatchTypeCritical
	}
	return models.MatchTypeCity
}

func (s *AlertServiceImpl) DispatchAlerts(tx *gorm.DB, disaster *models.Disaster) (int, error) {
	citizens, err := s.profileRepo.FindCitizensByCity(disaster.City)
	if err != nil {
		return 0, err
	}
	providers, err := s.profileRepo.FindProvidersByCity(disaster.City)
	if err != nil {
		return 0, err
	}

	// The reporter is NOT excluded: a reporter with a matching profile gets
	// alerted about their own disaster, matching the moderation product's
	// observable behavior.
	alerts := make([]models.DisasterAlert, 0, len(citizens)+len(providers))
	seen := make(map[string]bool)

	for _, profile := range citizens {
		if seen[profile.UserID] {
			continue
		}
		seen[profile.UserID] = true
		alerts = append(alerts, models.DisasterAlert{
			DisasterID: disaster.ID,
			UserID:     profile.UserID,
			MatchType:  matchTypeFor(disaster, profile.AreaSector),
		})
	}
	for _, profile := range providers {
		if seen[profile.UserID] {
			continue
		}
		seen[profile.UserID] = true
		alerts = append(alerts, models.DisasterAlert{
			DisasterID: disaster.ID,
			UserID:     profile.UserID,
			MatchType:  matchTypeFor(disaster, profile.AreaSector),
		})
	}

	alertRepo := s.alertRepo
	if tx != nil {
		alertRepo = s.alertRepo.WithTx(tx)
	}

	created, err := alertRepo.CreateIgnoreConflicts(alerts)
	if err != nil {
		return 0, err
	}

	logger.Info("disaster alerts dispatched",
		"disaster_id", disaster.ID,
		"city", disaster.City,
		"candidates", len(alerts),
		"created", created,
	)
	return created, nil
}

func (s *AlertServiceImpl) UserAlerts(userID string) (*dto.AlertListResponse, error) {
	alerts, err := s.alertRepo.FindUnreadByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.AlertListResponse{
		Alerts: make([]dto.AlertResponse, 0, len(alerts)),
		Count:  len(alerts),
	}
	for _, alert := range alerts {
		resp.Alerts = append(resp.Alerts, dto.NewAlertResponse(alert))
	}
	return resp, nil
}

func (s *AlertServiceImpl) MarkAlertRead(userID, alertID string) error {
	err := s.alertRepo.MarkRead(alertID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAlertNotFound) {
			return apperrors.ErrAlertNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AlertServiceImpl) UnreadCount(userID string) (int64, error) {
	count, err := s.alertRepo.UnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *AlertServiceImpl) AreasByCity(city string) (*dto.AreasByCityResponse, error) {
	resp := &dto.AreasByCityResponse{Areas: []dto.AreaOption{}}
	if city == "" {
		return resp, nil
	}

	areas, err := s.profileRepo.DistinctAreasByCity(city)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for _, area := range areas {
		resp.Areas = append(resp.Areas, dto.AreaOption{Value: area, Label: area})
	}
	return resp, nil
}
