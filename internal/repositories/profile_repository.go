package repositories

import (
	"errors"
	"sort"

	"eras_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	CreateCitizenProfile(profile *models.CitizenProfile) error
	CreateServiceProviderProfile(profile *models.ServiceProviderProfile) error
	FindCitizenByUserID(userID string) (*models.CitizenProfile, error)
	FindProviderByUserID(userID string) (*models.ServiceProviderProfile, error)
	FindProviderByID(id string) (*models.ServiceProviderProfile, error)

	// Matching reads: every profile of either kind in a city.
	FindCitizensByCity(city string) ([]models.CitizenProfile, error)
	FindProvidersByCity(city string) ([]models.ServiceProviderProfile, error)

	// DistinctAreasByCity returns the sorted union of area_sector values
	// across both profile types for a city, empty strings excluded.
	DistinctAreasByCity(city string) ([]string, error)
}

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) CreateCitizenProfile(profile *models.CitizenProfile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) CreateServiceProviderProfile(profile *models.ServiceProviderProfile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindCitizenByUserID(userID string) (*models.CitizenProfile, error) {
	var profile models.CitizenProfile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindProviderByUserID(userID string) (*models.ServiceProviderProfile, error) {
	var profile models.ServiceProviderProfile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindProviderByID(id string) (*models.ServiceProviderProfile, error) {
	var profile models.ServiceProviderProfile
	err := r.db.First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindCitizensByCity(city string) ([]models.CitizenProfile, error) {
	var profiles []models.CitizenProfile
	err := r.db.Where("city = ?", city).Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepositoryImpl) FindProvidersByCity(city string) ([]models.ServiceProviderProfile, error) {
	var profiles []models.ServiceProviderProfile
	err := r.db.Where("city = ?", city).Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepositoryImpl) DistinctAreasByCity(city string) ([]string, error) {
	var citizenAreas []string
	err := r.db.Model(&models.CitizenProfile{}).
		Where("city = ? AND area_sector <> ''", city).
		Distinct("area_sector").
		Pluck("area_sector", &citizenAreas).Error
	if err != nil {
		return nil, err
	}

	var providerAreas []string
	err = r.db.Model(&models.ServiceProviderProfile{}).
		Where("city = ? AND area_sector <> ''", city).
		Distinct("area_sector").
		Pluck("area_sector", &providerAreas).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var areas []string
	for _, area := range append(citizenAreas, providerAreas...) {
		if !seen[area] {
			seen[area] = true
			areas = append(areas, area)
		}
	}
	sort.Strings(areas)
	return areas, nil
}
