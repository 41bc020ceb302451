package services

import (
	"errors"

	"eras_backend/internal/auth"
	"eras_backend/internal/logger"
	"eras_backend/internal/models"
	"eras_backend/internal/repositories"
	"eras_backend/internal/services/dto"
	"eras_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)

	// ResolveActor builds the typed actor context consumed by every core
	// operation: identity, role, superuser flag, and the location profile
	// for the actor's role if one exists.
	ResolveActor(userID string) (models.ActorContext, error)
}

type AuthServiceImpl struct {
	db          *gorm.DB
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

func NewAuthService(db *gorm.DB, userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository) AuthService {
	return &AuthServiceImpl{db: db, userRepo: userRepo, profileRepo: profileRepo}
}

func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	role := models.UserRole(req.Role)
	if role != models.UserRoleCitizen && role != models.UserRoleServiceProvider {
		return nil, apperrors.ErrInvalidUserRole
	}
	if role == models.UserRoleServiceProvider && req.OrganizationName == "" {
		return nil, apperrors.NewBadRequestError("Organization name is required for service providers")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		profileRepo := repositories.NewProfileRepository(tx)

		if err := userRepo.Create(user); err != nil {
			return err
		}

		switch role {
		case models.UserRoleCitizen:
			return profileRepo.CreateCitizenProfile(&models.CitizenProfile{
				UserID:     user.ID,
				FullName:   req.FullName,
				City:       req.City,
				AreaSector: req.AreaSector,
				Address:    req.Address,
				BloodGroup: req.BloodGroup,
			})
		case models.UserRoleServiceProvider:
			return profileRepo.CreateServiceProviderProfile(&models.ServiceProviderProfile{
				UserID:           user.ID,
				OrganizationName: req.OrganizationName,
				ServiceType:      models.ServiceType(req.ServiceType),
				City:             req.City,
				AreaSector:       req.AreaSector,
				Address:          req.Address,
				HotlineNumber:    req.HotlineNumber,
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return s.issueToken(user)
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.IsActive {
		return nil, apperrors.NewForbiddenError("Account is deactivated")
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *AuthServiceImpl) ResolveActor(userID string) (models.ActorContext, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.ActorContext{}, apperrors.ErrUserNotFound
		}
		return models.ActorContext{}, apperrors.InternalError(err)
	}

	actor := models.ActorContext{
		UserID:      user.ID,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
	}

	switch user.Role {
	case models.UserRoleCitizen:
		if p := user.CitizenProfile; p != nil {
			actor.City = p.City
			actor.AreaSector = p.AreaSector
		}
	case models.UserRoleServiceProvider:
		if p := user.ServiceProviderProfile; p != nil {
			actor.City = p.City
			actor.AreaSector = p.AreaSector
			actor.ProviderProfileID = p.ID
		}
	}

	return actor, nil
}

func (s *AuthServiceImpl) issueToken(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, string(user.Role), user.IsSuperuser)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{AccessToken: token, User: user}, nil
}
