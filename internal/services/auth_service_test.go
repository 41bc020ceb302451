package services

import (
	"testing"

	"eras_backend/internal/auth"
	"eras_backend/internal/models"
	"eras_backend/internal/services/dto"
	"eras_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func citizenRegisterRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:      "rahim@test.local",
		Phone:      "01711111111",
		Password:   "password123",
		Role:       string(models.UserRoleCitizen),
		City:       "Dhaka",
		AreaSector: "Gulshan",
		FullName:   "Rahim Uddin",
		BloodGroup: "O+",
	}
}

func TestRegister_CitizenWithProfile(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.authService.Register(citizenRegisterRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	claims, err := auth.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, string(models.UserRoleCitizen), claims.Role)

	profile, err := env.profileRepo.FindCitizenByUserID(resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dhaka", profile.City)
	assert.Equal(t, "Gulshan", profile.AreaSector)
	assert.Equal(t, "O+", profile.BloodGroup)
}

func TestRegister_ServiceProviderNeedsOrganization(t *testing.T) {
	env := newTestEnv(t)

	req := citizenRegisterRequest()
	req.Email = "hospital@test.local"
	req.Phone = "01722222222"
	req.Role = string(models.UserRoleServiceProvider)

	_, err := env.authService.Register(req)
	require.Error(t, err)

	req.OrganizationName = "City General Hospital"
	req.ServiceType = string(models.ServiceTypeHospital)

	resp, err := env.authService.Register(req)
	require.NoError(t, err)

	profile, err := env.profileRepo.FindProviderByUserID(resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "City General Hospital", profile.OrganizationName)
	assert.Equal(t, models.ServiceTypeHospital, profile.ServiceType)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService.Register(citizenRegisterRequest())
	require.NoError(t, err)

	dup := citizenRegisterRequest()
	dup.Phone = "01733333333"
	_, err = env.authService.Register(dup)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	// No orphaned user row from the failed attempt.
	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegister_RejectsWeakPasswordAndAdminRole(t *testing.T) {
	env := newTestEnv(t)

	weak := citizenRegisterRequest()
	weak.Password = "short"
	_, err := env.authService.Register(weak)
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	admin := citizenRegisterRequest()
	admin.Role = string(models.UserRoleAdmin)
	_, err = env.authService.Register(admin)
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	registered, err := env.authService.Register(citizenRegisterRequest())
	require.NoError(t, err)

	resp, err := env.authService.Login(&dto.LoginRequest{
		Email:    "rahim@test.local",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = env.authService.Login(&dto.LoginRequest{
		Email:    "rahim@test.local",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.authService.Login(&dto.LoginRequest{
		Email:    "nobody@test.local",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)

	registered, err := env.authService.Register(citizenRegisterRequest())
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", registered.User.ID).
		Update("is_active", false).Error)

	_, err = env.authService.Login(&dto.LoginRequest{
		Email:    "rahim@test.local",
		Password: "password123",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestResolveActor(t *testing.T) {
	env := newTestEnv(t)

	citizen, err := env.authService.Register(citizenRegisterRequest())
	require.NoError(t, err)

	actor, err := env.authService.ResolveActor(citizen.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleCitizen, actor.Role)
	assert.Equal(t, "Dhaka", actor.City)
	assert.Equal(t, "Gulshan", actor.AreaSector)
	assert.False(t, actor.IsServiceProvider())

	provider := env.createProvider(t, "Dhaka", "Banani")
	resolved, err := env.authService.ResolveActor(provider.UserID)
	require.NoError(t, err)
	assert.True(t, resolved.IsServiceProvider())
	assert.Equal(t, provider.ProviderProfileID, resolved.ProviderProfileID)

	_, err = env.authService.ResolveActor("missing-user")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
