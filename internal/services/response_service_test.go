package services

import (
	"testing"
	"time"

	"eras_backend/internal/models"
	"eras_backend/internal/services/dto"
	"eras_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitResponse_CreatesThenUpdatesInPlace(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.createCitizen(t, "Dhaka", "Gulshan")
	provider := env.createProvider(t, "Dhaka", "Gulshan")
	disaster := env.createDisaster(t, reporter, models.StatusApproved, models.SeverityHigh, "Dhaka", "Gulshan")

	eta := time.Now().Add(30 * time.Minute)
	first, err := env.responseService.SubmitResponse(provider, disaster.ID, &dto.SubmitResponseRequest{
		ResponseStatus:   string(models.ResponseStatusResponding),
		ResponseNotes:    "Two ambulances dispatched",
		EstimatedArrival: &eta,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResponseStatusResponding, first.ResponseStatus)

	second, err := env.responseService.SubmitResponse(provider, disaster.ID, &dto.SubmitResponseRequest{
		ResponseStatus: string(models.ResponseStatusOnScene),
	})
	require.NoError(t, err)

	// Same row updated, not a second one.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.ResponseStatusOnScene, second.ResponseStatus)
	assert.Equal(t, "Two ambulances dispatched", second.ResponseNotes)
	require.NotNil(t, second.EstimatedArrival)

	count, err := env.responseRepo.CountByDisasterAndProvider(disaster.ID, provider.ProviderProfileID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	detail, err := env.disasterService.GetDisaster(provider, disaster.ID)
	require.NoError(t, err)
	assert.False(t, detail.CanRespond)
	require.NotNil(t, detail.UserResponse)
}

func TestGetDisaster_CanRespondBeforeFirstResponse(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.createCitizen(t, "Dhaka", "Gulshan")
	provider := env.createProvider(t, "Dhaka", "Gulshan")
	disaster := env.createDisaster(t, reporter, models.StatusApproved, models.SeverityHigh, "Dhaka", "Gulshan")

	detail, err := env.disasterService.GetDisaster(provider, disaster.ID)
	require.NoError(t, err)
	assert.True(t, detail.CanRespond)
	assert.Nil(t, detail.UserResponse)
}

func TestSubmitResponse_RequiresApprovedDisaster(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.createCitizen(t, "Dhaka", "Gulshan")
	provider := env.createProvider(t, "Dhaka", "Gulshan")
	disaster := env.createDisaster(t, reporter, models.StatusPending, models.SeverityHigh, "Dhaka", "Gulshan")

	_, err := env.responseService.SubmitResponse(provider, disaster.ID, &dto.SubmitResponseRequest{
		ResponseStatus: string(models.ResponseStatusResponding),
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestSubmitResponse_RejectsNonProviders(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.createCitizen(t, "Dhaka", "Gulshan")
	citizen := env.createCitizen(t, "Dhaka", "Banani")
	disaster := env.createDisaster(t, reporter, models.StatusApproved, models.SeverityHigh, "Dhaka", "Gulshan")

	_, err := env.responseService.SubmitResponse(citizen, disaster.ID, &dto.SubmitResponseRequest{
		ResponseStatus: string(models.ResponseStatusResponding),
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestSubmitResponse_AuditsEverySubmission(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.createCitizen(t, "Dhaka", "Gulshan")
	provider := env.createProvider(t, "Dhaka", "Gulshan")
	disaster := env.createDisaster(t, reporter, models.StatusApproved, models.SeverityHigh, "Dhaka", "Gulshan")

	_, err := env.responseService.SubmitResponse(provider, disaster.ID, &dto.SubmitResponseRequest{
		ResponseStatus: string(models.ResponseStatusResponding),
	})
	require.NoError(t, err)
	_, err = env.responseService.SubmitResponse(provider, disaster.ID, &dto.SubmitResponseRequest{
		ResponseStatus: string(models.ResponseStatusOnScene),
	})
	require.NoError(t, err)

	updates, err := env.updateRepo.ListByDisaster(disaster.ID, 0)
	require.NoError(t, err)

	added := 0
	for _, u := range updates {
		if u.UpdateType == models.UpdateTypeResponseAdded {
			added++
		}
	}
	assert.Equal(t, 2, added, "each submission leaves an audit entry")
}

func TestListByDisaster_PreloadsProvider(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.createCitizen(t, "Dhaka", "Gulshan")
	provider := env.createProvider(t, "Dhaka", "Gulshan")
	disaster := env.createDisaster(t, reporter, models.StatusApproved, models.SeverityHigh, "Dhaka", "Gulshan")

	_, err := env.responseService.SubmitResponse(provider, disaster.ID, &dto.SubmitResponseRequest{
		ResponseStatus: string(models.ResponseStatusResponding),
	})
	require.NoError(t, err)

	responses, err := env.responseService.ListByDisaster(disaster.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].ServiceProvider)
	assert.NotEmpty(t, responses[0].ServiceProvider.OrganizationName)
}
