package services

import (
	"fmt"
	"testing"
	"time"

	"eras_backend/internal/config"
	"eras_backend/internal/logger"
	"eras_backend/internal/models"
	"eras_backend/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Init("test")

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

// newTestDB opens an isolated in-memory database with the full schema. The
// single-connection limit keeps every session on the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.CitizenProfile{},
		&models.ServiceProviderProfile{},
		&models.Disaster{},
		&models.DisasterImage{},
		&models.DisasterAlert{},
		&models.DisasterUpdate{},
		&models.DisasterResponse{},
		&models.DisasterReport{},
	))

	return db
}

type testEnv struct {
	db *gorm.DB

	authService     AuthService
	alertService    AlertService
	disasterService DisasterService
	responseService ResponseService

	disasterRepo repositories.DisasterRepository
	alertRepo    repositories.AlertRepository
	responseRepo repositories.ResponseRepository
	updateRepo   repositories.UpdateRepository
	reportRepo   repositories.ReportRepository
	profileRepo  repositories.ProfileRepository
	userRepo     repositories.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	disasterRepo := repositories.NewDisasterRepository(db)
	alertRepo := repositories.NewAlertRepository(db)
	responseRepo := repositories.NewResponseRepository(db)
	updateRepo := repositories.NewUpdateRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	authService := NewAuthService(db, userRepo, profileRepo)
	alertService := NewAlertService(alertRepo, profileRepo)
	disasterService := NewDisasterService(db, disasterRepo, responseRepo, reportRepo, updateRepo, alertService)
	responseService := NewResponseService(db, disasterRepo, responseRepo, updateRepo)

	return &testEnv{
		db:              db,
		authService:     authService,
		alertService:    alertService,
		disasterService: disasterService,
		responseService: responseService,
		disasterRepo:    disasterRepo,
		alertRepo:       alertRepo,
		responseRepo:    responseRepo,
		updateRepo:      updateRepo,
		reportRepo:      reportRepo,
		profileRepo:     profileRepo,
		userRepo:        userRepo,
	}
}

var userSeq int

// createCitizen inserts a citizen user with a location profile and returns
// the resolved actor.
func (e *testEnv) createCitizen(t *testing.T, city, area string) models.ActorContext {
	t.Helper()
	userSeq++

	user := &models.User{
		Email:        fmt.Sprintf("citizen%d@test.local", userSeq),
		Phone:        fmt.Sprintf("0170000%04d", userSeq),
		PasswordHash: "x",
		Role:         models.UserRoleCitizen,
		IsActive:     true,
	}
	require.NoError(t, e.db.Create(user).Error)

	profile := &models.CitizenProfile{
		UserID:     user.ID,
		FullName:   fmt.Sprintf("Citizen %d", userSeq),
		City:       city,
		AreaSector: area,
	}
	require.NoError(t, e.db.Create(profile).Error)

	return models.ActorContext{
		UserID:     user.ID,
		Role:       models.UserRoleCitizen,
		City:       city,
		AreaSector: area,
	}
}

// createProvider inserts a service provider user with an organization
// profile and returns the resolved actor.
func (e *testEnv) createProvider(t *testing.T, city, area string) models.ActorContext {
	t.Helper()
	userSeq++

	user := &models.User{
		Email:        fmt.Sprintf("provider%d@test.local", userSeq),
		Phone:        fmt.Sprintf("0180000%04d", userSeq),
		PasswordHash: "x",
		Role:         models.UserRoleServiceProvider,
		IsActive:     true,
	}
	require.NoError(t, e.db.Create(user).Error)

	profile := &models.ServiceProviderProfile{
		UserID:           user.ID,
		OrganizationName: fmt.Sprintf("Responder Org %d", userSeq),
		ServiceType:      models.ServiceTypeAmbulance,
		City:             city,
		AreaSector:       area,
	}
	require.NoError(t, e.db.Create(profile).Error)

	return models.ActorContext{
		UserID:            user.ID,
		Role:              models.UserRoleServiceProvider,
		City:              city,
		AreaSector:        area,
		ProviderProfileID: profile.ID,
	}
}

// createAdmin inserts a superuser and returns the resolved actor.
func (e *testEnv) createAdmin(t *testing.T) models.ActorContext {
	t.Helper()
	userSeq++

	user := &models.User{
		Email:        fmt.Sprintf("admin%d@test.local", userSeq),
		Phone:        fmt.Sprintf("0190000%04d", userSeq),
		PasswordHash: "x",
		Role:         models.UserRoleAdmin,
		IsSuperuser:  true,
		IsActive:     true,
	}
	require.NoError(t, e.db.Create(user).Error)

	return models.ActorContext{
		UserID:      user.ID,
		Role:        models.UserRoleAdmin,
		IsSuperuser: true,
	}
}

// createDisaster inserts a disaster directly in the given status, bypassing
// the service layer.
func (e *testEnv) createDisaster(t *testing.T, reporter models.ActorContext, status models.DisasterStatus, severity models.DisasterSeverity, city, area string) *models.Disaster {
	t.Helper()

	disaster := &models.Disaster{
		DisasterType:     models.DisasterTypeFlood,
		Severity:         severity,
		Description:      "Flood waters rising rapidly across several residential blocks, families stranded.",
		City:             city,
		AreaSector:       area,
		IncidentDatetime: time.Now().Add(-time.Hour),
		ReporterID:       reporter.UserID,
		Status:           status,
		IsActive:         true,
	}
	disaster.Normalize()
	require.NoError(t, e.db.Create(disaster).Error)
	return disaster
}
