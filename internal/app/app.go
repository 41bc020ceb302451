package app

import (
	"errors"
	"fmt"

	"eras_backend/internal/config"
	"eras_backend/internal/handlers"
	"eras_backend/internal/logger"
	"eras_backend/internal/middleware"
	"eras_backend/internal/models"
	"eras_backend/internal/repositories"
	"eras_backend/internal/routes"
	"eras_backend/internal/services"
	"eras_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := Migrate(gormDB); err != nil {
		logger.Fatal("Database migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CitizenProfile{},
		&models.ServiceProviderProfile{},
		&models.Disaster{},
		&models.DisasterImage{},
		&models.DisasterAlert{},
		&models.DisasterUpdate{},
		&models.DisasterResponse{},
		&models.DisasterReport{},
	)
}

func SetupRouter(gormDB *gorm.DB) *gin.Engine {
	serviceContainer := InitializeServices(gormDB)
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func InitializeServices(gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	profileRepo := repositories.NewProfileRepository(gormDB)
	disasterRepo := repositories.NewDisasterRepository(gormDB)
	alertRepo := repositories.NewAlertRepository(gormDB)
	responseRepo := repositories.NewResponseRepository(gormDB)
	updateRepo := repositories.NewUpdateRepository(gormDB)
	reportRepo := repositories.NewReportRepository(gormDB)

	authService := services.NewAuthService(gormDB, userRepo, profileRepo)
	alertService := services.NewAlertService(alertRepo, profileRepo)
	disasterService := services.NewDisasterService(gormDB, disasterRepo, responseRepo, reportRepo, updateRepo, alertService)
	responseService := services.NewResponseService(gormDB, disasterRepo, responseRepo, updateRepo)

	return &services.ServiceContainer{
		AuthService:     authService,
		DisasterService: disasterService,
		AlertService:    alertService,
		ResponseService: responseService,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	v := validator.New()
	base := handlers.NewBaseHandler(v, container.AuthService)

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(base, container.AuthService),
		DisasterHandler: handlers.NewDisasterHandler(base, container.DisasterService, container.ResponseService),
		AlertHandler:    handlers.NewAlertHandler(base, container.AlertService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		Phone:        cfg.Admin.Phone,
		PasswordHash: string(hashedPassword),
		Role:         models.UserRoleAdmin,
		IsSuperuser:  true,
		IsActive:     true,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
