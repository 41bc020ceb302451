package services

// ServiceContainer holds every service in the application.
type ServiceContainer struct {
	AuthService     AuthService
	DisasterService DisasterService
	AlertService    AlertService
	ResponseService ResponseService
}
