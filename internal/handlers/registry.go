package handlers

// AppHandlers holds every handler in the application.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	DisasterHandler *DisasterHandler
	AlertHandler    *AlertHandler
}
