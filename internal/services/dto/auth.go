package dto

import "eras_backend/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=15"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=citizen service_provider"`

	// Location profile, read by the alert matching engine.
	City       string `json:"city" validate:"required,max=100"`
	AreaSector string `json:"area_sector" validate:"max=100"`
	Address    string `json:"address"`

	// Citizen fields
	FullName   string `json:"full_name"`
	BloodGroup string `json:"blood_group"`

	// Service provider fields
	OrganizationName string `json:"organization_name"`
	ServiceType      string `json:"service_type"`
	HotlineNumber    string `json:"hotline_number"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}
