package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string   `gorm:"uniqueIndex" json:"phone"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'citizen'" json:"role"`
	IsSuperuser  bool     `gorm:"default:false" json:"is_superuser"`
	IsActive     bool     `gorm:"default:true" json:"is_active"`

	// Relations
	CitizenProfile         *CitizenProfile         `gorm:"foreignKey:UserID" json:"citizen_profile,omitempty"`
	ServiceProviderProfile *ServiceProviderProfile `gorm:"foreignKey:UserID" json:"service_provider_profile,omitempty"`
}

type CitizenProfile struct {
	BaseModel
	UserID      string     `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName    string     `json:"full_name"`
	City        string     `gorm:"index;not null" json:"city"`
	AreaSector  string     `gorm:"index" json:"area_sector"`
	Address     string     `json:"address"`
	BloodGroup  string     `gorm:"type:varchar(3)" json:"blood_group"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

type ServiceProviderProfile struct {
	BaseModel
	UserID           string      `gorm:"uniqueIndex;not null" json:"user_id"`
	OrganizationName string      `gorm:"not null" json:"organization_name"`
	ServiceType      ServiceType `gorm:"type:varchar(20)" json:"service_type"`
	City             string      `gorm:"index;not null" json:"city"`
	AreaSector       string      `gorm:"index" json:"area_sector"`
	Address          string      `json:"address"`
	HotlineNumber    string      `json:"hotline_number"`
}

// ActorContext is the resolved identity passed into core operations: the
// authenticated user plus the optional location profile for their role.
// Resolving it once at the boundary keeps profile-existence probing out of
// business logic.
type ActorContext struct {
	UserID      string
	Role        UserRole
	IsSuperuser bool
	City        string
	AreaSector  string
	// ProviderProfileID is set only for service providers.
	ProviderProfileID string
}

// IsServiceProvider reports whether the actor can submit disaster responses.
func (a ActorContext) IsServiceProvider() bool {
	return a.Role == UserRoleServiceProvider && a.ProviderProfileID != ""
}
