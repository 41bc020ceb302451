package dto

import (
	"time"

	"eras_backend/internal/models"
	"eras_backend/internal/repositories"
)

type ImageInput struct {
	ImagePath string `json:"image_path" validate:"required"`
	Caption   string `json:"caption" validate:"max=200"`
	IsPrimary bool   `json:"is_primary"`
}

type CreateDisasterRequest struct {
	Title            string       `json:"title" validate:"max=200"`
	DisasterType     string       `json:"disaster_type" validate:"required,disaster_type"`
	Severity         string       `json:"severity" validate:"required,disaster_severity"`
	Description      string       `json:"description" validate:"required,min=50"`
	City             string       `json:"city" validate:"required,max=100"`
	AreaSector       string       `json:"area_sector" validate:"required,max=100"`
	SpecificAddress  string       `json:"specific_address"`
	Landmarks        string       `json:"landmarks" validate:"max=200"`
	IncidentDatetime time.Time    `json:"incident_datetime" validate:"required,not_future"`
	EmergencyContact string       `json:"emergency_contact" validate:"max=15"`
	Images           []ImageInput `json:"images" validate:"max=5,dive"`

	// SaveDraft keeps the report in draft instead of submitting it for
	// moderation.
	SaveDraft bool `json:"save_draft"`
}

type UpdateDisasterRequest struct {
	Title            string       `json:"title" validate:"max=200"`
	DisasterType     string       `json:"disaster_type" validate:"required,disaster_type"`
	Severity         string       `json:"severity" validate:"required,disaster_severity"`
	Description      string       `json:"description" validate:"required,min=50"`
	City             string       `json:"city" validate:"required,max=100"`
	AreaSector       string       `json:"area_sector" validate:"required,max=100"`
	SpecificAddress  string       `json:"specific_address"`
	Landmarks        string       `json:"landmarks" validate:"max=200"`
	IncidentDatetime time.Time    `json:"incident_datetime" validate:"required,not_future"`
	EmergencyContact string       `json:"emergency_contact" validate:"max=15"`
	Images           []ImageInput `json:"images" validate:"max=5,dive"`

	// Submit moves a draft to pending alongside the content edit.
	Submit bool `json:"submit"`
}

type ModerateDisasterRequest struct {
	Status          string `json:"status" validate:"required"`
	RejectionReason string `json:"rejection_reason"`
}

type ResolveDisasterRequest struct {
	ResolutionNotes string `json:"resolution_notes"`
}

type ReportDisasterRequest struct {
	Reason      string `json:"reason" validate:"required,report_reason"`
	Description string `json:"description" validate:"required"`
}

type ReviewReportRequest struct {
	AdminNotes string `json:"admin_notes"`
}

type DisasterListResponse struct {
	Disasters []models.Disaster `json:"disasters"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
}

type MyDisastersResponse struct {
	Disasters []models.Disaster           `json:"disasters"`
	Stats     *repositories.DisasterStats `json:"stats"`
	Total     int64                       `json:"total"`
	Page      int                         `json:"page"`
	PageSize  int                         `json:"page_size"`
}

// AdminDisasterStats extends the per-status breakdown with the moderation
// queue depth.
type AdminDisasterStats struct {
	repositories.DisasterStats
	UnreviewedReports int64 `json:"unreviewed_reports"`
}

type AdminDisastersResponse struct {
	Disasters []models.Disaster   `json:"disasters"`
	Stats     *AdminDisasterStats `json:"stats"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"page_size"`
}

// DisasterDetailResponse is the full detail view: the disaster with its
// images and responses preloaded, the recent audit trail, and the
// affordances the requesting actor holds.
type DisasterDetailResponse struct {
	Disaster     *models.Disaster         `json:"disaster"`
	Updates      []models.DisasterUpdate  `json:"updates"`
	UserResponse *models.DisasterResponse `json:"user_response,omitempty"`
	CanEdit      bool                     `json:"can_edit"`
	CanDelete    bool                     `json:"can_delete"`
	CanRespond   bool                     `json:"can_respond"`
}

// NearbyDisaster is one row of the service-provider dashboard: an approved
// disaster in the provider's city annotated with the provider's own response.
type NearbyDisaster struct {
	Disaster     models.Disaster          `json:"disaster"`
	SameArea     bool                     `json:"same_area"`
	UserResponse *models.DisasterResponse `json:"user_response,omitempty"`
}

type AreaOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type AreasByCityResponse struct {
	Areas []AreaOption `json:"areas"`
}
