package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Disaster is a citizen-submitted incident report subject to moderation.
// Category and (when blank) title are derived in Normalize, never set
// independently.
type Disaster struct {
	BaseModel
	Title        string           `gorm:"size:200" json:"title"`
	DisasterType DisasterType     `gorm:"type:varchar(30);not null;index:idx_disasters_type_severity" json:"disaster_type"`
	Category     DisasterCategory `gorm:"type:varchar(10);not null" json:"category"`
	Severity     DisasterSeverity `gorm:"type:varchar(10);not null;index:idx_disasters_type_severity" json:"severity"`
	Description  string           `gorm:"not null" json:"description"`

	// Location
	City            string `gorm:"size:100;not null;index:idx_disasters_status_location" json:"city"`
	AreaSector      string `gorm:"size:100;not null;index:idx_disasters_status_location" json:"area_sector"`
	SpecificAddress string `json:"specific_address"`
	Landmarks       string `gorm:"size:200" json:"landmarks"`

	IncidentDatetime time.Time `gorm:"not null" json:"incident_datetime"`

	ReporterID       string `gorm:"not null;index" json:"reporter_id"`
	Reporter         *User  `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	EmergencyContact string `gorm:"size:15" json:"emergency_contact"`

	// Moderation
	Status          DisasterStatus `gorm:"type:varchar(15);not null;default:'draft';index:idx_disasters_status_location" json:"status"`
	ApprovedByID    *string        `json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`

	// Resolution
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`

	ViewCount int  `gorm:"default:0" json:"view_count"`
	IsActive  bool `gorm:"default:true" json:"is_active"`

	// Relations
	Images    []DisasterImage    `gorm:"foreignKey:DisasterID" json:"images,omitempty"`
	Responses []DisasterResponse `gorm:"foreignKey:DisasterID" json:"responses,omitempty"`
	Updates   []DisasterUpdate   `gorm:"foreignKey:DisasterID" json:"-"`
}

// Normalize derives title and category before a save. Title generation only
// fires when the reporter left it blank.
func (d *Disaster) Normalize() {
	if d.Title == "" {
		d.Title = fmt.Sprintf("%s in %s", DisasterTypeLabel(d.DisasterType), d.City)
	}
	d.Category = CategoryForType(d.DisasterType)
}

// CanEdit reports whether the actor may modify this disaster's content.
// Reporters lose edit rights the moment a report is approved.
func (d *Disaster) CanEdit(actor ActorContext) bool {
	if actor.IsSuperuser {
		return true
	}
	if d.ReporterID != actor.UserID {
		return false
	}
	switch d.Status {
	case StatusDraft, StatusPending, StatusRejected:
		return true
	}
	return false
}

// CanDelete reports whether the actor may delete this disaster. Narrower than
// CanEdit: a pending report stays visible to moderators, so its reporter may
// edit but not delete it.
func (d *Disaster) CanDelete(actor ActorContext) bool {
	if actor.IsSuperuser {
		return true
	}
	if d.ReporterID != actor.UserID {
		return false
	}
	switch d.Status {
	case StatusDraft, StatusRejected:
		return true
	}
	return false
}

// VisibleTo reports whether the actor may see this disaster at all. Anything
// not yet public is visible only to its reporter and superusers.
func (d *Disaster) VisibleTo(actor ActorContext) bool {
	if d.Status == StatusApproved || d.Status == StatusResolved {
		return true
	}
	return actor.IsSuperuser || actor.UserID == d.ReporterID
}

type DisasterImage struct {
	BaseModel
	DisasterID string `gorm:"not null;index" json:"disaster_id"`
	ImagePath  string `gorm:"not null" json:"image_path"`
	Caption    string `gorm:"size:200" json:"caption"`
	IsPrimary  bool   `gorm:"default:false" json:"is_primary"`
}

// DisasterAlert links one disaster to one recipient; the composite unique
// index is the idempotence guarantee for alert dispatch.
type DisasterAlert struct {
	BaseModel
	DisasterID string         `gorm:"not null;uniqueIndex:idx_alerts_disaster_user" json:"disaster_id"`
	UserID     string         `gorm:"not null;uniqueIndex:idx_alerts_disaster_user" json:"user_id"`
	MatchType  AlertMatchType `gorm:"type:varchar(20);not null" json:"match_type"`
	IsRead     bool           `gorm:"default:false" json:"is_read"`
	ReadAt     *time.Time     `json:"read_at,omitempty"`

	Disaster *Disaster `gorm:"foreignKey:DisasterID" json:"disaster,omitempty"`
}

// DisasterUpdate is an append-only audit entry; rows are never mutated or
// deleted.
type DisasterUpdate struct {
	BaseModel
	DisasterID  string         `gorm:"not null;index" json:"disaster_id"`
	UpdatedByID string         `gorm:"not null" json:"updated_by_id"`
	UpdateType  UpdateType     `gorm:"type:varchar(20);not null" json:"update_type"`
	OldValues   datatypes.JSON `json:"old_values,omitempty"`
	NewValues   datatypes.JSON `json:"new_values,omitempty"`
	Notes       string         `json:"notes"`
}

type DisasterResponse struct {
	BaseModel
	DisasterID        string                  `gorm:"not null;uniqueIndex:idx_responses_disaster_provider" json:"disaster_id"`
	ServiceProviderID string                  `gorm:"not null;uniqueIndex:idx_responses_disaster_provider" json:"service_provider_id"`
	ServiceProvider   *ServiceProviderProfile `gorm:"foreignKey:ServiceProviderID" json:"service_provider,omitempty"`

	ResponseStatus   ResponseStatus `gorm:"type:varchar(20);not null;default:'notified'" json:"response_status"`
	ResponseNotes    string         `json:"response_notes"`
	EstimatedArrival *time.Time     `json:"estimated_arrival,omitempty"`
	ActualArrival    *time.Time     `json:"actual_arrival,omitempty"`
	CompletionTime   *time.Time     `json:"completion_time,omitempty"`
}

// DisasterReport flags a disaster as false or inappropriate for moderator
// review.
type DisasterReport struct {
	BaseModel
	DisasterID   string       `gorm:"not null;uniqueIndex:idx_reports_disaster_reporter" json:"disaster_id"`
	ReportedByID string       `gorm:"not null;uniqueIndex:idx_reports_disaster_reporter" json:"reported_by_id"`
	Reason       ReportReason `gorm:"type:varchar(30);not null" json:"reason"`
	Description  string       `gorm:"not null" json:"description"`
	IsReviewed   bool         `gorm:"default:false" json:"is_reviewed"`
	ReviewedByID *string      `json:"reviewed_by_id,omitempty"`
	AdminNotes   string       `json:"admin_notes"`
}
