package models

type UserRole string
type DisasterType string
type DisasterCategory string
type DisasterSeverity string
type DisasterStatus string
type AlertMatchType string
type ResponseStatus string
type UpdateType string
type ReportReason string
type ServiceType string

const (
	UserRoleCitizen         UserRole = "citizen"
	UserRoleServiceProvider UserRole = "service_provider"
	UserRoleAdmin           UserRole = "admin"

	CategoryNatural DisasterCategory = "natural"
	CategoryManmade DisasterCategory = "manmade"

	SeverityCritical DisasterSeverity = "critical"
	SeverityHigh     DisasterSeverity = "high"
	SeverityMedium   DisasterSeverity = "medium"
	SeverityLow      DisasterSeverity = "low"

	StatusDraft     DisasterStatus = "draft"
	StatusPending   DisasterStatus = "pending"
	StatusApproved  DisasterStatus = "approved"
	StatusRejected  DisasterStatus = "rejected"
	StatusResolved  DisasterStatus = "resolved"
	StatusCancelled DisasterStatus = "cancelled"

	MatchTypeExact    AlertMatchType = "exact"
	MatchTypeCity     AlertMatchType = "city"
	MatchTypeCritical AlertMatchType = "critical"

	ResponseStatusNotified   ResponseStatus = "notified"
	ResponseStatusResponding ResponseStatus = "responding"
	ResponseStatusOnScene    ResponseStatus = "on_scene"
	ResponseStatusCompleted  ResponseStatus = "completed"
	ResponseStatusCancelled  ResponseStatus = "cancelled"

	UpdateTypeStatusChange  UpdateType = "status_change"
	UpdateTypeContentEdit   UpdateType = "content_edit"
	UpdateTypeResponseAdded UpdateType = "response_added"
	UpdateTypeResolved      UpdateType = "resolved"

	ReportReasonFalseInfo     ReportReason = "false_info"
	ReportReasonInappropriate ReportReason = "inappropriate"
	ReportReasonSpam          ReportReason = "spam"
	ReportReasonDuplicate     ReportReason = "duplicate"
	ReportReasonResolved      ReportReason = "resolved"
	ReportReasonOther         ReportReason = "other"

	ServiceTypeHospital    ServiceType = "hospital"
	ServiceTypeFireStation ServiceType = "fire_station"
	ServiceTypePolice      ServiceType = "police"
	ServiceTypeAmbulance   ServiceType = "ambulance"
	ServiceTypeNGO         ServiceType = "ngo"
	ServiceTypeOther       ServiceType = "other"
)

const (
	DisasterTypeEarthquake             DisasterType = "earthquake"
	DisasterTypeFlood                  DisasterType = "flood"
	DisasterTypeCycloneStorm           DisasterType = "cyclone_storm"
	DisasterTypeWildfire               DisasterType = "wildfire"
	DisasterTypeLandslide              DisasterType = "landslide"
	DisasterTypeDrought                DisasterType = "drought"
	DisasterTypeTsunami                DisasterType = "tsunami"
	DisasterTypeNaturalOther           DisasterType = "natural_other"
	DisasterTypeBuildingFire           DisasterType = "building_fire"
	DisasterTypeIndustrialAccident     DisasterType = "industrial_accident"
	DisasterTypeChemicalSpill          DisasterType = "chemical_spill"
	DisasterTypeTransportationAccident DisasterType = "transportation_accident"
	DisasterTypeBombThreat             DisasterType = "bomb_threat"
	DisasterTypeGasLeak                DisasterType = "gas_leak"
	DisasterTypeStructuralCollapse     DisasterType = "structural_collapse"
	DisasterTypeManmadeOther           DisasterType = "manmade_other"
)

// disasterTypeLabels maps a disaster type to its display name, used for
// auto-generated titles and alert payloads.
var disasterTypeLabels = map[DisasterType]string{
	DisasterTypeEarthquake:             "Earthquake",
	DisasterTypeFlood:                  "Flood",
	DisasterTypeCycloneStorm:           "Cyclone/Storm",
	DisasterTypeWildfire:               "Fire (Wildfire)",
	DisasterTypeLandslide:              "Landslide",
	DisasterTypeDrought:                "Drought",
	DisasterTypeTsunami:                "Tsunami",
	DisasterTypeNaturalOther:           "Natural - Others",
	DisasterTypeBuildingFire:           "Building Fire",
	DisasterTypeIndustrialAccident:     "Industrial Accident",
	DisasterTypeChemicalSpill:          "Chemical Spill",
	DisasterTypeTransportationAccident: "Transportation Accident",
	DisasterTypeBombThreat:             "Bomb Threat/Explosion",
	DisasterTypeGasLeak:                "Gas Leak",
	DisasterTypeStructuralCollapse:     "Structural Collapse",
	DisasterTypeManmadeOther:           "Man-Made - Others",
}

// naturalTypes is the fixed set that makes a disaster "natural"; everything
// else is man-made. Category is always derived from this table, never stored
// independently.
var naturalTypes = map[DisasterType]bool{
	DisasterTypeEarthquake:   true,
	DisasterTypeFlood:        true,
	DisasterTypeCycloneStorm: true,
	DisasterTypeWildfire:     true,
	DisasterTypeLandslide:    true,
	DisasterTypeDrought:      true,
	DisasterTypeTsunami:      true,
	DisasterTypeNaturalOther: true,
}

// CategoryForType derives the category from the disaster type.
func CategoryForType(t DisasterType) DisasterCategory {
	if naturalTypes[t] {
		return CategoryNatural
	}
	return CategoryManmade
}

// DisasterTypeLabel returns the display name for a disaster type, or the raw
// value when the type is unknown.
func DisasterTypeLabel(t DisasterType) string {
	if label, ok := disasterTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// IsValidDisasterType reports whether t names a known disaster type.
func IsValidDisasterType(t DisasterType) bool {
	_, ok := disasterTypeLabels[t]
	return ok
}

// IsValidSeverity reports whether s names a known severity level.
func IsValidSeverity(s DisasterSeverity) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// IsValidResponseStatus reports whether s names a known response status.
func IsValidResponseStatus(s ResponseStatus) bool {
	switch s {
	case ResponseStatusNotified, ResponseStatusResponding, ResponseStatusOnScene,
		ResponseStatusCompleted, ResponseStatusCancelled:
		return true
	}
	return false
}

// IsValidReportReason reports whether r names a known report reason.
func IsValidReportReason(r ReportReason) bool {
	switch r {
	case ReportReasonFalseInfo, ReportReasonInappropriate, ReportReasonSpam,
		ReportReasonDuplicate, ReportReasonResolved, ReportReasonOther:
		return true
	}
	return false
}

// disasterTransitions enumerates every legal status transition. Anything not
// listed is rejected by CanTransition. Rejected, resolved and cancelled are
// terminal for status purposes; rejected disasters are edited back through
// validation or deleted.
var disasterTransitions = map[DisasterStatus][]DisasterStatus{
	StatusDraft:    {StatusPending},
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusResolved, StatusCancelled},
}

// CanTransition reports whether a disaster may move from one status to
// another.
func CanTransition(from, to DisasterStatus) bool {
	for _, next := range disasterTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
