package dto

import (
	"fmt"
	"time"

	"eras_backend/internal/models"
)

// AlertResponse is the JSON shape of one unread alert, with the linked
// disaster flattened for display.
type AlertResponse struct {
	ID           string `json:"id"`
	DisasterID   string `json:"disaster_id"`
	Title        string `json:"title"`
	DisasterType string `json:"disaster_type"`
	Severity     string `json:"severity"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	TimeReported string `json:"time_reported"`
	SentAt       string `json:"sent_at"`
	MatchType    string `json:"match_type"`
}

type AlertListResponse struct {
	Alerts []AlertResponse `json:"alerts"`
	Count  int             `json:"count"`
}

// NewAlertResponse flattens an alert and its preloaded disaster.
func NewAlertResponse(alert models.DisasterAlert) AlertResponse {
	resp := AlertResponse{
		ID:         alert.ID,
		DisasterID: alert.DisasterID,
		SentAt:     alert.CreatedAt.Format("2006-01-02 15:04"),
		MatchType:  string(alert.MatchType),
	}

	if d := alert.Disaster; d != nil {
		resp.Title = d.Title
		resp.DisasterType = models.DisasterTypeLabel(d.DisasterType)
		resp.Severity = string(d.Severity)
		resp.Location = fmt.Sprintf("%s, %s", d.City, d.AreaSector)
		resp.Description = truncate(d.Description, 100)
		resp.TimeReported = TimeSinceReported(d.CreatedAt)
	}
	return resp
}

// TimeSinceReported renders a human-readable age for a report.
func TimeSinceReported(createdAt time.Time) string {
	diff := time.Since(createdAt)

	switch {
	case diff >= 24*time.Hour:
		days := int(diff.Hours()) / 24
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	case diff >= time.Hour:
		hours := int(diff.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case diff >= time.Minute:
		minutes := int(diff.Minutes())
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	default:
		return "Just now"
	}
}

// truncate cuts on rune boundaries so multi-byte text is never split
// mid-character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
