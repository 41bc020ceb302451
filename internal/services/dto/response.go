package dto

import "time"

// SubmitResponseRequest is a service provider's commitment against an
// approved disaster. Repeated submissions by the same provider update the
// existing response.
type SubmitResponseRequest struct {
	ResponseStatus   string     `json:"response_status" validate:"omitempty,response_status"`
	ResponseNotes    string     `json:"response_notes"`
	EstimatedArrival *time.Time `json:"estimated_arrival" validate:"omitempty,not_past"`
	ActualArrival    *time.Time `json:"actual_arrival"`
	CompletionTime   *time.Time `json:"completion_time"`
}
