// api/models/event.go
package models

import "time"

// AnalyticsEvent is a single tracked action. EventData is opaque; callers own its schema.
type AnalyticsEvent struct {
	EventID   string    `json:"eventId"`
	EventType string    `json:"eventType"`
	EventData *string   `json:"eventData,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	SessionID *string   `json:"sessionId,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
}

type EventTrackingRequest struct {
	EventType string  `json:"eventType" binding:"required,notblank,max=100"`
	EventData *string `json:"eventData" binding:"omitempty,max=65536"`
	SessionID *string `json:"sessionId" binding:"omitempty,max=64"`
}

// EventFilter narrows ListEvents. Zero values mean "any".
type EventFilter struct {
	EventType string
	SessionID string
	Limit     int
}

type EventTypeCountByTime struct {
	Time      time.Time `json:"time"`
	EventType *string   `json:"eventType,omitempty"`
	Count     uint64    `json:"count"`
}
