// api/analytics/events.go
package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio/api/metrics"
	"portfolio/api/models"
)

// NewEvent is a tracked action as reported by a client. EventType is not checked
// against any vocabulary.
type NewEvent struct {
	EventType string
	EventData *string
	SessionID *string
	UserAgent string
	IPAddress string
}

func (s *Service) RecordEvent(ctx context.Context, in NewEvent) (models.AnalyticsEvent, error) {
	event := models.AnalyticsEvent{
		EventID:   uuid.NewString(),
		EventType: in.EventType,
		EventData: in.EventData,
		Timestamp: s.clock(),
		SessionID: in.SessionID,
		UserAgent: in.UserAgent,
		IPAddress: in.IPAddress,
	}

	if err := s.events.InsertAnalyticsEvents(ctx, []models.AnalyticsEvent{event}); err != nil {
		metrics.StoreErrors.WithLabelValues("record_event").Inc()
		return models.AnalyticsEvent{}, err
	}

	metrics.EventsRecorded.WithLabelValues(s.eventsBackend).Inc()
	return event, nil
}

func (s *Service) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.AnalyticsEvent, error) {
	events, err := s.events.ListEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.AnalyticsEvent{}
	}
	return events, nil
}

func (s *Service) EventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventType string) ([]models.EventTypeCountByTime, error) {
	counts, err := s.events.GetEventCountsOverTime(ctx, interval, start, end, eventType)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []models.EventTypeCountByTime{}
	}
	return counts, nil
}

// RecordProjectEvent appends to the project's analytics log. Event types are stored
// lower-cased. It returns store.ErrProjectNotFound when the project does not exist.
func (s *Service) RecordProjectEvent(ctx context.Context, projectID int64, eventType, userAgent, ipAddress string) error {
	a := &models.ProjectAnalytic{
		ProjectID: projectID,
		EventType: strings.ToLower(eventType),
		Timestamp: s.clock(),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	if err := s.projects.InsertProjectAnalytic(ctx, a); err != nil {
		return err
	}

	metrics.ProjectEvents.WithLabelValues(metrics.ProjectEventLabel(a.EventType)).Inc()
	return nil
}
