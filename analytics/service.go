// Package analytics tracks visitor sessions, page views and events, and computes the
// dashboard aggregates over them. It holds no state of its own; every call reads or
// writes through the repositories.
package analytics

import (
	"context"
	"time"

	"portfolio/api/models"
)

const (
	// ReturningVisitorWindow is how far back a previous session from the same IP
	// makes a new session "returning".
	ReturningVisitorWindow = 30 * 24 * time.Hour
	// ActiveSessionWindow bounds how old an open session may be and still count as active.
	ActiveSessionWindow = time.Hour
	// DashboardWindowDays is the trailing window for averages and the returning share.
	DashboardWindowDays = 30

	DefaultTrendDays        = 30
	DefaultTopPagesLimit    = 10
	DefaultTrendingProjects = 6
	TrendingWindowDays      = 30
)

type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.VisitorSession) error
	HasSessionFromIPSince(ctx context.Context, ip string, since time.Time) (bool, error)
	EndSession(ctx context.Context, sessionID string, at time.Time) (bool, error)
	RecordPageView(ctx context.Context, sessionID, pageURL, pageTitle string, at time.Time) (bool, error)
	CountSessions(ctx context.Context, filter models.SessionFilter) (int, error)
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.VisitorSession, error)
	PageGroupStats(ctx context.Context) ([]models.PageGroupStat, error)
}

type EventRepository interface {
	InsertAnalyticsEvents(ctx context.Context, events []models.AnalyticsEvent) error
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.AnalyticsEvent, error)
	GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]models.EventTypeCountByTime, error)
}

type ProjectRepository interface {
	InsertProjectAnalytic(ctx context.Context, a *models.ProjectAnalytic) error
	ListProjects(ctx context.Context) ([]models.Project, error)
	TrendingProjects(ctx context.Context, since time.Time, limit int) ([]models.Project, error)
	CountProjectEvents(ctx context.Context, eventType string) (int, error)
	ProjectEventCounts(ctx context.Context) ([]models.ProjectEventCount, error)
}

type Service struct {
	sessions      SessionRepository
	events        EventRepository
	projects      ProjectRepository
	eventsBackend string
	now           func() time.Time
}

// NewService wires the repositories. eventsBackend only labels metrics.
func NewService(sessions SessionRepository, events EventRepository, projects ProjectRepository, eventsBackend string) *Service {
	return &Service{
		sessions:      sessions,
		events:        events,
		projects:      projects,
		eventsBackend: eventsBackend,
		now:           time.Now,
	}
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}
