package analytics

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"portfolio/api/models"
	"portfolio/api/store"
)

type fakeSessions struct {
	mu        sync.Mutex
	sessions  []models.VisitorSession
	pageViews []models.PageView
	err       error
}

func (f *fakeSessions) CreateSession(_ context.Context, s *models.VisitorSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	s.ID = int64(len(f.sessions) + 1)
	f.sessions = append(f.sessions, *s)
	return nil
}

func (f *fakeSessions) HasSessionFromIPSince(_ context.Context, ip string, since time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, s := range f.sessions {
		if s.IPAddress == ip && s.StartTime.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessions) EndSession(_ context.Context, sessionID string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for i := range f.sessions {
		s := &f.sessions[i]
		if s.SessionID == sessionID && s.EndTime == nil {
			end := at
			if end.Before(s.StartTime) {
				end = s.StartTime
			}
			s.EndTime = &end
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessions) RecordPageView(_ context.Context, sessionID, pageURL, pageTitle string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for i := range f.sessions {
		s := &f.sessions[i]
		if s.SessionID == sessionID {
			s.PageViewCount++
			f.pageViews = append(f.pageViews, models.PageView{
				SessionRef: s.ID,
				PageURL:    pageURL,
				PageTitle:  pageTitle,
				ViewedAt:   at,
			})
			return true, nil
		}
	}
	return false, nil
}

func matches(s models.VisitorSession, filter models.SessionFilter) bool {
	if !filter.StartedAfter.IsZero() && !s.StartTime.After(filter.StartedAfter) {
		return false
	}
	if !filter.StartedFrom.IsZero() && s.StartTime.Before(filter.StartedFrom) {
		return false
	}
	if filter.OpenOnly && s.EndTime != nil {
		return false
	}
	if filter.ReturningOnly && !s.IsReturningVisitor {
		return false
	}
	return true
}

func (f *fakeSessions) CountSessions(ctx context.Context, filter models.SessionFilter) (int, error) {
	sessions, err := f.ListSessions(ctx, filter)
	return len(sessions), err
}

func (f *fakeSessions) ListSessions(_ context.Context, filter models.SessionFilter) ([]models.VisitorSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.VisitorSession
	for _, s := range f.sessions {
		if matches(s, filter) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeSessions) PageGroupStats(_ context.Context) ([]models.PageGroupStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	type key struct{ url, title string }
	groups := map[key]*models.PageGroupStat{}
	var order []key
	for _, pv := range f.pageViews {
		k := key{pv.PageURL, pv.PageTitle}
		g, ok := groups[k]
		if !ok {
			g = &models.PageGroupStat{PageURL: pv.PageURL, PageTitle: pv.PageTitle}
			groups[k] = g
			order = append(order, k)
		}
		g.Views++
		g.TotalTimeOnPageS += pv.TimeOnPage.Seconds()
	}
	out := make([]models.PageGroupStat, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out, nil
}

func (f *fakeSessions) get(sessionID string) (models.VisitorSession, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.SessionID == sessionID {
			return s, true
		}
	}
	return models.VisitorSession{}, false
}

type fakeEvents struct {
	mu     sync.Mutex
	events []models.AnalyticsEvent
	err    error
}

func (f *fakeEvents) InsertAnalyticsEvents(_ context.Context, events []models.AnalyticsEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeEvents) ListEvents(_ context.Context, filter models.EventFilter) ([]models.AnalyticsEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.AnalyticsEvent
	for i := len(f.events) - 1; i >= 0; i-- {
		e := f.events[i]
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		if filter.SessionID != "" && (e.SessionID == nil || *e.SessionID != filter.SessionID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEvents) GetEventCountsOverTime(_ context.Context, _ string, _, _ time.Time, _ string) ([]models.EventTypeCountByTime, error) {
	return nil, f.err
}

type fakeProjects struct {
	projects  []models.Project
	analytics []models.ProjectAnalytic
	counts    []models.ProjectEventCount
	err       error
}

func (f *fakeProjects) InsertProjectAnalytic(_ context.Context, a *models.ProjectAnalytic) error {
	if f.err != nil {
		return f.err
	}
	for _, p := range f.projects {
		if p.ID == a.ProjectID {
			a.ID = int64(len(f.analytics) + 1)
			f.analytics = append(f.analytics, *a)
			return nil
		}
	}
	return store.ErrProjectNotFound
}

func (f *fakeProjects) ListProjects(_ context.Context) ([]models.Project, error) {
	return f.projects, f.err
}

func (f *fakeProjects) TrendingProjects(_ context.Context, _ time.Time, limit int) ([]models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.projects) > limit {
		return f.projects[:limit], nil
	}
	return f.projects, nil
}

func (f *fakeProjects) CountProjectEvents(_ context.Context, eventType string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, a := range f.analytics {
		if a.EventType == eventType {
			n++
		}
	}
	return n, nil
}

func (f *fakeProjects) ProjectEventCounts(_ context.Context) ([]models.ProjectEventCount, error) {
	return f.counts, f.err
}

var errStoreDown = errors.New("store down")

type fixture struct {
	svc      *Service
	sessions *fakeSessions
	events   *fakeEvents
	projects *fakeProjects
	now      time.Time
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		sessions: &fakeSessions{},
		events:   &fakeEvents{},
		projects: &fakeProjects{},
		now:      now,
	}
	f.svc = NewService(f.sessions, f.events, f.projects, "postgres")
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}
