// api/analytics/aggregator.go
package analytics

import (
	"context"
	"fmt"

	"portfolio/api/models"
)

// DashboardMetrics summarises all sessions plus the trailing DashboardWindowDays.
func (s *Service) DashboardMetrics(ctx context.Context) (*models.DashboardMetrics, error) {
	now := s.clock()
	today := startOfDay(now)
	windowStart := today.AddDate(0, 0, -DashboardWindowDays)

	total, err := s.sessions.CountSessions(ctx, models.SessionFilter{})
	if err != nil {
		return nil, fmt.Errorf("total visitors: %w", err)
	}

	active, err := s.sessions.CountSessions(ctx, models.SessionFilter{
		StartedAfter: now.Add(-ActiveSessionWindow),
		OpenOnly:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("active sessions: %w", err)
	}

	projectViews, err := s.projects.CountProjectEvents(ctx, models.ProjectEventView)
	if err != nil {
		return nil, fmt.Errorf("project views: %w", err)
	}

	todayCount, err := s.sessions.CountSessions(ctx, models.SessionFilter{StartedFrom: today})
	if err != nil {
		return nil, fmt.Errorf("today visitors: %w", err)
	}

	recent, err := s.sessions.ListSessions(ctx, models.SessionFilter{StartedAfter: windowStart})
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}

	returning := 0
	for _, session := range recent {
		if session.IsReturningVisitor {
			returning++
		}
	}

	return &models.DashboardMetrics{
		TotalVisitors:              total,
		ActiveSessions:             active,
		TotalProjectViews:          projectViews,
		TodayVisitors:              todayCount,
		AverageSessionDuration:     averageDurationSeconds(recent),
		ReturningVisitorPercentage: percentage(returning, len(recent)),
	}, nil
}

// ProjectAnalytics reports view and click counts for every project, with daily views.
func (s *Service) ProjectAnalytics(ctx context.Context) ([]models.ProjectAnalytics, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	counts, err := s.projects.ProjectEventCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("project event counts: %w", err)
	}

	return foldProjectCounts(projects, counts), nil
}

// VisitorTrends buckets sessions started since today-days by UTC start date.
func (s *Service) VisitorTrends(ctx context.Context, days int) ([]models.VisitorTrend, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	from := startOfDay(s.clock()).AddDate(0, 0, -days)

	sessions, err := s.sessions.ListSessions(ctx, models.SessionFilter{StartedFrom: from})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return bucketTrends(sessions), nil
}

// TopPages ranks (url, title) groups by view count.
func (s *Service) TopPages(ctx context.Context, limit int) ([]models.TopPage, error) {
	if limit <= 0 {
		limit = DefaultTopPagesLimit
	}

	stats, err := s.sessions.PageGroupStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("page group stats: %w", err)
	}

	return rankPages(stats, limit), nil
}

// TrendingProjects returns active projects with the most views in the last TrendingWindowDays.
func (s *Service) TrendingProjects(ctx context.Context, limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = DefaultTrendingProjects
	}
	since := s.clock().AddDate(0, 0, -TrendingWindowDays)

	projects, err := s.projects.TrendingProjects(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("trending projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}
