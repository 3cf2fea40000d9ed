// api/store/project_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"portfolio/api/models"
)

// ProjectStore reads the externally managed projects table and owns project_analytics.
type ProjectStore struct {
	db *sql.DB
}

func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// InsertProjectAnalytic appends an event for an existing project. The existence check
// and the insert are one statement; ErrProjectNotFound means nothing was written.
func (s *ProjectStore) InsertProjectAnalytic(ctx context.Context, a *models.ProjectAnalytic) error {
	query := `
		INSERT INTO project_analytics (project_id, event_type, timestamp, user_agent, ip_address)
		SELECT id, $2, $3, $4, $5 FROM projects WHERE id = $1
		RETURNING id;
	`
	err := s.db.QueryRowContext(ctx, query, a.ProjectID, a.EventType, a.Timestamp, a.UserAgent, a.IPAddress).Scan(&a.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to insert project analytic: %w", err)
	}
	return nil
}

func (s *ProjectStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	query := `
		SELECT id, title, description, github_url, live_demo_url, created_at, is_active
		FROM projects
		ORDER BY id ASC
	`
	return s.queryProjects(ctx, query)
}

// TrendingProjects ranks active projects by "view" events since the given time.
func (s *ProjectStore) TrendingProjects(ctx context.Context, since time.Time, limit int) ([]models.Project, error) {
	query := `
		SELECT p.id, p.title, p.description, p.github_url, p.live_demo_url, p.created_at, p.is_active
		FROM projects p
		LEFT JOIN project_analytics pa
			ON pa.project_id = p.id AND pa.event_type = 'view' AND pa.timestamp > $1
		WHERE p.is_active
		GROUP BY p.id
		ORDER BY count(pa.id) DESC, p.id ASC
		LIMIT $2
	`
	return s.queryProjects(ctx, query, since, limit)
}

func (s *ProjectStore) CountProjectEvents(ctx context.Context, eventType string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM project_analytics WHERE event_type = $1`, eventType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count project events: %w", err)
	}
	return count, nil
}

// ProjectEventCounts groups project_analytics by project, event type and UTC day.
func (s *ProjectStore) ProjectEventCounts(ctx context.Context) ([]models.ProjectEventCount, error) {
	query := `
		SELECT project_id, event_type, date_trunc('day', timestamp, 'UTC') AS day, count(*)
		FROM project_analytics
		GROUP BY project_id, event_type, day
		ORDER BY project_id, day
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query project event counts: %w", err)
	}
	defer rows.Close()

	var counts []models.ProjectEventCount
	for rows.Next() {
		var c models.ProjectEventCount
		if err := rows.Scan(&c.ProjectID, &c.EventType, &c.Day, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan project event count: %w", err)
		}
		c.Day = c.Day.UTC()
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project event counts: %w", err)
	}
	return counts, nil
}

func (s *ProjectStore) queryProjects(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var (
			p         models.Project
			gitHubURL sql.NullString
			demoURL   sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &gitHubURL, &demoURL, &p.CreatedAt, &p.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if gitHubURL.Valid {
			p.GitHubURL = &gitHubURL.String
		}
		if demoURL.Valid {
			p.LiveDemoURL = &demoURL.String
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}
