// api/store/session_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio/api/models"
)

// SessionStore persists visitor sessions and their page views in PostgreSQL.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) CreateSession(ctx context.Context, session *models.VisitorSession) error {
	query := `
		INSERT INTO visitor_sessions (
			session_id, start_time, end_time, user_agent, ip_address, is_returning_visitor, page_view_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	err := s.db.QueryRowContext(ctx, query,
		session.SessionID,
		session.StartTime,
		session.EndTime,
		session.UserAgent,
		session.IPAddress,
		session.IsReturningVisitor,
		session.PageViewCount,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*models.VisitorSession, error) {
	query := `
		SELECT id, session_id, start_time, end_time, user_agent, ip_address, is_returning_visitor, page_view_count
		FROM visitor_sessions
		WHERE session_id = $1;
	`
	session, err := scanSession(s.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// HasSessionFromIPSince reports whether ip started any session strictly after since.
func (s *SessionStore) HasSessionFromIPSince(ctx context.Context, ip string, since time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM visitor_sessions WHERE ip_address = $1 AND start_time > $2);`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, ip, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check previous sessions: %w", err)
	}
	return exists, nil
}

// EndSession closes an open session. It returns false when the session is unknown or
// already closed; the end time is never moved once set and never precedes the start.
func (s *SessionStore) EndSession(ctx context.Context, sessionID string, at time.Time) (bool, error) {
	query := `
		UPDATE visitor_sessions
		SET end_time = GREATEST($2, start_time)
		WHERE session_id = $1 AND end_time IS NULL;
	`
	res, err := s.db.ExecContext(ctx, query, sessionID, at)
	if err != nil {
		return false, fmt.Errorf("failed to end session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// RecordPageView inserts a page view and bumps the session counter in one statement,
// so concurrent views on the same session cannot lose increments. It returns false
// (and writes nothing) when the session does not exist.
func (s *SessionStore) RecordPageView(ctx context.Context, sessionID, pageURL, pageTitle string, at time.Time) (bool, error) {
	query := `
		WITH bumped AS (
			UPDATE visitor_sessions
			SET page_view_count = page_view_count + 1
			WHERE session_id = $1
			RETURNING id
		)
		INSERT INTO page_views (session_ref, page_url, page_title, viewed_at, time_on_page_seconds)
		SELECT id, $2, $3, $4, 0 FROM bumped;
	`
	res, err := s.db.ExecContext(ctx, query, sessionID, pageURL, pageTitle, at)
	if err != nil {
		return false, fmt.Errorf("failed to record page view: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *SessionStore) CountSessions(ctx context.Context, filter models.SessionFilter) (int, error) {
	where, args := sessionWhere(filter)
	query := "SELECT count(*) FROM visitor_sessions" + where

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

func (s *SessionStore) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.VisitorSession, error) {
	where, args := sessionWhere(filter)
	query := `
		SELECT id, session_id, start_time, end_time, user_agent, ip_address, is_returning_visitor, page_view_count
		FROM visitor_sessions` + where + `
		ORDER BY start_time ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.VisitorSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

// PageGroupStats rolls page views up by (url, title). Ranking is left to the caller.
func (s *SessionStore) PageGroupStats(ctx context.Context) ([]models.PageGroupStat, error) {
	query := `
		SELECT page_url, page_title, count(*), COALESCE(sum(time_on_page_seconds), 0)
		FROM page_views
		GROUP BY page_url, page_title
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query page groups: %w", err)
	}
	defer rows.Close()

	var stats []models.PageGroupStat
	for rows.Next() {
		var st models.PageGroupStat
		if err := rows.Scan(&st.PageURL, &st.PageTitle, &st.Views, &st.TotalTimeOnPageS); err != nil {
			return nil, fmt.Errorf("failed to scan page group: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page groups: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.VisitorSession, error) {
	var (
		session models.VisitorSession
		endTime sql.NullTime
	)
	err := row.Scan(
		&session.ID,
		&session.SessionID,
		&session.StartTime,
		&endTime,
		&session.UserAgent,
		&session.IPAddress,
		&session.IsReturningVisitor,
		&session.PageViewCount,
	)
	if err != nil {
		return nil, err
	}
	session.StartTime = session.StartTime.UTC()
	if endTime.Valid {
		t := endTime.Time.UTC()
		session.EndTime = &t
	}
	return &session, nil
}

func sessionWhere(filter models.SessionFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !filter.StartedAfter.IsZero() {
		args = append(args, filter.StartedAfter)
		conds = append(conds, fmt.Sprintf("start_time > $%d", len(args)))
	}
	if !filter.StartedFrom.IsZero() {
		args = append(args, filter.StartedFrom)
		conds = append(conds, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if filter.OpenOnly {
		conds = append(conds, "end_time IS NULL")
	}
	if filter.ReturningOnly {
		conds = append(conds, "is_returning_visitor")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
