// api/store/event_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"portfolio/api/models"
	"portfolio/api/utils"
)

const defaultEventListLimit = 50

// EventStore is the append-only log of analytics events. PostgreSQL and ClickHouse
// implementations are selected by EVENTS_BACKEND.
type EventStore interface {
	InsertAnalyticsEvents(ctx context.Context, events []models.AnalyticsEvent) error
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.AnalyticsEvent, error)
	GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]models.EventTypeCountByTime, error)
}

type PostgresEventStore struct {
	db *sql.DB
}

func NewPostgresEventStore(db *sql.DB) *PostgresEventStore {
	return &PostgresEventStore{db: db}
}

func (s *PostgresEventStore) InsertAnalyticsEvents(ctx context.Context, events []models.AnalyticsEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO analytics_events (
			event_id, event_type, event_data, timestamp, session_id, user_agent, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, event := range events {
		_, err := stmt.ExecContext(ctx,
			event.EventID,
			event.EventType,
			event.EventData,
			event.Timestamp,
			event.SessionID,
			event.UserAgent,
			event.IPAddress,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event %s: %w", event.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}
	return nil
}

func (s *PostgresEventStore) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.AnalyticsEvent, error) {
	var (
		conds []string
		args  []any
	)
	if filter.EventType != "" {
		args = append(args, filter.EventType)
		conds = append(conds, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if filter.SessionID != "" {
		args = append(args, filter.SessionID)
		conds = append(conds, fmt.Sprintf("session_id = $%d", len(args)))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultEventListLimit
	}
	args = append(args, limit)

	query := `SELECT event_id, event_type, event_data, timestamp, session_id, user_agent, ip_address FROM analytics_events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.AnalyticsEvent
	for rows.Next() {
		var (
			event     models.AnalyticsEvent
			eventData sql.NullString
			sessionID sql.NullString
		)
		if err := rows.Scan(&event.EventID, &event.EventType, &eventData, &event.Timestamp, &sessionID, &event.UserAgent, &event.IPAddress); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.Timestamp = event.Timestamp.UTC()
		if eventData.Valid {
			event.EventData = &eventData.String
		}
		if sessionID.Valid {
			event.SessionID = &sessionID.String
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

func (s *PostgresEventStore) GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]models.EventTypeCountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	args := []any{strings.ToLower(interval), start, end}
	query := `
		SELECT date_trunc($1, timestamp, 'UTC') AS time_bucket, count(*)
		FROM analytics_events
		WHERE timestamp >= $2 AND timestamp <= $3`
	if eventTypeFilter != "" {
		args = append(args, eventTypeFilter)
		query += " AND event_type = $4"
	}
	query += " GROUP BY time_bucket ORDER BY time_bucket ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event counts over time: %w", err)
	}
	defer rows.Close()

	var results []models.EventTypeCountByTime
	for rows.Next() {
		var r models.EventTypeCountByTime
		if err := rows.Scan(&r.Time, &r.Count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		r.Time = r.Time.UTC()
		if eventTypeFilter != "" {
			eventType := eventTypeFilter
			r.EventType = &eventType
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event counts over time query: %w", err)
	}
	return results, nil
}
