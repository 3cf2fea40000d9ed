// api/analytics/tracker.go
package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"portfolio/api/logger"
	"portfolio/api/metrics"
	"portfolio/api/models"
)

// StartSession opens a new session and returns its id. The session is marked returning
// when the same IP started another session within ReturningVisitorWindow.
func (s *Service) StartSession(ctx context.Context, userAgent, ipAddress string) (string, error) {
	now := s.clock()

	returning, err := s.sessions.HasSessionFromIPSince(ctx, ipAddress, now.Add(-ReturningVisitorWindow))
	if err != nil {
		metrics.StoreErrors.WithLabelValues("start_session").Inc()
		return "", fmt.Errorf("failed to check returning visitor: %w", err)
	}

	session := &models.VisitorSession{
		SessionID:          uuid.NewString(),
		StartTime:          now,
		UserAgent:          userAgent,
		IPAddress:          ipAddress,
		IsReturningVisitor: returning,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		metrics.StoreErrors.WithLabelValues("start_session").Inc()
		return "", err
	}

	metrics.SessionsStarted.Inc()
	if returning {
		metrics.ReturningSessions.Inc()
	}
	logger.Debug().Str("session_id", session.SessionID).Bool("returning", returning).Msg("Session started")
	return session.SessionID, nil
}

// EndSession closes the session once. Unknown or already closed sessions are ignored.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	closed, err := s.sessions.EndSession(ctx, sessionID, s.clock())
	if err != nil {
		metrics.StoreErrors.WithLabelValues("end_session").Inc()
		return err
	}

	if closed {
		metrics.SessionsEnded.WithLabelValues("closed").Inc()
	} else {
		metrics.SessionsEnded.WithLabelValues("ignored").Inc()
		logger.Debug().Str("session_id", sessionID).Msg("End for unknown or closed session ignored")
	}
	return nil
}

// RecordPageView stores a page view and bumps the session counter. Views for unknown
// sessions are dropped without error and never create a session.
func (s *Service) RecordPageView(ctx context.Context, sessionID, pageURL, pageTitle string) error {
	recorded, err := s.sessions.RecordPageView(ctx, sessionID, pageURL, pageTitle, s.clock())
	if err != nil {
		metrics.StoreErrors.WithLabelValues("page_view").Inc()
		return err
	}

	if recorded {
		metrics.PageViews.WithLabelValues("recorded").Inc()
	} else {
		metrics.PageViews.WithLabelValues("dropped").Inc()
		logger.Debug().Str("session_id", sessionID).Str("page_url", pageURL).Msg("Page view for unknown session dropped")
	}
	return nil
}
