// api/handlers/analytics_handlers.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/api/analytics"
	"portfolio/api/logger"
	"portfolio/api/models"
	"portfolio/api/utils"
)

const (
	trackTimeout = 15 * time.Second
	queryTimeout = 10 * time.Second

	maxTrendDays    = 365
	maxListLimit    = 100
	defaultEventLim = 50
	countsLookback  = 7 * 24 * time.Hour
)

// AnalyticsService is the part of analytics.Service the HTTP layer drives.
type AnalyticsService interface {
	StartSession(ctx context.Context, userAgent, ipAddress string) (string, error)
	EndSession(ctx context.Context, sessionID string) error
	RecordPageView(ctx context.Context, sessionID, pageURL, pageTitle string) error
	RecordEvent(ctx context.Context, in analytics.NewEvent) (models.AnalyticsEvent, error)
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.AnalyticsEvent, error)
	EventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventType string) ([]models.EventTypeCountByTime, error)

	DashboardMetrics(ctx context.Context) (*models.DashboardMetrics, error)
	ProjectAnalytics(ctx context.Context) ([]models.ProjectAnalytics, error)
	VisitorTrends(ctx context.Context, days int) ([]models.VisitorTrend, error)
	TopPages(ctx context.Context, limit int) ([]models.TopPage, error)
}

type AnalyticsHandlers struct {
	Service AnalyticsService
}

func NewAnalyticsHandlers(s AnalyticsService) *AnalyticsHandlers {
	return &AnalyticsHandlers{Service: s}
}

func (h *AnalyticsHandlers) StartSession(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), trackTimeout)
	defer cancel()

	sessionID, err := h.Service.StartSession(ctx, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		logger.Error().Err(err).Str("client_ip", c.ClientIP()).Msg("Failed to start session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	c.JSON(http.StatusOK, models.StartSessionResponse{SessionID: sessionID})
}

func (h *AnalyticsHandlers) EndSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if len(sessionID) > 64 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), trackTimeout)
	defer cancel()

	if err := h.Service.EndSession(ctx, sessionID); err != nil {
		logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to end session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}

	c.Status(http.StatusOK)
}

func (h *AnalyticsHandlers) TrackPageView(c *gin.Context) {
	var req models.PageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), trackTimeout)
	defer cancel()

	if err := h.Service.RecordPageView(ctx, req.SessionID, req.PageURL, req.PageTitle); err != nil {
		logger.Error().Err(err).Str("session_id", req.SessionID).Msg("Failed to record page view")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record page view"})
		return
	}

	c.Status(http.StatusOK)
}

func (h *AnalyticsHandlers) TrackEvent(c *gin.Context) {
	var req models.EventTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), trackTimeout)
	defer cancel()

	_, err := h.Service.RecordEvent(ctx, analytics.NewEvent{
		EventType: req.EventType,
		EventData: req.EventData,
		SessionID: req.SessionID,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		logger.Error().Err(err).Str("event_type", req.EventType).Msg("Failed to record analytics event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record analytics event"})
		return
	}

	c.Status(http.StatusOK)
}

func (h *AnalyticsHandlers) GetDashboard(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	metrics, err := h.Service.DashboardMetrics(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to compute dashboard metrics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard metrics"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *AnalyticsHandlers) GetProjectAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	results, err := h.Service.ProjectAnalytics(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to compute project analytics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project analytics"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *AnalyticsHandlers) GetVisitorTrends(c *gin.Context) {
	days, err := utils.ParseBoundedInt(c.Query("days"), analytics.DefaultTrendDays, maxTrendDays)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'days' parameter", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	results, err := h.Service.VisitorTrends(ctx, days)
	if err != nil {
		logger.Error().Err(err).Int("days", days).Msg("Failed to compute visitor trends")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve visitor trends"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *AnalyticsHandlers) GetTopPages(c *gin.Context) {
	limit, err := utils.ParseBoundedInt(c.Query("limit"), analytics.DefaultTopPagesLimit, maxListLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	results, err := h.Service.TopPages(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to compute top pages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top pages"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *AnalyticsHandlers) ListEvents(c *gin.Context) {
	limit, err := utils.ParseBoundedInt(c.Query("limit"), defaultEventLim, maxListLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	events, err := h.Service.ListEvents(ctx, models.EventFilter{
		EventType: c.Query("eventType"),
		SessionID: c.Query("sessionId"),
		Limit:     limit,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list analytics events")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytics events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *AnalyticsHandlers) GetEventCountsOverTime(c *gin.Context) {
	interval := c.Query("interval")
	if interval == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}
	if !utils.IsValidInterval(interval) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interval. Use Minute, Hour, Day, Week, Month, Quarter or Year"})
		return
	}

	start, end, err := utils.ParseTimeRange(c.Query("start"), c.Query("end"), countsLookback, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	results, err := h.Service.EventCountsOverTime(ctx, interval, start, end, c.Query("eventType"))
	if err != nil {
		logger.Error().Err(err).Str("interval", interval).Msg("Failed to get event counts over time")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}
