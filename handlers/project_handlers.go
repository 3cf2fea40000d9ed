package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/api/analytics"
	"portfolio/api/logger"
	"portfolio/api/models"
	"portfolio/api/store"
	"portfolio/api/utils"
)

const maxProjectEventType = 50

type ProjectService interface {
	RecordProjectEvent(ctx context.Context, projectID int64, eventType, userAgent, ipAddress string) error
	TrendingProjects(ctx context.Context, limit int) ([]models.Project, error)
}

type ProjectHandlers struct {
	Service ProjectService
}

func NewProjectHandlers(s ProjectService) *ProjectHandlers {
	return &ProjectHandlers{Service: s}
}

// TrackProjectEvent records a view or click against a project. 404 when the project is unknown.
func (h *ProjectHandlers) TrackProjectEvent(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || projectID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}
	eventType := c.Param("eventType")
	if strings.TrimSpace(eventType) == "" || len(eventType) > maxProjectEventType {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event type"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), trackTimeout)
	defer cancel()

	err = h.Service.RecordProjectEvent(ctx, projectID, eventType, c.Request.UserAgent(), c.ClientIP())
	switch {
	case errors.Is(err, store.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case err != nil:
		logger.Error().Err(err).Int64("project_id", projectID).Str("event_type", eventType).Msg("Failed to record project event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record project event"})
	default:
		c.Status(http.StatusOK)
	}
}

func (h *ProjectHandlers) GetTrendingProjects(c *gin.Context) {
	limit, err := utils.ParseBoundedInt(c.Query("limit"), analytics.DefaultTrendingProjects, maxListLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	projects, err := h.Service.TrendingProjects(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get trending projects")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trending projects"})
		return
	}

	c.JSON(http.StatusOK, projects)
}
