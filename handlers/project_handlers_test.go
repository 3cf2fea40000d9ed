package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"portfolio/api/models"
	"portfolio/api/store"
)

type fakeProjectService struct {
	err       error
	tracked   []string
	lastLimit int
}

func (f *fakeProjectService) RecordProjectEvent(_ context.Context, projectID int64, eventType, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.tracked = append(f.tracked, fmt.Sprintf("%d:%s", projectID, eventType))
	return nil
}

func (f *fakeProjectService) TrendingProjects(_ context.Context, limit int) ([]models.Project, error) {
	f.lastLimit = limit
	return []models.Project{}, f.err
}

func newProjectRouter(svc *fakeProjectService) *gin.Engine {
	h := NewProjectHandlers(svc)
	r := gin.New()
	r.GET("/projects/trending", h.GetTrendingProjects)
	r.POST("/projects/:id/track/:eventType", h.TrackProjectEvent)
	return r
}

func TestTrackProjectEvent(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"view", "/projects/3/track/view", nil, http.StatusOK},
		{"custom type", "/projects/3/track/share", nil, http.StatusOK},
		{"unknown project", "/projects/99/track/view", store.ErrProjectNotFound, http.StatusNotFound},
		{"store failure", "/projects/3/track/view", errors.New("boom"), http.StatusInternalServerError},
		{"bad id", "/projects/abc/track/view", nil, http.StatusBadRequest},
		{"negative id", "/projects/-1/track/view", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeProjectService{err: tt.err}
			w := do(newProjectRouter(svc), http.MethodPost, tt.target, "")
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGetTrendingProjectsDefaultLimit(t *testing.T) {
	svc := &fakeProjectService{}
	w := do(newProjectRouter(svc), http.MethodGet, "/projects/trending", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if svc.lastLimit != 6 {
		t.Errorf("limit = %d, want 6", svc.lastLimit)
	}
}
