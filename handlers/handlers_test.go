package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/api/analytics"
	"portfolio/api/models"
	"portfolio/api/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()
	os.Exit(m.Run())
}

type fakeAnalytics struct {
	err error

	startedUA, startedIP string
	ended                []string
	pageViews            []models.PageViewRequest
	events               []analytics.NewEvent
	trendDays            int
	topLimit             int
	eventFilter          models.EventFilter
	countsInterval       string
}

func (f *fakeAnalytics) StartSession(_ context.Context, ua, ip string) (string, error) {
	f.startedUA, f.startedIP = ua, ip
	return "sid-1", f.err
}

func (f *fakeAnalytics) EndSession(_ context.Context, id string) error {
	f.ended = append(f.ended, id)
	return f.err
}

func (f *fakeAnalytics) RecordPageView(_ context.Context, id, url, title string) error {
	f.pageViews = append(f.pageViews, models.PageViewRequest{SessionID: id, PageURL: url, PageTitle: title})
	return f.err
}

func (f *fakeAnalytics) RecordEvent(_ context.Context, in analytics.NewEvent) (models.AnalyticsEvent, error) {
	f.events = append(f.events, in)
	return models.AnalyticsEvent{EventType: in.EventType}, f.err
}

func (f *fakeAnalytics) ListEvents(_ context.Context, filter models.EventFilter) ([]models.AnalyticsEvent, error) {
	f.eventFilter = filter
	return []models.AnalyticsEvent{}, f.err
}

func (f *fakeAnalytics) EventCountsOverTime(_ context.Context, interval string, _, _ time.Time, _ string) ([]models.EventTypeCountByTime, error) {
	f.countsInterval = interval
	return []models.EventTypeCountByTime{}, f.err
}

func (f *fakeAnalytics) DashboardMetrics(context.Context) (*models.DashboardMetrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.DashboardMetrics{TotalVisitors: 3, ReturningVisitorPercentage: 33}, nil
}

func (f *fakeAnalytics) ProjectAnalytics(context.Context) ([]models.ProjectAnalytics, error) {
	return []models.ProjectAnalytics{}, f.err
}

func (f *fakeAnalytics) VisitorTrends(_ context.Context, days int) ([]models.VisitorTrend, error) {
	f.trendDays = days
	return []models.VisitorTrend{}, f.err
}

func (f *fakeAnalytics) TopPages(_ context.Context, limit int) ([]models.TopPage, error) {
	f.topLimit = limit
	return []models.TopPage{}, f.err
}

func newAnalyticsRouter(svc *fakeAnalytics) *gin.Engine {
	h := NewAnalyticsHandlers(svc)
	r := gin.New()
	r.POST("/session/start", h.StartSession)
	r.POST("/session/:sessionId/end", h.EndSession)
	r.POST("/page-view", h.TrackPageView)
	r.POST("/event", h.TrackEvent)
	r.GET("/dashboard", h.GetDashboard)
	r.GET("/projects", h.GetProjectAnalytics)
	r.GET("/trends", h.GetVisitorTrends)
	r.GET("/top-pages", h.GetTopPages)
	r.GET("/events", h.ListEvents)
	r.GET("/event-counts", h.GetEventCountsOverTime)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
