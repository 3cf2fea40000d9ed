// api/models/metrics.go
package models

import "time"

type DashboardMetrics struct {
	TotalVisitors              int     `json:"totalVisitors"`
	ActiveSessions             int     `json:"activeSessions"`
	TotalProjectViews          int     `json:"totalProjectViews"`
	TodayVisitors              int     `json:"todayVisitors"`
	AverageSessionDuration     float64 `json:"averageSessionDuration"`
	ReturningVisitorPercentage int     `json:"returningVisitorPercentage"`
}

type DailyMetric struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

type ProjectAnalytics struct {
	ProjectID    int64         `json:"projectId"`
	ProjectTitle string        `json:"projectTitle"`
	Views        int           `json:"views"`
	GitHubClicks int           `json:"gitHubClicks"`
	DemoClicks   int           `json:"demoClicks"`
	DailyViews   []DailyMetric `json:"dailyViews"`
}

type VisitorTrend struct {
	Date                   time.Time `json:"date"`
	NewVisitors            int       `json:"newVisitors"`
	ReturningVisitors      int       `json:"returningVisitors"`
	TotalPageViews         int       `json:"totalPageViews"`
	AverageSessionDuration float64   `json:"averageSessionDuration"`
}

type TopPage struct {
	PageURL           string  `json:"pageUrl"`
	PageTitle         string  `json:"pageTitle"`
	Views             int     `json:"views"`
	AverageTimeOnPage float64 `json:"averageTimeOnPage"`
}
