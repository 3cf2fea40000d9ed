// api/models/project.go
package models

import "time"

// Project event types with dedicated columns in ProjectAnalytics.
const (
	ProjectEventView        = "view"
	ProjectEventGitHubClick = "github_click"
	ProjectEventDemoClick   = "demo_click"
)

// Project is the read-only slice of the externally managed projects table.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GitHubURL   *string   `json:"gitHubUrl,omitempty"`
	LiveDemoURL *string   `json:"liveDemoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	IsActive    bool      `json:"isActive"`
}

type ProjectAnalytic struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	EventType string    `json:"eventType"`
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
}

// ProjectEventCount is one (project, event type, UTC day) group from project_analytics.
type ProjectEventCount struct {
	ProjectID int64
	EventType string
	Day       time.Time
	Count     int
}
