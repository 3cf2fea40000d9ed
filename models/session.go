// api/models/session.go
package models

import "time"

// VisitorSession is one bounded span of visitor activity.
type VisitorSession struct {
	ID                 int64      `json:"-"`
	SessionID          string     `json:"sessionId"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            *time.Time `json:"endTime,omitempty"`
	UserAgent          string     `json:"userAgent"`
	IPAddress          string     `json:"ipAddress"`
	IsReturningVisitor bool       `json:"isReturningVisitor"`
	PageViewCount      int        `json:"pageViewCount"`
}

// Duration reports end minus start. ok is false while the session is open.
func (s VisitorSession) Duration() (d time.Duration, ok bool) {
	if s.EndTime == nil {
		return 0, false
	}
	return s.EndTime.Sub(s.StartTime), true
}

type PageView struct {
	ID         int64         `json:"-"`
	SessionRef int64         `json:"-"`
	PageURL    string        `json:"pageUrl"`
	PageTitle  string        `json:"pageTitle"`
	ViewedAt   time.Time     `json:"timestamp"`
	TimeOnPage time.Duration `json:"-"`
}

// PageGroupStat is the per (url, title) rollup the store hands to the aggregator.
type PageGroupStat struct {
	PageURL          string
	PageTitle        string
	Views            int
	TotalTimeOnPageS float64
}

type PageViewRequest struct {
	SessionID string `json:"sessionId" binding:"required,max=64"`
	PageURL   string `json:"pageUrl" binding:"required,max=2048"`
	PageTitle string `json:"pageTitle" binding:"max=512"`
}

type StartSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// SessionFilter narrows session counts and listings. Zero values mean "any".
type SessionFilter struct {
	StartedAfter  time.Time // exclusive
	StartedFrom   time.Time // inclusive
	OpenOnly      bool
	ReturningOnly bool
}
