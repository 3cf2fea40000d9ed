// api/analytics/compute.go
package analytics

import (
	"math"
	"sort"
	"time"

	"portfolio/api/models"
)

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// averageDurationSeconds is the mean length of the ended sessions, 0 when none ended.
func averageDurationSeconds(sessions []models.VisitorSession) float64 {
	var (
		sum   float64
		ended int
	)
	for _, session := range sessions {
		if d, ok := session.Duration(); ok {
			sum += d.Seconds()
			ended++
		}
	}
	if ended == 0 {
		return 0
	}
	return sum / float64(ended)
}

func percentage(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

func bucketTrends(sessions []models.VisitorSession) []models.VisitorTrend {
	byDay := make(map[time.Time][]models.VisitorSession)
	for _, session := range sessions {
		day := startOfDay(session.StartTime)
		byDay[day] = append(byDay[day], session)
	}

	trends := make([]models.VisitorTrend, 0, len(byDay))
	for day, group := range byDay {
		trend := models.VisitorTrend{
			Date:                   day,
			AverageSessionDuration: averageDurationSeconds(group),
		}
		for _, session := range group {
			if session.IsReturningVisitor {
				trend.ReturningVisitors++
			} else {
				trend.NewVisitors++
			}
			trend.TotalPageViews += session.PageViewCount
		}
		trends = append(trends, trend)
	}

	sort.Slice(trends, func(i, j int) bool { return trends[i].Date.Before(trends[j].Date) })
	return trends
}

// rankPages sorts by views descending, then url and title for a stable order, and keeps limit.
func rankPages(stats []models.PageGroupStat, limit int) []models.TopPage {
	pages := make([]models.TopPage, 0, len(stats))
	for _, st := range stats {
		page := models.TopPage{
			PageURL:   st.PageURL,
			PageTitle: st.PageTitle,
			Views:     st.Views,
		}
		if st.Views > 0 {
			page.AverageTimeOnPage = st.TotalTimeOnPageS / float64(st.Views)
		}
		pages = append(pages, page)
	}

	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].Views != pages[j].Views {
			return pages[i].Views > pages[j].Views
		}
		if pages[i].PageURL != pages[j].PageURL {
			return pages[i].PageURL < pages[j].PageURL
		}
		return pages[i].PageTitle < pages[j].PageTitle
	})

	if len(pages) > limit {
		pages = pages[:limit]
	}
	return pages
}

func foldProjectCounts(projects []models.Project, counts []models.ProjectEventCount) []models.ProjectAnalytics {
	byProject := make(map[int64]*models.ProjectAnalytics, len(projects))
	result := make([]models.ProjectAnalytics, len(projects))
	for i, p := range projects {
		result[i] = models.ProjectAnalytics{
			ProjectID:    p.ID,
			ProjectTitle: p.Title,
			DailyViews:   []models.DailyMetric{},
		}
		byProject[p.ID] = &result[i]
	}

	for _, c := range counts {
		pa, ok := byProject[c.ProjectID]
		if !ok {
			continue
		}
		switch c.EventType {
		case models.ProjectEventView:
			pa.Views += c.Count
			pa.DailyViews = append(pa.DailyViews, models.DailyMetric{Date: startOfDay(c.Day), Count: c.Count})
		case models.ProjectEventGitHubClick:
			pa.GitHubClicks += c.Count
		case models.ProjectEventDemoClick:
			pa.DemoClicks += c.Count
		}
	}

	for i := range result {
		daily := result[i].DailyViews
		sort.Slice(daily, func(a, b int) bool { return daily[a].Date.Before(daily[b].Date) })
	}
	return result
}
