package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolio/api/config"
	"portfolio/api/handlers"
	"portfolio/api/middleware"
)

type routerDeps struct {
	cfg           *config.Config
	analytics     *handlers.AnalyticsHandlers
	projects      *handlers.ProjectHandlers
	auth          *handlers.AuthHandlers
	health        *handlers.HealthHandlers
	authenticator *middleware.Authenticator
	limiter       *middleware.IPRateLimiter // nil disables rate limiting
}

func newRouter(d routerDeps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORSMiddleware(d.cfg.AllowedOrigins()))

	if err := r.SetTrustedProxies(d.cfg.TrustedProxies()); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	tracking := []gin.HandlerFunc{}
	if d.limiter != nil {
		tracking = append(tracking, middleware.RateLimit(d.limiter))
	}
	protected := d.authenticator.AuthRequired()

	r.GET("/health", d.health.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", d.auth.Login)
			auth.POST("/logout", d.auth.Logout)
		}

		a := api.Group("/analytics")
		{
			track := a.Group("", tracking...)
			track.POST("/session/start", d.analytics.StartSession)
			track.POST("/session/:sessionId/end", d.analytics.EndSession)
			track.POST("/page-view", d.analytics.TrackPageView)
			track.POST("/event", d.analytics.TrackEvent)

			stats := a.Group("", protected)
			stats.GET("/dashboard", d.analytics.GetDashboard)
			stats.GET("/projects", d.analytics.GetProjectAnalytics)
			stats.GET("/trends", d.analytics.GetVisitorTrends)
			stats.GET("/top-pages", d.analytics.GetTopPages)
			stats.GET("/events", d.analytics.ListEvents)
			stats.GET("/event-counts", d.analytics.GetEventCountsOverTime)
		}

		p := api.Group("/projects")
		{
			p.GET("/trending", d.projects.GetTrendingProjects)
			p.POST("/:id/track/:eventType", append(tracking, d.projects.TrackProjectEvent)...)
		}
	}

	return r, nil
}
