// Package handler exposes the complaint pages, JSON API and live feed over gin.
package handler

import (
	"embed"
	"html/template"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

// RouterOptions toggles the optional middleware.
type RouterOptions struct {
	// Sentry attaches sentrygin. sentry.Init must have run.
	Sentry           bool
	UpdateRatePerMin int
}

// Templates parses the embedded page templates.
func (h *Handler) Templates() (*template.Template, error) {
	return template.New("pages").Funcs(h.templateFuncs()).ParseFS(templateFS, "templates/*.html")
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handler, opts RouterOptions) (*gin.Engine, error) {
	tmpl, err := h.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.SetHTMLTemplate(tmpl)

	limit := NewRateLimiter(opts.UpdateRatePerMin).Middleware()

	r.GET("/", h.ListPage)
	r.GET("/partials/complaints", h.ListFragment)
	r.GET("/complaint/:id", h.DetailPage)
	r.POST("/complaint/:id", limit, h.SubmitUpdate)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api")
	{
		api.GET("/complaints", h.ListComplaints)
		api.GET("/complaints/:id", h.GetComplaint)
		api.POST("/complaints/:id", limit, h.UpdateComplaint)
	}

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r, nil
}
