package handler

import (
	"context"
	"html/template"

	"gnacomplaints/backend/internal/cache"
	"gnacomplaints/backend/internal/complaint"
	"gnacomplaints/backend/internal/format"
	"gnacomplaints/backend/internal/livehub"
	"gnacomplaints/backend/internal/localization"
	"gnacomplaints/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the complaint pages, the JSON API and the live feed.
type Handler struct {
	Complaints *complaint.Service
	Hub        *livehub.ManagerService
	Cache      cache.Cache
	Localizer  *localization.Localizer
	Tokens     *ViewerTokens
	Store      Pinger
}

func NewHandler(svc *complaint.Service, hub *livehub.ManagerService, c cache.Cache, l *localization.Localizer, tokens *ViewerTokens, store Pinger) *Handler {
	if c == nil {
		c = cache.Noop{}
	}
	return &Handler{
		Complaints: svc,
		Hub:        hub,
		Cache:      c,
		Localizer:  l,
		Tokens:     tokens,
		Store:      store,
	}
}

// lang picks the page language from ?lang= first, then Accept-Language.
func (h *Handler) lang(c *gin.Context) string {
	return h.Localizer.Match(c.Query("lang") + "," + c.GetHeader("Accept-Language"))
}

// listView reads ListRoute from the view cache, falling back to the store.
// Only the live feed writes cache entries; a view read here may predate a
// concurrent update, so it is never stored.
func (h *Handler) listView(ctx context.Context) complaint.ListView {
	var view complaint.ListView
	if h.Cache.Get(ctx, complaint.ListRoute, &view) {
		return view
	}
	return h.Complaints.LoadListView(ctx)
}

// complaintView reads a detail route from the view cache, falling back to the
// store.
func (h *Handler) complaintView(ctx context.Context, id string) (models.Complaint, bool) {
	var rec models.Complaint
	if h.Cache.Get(ctx, complaint.DetailRoute(id), &rec) {
		return rec, true
	}
	return h.Complaints.GetComplaint(ctx, id)
}

func (h *Handler) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"t":           h.Localizer.GetString,
		"name":        format.Name,
		"code":        format.Code,
		"issue":       format.Issue,
		"comment":     format.Comment,
		"date":        format.Date,
		"statusLabel": format.StatusLabel,
	}
}
