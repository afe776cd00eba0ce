package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"gnacomplaints/backend/internal/complaint"
	"gnacomplaints/backend/internal/metrics"
	"gnacomplaints/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type listRow struct {
	Serial    int
	Complaint models.Complaint
}

type listPage struct {
	Lang        string
	Rows        []listRow
	ViewerToken string
}

type notice struct {
	Success bool
	Message string
}

type detailPage struct {
	Lang      string
	Complaint models.Complaint
	Notice    *notice
}

type notFoundPage struct {
	Lang string
}

// rows numbers the newest-first list so the oldest complaint is offset+1.
func rows(view complaint.ListView) []listRow {
	out := make([]listRow, len(view.Complaints))
	n := len(view.Complaints)
	for i, c := range view.Complaints {
		out[i] = listRow{Serial: view.SerialOffset + n - i, Complaint: c}
	}
	return out
}

// ListPage renders every complaint as a card.
func (h *Handler) ListPage(c *gin.Context) {
	lang := h.lang(c)
	token, _, err := h.Tokens.Issue()
	if err != nil {
		// The page still works without live updates.
		slog.Error("issue viewer token failed", "error", err)
	}
	c.HTML(http.StatusOK, "list.html", listPage{
		Lang:        lang,
		Rows:        rows(h.listView(c.Request.Context())),
		ViewerToken: token,
	})
}

// ListFragment renders only the cards. List pages reload it on every live
// snapshot.
func (h *Handler) ListFragment(c *gin.Context) {
	c.HTML(http.StatusOK, "list_items", listPage{
		Lang: h.lang(c),
		Rows: rows(h.listView(c.Request.Context())),
	})
}

// DetailPage renders one complaint with the update form.
func (h *Handler) DetailPage(c *gin.Context) {
	h.renderDetail(c, c.Param("id"), http.StatusOK, nil)
}

// SubmitUpdate applies the update form and re-renders the page with a notice.
// A complaintId field that disagrees with the URL is treated as missing.
func (h *Handler) SubmitUpdate(c *gin.Context) {
	id := c.Param("id")
	if formID, ok := c.GetPostForm("complaintId"); ok && strings.TrimSpace(formID) != id {
		id = ""
	}

	res := h.Complaints.UpdateComplaint(c.Request.Context(), id, c.PostForm("status"), c.PostForm("comment"))

	// A store failure still renders 200 with the error notice.
	status := http.StatusOK
	if res.Outcome != metrics.OutcomeFailed {
		status = statusFor(res.Outcome)
	}
	h.renderDetail(c, c.Param("id"), status, &notice{Success: res.Success, Message: res.Message})
}

func statusFor(outcome string) int {
	switch outcome {
	case metrics.OutcomeInvalid:
		return http.StatusBadRequest
	case metrics.OutcomeNotFound:
		return http.StatusNotFound
	case metrics.OutcomeFailed:
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func (h *Handler) renderDetail(c *gin.Context, id string, status int, n *notice) {
	lang := h.lang(c)
	rec, ok := h.complaintView(c.Request.Context(), id)
	if !ok {
		c.HTML(http.StatusNotFound, "notfound.html", notFoundPage{Lang: lang})
		return
	}
	c.HTML(status, "detail.html", detailPage{Lang: lang, Complaint: rec, Notice: n})
}
