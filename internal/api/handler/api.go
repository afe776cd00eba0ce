package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListComplaints returns the normalized list, newest first.
func (h *Handler) ListComplaints(c *gin.Context) {
	c.JSON(http.StatusOK, h.listView(c.Request.Context()))
}

// GetComplaint returns one normalized complaint.
func (h *Handler) GetComplaint(c *gin.Context) {
	rec, ok := h.complaintView(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

type updateRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// UpdateComplaint applies a JSON status update and returns the Result.
func (h *Handler) UpdateComplaint(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res := h.Complaints.UpdateComplaint(c.Request.Context(), c.Param("id"), req.Status, req.Comment)
	c.JSON(statusFor(res.Outcome), res)
}
