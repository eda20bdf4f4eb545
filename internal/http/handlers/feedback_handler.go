// Feedback HTTP handlers.
//
//   - POST /feedbacks  (leave a 1–5 rating with optional comment)
//   - GET  /feedbacks  (paginated listing, newest first)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/services"
)

// LeaveFeedbackRequest is the JSON payload for one feedback entry.
type LeaveFeedbackRequest struct {
	PatientID *uint  `json:"patient_id"`
	Name      string `json:"name"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

// ListFeedbacksResponse wraps a page of feedback and pagination metadata.
type ListFeedbacksResponse struct {
	Feedbacks  []domain.Feedback `json:"feedbacks"`
	Pagination Pagination        `json:"pagination"`
}

// LeaveFeedback handles POST /feedbacks.
func (h *Handlers) LeaveFeedback(c *gin.Context) {
	var req LeaveFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rating required")
		return
	}

	fb, err := h.feedbackSvc.Leave(c.Request.Context(), req.PatientID, req.Name, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rating must be between 1 and 5")
		default:
			failInternal(c, ErrCodeCreateFailed, err)
		}
		return
	}
	ok(c, http.StatusCreated, fb)
}

// ListFeedbacks handles GET /feedbacks.
func (h *Handlers) ListFeedbacks(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.feedbackSvc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, ListFeedbacksResponse{
		Feedbacks:  items,
		Pagination: paginate(page, pageSize, total),
	})
}
