package handler

import (
	submissionapp "github.com/batchtrack/backend/internal/application/submission"
	"github.com/gin-gonic/gin"
)

// SubmissionHandler exposes the submission log to admins
type SubmissionHandler struct {
	BaseHandler
	log *submissionapp.Log
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(log *submissionapp.Log) *SubmissionHandler {
	return &SubmissionHandler{log: log}
}

// List godoc
// @Summary      List all submissions, newest first
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]submissionapp.SubmissionResponse}
// @Router       /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	records, err := h.log.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, records, len(records))
}

// Get godoc
// @Summary      Get a submission
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Submission ID"
// @Success      200 {object} dto.Response{data=submissionapp.SubmissionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /submissions/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	record, err := h.log.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete godoc
// @Summary      Delete a submission
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Submission ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.log.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Submission deleted"})
}
