package handler

import (
	submissionapp "github.com/batchtrack/backend/internal/application/submission"
	"github.com/batchtrack/backend/internal/domain/submission"
	"github.com/gin-gonic/gin"
)

// RedemptionHandler serves the public batch code form
type RedemptionHandler struct {
	BaseHandler
	redemptions *submissionapp.RedemptionService
}

// NewRedemptionHandler creates a new redemption handler
func NewRedemptionHandler(redemptions *submissionapp.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{redemptions: redemptions}
}

// Redeem godoc
// @Summary      Redeem a batch code
// @Description  Records the submission and returns the batch report link.
// @Tags         redemptions
// @Accept       json
// @Produce      json
// @Param        request body submissionapp.RedeemRequest true "Email and batch code"
// @Success      200 {object} dto.Response{data=submissionapp.RedeemResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /redemptions [post]
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	var req submissionapp.RedeemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.Request = submission.RequestContext{
		ClientIP:   c.ClientIP(),
		RemoteAddr: c.Request.RemoteAddr,
		Header:     c.Request.Header,
	}

	result, err := h.redemptions.Redeem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
