package handler

import (
	submissionapp "github.com/batchtrack/backend/internal/application/submission"
	"github.com/gin-gonic/gin"
)

// CustomerHandler serves the customer views over the submission log
type CustomerHandler struct {
	BaseHandler
	aggregator *submissionapp.Aggregator
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(aggregator *submissionapp.Aggregator) *CustomerHandler {
	return &CustomerHandler{aggregator: aggregator}
}

// List godoc
// @Summary      List unique customers with their latest submission
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]submissionapp.CustomerResponse}
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.aggregator.UniqueCustomers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, customers, len(customers))
}

// History godoc
// @Summary      Submission history of one customer
// @Description  The customer may be given by customer id or by email.
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id path string true "Customer ID or email"
// @Success      200 {object} dto.Response{data=[]submissionapp.SubmissionResponse}
// @Router       /customers/{customer_id}/submissions [get]
func (h *CustomerHandler) History(c *gin.Context) {
	history, err := h.aggregator.HistoryForCustomer(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, history, len(history))
}
