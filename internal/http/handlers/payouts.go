package handlers

import (
	"net/http"

	"flightsurety/internal/domain"

	"github.com/gin-gonic/gin"
)

// GET /api/payouts/:passenger
func (h *Handler) GetPayable(c *gin.Context) {
	p := principalParam(c, "passenger")
	c.JSON(http.StatusOK, gin.H{"passenger": p, "payable": h.Engine.GetPayable(p)})
}

type withdrawRequest struct {
	Passenger string `json:"passenger"`
}

// POST /api/payouts/withdraw
func (h *Handler) Withdraw(c *gin.Context) {
	var req withdrawRequest
	if c.Request.ContentLength > 0 && !BindJSONOrError(c, &req) {
		return
	}
	caller := callerOf(c)
	passenger := caller
	if req.Passenger != "" {
		passenger = domain.NormalizePrincipal(req.Passenger)
	}
	w, err := h.Engine.Withdraw(c.Request.Context(), caller, passenger)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}
