package handlers

import (
	"net/http"

	"flightsurety/internal/domain"
	"flightsurety/internal/http/middleware"
	"flightsurety/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type buyInsuranceRequest struct {
	flightInput
	Value     decimal.Decimal `json:"value"`
	Passenger string          `json:"passenger"`
}

// POST /api/policies
func (h *Handler) BuyInsurance(c *gin.Context) {
	var req buyInsuranceRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	caller := callerOf(c)
	passenger := caller
	if req.Passenger != "" {
		passenger = domain.NormalizePrincipal(req.Passenger)
	}
	p, err := h.Engine.BuyInsurance(c.Request.Context(), caller, passenger, req.key(), req.Value)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"policy": p})
}

// GET /api/policies/mine
func (h *Handler) MyPolicies(c *gin.Context) {
	caller := callerOf(c)
	c.JSON(http.StatusOK, gin.H{
		"policies": h.Engine.PoliciesOf(caller),
		"payable":  h.Engine.GetPayable(caller),
	})
}

// GET /api/policies/certificate?airline=&code=&timestamp=
func (h *Handler) PolicyCertificate(c *gin.Context) {
	var q flightInput
	if err := c.ShouldBindQuery(&q); err != nil || q.Timestamp <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_flight", "airline, code and timestamp are required", nil)
		return
	}

	svc := services.DocsService{
		Source:    h.Engine,
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GeneratePolicyCertificate(callerOf(c), q.key())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
