package handlers

import (
	"net/http"

	"flightsurety/internal/domain"

	"github.com/gin-gonic/gin"
)

type registerFlightRequest struct {
	Code      string `json:"code" binding:"required"`
	Timestamp int64  `json:"timestamp" binding:"required"`
}

// POST /api/flights
func (h *Handler) RegisterFlight(c *gin.Context) {
	var req registerFlightRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	f, err := h.Engine.RegisterFlight(c.Request.Context(), callerOf(c), req.Code, req.Timestamp)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"flight": f})
}

// GET /api/flights?airline=
func (h *Handler) ListFlights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"flights": h.Engine.Flights(domain.NormalizePrincipal(c.Query("airline")))})
}

// GET /api/flights/:airline/:code/:timestamp
func (h *Handler) GetFlight(c *gin.Context) {
	key, ok := flightKeyFromPath(c)
	if !ok {
		return
	}
	f, found := h.Engine.Flight(key)
	if !found {
		respondError(c, http.StatusNotFound, domain.CodeUnknownFlight, "flight is not registered", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flight":   f,
		"policies": len(h.Engine.PoliciesFor(key)),
		"requests": h.Engine.OracleRequests(key),
	})
}
