package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"flightsurety/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type registerOracleRequest struct {
	Value decimal.Decimal `json:"value"`
}

// POST /api/oracles
func (h *Handler) RegisterOracle(c *gin.Context) {
	var req registerOracleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	o, err := h.Engine.RegisterOracle(c.Request.Context(), callerOf(c), req.Value)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"oracle": o})
}

// GET /api/oracles/me
func (h *Handler) MyIndexes(c *gin.Context) {
	idx, err := h.Engine.GetMyIndexes(callerOf(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexes": models.IndexSet(idx)})
}

// POST /api/oracles/requests
func (h *Handler) FetchFlightStatus(c *gin.Context) {
	var req flightInput
	if !BindJSONOrError(c, &req) {
		return
	}
	r, err := h.Engine.FetchFlightStatus(c.Request.Context(), callerOf(c), req.key())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"request": r})
}

// statusInput accepts a status as its wire number or its name.
type statusInput struct {
	models.StatusCode
}

func (s *statusInput) UnmarshalJSON(b []byte) error {
	var n uint8
	if err := json.Unmarshal(b, &n); err == nil {
		s.StatusCode = models.StatusCode(n)
		return nil
	}
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("status must be a number or a name")
	}
	code, err := models.ParseStatus(name)
	if err != nil {
		return err
	}
	s.StatusCode = code
	return nil
}

type submitResponseRequest struct {
	flightInput
	Index  *int        `json:"index" binding:"required"`
	Status statusInput `json:"status"`
}

// POST /api/oracles/responses
func (h *Handler) SubmitOracleResponse(c *gin.Context) {
	var req submitResponseRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if *req.Index < 0 || *req.Index > 255 {
		respondError(c, http.StatusUnprocessableEntity, "validation_error", "index is out of range", nil)
		return
	}
	res, err := h.Engine.SubmitOracleResponse(c.Request.Context(), callerOf(c), uint8(*req.Index), req.key(), req.Status.StatusCode)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res})
}
