package handlers

import (
	"net/http"

	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type airlineView struct {
	models.Airline
	VoteCount int `json:"voteCount"`
	// CanVoteStatus and IsApprovedStatus keep the names older clients use.
	CanVoteStatus    bool `json:"canVoteStatus"`
	IsApprovedStatus bool `json:"isApprovedStatus"`
}

func viewAirline(a models.Airline) airlineView {
	return airlineView{
		Airline:          a,
		VoteCount:        len(a.Votes),
		CanVoteStatus:    a.CanVote(),
		IsApprovedStatus: a.Approved,
	}
}

type registerAirlineRequest struct {
	Candidate string `json:"candidate" binding:"required"`
}

// POST /api/airlines
func (h *Handler) RegisterAirline(c *gin.Context) {
	var req registerAirlineRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	a, err := h.Engine.RegisterAirline(c.Request.Context(), callerOf(c), domain.NormalizePrincipal(req.Candidate))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"airline": viewAirline(a)})
}

// POST /api/airlines/:airline/votes
func (h *Handler) VoteForAirline(c *gin.Context) {
	a, err := h.Engine.VoteForAirline(c.Request.Context(), callerOf(c), principalParam(c, "airline"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"airline":  viewAirline(a),
		"eligible": h.Engine.TotalVotingEligible(),
	})
}

type fundRequest struct {
	Value decimal.Decimal `json:"value"`
}

// POST /api/airlines/fund
func (h *Handler) FundAirline(c *gin.Context) {
	var req fundRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	a, err := h.Engine.FundAirline(c.Request.Context(), callerOf(c), req.Value)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"airline": viewAirline(a)})
}

// GET /api/airlines
func (h *Handler) ListAirlines(c *gin.Context) {
	list := h.Engine.Airlines()
	out := make([]airlineView, 0, len(list))
	for _, a := range list {
		out = append(out, viewAirline(a))
	}
	c.JSON(http.StatusOK, gin.H{"airlines": out, "eligible": h.Engine.TotalVotingEligible()})
}

// GET /api/airlines/:airline
func (h *Handler) GetAirline(c *gin.Context) {
	a, ok := h.Engine.Airline(principalParam(c, "airline"))
	if !ok {
		respondError(c, http.StatusNotFound, domain.CodeUnknownAirline, "airline is not registered", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"airline": viewAirline(a)})
}

// GET /api/airlines/eligible/count
func (h *Handler) CountEligible(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"eligible": h.Engine.TotalVotingEligible()})
}
