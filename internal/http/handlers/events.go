package handlers

import (
	"net/http"
	"strconv"

	"flightsurety/internal/domain"
	"flightsurety/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/events?kind=&principal=&limit=
func (h *Handler) ListEvents(c *gin.Context) {
	if h.Journal == nil {
		respondError(c, http.StatusServiceUnavailable, "journal_disabled", "event journal is not configured", nil)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.Journal.List(c.Request.Context(), repositories.JournalFilter{
		Kind:      c.Query("kind"),
		Principal: domain.NormalizePrincipal(c.Query("principal")),
		Limit:     limit,
	})
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "list events", Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
