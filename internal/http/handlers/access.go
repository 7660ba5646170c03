package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type toggleRequest struct {
	Mode *bool `json:"mode" binding:"required"`
}

// GET /api/operational
func (h *Handler) GetOperational(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"operational": h.Engine.IsOperational(),
		"testingMode": h.Engine.TestingMode(),
		"owner":       h.Engine.Owner(),
	})
}

// PUT /api/operational
func (h *Handler) SetOperational(c *gin.Context) {
	var req toggleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Engine.SetOperatingStatus(c.Request.Context(), callerOf(c), *req.Mode); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"operational": *req.Mode})
}

// PUT /api/testing-mode
func (h *Handler) SetTestingMode(c *gin.Context) {
	var req toggleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Engine.SetTestingMode(c.Request.Context(), callerOf(c), *req.Mode); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testingMode": *req.Mode})
}

// POST /api/callers/:principal
func (h *Handler) AuthorizeCaller(c *gin.Context) {
	app := principalParam(c, "principal")
	if err := h.Engine.AuthorizeCaller(c.Request.Context(), callerOf(c), app); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"caller": app, "authorized": true})
}

// DELETE /api/callers/:principal
func (h *Handler) DeauthorizeCaller(c *gin.Context) {
	app := principalParam(c, "principal")
	if err := h.Engine.DeauthorizeCaller(c.Request.Context(), callerOf(c), app); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"caller": app, "authorized": false})
}
