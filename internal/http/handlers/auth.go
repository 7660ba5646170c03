package handlers

import (
	"net/http"
	"time"

	"flightsurety/internal/domain"
	"flightsurety/internal/http/middleware"
	"flightsurety/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type tokenRequest struct {
	Principal string `json:"principal" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// POST /api/auth/token
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	principal := domain.NormalizePrincipal(req.Principal)
	hash, ok := h.Credentials[principal]
	if !ok {
		respondError(c, http.StatusUnauthorized, "invalid_credentials", "principal or password is wrong", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid_credentials", "principal or password is wrong", nil)
		return
	}

	token, err := middleware.IssueToken(h.JWTSecret, principal, tokenTTL)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "token_failed", "could not sign token", nil)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "auth", "issue_token", "principal="+principal.String())

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"principal": principal,
		"expiresIn": int(tokenTTL.Seconds()),
	})
}
