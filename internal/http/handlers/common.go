package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"
	"flightsurety/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// flightInput is the flight tuple as it appears in request bodies.
type flightInput struct {
	Airline   string `json:"airline" form:"airline"`
	Code      string `json:"code" form:"code"`
	Timestamp int64  `json:"timestamp" form:"timestamp"`
}

func (f flightInput) key() models.FlightKey {
	return models.FlightKey{
		Airline:   domain.NormalizePrincipal(f.Airline),
		Code:      strings.TrimSpace(f.Code),
		Timestamp: f.Timestamp,
	}
}

// flightKeyFromPath reads /:airline/:code/:timestamp.
func flightKeyFromPath(c *gin.Context) (models.FlightKey, bool) {
	ts, err := strconv.ParseInt(c.Param("timestamp"), 10, 64)
	if err != nil || ts <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_timestamp", "timestamp must be a positive integer", nil)
		return models.FlightKey{}, false
	}
	return flightInput{Airline: c.Param("airline"), Code: c.Param("code"), Timestamp: ts}.key(), true
}

// callerOf is the authenticated principal; Auth guarantees it is set on
// protected routes.
func callerOf(c *gin.Context) domain.Principal {
	return middleware.GetPrincipal(c)
}

func principalParam(c *gin.Context, name string) domain.Principal {
	return domain.NormalizePrincipal(c.Param(name))
}
