package handlers

import (
	"net/http"

	"flightsurety/internal/domain"
	"flightsurety/internal/http/middleware"
	"flightsurety/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

var codeStatus = map[string]int{
	domain.CodeUnauthorized:      http.StatusForbidden,
	domain.CodeSystemPaused:      http.StatusServiceUnavailable,
	domain.CodeInsufficientFunds: http.StatusPaymentRequired,
	domain.CodeInsufficientFee:   http.StatusPaymentRequired,
	domain.CodeDuplicateVote:     http.StatusConflict,
	domain.CodeDuplicatePolicy:   http.StatusConflict,
	domain.CodeDuplicateFlight:   http.StatusConflict,
	domain.CodeDuplicateAirline:  http.StatusConflict,
	domain.CodeDuplicateOracle:   http.StatusConflict,
	domain.CodeAlreadyResolved:   http.StatusConflict,
	domain.CodeAlreadyApproved:   http.StatusConflict,
	domain.CodeRequestNotOpen:    http.StatusConflict,
	domain.CodeZeroBalance:       http.StatusConflict,
	domain.CodeUnknownFlight:     http.StatusNotFound,
	domain.CodeUnknownAirline:    http.StatusNotFound,
	domain.CodeCapExceeded:       http.StatusUnprocessableEntity,
	domain.CodeInvalidAmount:     http.StatusUnprocessableEntity,
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	if code := domain.CodeOf(err); code != "" {
		status, ok := codeStatus[code]
		if !ok {
			status = http.StatusBadRequest
		}
		respondError(c, status, code, err.Error(), nil)
		return
	}
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusUnprocessableEntity, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		utils.LogEvent(middleware.GetRequestID(c), "http", "internal_error", err.Error())
		respondError(c, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
