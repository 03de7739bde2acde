package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
	"github.com/KaramelBytes/nbastats-cli/internal/loader"
	"github.com/KaramelBytes/nbastats-cli/internal/source"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Message   string `json:"message,omitempty"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// classify maps an error to its HTTP status and a stable kind label.
func classify(err error) (int, string) {
	var (
		ise *loader.InvalidSeasonError
		ce  *analysis.CriteriaError
		ide *analysis.InsufficientDataError
		ue  *source.UnavailableError
		pe  *source.ParseError
		se  *analysis.SchemaError
	)
	switch {
	case errors.As(err, &ise):
		return http.StatusBadRequest, "invalid_season"
	case errors.As(err, &ce):
		return http.StatusBadRequest, "invalid_criteria"
	case errors.As(err, &ide):
		return http.StatusUnprocessableEntity, "insufficient_data"
	case errors.As(err, &ue):
		return http.StatusBadGateway, "source_unavailable"
	case errors.As(err, &pe):
		return http.StatusBadGateway, "parse"
	case errors.As(err, &se):
		return http.StatusInternalServerError, "schema"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// sendError sends a generic error response
func sendError(c *gin.Context, statusCode int, kind, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:     http.StatusText(statusCode),
		Kind:      kind,
		Message:   message,
		Code:      statusCode,
		RequestID: c.GetString(requestIDKey),
	})
}

func sendBadRequest(c *gin.Context, message string) {
	sendError(c, http.StatusBadRequest, "bad_request", message)
}

// fail classifies err, records it on the context and writes the response.
func fail(c *gin.Context, err error) {
	status, kind := classify(err)
	_ = c.Error(err)
	sendError(c, status, kind, err.Error())
}
