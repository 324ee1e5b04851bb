package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// Error codes carried in the "code" field of error bodies.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeInvalidDimension   = "INVALID_DIMENSION"
	CodeInvalidSide        = "INVALID_SIDE"
	CodeIncomplete         = "INCOMPLETE"
	CodeGeometryInfeasible = "GEOMETRY_INFEASIBLE"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidMode        = "INVALID_MODE"
	CodeCrmSyncFailure     = "CRM_SYNC_FAILURE"
	CodeCrmError           = "CRM_ERROR"
	CodeHostUnavailable    = "HOST_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

const internalMessage = "internal error"

// APIError is an error with the HTTP status and code to answer with.
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates an APIError.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, CodeBadRequest, message)
}

// FromError classifies err into an APIError. Internal faults get a generic
// message; the cause stays in Err for logging.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	status, code, msg := http.StatusInternalServerError, CodeInternal, internalMessage
	switch {
	case errors.Is(err, model.ErrInvalidDimension):
		status, code, msg = http.StatusBadRequest, CodeInvalidDimension, err.Error()
	case errors.Is(err, model.ErrInvalidSide):
		status, code, msg = http.StatusBadRequest, CodeInvalidSide, err.Error()
	case errors.Is(err, model.ErrIncomplete):
		status, code, msg = http.StatusUnprocessableEntity, CodeIncomplete, err.Error()
	case errors.Is(err, model.ErrGeometryInfeasible):
		status, code, msg = http.StatusUnprocessableEntity, CodeGeometryInfeasible, err.Error()
	case errors.Is(err, model.ErrHostUnavailable):
		status, code, msg = http.StatusServiceUnavailable, CodeHostUnavailable, err.Error()
	case errors.Is(err, model.ErrCrmSyncFailure):
		status, code, msg = http.StatusBadGateway, CodeCrmSyncFailure, err.Error()
	case errors.Is(err, model.ErrNotFound):
		status, code, msg = http.StatusNotFound, CodeNotFound, err.Error()
	}
	return &APIError{Status: status, Code: code, Message: msg, Err: err}
}

// handleError logs err and writes the error body. Extra fields are merged
// into the body.
func (s *Server) handleError(c *gin.Context, err error, extra gin.H) {
	apiErr := FromError(err)
	ev := s.log.Warn()
	if apiErr.Status >= http.StatusInternalServerError {
		ev = s.log.Error()
	}
	ev.Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Str("code", apiErr.Code).
		Msg("request failed")

	body := gin.H{"success": false, "error": apiErr.Message, "code": apiErr.Code}
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(apiErr.Status, body)
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
