package api

import (
	"alcyxob/workout-tracker/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stable, machine-readable error codes returned in ErrorResponse.Code.
const (
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_failed"
	ErrCodeInternal         = "internal_error"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

const internalErrorMessage = "internal error"

// kindStatus maps service error kinds to HTTP status codes.
var kindStatus = map[service.Kind]int{
	service.KindNotFound:   http.StatusNotFound,
	service.KindConflict:   http.StatusConflict,
	service.KindBadRequest: http.StatusBadRequest,
	service.KindValidation: http.StatusBadRequest,
	service.KindInternal:   http.StatusInternalServerError,
}

// kindCode maps service error kinds to envelope codes.
var kindCode = map[service.Kind]string{
	service.KindNotFound:   ErrCodeNotFound,
	service.KindConflict:   ErrCodeConflict,
	service.KindBadRequest: ErrCodeBadRequest,
	service.KindValidation: ErrCodeValidation,
	service.KindInternal:   ErrCodeInternal,
}

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	RequestID string               `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string               `json:"code" example:"not_found"`
	Message   string               `json:"message" example:"workout \"Leg Day\" not found"`
	Key       string               `json:"key,omitempty" example:"Leg Day"`
	Fields    []service.FieldError `json:"fields,omitempty"`
}

// abortWithError writes the envelope and stops the handler chain.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: requestIDFrom(c),
		Code:      code,
		Message:   message,
	})
}

// respondServiceError renders a service error through the kind tables.
// Internal causes are logged and never leave the process.
func respondServiceError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	resp := ErrorResponse{RequestID: requestIDFrom(c), Code: kindCode[kind]}
	if resp.Code == "" {
		resp.Code = ErrCodeInternal
	}

	var se *service.Error
	switch {
	case status >= http.StatusInternalServerError:
		resp.Message = internalErrorMessage
		_ = c.Error(err)
		LoggerFrom(c).Error().Err(err).Str("code", resp.Code).Msg("request failed")
	case errors.As(err, &se):
		resp.Message = se.Message
		resp.Key = se.Key
		resp.Fields = se.Fields
	default:
		resp.Message = err.Error()
	}

	c.AbortWithStatusJSON(status, resp)
}
