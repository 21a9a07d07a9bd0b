package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/agora-forum/api-go/services"
	"github.com/gin-gonic/gin"
)

// ErrorReporter turns service errors into HTTP responses.
type ErrorReporter struct {
	Log        *slog.Logger
	Production bool
}

func statusOf(err error) int {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotEnoughRights), errors.Is(err, services.ErrEmailNotConfirmed):
		return http.StatusForbidden
	case errors.Is(err, services.ErrMustBeUnique):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (r *ErrorReporter) respondError(c *gin.Context, err error) {
	status := statusOf(err)
	body := gin.H{"success": false, "error": err.Error()}

	var validation *services.ValidationError
	if errors.As(err, &validation) {
		body["field"] = validation.Field
		body["error"] = validation.Message
	}

	if status == http.StatusInternalServerError {
		r.Log.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		if r.Production {
			body["error"] = "Internal server error"
		}
	}

	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
}
