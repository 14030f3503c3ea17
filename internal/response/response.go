// Package response renders the service's JSON envelope and maps domain
// errors onto HTTP statuses.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patiklub/service-pets/internal/domain"
)

// Success writes 200 with a data payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created writes 201 with a data payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// Message writes 200 with a human-readable confirmation.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// List writes 200 with a page of items plus the independent total count.
func List(c *gin.Context, data interface{}, count int64) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "count": count})
}

// BadRequest writes 400 with the given message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// Error maps a service error onto its HTTP status. Typed domain errors
// carry caller-safe messages; anything else collapses into a generic 500
// so internal error text never reaches the response body.
func Error(c *gin.Context, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		status := statusForKind(derr.Kind)
		c.JSON(status, gin.H{"success": false, "error": derr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case domain.KindUnsupportedMedia:
		return http.StatusUnprocessableEntity
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
