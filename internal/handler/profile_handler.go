package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patiklub/service-pets/internal/application"
	"github.com/patiklub/service-pets/internal/auth"
	"github.com/patiklub/service-pets/internal/middleware"
	"github.com/patiklub/service-pets/internal/response"
)

// ProfileHandler handles HTTP requests for the caller's owner profile.
type ProfileHandler struct {
	service *application.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *application.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// RegisterRoutes registers the profile routes.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup, verifier *auth.TokenVerifier) {
	authMW := middleware.AuthMiddleware(verifier)

	profile := r.Group("/api/v1/profile")
	profile.Use(authMW)
	{
		profile.GET("", h.GetProfile)
	}
}

// GetProfile handles GET /api/v1/profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	result, err := h.service.GetProfile(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
