package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/patiklub/service-pets/internal/application"
	"github.com/patiklub/service-pets/internal/auth"
	"github.com/patiklub/service-pets/internal/middleware"
	"github.com/patiklub/service-pets/internal/response"
)

// PetHandler handles HTTP requests for pet operations.
type PetHandler struct {
	pets    *application.PetService
	avatars *application.AvatarService
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(pets *application.PetService, avatars *application.AvatarService) *PetHandler {
	return &PetHandler{pets: pets, avatars: avatars}
}

// RegisterRoutes registers all pet routes.
func (h *PetHandler) RegisterRoutes(r *gin.RouterGroup, verifier *auth.TokenVerifier) {
	authMW := middleware.AuthMiddleware(verifier)

	pets := r.Group("/api/v1/pets")
	pets.Use(authMW)
	{
		pets.POST("", h.CreatePet)
		pets.GET("", h.ListPets)
		pets.GET("/:id", h.GetPet)
		pets.PUT("/:id", h.UpdatePet)
		pets.DELETE("/:id", h.DeletePet)
		pets.PATCH("/:id/set-default", h.SetDefaultPet)
		pets.PATCH("/:id/avatar", h.UploadAvatar)
	}
}

// CreatePet handles POST /api/v1/pets.
func (h *PetHandler) CreatePet(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	var req application.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.pets.CreatePet(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListPets handles GET /api/v1/pets.
func (h *PetHandler) ListPets(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	result, err := h.pets.ListPets(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, result.Items, result.Count)
}

// GetPet handles GET /api/v1/pets/:id.
func (h *PetHandler) GetPet(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	result, err := h.pets.GetPet(c.Request.Context(), ownerID, petID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdatePet handles PUT /api/v1/pets/:id.
func (h *PetHandler) UpdatePet(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	var req application.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.pets.UpdatePet(c.Request.Context(), ownerID, petID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeletePet handles DELETE /api/v1/pets/:id.
func (h *PetHandler) DeletePet(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	if err := h.pets.DeletePet(c.Request.Context(), ownerID, petID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "pet deleted")
}

// SetDefaultPet handles PATCH /api/v1/pets/:id/set-default.
func (h *PetHandler) SetDefaultPet(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	if err := h.pets.SetDefaultPet(c.Request.Context(), ownerID, petID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "default pet updated")
}

// UploadAvatar handles PATCH /api/v1/pets/:id/avatar with a multipart
// `avatar` file field.
func (h *PetHandler) UploadAvatar(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "avatar file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "could not read avatar file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, application.MaxAvatarSizeBytes+1))
	if err != nil {
		response.BadRequest(c, "could not read avatar file")
		return
	}

	result, err := h.avatars.UploadAvatar(c.Request.Context(), ownerID, petID, application.AvatarUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "avatar updated",
		"avatar_url": result.AvatarURL,
	})
}
