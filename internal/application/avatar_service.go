package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/patiklub/service-pets/internal/domain"
	petDomain "github.com/patiklub/service-pets/internal/domain/pet"
	"github.com/patiklub/service-pets/internal/storage"
)

// MaxAvatarSizeBytes is the upload ceiling for avatar images.
const MaxAvatarSizeBytes = 5 << 20

var allowedAvatarExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// AvatarUpload carries an inbound avatar file.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// AvatarResult is returned after a successful avatar replacement.
type AvatarResult struct {
	AvatarURL string `json:"avatar_url"`
}

// AvatarService orchestrates the avatar lifecycle across the record store
// and the blob store. The two are not transactionally joined: the new
// upload and the record write must succeed, cleanup of the previous object
// is best-effort.
type AvatarService struct {
	pets   petDomain.PetRepository
	store  storage.ObjectStore
	logger *zap.Logger
}

// NewAvatarService creates a new AvatarService.
func NewAvatarService(pets petDomain.PetRepository, store storage.ObjectStore, logger *zap.Logger) *AvatarService {
	return &AvatarService{pets: pets, store: store, logger: logger}
}

// UploadAvatar replaces a pet's avatar.
//
// The previous avatar URL is captured before any mutation; a failed upload
// leaves the record untouched. The new URL is persisted before the old
// object is deleted, so a crash mid-operation can orphan a blob but never
// leave the record pointing at a removed one.
func (s *AvatarService) UploadAvatar(ctx context.Context, ownerID, petID uuid.UUID, upload AvatarUpload) (*AvatarResult, error) {
	p, err := s.pets.FindOwnedActive(ctx, petID, ownerID)
	if err != nil {
		return nil, err
	}
	previousURL := p.AvatarURL()

	ext, err := validateAvatar(upload)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s-%s%s", petID, uuid.New(), ext)
	if err := s.store.Upload(ctx, key, upload.Data, upload.ContentType); err != nil {
		s.logger.Error("avatar upload failed",
			zap.String("pet_id", petID.String()),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, domain.NewUnavailableError("avatar storage is unavailable")
	}

	newURL := s.store.PublicURL(key)
	p.SetAvatarURL(newURL)
	if err := s.pets.Update(ctx, p); err != nil {
		s.logger.Error("failed to persist avatar URL",
			zap.String("pet_id", petID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	// Best-effort cleanup of the replaced object. By now the user-visible
	// goal is achieved; an orphaned old blob is an acceptable leak.
	if oldKey, ok := s.store.KeyFromPublicURL(previousURL); ok {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			s.logger.Warn("failed to delete previous avatar",
				zap.String("pet_id", petID.String()),
				zap.String("key", oldKey),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("avatar updated",
		zap.String("pet_id", petID.String()),
		zap.String("key", key),
	)
	return &AvatarResult{AvatarURL: newURL}, nil
}

// validateAvatar checks the declared media type and size before any network
// call, returning the normalized file extension for key derivation.
func validateAvatar(upload AvatarUpload) (string, error) {
	if upload.Size > MaxAvatarSizeBytes {
		return "", domain.NewPayloadTooLargeError(
			fmt.Sprintf("avatar exceeds the %dMB limit", MaxAvatarSizeBytes>>20))
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	expectedType, ok := allowedAvatarExtensions[ext]
	if !ok {
		return "", domain.NewUnsupportedMediaError("avatar must be a jpg, jpeg, png or webp image")
	}
	if upload.ContentType != "" && upload.ContentType != expectedType {
		return "", domain.NewUnsupportedMediaError(
			fmt.Sprintf("content type %s does not match a supported image format", upload.ContentType))
	}
	return ext, nil
}
