package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/patiklub/service-pets/internal/domain"
	ownerDomain "github.com/patiklub/service-pets/internal/domain/owner"
	petDomain "github.com/patiklub/service-pets/internal/domain/pet"
)

// ProfileDTO is the outbound representation of the caller's profile.
type ProfileDTO struct {
	ID         uuid.UUID      `json:"id"`
	DefaultPet *PetSummaryDTO `json:"default_pet,omitempty"`
}

// ProfileService exposes the owner profile to its own account.
type ProfileService struct {
	owners ownerDomain.ProfileRepository
	pets   petDomain.PetRepository
	logger *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(owners ownerDomain.ProfileRepository, pets petDomain.PetRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{owners: owners, pets: pets, logger: logger}
}

// GetProfile returns the caller's profile. A default reference that no
// longer resolves to an active owned pet is reported as unset rather than
// leaking a stale id.
func (s *ProfileService) GetProfile(ctx context.Context, ownerID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.owners.GetOrCreate(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to load owner profile", zap.Error(err))
		return nil, fmt.Errorf("failed to load owner profile: %w", err)
	}

	dto := &ProfileDTO{ID: profile.ID()}
	if profile.HasDefaultPet() {
		p, err := s.pets.FindOwnedActive(ctx, *profile.DefaultPetID(), ownerID)
		switch {
		case err == nil:
			summary := toPetSummaryDTO(p)
			dto.DefaultPet = &summary
		case isNotFound(err):
			// Stale reference; treated as no default.
		default:
			return nil, err
		}
	}
	return dto, nil
}

func isNotFound(err error) bool {
	var derr *domain.Error
	return errors.As(err, &derr) && derr.Kind == domain.KindNotFound
}
