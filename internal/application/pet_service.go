package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	ownerDomain "github.com/patiklub/service-pets/internal/domain/owner"
	petDomain "github.com/patiklub/service-pets/internal/domain/pet"
)

// CreatePetRequest is the request DTO for registering a pet. The owner is
// never part of the payload; it always comes from the verified token.
type CreatePetRequest struct {
	Name       string     `json:"name" binding:"required"`
	Species    string     `json:"species" binding:"required"`
	Breed      string     `json:"breed"`
	Gender     string     `json:"gender"`
	BirthDate  *time.Time `json:"birth_date"`
	Weight     *float64   `json:"weight"`
	ChipNumber string     `json:"chip_number"`
	AvatarURL  string     `json:"avatar_url"`
}

// UpdatePetRequest is the sparse update DTO: nil fields stay untouched.
type UpdatePetRequest struct {
	Name       *string    `json:"name"`
	Breed      *string    `json:"breed"`
	Gender     *string    `json:"gender"`
	BirthDate  *time.Time `json:"birth_date"`
	Weight     *float64   `json:"weight"`
	ChipNumber *string    `json:"chip_number"`
}

// PetDetailDTO is the outbound detail projection. The raw birth date is
// replaced by the derived age string; owner_id and created_at never leave
// the service.
type PetDetailDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Species    string    `json:"species"`
	Breed      string    `json:"breed,omitempty"`
	Gender     string    `json:"gender,omitempty"`
	Weight     *float64  `json:"weight,omitempty"`
	ChipNumber string    `json:"chip_number,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Age        *string   `json:"age"`
}

// PetSummaryDTO is the list projection: identity and display fields only.
type PetSummaryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// PetListResult carries one page of summaries plus the independent count.
type PetListResult struct {
	Items []PetSummaryDTO
	Count int64
}

// PetService implements the ownership and lifecycle use cases for pets.
type PetService struct {
	pets   petDomain.PetRepository
	owners ownerDomain.ProfileRepository
	logger *zap.Logger
}

// NewPetService creates a new PetService.
func NewPetService(pets petDomain.PetRepository, owners ownerDomain.ProfileRepository, logger *zap.Logger) *PetService {
	return &PetService{pets: pets, owners: owners, logger: logger}
}

// CreatePet registers a new pet for the owner. The first pet an owner ever
// registers becomes their default automatically; the assignment is a
// conditional write so concurrent creations cannot both claim the slot.
func (s *PetService) CreatePet(ctx context.Context, ownerID uuid.UUID, req CreatePetRequest) (*PetDetailDTO, error) {
	p, err := petDomain.NewPet(
		ownerID,
		req.Name, req.Species, req.Breed, req.Gender,
		req.BirthDate, req.Weight,
		req.ChipNumber, req.AvatarURL,
	)
	if err != nil {
		return nil, err
	}

	if err := s.pets.Save(ctx, p); err != nil {
		s.logger.Error("failed to create pet",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	profile, err := s.owners.GetOrCreate(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to load owner profile", zap.Error(err))
		return nil, fmt.Errorf("failed to load owner profile: %w", err)
	}
	if !profile.HasDefaultPet() {
		won, err := s.owners.SetDefaultPetIfUnset(ctx, ownerID, p.ID())
		if err != nil {
			s.logger.Error("failed to assign first default pet", zap.Error(err))
			return nil, fmt.Errorf("failed to assign default pet: %w", err)
		}
		if won {
			s.logger.Info("first pet set as default",
				zap.String("owner_id", ownerID.String()),
				zap.String("pet_id", p.ID().String()),
			)
		}
	}

	s.logger.Info("pet created",
		zap.String("pet_id", p.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)
	result := toPetDetailDTO(p)
	return &result, nil
}

// ListPets returns the owner's active pets newest-first plus the total
// count. Page and count are independent reads under the same filter, so
// they run concurrently.
func (s *PetService) ListPets(ctx context.Context, ownerID uuid.UUID) (*PetListResult, error) {
	var (
		pets  []*petDomain.Pet
		count int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pets, err = s.pets.FindActiveByOwner(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.pets.CountActiveByOwner(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to list pets", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}

	items := make([]PetSummaryDTO, len(pets))
	for i, p := range pets {
		items[i] = toPetSummaryDTO(p)
	}
	return &PetListResult{Items: items, Count: count}, nil
}

// GetPet returns a single pet through the ownership-scoped lookup.
func (s *PetService) GetPet(ctx context.Context, ownerID, petID uuid.UUID) (*PetDetailDTO, error) {
	p, err := s.pets.FindOwnedActive(ctx, petID, ownerID)
	if err != nil {
		return nil, err
	}
	result := toPetDetailDTO(p)
	return &result, nil
}

// UpdatePet applies a sparse update to an owned active pet.
func (s *PetService) UpdatePet(ctx context.Context, ownerID, petID uuid.UUID, req UpdatePetRequest) (*PetDetailDTO, error) {
	p, err := s.pets.FindOwnedActive(ctx, petID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := p.Apply(petDomain.UpdateFields{
		Name:       req.Name,
		Breed:      req.Breed,
		Gender:     req.Gender,
		BirthDate:  req.BirthDate,
		Weight:     req.Weight,
		ChipNumber: req.ChipNumber,
	}); err != nil {
		return nil, err
	}

	if err := s.pets.Update(ctx, p); err != nil {
		s.logger.Error("failed to update pet", zap.String("pet_id", petID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("pet updated", zap.String("pet_id", petID.String()))
	result := toPetDetailDTO(p)
	return &result, nil
}

// DeletePet soft-deletes an owned active pet. The row is stamped, never
// purged. When the deleted pet was the owner's default the reference is
// cascade-cleared; a failure there is logged only, since the deletion
// itself already took effect.
func (s *PetService) DeletePet(ctx context.Context, ownerID, petID uuid.UUID) error {
	if err := s.pets.SoftDelete(ctx, petID, ownerID, time.Now().UTC()); err != nil {
		return err
	}

	if err := s.owners.ClearDefaultPet(ctx, ownerID, petID); err != nil {
		s.logger.Warn("failed to clear default pet after delete",
			zap.String("owner_id", ownerID.String()),
			zap.String("pet_id", petID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("pet soft-deleted",
		zap.String("pet_id", petID.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return nil
}

// SetDefaultPet nominates an owned active pet as the caller's default. The
// write is last-wins by design: the invariant only requires that the
// reference point at some active owned pet.
func (s *PetService) SetDefaultPet(ctx context.Context, ownerID, petID uuid.UUID) error {
	if _, err := s.pets.FindOwnedActive(ctx, petID, ownerID); err != nil {
		return err
	}

	if _, err := s.owners.GetOrCreate(ctx, ownerID); err != nil {
		return fmt.Errorf("failed to load owner profile: %w", err)
	}
	if err := s.owners.SetDefaultPet(ctx, ownerID, petID); err != nil {
		s.logger.Error("failed to set default pet", zap.Error(err))
		return fmt.Errorf("failed to set default pet: %w", err)
	}

	s.logger.Info("default pet set",
		zap.String("owner_id", ownerID.String()),
		zap.String("pet_id", petID.String()),
	)
	return nil
}

// --- Projections ---

func toPetDetailDTO(p *petDomain.Pet) PetDetailDTO {
	return PetDetailDTO{
		ID:         p.ID(),
		Name:       p.Name(),
		Species:    p.Species(),
		Breed:      p.Breed(),
		Gender:     p.Gender(),
		Weight:     p.Weight(),
		ChipNumber: p.ChipNumber(),
		AvatarURL:  p.AvatarURL(),
		Age:        p.Age(),
	}
}

func toPetSummaryDTO(p *petDomain.Pet) PetSummaryDTO {
	return PetSummaryDTO{
		ID:        p.ID(),
		Name:      p.Name(),
		Breed:     p.Breed(),
		AvatarURL: p.AvatarURL(),
	}
}
