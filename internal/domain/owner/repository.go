package owner

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines persistence operations for owner profiles.
//
// The default-pet mutations are single conditional statements so concurrent
// writers cannot interleave a read-then-write on the profile row.
type ProfileRepository interface {
	// GetOrCreate returns the profile for the subject id, creating an
	// empty row on first use.
	GetOrCreate(ctx context.Context, id uuid.UUID) (*Profile, error)

	// SetDefaultPet unconditionally overwrites default_pet_id.
	SetDefaultPet(ctx context.Context, ownerID, petID uuid.UUID) error

	// SetDefaultPetIfUnset sets default_pet_id only while it is still
	// null. Returns true when this call won the assignment.
	SetDefaultPetIfUnset(ctx context.Context, ownerID, petID uuid.UUID) (bool, error)

	// ClearDefaultPet nulls default_pet_id only while it still points at
	// the given pet.
	ClearDefaultPet(ctx context.Context, ownerID, petID uuid.UUID) error
}
