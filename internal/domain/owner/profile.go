package owner

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the per-account owner profile. It is keyed by the verified
// subject id of the identity provider, one row per account.
//
// DefaultPetID is a back-reference, not an ownership edge: when set it must
// point at an active pet with a matching owner_id. The invariant is upheld
// by the application layer, not by a storage constraint.
type Profile struct {
	id           uuid.UUID
	defaultPetID *uuid.UUID
	createdAt    time.Time
	updatedAt    time.Time
}

// NewProfile creates an empty profile for the given subject id.
func NewProfile(id uuid.UUID) *Profile {
	now := time.Now().UTC()
	return &Profile{
		id:        id,
		createdAt: now,
		updatedAt: now,
	}
}

// Reconstruct rebuilds a Profile from persistence data.
func Reconstruct(id uuid.UUID, defaultPetID *uuid.UUID, createdAt, updatedAt time.Time) *Profile {
	return &Profile{
		id:           id,
		defaultPetID: defaultPetID,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (p *Profile) ID() uuid.UUID            { return p.id }
func (p *Profile) DefaultPetID() *uuid.UUID { return p.defaultPetID }
func (p *Profile) CreatedAt() time.Time     { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time     { return p.updatedAt }

// HasDefaultPet reports whether a default pet is currently set.
func (p *Profile) HasDefaultPet() bool {
	return p.defaultPetID != nil
}
