package pet

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PetRepository defines persistence operations for pets.
//
// Lookups targeting a single pet take both the pet id and the owner id so
// implementations filter by (id, owner_id, deleted_at IS NULL) in one
// predicate. A miss for any reason maps to the same not-found error.
type PetRepository interface {
	Save(ctx context.Context, pet *Pet) error
	FindOwnedActive(ctx context.Context, id, ownerID uuid.UUID) (*Pet, error)
	FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Pet, error)
	CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Update(ctx context.Context, pet *Pet) error
	SoftDelete(ctx context.Context, id, ownerID uuid.UUID, at time.Time) error
}
