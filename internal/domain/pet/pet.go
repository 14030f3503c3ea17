package pet

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/patiklub/service-pets/internal/domain"
)

// MaxChipNumberLen bounds the chip_number column.
const MaxChipNumberLen = 30

// Pet is the aggregate root for a registered pet. A pet belongs to exactly
// one owner for its whole life; ownerID is set at creation and never changes.
type Pet struct {
	id         uuid.UUID
	ownerID    uuid.UUID
	name       string
	species    string
	breed      string
	gender     string
	birthDate  *time.Time
	weight     *float64
	chipNumber string
	avatarURL  string
	version    int64
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewPet creates a new active pet with validated fields.
func NewPet(
	ownerID uuid.UUID,
	name, species, breed, gender string,
	birthDate *time.Time,
	weight *float64,
	chipNumber, avatarURL string,
) (*Pet, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("pet name is required")
	}
	if species == "" {
		return nil, domain.NewValidationError("pet species is required")
	}
	if err := validateOptionalFields(birthDate, weight, chipNumber); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Pet{
		id:         uuid.New(),
		ownerID:    ownerID,
		name:       name,
		species:    species,
		breed:      breed,
		gender:     gender,
		birthDate:  birthDate,
		weight:     roundWeight(weight),
		chipNumber: chipNumber,
		avatarURL:  avatarURL,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct rebuilds a Pet from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	name, species, breed, gender string,
	birthDate *time.Time,
	weight *float64,
	chipNumber, avatarURL string,
	version int64,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
) *Pet {
	return &Pet{
		id:         id,
		ownerID:    ownerID,
		name:       name,
		species:    species,
		breed:      breed,
		gender:     gender,
		birthDate:  birthDate,
		weight:     weight,
		chipNumber: chipNumber,
		avatarURL:  avatarURL,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		deletedAt:  deletedAt,
	}
}

// --- Getters ---

func (p *Pet) ID() uuid.UUID         { return p.id }
func (p *Pet) OwnerID() uuid.UUID    { return p.ownerID }
func (p *Pet) Name() string          { return p.name }
func (p *Pet) Species() string       { return p.species }
func (p *Pet) Breed() string         { return p.breed }
func (p *Pet) Gender() string        { return p.gender }
func (p *Pet) BirthDate() *time.Time { return p.birthDate }
func (p *Pet) Weight() *float64      { return p.weight }
func (p *Pet) ChipNumber() string    { return p.chipNumber }
func (p *Pet) AvatarURL() string     { return p.avatarURL }
func (p *Pet) Version() int64        { return p.version }
func (p *Pet) CreatedAt() time.Time  { return p.createdAt }
func (p *Pet) UpdatedAt() time.Time  { return p.updatedAt }
func (p *Pet) DeletedAt() *time.Time { return p.deletedAt }

// --- Behavior ---

// IsOwnedBy checks if the pet belongs to the given owner.
func (p *Pet) IsOwnedBy(ownerID uuid.UUID) bool {
	return p.ownerID == ownerID
}

// IsActive reports whether the pet has not been soft-deleted.
func (p *Pet) IsActive() bool {
	return p.deletedAt == nil
}

// UpdateFields holds a sparse update: nil means "leave untouched".
type UpdateFields struct {
	Name       *string
	Breed      *string
	Gender     *string
	BirthDate  *time.Time
	Weight     *float64
	ChipNumber *string
}

// Apply applies the non-nil fields, validating each supplied value.
func (p *Pet) Apply(f UpdateFields) error {
	if f.Name != nil && *f.Name == "" {
		return domain.NewValidationError("pet name cannot be empty")
	}
	var chip string
	if f.ChipNumber != nil {
		chip = *f.ChipNumber
	}
	if err := validateOptionalFields(f.BirthDate, f.Weight, chip); err != nil {
		return err
	}

	if f.Name != nil {
		p.name = *f.Name
	}
	if f.Breed != nil {
		p.breed = *f.Breed
	}
	if f.Gender != nil {
		p.gender = *f.Gender
	}
	if f.BirthDate != nil {
		p.birthDate = f.BirthDate
	}
	if f.Weight != nil {
		p.weight = roundWeight(f.Weight)
	}
	if f.ChipNumber != nil {
		p.chipNumber = *f.ChipNumber
	}
	p.version++
	p.updatedAt = time.Now().UTC()
	return nil
}

// SetAvatarURL replaces the avatar reference after a successful upload.
func (p *Pet) SetAvatarURL(url string) {
	p.avatarURL = url
	p.version++
	p.updatedAt = time.Now().UTC()
}

func validateOptionalFields(birthDate *time.Time, weight *float64, chipNumber string) error {
	if birthDate != nil && birthDate.After(time.Now()) {
		return domain.NewValidationError("birth date cannot be in the future")
	}
	if weight != nil && *weight < 0 {
		return domain.NewValidationError("weight cannot be negative")
	}
	if len(chipNumber) > MaxChipNumberLen {
		return domain.NewValidationError(fmt.Sprintf("chip number exceeds %d characters", MaxChipNumberLen))
	}
	return nil
}

// roundWeight keeps weights at two decimal places so values survive the
// round trip through the decimal(5,2) column without float drift.
func roundWeight(w *float64) *float64 {
	if w == nil {
		return nil
	}
	r := float64(int64(*w*100+0.5)) / 100
	return &r
}
