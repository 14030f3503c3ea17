//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patiklub/service-pets/internal/application"
	"github.com/patiklub/service-pets/internal/domain"
	"github.com/patiklub/service-pets/internal/domain/pet"
)

// TestPetLifecycle_CreateListDelete runs the full pet lifecycle against a
// real PostgreSQL database: create, first-pet default nomination, listing,
// partial update, soft delete, and default cascade.
func TestPetLifecycle_CreateListDelete(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()
	stack := setupPetStack(t, infra.DB)

	ownerID := uuid.New()
	ctx := context.Background()

	firstID := createTestPet(t, stack, ownerID, "Boncuk")
	secondID := createTestPet(t, stack, ownerID, "Pamuk")

	// The first pet becomes the default; the second does not displace it.
	profile, err := stack.Profiles.GetProfile(ctx, ownerID)
	require.NoError(t, err)
	require.NotNil(t, profile.DefaultPet)
	assert.Equal(t, firstID, profile.DefaultPet.ID)

	// Listing is newest-first with a total count.
	list, err := stack.Pets.ListPets(ctx, ownerID)
	require.NoError(t, err)
	require.Equal(t, int64(2), list.Count)
	assert.Equal(t, secondID, list.Items[0].ID)
	assert.Equal(t, firstID, list.Items[1].ID)

	// Partial update touches only the provided fields.
	breed := "Van"
	weight := 4.2
	updated, err := stack.Pets.UpdatePet(ctx, ownerID, firstID, application.UpdatePetRequest{
		Breed:  &breed,
		Weight: &weight,
	})
	require.NoError(t, err)
	assert.Equal(t, "Boncuk", updated.Name)
	assert.Equal(t, "Van", updated.Breed)
	require.NotNil(t, updated.Weight)
	assert.InDelta(t, 4.2, *updated.Weight, 0.001)

	// Soft delete: the pet disappears from reads but the row is retained.
	require.NoError(t, stack.Pets.DeletePet(ctx, ownerID, firstID))

	_, err = stack.Pets.GetPet(ctx, ownerID, firstID)
	assertDomainKind(t, err, domain.KindNotFound)

	row := fetchPetRow(t, infra.DB, firstID)
	require.NotNil(t, row.DeletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *row.DeletedAt, time.Minute)

	// Deleting the default pet clears the profile reference.
	profile, err = stack.Profiles.GetProfile(ctx, ownerID)
	require.NoError(t, err)
	assert.Nil(t, profile.DefaultPet)

	// A second delete of the same pet reports not found.
	err = stack.Pets.DeletePet(ctx, ownerID, firstID)
	assertDomainKind(t, err, domain.KindNotFound)

	list, err = stack.Pets.ListPets(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Count)
}

// TestOwnershipIsolation verifies that one owner can never read, modify,
// or delete another owner's pets through any operation.
func TestOwnershipIsolation(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()
	stack := setupPetStack(t, infra.DB)

	ownerA := uuid.New()
	ownerB := uuid.New()
	ctx := context.Background()

	petA := createTestPet(t, stack, ownerA, "Boncuk")
	createTestPet(t, stack, ownerB, "Karabas")

	_, err := stack.Pets.GetPet(ctx, ownerB, petA)
	assertDomainKind(t, err, domain.KindNotFound)

	name := "Hijacked"
	_, err = stack.Pets.UpdatePet(ctx, ownerB, petA, application.UpdatePetRequest{Name: &name})
	assertDomainKind(t, err, domain.KindNotFound)

	err = stack.Pets.DeletePet(ctx, ownerB, petA)
	assertDomainKind(t, err, domain.KindNotFound)

	err = stack.Pets.SetDefaultPet(ctx, ownerB, petA)
	assertDomainKind(t, err, domain.KindNotFound)

	// Owner A's pet is untouched and each owner sees only their own.
	detail, err := stack.Pets.GetPet(ctx, ownerA, petA)
	require.NoError(t, err)
	assert.Equal(t, "Boncuk", detail.Name)

	listB, err := stack.Pets.ListPets(ctx, ownerB)
	require.NoError(t, err)
	require.Equal(t, int64(1), listB.Count)
	assert.Equal(t, "Karabas", listB.Items[0].Name)
}

// TestSetDefaultPet_Overwrite verifies explicit default nomination replaces
// the previous default in place.
func TestSetDefaultPet_Overwrite(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()
	stack := setupPetStack(t, infra.DB)

	ownerID := uuid.New()
	ctx := context.Background()

	createTestPet(t, stack, ownerID, "Boncuk")
	secondID := createTestPet(t, stack, ownerID, "Pamuk")

	require.NoError(t, stack.Pets.SetDefaultPet(ctx, ownerID, secondID))

	profile, err := stack.Profiles.GetProfile(ctx, ownerID)
	require.NoError(t, err)
	require.NotNil(t, profile.DefaultPet)
	assert.Equal(t, secondID, profile.DefaultPet.ID)
}

// TestUpdatePet_VersionGuard verifies that a stale aggregate write is
// rejected instead of silently overwriting newer data.
func TestUpdatePet_VersionGuard(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()
	stack := setupPetStack(t, infra.DB)

	ownerID := uuid.New()
	ctx := context.Background()
	petID := createTestPet(t, stack, ownerID, "Boncuk")

	// Load the aggregate twice; the second write carries a stale version.
	stale, err := stack.PetRepo.FindOwnedActive(ctx, petID, ownerID)
	require.NoError(t, err)
	fresh, err := stack.PetRepo.FindOwnedActive(ctx, petID, ownerID)
	require.NoError(t, err)

	name := "Pamuk"
	require.NoError(t, fresh.Apply(pet.UpdateFields{Name: &name}))
	require.NoError(t, stack.PetRepo.Update(ctx, fresh))

	other := "Karabas"
	require.NoError(t, stale.Apply(pet.UpdateFields{Name: &other}))
	err = stack.PetRepo.Update(ctx, stale)
	assertDomainKind(t, err, domain.KindConflict)
}

func assertDomainKind(t *testing.T, err error, kind domain.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, kind, derr.Kind)
}
