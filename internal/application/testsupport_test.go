package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patiklub/service-pets/internal/domain"
	ownerDomain "github.com/patiklub/service-pets/internal/domain/owner"
	petDomain "github.com/patiklub/service-pets/internal/domain/pet"
)

// fakePetRepo is an in-memory PetRepository mirroring the scoped-lookup
// semantics of the real repository.
type fakePetRepo struct {
	mu        sync.RWMutex
	pets      map[uuid.UUID]*petDomain.Pet
	saveCalls int
	saveErr   error
	updateErr error
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{pets: make(map[uuid.UUID]*petDomain.Pet)}
}

func clonePet(p *petDomain.Pet) *petDomain.Pet {
	return petDomain.Reconstruct(
		p.ID(), p.OwnerID(),
		p.Name(), p.Species(), p.Breed(), p.Gender(),
		p.BirthDate(), p.Weight(),
		p.ChipNumber(), p.AvatarURL(),
		p.Version(),
		p.CreatedAt(), p.UpdatedAt(),
		p.DeletedAt(),
	)
}

func (r *fakePetRepo) Save(ctx context.Context, p *petDomain.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.pets[p.ID()] = clonePet(p)
	return nil
}

func (r *fakePetRepo) FindOwnedActive(ctx context.Context, id, ownerID uuid.UUID) (*petDomain.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pets[id]
	if !ok || !p.IsOwnedBy(ownerID) || !p.IsActive() {
		return nil, domain.NewNotFoundError("pet", id.String())
	}
	return clonePet(p), nil
}

func (r *fakePetRepo) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*petDomain.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*petDomain.Pet
	for _, p := range r.pets {
		if p.IsOwnedBy(ownerID) && p.IsActive() {
			out = append(out, clonePet(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (r *fakePetRepo) CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, p := range r.pets {
		if p.IsOwnedBy(ownerID) && p.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakePetRepo) Update(ctx context.Context, p *petDomain.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.pets[p.ID()]
	if !ok || !stored.IsActive() {
		return domain.NewConflictError("pet was modified by another transaction")
	}
	r.pets[p.ID()] = clonePet(p)
	return nil
}

func (r *fakePetRepo) SoftDelete(ctx context.Context, id, ownerID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pets[id]
	if !ok || !p.IsOwnedBy(ownerID) || !p.IsActive() {
		return domain.NewNotFoundError("pet", id.String())
	}
	r.pets[id] = petDomain.Reconstruct(
		p.ID(), p.OwnerID(),
		p.Name(), p.Species(), p.Breed(), p.Gender(),
		p.BirthDate(), p.Weight(),
		p.ChipNumber(), p.AvatarURL(),
		p.Version(),
		p.CreatedAt(), at,
		&at,
	)
	return nil
}

func (r *fakePetRepo) stored(id uuid.UUID) *petDomain.Pet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pets[id]
}

// fakeOwnerRepo is an in-memory ProfileRepository. A map entry means the
// profile row exists; a nil value means no default pet is set.
type fakeOwnerRepo struct {
	mu       sync.Mutex
	defaults map[uuid.UUID]*uuid.UUID
}

func newFakeOwnerRepo() *fakeOwnerRepo {
	return &fakeOwnerRepo{defaults: make(map[uuid.UUID]*uuid.UUID)}
}

func (r *fakeOwnerRepo) GetOrCreate(ctx context.Context, id uuid.UUID) (*ownerDomain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defaults[id]; !ok {
		r.defaults[id] = nil
	}
	now := time.Now().UTC()
	return ownerDomain.Reconstruct(id, r.defaults[id], now, now), nil
}

func (r *fakeOwnerRepo) SetDefaultPet(ctx context.Context, ownerID, petID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := petID
	r.defaults[ownerID] = &p
	return nil
}

func (r *fakeOwnerRepo) SetDefaultPetIfUnset(ctx context.Context, ownerID, petID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaults[ownerID] != nil {
		return false, nil
	}
	p := petID
	r.defaults[ownerID] = &p
	return true, nil
}

func (r *fakeOwnerRepo) ClearDefaultPet(ctx context.Context, ownerID, petID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.defaults[ownerID]; cur != nil && *cur == petID {
		r.defaults[ownerID] = nil
	}
	return nil
}

func (r *fakeOwnerRepo) defaultPet(ownerID uuid.UUID) *uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defaults[ownerID]
}

// fakeObjectStore records uploads and deletes without any network.
const fakeStoreBase = "https://blob.test/storage/v1/object/public/avatars/"

type fakeObjectStore struct {
	mu          sync.Mutex
	uploads     map[string][]byte
	deleted     []string
	uploadCalls int
	deleteCalls int
	uploadErr   error
	deleteErr   error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{uploads: make(map[string][]byte)}
}

func (s *fakeObjectStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls++
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploads[key] = data
	return nil
}

func (s *fakeObjectStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, key)
	delete(s.uploads, key)
	return nil
}

func (s *fakeObjectStore) PublicURL(key string) string {
	return fakeStoreBase + key
}

func (s *fakeObjectStore) KeyFromPublicURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, fakeStoreBase)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
