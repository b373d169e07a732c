package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/petcommunity/petcommunity/internal/model"
	"github.com/petcommunity/petcommunity/internal/repository"
)

// memUserStore is an in-memory UserStore.
type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
	err    error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*model.User)}
}

func (s *memUserStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrUserExists
		}
	}
	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *memUserStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memUserStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// memPetStore is an in-memory PetStore.
type memPetStore struct {
	mu     sync.Mutex
	nextID int64
	pets   map[int64]*model.Pet
	order  []int64
	err    error
}

func newMemPetStore() *memPetStore {
	return &memPetStore{pets: make(map[int64]*model.Pet)}
}

func (s *memPetStore) CreatePet(_ context.Context, pet *model.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.nextID++
	pet.ID = s.nextID
	pet.DateAdded = time.Now().UTC()
	stored := *pet
	s.pets[pet.ID] = &stored
	s.order = append(s.order, pet.ID)
	return nil
}

func (s *memPetStore) ListPetsByOwner(_ context.Context, ownerID int64) ([]*model.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*model.Pet
	for _, id := range s.order {
		p, ok := s.pets[id]
		if ok && p.IsOwnedBy(ownerID) {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memPetStore) UpdateOwnedPet(_ context.Context, id, ownerID int64, patch model.PetPatch) (*model.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.pets[id]
	if !ok || !p.IsOwnedBy(ownerID) {
		return nil, repository.ErrPetNotFound
	}
	patch.Apply(p)
	copied := *p
	return &copied, nil
}

func (s *memPetStore) DeleteOwnedPet(_ context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	p, ok := s.pets[id]
	if !ok || !p.IsOwnedBy(ownerID) {
		return repository.ErrPetNotFound
	}
	delete(s.pets, id)
	return nil
}

func (s *memPetStore) get(id int64) (*model.Pet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pets[id]
	if !ok {
		return nil, false
	}
	copied := *p
	return &copied, true
}

// memUserCache is an in-memory UserCache.
type memUserCache struct {
	mu      sync.Mutex
	entries map[int64]model.UserSummary
	getErr  error
}

func newMemUserCache() *memUserCache {
	return &memUserCache{entries: make(map[int64]model.UserSummary)}
}

func (c *memUserCache) GetUser(_ context.Context, id int64) (*model.UserSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	u, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *memUserCache) SetUser(_ context.Context, user *model.UserSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[user.ID] = *user
	return nil
}

var errStoreDown = errors.New("store down")
