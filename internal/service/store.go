package service

import (
	"context"

	"github.com/petcommunity/petcommunity/internal/model"
)

// UserStore persists users. *repository.Repository implements it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// PetStore persists pets. Every lookup is scoped to an owner.
type PetStore interface {
	CreatePet(ctx context.Context, pet *model.Pet) error
	ListPetsByOwner(ctx context.Context, ownerID int64) ([]*model.Pet, error)
	UpdateOwnedPet(ctx context.Context, id, ownerID int64, patch model.PetPatch) (*model.Pet, error)
	DeleteOwnedPet(ctx context.Context, id, ownerID int64) error
}

// UserCache is an optional read-through cache for public profiles.
// GetUser returns nil, nil on a miss.
type UserCache interface {
	GetUser(ctx context.Context, id int64) (*model.UserSummary, error)
	SetUser(ctx context.Context, user *model.UserSummary) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenManager issues and verifies bearer tokens.
type TokenManager interface {
	Issue(userID int64) (string, error)
	Verify(token string) (userID int64, tokenID string, err error)
}
