package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/petcommunity/petcommunity/internal/metrics"
	"github.com/petcommunity/petcommunity/internal/model"
	"github.com/petcommunity/petcommunity/internal/repository"
)

// MaxAge is the largest age the store column can hold.
const MaxAge = math.MaxInt32

const maxNameLength = 100

// PetService handles pet business logic. Every operation is scoped to the
// calling owner.
type PetService struct {
	pets    PetStore
	metrics metrics.Recorder
}

// NewPetService creates a new PetService.
func NewPetService(pets PetStore, recorder metrics.Recorder) *PetService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PetService{
		pets:    pets,
		metrics: recorder,
	}
}

// CreatePetInput defines input for creating a pet.
type CreatePetInput struct {
	OwnerID     int64
	Name        string
	Species     string
	Age         int
	Description *string
}

// CreatePet registers a pet owned by input.OwnerID.
func (s *PetService) CreatePet(ctx context.Context, input CreatePetInput) (*model.Pet, error) {
	name, err := validateLabel("name", input.Name)
	if err != nil {
		return nil, err
	}
	species, err := validateLabel("species", input.Species)
	if err != nil {
		return nil, err
	}
	if err := validateAge(input.Age); err != nil {
		return nil, err
	}

	owner := input.OwnerID
	pet := &model.Pet{
		Name:        name,
		Species:     species,
		Age:         input.Age,
		Description: input.Description,
		OwnerID:     &owner,
	}

	if err := s.pets.CreatePet(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	s.metrics.IncPetCreated()
	return pet, nil
}

// ListPets returns the caller's pets, oldest first. The slice is never nil.
func (s *PetService) ListPets(ctx context.Context, ownerID int64) ([]*model.Pet, error) {
	pets, err := s.pets.ListPetsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	if pets == nil {
		pets = []*model.Pet{}
	}
	return pets, nil
}

// UpdatePet applies a partial update to a pet owned by ownerID.
func (s *PetService) UpdatePet(ctx context.Context, ownerID, petID int64, patch model.PetPatch) (*model.Pet, error) {
	if patch.Name != nil {
		name, err := validateLabel("name", *patch.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Species != nil {
		species, err := validateLabel("species", *patch.Species)
		if err != nil {
			return nil, err
		}
		patch.Species = &species
	}
	if patch.Age != nil {
		if err := validateAge(*patch.Age); err != nil {
			return nil, err
		}
	}

	pet, err := s.pets.UpdateOwnedPet(ctx, petID, ownerID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrPetNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("failed to update pet: %w", err)
	}

	s.metrics.IncPetUpdated()
	return pet, nil
}

// DeletePet removes a pet owned by ownerID.
func (s *PetService) DeletePet(ctx context.Context, ownerID, petID int64) error {
	if err := s.pets.DeleteOwnedPet(ctx, petID, ownerID); err != nil {
		if errors.Is(err, repository.ErrPetNotFound) {
			return ErrPetNotFound
		}
		return fmt.Errorf("failed to delete pet: %w", err)
	}

	s.metrics.IncPetDeleted()
	return nil
}

func validateLabel(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", NewValidationError(field + " is required")
	}
	if len([]rune(trimmed)) > maxNameLength {
		return "", NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, maxNameLength))
	}
	return trimmed, nil
}

func validateAge(age int) error {
	if age < 0 || age > MaxAge {
		return NewValidationError("age must be a non-negative integer")
	}
	return nil
}
