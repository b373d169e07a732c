package dto

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/petcommunity/petcommunity/internal/model"
)

// ErrMissingPetFields is returned when a create request lacks a required field.
var ErrMissingPetFields = errors.New("name, species and age are required")

// CreatePetRequest represents the request body for registering a pet.
type CreatePetRequest struct {
	Name        *string         `json:"name"`
	Species     *string         `json:"species"`
	Age         json.RawMessage `json:"age"`
	Description *string         `json:"description"`
}

// Validate checks presence of required fields and coerces age.
func (r CreatePetRequest) Validate() (int, error) {
	if r.Name == nil || r.Species == nil || isNull(r.Age) {
		return 0, ErrMissingPetFields
	}
	return ParseAge(r.Age)
}

// UpdatePetRequest holds the raw fields of a partial update.
// A key is present when its RawMessage is non-nil, even if it holds null.
type UpdatePetRequest struct {
	Name        json.RawMessage
	Species     json.RawMessage
	Age         json.RawMessage
	Description json.RawMessage
}

// UnmarshalJSON records which keys were sent. Unknown keys are ignored.
func (r *UpdatePetRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("update body must be a JSON object")
	}
	r.Name = fields["name"]
	r.Species = fields["species"]
	r.Age = fields["age"]
	r.Description = fields["description"]
	return nil
}

// FieldError names the update field that failed to decode.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

var errNotString = errors.New("must be a string")

// ToPatch converts the raw fields into a model.PetPatch.
// description: null clears the description; other fields may not be null.
func (r UpdatePetRequest) ToPatch() (model.PetPatch, error) {
	var patch model.PetPatch

	if r.Name != nil {
		s, err := decodeString(r.Name)
		if err != nil {
			return patch, &FieldError{Field: "name", Err: err}
		}
		patch.Name = &s
	}

	if r.Species != nil {
		s, err := decodeString(r.Species)
		if err != nil {
			return patch, &FieldError{Field: "species", Err: err}
		}
		patch.Species = &s
	}

	if r.Age != nil {
		age, err := ParseAge(r.Age)
		if err != nil {
			return patch, &FieldError{Field: "age", Err: err}
		}
		patch.Age = &age
	}

	if r.Description != nil {
		if isNull(r.Description) {
			patch.ClearDescription = true
		} else {
			s, err := decodeString(r.Description)
			if err != nil {
				return patch, &FieldError{Field: "description", Err: err}
			}
			patch.Description = &s
		}
	}

	return patch, nil
}

func decodeString(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", errNotString
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errNotString
	}
	return s, nil
}

// PetResponse represents a pet in API responses.
type PetResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Age         int       `json:"age"`
	Description *string   `json:"description"`
	OwnerID     *int64    `json:"owner_id"`
	DateAdded   time.Time `json:"date_added"`
}

// ToPetResponse converts a Pet model to PetResponse DTO.
func ToPetResponse(pet *model.Pet) PetResponse {
	return PetResponse{
		ID:          pet.ID,
		Name:        pet.Name,
		Species:     pet.Species,
		Age:         pet.Age,
		Description: pet.Description,
		OwnerID:     pet.OwnerID,
		DateAdded:   pet.DateAdded.UTC(),
	}
}

// ToPetListResponse converts pets to a bare response list. Never nil.
func ToPetListResponse(pets []*model.Pet) []PetResponse {
	out := make([]PetResponse, 0, len(pets))
	for _, p := range pets {
		out = append(out, ToPetResponse(p))
	}
	return out
}
