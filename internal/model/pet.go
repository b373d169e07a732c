package model

import "time"

// Pet is an animal registered by a user.
// OwnerID is a weak reference to users.id and is nil for orphaned pets.
type Pet struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Age         int       `json:"age"`
	Description *string   `json:"description"`
	OwnerID     *int64    `json:"owner_id,omitempty"`
	DateAdded   time.Time `json:"date_added"`
}

// IsOwnedBy reports whether the pet belongs to the given user.
func (p *Pet) IsOwnedBy(userID int64) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}

// PetPatch carries a partial update. Nil fields are left untouched.
// ClearDescription sets description to NULL and wins over Description.
type PetPatch struct {
	Name             *string
	Species          *string
	Age              *int
	Description      *string
	ClearDescription bool
}

// IsEmpty reports whether the patch changes nothing.
func (p PetPatch) IsEmpty() bool {
	return p.Name == nil && p.Species == nil && p.Age == nil && p.Description == nil && !p.ClearDescription
}

// Apply writes the patch onto the pet in place.
func (p PetPatch) Apply(pet *Pet) {
	if p.Name != nil {
		pet.Name = *p.Name
	}
	if p.Species != nil {
		pet.Species = *p.Species
	}
	if p.Age != nil {
		pet.Age = *p.Age
	}
	if p.ClearDescription {
		pet.Description = nil
	} else if p.Description != nil {
		desc := *p.Description
		pet.Description = &desc
	}
}
