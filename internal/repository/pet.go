package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/petcommunity/petcommunity/internal/model"
)

// ErrPetNotFound is returned when no pet matches both the ID and the owner.
// Absence and foreign ownership are deliberately reported the same way.
var ErrPetNotFound = errors.New("pet not found")

const petColumns = `id, name, species, age, description, owner_id, date_added`

// CreatePet inserts a new pet and sets its generated ID and date_added.
func (r *Repository) CreatePet(ctx context.Context, pet *model.Pet) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO pets (name, species, age, description, owner_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, date_added
		`

		err := tx.QueryRow(ctx, query,
			pet.Name,
			pet.Species,
			pet.Age,
			pet.Description,
			pet.OwnerID,
		).Scan(&pet.ID, &pet.DateAdded)

		if err != nil {
			return fmt.Errorf("failed to create pet: %w", err)
		}
		return nil
	})
}

// ListPetsByOwner retrieves every pet owned by a user, oldest first.
func (r *Repository) ListPetsByOwner(ctx context.Context, ownerID int64) ([]*model.Pet, error) {
	query := `
		SELECT ` + petColumns + `
		FROM pets
		WHERE owner_id = $1
		ORDER BY date_added ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	defer rows.Close()

	pets := make([]*model.Pet, 0)
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pet: %w", err)
		}
		pets = append(pets, pet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pets: %w", err)
	}

	return pets, nil
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// getOwnedPet reads a pet by ID only if it belongs to ownerID. With
// forUpdate the row stays locked until q's transaction ends.
func getOwnedPet(ctx context.Context, q rowQuerier, id, ownerID int64, forUpdate bool) (*model.Pet, error) {
	query := `
		SELECT ` + petColumns + `
		FROM pets
		WHERE id = $1 AND owner_id = $2
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	pet, err := scanPet(q.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return pet, nil
}

// UpdateOwnedPet applies a partial update to a pet owned by ownerID.
// The row is locked for the duration of the transaction.
func (r *Repository) UpdateOwnedPet(ctx context.Context, id, ownerID int64, patch model.PetPatch) (*model.Pet, error) {
	var updated *model.Pet

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		pet, err := getOwnedPet(ctx, tx, id, ownerID, true)
		if err != nil {
			return err
		}

		patch.Apply(pet)

		if patch.IsEmpty() {
			updated = pet
			return nil
		}

		_, err = tx.Exec(ctx, `
			UPDATE pets
			SET name = $2, species = $3, age = $4, description = $5
			WHERE id = $1
		`,
			pet.ID,
			pet.Name,
			pet.Species,
			pet.Age,
			pet.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to update pet: %w", err)
		}

		updated = pet
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteOwnedPet removes a pet owned by ownerID.
func (r *Repository) DeleteOwnedPet(ctx context.Context, id, ownerID int64) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			DELETE FROM pets
			WHERE id = $1 AND owner_id = $2
		`, id, ownerID)
		if err != nil {
			return fmt.Errorf("failed to delete pet: %w", err)
		}

		if result.RowsAffected() == 0 {
			return ErrPetNotFound
		}
		return nil
	})
}

// scanPet scans a single row into a Pet model.
func scanPet(row pgx.Row) (*model.Pet, error) {
	var pet model.Pet
	if err := row.Scan(
		&pet.ID,
		&pet.Name,
		&pet.Species,
		&pet.Age,
		&pet.Description,
		&pet.OwnerID,
		&pet.DateAdded,
	); err != nil {
		return nil, err
	}
	return &pet, nil
}
