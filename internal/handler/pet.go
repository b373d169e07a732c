package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/petcommunity/petcommunity/internal/auth"
	"github.com/petcommunity/petcommunity/internal/handler/dto"
	"github.com/petcommunity/petcommunity/internal/model"
	"github.com/petcommunity/petcommunity/internal/service"
)

// PetService is the pet behaviour PetHandler needs.
type PetService interface {
	CreatePet(ctx context.Context, input service.CreatePetInput) (*model.Pet, error)
	ListPets(ctx context.Context, ownerID int64) ([]*model.Pet, error)
	UpdatePet(ctx context.Context, ownerID, petID int64, patch model.PetPatch) (*model.Pet, error)
	DeletePet(ctx context.Context, ownerID, petID int64) error
}

// PetHandlerOptions tune PetHandler behaviour.
type PetHandlerOptions struct {
	// EmptyListOK returns 200 [] instead of 404 when the caller has no pets.
	EmptyListOK bool
}

// PetHandler handles HTTP requests for the caller's pets.
// Every route is expected to sit behind middleware.Auth.
type PetHandler struct {
	svc    PetService
	logger *slog.Logger
	opts   PetHandlerOptions
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(svc PetService, logger *slog.Logger, opts PetHandlerOptions) *PetHandler {
	return &PetHandler{
		svc:    svc,
		logger: logger,
		opts:   opts,
	}
}

// List handles GET /pets.
func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	pets, err := h.svc.ListPets(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	if len(pets) == 0 && !h.opts.EmptyListOK {
		writeError(w, http.StatusNotFound, "PET_NOT_FOUND", "No pets found for this user")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPetListResponse(pets))
}

// Create handles POST /newpet.
func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req dto.CreatePetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	age, err := req.Validate()
	if err != nil {
		handleServiceError(w, r, h.logger, service.NewValidationError(err.Error()))
		return
	}

	pet, err := h.svc.CreatePet(r.Context(), service.CreatePetInput{
		OwnerID:     ownerID,
		Name:        *req.Name,
		Species:     *req.Species,
		Age:         age,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("pet_created", "pet_id", pet.ID, "owner_id", ownerID)

	writeJSON(w, http.StatusCreated, dto.Success("Pet created successfully!", dto.ToPetResponse(pet)))
}

// Update handles PUT /pets/{id}.
func (h *PetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	petID, ok := petIDParam(r)
	if !ok {
		handleServiceError(w, r, h.logger, service.ErrPetNotFound)
		return
	}

	var req dto.UpdatePetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		handleServiceError(w, r, h.logger, service.NewValidationError(err.Error()))
		return
	}

	pet, err := h.svc.UpdatePet(r.Context(), ownerID, petID, patch)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("pet_updated", "pet_id", pet.ID, "owner_id", ownerID)

	msg := fmt.Sprintf("Pet with ID %d has been updated", pet.ID)
	writeJSON(w, http.StatusOK, dto.Success(msg, dto.ToPetResponse(pet)))
}

// Delete handles DELETE /pets/{id}.
func (h *PetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	petID, ok := petIDParam(r)
	if !ok {
		handleServiceError(w, r, h.logger, service.ErrPetNotFound)
		return
	}

	if err := h.svc.DeletePet(r.Context(), ownerID, petID); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("pet_deleted", "pet_id", petID, "owner_id", ownerID)

	writeJSON(w, http.StatusOK, dto.Success(fmt.Sprintf("Pet with ID %d has been deleted", petID), nil))
}

// caller returns the authenticated user id or writes 401.
func (h *PetHandler) caller(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		handleServiceError(w, r, h.logger, service.ErrUnauthorized)
		return 0, false
	}
	return id, true
}

func petIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
