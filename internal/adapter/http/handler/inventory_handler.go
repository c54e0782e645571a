package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gosales/internal/adapter/http/dto"
	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/usecase"
)

// InventoryService defines the behavior needed by InventoryHandler.
type InventoryService interface {
	CreateItem(ctx context.Context, input usecase.InventoryInput) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, id string, input usecase.InventoryInput) (*domain.InventoryItem, error)
	GetItem(ctx context.Context, id string) (*domain.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, input usecase.ListInput) ([]*domain.InventoryItem, error)
}

// InventoryHandler handles inventory HTTP requests.
type InventoryHandler struct {
	inventoryUC InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventoryUC InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryUC: inventoryUC}
}

// Create creates a new inventory item.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.InventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	item, err := h.inventoryUC.CreateItem(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create inventory item", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.InventoryFromDomain(item))
}

// Get retrieves an inventory item by ID.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventoryUC.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get inventory item", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InventoryFromDomain(item))
}

// Update edits an inventory item.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.InventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	item, err := h.inventoryUC.UpdateItem(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update inventory item", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InventoryFromDomain(item))
}

// Delete removes an inventory item.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.inventoryUC.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete inventory item", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists inventory items.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryUC.ListItems(r.Context(), parseListInput(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list inventory", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.InventoryResponse]{
		Items: dto.InventoryListFromDomain(items),
		Total: int64(len(items)),
	})
}
