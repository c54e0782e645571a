package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/gosales/internal/domain"
)

// ClientUseCase handles client business logic.
type ClientUseCase struct {
	clientRepo ClientRepository
	idGen      IDGenerator
}

// NewClientUseCase creates a new ClientUseCase.
func NewClientUseCase(clientRepo ClientRepository, idGen IDGenerator) *ClientUseCase {
	return &ClientUseCase{
		clientRepo: clientRepo,
		idGen:      idGen,
	}
}

// ClientInput represents input for creating or updating a client.
type ClientInput struct {
	BusinessName string
	TaxID        string
	Phone        string
	Industry     string
}

// CreateClient creates a new client.
func (uc *ClientUseCase) CreateClient(ctx context.Context, input ClientInput) (*domain.Client, error) {
	now := time.Now().UTC()

	client := &domain.Client{
		ID:        uc.idGen.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.apply(client)

	if err := domain.ValidateClient(client); err != nil {
		return nil, err
	}

	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// UpdateClient replaces the editable fields of a client.
func (uc *ClientUseCase) UpdateClient(ctx context.Context, id string, input ClientInput) (*domain.Client, error) {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input.apply(client)
	client.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateClient(client); err != nil {
		return nil, err
	}

	if err := uc.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// GetClient retrieves a client by ID.
func (uc *ClientUseCase) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return uc.clientRepo.GetByID(ctx, id)
}

// DeleteClient removes a client.
func (uc *ClientUseCase) DeleteClient(ctx context.Context, id string) error {
	return uc.clientRepo.Delete(ctx, id)
}

// ListInput represents pagination input for list operations.
type ListInput struct {
	Limit  int
	Offset int
}

// ListClients lists clients with pagination.
func (uc *ClientUseCase) ListClients(ctx context.Context, input ListInput) ([]*domain.Client, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.clientRepo.List(ctx, limit, offset)
}

func (in ClientInput) apply(c *domain.Client) {
	c.BusinessName = strings.TrimSpace(in.BusinessName)
	c.TaxID = strings.TrimSpace(in.TaxID)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Industry = strings.TrimSpace(in.Industry)
}
