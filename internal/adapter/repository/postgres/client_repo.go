package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/infrastructure/postgres/generated"
)

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	queries *generated.Queries
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return newClientRepository(pool)
}

func newClientRepository(db generated.DBTX) *ClientRepository {
	return &ClientRepository{queries: generated.New(db)}
}

// Create inserts a new client.
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return r.queries.CreateClient(ctx, generated.CreateClientParams{
		ID:           c.ID,
		BusinessName: c.BusinessName,
		TaxID:        c.TaxID,
		Phone:        c.Phone,
		Industry:     c.Industry,
		CreatedAt:    timeToPgTimestamptz(c.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(c.UpdatedAt),
	})
}

// Update overwrites a client.
func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	n, err := r.queries.UpdateClient(ctx, generated.UpdateClientParams{
		ID:           c.ID,
		BusinessName: c.BusinessName,
		TaxID:        c.TaxID,
		Phone:        c.Phone,
		Industry:     c.Industry,
		UpdatedAt:    timeToPgTimestamptz(c.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// Delete removes a client.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteClient(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	row, err := r.queries.GetClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return rowToClient(row), nil
}

// List lists clients ordered by business name.
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	rows, err := r.queries.ListClients(ctx, generated.ListClientsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	clients := make([]*domain.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, rowToClient(row))
	}
	return clients, nil
}

func rowToClient(row generated.Client) *domain.Client {
	return &domain.Client{
		ID:           row.ID,
		BusinessName: row.BusinessName,
		TaxID:        row.TaxID,
		Phone:        row.Phone,
		Industry:     row.Industry,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
