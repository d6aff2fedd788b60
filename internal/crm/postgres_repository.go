package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores clients and leads in the relational database.
type PostgresRepository struct {
	pool querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("crm: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q querier) *PostgresRepository {
	if q == nil {
		panic("crm: querier required")
	}
	return &PostgresRepository{pool: q}
}

// FindClientByEmail looks up a client by email (case-insensitive).
func (r *PostgresRepository) FindClientByEmail(ctx context.Context, email string) (*Client, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, lead_source, created_at
		FROM clients
		WHERE lower(email) = lower($1)
	`
	var c Client
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.LeadSource,
		&c.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("crm: select client failed: %w", err)
	}
	return &c, nil
}

// CreateClient inserts a new client row.
func (r *PostgresRepository) CreateClient(ctx context.Context, client *Client) (*Client, error) {
	id := uuid.New()
	query := `
		INSERT INTO clients (id, first_name, last_name, email, phone, lead_source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.LeadSource,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("crm: insert client failed: %w", err)
	}

	created := *client
	created.ID = id.String()
	created.CreatedAt = createdAt
	return &created, nil
}

// CreateLead inserts a new lead row referencing its client.
func (r *PostgresRepository) CreateLead(ctx context.Context, lead *Lead) (*Lead, error) {
	if lead.ClientID == "" {
		return nil, ErrMissingClientID
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, client_id, placement, scale, vision, meaning,
			artist_preference, source_link, status, note, notify_variant)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		lead.ClientID,
		lead.Placement,
		lead.Scale,
		lead.Vision,
		lead.Meaning,
		lead.ArtistPreference,
		lead.SourceLink,
		lead.Status,
		lead.Note,
		lead.NotifyVariant,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("crm: insert lead failed: %w", err)
	}

	created := *lead
	created.ID = id.String()
	created.CreatedAt = createdAt
	return &created, nil
}

var _ Repository = (*PostgresRepository)(nil)
