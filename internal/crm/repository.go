package crm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seventattoolv/vision-intake/internal/intake"
)

// Repository defines the interface for client and lead storage
type Repository interface {
	FindClientByEmail(ctx context.Context, email string) (*Client, error)
	CreateClient(ctx context.Context, client *Client) (*Client, error)
	CreateLead(ctx context.Context, lead *Lead) (*Lead, error)
}

// RecordIntake runs the lookup-or-create client step followed by the lead
// insert. Leads are always inserted; only clients are deduped by email.
func RecordIntake(ctx context.Context, repo Repository, rec *intake.Record) (*Lead, error) {
	client, err := repo.FindClientByEmail(ctx, rec.Email)
	if errors.Is(err, ErrClientNotFound) {
		client, err = repo.CreateClient(ctx, NewClientFromRecord(rec))
	}
	if err != nil {
		return nil, err
	}

	return repo.CreateLead(ctx, NewLeadFromRecord(rec, client.ID))
}

// InMemoryRepository is a stub implementation of Repository using in-memory
// storage, for tests and store-less deployments.
type InMemoryRepository struct {
	mu      sync.RWMutex
	clients map[string]*Client // keyed by lowercased email
	leads   map[string]*Lead
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		clients: make(map[string]*Client),
		leads:   make(map[string]*Lead),
	}
}

// FindClientByEmail looks up a client by email
func (r *InMemoryRepository) FindClientByEmail(ctx context.Context, email string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[strings.ToLower(email)]
	if !ok {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// CreateClient stores a new client
func (r *InMemoryRepository) CreateClient(ctx context.Context, client *Client) (*Client, error) {
	created := *client
	created.ID = uuid.New().String()
	created.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.clients[strings.ToLower(created.Email)] = &created
	r.mu.Unlock()

	return &created, nil
}

// CreateLead stores a new lead
func (r *InMemoryRepository) CreateLead(ctx context.Context, lead *Lead) (*Lead, error) {
	if lead.ClientID == "" {
		return nil, ErrMissingClientID
	}

	created := *lead
	created.ID = uuid.New().String()
	created.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.leads[created.ID] = &created
	r.mu.Unlock()

	return &created, nil
}

// LeadCount reports how many leads have been stored. Test helper.
func (r *InMemoryRepository) LeadCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}

// Leads returns a snapshot of stored leads. Test helper.
func (r *InMemoryRepository) Leads() []*Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		out = append(out, lead)
	}
	return out
}

var _ Repository = (*InMemoryRepository)(nil)
