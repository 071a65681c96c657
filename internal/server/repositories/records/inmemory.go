package records

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avramovs/clientbook/internal/common"
	"github.com/avramovs/clientbook/internal/models"
)

// InMemoryRepository keeps the dataset in a map. Dev mode and handler
// tests run on it; semantics mirror the Postgres implementation.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*models.Record
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]*models.Record)}
}

func (r *InMemoryRepository) List(ctx context.Context, query string) ([]models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)

	var out []models.Record
	for _, rec := range r.records {
		if needle == "" || matches(rec, needle) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matches(rec *models.Record, needle string) bool {
	for _, field := range []string{rec.IBAN, rec.FullName, rec.City, rec.Email, rec.Phone} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, ownerID string, fields models.RecordFields) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	rec := &models.Record{
		ID:           uuid.NewString(),
		RecordFields: fields,
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.records[rec.ID] = rec

	cp := *rec
	return &cp, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id string, fields models.RecordFields) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	rec.RecordFields = fields
	rec.UpdatedAt = time.Now().UTC()

	cp := *rec
	return &cp, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.records, id)
	return nil
}
