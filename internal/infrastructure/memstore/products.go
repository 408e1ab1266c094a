// Package memstore holds in-process implementations of the domain stores.
// They back the "memory" store driver and double as fakes in tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
)

// ProductStore is a mutex-guarded catalog kept in memory
type ProductStore struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	nextID   int64
	now      func() time.Time
}

// NewProductStore returns a store holding copies of seed.
// Seed rows without an id get one assigned.
func NewProductStore(seed ...domain.Product) *ProductStore {
	s := &ProductStore{
		products: make(map[int64]domain.Product, len(seed)),
		nextID:   1,
		now:      time.Now,
	}
	for _, p := range seed {
		if p.ID == 0 {
			p.ID = s.nextID
		}
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.products[p.ID] = p.Clone()
	}
	return s
}

// List returns products matching filter ordered by id
func (s *ProductStore) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(filter.Collections))
	for _, c := range filter.Collections {
		allowed[c] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if len(allowed) > 0 {
			if _, ok := allowed[p.Collection]; !ok {
				continue
			}
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns one product or domain.ErrProductNotFound
func (s *ProductStore) Get(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := p.Clone()
	return &clone, nil
}

// InsertMany stores products under fresh ids and returns how many were stored
func (s *ProductStore) InsertMany(ctx context.Context, products []domain.Product) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, p := range products {
		p = p.Clone()
		p.ID = s.nextID
		s.nextID++
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		s.products[p.ID] = p
	}
	return len(products), nil
}

// Update replaces the stored product with the same id, keeping its creation time
func (s *ProductStore) Update(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	product = product.Clone()
	product.CreatedAt = existing.CreatedAt
	s.products[product.ID] = product
	return nil
}

// Delete removes a product by id
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// Collections returns the distinct non-empty collection values, sorted
func (s *ProductStore) Collections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range s.products {
		if p.Collection != "" {
			seen[p.Collection] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// Len returns the number of stored products
func (s *ProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
