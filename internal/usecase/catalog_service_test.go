package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
	"github.com/aggarwalComputronix/website/internal/infrastructure/cache"
	"github.com/aggarwalComputronix/website/internal/infrastructure/memstore"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCacheRepository is a map-backed domain.CacheRepository
type mockCacheRepository struct {
	mu   sync.Mutex
	data map[string]interface{}
}

func newMockCacheRepository() *mockCacheRepository {
	return &mockCacheRepository{data: make(map[string]interface{})}
}

func (m *mockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockCacheRepository) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]interface{})
}

// countingStore records the filters the catalog asks the store for
type countingStore struct {
	*memstore.ProductStore
	mu      sync.Mutex
	filters []domain.ProductFilter
	listErr error
}

func (s *countingStore) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.mu.Lock()
	s.filters = append(s.filters, filter)
	s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.ProductStore.List(ctx, filter)
}

func (s *countingStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.filters)
}

func testCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Dell XPS 13", Brand: "Dell", Collection: "Laptops", Type: domain.ProductTypeOriginal},
		{ID: 2, Name: "HP 510 4-Cell Battery", Brand: "HP", SKU: "HP510-4C", Collection: "Batteries", Type: domain.ProductTypeCompatible},
		{ID: 3, Name: "HP 511 Battery", Brand: "HP", Collection: "Laptop Battery", Type: domain.ProductTypeOriginal},
		{ID: 4, Name: "Dell Universal Dock", Brand: "Dell", Collection: "DockingStation", Type: domain.ProductTypeOriginal},
		{ID: 5, Name: "Dell 65W Adapter", Brand: "Dell", SKU: "65-W", Collection: "Adapter", Type: domain.ProductTypeCompatible},
		{ID: 6, Name: "Lenovo Battery", Brand: "Lenovo", Collection: "Battery", Type: domain.ProductTypeCompatible,
			Options: []domain.ProductOption{{Name: "Capacity", Description: "4400mAh"}}},
	}
}

func newTestCatalogService(t *testing.T, config CatalogServiceConfig) (*CatalogService, *countingStore, *mockCacheRepository) {
	t.Helper()
	store := &countingStore{ProductStore: memstore.NewProductStore(testCatalog()...)}
	cache := newMockCacheRepository()
	return NewCatalogService(store, cache, nil, config, nil), store, cache
}

func TestCatalogService_Search(t *testing.T) {
	svc, _, _ := newTestCatalogService(t, CatalogServiceConfig{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.SearchRequest
		want []int64
	}{
		{name: "everything", req: domain.SearchRequest{}, want: []int64{1, 2, 3, 4, 5, 6}},
		{name: "category resolves aliases", req: domain.SearchRequest{Category: "Batteries"}, want: []int64{2, 3, 6}},
		{name: "category then text", req: domain.SearchRequest{Category: "Batteries", Query: "hp 510"}, want: []int64{2}},
		{name: "conjunctive terms", req: domain.SearchRequest{Query: "hp 511"}, want: []int64{3}},
		{name: "category with unspaced variant", req: domain.SearchRequest{Category: "Docking Station"}, want: []int64{4}},
		{name: "unknown category is literal", req: domain.SearchRequest{Category: "Laptops", Query: "dell"}, want: []int64{1}},
		{name: "category and type", req: domain.SearchRequest{Category: "Batteries", Type: domain.ProductTypeCompatible}, want: []int64{2, 6}},
		{name: "separator independent", req: domain.SearchRequest{Query: "65w dell"}, want: []int64{5}},
		{name: "option descriptions searched", req: domain.SearchRequest{Query: "4400 mah"}, want: []int64{6}},
		{name: "no match", req: domain.SearchRequest{Query: "dell hp"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got.Items))
			assert.Equal(t, len(tt.want), got.Total)
		})
	}
}

func TestCatalogService_SearchPagination(t *testing.T) {
	svc, _, _ := newTestCatalogService(t, CatalogServiceConfig{DefaultPageSize: 2, MaxPageSize: 3})
	ctx := context.Background()

	got, err := svc.Search(ctx, domain.SearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 6, got.Total)
	assert.Equal(t, 2, got.Limit)
	assert.Equal(t, []int64{1, 2}, ids(got.Items))

	got, err = svc.Search(ctx, domain.SearchRequest{Limit: 50, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Limit)
	assert.Equal(t, []int64{3, 4, 5}, ids(got.Items))

	got, err = svc.Search(ctx, domain.SearchRequest{Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
	assert.Equal(t, 6, got.Total)
}

func TestCatalogService_SearchInvalid(t *testing.T) {
	svc, _, _ := newTestCatalogService(t, CatalogServiceConfig{})
	ctx := context.Background()

	for _, req := range []domain.SearchRequest{
		{Limit: -1},
		{Offset: -5},
		{Type: "refurbished"},
	} {
		_, err := svc.Search(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	}
}

func TestCatalogService_CachesPerFilter(t *testing.T) {
	svc, store, _ := newTestCatalogService(t, CatalogServiceConfig{})
	ctx := context.Background()

	_, err := svc.Search(ctx, domain.SearchRequest{Category: "Batteries", Query: "hp"})
	require.NoError(t, err)
	_, err = svc.Search(ctx, domain.SearchRequest{Category: "Batteries", Query: "lenovo"})
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls(), "same category should be served from cache")

	_, err = svc.Search(ctx, domain.SearchRequest{Category: "Adapters"})
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls())

	want := domain.ProductFilter{Collections: DefaultAliasTable().Resolve("Batteries")}
	if diff := cmp.Diff(want, store.filters[0]); diff != "" {
		t.Errorf("store filter mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogService_WritesInvalidateCache(t *testing.T) {
	svc, store, cache := newTestCatalogService(t, CatalogServiceConfig{})
	ctx := context.Background()

	_, err := svc.Search(ctx, domain.SearchRequest{})
	require.NoError(t, err)
	require.Len(t, cache.data, 1)

	p, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	p.Name = "Dell XPS 15"
	require.NoError(t, svc.Update(ctx, *p))
	assert.Empty(t, cache.data)

	got, err := svc.Search(ctx, domain.SearchRequest{Query: "xps 15"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(got.Items))
	assert.Equal(t, 2, store.calls())

	require.NoError(t, svc.Delete(ctx, 1))
	got, err = svc.Search(ctx, domain.SearchRequest{Query: "xps"})
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestCatalogService_WriteValidation(t *testing.T) {
	svc, _, _ := newTestCatalogService(t, CatalogServiceConfig{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.Update(ctx, domain.Product{ID: 0, Name: "x"}), domain.ErrInvalidRequest)
	assert.ErrorIs(t, svc.Update(ctx, domain.Product{ID: 1, Name: "  "}), domain.ErrInvalidRequest)
	assert.ErrorIs(t, svc.Update(ctx, domain.Product{ID: 99, Name: "Ghost"}), domain.ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, -1), domain.ErrInvalidRequest)
	assert.ErrorIs(t, svc.Delete(ctx, 99), domain.ErrProductNotFound)

	_, err := svc.Get(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_ResultsDoNotAliasCache(t *testing.T) {
	svc, _, _ := newTestCatalogService(t, CatalogServiceConfig{})
	ctx := context.Background()

	first, err := svc.Search(ctx, domain.SearchRequest{Query: "lenovo"})
	require.NoError(t, err)
	first.Items[0].Options[0].Description = "mutated"

	second, err := svc.Search(ctx, domain.SearchRequest{Query: "lenovo"})
	require.NoError(t, err)
	assert.Equal(t, "4400mAh", second.Items[0].Options[0].Description)
}

func TestCatalogService_StoreError(t *testing.T) {
	store := &countingStore{ProductStore: memstore.NewProductStore(), listErr: domain.ErrStoreFailure}
	svc := NewCatalogService(store, newMockCacheRepository(), nil, CatalogServiceConfig{}, nil)

	_, err := svc.Search(context.Background(), domain.SearchRequest{Query: "dell"})
	assert.True(t, errors.Is(err, domain.ErrStoreFailure))
}

func TestCatalogService_AdminSearch(t *testing.T) {
	svc, _, _ := newTestCatalogService(t, CatalogServiceConfig{AdminPageSize: 2})

	got, err := svc.AdminSearch(context.Background(), "battery")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, []int64{2, 3}, ids(got.Items))

	got, err = svc.AdminSearch(context.Background(), "hp510")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(got.Items))
}

func TestCatalogService_CategoriesAndCollections(t *testing.T) {
	svc, _, _ := newTestCatalogService(t, CatalogServiceConfig{})

	assert.Equal(t, DefaultAliasTable().Labels(), svc.Categories())

	collections, err := svc.Collections(context.Background())
	require.NoError(t, err)
	assert.Contains(t, collections, "DockingStation")
}

func TestCacheKey(t *testing.T) {
	a := cacheKey(domain.ProductFilter{Collections: []string{"Battery", "Batteries"}, Type: "original"})
	b := cacheKey(domain.ProductFilter{Collections: []string{"Batteries", "Battery"}, Type: "original"})
	assert.Equal(t, a, b)
	assert.Equal(t, `catalog:"original":["Batteries","Battery"]`, a)
	assert.Equal(t, `catalog:"":[]`, cacheKey(domain.ProductFilter{}))

	joined := cacheKey(domain.ProductFilter{Collections: []string{"Batteries|Battery"}})
	split := cacheKey(domain.ProductFilter{Collections: []string{"Batteries", "Battery"}})
	assert.NotEqual(t, joined, split)

	withComma := cacheKey(domain.ProductFilter{Collections: []string{`Batteries","Battery`}})
	assert.NotEqual(t, withComma, split)
}

func TestCatalogService_UnknownCategoryDoesNotShadowAliasSet(t *testing.T) {
	store := memstore.NewProductStore(domain.Product{ID: 1, Name: "Lenovo Battery", Collection: "Battery"})
	memCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { memCache.Close() })
	svc := NewCatalogService(store, memCache, nil, CatalogServiceConfig{CacheTTL: time.Minute}, nil)
	ctx := context.Background()

	variants := DefaultAliasTable().Resolve("Batteries")
	sort.Strings(variants)
	crafted := strings.Join(variants, "|")

	result, err := svc.Search(ctx, domain.SearchRequest{Category: crafted})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)

	result, err = svc.Search(ctx, domain.SearchRequest{Category: "Batteries"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "Lenovo Battery", result.Items[0].Name)
}
