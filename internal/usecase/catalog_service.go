package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
	"go.uber.org/zap"
)

// CatalogServiceConfig holds paging and caching settings for the catalog
type CatalogServiceConfig struct {
	CacheTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
	AdminPageSize   int
}

// CatalogService answers storefront and admin catalog queries.
// Flow: resolve category aliases -> store (cached per filter) -> text match -> paginate
type CatalogService struct {
	store   domain.ProductStore
	cache   domain.CacheRepository
	aliases *AliasTable
	config  CatalogServiceConfig
	logger  *zap.Logger
}

// NewCatalogService creates a catalog service. A nil alias table uses the built-in one.
func NewCatalogService(
	store domain.ProductStore,
	cache domain.CacheRepository,
	aliases *AliasTable,
	config CatalogServiceConfig,
	logger *zap.Logger,
) *CatalogService {
	if aliases == nil {
		aliases = DefaultAliasTable()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 5 * time.Minute
	}
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = 24
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = 100
	}
	if config.AdminPageSize <= 0 {
		config.AdminPageSize = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CatalogService{
		store:   store,
		cache:   cache,
		aliases: aliases,
		config:  config,
		logger:  logger,
	}
}

// Search returns one page of products in the requested category whose text matches every query term
func (s *CatalogService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	if req.Limit < 0 || req.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrInvalidRequest)
	}
	switch req.Type {
	case "", domain.ProductTypeOriginal, domain.ProductTypeCompatible:
	default:
		return nil, fmt.Errorf("%w: unknown product type %q", domain.ErrInvalidRequest, req.Type)
	}

	filter := domain.ProductFilter{Type: req.Type}
	if category := strings.TrimSpace(req.Category); category != "" {
		filter.Collections = s.aliases.Resolve(category)
	}

	candidates, err := s.candidates(ctx, filter)
	if err != nil {
		return nil, err
	}
	matched := FilterProducts(req.Query, candidates)

	limit := req.Limit
	if limit == 0 {
		limit = s.config.DefaultPageSize
	}
	if limit > s.config.MaxPageSize {
		limit = s.config.MaxPageSize
	}

	return &domain.SearchResult{
		Total:  len(matched),
		Limit:  limit,
		Offset: req.Offset,
		Items:  page(matched, req.Offset, limit),
	}, nil
}

// AdminSearch matches the whole catalog and returns the first admin page plus the total
func (s *CatalogService) AdminSearch(ctx context.Context, query string) (*domain.SearchResult, error) {
	all, err := s.candidates(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, err
	}
	matched := FilterProducts(query, all)

	return &domain.SearchResult{
		Total: len(matched),
		Limit: s.config.AdminPageSize,
		Items: page(matched, 0, s.config.AdminPageSize),
	}, nil
}

// Get returns one product by id
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", domain.ErrInvalidRequest)
	}
	return s.store.Get(ctx, id)
}

// Categories returns the canonical category labels in storefront order
func (s *CatalogService) Categories() []string {
	return s.aliases.Labels()
}

// Collections returns the raw collection values present in the store
func (s *CatalogService) Collections(ctx context.Context) ([]string, error) {
	return s.store.Collections(ctx)
}

// Update replaces a product and drops cached listings
func (s *CatalogService) Update(ctx context.Context, p domain.Product) error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: product id must be positive", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrInvalidRequest)
	}
	if err := s.store.Update(ctx, p); err != nil {
		return err
	}
	s.Invalidate()
	s.logger.Info("product updated", zap.Int64("id", p.ID))
	return nil
}

// Delete removes a product and drops cached listings
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: product id must be positive", domain.ErrInvalidRequest)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.Invalidate()
	s.logger.Info("product deleted", zap.Int64("id", id))
	return nil
}

// Invalidate forgets every cached listing
func (s *CatalogService) Invalidate() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// candidates returns the store rows for filter, served from cache when possible.
// Cached slices are shared and must not be mutated.
func (s *CatalogService) candidates(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	key := cacheKey(filter)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			if products, ok := cached.([]domain.Product); ok {
				s.logger.Debug("catalog cache hit", zap.String("key", key))
				return products, nil
			}
		}
	}

	products, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.Error("catalog store list failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, products, s.config.CacheTTL); err != nil {
			s.logger.Warn("catalog cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return products, nil
}

// cacheKey is stable for equal filters regardless of collection order.
// Every value is quoted so a collection containing the separator cannot
// collide with a set of collections.
// Format: catalog:"{type}":["{collection}","{collection}"...]
func cacheKey(filter domain.ProductFilter) string {
	collections := append([]string(nil), filter.Collections...)
	sort.Strings(collections)
	for i, c := range collections {
		collections[i] = strconv.Quote(c)
	}
	return fmt.Sprintf("catalog:%s:[%s]", strconv.Quote(filter.Type), strings.Join(collections, ","))
}

// page returns copies of products[offset:offset+limit]; never nil
func page(products []domain.Product, offset, limit int) []domain.Product {
	if offset >= len(products) {
		return []domain.Product{}
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}
	out := make([]domain.Product, 0, end-offset)
	for _, p := range products[offset:end] {
		out = append(out, p.Clone())
	}
	return out
}
