package memory

import (
	"context"
	"time"

	"mindforge-be/pkg/brainstorm/catalog"

	"github.com/patrickmn/go-cache"
)

const (
	rulesKey  = "catalog:rules"
	nichesKey = "catalog:niches"
)

// CatalogRepository caches parsed catalogs for a fixed TTL so edits to the
// catalog files show up without a restart.
type CatalogRepository struct {
	cache  *cache.Cache
	source catalog.Source
}

var _ catalog.Source = (*CatalogRepository)(nil)

func NewCatalogRepository(source catalog.Source, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		cache:  cache.New(ttl, 2*ttl),
		source: source,
	}
}

func (r *CatalogRepository) Rules(ctx context.Context) (*catalog.RuleBook, error) {
	if x, found := r.cache.Get(rulesKey); found {
		return x.(*catalog.RuleBook), nil
	}
	book, err := r.source.Rules(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(rulesKey, book, cache.DefaultExpiration)
	return book, nil
}

func (r *CatalogRepository) Niches(ctx context.Context) (*catalog.NicheBook, error) {
	if x, found := r.cache.Get(nichesKey); found {
		return x.(*catalog.NicheBook), nil
	}
	book, err := r.source.Niches(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(nichesKey, book, cache.DefaultExpiration)
	return book, nil
}

// Invalidate drops both cached catalogs.
func (r *CatalogRepository) Invalidate() {
	r.cache.Delete(rulesKey)
	r.cache.Delete(nichesKey)
}
