package recommend

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"creatorMarket/domain"
	"creatorMarket/pkg/logger"
)

// Catalog is the read-only contract one candidate source must fulfil.
// Fetch returns candidates ordered by popularity descending; Get resolves
// a single entity (used by the real-time updater for category lookups).
type Catalog interface {
	EntityType() string
	Fetch(ctx context.Context, filter domain.CatalogFilter, limit int) ([]domain.Candidate, error)
	Get(ctx context.Context, id string) (domain.Candidate, error)
}

// providerSet fans out candidate fetching across the per-type catalogs.
// A failing catalog contributes an empty pool, never an error: the other
// types proceed (partial-result policy).
type providerSet struct {
	catalogs map[string]Catalog
	cfg      Config
}

func newProviderSet(catalogs []Catalog, cfg Config) *providerSet {
	byType := make(map[string]Catalog, len(catalogs))
	for _, c := range catalogs {
		byType[c.EntityType()] = c
	}
	return &providerSet{catalogs: byType, cfg: cfg}
}

// fetchAll loads one bounded candidate pool per requested type in parallel.
// Types without a registered catalog resolve to an empty pool. A non-nil
// exclude set drops those target IDs from every pool.
func (p *providerSet) fetchAll(
	ctx context.Context,
	types []string,
	exclude map[string]bool,
) map[string][]domain.Candidate {

	poolSize := p.cfg.PoolSize
	if poolSize > p.cfg.MaxPoolSize {
		poolSize = p.cfg.MaxPoolSize
	}

	var mu sync.Mutex
	pools := make(map[string][]domain.Candidate, len(types))

	eg, egCtx := errgroup.WithContext(ctx)

	for _, entityType := range types {
		catalog, ok := p.catalogs[entityType]
		if !ok {
			// same lock as the provider goroutines: they may already be
			// writing pools for earlier types
			mu.Lock()
			pools[entityType] = nil
			mu.Unlock()
			continue
		}

		eg.Go(func() error {
			candidates, err := catalog.Fetch(egCtx, domain.CatalogFilter{}, poolSize)
			if err != nil {
				// transient catalog error: skip this type, keep the others
				logger.Warn("candidate_provider_failed",
					"entity_type", entityType,
					"error", err,
				)
				ProviderFailuresTotal.WithLabelValues(entityType).Inc()
				candidates = nil
			}

			if len(exclude) > 0 {
				candidates = dropInteracted(candidates, exclude)
			}

			mu.Lock()
			pools[entityType] = candidates
			mu.Unlock()
			return nil
		})
	}

	_ = eg.Wait()
	return pools
}

// lookup resolves a single entity across catalogs.
func (p *providerSet) lookup(ctx context.Context, entityType, id string) (domain.Candidate, bool) {
	catalog, ok := p.catalogs[entityType]
	if !ok {
		return domain.Candidate{}, false
	}

	cand, err := catalog.Get(ctx, id)
	if err != nil {
		return domain.Candidate{}, false
	}
	return cand, true
}

func dropInteracted(candidates []domain.Candidate, interacted map[string]bool) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if interacted[c.ID] {
			continue
		}
		out = append(out, c)
	}
	return out
}
