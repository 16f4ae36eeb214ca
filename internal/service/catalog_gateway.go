package service

import (
	"context"
	"time"

	"survey-bot-be/internal/repository/specification"
	"survey-bot-be/internal/repository/unitofwork"
	"survey-bot-be/pkg/survey/flow"

	"github.com/patrickmn/go-cache"
)

const (
	catalogCacheTTL     = 5 * time.Minute
	cacheKeySegments    = "catalog:segments"
	cacheKeyCategories  = "catalog:categories"
	cacheKeyDesignators = "catalog:designators:"
)

// catalogGateway serves reference data from the relational catalog with a
// short read-through cache on the list lookups. Designator value lookups are
// never cached: finalize prices the report from them and must see fresh data.
type catalogGateway struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.Cache
}

func NewCatalogGateway(uowFactory unitofwork.RepositoryFactory) flow.CatalogGateway {
	return &catalogGateway{
		uowFactory: uowFactory,
		cache:      cache.New(catalogCacheTTL, 10*time.Minute),
	}
}

func (g *catalogGateway) ListSegments(ctx context.Context) ([]string, error) {
	if x, found := g.cache.Get(cacheKeySegments); found {
		return x.([]string), nil
	}

	uow := g.uowFactory.NewUnitOfWork(ctx)
	segments, err := uow.SegmentRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(segments))
	for _, s := range segments {
		names = append(names, s.Name)
	}
	g.cache.Set(cacheKeySegments, names, cache.DefaultExpiration)
	return names, nil
}

// ListCategories ignores the segment argument: the catalog's categories are
// global, segments only partition where the work happened.
func (g *catalogGateway) ListCategories(ctx context.Context, segment string) ([]string, error) {
	if x, found := g.cache.Get(cacheKeyCategories); found {
		return x.([]string), nil
	}

	uow := g.uowFactory.NewUnitOfWork(ctx)
	categories, err := uow.DesignatorRepository().ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	g.cache.Set(cacheKeyCategories, categories, cache.DefaultExpiration)
	return categories, nil
}

func (g *catalogGateway) ListDesignators(ctx context.Context, category string) ([]string, error) {
	cacheKey := cacheKeyDesignators + category
	if x, found := g.cache.Get(cacheKey); found {
		return x.([]string), nil
	}

	uow := g.uowFactory.NewUnitOfWork(ctx)
	designators, err := uow.DesignatorRepository().FindAll(ctx,
		specification.ByCategory{Category: category},
		specification.OrderBy{Field: "code"},
	)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(designators))
	for _, d := range designators {
		codes = append(codes, d.Code)
	}
	g.cache.Set(cacheKey, codes, cache.DefaultExpiration)
	return codes, nil
}

func (g *catalogGateway) GetDesignator(ctx context.Context, code string) (*flow.DesignatorInfo, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	d, err := uow.DesignatorRepository().FindOne(ctx, specification.ByCode{Code: code})
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return &flow.DesignatorInfo{
		Code:          d.Code,
		Category:      d.Category,
		Description:   d.Description,
		Unit:          d.Unit,
		MaterialValue: d.MaterialValue,
		ServiceValue:  d.ServiceValue,
	}, nil
}
