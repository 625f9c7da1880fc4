// Package contracts lists the approved collection contracts of every configured network
package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/decentraland/marketplace-server-sub001/internal/cache"
	"github.com/decentraland/marketplace-server-sub001/internal/domain"
	"github.com/decentraland/marketplace-server-sub001/internal/logger"
	"github.com/decentraland/marketplace-server-sub001/internal/registry"
	"github.com/decentraland/marketplace-server-sub001/internal/store"
)

// DefaultCacheTTL is used when no TTL is configured
const DefaultCacheTTL = time.Hour

var cacheKey = cache.Key("contracts", "all")

// Lister lists collection contracts
//
//go:generate mockgen -source=contracts.go -destination=../mocks/contracts.go -package=mocks -mock_names=Lister=MockLister
type Lister interface {
	// GetAllCollectionContracts returns the approved collection contracts of every configured network
	GetAllCollectionContracts(ctx context.Context) ([]domain.CollectionContract, error)
}

type lister struct {
	networks []domain.Network
	store    store.Store
	resolver registry.SchemaResolver
	cache    cache.Cache
	ttl      time.Duration
}

// NewLister creates a Lister caching its result for ttl
func NewLister(networks []domain.Network, st store.Store, resolver registry.SchemaResolver, c cache.Cache, ttl time.Duration) Lister {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &lister{
		networks: networks,
		store:    st,
		resolver: resolver,
		cache:    c,
		ttl:      ttl,
	}
}

// GetAllCollectionContracts serves the cached list, refreshing it from the database on a miss.
// Networks without an active schema are skipped.
func (l *lister) GetAllCollectionContracts(ctx context.Context) ([]domain.CollectionContract, error) {
	cached, err := l.cache.Get(ctx, cacheKey)
	switch {
	case err == nil:
		var contracts []domain.CollectionContract
		if err := json.Unmarshal(cached, &contracts); err == nil {
			return contracts, nil
		}
		logger.WarnCtx(ctx, "discarding malformed contracts cache entry", zap.String("key", cacheKey))
	case !errors.Is(err, cache.ErrCacheMiss):
		logger.WarnCtx(ctx, "failed to read contracts cache", zap.Error(err))
	}

	contracts, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(contracts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contracts: %w", err)
	}
	if err := l.cache.Set(ctx, cacheKey, payload, l.ttl); err != nil {
		logger.WarnCtx(ctx, "failed to write contracts cache", zap.Error(err))
	}

	return contracts, nil
}

func (l *lister) load(ctx context.Context) ([]domain.CollectionContract, error) {
	schemas, err := l.resolver.ResolveLatestSchemas(ctx, l.networks)
	for _, e := range multierr.Errors(err) {
		if !errors.Is(e, domain.ErrSchemaNotFound) {
			return nil, fmt.Errorf("failed to resolve schemas: %w", err)
		}
	}
	if err != nil {
		logger.WarnCtx(ctx, "listing contracts without some networks", zap.Error(err))
	}

	contracts := []domain.CollectionContract{}
	for _, network := range l.networks {
		schemaName, ok := schemas[network]
		if !ok {
			continue
		}
		collections, err := l.store.GetApprovedCollections(ctx, schemaName)
		if err != nil {
			return nil, err
		}
		for _, c := range collections {
			contracts = append(contracts, domain.CollectionContract{
				Address: strings.ToLower(c.ID),
				Name:    c.Name,
				Creator: strings.ToLower(c.Creator),
				Network: network,
			})
		}
	}

	return contracts, nil
}
