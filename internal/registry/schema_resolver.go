package registry

import (
	"context"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
	"github.com/decentraland/marketplace-server-sub001/internal/logger"
	"github.com/decentraland/marketplace-server-sub001/internal/store"
)

// DEFAULT_RESOLVER_CONCURRENCY bounds the number of concurrent schema lookups
const DEFAULT_RESOLVER_CONCURRENCY = 4

// SchemaResolver resolves the active ingestion schema of networks
//
//go:generate mockgen -source=schema_resolver.go -destination=../mocks/schema_resolver.go -package=mocks -mock_names=SchemaResolver=MockSchemaResolver
type SchemaResolver interface {
	// ResolveLatestSchemas returns the active schema of every network that could be resolved.
	// Failed lookups are combined in the returned error, which may accompany a partial map.
	ResolveLatestSchemas(ctx context.Context, networks []domain.Network) (map[domain.Network]string, error)

	// Close stops the lookup workers
	Close()
}

type schemaResolver struct {
	store store.Store
	pool  pond.Pool
}

// NewSchemaResolver creates a resolver reading from the schema registry.
// Results are never cached so a schema switch is visible on the next call.
func NewSchemaResolver(st store.Store, concurrency int) SchemaResolver {
	if concurrency <= 0 {
		concurrency = DEFAULT_RESOLVER_CONCURRENCY
	}
	return &schemaResolver{
		store: st,
		pool:  pond.NewPool(concurrency),
	}
}

// ResolveLatestSchemas looks every distinct network up concurrently
func (r *schemaResolver) ResolveLatestSchemas(ctx context.Context, networks []domain.Network) (map[domain.Network]string, error) {
	var (
		mu      sync.Mutex
		schemas = make(map[domain.Network]string, len(networks))
		errs    error
	)

	group := r.pool.NewGroup()
	seen := make(map[domain.Network]struct{}, len(networks))
	for _, network := range networks {
		if _, ok := seen[network]; ok {
			continue
		}
		seen[network] = struct{}{}

		group.Submit(func() {
			schema, err := r.store.GetLatestSchema(ctx, network)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, err)
				return
			}
			schemas[network] = schema
		})
	}

	if err := group.Wait(); err != nil {
		// only reachable when a lookup panics
		logger.ErrorCtx(ctx, err, zap.Any("networks", networks))
		errs = multierr.Append(errs, err)
	}

	return schemas, errs
}

// Close stops the lookup workers, waiting for in-flight lookups
func (r *schemaResolver) Close() {
	r.pool.StopAndWait()
}
