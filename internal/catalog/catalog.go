// Package catalog serves catalog fetches: schema resolution, search, the aggregated
// availability query, row mapping and the picks annotation.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/decentraland/marketplace-server-sub001/internal/adapter"
	apierrors "github.com/decentraland/marketplace-server-sub001/internal/api/shared/errors"
	"github.com/decentraland/marketplace-server-sub001/internal/catalog/query"
	"github.com/decentraland/marketplace-server-sub001/internal/domain"
	"github.com/decentraland/marketplace-server-sub001/internal/logger"
	"github.com/decentraland/marketplace-server-sub001/internal/metrics"
	"github.com/decentraland/marketplace-server-sub001/internal/picks"
	"github.com/decentraland/marketplace-server-sub001/internal/registry"
	"github.com/decentraland/marketplace-server-sub001/internal/store"
	"github.com/decentraland/marketplace-server-sub001/internal/types"
)

// Config holds the catalog settings
type Config struct {
	// Networks queried when a fetch does not name any
	Networks []domain.Network
	// StoreMinters is the marketplace minter address of each network
	StoreMinters map[domain.Network]string
	// ChainIDs is the chain id stamped on items of each network
	ChainIDs map[domain.Network]int64
	// DefaultLimit is applied when a fetch has no limit; zero leaves it unbounded
	DefaultLimit int
	// MaxLimit caps the page size; zero disables the cap
	MaxLimit int
}

// Catalog fetches catalog pages
//
//go:generate mockgen -source=catalog.go -destination=../mocks/catalog.go -package=mocks -mock_names=Catalog=MockCatalog
type Catalog interface {
	// Fetch returns the page of items matching filters and the total number of matches
	Fetch(ctx context.Context, filters domain.CatalogFilters) (*domain.CatalogResult, error)
}

type catalog struct {
	cfg      Config
	store    store.Store
	resolver registry.SchemaResolver
	picks    picks.StatsProvider
	mapper   *Mapper
	metrics  *metrics.CatalogMetrics
	clock    adapter.Clock
}

// NewCatalog creates a catalog. picksProvider and m may be nil.
func NewCatalog(
	cfg Config,
	st store.Store,
	resolver registry.SchemaResolver,
	picksProvider picks.StatsProvider,
	m *metrics.CatalogMetrics,
	clock adapter.Clock,
) Catalog {
	return &catalog{
		cfg:      cfg,
		store:    st,
		resolver: resolver,
		picks:    picksProvider,
		mapper:   NewMapper(cfg.ChainIDs),
		metrics:  m,
		clock:    clock,
	}
}

// Fetch runs a catalog fetch.
// Errors returned are *apierrors.APIError; query failures are logged and never exposed.
func (c *catalog) Fetch(ctx context.Context, filters domain.CatalogFilters) (*domain.CatalogResult, error) {
	start := c.clock.Now()
	ctx = logger.WithFields(ctx, zap.String("fetch_id", uuid.NewString()))

	result, err := c.fetch(ctx, start, filters)

	status := metrics.ResultOK
	switch {
	case err != nil:
		status = metrics.ResultError
	case len(result.Data) == 0:
		status = metrics.ResultEmpty
	}
	c.metrics.ObserveFetch(status, c.clock.Since(start))

	return result, err
}

func (c *catalog) fetch(ctx context.Context, now time.Time, filters domain.CatalogFilters) (*domain.CatalogResult, error) {
	filters, err := c.normalize(filters)
	if err != nil {
		return nil, err
	}

	targets, err := c.resolveTargets(ctx, filters.Networks)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return &domain.CatalogResult{Data: []domain.Item{}}, nil
	}

	var (
		rows  []map[string]interface{}
		total int64
	)
	err = c.store.WithConnection(ctx, func(q store.Querier) error {
		if term := strings.TrimSpace(filters.Search); term != "" {
			ids, err := searchItemIDs(ctx, q, targets, term)
			if err != nil {
				return err
			}
			ids = restrictIDs(ids, filters.IDs)
			c.metrics.ObserveSearchCandidates(len(ids))
			if len(ids) == 0 {
				return nil
			}
			filters.IDs = ids
		}

		catalogQuery, err := query.BuildCatalogQuery(targets, filters, now)
		if err != nil {
			return err
		}
		rows, err = q.Query(ctx, catalogQuery.SQL, catalogQuery.Params)
		if err != nil {
			return fmt.Errorf("failed to query catalog: %w", err)
		}
		if len(rows) > 0 {
			total = types.Row(rows[0]).Int64(query.TotalRowsColumn)
			return nil
		}

		// An empty page past the end or of size zero carries no window count
		if !needsCount(filters) {
			return nil
		}
		countQuery, err := query.BuildCountQuery(targets, filters, now)
		if err != nil {
			return err
		}
		countRows, err := q.Query(ctx, countQuery.SQL, countQuery.Params)
		if err != nil {
			return fmt.Errorf("failed to count catalog: %w", err)
		}
		if len(countRows) > 0 {
			total = types.Row(countRows[0]).Int64(query.TotalRowsColumn)
		}
		return nil
	})
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.Strings("schemas", targetSchemas(targets)))
		return nil, apierrors.NewDatabaseError("Could not fetch catalog")
	}

	items, err := c.mapper.MapItems(rows)
	if err != nil {
		logger.ErrorCtx(ctx, err)
		return nil, apierrors.NewInternalError("Could not map catalog item").Wrap(err)
	}

	c.annotatePicks(ctx, items, filters.PickedBy)

	logger.DebugCtx(ctx, "catalog fetched",
		zap.Int("items", len(items)),
		zap.Int64("total", total))

	return &domain.CatalogResult{Data: items, Total: total}, nil
}

// normalize validates filters and applies the configured defaults
func (c *catalog) normalize(filters domain.CatalogFilters) (domain.CatalogFilters, error) {
	if err := filters.Validate(); err != nil {
		return filters, apierrors.NewBadRequestError("Invalid catalog filters", err.Error()).Wrap(err)
	}
	if filters.Limit != nil && *filters.Limit < 0 {
		return filters, apierrors.NewValidationError("limit must not be negative")
	}
	if filters.Offset != nil && *filters.Offset < 0 {
		return filters, apierrors.NewValidationError("offset must not be negative")
	}

	networks := filters.Networks
	if len(networks) == 0 {
		networks = c.cfg.Networks
	}
	filters.Networks = make([]domain.Network, 0, len(networks))
	seen := make(map[domain.Network]struct{}, len(networks))
	for _, n := range networks {
		network, ok := domain.ParseNetwork(string(n))
		if !ok {
			return filters, apierrors.NewBadRequestError("Invalid network", string(n))
		}
		if _, dup := seen[network]; dup {
			continue
		}
		seen[network] = struct{}{}
		filters.Networks = append(filters.Networks, network)
	}

	if filters.Limit == nil && c.cfg.DefaultLimit > 0 {
		filters.Limit = intPtr(c.cfg.DefaultLimit)
	}
	if filters.Limit != nil {
		if c.cfg.MaxLimit > 0 && *filters.Limit > c.cfg.MaxLimit {
			filters.Limit = intPtr(c.cfg.MaxLimit)
		}
		if filters.Offset == nil {
			filters.Offset = intPtr(0)
		}
	}

	return filters, nil
}

// resolveTargets maps networks to their active schemas.
// A missing schema is fatal only when it is the single requested network.
func (c *catalog) resolveTargets(ctx context.Context, networks []domain.Network) ([]query.Target, error) {
	schemas, err := c.resolver.ResolveLatestSchemas(ctx, networks)

	targets := make([]query.Target, 0, len(networks))
	var missing []string
	for _, network := range networks {
		schema, ok := schemas[network]
		if !ok {
			missing = append(missing, string(network))
			c.metrics.IncSchemaResolutionFailure(string(network))
			continue
		}
		targets = append(targets, query.Target{
			Network:     network,
			Schema:      schema,
			StoreMinter: c.cfg.StoreMinters[network],
		})
	}

	if err == nil {
		return targets, nil
	}
	if !onlySchemaNotFound(err) {
		logger.ErrorCtx(ctx, err, zap.Strings("networks", missing))
		return nil, apierrors.NewDatabaseError("Could not fetch catalog")
	}
	if len(networks) == 1 {
		return nil, apierrors.NewBadRequestError("Network is not available", missing...).Wrap(err)
	}

	logger.WarnCtx(ctx, "skipping networks without schema", zap.Strings("networks", missing))
	return targets, nil
}

// annotatePicks attaches picks stats to every item, or to none when the lookup fails
func (c *catalog) annotatePicks(ctx context.Context, items []domain.Item, pickedBy string) {
	if c.picks == nil || len(items) == 0 {
		return
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	stats, err := c.picks.GetPicksStats(ctx, ids, pickedBy)
	if err != nil {
		logger.WarnCtx(ctx, "failed to annotate catalog with picks", zap.Error(err))
		c.metrics.IncPicksFailure()
		return
	}

	for i := range items {
		s, ok := stats[items[i].ID]
		if !ok {
			s = domain.PicksStats{ItemID: items[i].ID}
		}
		items[i].Picks = &s
	}
}

// needsCount reports whether an empty page may still have matches
func needsCount(filters domain.CatalogFilters) bool {
	if filters.Limit != nil && *filters.Limit == 0 {
		return true
	}
	return filters.Offset != nil && *filters.Offset > 0
}

func onlySchemaNotFound(err error) bool {
	for _, e := range multierr.Errors(err) {
		if !errors.Is(e, domain.ErrSchemaNotFound) {
			return false
		}
	}
	return true
}

func targetSchemas(targets []query.Target) []string {
	schemas := make([]string, len(targets))
	for i, t := range targets {
		schemas[i] = t.Schema
	}
	return schemas
}

func intPtr(i int) *int {
	return &i
}
