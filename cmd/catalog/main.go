package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/decentraland/marketplace-server-sub001/internal/adapter"
	apierrors "github.com/decentraland/marketplace-server-sub001/internal/api/shared/errors"
	"github.com/decentraland/marketplace-server-sub001/internal/cache"
	"github.com/decentraland/marketplace-server-sub001/internal/catalog"
	"github.com/decentraland/marketplace-server-sub001/internal/config"
	"github.com/decentraland/marketplace-server-sub001/internal/contracts"
	"github.com/decentraland/marketplace-server-sub001/internal/domain"
	"github.com/decentraland/marketplace-server-sub001/internal/logger"
	"github.com/decentraland/marketplace-server-sub001/internal/metrics"
	"github.com/decentraland/marketplace-server-sub001/internal/picks"
	"github.com/decentraland/marketplace-server-sub001/internal/registry"
	"github.com/decentraland/marketplace-server-sub001/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	listOnly   = flag.Bool("contracts", false, "List approved collection contracts instead of fetching the catalog")

	networks          = flag.String("networks", "", "Comma separated networks (ETHEREUM,POLYGON)")
	category          = flag.String("category", "", "Item category (wearable, emote)")
	wearableCategory  = flag.String("wearable-category", "", "Wearable category")
	emoteCategory     = flag.String("emote-category", "", "Emote category")
	genders           = flag.String("genders", "", "Comma separated wearable genders (male, female)")
	playModes         = flag.String("play-modes", "", "Comma separated emote play modes (simple, loop)")
	rarities          = flag.String("rarities", "", "Comma separated rarities")
	contractAddresses = flag.String("contract-addresses", "", "Comma separated collection addresses")
	ids               = flag.String("ids", "", "Comma separated item ids")
	creators          = flag.String("creators", "", "Comma separated creator addresses")
	minPrice          = flag.String("min-price", "", "Minimum price in wei")
	maxPrice          = flag.String("max-price", "", "Maximum price in wei")
	onSale            = flag.String("on-sale", "", "Only items on sale (true) or not on sale (false)")
	onlyListing       = flag.Bool("only-listing", false, "Only items sold through listings")
	onlyMinting       = flag.Bool("only-minting", false, "Only items sold through minting")
	soldOut           = flag.Bool("sold-out", false, "Only sold out items")
	smart             = flag.Bool("smart", false, "Only smart wearables")
	head              = flag.Bool("head", false, "Only head wearables")
	accessory         = flag.Bool("accessory", false, "Only accessory wearables")
	search            = flag.String("search", "", "Name search term")
	sortBy            = flag.String("sort", "", "Sort (newest, cheapest, most_expensive, recently_listed, recently_sold)")
	sortDirection     = flag.String("direction", "", "Sort direction (asc, desc)")
	limit             = flag.Int("limit", -1, "Page size, negative for the configured default")
	offset            = flag.Int("offset", 0, "Page offset")
	pickedBy          = flag.String("picked-by", "", "Address whose picks are flagged")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadCatalogConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	settings, err := cfg.Catalog.NetworkSettings()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "catalog",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	filters, err := parseFilters()
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("component", "flags"))
		return 2
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if cfg.Database.ReadHost != "" {
		if err := store.UseReadReplica(db, postgres.Open(cfg.Database.ReadDSN())); err != nil {
			logger.FatalCtx(ctx, "Failed to configure read replica", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Routing catalog reads to replica", zap.String("read_host", cfg.Database.ReadHost))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()

	resolver := registry.NewSchemaResolver(dataStore, cfg.Catalog.SchemaLookupConcurrency)
	defer resolver.Close()

	if *listOnly {
		contractsCache, closeCache := newCache(ctx, cfg.Redis, clock)
		defer closeCache()

		lister := contracts.NewLister(settings.Networks, dataStore, resolver, contractsCache, cfg.Catalog.ContractsCacheTTL)
		list, err := lister.GetAllCollectionContracts(ctx)
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", "contracts"))
			return 1
		}
		return printJSON(list)
	}

	var picksProvider picks.StatsProvider
	if cfg.Picks.BaseURL != "" {
		retry := adapter.DefaultRetryPolicy
		retry.MaxRetries = cfg.Picks.MaxRetries
		picksProvider = picks.NewHTTPStatsProvider(adapter.NewHTTPClient(cfg.Picks.Timeout, retry), cfg.Picks.BaseURL)
	} else {
		logger.WarnCtx(ctx, "Picks service not configured, items will not be annotated")
	}

	catalogService := catalog.NewCatalog(
		catalog.Config{
			Networks:     settings.Networks,
			StoreMinters: settings.StoreMinters,
			ChainIDs:     settings.ChainIDs,
			DefaultLimit: cfg.Catalog.DefaultLimit,
			MaxLimit:     cfg.Catalog.MaxLimit,
		},
		dataStore,
		resolver,
		picksProvider,
		metrics.NewCatalogMetrics(prometheus.NewRegistry()),
		clock,
	)

	result, err := catalogService.Fetch(ctx, filters)
	if err != nil {
		_ = json.NewEncoder(os.Stderr).Encode(err)
		return exitCode(err)
	}
	return printJSON(result)
}

// exitCode returns 2 for rejected requests and 1 for everything else
func exitCode(err error) int {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) && apiErr.IsClientError() {
		return 2
	}
	return 1
}

// newCache returns the Redis cache when configured, otherwise an in-memory cache
func newCache(ctx context.Context, cfg config.RedisConfig, clock adapter.Clock) (cache.Cache, func()) {
	if !cfg.Enabled() {
		return cache.NewMemoryCache(clock), func() {}
	}

	var client adapter.RedisClient
	if cfg.URL != "" {
		var err error
		client, err = adapter.NewRedisClientFromURL(cfg.URL)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to parse redis url", zap.Error(err))
		}
	} else {
		client = adapter.NewRedisClient(cfg.Address, cfg.Password, cfg.DB)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WarnCtx(ctx, "Redis unavailable, using in-memory cache", zap.Error(err))
		_ = client.Close()
		return cache.NewMemoryCache(clock), func() {}
	}
	logger.InfoCtx(ctx, "Connected to redis")

	return cache.NewRedisCache(client), func() { _ = client.Close() }
}

func parseFilters() (domain.CatalogFilters, error) {
	filters := domain.CatalogFilters{
		WearableCategory:    *wearableCategory,
		EmoteCategory:       *emoteCategory,
		ContractAddresses:   splitList(*contractAddresses),
		Creators:            splitList(*creators),
		IsSoldOut:           *soldOut,
		IsWearableSmart:     *smart,
		IsWearableHead:      *head,
		IsWearableAccessory: *accessory,
		OnlyListing:         *onlyListing,
		OnlyMinting:         *onlyMinting,
		Search:              *search,
		SortDirection:       domain.SortDirection(strings.ToLower(*sortDirection)),
		PickedBy:            *pickedBy,
	}

	if list := splitList(*ids); list != nil {
		filters.IDs = list
	}
	for _, n := range splitList(*networks) {
		filters.Networks = append(filters.Networks, domain.Network(n))
	}
	for _, g := range splitList(*genders) {
		filters.WearableGenders = append(filters.WearableGenders, domain.WearableGender(g))
	}
	for _, m := range splitList(*playModes) {
		filters.EmotePlayMode = append(filters.EmotePlayMode, domain.EmotePlayMode(m))
	}
	for _, r := range splitList(*rarities) {
		filters.Rarities = append(filters.Rarities, domain.Rarity(r))
	}

	if *category != "" {
		c := domain.ItemCategory(strings.ToLower(*category))
		filters.Category = &c
	}
	if *sortBy != "" {
		s := domain.SortBy(strings.ToLower(*sortBy))
		if !domain.IsValidSortBy(s) {
			return filters, fmt.Errorf("invalid sort %q", *sortBy)
		}
		filters.SortBy = s
	}

	if *minPrice != "" {
		p, err := decimal.NewFromString(*minPrice)
		if err != nil {
			return filters, fmt.Errorf("invalid min price: %w", err)
		}
		filters.MinPrice = &p
	}
	if *maxPrice != "" {
		p, err := decimal.NewFromString(*maxPrice)
		if err != nil {
			return filters, fmt.Errorf("invalid max price: %w", err)
		}
		filters.MaxPrice = &p
	}

	switch strings.ToLower(*onSale) {
	case "":
	case "true":
		v := true
		filters.IsOnSale = &v
	case "false":
		v := false
		filters.IsOnSale = &v
	default:
		return filters, fmt.Errorf("invalid on-sale value %q", *onSale)
	}

	if *limit >= 0 {
		filters.Limit = limit
		filters.Offset = offset
	} else if *offset > 0 {
		filters.Offset = offset
	}

	return filters, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printJSON(v interface{}) int {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		logger.Error(err, zap.String("component", "output"))
		return 1
	}
	return 0
}
