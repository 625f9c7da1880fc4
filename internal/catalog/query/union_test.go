package query_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentraland/marketplace-server-sub001/internal/catalog/query"
	"github.com/decentraland/marketplace-server-sub001/internal/domain"
)

var (
	testNow        = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	polygonTarget  = query.Target{Network: domain.NetworkPolygon, Schema: "squid_polygon_v2", StoreMinter: domain.POLYGON_STORE_MINTER}
	ethereumTarget = query.Target{Network: domain.NetworkEthereum, Schema: "squid_ethereum_v2"}
)

func TestBuildCatalogQuery_SingleNetwork(t *testing.T) {
	q, err := query.BuildCatalogQuery([]query.Target{polygonTarget}, domain.CatalogFilters{
		SortBy: domain.SortByCheapest,
		Limit:  ptr(10),
		Offset: ptr(20),
	}, testNow)
	require.NoError(t, err)

	assert.NotContains(t, q.SQL, "UNION ALL")
	assert.Equal(t, 1, strings.Count(q.SQL, "COUNT(*) OVER()"))
	assert.Contains(t, q.SQL, `FROM "squid_polygon_v2".items AS items`)
	assert.Contains(t, q.SQL, "'POLYGON'::text AS network")
	assert.Contains(t, q.SQL, "JOIN collection_approvals ON collection_approvals.collection_id = items.collection_id AND collection_approvals.value = true")
	assert.Contains(t, q.SQL, "events.minter = @store_minter_polygon")
	assert.Contains(t, q.SQL, "orders.status = 'open'")
	assert.Contains(t, q.SQL, "LEAST(orders.expires_at, 253378408747000) > @now_ms")
	assert.Contains(t, q.SQL, "NULL::bigint AS owners_count")
	assert.NotContains(t, q.SQL, "nfts_owners")
	assert.True(t, strings.HasSuffix(q.SQL, "ORDER BY catalog.min_price ASC NULLS LAST, catalog.first_listed_at DESC NULLS LAST, catalog.id ASC\nLIMIT @limit OFFSET @offset"))

	assert.Equal(t, domain.POLYGON_STORE_MINTER, q.Params["store_minter_polygon"])
	assert.Equal(t, testNow.UnixMilli(), q.Params["now_ms"])
	assert.Equal(t, 10, q.Params["limit"])
	assert.Equal(t, 20, q.Params["offset"])
}

func TestBuildCatalogQuery_MultiNetwork(t *testing.T) {
	q, err := query.BuildCatalogQuery([]query.Target{polygonTarget, ethereumTarget}, domain.CatalogFilters{
		SortBy: domain.SortByNewest,
		Limit:  ptr(5),
		Offset: ptr(0),
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(q.SQL, "UNION ALL"))
	assert.Equal(t, 1, strings.Count(q.SQL, "COUNT(*) OVER()"), "only the outer query counts")
	assert.Equal(t, 1, strings.Count(q.SQL, "ORDER BY catalog."), "only the outer query sorts")
	assert.Equal(t, 1, strings.Count(q.SQL, "LIMIT"), "only the outer query paginates")
	assert.Contains(t, q.SQL, "'POLYGON'::text AS network")
	assert.Contains(t, q.SQL, "'ETHEREUM'::text AS network")
	assert.Contains(t, q.SQL, "events.minter = @store_minter_ethereum")

	union := strings.Index(q.SQL, "UNION ALL")
	order := strings.LastIndex(q.SQL, "ORDER BY catalog.first_listed_at")
	assert.Greater(t, order, union)

	assert.Equal(t, domain.POLYGON_STORE_MINTER, q.Params["store_minter_polygon"])
	assert.Equal(t, "", q.Params["store_minter_ethereum"])
}

func TestBuildCatalogQuery_NotOnSaleCountsOwners(t *testing.T) {
	q, err := query.BuildCatalogQuery([]query.Target{polygonTarget}, domain.CatalogFilters{
		IsOnSale: ptr(false),
		SortBy:   domain.SortByMostExpensive,
	}, testNow)
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "COUNT(DISTINCT nfts.owner)")
	assert.Contains(t, q.SQL, "COALESCE(nfts_owners.count, 0) AS owners_count")
	assert.NotContains(t, q.SQL, "ORDER BY catalog.")
	assert.NotContains(t, q.SQL, "LIMIT")
}

func TestBuildCatalogQuery_PriceRangeBoundsBothChannels(t *testing.T) {
	q, err := query.BuildCatalogQuery([]query.Target{polygonTarget}, domain.CatalogFilters{
		MinPrice: ptr(decimal.RequireFromString("150")),
	}, testNow)
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "orders.price >= CAST(@min_price AS numeric)")
	assert.Contains(t, q.SQL, "COALESCE(latest_prices.price, items.price) >= CAST(@min_price AS numeric)")
	assert.Contains(t, q.SQL, "THEN LEAST(COALESCE(latest_prices.price, items.price), listings.min_price) ELSE listings.min_price END AS min_price")
	assert.Equal(t, "150", q.Params["min_price"])
}

func TestBuildCatalogQuery_NamedParamsAreTerminated(t *testing.T) {
	q, err := query.BuildCatalogQuery([]query.Target{polygonTarget, ethereumTarget}, domain.CatalogFilters{
		Category:         ptr(domain.ItemCategoryWearable),
		WearableGenders:  []domain.WearableGender{domain.WearableGenderMale},
		MinPrice:         ptr(decimal.RequireFromString("1")),
		MaxPrice:         ptr(decimal.RequireFromString("2")),
		IDs:              []string{"a"},
		Rarities:         []domain.Rarity{domain.RarityRare},
		WearableCategory: "hat",
		Limit:            ptr(1),
		Offset:           ptr(0),
	}, testNow)
	require.NoError(t, err)

	for name := range q.Params {
		assert.NotContains(t, q.SQL, "@"+name+"::", "param %s must not be followed by a cast", name)
		assert.Contains(t, q.SQL, "@"+name, "param %s must be referenced", name)
	}
}

func TestBuildCatalogQuery_Errors(t *testing.T) {
	_, err := query.BuildCatalogQuery(nil, domain.CatalogFilters{}, testNow)
	assert.ErrorIs(t, err, query.ErrNoTargets)

	_, err = query.BuildCatalogQuery([]query.Target{{Network: domain.NetworkPolygon, Schema: "public; DROP TABLE items"}}, domain.CatalogFilters{}, testNow)
	assert.ErrorContains(t, err, "invalid schema name")

	_, err = query.BuildCatalogQuery([]query.Target{{Network: "SOLANA", Schema: "squid"}}, domain.CatalogFilters{}, testNow)
	assert.ErrorContains(t, err, "invalid network")
}

func TestBuildCountQuery(t *testing.T) {
	q, err := query.BuildCountQuery([]query.Target{polygonTarget, ethereumTarget}, domain.CatalogFilters{
		SortBy: domain.SortByCheapest,
		Limit:  ptr(10),
		Offset: ptr(100),
	}, testNow)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(q.SQL, "SELECT COUNT(*) AS total_rows FROM"))
	assert.Contains(t, q.SQL, "UNION ALL")
	assert.NotContains(t, q.SQL, "LIMIT")
	assert.NotContains(t, q.SQL, "ORDER BY catalog.")
	assert.NotContains(t, q.Params, "limit")
}
