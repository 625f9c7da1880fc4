package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
)

// ErrNoTargets is returned when a catalog query is built without any network
var ErrNoTargets = errors.New("no target schemas")

// projection is the final column list of a catalog query.
// Numeric columns are returned as text to keep wei precision.
var projection = strings.Join([]string{
	"catalog.id",
	"catalog.blockchain_id::text AS blockchain_id",
	"catalog.contract_address",
	"catalog.item_type",
	"catalog.rarity",
	"catalog.creator",
	"catalog.beneficiary",
	"catalog.urn",
	"catalog.image",
	"catalog.is_wearable_head",
	"catalog.is_wearable_accessory",
	"catalog.created_at",
	"catalog.updated_at",
	"catalog.reviewed_at",
	"catalog.sold_at",
	"GREATEST(catalog.available, 0)::bigint AS available",
	"catalog.price::text AS price",
	"catalog.is_store_minter",
	"catalog.first_listed_at",
	"catalog.min_price::text AS min_price",
	"catalog.max_price::text AS max_price",
	"catalog.min_listing_price::text AS min_listing_price",
	"catalog.max_listing_price::text AS max_listing_price",
	"catalog.listings_count",
	"catalog.max_order_created_at",
	"catalog.owners_count",
	"catalog.wearable_name",
	"catalog.wearable_description",
	"catalog.wearable_category",
	"catalog.wearable_body_shapes",
	"catalog.emote_name",
	"catalog.emote_description",
	"catalog.emote_category",
	"catalog.emote_body_shapes",
	"catalog.emote_loop",
	"catalog.network",
}, ",\n\t")

// TotalRowsColumn is the window column carrying the total number of matches
const TotalRowsColumn = "total_rows"

// BuildCatalogQuery builds the paginated catalog query over one or more networks.
//
// A single target is queried directly. Several targets are merged with UNION ALL and the
// sort, pagination and total count are applied once on the outer query: per-network window
// counts are not valid totals after the union.
func BuildCatalogQuery(targets []Target, filters domain.CatalogFilters, now time.Time) (Query, error) {
	params := Params{}
	source, err := catalogSource(targets, filters, params, now)
	if err != nil {
		return Query{}, err
	}

	sql := fmt.Sprintf("SELECT %s,\n\tCOUNT(*) OVER() AS %s\nFROM %s", projection, TotalRowsColumn, source)
	if orderBy := OrderBy(filters, params); orderBy != "" {
		sql += "\n" + orderBy
	}
	if pagination := Pagination(filters, params); pagination != "" {
		sql += "\n" + pagination
	}

	return Query{SQL: sql, Params: params}, nil
}

// BuildCountQuery builds a query returning the number of catalog matches, regardless of pagination
func BuildCountQuery(targets []Target, filters domain.CatalogFilters, now time.Time) (Query, error) {
	params := Params{}
	source, err := catalogSource(targets, filters, params, now)
	if err != nil {
		return Query{}, err
	}

	return Query{
		SQL:    fmt.Sprintf("SELECT COUNT(*) AS %s FROM %s", TotalRowsColumn, source),
		Params: params,
	}, nil
}

// catalogSource returns the FROM source aliased "catalog" for the targets
func catalogSource(targets []Target, filters domain.CatalogFilters, params Params, now time.Time) (string, error) {
	if len(targets) == 0 {
		return "", ErrNoTargets
	}

	if len(targets) == 1 {
		sql, err := filteredNetworkQuery(targets[0], filters, params, now)
		if err != nil {
			return "", fmt.Errorf("failed to build query for network %s: %w", targets[0].Network, err)
		}
		return fmt.Sprintf("(\n%s\n) AS catalog", sql), nil
	}

	parts := make([]string, 0, len(targets))
	for _, target := range targets {
		sql, err := filteredNetworkQuery(target, filters, params, now)
		if err != nil {
			return "", fmt.Errorf("failed to build query for network %s: %w", target.Network, err)
		}
		parts = append(parts, "(\n"+sql+"\n)")
	}
	return fmt.Sprintf("(\n%s\n) AS catalog", strings.Join(parts, "\nUNION ALL\n")), nil
}
