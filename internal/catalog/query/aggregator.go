package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
)

// Derived expressions of the per-network aggregation, over the raw table aliases
const (
	availableExpr     = "(items.max_supply - COALESCE(nfts_count.count, 0))"
	priceExpr         = "COALESCE(latest_prices.price, items.price)"
	isStoreMinterExpr = "(COALESCE(collection_minters.value, false) OR COALESCE(item_minters.value, false))"
	itemMintableExpr  = "(" + availableExpr + " > 0 AND " + isStoreMinterExpr + ")"

	// the activation time of whichever store-minter authorization is active,
	// otherwise the most recent authorization event regardless of its value
	firstListedAtExpr = `CASE
			WHEN ` + itemMintableExpr + ` THEN LEAST(
				CASE WHEN item_minters.value THEN item_minters.timestamp END,
				CASE WHEN collection_minters.value THEN collection_minters.timestamp END
			)
			ELSE GREATEST(item_minters.timestamp, collection_minters.timestamp)
		END`
)

// latestEventCTE selects the most recent row per key of an event table
func latestEventCTE(name, table, key string, columns []string, where string) string {
	selected := make([]string, 0, len(columns)+1)
	ranked := make([]string, 0, len(columns)+1)
	selected = append(selected, "ranked."+key)
	ranked = append(ranked, "events."+key)
	for _, column := range columns {
		selected = append(selected, "ranked."+column)
		ranked = append(ranked, "events."+column)
	}
	if where != "" {
		where = "\n\t\t\tWHERE " + where
	}
	return fmt.Sprintf(`%s AS (
		SELECT %s
		FROM (
			SELECT %s,
				ROW_NUMBER() OVER (PARTITION BY events.%s ORDER BY events.timestamp DESC, events.id DESC) AS rn
			FROM %s AS events%s
		) AS ranked
		WHERE ranked.rn = 1
	)`, name, strings.Join(selected, ", "), strings.Join(ranked, ", "), key, table, where)
}

// networkQuery builds the aggregation query of one network.
// The result exposes one row per sellable item of an approved collection, with raw numeric columns.
func networkQuery(target Target, filters domain.CatalogFilters, params Params, now time.Time) (string, error) {
	schema, err := quoteSchema(target.Schema)
	if err != nil {
		return "", err
	}
	network, err := networkLiteral(target.Network)
	if err != nil {
		return "", err
	}

	minterParam := storeMinterParam(target.Network)
	params[minterParam] = strings.ToLower(target.StoreMinter)
	params["now_ms"] = now.UnixMilli()

	withOwners := filters.IsNotOnSaleView()

	ctes := []string{
		fmt.Sprintf(`nfts_count AS (
		SELECT nfts.item_id, COUNT(*) AS count
		FROM %s.nfts AS nfts
		GROUP BY nfts.item_id
	)`, schema),
		latestEventCTE("latest_prices", schema+".update_item_data_events", "item_id", []string{"price"}, ""),
		latestEventCTE("latest_metadata", schema+".metadata", "item_id", []string{"item_type", "wearable_id", "emote_id"}, ""),
		latestEventCTE("collection_approvals", schema+".collection_set_approved_events", "collection_id", []string{"value"}, ""),
		latestEventCTE("collection_minters", schema+".collection_minters_events", "collection_id", []string{"value", "timestamp"},
			"events.minter = @"+minterParam),
		latestEventCTE("item_minters", schema+".item_minters_events", "item_id", []string{"value", "timestamp"},
			"events.minter = @"+minterParam),
	}
	if withOwners {
		ctes = append(ctes, fmt.Sprintf(`nfts_owners AS (
		SELECT nfts.item_id, COUNT(DISTINCT nfts.owner) AS count
		FROM %s.nfts AS nfts
		GROUP BY nfts.item_id
	)`, schema))
	}

	ownersExpr := "NULL::bigint"
	ownersJoin := ""
	if withOwners {
		ownersExpr = "COALESCE(nfts_owners.count, 0)"
		ownersJoin = "\n\tLEFT JOIN nfts_owners ON nfts_owners.item_id = items.id"
	}

	inRange := mintPriceInRange(filters, params, priceExpr)
	minPriceExpr := fmt.Sprintf("CASE WHEN %s AND %s THEN LEAST(%s, listings.min_price) ELSE listings.min_price END", itemMintableExpr, inRange, priceExpr)
	maxPriceExpr := fmt.Sprintf("CASE WHEN %s AND %s THEN GREATEST(%s, listings.max_price) ELSE listings.max_price END", itemMintableExpr, inRange, priceExpr)

	return fmt.Sprintf(`WITH %s
	SELECT
		items.id,
		items.blockchain_id,
		items.collection_id AS contract_address,
		items.item_type,
		items.rarity,
		items.creator,
		items.beneficiary,
		items.urn,
		items.image,
		items.search_is_wearable_head AS is_wearable_head,
		items.search_is_wearable_accessory AS is_wearable_accessory,
		items.created_at,
		items.updated_at,
		items.reviewed_at,
		items.sold_at,
		%s AS available,
		%s AS price,
		%s AS is_store_minter,
		%s AS first_listed_at,
		%s AS min_price,
		%s AS max_price,
		listings.min_price AS min_listing_price,
		listings.max_price AS max_listing_price,
		COALESCE(listings.count, 0) AS listings_count,
		listings.max_created_at AS max_order_created_at,
		%s AS owners_count,
		wearable.name AS wearable_name,
		wearable.description AS wearable_description,
		wearable.category AS wearable_category,
		wearable.body_shapes AS wearable_body_shapes,
		emote.name AS emote_name,
		emote.description AS emote_description,
		emote.category AS emote_category,
		emote.body_shapes AS emote_body_shapes,
		emote.loop AS emote_loop,
		%s AS network
	FROM %s.items AS items
	JOIN collection_approvals ON collection_approvals.collection_id = items.collection_id AND collection_approvals.value = true
	LEFT JOIN nfts_count ON nfts_count.item_id = items.id
	LEFT JOIN latest_prices ON latest_prices.item_id = items.id
	LEFT JOIN collection_minters ON collection_minters.collection_id = items.collection_id
	LEFT JOIN item_minters ON item_minters.item_id = items.id
	LEFT JOIN latest_metadata ON latest_metadata.item_id = items.id
	LEFT JOIN %s.wearable AS wearable ON wearable.id = latest_metadata.wearable_id AND items.item_type IN (%s)
	LEFT JOIN %s.emote AS emote ON emote.id = latest_metadata.emote_id AND items.item_type IN (%s)
	LEFT JOIN (%s) AS listings ON listings.item_id = items.id%s`,
		strings.Join(ctes, ",\n\t"),
		availableExpr, priceExpr, isStoreMinterExpr, firstListedAtExpr, minPriceExpr, maxPriceExpr, ownersExpr,
		network,
		schema,
		schema, itemTypesLiteral(domain.WearableItemTypes),
		schema, itemTypesLiteral(domain.EmoteItemTypes),
		listingsQuery(schema, filters, params),
		ownersJoin,
	), nil
}

// listingsQuery aggregates the open, unexpired orders of every item, bounded by the requested price range
func listingsQuery(schema string, filters domain.CatalogFilters, params Params) string {
	conditions := []string{
		fmt.Sprintf("orders.status = '%s'", domain.ORDER_STATUS_OPEN),
		fmt.Sprintf("LEAST(orders.expires_at, %d) > @now_ms", domain.MAX_ORDER_TIMESTAMP),
	}
	if filters.MinPrice != nil {
		params["min_price"] = filters.MinPrice.String()
		conditions = append(conditions, "orders.price >= CAST(@min_price AS numeric)")
	}
	if filters.MaxPrice != nil {
		params["max_price"] = filters.MaxPrice.String()
		conditions = append(conditions, "orders.price <= CAST(@max_price AS numeric)")
	}
	return fmt.Sprintf(`
		SELECT orders.item_id,
			MIN(orders.price) AS min_price,
			MAX(orders.price) AS max_price,
			COUNT(*) AS count,
			MAX(orders.created_at) AS max_created_at
		FROM %s.orders AS orders
		WHERE %s
		GROUP BY orders.item_id
	`, schema, strings.Join(conditions, " AND "))
}

// filteredNetworkQuery applies the filter predicates over the aggregation of one network
func filteredNetworkQuery(target Target, filters domain.CatalogFilters, params Params, now time.Time) (string, error) {
	aggregation, err := networkQuery(target, filters, params, now)
	if err != nil {
		return "", err
	}
	sql := fmt.Sprintf("SELECT catalog.* FROM (%s) AS catalog", aggregation)
	if predicates := Predicates(filters, params); len(predicates) > 0 {
		sql += "\nWHERE " + strings.Join(predicates, "\n\tAND ")
	}
	return sql, nil
}
