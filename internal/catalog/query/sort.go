package query

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
)

type sortKey struct {
	expr      string
	direction string
}

// sortKeys returns the ordering keys of every sort option, primary key first
var sortKeys = map[domain.SortBy][]sortKey{
	domain.SortByNewest: {
		{expr: "catalog.first_listed_at", direction: "DESC"},
	},
	domain.SortByMostExpensive: {
		{expr: "catalog.max_price", direction: "DESC"},
	},
	domain.SortByRecentlyListed: {
		{expr: "GREATEST(catalog.max_order_created_at, catalog.first_listed_at)", direction: "DESC"},
	},
	domain.SortByRecentlySold: {
		{expr: "catalog.sold_at", direction: "DESC"},
	},
	domain.SortByCheapest: {
		{expr: "catalog.min_price", direction: "ASC"},
		{expr: "catalog.first_listed_at", direction: "DESC"},
	},
}

// OrderBy returns the ORDER BY clause for the filters, or an empty string when no sorting applies.
//
// The not-for-sale view only supports NEWEST; any other requested order disables sorting.
// When a search term is present and no sort was requested, results keep the relevance order
// of the ranked candidate ids.
func OrderBy(filters domain.CatalogFilters, params Params) string {
	sortBy := filters.SortBy
	if filters.IsNotOnSaleView() && sortBy != "" && sortBy != domain.SortByNewest {
		return ""
	}

	if sortBy == "" && filters.Search != "" && filters.IDs != nil {
		params["ids"] = pq.StringArray(filters.IDs)
		return "ORDER BY array_position(CAST(@ids AS text[]), catalog.id) ASC, catalog.id ASC"
	}

	keys, ok := sortKeys[sortBy]
	if !ok {
		keys = sortKeys[domain.SortByNewest]
	}

	clauses := make([]string, 0, len(keys)+1)
	for i, key := range keys {
		direction := key.direction
		if i == 0 {
			switch strings.ToLower(string(filters.SortDirection)) {
			case string(domain.SortDirectionAsc):
				direction = "ASC"
			case string(domain.SortDirectionDesc):
				direction = "DESC"
			}
		}
		clauses = append(clauses, fmt.Sprintf("%s %s NULLS LAST", key.expr, direction))
	}
	clauses = append(clauses, "catalog.id ASC")

	return "ORDER BY " + strings.Join(clauses, ", ")
}

// Pagination returns the LIMIT/OFFSET clause, which is only emitted when both are given
func Pagination(filters domain.CatalogFilters, params Params) string {
	if filters.Limit == nil || filters.Offset == nil {
		return ""
	}
	params["limit"] = *filters.Limit
	params["offset"] = *filters.Offset
	return "LIMIT @limit OFFSET @offset"
}
