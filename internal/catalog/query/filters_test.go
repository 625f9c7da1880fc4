package query_test

import (
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/decentraland/marketplace-server-sub001/internal/catalog/query"
	"github.com/decentraland/marketplace-server-sub001/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name           string
		filters        domain.CatalogFilters
		expectedPreds  []string
		expectedParams query.Params
	}{
		{
			name:           "no filters",
			filters:        domain.CatalogFilters{},
			expectedPreds:  nil,
			expectedParams: query.Params{},
		},
		{
			name:          "wearable category",
			filters:       domain.CatalogFilters{Category: ptr(domain.ItemCategoryWearable)},
			expectedPreds: []string{"catalog.item_type = ANY(CAST(@item_types AS text[]))"},
			expectedParams: query.Params{
				"item_types": pq.StringArray{"wearable_v1", "wearable_v2", "smart_wearable_v1"},
			},
		},
		{
			name:          "emote category",
			filters:       domain.CatalogFilters{Category: ptr(domain.ItemCategoryEmote)},
			expectedPreds: []string{"catalog.item_type = ANY(CAST(@item_types AS text[]))"},
			expectedParams: query.Params{
				"item_types": pq.StringArray{"emote_v1"},
			},
		},
		{
			name:          "smart wearables narrow the wearable family",
			filters:       domain.CatalogFilters{Category: ptr(domain.ItemCategoryWearable), IsWearableSmart: true},
			expectedPreds: []string{"catalog.item_type = ANY(CAST(@item_types AS text[]))"},
			expectedParams: query.Params{
				"item_types": pq.StringArray{"smart_wearable_v1"},
			},
		},
		{
			name:           "valid wearable category",
			filters:        domain.CatalogFilters{WearableCategory: "HAT"},
			expectedPreds:  []string{"catalog.wearable_category = @wearable_category"},
			expectedParams: query.Params{"wearable_category": "hat"},
		},
		{
			name:           "invalid wearable category is ignored",
			filters:        domain.CatalogFilters{WearableCategory: "spaceship"},
			expectedPreds:  nil,
			expectedParams: query.Params{},
		},
		{
			name:           "emote category compares case-insensitively",
			filters:        domain.CatalogFilters{EmoteCategory: "Dance"},
			expectedPreds:  []string{"LOWER(catalog.emote_category) = @emote_category"},
			expectedParams: query.Params{"emote_category": "dance"},
		},
		{
			name:           "invalid emote category is ignored",
			filters:        domain.CatalogFilters{EmoteCategory: "sleep"},
			expectedPreds:  nil,
			expectedParams: query.Params{},
		},
		{
			name: "genders become a body shape superset check",
			filters: domain.CatalogFilters{
				WearableGenders: []domain.WearableGender{"MALE", domain.WearableGenderFemale, domain.WearableGenderMale},
			},
			expectedPreds:  []string{"COALESCE(catalog.wearable_body_shapes, catalog.emote_body_shapes) @> CAST(@body_shapes AS text[])"},
			expectedParams: query.Params{"body_shapes": pq.StringArray{"BaseMale", "BaseFemale"}},
		},
		{
			name:           "loop play mode",
			filters:        domain.CatalogFilters{EmotePlayMode: []domain.EmotePlayMode{domain.EmotePlayModeLoop}},
			expectedPreds:  []string{"COALESCE(catalog.emote_loop, false) = @emote_loop"},
			expectedParams: query.Params{"emote_loop": true},
		},
		{
			name:           "simple play mode",
			filters:        domain.CatalogFilters{EmotePlayMode: []domain.EmotePlayMode{domain.EmotePlayModeSimple}},
			expectedPreds:  []string{"COALESCE(catalog.emote_loop, false) = @emote_loop"},
			expectedParams: query.Params{"emote_loop": false},
		},
		{
			name:           "both play modes means any",
			filters:        domain.CatalogFilters{EmotePlayMode: []domain.EmotePlayMode{domain.EmotePlayModeSimple, domain.EmotePlayModeLoop}},
			expectedPreds:  nil,
			expectedParams: query.Params{},
		},
		{
			name: "membership filters",
			filters: domain.CatalogFilters{
				Rarities:          []domain.Rarity{"RARE", domain.RarityEpic},
				ContractAddresses: []string{"0xABCDEF0000000000000000000000000000000001"},
				IDs:               []string{"0xabcdef0000000000000000000000000000000001-0"},
			},
			expectedPreds: []string{
				"catalog.rarity = ANY(CAST(@rarities AS text[]))",
				"catalog.contract_address = ANY(CAST(@contract_addresses AS text[]))",
				"catalog.id = ANY(CAST(@ids AS text[]))",
			},
			expectedParams: query.Params{
				"rarities":           pq.StringArray{"rare", "epic"},
				"contract_addresses": pq.StringArray{"0xabcdef0000000000000000000000000000000001"},
				"ids":                pq.StringArray{"0xabcdef0000000000000000000000000000000001-0"},
			},
		},
		{
			name: "single creator and creators list are merged",
			filters: domain.CatalogFilters{
				Creator:  "0x1111111111111111111111111111111111111111",
				Creators: []string{"0x2222222222222222222222222222222222222222", "0x1111111111111111111111111111111111111111"},
			},
			expectedPreds: []string{"catalog.creator = ANY(CAST(@creators AS text[]))"},
			expectedParams: query.Params{
				"creators": pq.StringArray{
					"0x1111111111111111111111111111111111111111",
					"0x2222222222222222222222222222222222222222",
				},
			},
		},
		{
			name:    "min price only",
			filters: domain.CatalogFilters{MinPrice: ptr(decimal.RequireFromString("150"))},
			expectedPreds: []string{
				"(((catalog.is_store_minter AND catalog.available > 0) AND (catalog.price >= CAST(@min_price AS numeric))) OR catalog.listings_count > 0)",
			},
			expectedParams: query.Params{"min_price": "150"},
		},
		{
			name: "price range",
			filters: domain.CatalogFilters{
				MinPrice: ptr(decimal.RequireFromString("10")),
				MaxPrice: ptr(decimal.RequireFromString("1000000000000000000000")),
			},
			expectedPreds: []string{
				"(((catalog.is_store_minter AND catalog.available > 0) AND (catalog.price >= CAST(@min_price AS numeric) AND catalog.price <= CAST(@max_price AS numeric))) OR catalog.listings_count > 0)",
			},
			expectedParams: query.Params{"min_price": "10", "max_price": "1000000000000000000000"},
		},
		{
			name:           "sold out",
			filters:        domain.CatalogFilters{IsSoldOut: true},
			expectedPreds:  []string{"catalog.available = 0"},
			expectedParams: query.Params{},
		},
		{
			name:    "head and accessory flags",
			filters: domain.CatalogFilters{IsWearableHead: true, IsWearableAccessory: true},
			expectedPreds: []string{
				"catalog.is_wearable_head = true",
				"catalog.is_wearable_accessory = true",
			},
			expectedParams: query.Params{},
		},
		{
			name:           "only listing",
			filters:        domain.CatalogFilters{OnlyListing: true},
			expectedPreds:  []string{"((NOT catalog.is_store_minter OR catalog.available = 0) AND catalog.listings_count > 0)"},
			expectedParams: query.Params{},
		},
		{
			name:           "only minting",
			filters:        domain.CatalogFilters{OnlyMinting: true},
			expectedPreds:  []string{"(catalog.is_store_minter AND catalog.available > 0)"},
			expectedParams: query.Params{},
		},
		{
			name:           "on sale",
			filters:        domain.CatalogFilters{IsOnSale: ptr(true)},
			expectedPreds:  []string{"((catalog.is_store_minter AND catalog.available > 0) OR catalog.listings_count > 0)"},
			expectedParams: query.Params{},
		},
		{
			name:           "not on sale",
			filters:        domain.CatalogFilters{IsOnSale: ptr(false)},
			expectedPreds:  []string{"NOT ((catalog.is_store_minter AND catalog.available > 0) OR catalog.listings_count > 0)"},
			expectedParams: query.Params{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := query.Params{}
			preds := query.Predicates(tt.filters, params)

			assert.Equal(t, tt.expectedPreds, preds)
			assert.Equal(t, tt.expectedParams, params)
		})
	}
}

func TestPredicates_ConflictingSaleFiltersCompileIndependently(t *testing.T) {
	params := query.Params{}
	preds := query.Predicates(domain.CatalogFilters{OnlyListing: true, OnlyMinting: true}, params)

	assert.Len(t, preds, 2)
	for _, pred := range preds {
		assert.Equal(t, strings.Count(pred, "("), strings.Count(pred, ")"), "unbalanced predicate %q", pred)
	}
}
