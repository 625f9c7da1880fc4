package query

import (
	"strings"

	"github.com/lib/pq"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
)

// Expressions over the per-network row alias "catalog"
const (
	mintableExpr = "(catalog.is_store_minter AND catalog.available > 0)"
	onSaleExpr   = "(" + mintableExpr + " OR catalog.listings_count > 0)"
)

// Predicates compiles filters into WHERE fragments over the per-network row alias "catalog".
// Parameters referenced by the fragments are written into params.
func Predicates(filters domain.CatalogFilters, params Params) []string {
	var predicates []string

	if types := itemTypesFilter(filters); len(types) > 0 {
		params["item_types"] = toStringArray(types)
		predicates = append(predicates, "catalog.item_type = ANY(CAST(@item_types AS text[]))")
	}

	if category := domain.WearableCategory(strings.ToLower(filters.WearableCategory)); filters.WearableCategory != "" && domain.IsValidWearableCategory(category) {
		params["wearable_category"] = string(category)
		predicates = append(predicates, "catalog.wearable_category = @wearable_category")
	}

	if category := domain.EmoteCategory(strings.ToLower(filters.EmoteCategory)); filters.EmoteCategory != "" && domain.IsValidEmoteCategory(category) {
		params["emote_category"] = string(category)
		// historical emotes were indexed with upper-case categories
		predicates = append(predicates, "LOWER(catalog.emote_category) = @emote_category")
	}

	if shapes := bodyShapesFilter(filters.WearableGenders); len(shapes) > 0 {
		params["body_shapes"] = shapes
		predicates = append(predicates, "COALESCE(catalog.wearable_body_shapes, catalog.emote_body_shapes) @> CAST(@body_shapes AS text[])")
	}

	if loop, ok := emoteLoopFilter(filters.EmotePlayMode); ok {
		params["emote_loop"] = loop
		predicates = append(predicates, "COALESCE(catalog.emote_loop, false) = @emote_loop")
	}

	if len(filters.Rarities) > 0 {
		rarities := make(pq.StringArray, 0, len(filters.Rarities))
		for _, rarity := range filters.Rarities {
			rarities = append(rarities, strings.ToLower(string(rarity)))
		}
		params["rarities"] = rarities
		predicates = append(predicates, "catalog.rarity = ANY(CAST(@rarities AS text[]))")
	}

	if addresses := domain.NormalizeAddresses(filters.ContractAddresses); len(addresses) > 0 {
		params["contract_addresses"] = pq.StringArray(addresses)
		predicates = append(predicates, "catalog.contract_address = ANY(CAST(@contract_addresses AS text[]))")
	}

	if filters.IDs != nil {
		params["ids"] = pq.StringArray(filters.IDs)
		predicates = append(predicates, "catalog.id = ANY(CAST(@ids AS text[]))")
	}

	if creators := filters.AllCreators(); len(creators) > 0 {
		params["creators"] = pq.StringArray(creators)
		predicates = append(predicates, "catalog.creator = ANY(CAST(@creators AS text[]))")
	}

	if filters.HasPriceRange() {
		// the listing side of the range is applied inside the listings aggregate
		predicates = append(predicates, "(("+mintableExpr+" AND "+mintPriceInRange(filters, params, "catalog.price")+") OR catalog.listings_count > 0)")
	}

	if filters.IsSoldOut {
		predicates = append(predicates, "catalog.available = 0")
	}

	if filters.IsWearableHead {
		predicates = append(predicates, "catalog.is_wearable_head = true")
	}

	if filters.IsWearableAccessory {
		predicates = append(predicates, "catalog.is_wearable_accessory = true")
	}

	if filters.OnlyListing {
		predicates = append(predicates, "((NOT catalog.is_store_minter OR catalog.available = 0) AND catalog.listings_count > 0)")
	}

	if filters.OnlyMinting {
		predicates = append(predicates, mintableExpr)
	}

	if filters.IsOnSale != nil {
		if *filters.IsOnSale {
			predicates = append(predicates, onSaleExpr)
		} else {
			predicates = append(predicates, "NOT "+onSaleExpr)
		}
	}

	return predicates
}

// mintPriceInRange returns the condition bounding a mint price expression by the requested range
func mintPriceInRange(filters domain.CatalogFilters, params Params, priceExpr string) string {
	var conditions []string
	if filters.MinPrice != nil {
		params["min_price"] = filters.MinPrice.String()
		conditions = append(conditions, priceExpr+" >= CAST(@min_price AS numeric)")
	}
	if filters.MaxPrice != nil {
		params["max_price"] = filters.MaxPrice.String()
		conditions = append(conditions, priceExpr+" <= CAST(@max_price AS numeric)")
	}
	if len(conditions) == 0 {
		return "true"
	}
	return "(" + strings.Join(conditions, " AND ") + ")"
}

// itemTypesFilter returns the item types selected by the category filters.
// isWearableSmart narrows to smart wearables only.
func itemTypesFilter(filters domain.CatalogFilters) []domain.ItemType {
	if filters.IsWearableSmart {
		return []domain.ItemType{domain.ItemTypeSmartWearableV1}
	}
	if filters.Category == nil {
		return nil
	}
	switch *filters.Category {
	case domain.ItemCategoryWearable:
		return domain.WearableItemTypes
	case domain.ItemCategoryEmote:
		return domain.EmoteItemTypes
	}
	return nil
}

func bodyShapesFilter(genders []domain.WearableGender) pq.StringArray {
	var shapes pq.StringArray
	seen := make(map[domain.BodyShape]struct{}, len(genders))
	for _, gender := range genders {
		shape, ok := gender.BodyShape()
		if !ok {
			continue
		}
		if _, dup := seen[shape]; dup {
			continue
		}
		seen[shape] = struct{}{}
		shapes = append(shapes, string(shape))
	}
	return shapes
}

// emoteLoopFilter returns the loop value to match, or false when every play mode is accepted
func emoteLoopFilter(modes []domain.EmotePlayMode) (bool, bool) {
	var wantsLoop, wantsSimple bool
	for _, mode := range modes {
		switch domain.EmotePlayMode(strings.ToLower(string(mode))) {
		case domain.EmotePlayModeLoop:
			wantsLoop = true
		case domain.EmotePlayModeSimple:
			wantsSimple = true
		}
	}
	if wantsLoop == wantsSimple {
		return false, false
	}
	return wantsLoop, true
}

func toStringArray(types []domain.ItemType) pq.StringArray {
	values := make(pq.StringArray, len(types))
	for i, t := range types {
		values[i] = string(t)
	}
	return values
}
