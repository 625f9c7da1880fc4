package catalog

import (
	"strings"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
	"github.com/decentraland/marketplace-server-sub001/internal/types"
)

const (
	urnPrefix       = "urn:decentraland:"
	thumbnailSuffix = "thumbnail"
)

// Mapper converts catalog query rows into domain items
type Mapper struct {
	chainIDs map[domain.Network]int64
}

// NewMapper creates a mapper stamping items with the chain id of their network
func NewMapper(chainIDs map[domain.Network]int64) *Mapper {
	return &Mapper{chainIDs: chainIDs}
}

// MapItem converts one catalog row into an item.
// A row with an item type outside the known families fails with UnknownItemTypeError.
func (m *Mapper) MapItem(row types.Row) (domain.Item, error) {
	id := row.String("id")
	itemType := domain.ItemType(row.String("item_type"))
	if !itemType.IsWearable() && !itemType.IsEmote() {
		return domain.Item{}, &domain.UnknownItemTypeError{ItemType: string(itemType), ItemID: id}
	}

	network := domain.Network(strings.ToUpper(row.String("network")))
	contract := row.String("contract_address")
	itemID := row.String("blockchain_id")

	available := row.Int64("available")
	if available < 0 {
		available = 0
	}
	isStoreMinter := row.Bool("is_store_minter")
	listings := row.Int64("listings_count")

	item := domain.Item{
		ID:              id,
		ItemID:          itemID,
		ContractAddress: contract,
		ItemType:        itemType,
		Rarity:          domain.Rarity(row.String("rarity")),
		Creator:         row.String("creator"),
		Beneficiary:     row.StringPtr("beneficiary"),
		URN:             row.StringPtr("urn"),
		Thumbnail:       repairThumbnail(row.String("image"), contract, itemID),
		Price:           types.SafeString(row.Decimal("price")),
		Available:       available,
		IsOnSale:        (isStoreMinter && available > 0) || listings > 0,
		IsStoreMinter:   isStoreMinter,
		FirstListedAt:   row.UnixTimePtr("first_listed_at"),
		MinPrice:        row.Decimal("min_price"),
		MaxPrice:        row.Decimal("max_price"),
		MinListingPrice: row.Decimal("min_listing_price"),
		MaxListingPrice: row.Decimal("max_listing_price"),
		Listings:        listings,
		Owners:          row.Int64Ptr("owners_count"),
		Network:         network,
		ChainID:         m.chainIDs[network],
		CreatedAt:       row.UnixTime("created_at"),
		UpdatedAt:       row.UnixTime("updated_at"),
		ReviewedAt:      row.UnixTimePtr("reviewed_at"),
		SoldAt:          row.UnixTimePtr("sold_at"),
	}
	if item.Price == "" {
		item.Price = "0"
	}

	if itemType.IsEmote() {
		emote := &domain.EmoteMetadata{
			Name:        row.String("emote_name"),
			Description: row.String("emote_description"),
			Category:    domain.EmoteCategory(strings.ToLower(row.String("emote_category"))),
			BodyShapes:  toBodyShapes(row.StringSlice("emote_body_shapes")),
			Loop:        !row.IsNull("emote_loop") && row.Bool("emote_loop"),
		}
		item.Category = string(emote.Category)
		item.Data = domain.Metadata{Emote: emote}
		return item, nil
	}

	wearable := &domain.WearableMetadata{
		Name:        row.String("wearable_name"),
		Description: row.String("wearable_description"),
		Category:    domain.WearableCategory(row.String("wearable_category")),
		BodyShapes:  toBodyShapes(row.StringSlice("wearable_body_shapes")),
		IsSmart:     itemType == domain.ItemTypeSmartWearableV1,
	}
	item.Category = string(wearable.Category)
	item.Data = domain.Metadata{Wearable: wearable}
	return item, nil
}

// MapItems converts every row, failing on the first row that cannot be mapped
func (m *Mapper) MapItems(rows []map[string]interface{}) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		item, err := m.MapItem(types.Row(row))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func toBodyShapes(values []string) []domain.BodyShape {
	shapes := make([]domain.BodyShape, 0, len(values))
	for _, value := range values {
		shapes = append(shapes, domain.BodyShape(value))
	}
	return shapes
}

// repairThumbnail fixes thumbnail urls indexed with a network alias or without the item coordinates,
// e.g. .../urn:decentraland:polygon:collections-v2/thumbnail becomes
// .../urn:decentraland:matic:collections-v2:<contract>:<itemId>/thumbnail
func repairThumbnail(image, contract, itemID string) string {
	prefix, rest, found := strings.Cut(image, urnPrefix)
	if !found {
		return image
	}

	urn, suffix, hasSuffix := strings.Cut(rest, "/")
	segments := strings.Split(strings.TrimRight(urn, ":"), ":")
	if alias, ok := domain.URN_NETWORK_ALIASES[strings.ToLower(segments[0])]; ok {
		segments[0] = alias
	}

	if hasSuffix && suffix == thumbnailSuffix && contract != "" &&
		!strings.Contains(strings.ToLower(urn), strings.ToLower(contract)) {
		segments = append(segments, contract, itemID)
	}

	repaired := prefix + urnPrefix + strings.Join(segments, ":")
	if hasSuffix {
		repaired += "/" + suffix
	}
	return repaired
}
