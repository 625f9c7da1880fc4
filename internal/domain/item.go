package domain

import (
	"time"
)

// Item is a sellable catalog entry annotated with live availability and pricing
type Item struct {
	ID              string      `json:"id"`     // network scoped id: <contract>-<itemId>
	ItemID          string      `json:"itemId"` // on-chain item id within the collection
	ContractAddress string      `json:"contractAddress"`
	ItemType        ItemType    `json:"itemType"`
	Category        string      `json:"category"`
	Rarity          Rarity      `json:"rarity"`
	Creator         string      `json:"creator"`
	Beneficiary     *string     `json:"beneficiary"`
	URN             *string     `json:"urn"`
	Thumbnail       string      `json:"thumbnail"`
	Price           string      `json:"price"` // wei
	Available       int64       `json:"available"`
	IsOnSale        bool        `json:"isOnSale"`
	IsStoreMinter   bool        `json:"isStoreMinter"`
	FirstListedAt   *time.Time  `json:"firstListedAt"`
	Data            Metadata    `json:"data"`
	MinPrice        *string     `json:"minPrice"`
	MaxPrice        *string     `json:"maxPrice"`
	MinListingPrice *string     `json:"minListingPrice"`
	MaxListingPrice *string     `json:"maxListingPrice"`
	Listings        int64       `json:"listings"`
	Owners          *int64      `json:"owners"` // only computed for the not-for-sale view
	Network         Network     `json:"network"`
	ChainID         int64       `json:"chainId"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	ReviewedAt      *time.Time  `json:"reviewedAt"`
	SoldAt          *time.Time  `json:"soldAt"`
	Picks           *PicksStats `json:"picks,omitempty"`
}

// Metadata is a tagged union keyed by item type, exactly one variant is set
type Metadata struct {
	Wearable *WearableMetadata `json:"wearable,omitempty"`
	Emote    *EmoteMetadata    `json:"emote,omitempty"`
}

// Name returns the name of whichever variant is set
func (m Metadata) Name() string {
	switch {
	case m.Wearable != nil:
		return m.Wearable.Name
	case m.Emote != nil:
		return m.Emote.Name
	}
	return ""
}

// WearableMetadata describes a wearable
type WearableMetadata struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    WearableCategory `json:"category"`
	BodyShapes  []BodyShape      `json:"bodyShapes"`
	IsSmart     bool             `json:"isSmart"`
}

// EmoteMetadata describes an emote
type EmoteMetadata struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    EmoteCategory `json:"category"`
	BodyShapes  []BodyShape   `json:"bodyShapes"`
	Loop        bool          `json:"loop"`
}

// PicksStats is the favorites annotation of an item
type PicksStats struct {
	ItemID       string `json:"itemId"`
	Count        int64  `json:"count"`
	PickedByUser bool   `json:"pickedByUser"`
}

// CatalogResult is a page of catalog items with the total number of matches
type CatalogResult struct {
	Data  []Item `json:"data"`
	Total int64  `json:"total"`
}

// CollectionContract is an approved collection contract
type CollectionContract struct {
	Address string  `json:"address"`
	Name    string  `json:"name"`
	Creator string  `json:"creator"`
	Network Network `json:"network"`
}
