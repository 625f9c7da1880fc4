package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// CatalogFilters is the set of filters a catalog fetch accepts.
// Zero values mean "not requested".
type CatalogFilters struct {
	Category            *ItemCategory
	IsWearableSmart     bool
	WearableCategory    string
	EmoteCategory       string
	WearableGenders     []WearableGender
	EmotePlayMode       []EmotePlayMode
	Rarities            []Rarity
	ContractAddresses   []string
	IDs                 []string
	Creator             string
	Creators            []string
	MinPrice            *decimal.Decimal
	MaxPrice            *decimal.Decimal
	IsSoldOut           bool
	IsWearableHead      bool
	IsWearableAccessory bool
	OnlyListing         bool
	OnlyMinting         bool
	IsOnSale            *bool
	SortBy              SortBy
	SortDirection       SortDirection
	Limit               *int
	Offset              *int
	Search              string
	Networks            []Network
	PickedBy            string
}

// Validate reports caller level conflicts that must be rejected before querying
func (f *CatalogFilters) Validate() error {
	if f.OnlyListing && f.OnlyMinting {
		return ErrConflictingSaleFilters
	}
	return nil
}

// HasPriceRange reports whether a min or max price was requested
func (f *CatalogFilters) HasPriceRange() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

// IsNotOnSaleView reports whether the caller asked for items that are not for sale
func (f *CatalogFilters) IsNotOnSaleView() bool {
	return f.IsOnSale != nil && !*f.IsOnSale
}

// AllCreators merges the single creator and the creators list
func (f *CatalogFilters) AllCreators() []string {
	creators := make([]string, 0, len(f.Creators)+1)
	if f.Creator != "" {
		creators = append(creators, f.Creator)
	}
	creators = append(creators, f.Creators...)
	return NormalizeAddresses(creators)
}

// NormalizeAddresses lower-cases hex addresses and drops empty values
func NormalizeAddresses(addresses []string) []string {
	normalized := make([]string, 0, len(addresses))
	seen := make(map[string]struct{}, len(addresses))
	for _, address := range addresses {
		address = strings.TrimSpace(address)
		if address == "" {
			continue
		}
		if common.IsHexAddress(address) {
			address = strings.ToLower(common.HexToAddress(address).Hex())
		} else {
			address = strings.ToLower(address)
		}
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		normalized = append(normalized, address)
	}
	return normalized
}
