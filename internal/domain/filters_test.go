package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCatalogFilters_Validate(t *testing.T) {
	assert.NoError(t, (&CatalogFilters{OnlyListing: true}).Validate())
	assert.NoError(t, (&CatalogFilters{OnlyMinting: true}).Validate())
	assert.ErrorIs(t, (&CatalogFilters{OnlyListing: true, OnlyMinting: true}).Validate(), ErrConflictingSaleFilters)
}

func TestCatalogFilters_HasPriceRange(t *testing.T) {
	price := decimal.NewFromInt(10)
	assert.False(t, (&CatalogFilters{}).HasPriceRange())
	assert.True(t, (&CatalogFilters{MinPrice: &price}).HasPriceRange())
	assert.True(t, (&CatalogFilters{MaxPrice: &price}).HasPriceRange())
}

func TestCatalogFilters_IsNotOnSaleView(t *testing.T) {
	onSale, notOnSale := true, false
	assert.False(t, (&CatalogFilters{}).IsNotOnSaleView())
	assert.False(t, (&CatalogFilters{IsOnSale: &onSale}).IsNotOnSaleView())
	assert.True(t, (&CatalogFilters{IsOnSale: &notOnSale}).IsNotOnSaleView())
}

func TestCatalogFilters_AllCreators(t *testing.T) {
	filters := CatalogFilters{
		Creator:  "0x742D35CC6634C0532925A3B844BC9E7595F0BEB1",
		Creators: []string{"0x742d35cc6634c0532925a3b844bc9e7595f0beb1", "0xABC", ""},
	}
	assert.Equal(t, []string{"0x742d35cc6634c0532925a3b844bc9e7595f0beb1", "0xabc"}, filters.AllCreators())
	assert.Empty(t, (&CatalogFilters{}).AllCreators())
}

func TestNormalizeAddresses(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil",
			input:    nil,
			expected: []string{},
		},
		{
			name:     "checksummed address",
			input:    []string{"0x214FFC0F0103735728DC66b61A22e4F163e275ae"},
			expected: []string{POLYGON_STORE_MINTER},
		},
		{
			name:     "duplicates and blanks",
			input:    []string{" 0xAbC ", "0xabc", "  "},
			expected: []string{"0xabc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAddresses(tt.input))
		})
	}
}

func TestErrors(t *testing.T) {
	var schemaErr error = &SchemaNotFoundError{Network: NetworkPolygon}
	assert.ErrorIs(t, schemaErr, ErrSchemaNotFound)
	assert.NotErrorIs(t, schemaErr, ErrUnknownItemType)
	assert.Equal(t, "no schema registered for network POLYGON", schemaErr.Error())

	var itemErr error = &UnknownItemTypeError{ItemType: "land", ItemID: "0xa-1"}
	assert.ErrorIs(t, itemErr, ErrUnknownItemType)
	assert.Equal(t, `unknown item type "land" for item 0xa-1`, itemErr.Error())

	var target *UnknownItemTypeError
	assert.True(t, errors.As(itemErr, &target))
	assert.Equal(t, "0xa-1", target.ItemID)
}

func TestMetadata_Name(t *testing.T) {
	assert.Equal(t, "Hat", Metadata{Wearable: &WearableMetadata{Name: "Hat"}}.Name())
	assert.Equal(t, "Dance", Metadata{Emote: &EmoteMetadata{Name: "Dance"}}.Name())
	assert.Equal(t, "", Metadata{}.Name())
}
