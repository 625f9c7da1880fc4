package domain

import (
	"strings"
)

// Network represents a logical blockchain source with its own ingestion schema
type Network string

const (
	NetworkEthereum Network = "ETHEREUM"
	NetworkPolygon  Network = "POLYGON"
)

// IsValidNetwork checks if a network is valid
func IsValidNetwork(network Network) bool {
	return network == NetworkEthereum || network == NetworkPolygon
}

// ParseNetwork parses a network name case-insensitively
func ParseNetwork(s string) (Network, bool) {
	network := Network(strings.ToUpper(strings.TrimSpace(s)))
	if !IsValidNetwork(network) {
		return "", false
	}
	return network, true
}

// ItemType represents the kind of catalog item as indexed on chain
type ItemType string

const (
	ItemTypeWearableV1      ItemType = "wearable_v1"
	ItemTypeWearableV2      ItemType = "wearable_v2"
	ItemTypeSmartWearableV1 ItemType = "smart_wearable_v1"
	ItemTypeEmoteV1         ItemType = "emote_v1"
)

// WearableItemTypes is the wearable family of item types
var WearableItemTypes = []ItemType{ItemTypeWearableV1, ItemTypeWearableV2, ItemTypeSmartWearableV1}

// EmoteItemTypes is the emote family of item types
var EmoteItemTypes = []ItemType{ItemTypeEmoteV1}

// IsWearable reports whether the item type belongs to the wearable family
func (t ItemType) IsWearable() bool {
	return t == ItemTypeWearableV1 || t == ItemTypeWearableV2 || t == ItemTypeSmartWearableV1
}

// IsEmote reports whether the item type is an emote
func (t ItemType) IsEmote() bool {
	return t == ItemTypeEmoteV1
}

// ItemCategory is the top level category of an item
type ItemCategory string

const (
	ItemCategoryWearable ItemCategory = "wearable"
	ItemCategoryEmote    ItemCategory = "emote"
)

// Category returns the top level category of the item type
func (t ItemType) Category() ItemCategory {
	if t.IsEmote() {
		return ItemCategoryEmote
	}
	return ItemCategoryWearable
}

// Rarity represents the rarity of an item
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityExotic    Rarity = "exotic"
	RarityMythic    Rarity = "mythic"
	RarityUnique    Rarity = "unique"
)

// IsValidRarity checks if a rarity is valid
func IsValidRarity(rarity Rarity) bool {
	switch rarity {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic,
		RarityLegendary, RarityExotic, RarityMythic, RarityUnique:
		return true
	}
	return false
}

// WearableCategory represents the body slot of a wearable
type WearableCategory string

const (
	WearableCategoryEyebrows   WearableCategory = "eyebrows"
	WearableCategoryEyes       WearableCategory = "eyes"
	WearableCategoryFacialHair WearableCategory = "facial_hair"
	WearableCategoryHair       WearableCategory = "hair"
	WearableCategoryMouth      WearableCategory = "mouth"
	WearableCategoryUpperBody  WearableCategory = "upper_body"
	WearableCategoryLowerBody  WearableCategory = "lower_body"
	WearableCategoryFeet       WearableCategory = "feet"
	WearableCategoryEarring    WearableCategory = "earring"
	WearableCategoryEyewear    WearableCategory = "eyewear"
	WearableCategoryHat        WearableCategory = "hat"
	WearableCategoryHelmet     WearableCategory = "helmet"
	WearableCategoryMask       WearableCategory = "mask"
	WearableCategoryTiara      WearableCategory = "tiara"
	WearableCategoryTopHead    WearableCategory = "top_head"
	WearableCategorySkin       WearableCategory = "skin"
	WearableCategoryHandsWear  WearableCategory = "hands_wear"
)

var wearableCategories = map[WearableCategory]struct{}{
	WearableCategoryEyebrows: {}, WearableCategoryEyes: {}, WearableCategoryFacialHair: {},
	WearableCategoryHair: {}, WearableCategoryMouth: {}, WearableCategoryUpperBody: {},
	WearableCategoryLowerBody: {}, WearableCategoryFeet: {}, WearableCategoryEarring: {},
	WearableCategoryEyewear: {}, WearableCategoryHat: {}, WearableCategoryHelmet: {},
	WearableCategoryMask: {}, WearableCategoryTiara: {}, WearableCategoryTopHead: {},
	WearableCategorySkin: {}, WearableCategoryHandsWear: {},
}

// IsValidWearableCategory checks if a wearable category is valid
func IsValidWearableCategory(category WearableCategory) bool {
	_, ok := wearableCategories[category]
	return ok
}

// EmoteCategory represents the kind of animation of an emote
type EmoteCategory string

const (
	EmoteCategoryDance         EmoteCategory = "dance"
	EmoteCategoryStunt         EmoteCategory = "stunt"
	EmoteCategoryGreetings     EmoteCategory = "greetings"
	EmoteCategoryFun           EmoteCategory = "fun"
	EmoteCategoryPoses         EmoteCategory = "poses"
	EmoteCategoryReactions     EmoteCategory = "reactions"
	EmoteCategoryHorror        EmoteCategory = "horror"
	EmoteCategoryMiscellaneous EmoteCategory = "miscellaneous"
)

var emoteCategories = map[EmoteCategory]struct{}{
	EmoteCategoryDance: {}, EmoteCategoryStunt: {}, EmoteCategoryGreetings: {}, EmoteCategoryFun: {},
	EmoteCategoryPoses: {}, EmoteCategoryReactions: {}, EmoteCategoryHorror: {}, EmoteCategoryMiscellaneous: {},
}

// IsValidEmoteCategory checks if an emote category is valid
func IsValidEmoteCategory(category EmoteCategory) bool {
	_, ok := emoteCategories[category]
	return ok
}

// BodyShape represents an avatar body shape a wearable or emote supports
type BodyShape string

const (
	BodyShapeMale   BodyShape = "BaseMale"
	BodyShapeFemale BodyShape = "BaseFemale"
)

// WearableGender is the gender filter exposed to callers
type WearableGender string

const (
	WearableGenderMale   WearableGender = "male"
	WearableGenderFemale WearableGender = "female"
)

// BodyShape converts a gender filter value to the indexed body shape
func (g WearableGender) BodyShape() (BodyShape, bool) {
	switch WearableGender(strings.ToLower(string(g))) {
	case WearableGenderMale:
		return BodyShapeMale, true
	case WearableGenderFemale:
		return BodyShapeFemale, true
	}
	return "", false
}

// EmotePlayMode tells whether an emote plays once or loops
type EmotePlayMode string

const (
	EmotePlayModeSimple EmotePlayMode = "simple"
	EmotePlayModeLoop   EmotePlayMode = "loop"
)

// SortBy is the catalog ordering
type SortBy string

const (
	SortByNewest         SortBy = "newest"
	SortByMostExpensive  SortBy = "most_expensive"
	SortByRecentlyListed SortBy = "recently_listed"
	SortByRecentlySold   SortBy = "recently_sold"
	SortByCheapest       SortBy = "cheapest"
)

// IsValidSortBy checks if a sort option is valid
func IsValidSortBy(sortBy SortBy) bool {
	switch sortBy {
	case SortByNewest, SortByMostExpensive, SortByRecentlyListed, SortByRecentlySold, SortByCheapest:
		return true
	}
	return false
}

// SortDirection overrides the primary direction of a sort option
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)
