// Package storetest seeds catalog databases for integration tests
package storetest

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/decentraland/marketplace-server-sub001/db"
	"github.com/decentraland/marketplace-server-sub001/internal/domain"
)

// Network seeds one network ingestion schema
type Network struct {
	db     *gorm.DB
	Schema string
	seq    int
}

// NewNetwork creates the tables of schemaName and registers it as the active schema of network
func NewNetwork(tx *gorm.DB, network domain.Network, schemaName string) (*Network, error) {
	if err := tx.Exec(db.NetworkTablesSQL(schemaName)).Error; err != nil {
		return nil, fmt.Errorf("failed to create network tables: %w", err)
	}
	if err := RegisterSchema(tx, string(network), schemaName); err != nil {
		return nil, err
	}
	return &Network{db: tx, Schema: schemaName}, nil
}

// RegisterSchema inserts a network_schemas row
func RegisterSchema(tx *gorm.DB, network, schemaName string) error {
	err := tx.Exec(
		"INSERT INTO network_schemas (network, schema, metadata, created_at) VALUES (?, ?, ?::jsonb, clock_timestamp())",
		network, schemaName, `{"source":"test"}`,
	).Error
	if err != nil {
		return fmt.Errorf("failed to register schema: %w", err)
	}
	return nil
}

func (n *Network) nextID(prefix string) string {
	n.seq++
	return fmt.Sprintf("%s-%d", prefix, n.seq)
}

func (n *Network) exec(table string, columns []string, values ...interface{}) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	sql := fmt.Sprintf(`INSERT INTO "%s".%s (%s) VALUES (%s)`, n.Schema, table, strings.Join(columns, ", "), placeholders)
	if err := n.db.Exec(sql, values...).Error; err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// Collection inserts a collection with an approval event
func (n *Network) Collection(address, name, creator string, createdAt int64, approved bool) error {
	if err := n.exec("collections", []string{"id", "name", "creator", "created_at"}, address, name, creator, createdAt); err != nil {
		return err
	}
	return n.SetApproved(address, approved, createdAt)
}

// SetApproved appends a collection approval event
func (n *Network) SetApproved(collection string, approved bool, timestamp int64) error {
	return n.exec("collection_set_approved_events", []string{"id", "collection_id", "value", "timestamp"},
		n.nextID("approval"), collection, approved, timestamp)
}

// Item describes an item row and its latest metadata
type Item struct {
	Collection   string
	BlockchainID int64
	ItemType     domain.ItemType
	Rarity       domain.Rarity
	Creator      string
	Price        string
	MaxSupply    int64
	URN          string
	Image        string
	CreatedAt    int64
	SoldAt       *int64

	Name        string
	Category    string
	BodyShapes  []string
	Loop        *bool
	IsHead      bool
	IsAccessory bool
}

// ID returns the catalog id of the item
func (i Item) ID() string {
	return fmt.Sprintf("%s-%d", i.Collection, i.BlockchainID)
}

// Item inserts an item with its metadata snapshot and returns its id
func (n *Network) Item(item Item) (string, error) {
	id := item.ID()
	if item.Rarity == "" {
		item.Rarity = domain.RarityCommon
	}
	if item.Creator == "" {
		item.Creator = "0x0000000000000000000000000000000000000c0c"
	}

	err := n.exec("items",
		[]string{"id", "blockchain_id", "collection_id", "item_type", "rarity", "creator", "beneficiary", "price", "max_supply",
			"urn", "image", "search_is_wearable_head", "search_is_wearable_accessory", "created_at", "updated_at", "sold_at"},
		id, item.BlockchainID, item.Collection, string(item.ItemType), string(item.Rarity), item.Creator, item.Creator, item.Price, item.MaxSupply,
		item.URN, item.Image, item.IsHead, item.IsAccessory, item.CreatedAt, item.CreatedAt, item.SoldAt,
	)
	if err != nil {
		return "", err
	}

	shapes := pq.StringArray(item.BodyShapes)
	metadataID := id + "-metadata"
	if item.ItemType.IsEmote() {
		if err := n.exec("emote", []string{"id", "name", "description", "category", "body_shapes", "loop"},
			metadataID, item.Name, "", item.Category, shapes, item.Loop); err != nil {
			return "", err
		}
		err = n.exec("metadata", []string{"id", "item_id", "item_type", "emote_id", "timestamp"},
			metadataID, id, string(item.ItemType), metadataID, item.CreatedAt)
	} else {
		if err := n.exec("wearable", []string{"id", "name", "description", "category", "body_shapes"},
			metadataID, item.Name, "", item.Category, shapes); err != nil {
			return "", err
		}
		err = n.exec("metadata", []string{"id", "item_id", "item_type", "wearable_id", "timestamp"},
			metadataID, id, string(item.ItemType), metadataID, item.CreatedAt)
	}
	if err != nil {
		return "", err
	}

	return id, nil
}

// Mint inserts count minted instances of an item
func (n *Network) Mint(itemID string, count int, owner string, timestamp int64) error {
	for range count {
		if err := n.exec("nfts", []string{"id", "item_id", "owner", "created_at"}, n.nextID("nft"), itemID, owner, timestamp); err != nil {
			return err
		}
	}
	return nil
}

// SetItemMinter appends an item level minter authorization event
func (n *Network) SetItemMinter(itemID, minter string, active bool, timestamp int64) error {
	return n.exec("item_minters_events", []string{"id", "item_id", "minter", "value", "timestamp"},
		n.nextID("item-minter"), itemID, strings.ToLower(minter), active, timestamp)
}

// SetCollectionMinter appends a collection level minter authorization event
func (n *Network) SetCollectionMinter(collection, minter string, active bool, timestamp int64) error {
	return n.exec("collection_minters_events", []string{"id", "collection_id", "minter", "value", "timestamp"},
		n.nextID("collection-minter"), collection, strings.ToLower(minter), active, timestamp)
}

// UpdatePrice appends a price update event
func (n *Network) UpdatePrice(itemID, price string, timestamp int64) error {
	return n.exec("update_item_data_events", []string{"id", "item_id", "price", "timestamp"},
		n.nextID("price"), itemID, price, timestamp)
}

// Order inserts an order; expiresAt is in milliseconds
func (n *Network) Order(itemID, price, status string, expiresAt, createdAt int64) error {
	return n.exec("orders", []string{"id", "item_id", "nft_id", "price", "status", "expires_at", "created_at"},
		n.nextID("order"), itemID, itemID+"-nft", price, status, expiresAt, createdAt)
}
