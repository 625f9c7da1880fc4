package schema

import (
	"time"

	"gorm.io/datatypes"
)

// NetworkSchema represents the network_schemas table - registry of ingestion schemas written by the indexer
type NetworkSchema struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Network is the logical network name, matched case-insensitively
	Network string `gorm:"column:network;not null;type:text"`
	// Schema is the postgres schema holding the network's tables
	Schema string `gorm:"column:schema;not null;type:text"`
	// Metadata carries indexer bookkeeping such as the indexer version
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// CreatedAt is when the schema was registered, the latest registration is the active one
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the NetworkSchema model
func (NetworkSchema) TableName() string {
	return "network_schemas"
}
