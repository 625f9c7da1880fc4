package store

import (
	"context"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
	"github.com/decentraland/marketplace-server-sub001/internal/store/schema"
)

//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore,Querier=MockQuerier

// Store defines the interface for catalog database operations
type Store interface {
	// GetLatestSchema returns the currently active ingestion schema of a network
	GetLatestSchema(ctx context.Context, network domain.Network) (string, error)
	// GetApprovedCollections lists the collections of a schema whose latest approval is true
	GetApprovedCollections(ctx context.Context, schemaName string) ([]schema.Collection, error)
	// WithConnection runs fn on a single pooled connection which is released when fn returns
	WithConnection(ctx context.Context, fn func(q Querier) error) error
}

// Querier executes read queries with gorm named parameters
type Querier interface {
	// Query runs sql and returns every row keyed by column name
	Query(ctx context.Context, sql string, params map[string]interface{}) ([]map[string]interface{}, error)
}
