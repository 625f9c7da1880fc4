package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
	"github.com/decentraland/marketplace-server-sub001/internal/store/schema"
)

var schemaNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// quoteIdentifier validates and quotes a schema identifier
func quoteIdentifier(name string) (string, error) {
	if !schemaNameRegex.MatchString(name) {
		return "", fmt.Errorf("invalid schema name %q", name)
	}
	return `"` + name + `"`, nil
}

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// UseReadReplica routes read queries of db to the given replica.
// Writes and transactions started without a read clause keep using the primary.
func UseReadReplica(db *gorm.DB, replica gorm.Dialector) error {
	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{replica},
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return fmt.Errorf("failed to register read replica: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// MaxIdleConns must not exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// GetLatestSchema returns the most recently registered schema of a network
func (s *pgStore) GetLatestSchema(ctx context.Context, network domain.Network) (string, error) {
	query := func(db *gorm.DB) (string, error) {
		var row schema.NetworkSchema
		err := db.WithContext(ctx).
			Where("LOWER(network) = LOWER(?)", string(network)).
			Order("created_at DESC").
			Order("id DESC").
			First(&row).Error
		if err != nil {
			return "", err
		}
		return row.Schema, nil
	}

	name, err := query(s.db)
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) && hasDBResolver(s.db) {
		// Replica can lag behind primary; retry on primary before returning not found.
		name, err = query(s.db.Clauses(dbresolver.Write))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", &domain.SchemaNotFoundError{Network: network}
		}
		return "", fmt.Errorf("failed to get schema for network %s: %w", network, err)
	}

	return name, nil
}

// GetApprovedCollections lists the collections whose latest approval event is true
func (s *pgStore) GetApprovedCollections(ctx context.Context, schemaName string) ([]schema.Collection, error) {
	quoted, err := quoteIdentifier(schemaName)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf(`
		SELECT collections.id, collections.name, collections.creator, collections.created_at
		FROM %[1]s.collections AS collections
		JOIN (
			SELECT DISTINCT ON (events.collection_id) events.collection_id, events.value
			FROM %[1]s.collection_set_approved_events AS events
			ORDER BY events.collection_id, events.timestamp DESC, events.id DESC
		) AS approvals ON approvals.collection_id = collections.id
		WHERE approvals.value = true
		ORDER BY collections.created_at ASC, collections.id ASC
	`, quoted)

	var collections []schema.Collection
	if err := s.db.WithContext(ctx).Raw(stmt).Scan(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to list approved collections of schema %s: %w", schemaName, err)
	}

	return collections, nil
}

// WithConnection runs fn inside a read-only repeatable-read transaction.
// Every query of fn shares one pooled connection and one snapshot; the connection is
// returned to the pool when fn returns, including on error and panic.
func (s *pgStore) WithConnection(ctx context.Context, fn func(q Querier) error) error {
	return s.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Transaction(func(tx *gorm.DB) error {
			return fn(&pgQuerier{db: tx})
		}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}

type pgQuerier struct {
	db *gorm.DB
}

// Query runs stmt with named parameters and scans every row into a map
func (q *pgQuerier) Query(ctx context.Context, stmt string, params map[string]interface{}) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}

	db := q.db.WithContext(ctx)
	if len(params) > 0 {
		db = db.Raw(stmt, params)
	} else {
		db = db.Raw(stmt)
	}
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
