package storetest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/decentraland/marketplace-server-sub001/db"
)

// Database is a PostgreSQL database initialized with the schema registry
type Database struct {
	DB        *gorm.DB
	container *postgres.PostgresContainer
}

// StartDatabase connects to the database named by TEST_DB_* variables, or starts a
// PostgreSQL container when TEST_DB_HOST is not set.
func StartDatabase(ctx context.Context) (*Database, error) {
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbUser := os.Getenv("TEST_DB_USER")
	dbPassword := os.Getenv("TEST_DB_PASSWORD")
	dbName := os.Getenv("TEST_DB_NAME")

	database := &Database{}
	var dsn string
	var err error

	if dbHost != "" {
		// Use external database
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
	} else {
		// Start a PostgreSQL container for testing
		database.container, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
		}

		dsn, err = database.container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			database.Close(ctx)
			return nil, fmt.Errorf("failed to get connection string: %w", err)
		}

		fmt.Printf("Started PostgreSQL container\n")
	}

	database.DB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		database.Close(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.DB.Exec(db.InitSQL).Error; err != nil {
		database.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return database, nil
}

// Close terminates the container, if one was started
func (d *Database) Close(ctx context.Context) {
	if d.container == nil {
		return
	}
	if err := d.container.Terminate(ctx); err != nil {
		fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
	}
}

// Begin starts a transaction that is rolled back when the test ends
func (d *Database) Begin(t *testing.T) *gorm.DB {
	tx := d.DB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return tx
}
