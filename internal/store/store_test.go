package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
	"github.com/decentraland/marketplace-server-sub001/internal/store/storetest"
)

// RunStoreTests runs the store test suite against a store implementation.
// initDB returns a fresh store and the handle used to seed it.
func RunStoreTests(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	t.Run("GetLatestSchema", func(t *testing.T) {
		testGetLatestSchema(t, initDB)
	})
	t.Run("GetApprovedCollections", func(t *testing.T) {
		testGetApprovedCollections(t, initDB)
	})
	t.Run("WithConnection", func(t *testing.T) {
		testWithConnection(t, initDB)
	})
}

func testGetLatestSchema(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		store, _ := initDB(t)

		_, err := store.GetLatestSchema(ctx, domain.NetworkEthereum)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSchemaNotFound)

		var notFound *domain.SchemaNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, domain.NetworkEthereum, notFound.Network)
	})

	t.Run("latest registration wins", func(t *testing.T) {
		store, tx := initDB(t)
		require.NoError(t, storetest.RegisterSchema(tx, "POLYGON", "squid_polygon_v1"))
		require.NoError(t, storetest.RegisterSchema(tx, "POLYGON", "squid_polygon_v2"))
		require.NoError(t, storetest.RegisterSchema(tx, "ETHEREUM", "squid_ethereum_v1"))

		name, err := store.GetLatestSchema(ctx, domain.NetworkPolygon)
		require.NoError(t, err)
		assert.Equal(t, "squid_polygon_v2", name)

		name, err = store.GetLatestSchema(ctx, domain.NetworkEthereum)
		require.NoError(t, err)
		assert.Equal(t, "squid_ethereum_v1", name)
	})

	t.Run("network is matched case-insensitively", func(t *testing.T) {
		store, tx := initDB(t)
		require.NoError(t, storetest.RegisterSchema(tx, "polygon", "squid_polygon_lower"))

		name, err := store.GetLatestSchema(ctx, domain.NetworkPolygon)
		require.NoError(t, err)
		assert.Equal(t, "squid_polygon_lower", name)
	})
}

func testGetApprovedCollections(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	ctx := context.Background()

	t.Run("only collections whose latest approval is true", func(t *testing.T) {
		store, tx := initDB(t)
		network, err := storetest.NewNetwork(tx, domain.NetworkPolygon, "collections_test")
		require.NoError(t, err)

		require.NoError(t, network.Collection("0xaaa", "Approved", "0xc1", 100, true))
		require.NoError(t, network.Collection("0xbbb", "Never approved", "0xc2", 200, false))
		require.NoError(t, network.Collection("0xccc", "Revoked", "0xc3", 300, true))
		require.NoError(t, network.SetApproved("0xccc", false, 400))
		require.NoError(t, network.Collection("0xddd", "Reapproved", "0xc4", 500, false))
		require.NoError(t, network.SetApproved("0xddd", true, 600))

		collections, err := store.GetApprovedCollections(ctx, "collections_test")
		require.NoError(t, err)
		require.Len(t, collections, 2)
		assert.Equal(t, "0xaaa", collections[0].ID)
		assert.Equal(t, "Approved", collections[0].Name)
		assert.Equal(t, "0xc1", collections[0].Creator)
		assert.Equal(t, int64(100), collections[0].CreatedAt)
		assert.Equal(t, "0xddd", collections[1].ID)
	})

	t.Run("invalid schema name", func(t *testing.T) {
		store, _ := initDB(t)

		_, err := store.GetApprovedCollections(ctx, `x"; DROP TABLE network_schemas; --`)
		assert.ErrorContains(t, err, "invalid schema name")
	})
}

func testWithConnection(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	ctx := context.Background()

	t.Run("named parameters", func(t *testing.T) {
		store, _ := initDB(t)

		var rows []map[string]interface{}
		err := store.WithConnection(ctx, func(q Querier) error {
			var err error
			rows, err = q.Query(ctx,
				"SELECT CAST(@name AS text) AS name, CAST(@count AS bigint) AS count, 'x' = ANY(CAST(@values AS text[])) AS found",
				map[string]interface{}{"name": "catalog", "count": 3, "values": pq.StringArray{"x", "y"}})
			return err
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "catalog", rows[0]["name"])
		assert.Equal(t, int64(3), rows[0]["count"])
		assert.Equal(t, true, rows[0]["found"])
	})

	t.Run("queries share one connection", func(t *testing.T) {
		store, _ := initDB(t)

		var first, second []map[string]interface{}
		err := store.WithConnection(ctx, func(q Querier) error {
			var err error
			if first, err = q.Query(ctx, "SELECT pg_backend_pid() AS pid", nil); err != nil {
				return err
			}
			second, err = q.Query(ctx, "SELECT pg_backend_pid() AS pid", nil)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, first[0]["pid"], second[0]["pid"])
	})

	t.Run("errors are returned", func(t *testing.T) {
		store, _ := initDB(t)

		err := store.WithConnection(ctx, func(q Querier) error {
			_, err := q.Query(ctx, "SELECT * FROM missing_schema.items", nil)
			return err
		})
		assert.Error(t, err)

		err = store.WithConnection(ctx, func(q Querier) error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
	})
}
