package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentraland/marketplace-server-sub001/internal/catalog/query"
)

func TestSearchPattern(t *testing.T) {
	assert.Equal(t, "%Foam Hand%", query.SearchPattern("Foam Hand"))
	assert.Equal(t, `%100\% real\_deal\\%`, query.SearchPattern(`100% real_deal\`))
}

func TestBuildSearchQuery(t *testing.T) {
	q, err := query.BuildSearchQuery(polygonTarget, "  Foam Hand ")
	require.NoError(t, err)

	assert.Contains(t, q.SQL, `FROM "squid_polygon_v2".items AS items`)
	assert.Contains(t, q.SQL, "ILIKE @search_pattern")
	assert.Contains(t, q.SQL, "ORDER BY names.similarity DESC, names.id ASC")
	assert.Equal(t, "Foam Hand", q.Params["search"])
	assert.Equal(t, "%Foam Hand%", q.Params["search_pattern"])

	_, err = query.BuildSearchQuery(query.Target{Schema: "1nvalid"}, "x")
	assert.ErrorContains(t, err, "invalid schema name")
}
