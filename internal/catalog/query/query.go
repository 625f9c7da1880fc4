// Package query builds the parameterized SQL behind catalog fetches.
//
// Every builder is pure: it takes filters and targets and returns SQL text with
// gorm named parameters (@name) plus the matching Params map. Named parameters
// must always be followed by a space, a comma or a closing parenthesis, which is
// why casts are written as CAST(@name AS type).
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
)

// Params holds the named parameters of a query
type Params map[string]interface{}

// Query is SQL text plus its named parameters
type Query struct {
	SQL    string
	Params Params
}

// Target is one network whose schema takes part in a catalog query
type Target struct {
	Network domain.Network
	// Schema is the currently active ingestion schema of the network
	Schema string
	// StoreMinter is the marketplace minter address whose authorizations enable primary sales
	StoreMinter string
}

var schemaNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// quoteSchema validates and quotes a schema identifier
func quoteSchema(schema string) (string, error) {
	if !schemaNameRegex.MatchString(schema) {
		return "", fmt.Errorf("invalid schema name %q", schema)
	}
	return `"` + schema + `"`, nil
}

// storeMinterParam returns the parameter name holding the store minter of a network
func storeMinterParam(network domain.Network) string {
	return "store_minter_" + strings.ToLower(string(network))
}

// networkLiteral returns the network as a SQL text literal
func networkLiteral(network domain.Network) (string, error) {
	if !domain.IsValidNetwork(network) {
		return "", fmt.Errorf("invalid network %q", network)
	}
	return fmt.Sprintf("'%s'::text", network), nil
}

func itemTypesLiteral(types []domain.ItemType) string {
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = "'" + string(t) + "'"
	}
	return strings.Join(quoted, ", ")
}
