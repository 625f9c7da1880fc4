package query

import (
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchPattern returns the ILIKE pattern matching names that contain term
func SearchPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// BuildSearchQuery builds the similarity query of one network.
// Rows are (id, similarity) where similarity is the share of the name covered by the term,
// 1 for a case-insensitive exact match.
func BuildSearchQuery(target Target, term string) (Query, error) {
	schema, err := quoteSchema(target.Schema)
	if err != nil {
		return Query{}, err
	}

	sql := fmt.Sprintf(`WITH %s
	SELECT names.id, names.similarity
	FROM (
		SELECT items.id,
			CASE
				WHEN LOWER(COALESCE(wearable.name, emote.name)) = LOWER(CAST(@search AS text)) THEN 1.0::float8
				ELSE LENGTH(CAST(@search AS text))::float8 / GREATEST(LENGTH(COALESCE(wearable.name, emote.name)), 1)::float8
			END AS similarity
		FROM %s.items AS items
		JOIN latest_metadata ON latest_metadata.item_id = items.id
		LEFT JOIN %s.wearable AS wearable ON wearable.id = latest_metadata.wearable_id
		LEFT JOIN %s.emote AS emote ON emote.id = latest_metadata.emote_id
		WHERE COALESCE(wearable.name, emote.name) ILIKE @search_pattern
	) AS names
	ORDER BY names.similarity DESC, names.id ASC`,
		latestEventCTE("latest_metadata", schema+".metadata", "item_id", []string{"wearable_id", "emote_id"}, ""),
		schema, schema, schema,
	)

	return Query{
		SQL: sql,
		Params: Params{
			"search":         strings.TrimSpace(term),
			"search_pattern": SearchPattern(strings.TrimSpace(term)),
		},
	}, nil
}
