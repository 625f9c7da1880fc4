package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/decentraland/marketplace-server-sub001/internal/catalog/query"
	"github.com/decentraland/marketplace-server-sub001/internal/store"
	"github.com/decentraland/marketplace-server-sub001/internal/types"
)

type searchCandidate struct {
	id         string
	similarity float64
}

// searchItemIDs runs the name search on every target and returns the matching item ids,
// best match first
func searchItemIDs(ctx context.Context, q store.Querier, targets []query.Target, term string) ([]string, error) {
	var candidates []searchCandidate
	for _, target := range targets {
		searchQuery, err := query.BuildSearchQuery(target, term)
		if err != nil {
			return nil, err
		}

		rows, err := q.Query(ctx, searchQuery.SQL, searchQuery.Params)
		if err != nil {
			return nil, fmt.Errorf("failed to search network %s: %w", target.Network, err)
		}

		for _, row := range rows {
			r := types.Row(row)
			candidates = append(candidates, searchCandidate{
				id:         r.String("id"),
				similarity: similarity(r),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].similarity != candidates[j].similarity {
			return candidates[i].similarity > candidates[j].similarity
		}
		return candidates[i].id < candidates[j].id
	})

	ids := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.id]; ok {
			continue
		}
		seen[c.id] = struct{}{}
		ids = append(ids, c.id)
	}
	return ids, nil
}

// restrictIDs keeps the ranked ids that are also in allowed. A nil allowed list keeps everything.
func restrictIDs(ranked, allowed []string) []string {
	if allowed == nil {
		return ranked
	}
	set := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		set[id] = struct{}{}
	}
	ids := make([]string, 0, len(ranked))
	for _, id := range ranked {
		if _, ok := set[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func similarity(r types.Row) float64 {
	if f, ok := r["similarity"].(float64); ok {
		return f
	}
	f, err := strconv.ParseFloat(r.String("similarity"), 64)
	if err != nil {
		return 0
	}
	return f
}
