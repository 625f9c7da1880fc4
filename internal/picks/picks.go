// Package picks reads favorites statistics used to annotate catalog items
package picks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/decentraland/marketplace-server-sub001/internal/adapter"
	"github.com/decentraland/marketplace-server-sub001/internal/domain"
)

// StatsProvider returns the picks stats of items
//
//go:generate mockgen -source=picks.go -destination=../mocks/picks.go -package=mocks -mock_names=StatsProvider=MockStatsProvider
type StatsProvider interface {
	// GetPicksStats returns stats keyed by item id. pickedBy is optional and fills PickedByUser.
	GetPicksStats(ctx context.Context, itemIDs []string, pickedBy string) (map[string]domain.PicksStats, error)
}

type statsRequest struct {
	ItemIDs  []string `json:"itemIds"`
	PickedBy string   `json:"pickedBy,omitempty"`
}

type statsResponse struct {
	Ok    bool                `json:"ok"`
	Data  []domain.PicksStats `json:"data"`
	Error string              `json:"error,omitempty"`
}

type httpStatsProvider struct {
	client  adapter.HTTPClient
	baseURL string
}

// NewHTTPStatsProvider creates a provider calling the favorites service at baseURL
func NewHTTPStatsProvider(client adapter.HTTPClient, baseURL string) StatsProvider {
	return &httpStatsProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GetPicksStats fetches the stats of every item in one request
func (p *httpStatsProvider) GetPicksStats(ctx context.Context, itemIDs []string, pickedBy string) (map[string]domain.PicksStats, error) {
	stats := make(map[string]domain.PicksStats, len(itemIDs))
	if len(itemIDs) == 0 {
		return stats, nil
	}

	body, err := json.Marshal(statsRequest{ItemIDs: itemIDs, PickedBy: strings.ToLower(pickedBy)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode picks request: %w", err)
	}

	respBody, err := p.client.Post(ctx, p.baseURL+"/v1/picks/stats", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch picks stats: %w", err)
	}

	var resp statsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode picks stats: %w", err)
	}
	if !resp.Ok {
		return nil, fmt.Errorf("picks service error: %s", resp.Error)
	}

	for _, s := range resp.Data {
		stats[s.ItemID] = s
	}
	return stats, nil
}
