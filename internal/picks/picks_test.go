package picks

import (
	"context"
	"io"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
	"github.com/decentraland/marketplace-server-sub001/internal/mocks"
)

func TestHTTPStatsProvider_GetPicksStats(t *testing.T) {
	tests := []struct {
		name        string
		itemIDs     []string
		pickedBy    string
		setupMocks  func(*mocks.MockHTTPClient)
		expected    map[string]domain.PicksStats
		expectedErr string
	}{
		{
			name:       "no items",
			itemIDs:    nil,
			setupMocks: func(client *mocks.MockHTTPClient) {},
			expected:   map[string]domain.PicksStats{},
		},
		{
			name:     "stats keyed by item",
			itemIDs:  []string{"0xa-1", "0xb-2"},
			pickedBy: "0xUSER",
			setupMocks: func(client *mocks.MockHTTPClient) {
				client.EXPECT().
					Post(gomock.Any(), "https://picks.example.com/v1/picks/stats", "application/json", gomock.Any()).
					DoAndReturn(func(ctx context.Context, url, contentType string, body io.Reader) ([]byte, error) {
						payload, err := io.ReadAll(body)
						require.NoError(t, err)
						assert.JSONEq(t, `{"itemIds":["0xa-1","0xb-2"],"pickedBy":"0xuser"}`, string(payload))
						return []byte(`{"ok":true,"data":[{"itemId":"0xa-1","count":4,"pickedByUser":true},{"itemId":"0xb-2","count":0,"pickedByUser":false}]}`), nil
					})
			},
			expected: map[string]domain.PicksStats{
				"0xa-1": {ItemID: "0xa-1", Count: 4, PickedByUser: true},
				"0xb-2": {ItemID: "0xb-2", Count: 0, PickedByUser: false},
			},
		},
		{
			name:    "transport error",
			itemIDs: []string{"0xa-1"},
			setupMocks: func(client *mocks.MockHTTPClient) {
				client.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
			},
			expectedErr: "failed to fetch picks stats",
		},
		{
			name:    "service error",
			itemIDs: []string{"0xa-1"},
			setupMocks: func(client *mocks.MockHTTPClient) {
				client.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]byte(`{"ok":false,"error":"boom"}`), nil)
			},
			expectedErr: "picks service error: boom",
		},
		{
			name:    "malformed response",
			itemIDs: []string{"0xa-1"},
			setupMocks: func(client *mocks.MockHTTPClient) {
				client.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte(`<html>`), nil)
			},
			expectedErr: "failed to decode picks stats",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mocks.NewMockHTTPClient(ctrl)
			tt.setupMocks(client)

			provider := NewHTTPStatsProvider(client, "https://picks.example.com/")
			stats, err := provider.GetPicksStats(context.Background(), tt.itemIDs, tt.pickedBy)

			if tt.expectedErr != "" {
				assert.ErrorContains(t, err, tt.expectedErr)
				assert.Nil(t, stats)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stats)
		})
	}
}
