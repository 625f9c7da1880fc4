package cache

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentraland/marketplace-server-sub001/internal/mocks"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "marketplace", Key())
	assert.Equal(t, "marketplace:contracts:all", Key("contracts", "all"))
}

func TestRedisCache_Get(t *testing.T) {
	tests := []struct {
		name          string
		result        *redis.StringCmd
		expectedValue []byte
		expectedErr   error
		wantErr       bool
	}{
		{
			name:          "hit",
			result:        redis.NewStringResult(`["0xabc"]`, nil),
			expectedValue: []byte(`["0xabc"]`),
		},
		{
			name:        "miss",
			result:      redis.NewStringResult("", redis.Nil),
			expectedErr: ErrCacheMiss,
			wantErr:     true,
		},
		{
			name:    "connection error",
			result:  redis.NewStringResult("", assert.AnError),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mocks.NewMockRedisClient(ctrl)
			client.EXPECT().Get(gomock.Any(), "marketplace:key").Return(tt.result)

			value, err := NewRedisCache(client).Get(context.Background(), "marketplace:key")
			if tt.wantErr {
				require.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				} else {
					assert.NotErrorIs(t, err, ErrCacheMiss)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedValue, value)
		})
	}
}

func TestRedisCache_Set(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	client.EXPECT().
		Set(gomock.Any(), "marketplace:key", []byte("value"), time.Hour).
		Return(redis.NewStatusResult("OK", nil))
	client.EXPECT().
		Set(gomock.Any(), "marketplace:broken", gomock.Any(), time.Hour).
		Return(redis.NewStatusResult("", assert.AnError))

	c := NewRedisCache(client)
	require.NoError(t, c.Set(context.Background(), "marketplace:key", []byte("value"), time.Hour))
	assert.ErrorIs(t, c.Set(context.Background(), "marketplace:broken", []byte("value"), time.Hour), assert.AnError)
}

func TestMemoryCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().DoAndReturn(func() time.Time { return now }).AnyTimes()

	ctx := context.Background()
	c := NewMemoryCache(clock)

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	value := []byte("contracts")
	require.NoError(t, c.Set(ctx, "key", value, time.Hour))
	value[0] = 'X'

	got, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("contracts"), got)

	now = now.Add(59 * time.Minute)
	_, err = c.Get(ctx, "key")
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))
	now = now.Add(24 * time.Hour)
	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)
}
