package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PerpParity/internal/domain/models"
)

func TestKafkaBarsHandlerStoresValidBar(t *testing.T) {
	store := newFakeStore()
	h := NewKafkaBarsHandler("daily-bars", store, noopMetrics{})
	assert.Equal(t, "daily-bars", h.Topic())

	payload, err := json.Marshal(models.DailyBar{
		AssetID:        "BTC",
		Source:         models.SourceDeFi,
		Date:           time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		Open:           100,
		High:           110,
		Low:            95,
		Close:          105,
		Volume:         1000,
		NotionalVolume: 105000,
		NumTrades:      42,
	})
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), payload))
	require.Len(t, store.bars, 1)
	bar := store.bars[0]
	assert.Equal(t, "BTC", bar.AssetID)
	// Intraday timestamps are normalized to the UTC day.
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), bar.Date)
}

func TestKafkaBarsHandlerRejectsBadPayloads(t *testing.T) {
	store := newFakeStore()
	h := NewKafkaBarsHandler("daily-bars", store, noopMetrics{})

	assert.Error(t, h.Handle(context.Background(), []byte("not json")))

	// Unknown source tag fails validation.
	payload, err := json.Marshal(map[string]interface{}{
		"asset_id": "BTC",
		"source":   "cex",
		"date":     "2025-03-10T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Error(t, h.Handle(context.Background(), payload))

	// Negative volume fails validation.
	payload, err = json.Marshal(map[string]interface{}{
		"asset_id": "BTC",
		"source":   "defi",
		"date":     "2025-03-10T00:00:00Z",
		"volume":   -5,
	})
	require.NoError(t, err)
	assert.Error(t, h.Handle(context.Background(), payload))

	assert.Empty(t, store.bars)
}
