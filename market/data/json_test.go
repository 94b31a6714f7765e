package data

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	t.Parallel()

	t.Run("bare positional array", func(t *testing.T) {
		t.Parallel()
		in := `[[1700000000000, 10, 11, 9, 10.5, 1200], [1700000060000, 10.5, 12, 10, 11.5, 900]]`
		bars, err := ReadJSON(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, bars, 2)
		assert.Equal(t, time.UnixMilli(1700000000000).UTC(), bars[0].Time)
		assert.Equal(t, 11.5, bars[1].Close)
	})

	t.Run("candles key with keyed records", func(t *testing.T) {
		t.Parallel()
		in := `{"candles": [{"date": "2024-01-02T09:15:00Z", "open": 100, "high": 101, "low": 99, "close": 100.5, "volume": 1200}]}`
		bars, err := ReadJSON(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, bars, 1)
		assert.Equal(t, 100.5, bars[0].Close)
	})

	t.Run("malformed rows dropped", func(t *testing.T) {
		t.Parallel()
		in := `[[1700000000000, 10, 11, 9, 10.5, 1200], [1700000060000, 10, 11, 9, 10.5], "garbage", [null]]`
		bars, err := ReadJSON(strings.NewReader(in))
		require.NoError(t, err)
		// Positional rows need all six fields; the five-field row is dropped.
		require.Len(t, bars, 1)
		assert.Equal(t, time.UnixMilli(1700000000000).UTC(), bars[0].Time)
	})

	t.Run("no candle array", func(t *testing.T) {
		t.Parallel()
		_, err := ReadJSON(strings.NewReader(`{"status": "ok"}`))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		_, err := ReadJSON(strings.NewReader(`{not json`))
		assert.Error(t, err)
	})
}
