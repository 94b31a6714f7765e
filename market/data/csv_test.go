package data

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/quantarc/tradebot/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	t.Parallel()

	t.Run("with header", func(t *testing.T) {
		t.Parallel()
		in := "time,open,high,low,close,volume\n" +
			"2024-01-02T09:15:00Z,100,101,99,100.5,1200\n" +
			"2024-01-02T09:16:00Z,100.5,102,100,101.5,900\n"

		bars, err := ReadCSV(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, bars, 2)
		assert.Equal(t, time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC), bars[0].Time)
		assert.Equal(t, 100.5, bars[0].Close)
		assert.Equal(t, 900.0, bars[1].Volume)
	})

	t.Run("ms epoch no header no volume", func(t *testing.T) {
		t.Parallel()
		bars, err := ReadCSV(strings.NewReader("1700000000000,10,11,9,10.5\n"))
		require.NoError(t, err)
		require.Len(t, bars, 1)
		assert.Equal(t, time.UnixMilli(1700000000000).UTC(), bars[0].Time)
		assert.Equal(t, 0.0, bars[0].Volume)
	})

	t.Run("bad time mid-file", func(t *testing.T) {
		t.Parallel()
		in := "2024-01-02T09:15:00Z,1,1,1,1\nnot-a-time,1,1,1,1\n"
		_, err := ReadCSV(strings.NewReader(in))
		assert.Error(t, err)
	})

	t.Run("short row", func(t *testing.T) {
		t.Parallel()
		_, err := ReadCSV(strings.NewReader("2024-01-02T09:15:00Z,1,1\n"))
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		bars, err := ReadCSV(strings.NewReader(""))
		assert.NoError(t, err)
		assert.Empty(t, bars)
	})
}

func TestWriteCSVRoundTrip(t *testing.T) {
	t.Parallel()

	in := []market.Bar{
		{Time: time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1200},
		{Time: time.Date(2024, 1, 2, 9, 16, 0, 0, time.UTC), Open: 100.5, High: 102, Low: 100, Close: 101.5},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
