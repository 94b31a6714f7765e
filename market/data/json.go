package data

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/quantarc/tradebot/market"
)

// ReadJSON decodes candle dumps as produced by exchange history APIs:
// either a bare array of candles or an object with a "candles" (or
// "data") key. Candle rows may be positional arrays or keyed records;
// normalization tolerates both and drops malformed rows.
func ReadJSON(r io.Reader) ([]market.Bar, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		return market.NormalizeBars(arr), nil
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	for _, key := range []string{"candles", "data"} {
		if v, ok := obj[key].([]any); ok {
			return market.NormalizeBars(v), nil
		}
	}
	return nil, fmt.Errorf("read json: no candle array found")
}
