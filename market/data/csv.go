package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/quantarc/tradebot/market"
)

// ReadCSV parses bar rows of the form
//
//	time,open,high,low,close,volume
//
// Time is RFC3339 or a millisecond epoch. A header row is skipped if the
// first field does not parse as a time. Volume may be omitted.
func ReadCSV(r io.Reader) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var bars []market.Bar
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++
		if len(rec) < 5 {
			return nil, fmt.Errorf("read csv: line %d: want at least 5 fields, got %d", line, len(rec))
		}

		ts, ok := parseTime(rec[0])
		if !ok {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("read csv: line %d: bad time %q", line, rec[0])
		}

		var vals [4]float64
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("read csv: line %d: bad field %q", line, rec[i+1])
			}
			vals[i] = v
		}

		vol := 0.0
		if len(rec) > 5 {
			vol, _ = strconv.ParseFloat(rec[5], 64)
		}

		bars = append(bars, market.Bar{
			Time: ts,
			Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3],
			Volume: vol,
		})
	}
	return bars, nil
}

// WriteCSV writes bars with a header row in the same column layout
// ReadCSV accepts.
func WriteCSV(w io.Writer, bars []market.Bar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, b := range bars {
		rec := []string{
			b.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
