package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"

	"github.com/quantarc/tradebot/market"
)

// LoadFile reads bars from a single file, dispatching on extension:
//
//	.csv          plain bar CSV
//	.json         exchange history API candle dump
//	.csv.xz, .xz  xz-compressed bar CSV (exchange archive dumps)
//	.zip          zip archive of daily bar CSVs (e.g. bhavcopy bundles)
func LoadFile(path string) ([]market.Bar, error) {
	switch {
	case strings.HasSuffix(path, ".zip"):
		return loadZip(path)
	case strings.HasSuffix(path, ".xz"):
		return loadXZ(path)
	case strings.HasSuffix(path, ".csv"):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bars: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case strings.HasSuffix(path, ".json"):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bars: %w", err)
		}
		defer f.Close()
		return ReadJSON(f)
	}
	return nil, fmt.Errorf("load bars: unsupported file type %q", filepath.Ext(path))
}

func loadXZ(path string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars: %w", err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("xz reader: %w", err)
	}
	return ReadCSV(xr)
}

// loadZip extracts the archive to a scratch dir and concatenates every
// contained CSV, sorted by filename so daily archive members stay in
// chronological order.
func loadZip(path string) ([]market.Bar, error) {
	dir, err := os.MkdirTemp("", "bars-zip-")
	if err != nil {
		return nil, fmt.Errorf("unzip bars: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := unzip.Extract(path, dir); err != nil {
		return nil, fmt.Errorf("unzip bars: %w", err)
	}

	var files []string
	err = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(p), ".csv") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unzip bars: %w", err)
	}
	sort.Strings(files)

	var all []market.Bar
	for _, fp := range files {
		f, err := os.Open(fp)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filepath.Base(fp), err)
		}
		bars, err := ReadCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(fp), err)
		}
		all = append(all, bars...)
	}
	return all, nil
}
