package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aevon-lab/rainfall-explorer/internal/core/config"
	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/aevon-lab/rainfall-explorer/internal/core/storage"
)

// maxDownloadBytes caps a remote dataset; decades of daily rows stay far below it.
const maxDownloadBytes = 64 << 20

var ErrInvalidSourceURL = errors.New("invalid dataset url")

// Dataset is a freshly loaded, validated series with its provenance.
type Dataset struct {
	Series      *rainfall.Series
	Station     Station
	Fingerprint string
	Source      string
	Stats       ParseStats
}

// Loader reads the configured dataset from a file, a URL or Postgres.
type Loader struct {
	cfg    config.DatasetConfig
	client *http.Client
	store  storage.SeriesStore
}

// NewLoader builds a loader. store may be nil unless the source is postgres.
func NewLoader(cfg config.DatasetConfig, store storage.SeriesStore) *Loader {
	if cfg.Source == config.SourcePostgres && store == nil {
		panic("ingestion: postgres dataset source requires a store")
	}
	return &Loader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.FetchTimeoutDuration()},
		store:  store,
	}
}

// Load reads the dataset. A non-empty overrideURL replaces the configured source.
func (l *Loader) Load(ctx context.Context, overrideURL string) (*Dataset, error) {
	if overrideURL != "" {
		return l.loadURL(ctx, overrideURL)
	}
	switch l.cfg.Source {
	case config.SourceFile:
		return l.loadFile(l.cfg.Path)
	case config.SourceURL:
		return l.loadURL(ctx, l.cfg.URL)
	case config.SourcePostgres:
		return l.loadStore(ctx)
	default:
		return nil, fmt.Errorf("unsupported dataset source %q", l.cfg.Source)
	}
}

func (l *Loader) csvOptions() CSVOptions {
	return CSVOptions{
		ValueColumn:   l.cfg.ValueColumn,
		DateLayouts:   l.cfg.DateLayouts,
		MissingValues: l.cfg.MissingValues,
	}
}

func (l *Loader) station(datasetName string) (Station, error) {
	if l.cfg.StationFile != "" {
		return LoadStationFile(l.cfg.StationFile, l.cfg.StationID)
	}
	return InferStation(l.cfg.StationID, datasetName), nil
}

func (l *Loader) loadFile(filePath string) (*Dataset, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return l.fromCSV(raw, filePath, "file:"+filePath)
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (*Dataset, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSourceURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch dataset: unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read dataset response: %w", err)
	}
	if len(raw) > maxDownloadBytes {
		return nil, fmt.Errorf("fetch dataset: response exceeds %d bytes", maxDownloadBytes)
	}
	return l.fromCSV(raw, u.Path, "url:"+u.Redacted())
}

func (l *Loader) fromCSV(raw []byte, name, source string) (*Dataset, error) {
	series, stats, err := ParseCSV(bytes.NewReader(raw), l.csvOptions())
	if err != nil {
		return nil, err
	}
	st, err := l.station(name)
	if err != nil {
		return nil, err
	}

	slog.Info("[Loader] Parsed rainfall csv",
		"source", source,
		"rows", stats.Rows,
		"records", stats.Records,
		"missing", stats.Missing)

	return &Dataset{
		Series:      series,
		Station:     st,
		Fingerprint: Fingerprint(raw),
		Source:      source,
		Stats:       stats,
	}, nil
}

func (l *Loader) loadStore(ctx context.Context) (*Dataset, error) {
	records, err := l.store.LoadRecords(ctx, l.cfg.StationID)
	if err != nil {
		return nil, fmt.Errorf("load records from database: %w", err)
	}
	series, err := rainfall.NewSeries(records)
	if err != nil {
		return nil, err
	}
	st, err := l.station("")
	if err != nil {
		return nil, err
	}

	// Canonical text form, so an unchanged table keeps its fingerprint.
	var canon strings.Builder
	for _, r := range series.Records() {
		canon.WriteString(r.Date.Format(rainfall.DateLayout))
		canon.WriteByte(',')
		canon.WriteString(r.RainfallMM.String())
		canon.WriteByte('\n')
	}

	return &Dataset{
		Series:      series,
		Station:     st,
		Fingerprint: Fingerprint([]byte(canon.String())),
		Source:      "postgres:" + l.cfg.StationID,
		Stats:       ParseStats{Rows: len(records), Records: series.Len()},
	}, nil
}

// Import loads the configured file or URL dataset and upserts it into store.
func (l *Loader) Import(ctx context.Context, store storage.SeriesStore) (*Dataset, error) {
	if l.cfg.Source == config.SourcePostgres {
		return nil, fmt.Errorf("import needs a file or url dataset source, got %q", l.cfg.Source)
	}

	started := time.Now()
	ds, err := l.Load(ctx, "")
	if err != nil {
		return nil, err
	}
	if err := store.SaveRecords(ctx, l.cfg.StationID, ds.Series.Records()); err != nil {
		return nil, fmt.Errorf("import dataset: %w", err)
	}

	slog.Info("[Loader] Imported dataset",
		"station_id", l.cfg.StationID,
		"records", ds.Series.Len(),
		"duration", time.Since(started))
	return ds, nil
}
