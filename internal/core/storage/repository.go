package storage

import (
	"context"

	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
)

// SeriesStore persists the daily records of one or more stations.
type SeriesStore interface {
	// LoadRecords returns every record of the station ordered by date.
	LoadRecords(ctx context.Context, stationID string) ([]rainfall.Record, error)

	// SaveRecords upserts records for the station in a single transaction.
	// Existing dates are overwritten.
	SaveRecords(ctx context.Context, stationID string, records []rainfall.Record) error
}
