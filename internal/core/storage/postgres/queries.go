package postgres

// SQL queries for daily rainfall storage

const (
	// queryUpsertRecord writes one day; a re-import overwrites the stored amount.
	queryUpsertRecord = `
		INSERT INTO daily_rainfall (station_id, obs_date, rainfall_mm, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (station_id, obs_date)
		DO UPDATE SET
			rainfall_mm = EXCLUDED.rainfall_mm,
			updated_at  = EXCLUDED.updated_at
	`

	// queryLoadRecords fetches a station's full history in date order.
	queryLoadRecords = `
		SELECT obs_date, rainfall_mm
		FROM daily_rainfall
		WHERE station_id = $1
		ORDER BY obs_date ASC
	`

	// queryTableExists is used at startup to detect missing migrations.
	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'daily_rainfall'
		)
	`
)
