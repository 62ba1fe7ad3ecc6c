package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// LatestReadings returns the newest stored row per sensor slug.
func (s *Store) LatestReadings(ctx context.Context) (Records, error) {
	const query = `
	SELECT DISTINCT ON (slug) id, time_stamp, transmitter_uid, sensor_id, slug, value, unit_of_measurement
	FROM readings
	ORDER BY slug, time_stamp DESC;
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadingsBetween returns the history for one sensor slug, newest first. A
// nil bound falls back to the last two days.
func (s *Store) ReadingsBetween(ctx context.Context, slug string, from, to *time.Time) (Records, error) {
	if from == nil || to == nil {
		from = func() *time.Time {
			t := time.Now().AddDate(0, 0, -2)
			return &t
		}()
		to = func() *time.Time {
			t := time.Now()
			return &t
		}()
	}
	const query = `
	SELECT id, time_stamp, transmitter_uid, sensor_id, slug, value, unit_of_measurement
	FROM readings
	WHERE slug = $1 AND time_stamp BETWEEN $2 AND $3
	ORDER BY time_stamp DESC;
	`

	rows, err := s.conn.Query(ctx, query, slug, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func scanRecords(rows pgx.Rows) (Records, error) {
	var records Records
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.ID, &record.At, &record.TransmitterUID, &record.SensorID, &record.Slug, &record.Value, &record.Unit); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		if err == pgx.ErrNoRows {
			return records, nil
		}
		return nil, err
	}

	return records, nil
}
