package database

import (
	"context"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

func (s *Store) Write(ctx context.Context, readings []model.Reading) error {
	uid := s.transmitterUID()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range readings {
		if _, err := tx.Exec(ctx, `
			INSERT INTO readings (time_stamp, transmitter_uid, sensor_id, slug, value, unit_of_measurement)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, r.At, string(uid), r.SensorID, r.Slug, r.Value, r.Unit); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// RegisterSensor upserts the catalog row for a sensor. Backend IDs shift with
// list order across reboots, so the slug is the stable key.
func (s *Store) RegisterSensor(sensor model.Sensor) error {
	_, err := s.conn.Exec(context.Background(), `
		INSERT INTO sensors (slug, sensor_id, name, kind)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE
		SET sensor_id = EXCLUDED.sensor_id, name = EXCLUDED.name, kind = EXCLUDED.kind;`,
		sensor.Slug, sensor.ID, sensor.Name, int(sensor.Kind))
	if err != nil {
		return err
	}

	return nil
}
