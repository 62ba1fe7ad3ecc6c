package database

import (
	"context"
	"time"
)

// Cleanup removes readings and transmitter events older than the retention
// window.
func (s *Store) Cleanup(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	if _, err := s.conn.Exec(ctx, "DELETE FROM readings WHERE time_stamp < $1", cutoff); err != nil {
		return err
	}
	if _, err := s.conn.Exec(ctx, "DELETE FROM transmitter_events WHERE time_stamp < $1", cutoff); err != nil {
		return err
	}
	return nil
}
