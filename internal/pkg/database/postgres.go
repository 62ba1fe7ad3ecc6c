// Package database keeps the reading history in Postgres so greenhouse
// telemetry survives panel restarts.
package database

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

type Store struct {
	conn          *pgx.Conn
	retentionDays int

	mu  sync.Mutex
	uid model.TransmitterUID
}

func New(conn *pgx.Conn, retentionDays int) *Store {
	return &Store{
		conn:          conn,
		retentionDays: retentionDays,
	}
}

func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close(context.Background())
}

// SetUID stamps subsequent reading rows with the resolved transmitter and
// appends a row to the event history. Failures are logged, never fatal; the
// panel keeps running without history.
func (s *Store) SetUID(ctx context.Context, uid model.TransmitterUID) {
	s.mu.Lock()
	s.uid = uid
	s.mu.Unlock()

	if _, err := s.conn.Exec(ctx, `
		INSERT INTO transmitter_events (time_stamp, uid, usable)
		VALUES ($1, $2, $3)`, time.Now(), string(uid), uid.Valid()); err != nil {
		zap.L().Error("failed to record transmitter event", zap.Error(err))
	}
}

func (s *Store) transmitterUID() model.TransmitterUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uid
}

// Record is one stored reading row.
type Record struct {
	ID             int64     `json:"id"`
	At             time.Time `json:"timestamp"`
	TransmitterUID string    `json:"transmitter_uid"`
	SensorID       int       `json:"sensor_id"`
	Slug           string    `json:"slug"`
	Value          string    `json:"value"`
	Unit           string    `json:"unit_of_measurement"`
}

type Records []Record
