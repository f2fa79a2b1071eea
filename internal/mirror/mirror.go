// Package mirror is the optional durable collaborator: a sqlite database
// that passively trails the in-memory store. Slice updates are collected
// and flushed on an interval rather than per write; the sync core never
// waits on it and never reads from it after boot.
//
// A failed flush is logged and dropped. The slice stays dirty, so the
// next interval retries it with the then-current value.
package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	syncerrors "github.com/pitstop/sync/errors"
	"github.com/pitstop/sync/internal/state"
	"github.com/pitstop/sync/logging"
	"github.com/pitstop/sync/pkg/models"
)

// Mirror trails a state.Store into sqlite.
type Mirror struct {
	db     *sql.DB
	logger *logrus.Entry
}

// Open opens (or creates) the mirror database at path.
func Open(path string) (*Mirror, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS slices (
		name TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &Mirror{db: db, logger: logging.NewLogger("mirror")}, nil
}

// Close closes the database.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// Restore loads every mirrored slice back into the store as server-side
// writes and reports how many slices it loaded. Rows that no longer
// decode are skipped with a warning, so a schema drift cannot keep the
// server from booting.
func (m *Mirror) Restore(s *state.Store) (int, error) {
	rows, err := m.db.Query(`SELECT name, content FROM slices`)
	if err != nil {
		return 0, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	restored := 0
	for rows.Next() {
		var name, content string
		if err := rows.Scan(&name, &content); err != nil {
			return restored, fmt.Errorf("failed to scan: %w", err)
		}
		slice := models.Slice(name)
		if !slice.Valid() {
			m.logger.WithField("slice", name).Warn("Skipping unknown mirrored slice")
			continue
		}
		value, err := models.DecodeSlice(slice, json.RawMessage(content))
		if err != nil {
			m.logger.WithError(syncerrors.MirrorRestore(name, err)).Warn("Skipping undecodable mirrored slice")
			continue
		}
		s.Replace(slice, value, "")
		restored++
	}
	if err := rows.Err(); err != nil {
		return restored, err
	}
	m.logger.WithField("slices", restored).Info("Restored state from mirror")
	return restored, nil
}

// Run subscribes to the store and flushes dirty slices every interval.
// It blocks until ctx is canceled, then performs a final flush.
func (m *Mirror) Run(ctx context.Context, s *state.Store, interval time.Duration) {
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	dirty := make(map[models.Slice]any)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return
			}
			dirty[u.Slice] = u.Value
		case <-ticker.C:
			m.flush(ctx, dirty)
		case <-ctx.Done():
			m.flush(context.Background(), dirty)
			return
		}
	}
}

// flush upserts each dirty slice and clears the ones that succeeded.
func (m *Mirror) flush(ctx context.Context, dirty map[models.Slice]any) {
	for slice, value := range dirty {
		content, err := json.Marshal(value)
		if err != nil {
			m.logger.WithError(err).WithField("slice", slice).Error("Failed to marshal slice")
			delete(dirty, slice)
			continue
		}
		if _, err := m.db.ExecContext(ctx,
			`INSERT INTO slices (name, content, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
			string(slice), string(content), time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			m.logger.WithError(syncerrors.MirrorWrite(string(slice), err)).Warn("Flush failed, will retry")
			continue
		}
		delete(dirty, slice)
	}
}
