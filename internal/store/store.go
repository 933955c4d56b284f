// Package store persists the single-row settings record in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"github.com/munchkineatter/DrawDrum/internal/domain"
	"github.com/munchkineatter/DrawDrum/internal/metrics"
)

const settingsColumns = `passport_text, prize_text, logo_path, text_color, text_style,
	display_text_size, timer_size, display_columns, prize_size, updated_at`

// Store provides settings persistence over a SQLite database.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens (or creates) the SQLite database, runs migrations, and seeds
// the settings row if it does not exist yet.
func Open(path string, clock clockwork.Clock) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite single-writer

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	s := &Store{db: db, clock: clock}
	if err := s.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed settings row: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database liveness for health probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) seed() error {
	d := domain.DefaultSettings()
	_, err := s.db.Exec(`
		INSERT INTO settings (id, text_color, text_style, display_text_size, timer_size, display_columns, prize_size, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		d.TextColor, d.TextStyle, d.DisplayTextSize, d.TimerSize, d.Columns, d.PrizeSize, s.now())
	return err
}

func (s *Store) now() string {
	return s.clock.Now().UTC().Format(time.RFC3339Nano)
}

// Get returns the current settings record.
func (s *Store) Get(ctx context.Context) (domain.Settings, error) {
	defer s.observe("get")()

	row := s.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM settings WHERE id = 1`)

	var out domain.Settings
	var updatedAt string
	err := row.Scan(&out.PassportText, &out.PrizeText, &out.LogoPath, &out.TextColor, &out.TextStyle,
		&out.DisplayTextSize, &out.TimerSize, &out.Columns, &out.PrizeSize, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		s.fail("get")
		return domain.Settings{}, domain.ErrSettingsNotFound
	}
	if err != nil {
		s.fail("get")
		return domain.Settings{}, err
	}

	// Rows written before the timestamp column was populated scan as zero time.
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		out.UpdatedAt = ts
	}
	return out, nil
}

// UpdatePassport sets the passport and prize text and returns the stored record.
func (s *Store) UpdatePassport(ctx context.Context, text, prize string) (domain.Settings, error) {
	defer s.observe("update_passport")()

	_, err := s.db.ExecContext(ctx,
		`UPDATE settings SET passport_text = ?, prize_text = ?, updated_at = ? WHERE id = 1`,
		text, prize, s.now())
	if err != nil {
		s.fail("update_passport")
		return domain.Settings{}, err
	}
	return s.Get(ctx)
}

// UpdateFormatting sets the formatting fields and returns the stored record.
func (s *Store) UpdateFormatting(ctx context.Context, f domain.Formatting) (domain.Settings, error) {
	defer s.observe("update_formatting")()

	_, err := s.db.ExecContext(ctx, `
		UPDATE settings
		SET text_color = ?, text_style = ?, display_text_size = ?, timer_size = ?,
		    display_columns = ?, prize_size = ?, updated_at = ?
		WHERE id = 1`,
		f.Color, f.Style, f.DisplayTextSize, f.TimerSize, f.Columns, f.PrizeSize, s.now())
	if err != nil {
		s.fail("update_formatting")
		return domain.Settings{}, err
	}
	return s.Get(ctx)
}

// UpdateLogoPath sets the logo path and returns the stored record. An empty
// path clears the logo.
func (s *Store) UpdateLogoPath(ctx context.Context, path string) (domain.Settings, error) {
	defer s.observe("update_logo_path")()

	_, err := s.db.ExecContext(ctx,
		`UPDATE settings SET logo_path = ?, updated_at = ? WHERE id = 1`,
		path, s.now())
	if err != nil {
		s.fail("update_logo_path")
		return domain.Settings{}, err
	}
	return s.Get(ctx)
}

func (s *Store) observe(query string) func() {
	start := s.clock.Now()
	return func() {
		metrics.SettingsQueryDuration.WithLabelValues(query).Observe(s.clock.Since(start).Seconds())
	}
}

func (s *Store) fail(query string) {
	metrics.SettingsErrorsTotal.WithLabelValues(query).Inc()
}
