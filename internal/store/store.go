// Package store persists hand layouts in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/leandrodaf/midisteno/internal/hand"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for saved layouts, one per input device.
type Store struct {
	db *sql.DB
}

// Saved is a stored layout and the device it belongs to.
type Saved struct {
	Device    string
	Layout    hand.Layout
	UpdatedAt time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS hand_layouts (
		device TEXT PRIMARY KEY,
		left_keys TEXT NOT NULL,
		right_keys TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

// Layout returns the layout saved for device. found is false when none exists.
func (s *Store) Layout(ctx context.Context, device string) (l hand.Layout, found bool, err error) {
	var left, right string
	err = s.db.QueryRowContext(ctx,
		`SELECT left_keys, right_keys FROM hand_layouts WHERE device = ?`, device,
	).Scan(&left, &right)
	if errors.Is(err, sql.ErrNoRows) {
		return hand.Layout{}, false, nil
	}
	if err != nil {
		return hand.Layout{}, false, err
	}
	l, err = decodeLayout(left, right)
	if err != nil {
		return hand.Layout{}, false, fmt.Errorf("layout for %q: %w", device, err)
	}
	return l, true, nil
}

// SaveLayout stores l for device, replacing any earlier layout.
func (s *Store) SaveLayout(ctx context.Context, device string, l hand.Layout) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO hand_layouts (device, left_keys, right_keys, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(device) DO UPDATE SET
			left_keys = excluded.left_keys,
			right_keys = excluded.right_keys,
			updated_at = excluded.updated_at`,
		device,
		encodeKeys(l.Left),
		encodeKeys(l.Right),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// DeleteLayout forgets the layout of device. It reports whether one existed.
func (s *Store) DeleteLayout(ctx context.Context, device string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM hand_layouts WHERE device = ?`, device)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns every saved layout ordered by device.
func (s *Store) List(ctx context.Context) ([]Saved, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT device, left_keys, right_keys, updated_at FROM hand_layouts ORDER BY device`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Saved
	for rows.Next() {
		var (
			saved              Saved
			left, right, stamp string
		)
		if err := rows.Scan(&saved.Device, &left, &right, &stamp); err != nil {
			return nil, err
		}
		if saved.Layout, err = decodeLayout(left, right); err != nil {
			return nil, fmt.Errorf("layout for %q: %w", saved.Device, err)
		}
		if saved.UpdatedAt, err = time.Parse(time.RFC3339Nano, stamp); err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, rows.Err()
}

// For binds the store to one device so it can back an engine loop.
func (s *Store) For(device string) *DeviceStore {
	return &DeviceStore{store: s, device: device}
}

// DeviceStore is a Store scoped to a single device.
type DeviceStore struct {
	store  *Store
	device string
}

func (d *DeviceStore) LoadLayout(ctx context.Context) (hand.Layout, bool, error) {
	return d.store.Layout(ctx, d.device)
}

func (d *DeviceStore) SaveLayout(ctx context.Context, l hand.Layout) error {
	return d.store.SaveLayout(ctx, d.device, l)
}

func encodeKeys(keys [hand.KeysPerHand]int) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Itoa(k)
	}
	return strings.Join(parts, ",")
}

func decodeKeys(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	keys := make([]int, 0, len(fields))
	for _, f := range fields {
		k, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func decodeLayout(left, right string) (hand.Layout, error) {
	l, err := decodeKeys(left)
	if err != nil {
		return hand.Layout{}, err
	}
	r, err := decodeKeys(right)
	if err != nil {
		return hand.Layout{}, err
	}
	return hand.NewLayout(l, r)
}
