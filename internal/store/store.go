// Package store persists the latest financial state and the change ledger
// in a local SQLite database.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // register sqlite driver
)

// FileName is the database file created inside the data directory.
const FileName = "summit.db"

// snapshotVersion is written into every encoded snapshot.
const snapshotVersion = 1

// Store is a SQLite-backed snapshot and ledger store.
type Store struct {
	db *sql.DB
}

// Path returns the database path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Open opens or creates the database at dbPath and migrates it.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := migrateUp(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type snapshotEnvelope struct {
	Version int                      `json:"version"`
	State   model.UserFinancialState `json:"state"`
}

// EncodeSnapshot serializes a state to the opaque blob kept in the store.
func EncodeSnapshot(st model.UserFinancialState) ([]byte, error) {
	return json.Marshal(snapshotEnvelope{Version: snapshotVersion, State: st})
}

// DecodeSnapshot parses a blob written by EncodeSnapshot. A blob without a
// version is read as a bare serialized state. The derived fields are
// returned as stored; callers seed a Tracker, which recomputes them.
func DecodeSnapshot(data []byte) (model.UserFinancialState, error) {
	var env struct {
		Version *int            `json:"version"`
		State   json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return model.UserFinancialState{}, fmt.Errorf("decoding snapshot: %w", err)
	}

	body := data
	if env.Version != nil {
		if *env.Version != snapshotVersion {
			return model.UserFinancialState{}, fmt.Errorf("decoding snapshot: unsupported version %d", *env.Version)
		}
		body = env.State
	}

	var st model.UserFinancialState
	if len(body) > 0 {
		if err := json.Unmarshal(body, &st); err != nil {
			return model.UserFinancialState{}, fmt.Errorf("decoding snapshot: %w", err)
		}
	}
	if st.Spending == nil {
		st.Spending = make(map[string]decimal.Decimal)
	}
	return st, nil
}

// SaveSnapshot replaces the stored state.
func (s *Store) SaveSnapshot(st model.UserFinancialState) error {
	blob, err := EncodeSnapshot(st)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.Exec(`INSERT INTO snapshots (id, state, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, saved_at = excluded.saved_at`,
		string(blob), now)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored state. ok is false when nothing has been
// saved yet.
func (s *Store) LoadSnapshot() (st model.UserFinancialState, savedAt time.Time, ok bool, err error) {
	var blob, savedStr string
	err = s.db.QueryRow("SELECT state, saved_at FROM snapshots WHERE id = 1").Scan(&blob, &savedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserFinancialState{}, time.Time{}, false, nil
	}
	if err != nil {
		return model.UserFinancialState{}, time.Time{}, false, fmt.Errorf("loading snapshot: %w", err)
	}

	st, err = DecodeSnapshot([]byte(blob))
	if err != nil {
		return model.UserFinancialState{}, time.Time{}, false, err
	}
	savedAt, _ = time.Parse(time.RFC3339Nano, savedStr)
	return st, savedAt, true, nil
}

// RecordEntry appends one ledger row.
func (s *Store) RecordEntry(e model.LedgerEntry) error {
	var kind, category, amount, note sql.NullString
	if e.Op == "transaction" {
		kind = sql.NullString{String: e.Kind.String(), Valid: true}
		category = sql.NullString{String: e.Category, Valid: e.Category != ""}
		amount = sql.NullString{String: e.Amount.String(), Valid: true}
		note = sql.NullString{String: e.Note, Valid: e.Note != ""}
	}

	_, err := s.db.Exec(`INSERT INTO ledger
		(id, op, kind, category, amount, note, points_delta, streak_after, level_after, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Op, kind, category, amount, note,
		e.PointsDelta, e.StreakAfter, e.LevelAfter, e.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording ledger entry: %w", err)
	}
	return nil
}

// Entries returns the most recent ledger rows, newest first. A limit of
// zero or less returns every row.
func (s *Store) Entries(limit int) ([]model.LedgerEntry, error) {
	query := `SELECT id, op, kind, category, amount, note, points_delta, streak_after, level_after, recorded_at
		FROM ledger ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		var kind, category, amount, note sql.NullString
		var recorded string
		if err := rows.Scan(&e.ID, &e.Op, &kind, &category, &amount, &note,
			&e.PointsDelta, &e.StreakAfter, &e.LevelAfter, &recorded); err != nil {
			return nil, fmt.Errorf("scanning ledger: %w", err)
		}

		if kind.Valid {
			if e.Kind, err = model.ParseKind(kind.String); err != nil {
				return nil, fmt.Errorf("ledger %s: %w", e.ID, err)
			}
		}
		if amount.Valid {
			if e.Amount, err = decimal.NewFromString(amount.String); err != nil {
				return nil, fmt.Errorf("ledger %s amount: %w", e.ID, err)
			}
		}
		e.Category = category.String
		e.Note = note.String
		e.RecordedAt, _ = time.Parse(time.RFC3339Nano, recorded)
		out = append(out, e)
	}
	return out, rows.Err()
}

// EntryCount returns the number of ledger rows.
func (s *Store) EntryCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM ledger").Scan(&count)
	return count, err
}

// Clear removes the snapshot, the whole ledger and the import history.
func (s *Store) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("clearing snapshots: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM ledger"); err != nil {
		return fmt.Errorf("clearing ledger: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM imported_files"); err != nil {
		return fmt.Errorf("clearing imported files: %w", err)
	}
	return tx.Commit()
}
