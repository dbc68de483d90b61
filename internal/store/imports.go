package store

import (
	"fmt"
	"time"
)

// ImportedFile tracks a statement file that was replayed, so an unchanged
// file is not imported twice.
type ImportedFile struct {
	Path       string
	SizeBytes  int64
	MtimeNs    int64
	Records    int
	ImportedAt time.Time
}

// ImportedFiles returns every tracked statement file keyed by path.
func (s *Store) ImportedFiles() (map[string]ImportedFile, error) {
	rows, err := s.db.Query("SELECT path, size_bytes, mtime_ns, records, imported_at FROM imported_files")
	if err != nil {
		return nil, fmt.Errorf("querying imported files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]ImportedFile)
	for rows.Next() {
		var f ImportedFile
		var at string
		if err := rows.Scan(&f.Path, &f.SizeBytes, &f.MtimeNs, &f.Records, &at); err != nil {
			return nil, fmt.Errorf("scanning imported file: %w", err)
		}
		f.ImportedAt, _ = time.Parse(time.RFC3339Nano, at)
		out[f.Path] = f
	}
	return out, rows.Err()
}

// MarkImported records files as imported, replacing earlier rows for the
// same paths.
func (s *Store) MarkImported(files []ImportedFile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO imported_files
		(path, size_bytes, mtime_ns, records, imported_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range files {
		if _, err := stmt.Exec(f.Path, f.SizeBytes, f.MtimeNs, f.Records,
			f.ImportedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("marking %s imported: %w", f.Path, err)
		}
	}
	return tx.Commit()
}
