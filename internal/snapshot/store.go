// Package snapshot keeps a local SQLite copy of the last successfully
// fetched headers and detail sets so the console can still show a timetable
// while the backend is unreachable. It is a read cache only; editing always
// goes through the live backend.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/example/timetable-console/internal/application"
	"github.com/example/timetable-console/internal/timetable"
)

// Store wraps the snapshot database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS headers (
	id TEXT PRIMARY KEY,
	institute_id TEXT NOT NULL,
	session TEXT NOT NULL,
	year INTEGER NOT NULL,
	current_status INTEGER NOT NULL,
	visibility INTEGER NOT NULL,
	break_start TEXT NOT NULL,
	break_end TEXT NOT NULL,
	created_at TEXT NOT NULL,
	synced_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS details (
	header_id TEXT NOT NULL,
	class TEXT NOT NULL,
	day TEXT NOT NULL,
	time TEXT NOT NULL,
	course TEXT NOT NULL,
	room_number TEXT NOT NULL,
	instructor_name TEXT NOT NULL,
	break_start TEXT NOT NULL,
	break_end TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_headers_institute ON headers (institute_id);
CREATE INDEX IF NOT EXISTS idx_details_header ON details (header_id);
`

// Open opens (creating if needed) the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveHeaders replaces the cached header list for an institute.
func (s *Store) SaveHeaders(ctx context.Context, instituteID string, headers []application.TimetableHeader) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM headers WHERE institute_id = ?`, instituteID); err != nil {
			return err
		}
		syncedAt := s.now().UTC().Format(time.RFC3339)
		for _, header := range headers {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO headers (id, institute_id, session, year, current_status, visibility, break_start, break_end, created_at, synced_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				header.ID,
				instituteID,
				header.Session,
				header.Year,
				boolToInt(header.CurrentStatus),
				boolToInt(header.Visibility),
				header.BreakStart,
				header.BreakEnd,
				header.CreatedAt.UTC().Format(time.RFC3339),
				syncedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Headers returns the cached header list for an institute in the display
// order written by the header service.
func (s *Store) Headers(ctx context.Context, instituteID string) ([]application.TimetableHeader, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session, year, current_status, visibility, break_start, break_end, created_at
		FROM headers WHERE institute_id = ? ORDER BY rowid`, instituteID)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query headers: %w", err)
	}
	defer rows.Close()

	var headers []application.TimetableHeader
	for rows.Next() {
		var header application.TimetableHeader
		var current, visible int
		var createdAt string
		if err := rows.Scan(&header.ID, &header.Session, &header.Year, &current, &visible, &header.BreakStart, &header.BreakEnd, &createdAt); err != nil {
			return nil, fmt.Errorf("snapshot: scan header: %w", err)
		}
		header.InstituteID = instituteID
		header.CurrentStatus = current != 0
		header.Visibility = visible != 0
		header.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		headers = append(headers, header)
	}
	return headers, rows.Err()
}

// SaveDetails replaces the cached detail set for a header.
func (s *Store) SaveDetails(ctx context.Context, headerID string, cells []timetable.Cell) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM details WHERE header_id = ?`, headerID); err != nil {
			return err
		}
		for _, cell := range cells {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO details (header_id, class, day, time, course, room_number, instructor_name, break_start, break_end)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				headerID,
				cell.Class,
				cell.Day,
				cell.Time,
				cell.Course,
				cell.RoomNumber,
				cell.InstructorName,
				cell.BreakStart,
				cell.BreakEnd,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Details returns the cached detail set for a header.
func (s *Store) Details(ctx context.Context, headerID string) ([]timetable.Cell, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT class, day, time, course, room_number, instructor_name, break_start, break_end
		FROM details WHERE header_id = ? ORDER BY rowid`, headerID)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query details: %w", err)
	}
	defer rows.Close()

	var cells []timetable.Cell
	for rows.Next() {
		var cell timetable.Cell
		if err := rows.Scan(&cell.Class, &cell.Day, &cell.Time, &cell.Course, &cell.RoomNumber, &cell.InstructorName, &cell.BreakStart, &cell.BreakEnd); err != nil {
			return nil, fmt.Errorf("snapshot: scan cell: %w", err)
		}
		cells = append(cells, cell)
	}
	return cells, rows.Err()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("snapshot: store not open")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("snapshot: begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("snapshot: commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
