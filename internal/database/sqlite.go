package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS renders (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		command TEXT NOT NULL,
		output TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// In SQLite the database file is created on first connect, so a
	// successful ping is the existence check.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteDatabase) CreateRecord(kind, command, output string) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", err
	}

	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.Exec(
		"INSERT INTO renders (id, kind, command, output, created_at) VALUES (?, ?, ?, ?, ?)",
		id, kind, command, output, createdAt,
	)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (s *SQLiteDatabase) GetAllRecords() ([]*RenderRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, kind, command, output, created_at FROM renders ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var records []*RenderRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *SQLiteDatabase) GetRecordByID(id string) (*RenderRecord, error) {
	row := s.db.QueryRow(
		"SELECT id, kind, command, output, created_at FROM renders WHERE id = ?", id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *SQLiteDatabase) DeleteRecord(id string) error {
	result, err := s.db.Exec("DELETE FROM renders WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*RenderRecord, error) {
	var record RenderRecord
	var createdAt string
	if err := row.Scan(&record.ID, &record.Kind, &record.Command, &record.Output, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at value %q: %w", createdAt, err)
	}
	record.CreatedAt = parsed
	return &record, nil
}
