package database

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no render record exists for a given id.
var ErrNotFound = errors.New("render record not found")

// RenderRecord is one executed command kept for the history API. Command
// holds the re-serialized command document.
type RenderRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Command   string    `json:"command"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}

type DatabaseService interface {
	CreateDatabase() error
	DoesDatabaseExist() bool
	Close() error

	CreateRecord(kind, command, output string) (string, error)
	GetAllRecords() ([]*RenderRecord, error)
	GetRecordByID(id string) (*RenderRecord, error)
	DeleteRecord(id string) error
}
