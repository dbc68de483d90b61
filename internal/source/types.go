package source

import (
	"time"

	"github.com/mm15146-Mahad/summit/internal/model"
)

// Format is the layout of a statement file.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// RawEntry is one line of a JSONL statement file.
type RawEntry struct {
	Date     string `json:"date"`
	Kind     string `json:"kind,omitempty"`
	Amount   string `json:"amount"`
	Category string `json:"category,omitempty"`
	Note     string `json:"note,omitempty"`
}

// DiscoveredFile is a statement file found during directory scanning.
type DiscoveredFile struct {
	Path    string
	Format  Format
	Account string // directory the file sits in, relative to the scan root
}

// Record is one parsed statement line.
type Record struct {
	Date time.Time
	Tx   model.Transaction
	File string
	Line int
}
