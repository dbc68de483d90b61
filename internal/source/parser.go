// Package source discovers and parses statement files: JSONL or CSV exports
// of expenses and income that can be replayed through the tracker.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/model"
)

// DefaultCategory files expenses whose line names no category.
const DefaultCategory = "other"

// ErrMissingColumn is returned for a CSV header without a date or amount.
var ErrMissingColumn = errors.New("statement header needs date and amount columns")

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

// ParseResult holds the output of parsing a single statement file.
type ParseResult struct {
	Records     []Record
	ParseErrors int
	Err         error
}

// ParseFile reads a statement file. Lines that cannot be turned into a
// valid transaction are counted in ParseErrors and skipped; Err is set only
// when the file itself is unreadable.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	switch df.Format {
	case FormatCSV:
		return parseCSV(f, df.Path)
	default:
		return parseJSONL(f, df.Path)
	}
}

func parseJSONL(r io.Reader, path string) ParseResult {
	var res ParseResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}

		var raw RawEntry
		if err := json.Unmarshal(b, &raw); err != nil {
			res.ParseErrors++
			continue
		}
		rec, err := toRecord(raw, path, line)
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		res.Err = fmt.Errorf("reading %s: %w", path, err)
	}
	return res
}

func parseCSV(r io.Reader, path string) ParseResult {
	var res ParseResult

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res
		}
		res.Err = fmt.Errorf("reading %s: %w", path, err)
		return res
	}
	cols := columnIndex(header)
	if _, ok := cols["date"]; !ok {
		res.Err = fmt.Errorf("%s: %w", path, ErrMissingColumn)
		return res
	}
	if _, ok := cols["amount"]; !ok {
		res.Err = fmt.Errorf("%s: %w", path, ErrMissingColumn)
		return res
	}

	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.ParseErrors++
			continue
		}

		field := func(name string) string {
			if i, ok := cols[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		raw := RawEntry{
			Date:     field("date"),
			Kind:     field("kind"),
			Amount:   field("amount"),
			Category: field("category"),
			Note:     field("note"),
		}
		rec, err := toRecord(raw, path, line)
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// columnIndex maps the known header names, and their common aliases, to
// column positions.
func columnIndex(header []string) map[string]int {
	aliases := map[string]string{
		"date": "date", "posted": "date", "timestamp": "date",
		"kind": "kind", "type": "kind",
		"amount": "amount",
		"category": "category",
		"note": "note", "description": "note", "memo": "note",
	}
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if name, ok := aliases[h]; ok {
			if _, seen := cols[name]; !seen {
				cols[name] = i
			}
		}
	}
	return cols
}

// toRecord turns a raw line into a validated transaction. Without a kind,
// the sign decides: negative amounts are expenses, positive ones income.
func toRecord(raw RawEntry, path string, line int) (Record, error) {
	date, err := parseDate(raw.Date)
	if err != nil {
		return Record{}, err
	}
	amount, err := model.ParseAmount(raw.Amount)
	if err != nil {
		return Record{}, err
	}

	var kind model.Kind
	if strings.TrimSpace(raw.Kind) == "" {
		kind = model.Income
		if amount.IsNegative() {
			kind = model.Expense
		}
		amount = amount.Abs()
	} else if kind, err = model.ParseKind(raw.Kind); err != nil {
		return Record{}, err
	}

	tx := model.Transaction{Kind: kind, Amount: amount, Note: raw.Note}
	if kind == model.Expense {
		tx.Category = raw.Category
		if engine.NormalizeCategory(tx.Category) == "" {
			tx.Category = DefaultCategory
		}
	}
	if err := engine.ValidateTransaction(tx); err != nil {
		return Record{}, err
	}
	return Record{Date: date, Tx: tx, File: path, Line: line}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
