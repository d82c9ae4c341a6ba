package dataset

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
)

// Typed errors surfaced by store operations. Handlers map these onto
// HTTP status codes; nothing here knows about transport.
var (
	// ErrOutOfRange indicates an access with a stale or invalid index,
	// e.g. a correction driven against a row deleted in the meantime.
	ErrOutOfRange = errors.New("record index out of range")

	// ErrEmptyDataset indicates an operation that needs at least one
	// usable record was attempted against an empty store.
	ErrEmptyDataset = errors.New("dataset is empty")
)

// Store owns the single ordered record collection for the current
// session. It is the source of truth for rendering and export. Access
// is single-threaded by design (run-to-completion event handling); the
// store provides atomic mutations, not locking.
type Store struct {
	records    []Record
	columns    []string
	sourceName string
	generation uuid.UUID
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{generation: uuid.New()}
}

// Load replaces the dataset wholesale. Housekeeping columns injected by
// the upstream ingestion process are dropped and rows where every field
// is null/empty are discarded, so trailing blank spreadsheet rows never
// inflate counts or corrupt sequence numbering. Each load starts a new
// generation; completions carrying an older generation token must be
// discarded by the caller.
func (s *Store) Load(rows []Record) {
	cleaned := make([]Record, 0, len(rows))
	var columns []string
	for _, row := range rows {
		r := row.clone()
		for _, col := range housekeepingColumns {
			delete(r, col)
		}
		if r.IsEmpty() {
			continue
		}
		cleaned = append(cleaned, r)
		if columns == nil {
			columns = columnOrder(r)
		}
	}
	s.records = cleaned
	s.columns = columns
	s.generation = uuid.New()
}

// columnOrder derives a stable column order for exports. JSON objects
// arrive unordered in Go, so known logical columns are placed last and
// the rest sorted by name.
func columnOrder(cleaned Record) []string {
	known := map[string]bool{
		ColLatitude: true, ColLongitude: true,
		ColNormalizedAddress: true, ColPartialMatch: true, ColStatusLog: true,
	}
	var head, tail []string
	for _, col := range addressColumns {
		if _, ok := cleaned[col]; ok {
			head = append(head, col)
		}
	}
	var rest []string
	for k := range cleaned {
		if known[k] || slices.Contains(head, k) {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	head = append(head, rest...)
	for _, col := range []string{ColNormalizedAddress, ColLatitude, ColLongitude, ColPartialMatch, ColStatusLog} {
		if _, ok := cleaned[col]; ok {
			tail = append(tail, col)
		}
	}
	return append(head, tail...)
}

// Records returns a snapshot of the current dataset in order. Rows are
// copies; mutating them does not touch the store.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.clone()
	}
	return out
}

// At returns a copy of the record at a 0-based index.
func (s *Store) At(index int) (Record, error) {
	if index < 0 || index >= len(s.records) {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(s.records))
	}
	return s.records[index].clone(), nil
}

// Len returns the current record count.
func (s *Store) Len() int { return len(s.records) }

// Columns returns the export column order established at load time.
func (s *Store) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Generation identifies the current dataset shape. It moves on every
// load and on every delete, so in-flight work holding an older token
// can tell its captured index no longer means the same record.
func (s *Store) Generation() uuid.UUID { return s.generation }

// SourceName is the original upload filename, used to derive export
// filenames.
func (s *Store) SourceName() string { return s.sourceName }

// SetSourceName records the upload filename.
func (s *Store) SetSourceName(name string) { s.sourceName = name }

// UpdateAt merges a partial field set into the record at index. The
// merge is applied to a copy first and swapped in whole, so a reader
// never observes a partially-applied patch. Ordering and other records
// are untouched.
func (s *Store) UpdateAt(index int, patch Record) error {
	if index < 0 || index >= len(s.records) {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(s.records))
	}
	merged := s.records[index].clone()
	for k, v := range patch {
		merged[k] = v
	}
	s.records[index] = merged
	return nil
}

// DeleteAt removes the record at index. Subsequent records shift down
// one position, so every index captured before the delete is stale;
// the generation token moves to make those captures detectable.
func (s *Store) DeleteAt(index int) error {
	if index < 0 || index >= len(s.records) {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(s.records))
	}
	s.records = append(s.records[:index], s.records[index+1:]...)
	s.generation = uuid.New()
	return nil
}
