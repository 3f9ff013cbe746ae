package records

import "errors"

// ErrNotFound is returned when no record matches the requested code.
// The text is shown to the user as is, hence the capital letter.
var ErrNotFound = errors.New("Code not found")

// Record is a single badge recipient
type Record struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

// Store holds all records loaded at startup. It is read-only after construction.
type Store struct {
	records []Record
	index   map[string]int
}

// NewStore indexes the given records. When codes repeat, the first row wins.
func NewStore(records []Record) *Store {
	store := &Store{
		records: records,
		index:   make(map[string]int, len(records)),
	}
	for i, record := range records {
		if _, exists := store.index[record.Code]; exists {
			continue
		}
		store.index[record.Code] = i
	}
	return store
}

// Lookup returns the record whose code matches exactly
func (s *Store) Lookup(code string) (Record, error) {
	idx, ok := s.index[code]
	if !ok {
		return Record{}, ErrNotFound
	}
	return s.records[idx], nil
}

// Len returns the number of loaded rows, duplicates included
func (s *Store) Len() int {
	return len(s.records)
}
