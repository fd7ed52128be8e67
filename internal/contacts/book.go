package contacts

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Book is the keyed contact collection. It owns its records exclusively
// and holds at most one record per normalized name.
//
// A Book is not safe for concurrent use; the session that owns it is the only mutator.
type Book struct {
	records map[string]*Record
}

// NewBook returns an empty contact book.
func NewBook() *Book {
	return &Book{records: make(map[string]*Record)}
}

// AddRecord inserts r, replacing any record stored under the same name.
func (b *Book) AddRecord(r *Record) {
	b.records[r.name.value] = r
}

// Find returns the record stored under name. The lookup key is
// normalized the same way as NewName.
func (b *Book) Find(name string) (*Record, bool) {
	r, ok := b.records[normalizeName(name)]
	return r, ok
}

// Delete removes the record stored under name.
func (b *Book) Delete(name string) error {
	key := normalizeName(name)
	if _, ok := b.records[key]; !ok {
		return &NotFoundError{Field: FieldName, Value: name}
	}
	delete(b.records, key)
	return nil
}

// Len returns the number of records.
func (b *Book) Len() int {
	return len(b.records)
}

// Records returns every record sorted by name.
func (b *Book) Records() []*Record {
	keys := slices.Sorted(maps.Keys(b.records))
	out := make([]*Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, b.records[k])
	}
	return out
}

// String lists one record per line between two rules as wide as the longest line.
// An empty book renders as an empty string.
func (b *Book) String() string {
	records := b.Records()
	if len(records) == 0 {
		return ""
	}

	lines := make([]string, len(records))
	width := 0
	for i, r := range records {
		lines[i] = r.String()
		width = max(width, utf8.RuneCountInString(lines[i]))
	}

	rule := strings.Repeat(config.RuleChar, width)
	return rule + "\n" + strings.Join(lines, "\n") + "\n" + rule
}
