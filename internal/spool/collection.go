package spool

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultSuggestionLimit caps typeahead results when no limit is configured.
const DefaultSuggestionLimit = 8

// Collection is the ordered set of records loaded for one session. It is
// never mutated after construction; callers get copies from Records.
type Collection struct {
	records []Record
}

// NewCollection copies records into a Collection.
func NewCollection(records []Record) Collection {
	if len(records) == 0 {
		return Collection{}
	}
	dup := make([]Record, len(records))
	copy(dup, records)
	return Collection{records: dup}
}

// Len returns the number of records.
func (c Collection) Len() int {
	return len(c.records)
}

// Empty reports whether the collection holds no records.
func (c Collection) Empty() bool {
	return len(c.records) == 0
}

// Records returns a copy of the records in load order.
func (c Collection) Records() []Record {
	if len(c.records) == 0 {
		return nil
	}
	dup := make([]Record, len(c.records))
	copy(dup, c.records)
	return dup
}

// At returns the record at index i.
func (c Collection) At(i int) Record {
	return c.records[i]
}

// Lookup returns the first record whose textual identifier equals id.
func (c Collection) Lookup(id string) (Record, bool) {
	want := strings.TrimSpace(id)
	if want == "" {
		return Record{}, false
	}
	for _, r := range c.records {
		if r.ID.String() == want {
			return r, true
		}
	}
	return Record{}, false
}

// LookupName returns the first record whose name equals name under Unicode
// case folding.
func (c Collection) LookupName(name string) (Record, bool) {
	want := strings.TrimSpace(name)
	if want == "" {
		return Record{}, false
	}
	fold := cases.Fold()
	want = fold.String(want)
	for _, r := range c.records {
		if fold.String(r.Name) == want {
			return r, true
		}
	}
	return Record{}, false
}

// Filter returns up to limit records whose field contains query, compared
// with Unicode case folding. Relative order is preserved.
func (c Collection) Filter(field Field, query string, limit int) []Record {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	fold := cases.Fold()
	needle := fold.String(query)

	var out []Record
	for _, r := range c.records {
		if !strings.Contains(fold.String(r.Value(field)), needle) {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Option is one entry of an exhaustive selector list. Value is always the
// record identifier, so a name option resolves through Lookup like an id.
type Option struct {
	Label string
	Value string
}

// IDs lists every record as an identifier option.
func (c Collection) IDs() []Option {
	return c.options(FieldID)
}

// Names lists every record as a spool-name option.
func (c Collection) Names() []Option {
	return c.options(FieldName)
}

// Options lists every record labelled by field.
func (c Collection) Options(field Field) []Option {
	return c.options(field)
}

func (c Collection) options(field Field) []Option {
	if len(c.records) == 0 {
		return nil
	}
	out := make([]Option, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, Option{Label: r.Value(field), Value: r.ID.String()})
	}
	return out
}
