package spool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ID is a record identifier. The dataset emits it as a string, a number or
// occasionally another scalar; all decode to their textual form so that 100
// and "100" compare equal.
type ID string

// UnmarshalJSON accepts any JSON value. See Text.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID(Text(data))
	return nil
}

// String returns the textual identifier.
func (id ID) String() string {
	return string(id)
}

// Text returns the textual form of a raw JSON value: strings unquoted,
// numbers and booleans as written, null or empty input as "", and objects
// or arrays as their compact JSON text.
func Text(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case '{', '[':
		var b bytes.Buffer
		if err := json.Compact(&b, trimmed); err == nil {
			return b.String()
		}
	}
	return string(trimmed)
}

// Record mirrors one element of the spool dataset.
type Record struct {
	ID             ID     `json:"ID_Item"`
	Name           string `json:"Spool"`
	Status         string `json:"Status"`
	Location       string `json:"Ubicacion"`
	PhotoURL       string `json:"Foto_URL"`
	PlanURL        string `json:"Plano_URL"`
	OriginPhotoURL string `json:"Foto_Origen_URL,omitempty"`
}

// UnmarshalJSON decodes one dataset element. Cells of any JSON type keep
// their textual form, and an element that is not an object decodes to an
// empty record so one odd row never rejects the whole dataset.
func (r *Record) UnmarshalJSON(data []byte) error {
	*r = Record{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var raw struct {
		ID             json.RawMessage `json:"ID_Item"`
		Name           json.RawMessage `json:"Spool"`
		Status         json.RawMessage `json:"Status"`
		Location       json.RawMessage `json:"Ubicacion"`
		PhotoURL       json.RawMessage `json:"Foto_URL"`
		PlanURL        json.RawMessage `json:"Plano_URL"`
		OriginPhotoURL json.RawMessage `json:"Foto_Origen_URL"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	r.ID = ID(Text(raw.ID))
	r.Name = Text(raw.Name)
	r.Status = Text(raw.Status)
	r.Location = Text(raw.Location)
	r.PhotoURL = Text(raw.PhotoURL)
	r.PlanURL = Text(raw.PlanURL)
	r.OriginPhotoURL = Text(raw.OriginPhotoURL)
	return nil
}

// Field selects which record attribute a search runs against.
type Field int

const (
	FieldID Field = iota
	FieldName
)

// String returns a short label for the field.
func (f Field) String() string {
	switch f {
	case FieldName:
		return "spool"
	default:
		return "id"
	}
}

// Other returns the opposite search field.
func (f Field) Other() Field {
	if f == FieldName {
		return FieldID
	}
	return FieldName
}

// Value returns the record attribute the field refers to.
func (r Record) Value(f Field) string {
	if f == FieldName {
		return r.Name
	}
	return r.ID.String()
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// StatusSlug turns a free-text status into a stable badge key, e.g.
// "En Fabricación" becomes "en-fabricación".
func StatusSlug(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	return whitespaceRun.ReplaceAllString(s, "-")
}
