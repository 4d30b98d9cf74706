package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/five82/spoolfinder/internal/fallback"
	"github.com/five82/spoolfinder/internal/spool"
)

const maxBodyBytes = 32 << 20

var (
	// ErrInvalidJSON means the body is not JSON text.
	ErrInvalidJSON = errors.New("response is not valid JSON")
	// ErrNotSequence means the JSON is valid but not an array.
	ErrNotSequence = errors.New("response is not a JSON array")
	// ErrEmptyPayload means the array holds no records.
	ErrEmptyPayload = errors.New("response contains no records")
	// ErrBodyTooLarge means the body exceeded the read limit.
	ErrBodyTooLarge = errors.New("response body too large")
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("source returned status %d", e.Code)
}

// Failure is returned by Load when every source failed.
type Failure struct {
	Attempts []fallback.Failure
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("load spools: all %d sources failed (%s)", len(f.Attempts), strings.Join(f.Sources(), ", "))
	if last := f.Last(); last != nil {
		msg += ": " + last.Error()
	}
	return msg
}

// Sources lists the attempted source names in order.
func (f *Failure) Sources() []string {
	out := make([]string, 0, len(f.Attempts))
	for _, a := range f.Attempts {
		out = append(out, a.Name)
	}
	return out
}

// Last returns the error observed on the final source.
func (f *Failure) Last() error {
	if len(f.Attempts) == 0 {
		return nil
	}
	return f.Attempts[len(f.Attempts)-1].Err
}

// Unwrap exposes the last error.
func (f *Failure) Unwrap() error {
	return f.Last()
}

func readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}

// decodeRecords accepts a JSON array of records, optionally wrapped in an
// AllOrigins-style {"contents": "<json text>"} envelope.
func decodeRecords(body []byte) ([]spool.Record, error) {
	payload := bytes.TrimSpace(body)
	if !json.Valid(payload) {
		return nil, ErrInvalidJSON
	}

	if payload[0] == '{' {
		var envelope struct {
			Contents *string `json:"contents"`
		}
		if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Contents != nil {
			payload = bytes.TrimSpace([]byte(*envelope.Contents))
			if !json.Valid(payload) {
				return nil, ErrInvalidJSON
			}
		}
	}

	if payload[0] != '[' {
		return nil, ErrNotSequence
	}

	var records []spool.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyPayload
	}
	return records, nil
}
