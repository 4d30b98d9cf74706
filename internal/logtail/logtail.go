package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded zap JSON log line.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	Fields  map[string]any
	Raw     string
}

// zap's ISO8601 encoder layout.
const iso8601 = "2006-01-02T15:04:05.000Z0700"

var reserved = map[string]bool{
	"ts": true, "level": true, "msg": true, "logger": true, "caller": true, "stacktrace": true,
}

// Parse decodes a zap JSON line. Lines that are not JSON objects come back
// with only Raw and Message set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	var obj map[string]any
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		e.Message = strings.TrimSpace(line)
		return e
	}

	e.Level, _ = obj["level"].(string)
	e.Message, _ = obj["msg"].(string)
	e.Logger, _ = obj["logger"].(string)
	switch ts := obj["ts"].(type) {
	case string:
		if t, err := time.Parse(iso8601, ts); err == nil {
			e.Time = t
		} else if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Time = t
		}
	case float64:
		sec := int64(ts)
		e.Time = time.Unix(sec, int64((ts-float64(sec))*1e9))
	}

	for k, v := range obj {
		if reserved[k] {
			continue
		}
		if e.Fields == nil {
			e.Fields = make(map[string]any)
		}
		e.Fields[k] = v
	}
	return e
}

// Entries reads the last maxEntries lines of path and decodes them.
func Entries(path string, maxEntries int) ([]Entry, error) {
	lines, err := Read(path, maxEntries)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, Parse(line))
	}
	return out, nil
}

// String renders the entry as "15:04:05 LEVEL message key=value ...".
func (e Entry) String() string {
	if e.Level == "" && e.Time.IsZero() {
		return e.Message
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Format("15:04:05"))
		b.WriteByte(' ')
	}
	if e.Level != "" {
		b.WriteString(strings.ToUpper(e.Level))
		b.WriteByte(' ')
	}
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}
