package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Entry is one decoded line of the stockboard JSON log.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  []Field
}

// Field is an extra key/value carried by an entry, in key order.
type Field struct {
	Key   string
	Value string
}

// reserved keys are rendered in fixed positions rather than as fields.
var reserved = map[string]bool{"ts": true, "level": true, "msg": true, "caller": true, "logger": true}

// Parse decodes a JSON log line. Lines that are not JSON objects come back
// as a message-only entry with ok=false.
func Parse(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	var raw map[string]any
	if !strings.HasPrefix(trimmed, "{") || json.Unmarshal([]byte(trimmed), &raw) != nil {
		return Entry{Message: line}, false
	}

	entry := Entry{
		Level:   strings.ToUpper(stringValue(raw["level"])),
		Message: stringValue(raw["msg"]),
	}
	if ts := stringValue(raw["ts"]); ts != "" {
		if parsed, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
			entry.Time = parsed
		} else if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			entry.Time = parsed
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		entry.Fields = append(entry.Fields, Field{Key: k, Value: stringValue(raw[k])})
	}
	return entry, true
}

// ReadEntries returns the last maxLines entries of the log at path. Blank
// lines are skipped and do not count toward maxLines.
func ReadEntries(path string, maxLines int) ([]Entry, error) {
	return scan(path, maxLines, func(line string) (Entry, bool) {
		if strings.TrimSpace(line) == "" {
			return Entry{}, false
		}
		entry, _ := Parse(line)
		return entry, true
	})
}

// String renders the entry as a single plain-text line.
func (e Entry) String() string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if e.Level != "" {
		fmt.Fprintf(&b, "%-5s ", e.Level)
	}
	b.WriteString(e.Message)
	for _, f := range e.Fields {
		fmt.Fprintf(&b, " %s=%s", f.Key, f.Value)
	}
	return b.String()
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		body, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(body)
	}
}
