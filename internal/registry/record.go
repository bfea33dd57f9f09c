// Package registry holds the operator's view of uploaded documents: a
// snapshot of file records fetched from the storage service, plus the
// derived orderings, partitions, and selections the dashboard renders.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// FileRecord is a document known to the storage service.
type FileRecord struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"originalName"`
	UploadedAt   Timestamp `json:"uploadedAt"`
	IsUsed       bool      `json:"isUsed"`
}

// Upload is a document payload sent to the storage service.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// zone-less layouts are read as UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is an instant that decodes both RFC 3339 and zone-less ISO-8601 strings.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s using the accepted timestamp layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
