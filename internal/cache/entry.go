package cache

import (
	"encoding/json"
	"time"
)

// Entry is the on-disk content model of one cache file: the write time and
// the cached value. External tooling reading cache files directly must
// honor this shape, though it is not a guaranteed stable interface.
type Entry struct {
	// Timestamp is the time of last write, in fractional seconds since
	// the Unix epoch.
	Timestamp float64 `json:"timestamp"`

	// Data is the cached value, kept as raw JSON.
	Data json.RawMessage `json:"data"`
}

// NewEntry wraps value in an Entry stamped with the current time.
func NewEntry(value any) (Entry, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Timestamp: unixSeconds(time.Now()),
		Data:      data,
	}, nil
}

// Age returns the time elapsed since the entry was written.
func (e Entry) Age() time.Duration {
	written := time.Unix(0, int64(e.Timestamp*float64(time.Second)))
	return time.Since(written)
}

// Expired reports whether the entry's age exceeds maxAge. A zero maxAge
// means any already-written entry is stale.
func (e Entry) Expired(maxAge time.Duration) bool {
	return e.Age() > maxAge
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
