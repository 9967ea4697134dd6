package trail

import (
	"encoding/json"
	"time"
)

// Entry is one visited location in the trail.
type Entry struct {
	Key       string    `json:"key"`   // canonical identity, unique in the trail
	URL       string    `json:"url"`   // navigable target
	Label     string    `json:"label"` // display label, refined in place
	VisitedAt time.Time `json:"visitedAt"`
}

// Backend is the injected persistence capability. Both operations may fail;
// the store recovers from every failure locally and never propagates one.
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Load reads the trail from the backend. A read failure, a missing key, a
// malformed payload or a payload that is not an array all yield an empty
// trail. At most limit entries are returned, order preserved.
func Load(b Backend, key string, limit int) []Entry {
	raw, err := b.Get(key)
	if err != nil || raw == "" {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Save persists at most limit entries. Write failures are swallowed: the
// in-memory trail stays authoritative for the session.
func Save(b Backend, key string, entries []Entry, limit int) {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	_ = b.Set(key, string(raw))
}

// Upsert removes any entry sharing the new entry's key, prepends the new
// entry and truncates to limit. Re-visiting never duplicates a key.
func Upsert(entries []Entry, e Entry, limit int) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, e)
	for _, old := range entries {
		if old.Key != e.Key {
			out = append(out, old)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RemoveKey filters out the entry with the given key. The relative order of
// the remaining entries is unchanged.
func RemoveKey(entries []Entry, key string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return out
}
