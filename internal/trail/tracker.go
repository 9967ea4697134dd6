package trail

import (
	"time"

	"github.com/vidyasagar/doctrail/internal/label"
	"github.com/vidyasagar/doctrail/internal/nav"
)

// RefineDelay is how long after a navigation event the deferred label
// refinement runs. Long enough for a page to render its heading, short
// enough that the trail panel never shows a stale label for long.
const RefineDelay = 120 * time.Millisecond

const (
	// DefaultStorageKey is the backend key the trail is persisted under.
	DefaultStorageKey = "doctrail.trail"
	// DefaultMaxHistory caps the trail size.
	DefaultMaxHistory = 50
	// DefaultVisible is the collapsed trail panel window size.
	DefaultVisible = 4
)

// Options configures a Tracker. Zero values fall back to the defaults
// above; BasePath, IgnorePaths and Resolver are optional.
type Options struct {
	StorageKey     string
	MaxHistory     int
	DefaultVisible int
	BasePath       string     // site prefix stripped before normalization
	IgnorePaths    []string   // path prefixes that are never captured
	Resolver       label.Func // override; "" result falls back to the default
}

func (o Options) withDefaults() Options {
	if o.StorageKey == "" {
		o.StorageKey = DefaultStorageKey
	}
	if o.MaxHistory <= 0 {
		o.MaxHistory = DefaultMaxHistory
	}
	if o.DefaultVisible <= 0 {
		o.DefaultVisible = DefaultVisible
	}
	return o
}

// HeadingFunc returns the current document's first top-level heading,
// trimmed, or "" when no heading is available yet.
type HeadingFunc func() string

// Tracker records visits into a bounded, deduplicated, most-recent-first
// trail and resolves labels in two phases: immediately on navigation, and
// again after RefineDelay once the page heading may have rendered.
//
// A Tracker is single-session, single-writer: all calls are expected from
// one event loop. Concurrent sessions sharing a backend key race with
// last-write-wins semantics.
type Tracker struct {
	backend Backend
	heading HeadingFunc
	opts    Options

	entries []Entry
	gen     uint64       // generation of the most recent captured visit
	lastLoc nav.Location // location captured by that visit
}

// NewTracker wires a Tracker to a persistence backend and a heading
// provider. A nil heading provider means headings are never available.
func NewTracker(b Backend, heading HeadingFunc, opts Options) *Tracker {
	if heading == nil {
		heading = func() string { return "" }
	}
	t := &Tracker{
		backend: b,
		heading: heading,
		opts:    opts.withDefaults(),
	}
	t.entries = Load(b, t.opts.StorageKey, t.opts.MaxHistory)
	return t
}

// Options returns the effective configuration.
func (t *Tracker) Options() Options {
	return t.opts
}

// Visit performs the phase-1 capture for a navigation event: normalize,
// resolve a label from whatever heading is available right now, upsert and
// persist. It returns the generation token identifying this visit; pass it
// to Refine after RefineDelay.
//
// Paths under an IgnorePaths prefix are not captured; captured reports
// whether the trail was touched. An ignored navigation still supersedes
// any pending refinement, so a heading that appears on the ignored page
// can never rewrite the previous entry's label.
func (t *Tracker) Visit(path, query string) (gen uint64, captured bool) {
	loc := nav.Normalize(path, t.opts.BasePath, query)
	if nav.Ignored(loc.Path, t.opts.IgnorePaths) {
		t.gen++
		t.lastLoc = nav.Location{}
		return t.gen, false
	}

	entry := Entry{
		Key:       loc.Key,
		URL:       loc.URL,
		Label:     t.resolve(loc),
		VisitedAt: time.Now(),
	}

	entries := Load(t.backend, t.opts.StorageKey, t.opts.MaxHistory)
	entries = Upsert(entries, entry, t.opts.MaxHistory)
	Save(t.backend, t.opts.StorageKey, entries, t.opts.MaxHistory)
	t.entries = entries

	// A new generation supersedes any refinement still pending for the
	// previous visit.
	t.gen++
	t.lastLoc = loc
	return t.gen, true
}

// Refine performs the phase-2 label refinement for the visit identified by
// gen. It is a no-op when a newer visit has superseded gen, when no heading
// is available, when the entry has meanwhile been removed, or when the
// recomputed label is unchanged. Otherwise the label is replaced in place,
// leaving timestamp and position untouched. Refined reports whether a label
// was rewritten.
func (t *Tracker) Refine(gen uint64) (refined bool) {
	if gen != t.gen {
		return false
	}

	heading := t.heading()
	if heading == "" {
		return false
	}

	entries := Load(t.backend, t.opts.StorageKey, t.opts.MaxHistory)
	idx := -1
	for i, e := range entries {
		if e.Key == t.lastLoc.Key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	fresh := t.resolve(t.lastLoc)
	if fresh == entries[idx].Label {
		return false
	}

	entries[idx].Label = fresh
	Save(t.backend, t.opts.StorageKey, entries, t.opts.MaxHistory)
	t.entries = entries
	return true
}

// Entries returns the trail, most recent first.
func (t *Tracker) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Remove drops the entry with the given key and persists. Other entries
// keep their order and labels.
func (t *Tracker) Remove(key string) {
	entries := Load(t.backend, t.opts.StorageKey, t.opts.MaxHistory)
	entries = RemoveKey(entries, key)
	Save(t.backend, t.opts.StorageKey, entries, t.opts.MaxHistory)
	t.entries = entries
}

// Clear empties the trail in memory and in the backend.
func (t *Tracker) Clear() {
	Save(t.backend, t.opts.StorageKey, nil, t.opts.MaxHistory)
	t.entries = nil
}

func (t *Tracker) resolve(loc nav.Location) string {
	ctx := label.Context{
		Heading:  t.heading(),
		Pathname: loc.Path,
		Query:    loc.Query,
		Segments: loc.Segments,
		URL:      loc.URL,
	}
	if t.opts.Resolver != nil {
		if custom := t.opts.Resolver(ctx); custom != "" {
			return custom
		}
	}
	return label.Resolve(ctx)
}
