package trail

import (
	"fmt"
	"testing"

	"github.com/vidyasagar/doctrail/internal/label"
)

// headingStub is a settable heading provider.
type headingStub struct{ text string }

func (h *headingStub) get() string { return h.text }

func newTestTracker(b Backend, h *headingStub, opts Options) *Tracker {
	if h == nil {
		h = &headingStub{}
	}
	return NewTracker(b, h.get, opts)
}

func TestVisitCapturesEntry(t *testing.T) {
	b := newFakeBackend()
	tr := newTestTracker(b, nil, Options{})

	_, captured := tr.Visit("/docs/intro", "")
	if !captured {
		t.Fatal("Visit did not capture")
	}

	entries := tr.Entries()
	if len(entries) != 1 {
		t.Fatalf("trail has %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Key != "/docs/intro" {
		t.Errorf("Key = %q, want /docs/intro", e.Key)
	}
	if e.Label != "Docs / Intro" {
		t.Errorf("Label = %q, want Docs / Intro", e.Label)
	}
	if e.VisitedAt.IsZero() {
		t.Error("VisitedAt not set")
	}
}

func TestVisitPersists(t *testing.T) {
	b := newFakeBackend()
	tr := newTestTracker(b, nil, Options{})
	tr.Visit("/docs/intro", "")

	// A second tracker on the same backend sees the entry.
	tr2 := newTestTracker(b, nil, Options{})
	if got := tr2.Entries(); len(got) != 1 || got[0].Key != "/docs/intro" {
		t.Errorf("fresh tracker loaded %v, want the persisted entry", got)
	}
}

func TestVisitDistinctKeysRespectCap(t *testing.T) {
	b := newFakeBackend()
	tr := newTestTracker(b, nil, Options{MaxHistory: 3})

	for i := 0; i < 10; i++ {
		tr.Visit(fmt.Sprintf("/page/%d", i), "")
	}
	if got := len(tr.Entries()); got != 3 {
		t.Errorf("trail has %d entries, want cap 3", got)
	}
}

func TestRevisitMovesToFrontWithoutDuplicating(t *testing.T) {
	b := newFakeBackend()
	tr := newTestTracker(b, nil, Options{})

	tr.Visit("/a", "")
	tr.Visit("/b", "")
	tr.Visit("/a", "")

	entries := tr.Entries()
	if len(entries) != 2 {
		t.Fatalf("trail has %d entries, want 2", len(entries))
	}
	if entries[0].Key != "/a" || entries[1].Key != "/b" {
		t.Errorf("order = %q, %q; want /a then /b", entries[0].Key, entries[1].Key)
	}
	if entries[0].VisitedAt.Before(entries[1].VisitedAt) {
		t.Error("re-visited entry has an older timestamp than the one behind it")
	}
}

func TestVisitQueryDistinguishesKeys(t *testing.T) {
	b := newFakeBackend()
	tr := newTestTracker(b, nil, Options{})

	tr.Visit("/reports", "report_id=1")
	tr.Visit("/reports", "report_id=2")

	if got := len(tr.Entries()); got != 2 {
		t.Errorf("trail has %d entries, want 2 distinct keys", got)
	}
}

func TestVisitBasePathStripped(t *testing.T) {
	b := newFakeBackend()
	tr := newTestTracker(b, nil, Options{BasePath: "/manual"})

	tr.Visit("/manual/docs/intro", "")
	if got := tr.Entries()[0].Key; got != "/docs/intro" {
		t.Errorf("Key = %q, want base path stripped", got)
	}
}

func TestVisitIgnoredPath(t *testing.T) {
	b := newFakeBackend()
	tr := newTestTracker(b, nil, Options{IgnorePaths: []string{"/admin"}})

	if _, captured := tr.Visit("/admin/settings", ""); captured {
		t.Error("ignored path was captured")
	}
	if got := len(tr.Entries()); got != 0 {
		t.Errorf("trail has %d entries, want 0", got)
	}
	if b.setCalls != 0 {
		t.Errorf("backend written %d times for an ignored path", b.setCalls)
	}
}

func TestVisitHomeLabel(t *testing.T) {
	b := newFakeBackend()
	tr := newTestTracker(b, nil, Options{})
	tr.Visit("/", "")
	if got := tr.Entries()[0].Label; got != label.HomeLabel {
		t.Errorf("Label = %q, want %q", got, label.HomeLabel)
	}
}

func TestVisitWorksWhenBackendDown(t *testing.T) {
	b := newFakeBackend()
	b.getErr = true
	b.setErr = true
	tr := newTestTracker(b, nil, Options{})

	tr.Visit("/docs/intro", "")
	if got := len(tr.Entries()); got != 1 {
		t.Errorf("in-memory trail has %d entries, want 1 despite backend failure", got)
	}
}

func TestRefineUpdatesLabelInPlace(t *testing.T) {
	b := newFakeBackend()
	h := &headingStub{}
	tr := newTestTracker(b, h, Options{})

	tr.Visit("/a", "")
	gen, _ := tr.Visit("/users/123e4567-e89b-12d3-a456-426614174000", "")

	before := tr.Entries()
	if before[0].Label == "Users / Jane Doe" {
		t.Fatal("label already refined before heading was available")
	}

	h.text = "Jane Doe"
	if !tr.Refine(gen) {
		t.Fatal("Refine did not rewrite the label")
	}

	after := tr.Entries()
	if after[0].Label != "Users / Jane Doe" {
		t.Errorf("Label = %q, want Users / Jane Doe", after[0].Label)
	}
	if !after[0].VisitedAt.Equal(before[0].VisitedAt) {
		t.Error("Refine changed the timestamp")
	}
	if after[0].Key != before[0].Key || after[1].Key != before[1].Key {
		t.Error("Refine changed entry order")
	}
}

func TestRefineNoHeadingIsNoop(t *testing.T) {
	b := newFakeBackend()
	h := &headingStub{}
	tr := newTestTracker(b, h, Options{})

	gen, _ := tr.Visit("/docs/intro", "")
	writes := b.setCalls
	if tr.Refine(gen) {
		t.Error("Refine rewrote a label with no heading available")
	}
	if b.setCalls != writes {
		t.Error("Refine persisted despite no-op")
	}
}

func TestRefineStaleGenerationIsNoop(t *testing.T) {
	b := newFakeBackend()
	h := &headingStub{}
	tr := newTestTracker(b, h, Options{})

	gen1, _ := tr.Visit("/users/123e4567-e89b-12d3-a456-426614174000", "")
	tr.Visit("/docs/intro", "")

	// Heading for the newer page arrives, then the stale timer fires.
	h.text = "Getting Started"
	if tr.Refine(gen1) {
		t.Error("stale refinement mutated the trail")
	}
	if got := tr.Entries()[0].Label; got != "Docs / Intro" {
		t.Errorf("newer entry label = %q, want Docs / Intro", got)
	}
}

func TestIgnoredVisitSupersedesPendingRefinement(t *testing.T) {
	b := newFakeBackend()
	h := &headingStub{}
	tr := newTestTracker(b, h, Options{IgnorePaths: []string{"/admin"}})

	gen1, _ := tr.Visit("/users/123e4567-e89b-12d3-a456-426614174000", "")
	tr.Visit("/admin/settings", "")

	// The ignored page renders its heading, then the stale timer for the
	// earlier visit fires.
	h.text = "Admin Settings"
	if tr.Refine(gen1) {
		t.Error("refinement survived an intervening ignored navigation")
	}
	if got := tr.Entries()[0].Label; got == "Users / Admin Settings" {
		t.Errorf("entry labeled %q from the ignored page's heading", got)
	}
}

func TestRefineRemovedEntryIsNoop(t *testing.T) {
	b := newFakeBackend()
	h := &headingStub{}
	tr := newTestTracker(b, h, Options{})

	gen, _ := tr.Visit("/users/123e4567-e89b-12d3-a456-426614174000", "")
	tr.Remove("/users/123e4567-e89b-12d3-a456-426614174000")

	h.text = "Jane Doe"
	if tr.Refine(gen) {
		t.Error("Refine resurrected a removed entry")
	}
	if got := len(tr.Entries()); got != 0 {
		t.Errorf("trail has %d entries, want 0", got)
	}
}

func TestRefineUnchangedLabelIsNoop(t *testing.T) {
	b := newFakeBackend()
	h := &headingStub{}
	tr := newTestTracker(b, h, Options{})

	// Plain route: the heading does not influence the label, so the
	// recomputed label matches phase 1.
	gen, _ := tr.Visit("/docs/intro", "")
	h.text = "Introduction"

	writes := b.setCalls
	if tr.Refine(gen) {
		t.Error("Refine rewrote an unchanged label")
	}
	if b.setCalls != writes {
		t.Error("Refine persisted despite unchanged label")
	}
}

func TestCustomResolver(t *testing.T) {
	b := newFakeBackend()
	opts := Options{
		Resolver: func(ctx label.Context) string {
			if ctx.Pathname == "/special" {
				return "Pinned"
			}
			return ""
		},
	}
	tr := newTestTracker(b, nil, opts)

	tr.Visit("/special", "")
	tr.Visit("/docs/intro", "")

	entries := tr.Entries()
	if entries[1].Label != "Pinned" {
		t.Errorf("custom label = %q, want Pinned", entries[1].Label)
	}
	if entries[0].Label != "Docs / Intro" {
		t.Errorf("fallback label = %q, want Docs / Intro", entries[0].Label)
	}
}

func TestRemoveLeavesOthersUntouched(t *testing.T) {
	b := newFakeBackend()
	tr := newTestTracker(b, nil, Options{})

	tr.Visit("/a", "")
	tr.Visit("/b", "")
	tr.Visit("/c", "")
	tr.Remove("/b")

	entries := tr.Entries()
	if len(entries) != 2 {
		t.Fatalf("trail has %d entries, want 2", len(entries))
	}
	if entries[0].Key != "/c" || entries[1].Key != "/a" {
		t.Errorf("order = %q, %q; want /c then /a", entries[0].Key, entries[1].Key)
	}
}

func TestClearEmptiesTrailAndBackend(t *testing.T) {
	b := newFakeBackend()
	tr := newTestTracker(b, nil, Options{})

	tr.Visit("/a", "")
	tr.Visit("/b", "")
	tr.Clear()

	if got := len(tr.Entries()); got != 0 {
		t.Errorf("in-memory trail has %d entries after Clear", got)
	}
	if got := Load(b, DefaultStorageKey, DefaultMaxHistory); len(got) != 0 {
		t.Errorf("backend still holds %d entries after Clear", len(got))
	}
}

func TestOptionsDefaults(t *testing.T) {
	tr := newTestTracker(newFakeBackend(), nil, Options{})
	opts := tr.Options()
	if opts.StorageKey != DefaultStorageKey {
		t.Errorf("StorageKey = %q, want %q", opts.StorageKey, DefaultStorageKey)
	}
	if opts.MaxHistory != DefaultMaxHistory {
		t.Errorf("MaxHistory = %d, want %d", opts.MaxHistory, DefaultMaxHistory)
	}
	if opts.DefaultVisible != DefaultVisible {
		t.Errorf("DefaultVisible = %d, want %d", opts.DefaultVisible, DefaultVisible)
	}
}
