package view

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	s := New()
	snap := s.Snapshot()

	if len(snap.Classes) != 0 {
		t.Errorf("Classes: got %v, want none", snap.Classes)
	}
	if snap.InputDisabled {
		t.Error("input should start enabled")
	}
	if snap.Matches == nil || snap.Gallery == nil {
		t.Error("Matches and Gallery should be empty, not nil")
	}
}

func TestClasses(t *testing.T) {
	s := New()
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	s.AddClass(ClassProcessing)
	s.AddClass(ClassProcessing)
	s.AddClass(ClassError)

	if !s.HasClass(ClassProcessing) || !s.HasClass(ClassError) {
		t.Fatal("expected both classes present")
	}
	if got := s.Snapshot().Classes; !reflect.DeepEqual(got, []string{"error", "processing"}) {
		t.Errorf("Classes: got %v", got)
	}

	s.RemoveClass(ClassError)
	s.RemoveClass(ClassError)

	want := []Event{
		{Kind: EventClassAdded, Value: ClassProcessing},
		{Kind: EventClassAdded, Value: ClassError},
		{Kind: EventClassRemoved, Value: ClassError},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events: got %v, want %v", events, want)
	}
}

func TestMatches(t *testing.T) {
	s := New()
	s.AppendMatches("cat", "dog")
	s.AppendMatches("fish")

	if got := s.Matches(); !reflect.DeepEqual(got, []string{"cat", "dog", "fish"}) {
		t.Errorf("Matches: got %v", got)
	}

	s.ClearMatches()
	if got := s.Matches(); len(got) != 0 {
		t.Errorf("Matches after clear: got %v", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := New()
	s.AppendMatches("cat")
	s.AppendGallery(GalleryItem{ID: "a"})

	snap := s.Snapshot()
	snap.Matches[0] = "changed"
	snap.Gallery[0].ID = "changed"

	again := s.Snapshot()
	if again.Matches[0] != "cat" || again.Gallery[0].ID != "a" {
		t.Error("Snapshot should not alias surface state")
	}
}

func TestInputAndStatus(t *testing.T) {
	s := New()
	var kinds []EventKind
	s.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })

	s.SetInputDisabled(true)
	if !s.InputDisabled() {
		t.Error("input should be disabled")
	}
	s.SetInputDisabled(false)
	s.SetStatus("ready")

	if s.Snapshot().Status != "ready" {
		t.Errorf("Status: got %q", s.Snapshot().Status)
	}
	want := []EventKind{EventInputDisabled, EventInputEnabled, EventStatus}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("events: got %v, want %v", kinds, want)
	}
}

func TestGallery(t *testing.T) {
	s := New()
	s.AppendGallery(GalleryItem{ID: "a", Name: "a.png"})
	s.AppendGallery(GalleryItem{ID: "b", Name: "b.jpg"})

	if n := len(s.Snapshot().Gallery); n != 2 {
		t.Fatalf("Gallery: got %d items, want 2", n)
	}

	s.ClearGallery()
	if n := len(s.Snapshot().Gallery); n != 0 {
		t.Errorf("Gallery after clear: got %d items", n)
	}
}
