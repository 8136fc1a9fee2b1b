// Package view holds the page state the intake controller drives: the
// container's visual-state classes, the keyword input's enabled flag, a
// status line, the image gallery and the match panel.
//
// A Surface is constructed once and handed to everything that renders into
// it. It is safe for concurrent use; subscribers receive an Event for every
// change, in the order the changes were made.
package view

import (
	"sort"
	"sync"
)

// Container classes.
const (
	ClassProcessing = "processing"
	ClassError      = "error"
)

// EventKind identifies what changed on the surface.
type EventKind string

const (
	EventClassAdded    EventKind = "class_added"
	EventClassRemoved  EventKind = "class_removed"
	EventInputDisabled EventKind = "input_disabled"
	EventInputEnabled  EventKind = "input_enabled"
	EventMatchesClear  EventKind = "matches_cleared"
	EventMatchAdded    EventKind = "match_added"
	EventGalleryAdded  EventKind = "gallery_added"
	EventGalleryClear  EventKind = "gallery_cleared"
	EventStatus        EventKind = "status"
)

// Event describes a single change. Value carries the class name, match
// text, gallery entry ID or status text, depending on Kind.
type Event struct {
	Kind  EventKind `json:"kind"`
	Value string    `json:"value,omitempty"`
}

// GalleryItem is one list entry in the gallery.
type GalleryItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MediaType   string `json:"media_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Placeholder string `json:"placeholder"`
}

// Snapshot is a point-in-time copy of the surface.
type Snapshot struct {
	Classes       []string      `json:"classes"`
	InputDisabled bool          `json:"input_disabled"`
	Status        string        `json:"status"`
	Gallery       []GalleryItem `json:"gallery"`
	Matches       []string      `json:"matches"`
}

// HasClass reports whether the snapshot's container carried class.
func (s Snapshot) HasClass(class string) bool {
	for _, c := range s.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Surface is the page's view-model.
type Surface struct {
	mu            sync.Mutex
	classes       map[string]bool
	inputDisabled bool
	status        string
	gallery       []GalleryItem
	matches       []string
	subscribers   []func(Event)
}

// New returns an empty surface with the input enabled.
func New() *Surface {
	return &Surface{
		classes: make(map[string]bool),
		matches: []string{},
		gallery: []GalleryItem{},
	}
}

// Subscribe registers fn to receive every subsequent Event. fn is called
// with the surface lock held and must not call back into the surface.
func (s *Surface) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Surface) emit(e Event) {
	for _, fn := range s.subscribers {
		fn(e)
	}
}

// AddClass adds class to the container. Adding a present class is a no-op.
func (s *Surface) AddClass(class string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.classes[class] {
		return
	}
	s.classes[class] = true
	s.emit(Event{Kind: EventClassAdded, Value: class})
}

// RemoveClass removes class from the container. Removing an absent class is a no-op.
func (s *Surface) RemoveClass(class string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.classes[class] {
		return
	}
	delete(s.classes, class)
	s.emit(Event{Kind: EventClassRemoved, Value: class})
}

// HasClass reports whether the container currently carries class.
func (s *Surface) HasClass(class string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classes[class]
}

// SetInputDisabled enables or disables the keyword input.
func (s *Surface) SetInputDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputDisabled = disabled
	if disabled {
		s.emit(Event{Kind: EventInputDisabled})
	} else {
		s.emit(Event{Kind: EventInputEnabled})
	}
}

// InputDisabled reports whether the keyword input is disabled.
func (s *Surface) InputDisabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputDisabled
}

// SetStatus replaces the status line.
func (s *Surface) SetStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = text
	s.emit(Event{Kind: EventStatus, Value: text})
}

// ClearMatches empties the match panel.
func (s *Surface) ClearMatches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = []string{}
	s.emit(Event{Kind: EventMatchesClear})
}

// AppendMatches appends matches to the match panel in the given order.
func (s *Surface) AppendMatches(matches ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range matches {
		s.matches = append(s.matches, m)
		s.emit(Event{Kind: EventMatchAdded, Value: m})
	}
}

// Matches returns a copy of the match panel.
func (s *Surface) Matches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.matches...)
}

// AppendGallery appends an item to the gallery.
func (s *Surface) AppendGallery(item GalleryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gallery = append(s.gallery, item)
	s.emit(Event{Kind: EventGalleryAdded, Value: item.ID})
}

// ClearGallery empties the gallery.
func (s *Surface) ClearGallery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gallery = []GalleryItem{}
	s.emit(Event{Kind: EventGalleryClear})
}

// Snapshot returns a copy of the current state. Classes are sorted.
func (s *Surface) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	classes := make([]string, 0, len(s.classes))
	for c := range s.classes {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	return Snapshot{
		Classes:       classes,
		InputDisabled: s.inputDisabled,
		Status:        s.status,
		Gallery:       append([]GalleryItem{}, s.gallery...),
		Matches:       append([]string{}, s.matches...),
	}
}
