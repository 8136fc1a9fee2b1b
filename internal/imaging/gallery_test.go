package imaging

import (
	"image"
	"sync"
	"testing"
)

func testEntry(id string) *Entry {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	return &Entry{ID: id, Name: id + ".png", MediaType: MediaTypePNG, Image: img, Thumbnail: img}
}

func TestNewGallery(t *testing.T) {
	g := NewGallery(nil)
	if g == nil {
		t.Fatal("NewGallery returned nil")
	}
	if g.entries == nil {
		t.Fatal("NewGallery did not initialize entries map")
	}
	if g.Len() != 0 {
		t.Errorf("Len: got %d, want 0", g.Len())
	}
}

func TestGallery_InsertAndGet(t *testing.T) {
	calls := 0
	g := NewGallery(func(*Entry) { calls++ })

	g.Insert(testEntry("a"))
	g.Insert(testEntry("b"))
	g.Insert(testEntry("a"))

	if g.Len() != 2 {
		t.Errorf("Len: got %d, want 2", g.Len())
	}
	if calls != 2 {
		t.Errorf("onInsert calls: got %d, want 2", calls)
	}

	e, err := g.Get("b")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if e.ID != "b" {
		t.Errorf("Get: got %s", e.ID)
	}

	if _, err := g.Get("missing"); err == nil {
		t.Error("Get should fail for unknown IDs")
	}
}

func TestGallery_ListOrder(t *testing.T) {
	g := NewGallery(nil)
	for _, id := range []string{"c", "a", "b"} {
		g.Insert(testEntry(id))
	}

	list := g.List()
	if len(list) != 3 || list[0].ID != "c" || list[1].ID != "a" || list[2].ID != "b" {
		t.Errorf("List should follow insertion order, got %v", ids(list))
	}
}

func TestGallery_Clear(t *testing.T) {
	g := NewGallery(nil)
	g.Insert(testEntry("a"))
	g.Insert(testEntry("c"))

	if n := g.Clear(); n != 2 {
		t.Errorf("Clear removed %d, want 2", n)
	}
	if g.Len() != 0 {
		t.Errorf("after Clear: Len = %d", g.Len())
	}
	if _, err := g.Get("a"); err == nil {
		t.Error("Get should fail after Clear")
	}
}

func TestGallery_ConcurrentAccess(t *testing.T) {
	g := NewGallery(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			g.Insert(testEntry(string(rune('A' + i))))
		}(i)
		go func() {
			defer wg.Done()
			_ = g.List()
		}()
	}
	wg.Wait()

	if g.Len() != 50 {
		t.Errorf("Len: got %d, want 50", g.Len())
	}
}

func TestGallery_CallbackOrderMatchesList(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	g := NewGallery(func(e *Entry) {
		mu.Lock()
		seen = append(seen, e.ID)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g.Insert(testEntry(string(rune(0x4e00 + i))))
		}(i)
	}
	wg.Wait()

	got := ids(g.List())
	if len(got) != 200 || len(seen) != 200 {
		t.Fatalf("entries: list=%d callbacks=%d, want 200", len(got), len(seen))
	}
	for i := range got {
		if got[i] != seen[i] {
			t.Fatalf("order differs at %d: list %q, callback %q", i, got[i], seen[i])
		}
	}
}

func ids(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
