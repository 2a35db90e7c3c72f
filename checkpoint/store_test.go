package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/wbrown/flowerhue"
)

func TestStorePutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	want := flowerhue.Summary{
		Status:     flowerhue.StatusOK,
		Hue:        140.5,
		Saturation: 80.25,
		Value:      200,
		Pixels:     1200,
	}
	if err := store.Put("a.jpg", want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put("b.jpg", flowerhue.NoFlowers()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := store.Get("a.jpg")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	if _, ok, _ := store.Get("missing.jpg"); ok {
		t.Error("Missing key should not be found")
	}
	if n, _ := store.Len(); n != 2 {
		t.Errorf("Expected 2 entries, got %d", n)
	}

	// Entries survive reopening.
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	store, err = Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer store.Close()
	got, ok, _ = store.Get("b.jpg")
	if !ok || got.Status != flowerhue.StatusNoFlowers {
		t.Errorf("Expected no-flowers entry after reopen, got %+v (found=%v)", got, ok)
	}
}
