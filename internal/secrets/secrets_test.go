package secrets

import (
	"errors"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := m.Set("github_token_a1", "tok"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, err := m.Get("github_token_a1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "tok" {
		t.Errorf("expected 'tok', got %q", v)
	}

	if err := m.Delete("github_token_a1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get("github_token_a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is a no-op.
	if err := m.Delete("missing"); err != nil {
		t.Errorf("expected nil deleting missing key, got %v", err)
	}
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory()
	m.Set("k", "old")
	m.Set("k", "new")

	v, _ := m.Get("k")
	if v != "new" {
		t.Errorf("expected overwrite, got %q", v)
	}
}
