package session

import "testing"

func TestMemoryStore_GetDefault(t *testing.T) {
	s := NewMemoryStore()

	v, err := s.Get("missing", "fallback")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "fallback" {
		t.Fatalf("expected the default, got %v", v)
	}
}

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Put("wizard", map[string]any{"email": "a@b.c"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	v, err := s.Get("wizard", nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok || m["email"] != "a@b.c" {
		t.Fatalf("unexpected value: %v", v)
	}

	if s.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", s.Len())
	}
}

func TestMemoryStore_Increment(t *testing.T) {
	s := NewMemoryStore()

	// Absent key counts as 0.
	if err := s.Increment("wizard.form_step"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if err := s.Increment("wizard.form_step"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	v, err := s.Get("wizard.form_step", 0)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != 2 {
		t.Fatalf("expected 2, got %v", v)
	}

	// A non-integer value also counts as 0.
	if err := s.Put("junk", "text"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Increment("junk"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	v, err = s.Get("junk", 0)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected 1, got %v", v)
	}
}
