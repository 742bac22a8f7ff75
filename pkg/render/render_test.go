package render

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestRenderer(t *testing.T, templates map[string]string) *Pongo2Renderer {
	t.Helper()

	dir := t.TempDir()
	for name, body := range templates {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("writing template failed: %v", err)
		}
	}

	r, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestPongo2Renderer_Render(t *testing.T) {
	r := newTestRenderer(t, map[string]string{
		"wizard.html": "Step {{ step }} of {{ last_step }} for {{ form.email }}",
	})

	body, err := r.Render("wizard.html", map[string]any{
		"step":      2,
		"last_step": 3,
		"form":      map[string]any{"email": "ada@example.com"},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := string(body); got != "Step 2 of 3 for ada@example.com" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestPongo2Renderer_MissingTemplate(t *testing.T) {
	r := newTestRenderer(t, nil)

	if _, err := r.Render("nope.html", nil); err == nil {
		t.Fatalf("expected an error for a missing template")
	}
}
