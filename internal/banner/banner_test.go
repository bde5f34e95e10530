package banner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestFindPrefersANSIWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "welcome.ans", "ansi art")
	writeFile(t, dir, "welcome.asc", "plain art")
	l := NewLoader(dir)

	f, err := l.Find("welcome", true)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !f.IsANSI || string(f.Data) != "ansi art" {
		t.Fatalf("expected .ans file, got %+v", f)
	}

	f, err = l.Find("welcome", false)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if f.IsANSI || string(f.Data) != "plain art" {
		t.Fatalf("expected .asc file, got %+v", f)
	}
}

func TestFindFallsBackAcrossExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "welcome.asc", "plain only")
	l := NewLoader(dir)

	f, err := l.Find("welcome", true)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if string(f.Data) != "plain only" {
		t.Fatalf("expected fallback to .asc, got %+v", f)
	}

	if _, err := l.Find("missing", true); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFindSearchesDirectoriesInOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFile(t, second, "welcome.asc", "second")
	writeFile(t, first, "welcome.asc", "first")
	l := NewLoader(first, second)

	f, err := l.Find("welcome", false)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if string(f.Data) != "first" {
		t.Fatalf("expected first directory to win, got %q", f.Data)
	}
}

func TestFindRejectsTraversal(t *testing.T) {
	l := NewLoader(t.TempDir())
	for _, name := range []string{"", "  ", "../etc/passwd", "a/b", `a\b`, "foo.."} {
		if _, err := l.Find(name, true); err == nil {
			t.Errorf("expected rejection of %q", name)
		}
	}
}

func TestRender(t *testing.T) {
	out := Render([]byte("Hi {{user}}, welcome to {{ site }}. {{unknown}}!"), map[string]string{
		"user": "alice",
		"site": "hackterm",
	})
	if out != "Hi alice, welcome to hackterm. !" {
		t.Fatalf("unexpected render %q", out)
	}

	// Unterminated placeholders pass through verbatim.
	out = Render([]byte("broken {{key"), nil)
	if out != "broken {{key" {
		t.Fatalf("unexpected render %q", out)
	}
}
