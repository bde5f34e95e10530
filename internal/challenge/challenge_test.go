package challenge

import (
	"testing"
)

func TestBuiltinCatalogIsValid(t *testing.T) {
	cat := Builtin()
	if cat.Len() < 8 {
		t.Fatalf("expected at least 8 built-in challenges, got %d", cat.Len())
	}

	seen := make(map[string]bool)
	for _, ch := range cat.Ordered() {
		if err := ch.Validate(); err != nil {
			t.Errorf("builtin %s invalid: %v", ch.ID, err)
		}
		if seen[ch.ID] {
			t.Errorf("duplicate builtin id %s", ch.ID)
		}
		seen[ch.ID] = true
	}

	// The opening challenge anchors the banner flag.
	ch, ok := cat.Get("welcome")
	if !ok || ch.Flag != "Hello Hacker!" {
		t.Fatalf("welcome challenge wrong: %+v", ch)
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	ch := Challenge{ID: "dup", Title: "Dup", Difficulty: Easy, Points: 10, Flag: "x"}
	if _, err := NewCatalog([]Challenge{ch, ch}); err == nil {
		t.Fatal("expected duplicate id rejection")
	}
}

func TestChallengeValidate(t *testing.T) {
	base := Challenge{ID: "ok_id", Title: "T", Difficulty: Easy, Points: 10, Flag: "f"}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid challenge rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(c *Challenge)
	}{
		{"bad id", func(c *Challenge) { c.ID = "Not Valid!" }},
		{"short id", func(c *Challenge) { c.ID = "x" }},
		{"no title", func(c *Challenge) { c.Title = "" }},
		{"bad difficulty", func(c *Challenge) { c.Difficulty = "impossible" }},
		{"zero points", func(c *Challenge) { c.Points = 0 }},
		{"no flag", func(c *Challenge) { c.Flag = "" }},
	}
	for _, c := range cases {
		ch := base
		c.mutate(&ch)
		if err := ch.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestNextUnsolved(t *testing.T) {
	cat := Builtin()
	ch, ok := cat.NextUnsolved(map[string]bool{})
	if !ok || ch.ID != "welcome" {
		t.Fatalf("expected welcome first, got %+v ok=%v", ch, ok)
	}

	solved := make(map[string]bool)
	for _, c := range cat.Ordered() {
		solved[c.ID] = true
	}
	if _, ok := cat.NextUnsolved(solved); ok {
		t.Fatal("expected no next challenge when everything is solved")
	}
}
