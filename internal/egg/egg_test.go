package egg

import (
	"strings"
	"testing"
)

// fakeCtx satisfies Context for matcher tests.
type fakeCtx struct {
	helps   int
	role    string
	secrets map[string]bool
}

func newFakeCtx() *fakeCtx {
	return &fakeCtx{role: "guest", secrets: make(map[string]bool)}
}

func (c *fakeCtx) ConsecutiveHelps() int { return c.helps }
func (c *fakeCtx) SessionRole() string   { return c.role }
func (c *fakeCtx) SecretDiscovered(trigger string) bool {
	return c.secrets[trigger]
}
func (c *fakeCtx) RecordSecret(trigger string) {
	c.secrets[trigger] = true
}

func TestMatchKinds(t *testing.T) {
	m, err := NewMatcher([]Rule{
		{Kind: Exact, Trigger: "xyzzy", Response: "exact"},
		{Kind: Substring, Trigger: "sandwich", Response: "substring"},
		{Kind: Pattern, Trigger: `^why\??$`, Response: "pattern"},
	})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}

	cases := []struct {
		in   string
		want string
	}{
		{"xyzzy", "exact"},
		{"XYZZY", ""}, // exact is case-sensitive
		{"make me a SANDWICH please", "substring"},
		{"why?", "pattern"},
		{"WHY", "pattern"}, // patterns are case-insensitive
		{"no rule here", ""},
	}
	for _, c := range cases {
		ctx := newFakeCtx()
		resp := m.Match(c.in, ctx)
		got := ""
		if resp != nil {
			got = resp.Text
		}
		if got != c.want {
			t.Errorf("Match(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMatchOrder(t *testing.T) {
	m, err := NewMatcher([]Rule{
		{Kind: Substring, Trigger: "sudo make me a sandwich", Response: "polite"},
		{Kind: Substring, Trigger: "make me a sandwich", Response: "rude"},
	})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}

	if resp := m.Match("sudo make me a sandwich", newFakeCtx()); resp == nil || resp.Text != "polite" {
		t.Fatalf("earlier rule must shadow later one, got %+v", resp)
	}
	if resp := m.Match("make me a sandwich", newFakeCtx()); resp == nil || resp.Text != "rude" {
		t.Fatalf("fallthrough to later rule failed, got %+v", resp)
	}
}

func TestOneTimeRules(t *testing.T) {
	m, err := NewMatcher([]Rule{
		{Kind: Exact, Trigger: "xyzzy", Response: "magic", OneTime: true},
	})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	ctx := newFakeCtx()

	if resp := m.Match("xyzzy", ctx); resp == nil {
		t.Fatal("first match failed")
	}
	if resp := m.Match("xyzzy", ctx); resp != nil {
		t.Fatalf("one-time rule matched twice: %+v", resp)
	}
}

func TestGuardedRules(t *testing.T) {
	m, err := NewMatcher([]Rule{
		{
			Kind: Substring, Trigger: "help", Response: "enough",
			Guard: func(ctx Context) bool { return ctx.ConsecutiveHelps() > 5 },
		},
	})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}

	ctx := newFakeCtx()
	ctx.helps = 5
	if resp := m.Match("help", ctx); resp != nil {
		t.Fatalf("guard should block at 5 helps, got %+v", resp)
	}
	ctx.helps = 6
	if resp := m.Match("help", ctx); resp == nil || resp.Text != "enough" {
		t.Fatalf("guard should pass at 6 helps, got %+v", resp)
	}
}

func TestMatchRecordsDiscovery(t *testing.T) {
	m := Default()
	ctx := newFakeCtx()

	if resp := m.Match("hack the planet", ctx); resp == nil {
		t.Fatal("expected match")
	}
	if !ctx.secrets["hack the planet"] {
		t.Fatal("trigger not recorded")
	}
}

func TestNewMatcherValidation(t *testing.T) {
	if _, err := NewMatcher([]Rule{{Kind: Exact, Trigger: ""}}); err == nil {
		t.Fatal("expected empty trigger rejection")
	}
	if _, err := NewMatcher([]Rule{{Kind: Pattern, Trigger: "("}}); err == nil {
		t.Fatal("expected bad pattern rejection")
	}
}

func TestDefaultRulesCompileAndAnswer(t *testing.T) {
	m := Default()
	ctx := newFakeCtx()

	resp := m.Match("what is the answer to life?", ctx)
	if resp == nil || !strings.Contains(resp.Text, "42") {
		t.Fatalf("expected 42, got %+v", resp)
	}
	resp = m.Match("open the pod bay doors, HAL", ctx)
	if resp == nil || resp.Sound != "hal" {
		t.Fatalf("expected HAL refusal, got %+v", resp)
	}
}
