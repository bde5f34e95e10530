// Package egg implements the hidden-input matcher. Rules are evaluated
// in declaration order against raw trimmed input; the first applicable
// rule wins.
package egg

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind selects how a rule's trigger is compared against input.
type Kind int

const (
	// Substring matches when the input contains the trigger,
	// case-insensitively.
	Substring Kind = iota
	// Exact matches when the input equals the trigger, case-sensitively.
	Exact
	// Pattern matches the input against a regular expression,
	// case-insensitively.
	Pattern
)

// Context gives guard predicates and the one-time bookkeeping a view of
// the session.
type Context interface {
	// ConsecutiveHelps is the current run of help invocations.
	ConsecutiveHelps() int
	// SessionRole is the current access role name.
	SessionRole() string
	// SecretDiscovered reports whether a trigger was matched before.
	SecretDiscovered(trigger string) bool
	// RecordSecret logs a matched trigger, idempotently.
	RecordSecret(trigger string)
}

// Rule is one trigger/response pair.
type Rule struct {
	Kind     Kind
	Trigger  string
	Response string
	Sound    string
	Effect   string
	OneTime  bool
	Guard    func(ctx Context) bool

	re *regexp.Regexp
}

// Response is a matched rule's output.
type Response struct {
	Text   string
	Sound  string
	Effect string
}

// Matcher holds an ordered rule list with pre-compiled patterns.
type Matcher struct {
	rules []Rule
}

// NewMatcher compiles the rule list.
func NewMatcher(rules []Rule) (*Matcher, error) {
	compiled := make([]Rule, len(rules))
	copy(compiled, rules)
	for i := range compiled {
		r := &compiled[i]
		if r.Trigger == "" {
			return nil, fmt.Errorf("rule %d: empty trigger", i)
		}
		if r.Kind == Pattern {
			re, err := regexp.Compile("(?i)" + r.Trigger)
			if err != nil {
				return nil, fmt.Errorf("rule %d: bad pattern %q: %w", i, r.Trigger, err)
			}
			r.re = re
		}
	}
	return &Matcher{rules: compiled}, nil
}

// Match evaluates rules in order against the trimmed input. Matched
// triggers are always recorded (for achievements); one-time rules are
// skipped once their trigger appears in the discovered record. Returns
// nil when no rule applies.
func (m *Matcher) Match(input string, ctx Context) *Response {
	for i := range m.rules {
		r := &m.rules[i]
		if r.Guard != nil && !r.Guard(ctx) {
			continue
		}
		if r.OneTime && ctx.SecretDiscovered(r.Trigger) {
			continue
		}
		if !r.matches(input) {
			continue
		}
		ctx.RecordSecret(r.Trigger)
		return &Response{Text: r.Response, Sound: r.Sound, Effect: r.Effect}
	}
	return nil
}

func (r *Rule) matches(input string) bool {
	switch r.Kind {
	case Exact:
		return input == r.Trigger
	case Pattern:
		return r.re.MatchString(input)
	default:
		return strings.Contains(strings.ToLower(input), strings.ToLower(r.Trigger))
	}
}
