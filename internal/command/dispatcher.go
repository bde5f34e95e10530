package command

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"hackterm/internal/auth"
	"hackterm/internal/egg"
)

// unknownResponses are rotated for unrecognized input. Each takes the
// typed key as its single verb.
var unknownResponses = []string{
	"Command not found: %s",
	"bash: %s: command not found",
	"'%s'? The mainframe does not recognize this incantation.",
	"Unknown command '%s'. The firewall remains unimpressed.",
}

// Dispatcher routes one input line through parsing, easter-egg
// fallback, permission and cooldown gates, and the matched handler.
type Dispatcher struct {
	registry *Registry
	eggs     *egg.Matcher

	now      func() time.Time
	randIntn func(n int) int

	mu        sync.Mutex
	cooldowns map[string]time.Time
}

// NewDispatcher wires a registry and an easter-egg matcher.
func NewDispatcher(registry *Registry, eggs *egg.Matcher) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		eggs:      eggs,
		now:       time.Now,
		randIntn:  rand.Intn,
		cooldowns: make(map[string]time.Time),
	}
}

// SetClock replaces the cooldown clock; tests use it for determinism.
func (d *Dispatcher) SetClock(now func() time.Time) { d.now = now }

// SetRand replaces the unknown-response selector.
func (d *Dispatcher) SetRand(intn func(n int) int) { d.randIntn = intn }

// Registry exposes the live registry for runtime registration, e.g.
// script-defined commands.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Tokenize splits an input line on whitespace, keeping double-quoted
// spans intact. Quotes are stripped; an unclosed quote runs to the end
// of the line.
func Tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	for _, r := range input {
		switch {
		case r == '"':
			inQuote = !inQuote
		case unicode.IsSpace(r) && !inQuote:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// Execute runs one raw input line to a single Result. Empty input is a
// silent no-op; behavior counters update before resolution, so unknown
// and gated commands still count.
func (d *Dispatcher) Execute(input string, ctx *Context) Result {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Result{Kind: KindInfo}
	}

	tokens := Tokenize(trimmed)
	key := strings.ToLower(tokens[0])
	args := tokens[1:]

	canonical := d.registry.Resolve(key)
	ctx.Tracker.Note(key, canonical == "help")

	cmd := d.registry.Get(canonical)
	if cmd != nil && cmd.Unlockable && !ctx.Game.CommandUnlocked(cmd.Name) {
		// Locked commands stay indistinguishable from unknown ones.
		cmd = nil
	}
	if cmd == nil {
		return d.unknown(trimmed, key, ctx)
	}

	sess := ctx.Auth.Current()
	if cmd.RequiresAuth && (sess == nil || sess.Role == auth.RoleGuest) {
		return Result{
			Kind:    KindError,
			Command: cmd.Name,
			Output:  "Access denied. Authenticate first: login <username> <password>",
		}
	}
	if cmd.AdminOnly && !ctx.Auth.HasPermission(auth.PermAdmin) {
		return Result{
			Kind:    KindError,
			Command: cmd.Name,
			Output:  "Permission denied: admin access required.",
		}
	}

	user := "guest"
	if sess != nil {
		user = sess.Username
	}
	if cmd.Cooldown > 0 {
		if secs, active := d.cooldownRemaining(user, cmd.Name); active {
			return Result{
				Kind:    KindWarning,
				Command: cmd.Name,
				Output:  fmt.Sprintf("Cooldown active. Try again in %d seconds.", secs),
			}
		}
	}

	res, panicked := d.invoke(cmd, args, ctx)
	if res.Command == "" {
		res.Command = cmd.Name
	}
	if cmd.Cooldown > 0 && !panicked && res.Kind != KindError {
		d.stampCooldown(user, cmd.Name, cmd.Cooldown)
	}
	return res
}

// invoke runs the handler behind a recover so a buggy command reports
// an error instead of killing the session.
func (d *Dispatcher) invoke(cmd *Command, args []string, ctx *Context) (res Result, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Command %s panicked: %v", cmd.Name, r)
			panicked = true
			res = Result{
				Kind:    KindError,
				Command: cmd.Name,
				Output:  fmt.Sprintf("Command '%s' crashed: %v", cmd.Name, r),
			}
		}
	}()
	res = cmd.Handler(args, ctx)
	return res, false
}

func (d *Dispatcher) unknown(trimmed, key string, ctx *Context) Result {
	if resp := d.eggs.Match(trimmed, ctx); resp != nil {
		return Result{
			Kind:   KindSuccess,
			Output: resp.Text,
			Sound:  resp.Sound,
			Effect: resp.Effect,
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, unknownResponses[d.randIntn(len(unknownResponses))], key)
	if sugg := d.registry.suggestions(key); len(sugg) > 0 {
		b.WriteString("\n\nDid you mean:\n")
		for _, s := range sugg {
			fmt.Fprintf(&b, "  %s\n", s)
		}
	}
	b.WriteString("\nType 'help' for available commands.")
	return Result{Kind: KindError, Output: b.String()}
}

func (d *Dispatcher) cooldownRemaining(user, name string) (int, bool) {
	d.mu.Lock()
	until, ok := d.cooldowns[user+"\x00"+name]
	d.mu.Unlock()
	if !ok {
		return 0, false
	}
	left := until.Sub(d.now())
	if left <= 0 {
		return 0, false
	}
	return int(math.Ceil(left.Seconds())), true
}

func (d *Dispatcher) stampCooldown(user, name string, cooldown time.Duration) {
	d.mu.Lock()
	d.cooldowns[user+"\x00"+name] = d.now().Add(cooldown)
	d.mu.Unlock()
}
