package command

import (
	"sync"

	"hackterm/internal/auth"
	"hackterm/internal/challenge"
	"hackterm/internal/game"
	"hackterm/internal/guestbook"
	"hackterm/internal/mockfs"
	"hackterm/internal/netsim"
)

// GameService is the slice of the game store the dispatcher and
// handlers need.
type GameService interface {
	State() game.State
	Catalog() *challenge.Catalog
	AddExperience(amount int) game.LevelUpReport
	SolveChallenge(id string) (game.SolveResult, error)
	BreakStreak()
	IncrementStat(name string, delta int) []game.Achievement
	CommandUnlocked(name string) bool
	UseHint() (string, error)
	Progress() (solved, total int, text string)
	Reset()
}

// Guestbook is the slice of the guestbook repo the handlers need.
type Guestbook interface {
	Sign(author, body string) (guestbook.Entry, error)
	Recent(limit int) ([]guestbook.Entry, error)
}

// Peers lets the wall/who commands see other connected nodes. Nil in
// local mode.
type Peers interface {
	Who() []string
	Broadcast(from, message string)
}

// Context carries one session's mutable state and service handles into
// every handler. One Context lives per terminal connection.
type Context struct {
	// Dir is the current working directory in the simulated filesystem.
	Dir string
	FS  *mockfs.FS

	Auth  *auth.Store
	Users auth.UserSource
	Game  GameService
	Net   *netsim.Sim

	// Guestbook and Peers may be nil depending on serving mode.
	Guestbook Guestbook
	Peers     Peers

	Tracker *Tracker

	SiteName  string
	SiteOwner string
}

// SessionRole returns the current session's role name, or "guest".
func (c *Context) SessionRole() string {
	if sess := c.Auth.Current(); sess != nil {
		return string(sess.Role)
	}
	return string(auth.RoleGuest)
}

// ConsecutiveHelps reports the current run of help invocations.
func (c *Context) ConsecutiveHelps() int {
	return c.Tracker.HelpRun()
}

// SecretDiscovered reports whether an easter-egg trigger fired before.
func (c *Context) SecretDiscovered(trigger string) bool {
	return c.Tracker.Discovered(trigger)
}

// RecordSecret logs a matched trigger. First discoveries feed the
// easter-egg counter for achievements.
func (c *Context) RecordSecret(trigger string) {
	if c.Tracker.Record(trigger) {
		c.Game.IncrementStat(game.StatEasterEggsFound, 1)
	}
}

// Tracker accumulates per-session behavior counters. Counters update
// before command resolution, so typos and unknown commands count too.
type Tracker struct {
	mu      sync.Mutex
	counts  map[string]int
	helpRun int
	secrets map[string]bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		counts:  make(map[string]int),
		secrets: make(map[string]bool),
	}
}

// Note records one invocation of the typed key. The help run length
// grows only while consecutive inputs resolve to help.
func (t *Tracker) Note(key string, isHelp bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[key]++
	if isHelp {
		t.helpRun++
	} else {
		t.helpRun = 0
	}
}

// Count returns how often key was typed this session.
func (t *Tracker) Count(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[key]
}

// HelpRun returns the current run of consecutive help invocations.
func (t *Tracker) HelpRun() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.helpRun
}

// Discovered reports whether trigger was recorded before.
func (t *Tracker) Discovered(trigger string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.secrets[trigger]
}

// Record marks trigger discovered; returns true on first discovery.
func (t *Tracker) Record(trigger string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.secrets[trigger] {
		return false
	}
	t.secrets[trigger] = true
	return true
}
