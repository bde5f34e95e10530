// Package game implements the gamification state machine: experience,
// levels, score, solved challenges, achievements, streaks and hints.
// Every mutation persists the full state record.
package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"hackterm/internal/challenge"
	"hackterm/internal/storage"
)

// StateKey is the storage key for the persisted game state record.
const StateKey = "hackterm.gamestate"

// Experience needed per level. Level is always derived:
// level == experience/xpPerLevel + 1.
const xpPerLevel = 100

// Stat counter names.
const (
	StatCommandsExecuted = "commandsExecuted"
	StatChallengesSolved = "challengesSolved"
	StatEasterEggsFound  = "easterEggsFound"
	StatLoginAttempts    = "loginAttempts"
	StatTimeSpentMinutes = "timeSpentMinutes"
)

// Stats holds the behavior counters feeding achievement conditions.
type Stats struct {
	CommandsExecuted int `json:"commandsExecuted"`
	ChallengesSolved int `json:"challengesSolved"`
	EasterEggsFound  int `json:"easterEggsFound"`
	LoginAttempts    int `json:"loginAttempts"`
	TimeSpentMinutes int `json:"timeSpentMinutes"`
}

// Hints tracks the hint budget.
type Hints struct {
	Used      int `json:"used"`
	Available int `json:"available"`
}

// State is the full game record. SolvedChallenges only grows; Level is
// recomputed from Experience, never set independently.
type State struct {
	Level            int           `json:"level"`
	Experience       int           `json:"experience"`
	Score            int           `json:"score"`
	SolvedChallenges []string      `json:"solvedChallenges"`
	UnlockedCommands []string      `json:"unlockedCommands"`
	Achievements     []Achievement `json:"achievements"`
	Stats            Stats         `json:"stats"`
	StartTime        time.Time     `json:"startTime"`
	LastActivity     time.Time     `json:"lastActivity"`
	CurrentStreak    int           `json:"currentStreak"`
	BestStreak       int           `json:"bestStreak"`
	Hints            Hints         `json:"hints"`
}

// levelUnlocks maps a reached level to the bonus commands it grants.
var levelUnlocks = map[int][]string{
	2:  {"matrix"},
	3:  {"hack"},
	5:  {"selfdestruct"},
	10: {"nuke"},
}

// hintPool is the generic hint pool. Hints are deliberately not tied to
// the player's next unsolved challenge.
var hintPool = []string{
	"Banners are not just decoration.",
	"Classic ciphers shift, rotate, or re-encode. Try the oldest trick first.",
	"ls -a shows what plain ls politely ignores.",
	"Scanners print more than open/closed. Read the service column.",
	"Base64 strings love trailing '=' but do not require them.",
	"The access system remembers every user, even the ones nobody mentions.",
	"Solved challenges sometimes unlock new commands. Check help again.",
	"Streaks reward solving without failing in between.",
}

// Store is the game state machine over one mutable record.
type Store struct {
	mu      sync.Mutex
	state   State
	catalog *challenge.Catalog
	persist storage.Store

	now     func() time.Time
	randIntn func(n int) int
}

// NewStore restores persisted state or initializes a fresh record with
// the given hint budget. A corrupt record is logged and replaced.
func NewStore(catalog *challenge.Catalog, persist storage.Store, hintsAvailable int) *Store {
	s := &Store{
		catalog:  catalog,
		persist:  persist,
		now:      time.Now,
		randIntn: rand.Intn,
	}

	data, ok, err := persist.Load(StateKey)
	if err != nil {
		log.Printf("Game state load failed: %v; starting fresh", err)
	}
	if ok && err == nil {
		var st State
		if uerr := json.Unmarshal(data, &st); uerr != nil {
			log.Printf("Corrupt game state record: %v; starting fresh", uerr)
		} else {
			st.Level = st.Experience/xpPerLevel + 1
			s.state = st
			return s
		}
	}

	s.state = freshState(s.now(), hintsAvailable)
	s.save()
	return s
}

func freshState(now time.Time, hintsAvailable int) State {
	return State{
		Level:        1,
		StartTime:    now,
		LastActivity: now,
		Hints:        Hints{Available: hintsAvailable},
	}
}

// SetClock replaces the store's clock; tests use it for determinism.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// SetRand replaces the hint selector; tests use it for determinism.
func (s *Store) SetRand(intn func(n int) int) { s.randIntn = intn }

// State returns a copy of the current record.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() State {
	st := s.state
	st.SolvedChallenges = append([]string(nil), s.state.SolvedChallenges...)
	st.UnlockedCommands = append([]string(nil), s.state.UnlockedCommands...)
	st.Achievements = append([]Achievement(nil), s.state.Achievements...)
	return st
}

// Catalog returns the challenge catalog backing this store.
func (s *Store) Catalog() *challenge.Catalog { return s.catalog }

// LevelUpReport describes the outcome of an experience award.
type LevelUpReport struct {
	LeveledUp        bool
	NewLevel         int
	UnlockedCommands []string
	Achievements     []Achievement
}

// AddExperience adds experience, recomputes the level and applies any
// level-up unlocks.
func (s *Store) AddExperience(amount int) LevelUpReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep := s.addExperienceLocked(amount)
	rep.Achievements = append(rep.Achievements, s.evaluateAchievementsLocked()...)
	s.touchAndSave()
	return rep
}

func (s *Store) addExperienceLocked(amount int) LevelUpReport {
	if amount < 0 {
		amount = 0
	}
	oldLevel := s.state.Level
	s.state.Experience += amount
	s.state.Level = s.state.Experience/xpPerLevel + 1

	rep := LevelUpReport{NewLevel: s.state.Level}
	if s.state.Level > oldLevel {
		rep.LeveledUp = true
		for lvl := oldLevel + 1; lvl <= s.state.Level; lvl++ {
			for _, cmd := range levelUnlocks[lvl] {
				if s.unlockCommandLocked(cmd) {
					rep.UnlockedCommands = append(rep.UnlockedCommands, cmd)
				}
			}
		}
	}
	return rep
}

// AddScore adds points to the score.
func (s *Store) AddScore(points int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Score += points
	s.touchAndSave()
}

// SolveResult is the full reward description for a solved challenge.
type SolveResult struct {
	Challenge        challenge.Challenge
	Points           int
	LeveledUp        bool
	NewLevel         int
	UnlockedCommands []string
	RewardMessage    string
	Achievements     []Achievement
}

// ErrAlreadySolved marks a repeat submission for a solved challenge.
var ErrAlreadySolved = errors.New("challenge already solved")

// ErrUnknownChallenge marks a submission for an id not in the catalog.
var ErrUnknownChallenge = errors.New("unknown challenge")

// SolveChallenge records a solve: awards experience and score equal to
// the challenge's points, advances the streak, merges reward commands
// and re-evaluates achievements. Solving twice is a no-op error with no
// double award.
func (s *Store) SolveChallenge(id string) (SolveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.catalog.Get(id)
	if !ok {
		return SolveResult{}, ErrUnknownChallenge
	}
	for _, solved := range s.state.SolvedChallenges {
		if solved == id {
			return SolveResult{}, ErrAlreadySolved
		}
	}

	s.state.SolvedChallenges = append(s.state.SolvedChallenges, id)
	s.state.Stats.ChallengesSolved++
	s.state.CurrentStreak++
	if s.state.CurrentStreak > s.state.BestStreak {
		s.state.BestStreak = s.state.CurrentStreak
	}

	rep := s.addExperienceLocked(ch.Points)
	s.state.Score += ch.Points

	res := SolveResult{
		Challenge:        ch,
		Points:           ch.Points,
		LeveledUp:        rep.LeveledUp,
		NewLevel:         rep.NewLevel,
		UnlockedCommands: rep.UnlockedCommands,
		RewardMessage:    ch.Reward,
	}
	for _, cmd := range ch.Unlocks.Commands {
		if s.unlockCommandLocked(cmd) {
			res.UnlockedCommands = append(res.UnlockedCommands, cmd)
		}
	}

	res.Achievements = s.evaluateAchievementsLocked()
	s.touchAndSave()
	return res, nil
}

// BreakStreak resets the current streak, e.g. after a wrong flag.
func (s *Store) BreakStreak() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentStreak = 0
	s.touchAndSave()
}

// IncrementStat bumps one named counter and re-evaluates achievements.
func (s *Store) IncrementStat(name string, delta int) []Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case StatCommandsExecuted:
		s.state.Stats.CommandsExecuted += delta
	case StatChallengesSolved:
		s.state.Stats.ChallengesSolved += delta
	case StatEasterEggsFound:
		s.state.Stats.EasterEggsFound += delta
	case StatLoginAttempts:
		s.state.Stats.LoginAttempts += delta
	case StatTimeSpentMinutes:
		s.state.Stats.TimeSpentMinutes += delta
	default:
		log.Printf("Unknown stat %q", name)
		return nil
	}

	unlocked := s.evaluateAchievementsLocked()
	s.touchAndSave()
	return unlocked
}

// CommandUnlocked reports whether a gated command has been earned.
func (s *Store) CommandUnlocked(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cmd := range s.state.UnlockedCommands {
		if cmd == name {
			return true
		}
	}
	return false
}

func (s *Store) unlockCommandLocked(name string) bool {
	for _, cmd := range s.state.UnlockedCommands {
		if cmd == name {
			return false
		}
	}
	s.state.UnlockedCommands = append(s.state.UnlockedCommands, name)
	return true
}

// UseHint spends one hint and returns a random entry from the generic
// pool.
func (s *Store) UseHint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Hints.Available <= 0 {
		return "", errors.New("no hints available")
	}
	s.state.Hints.Available--
	s.state.Hints.Used++
	hint := hintPool[s.randIntn(len(hintPool))]
	s.touchAndSave()
	return hint, nil
}

// Progress returns solved/total counts and a formatted summary line.
func (s *Store) Progress() (solved, total int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	solved = len(s.state.SolvedChallenges)
	total = s.catalog.Len()
	pct := 0.0
	if total > 0 {
		pct = float64(solved) / float64(total) * 100
	}
	return solved, total, fmt.Sprintf("Progress: %d/%d challenges solved (%.0f%%)", solved, total, pct)
}

// Reset replaces the state with a fresh record, keeping the configured
// hint budget. Irreversible.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	hints := s.state.Hints.Available + s.state.Hints.Used
	s.state = freshState(s.now(), hints)
	s.save()
}

func (s *Store) touchAndSave() {
	s.state.LastActivity = s.now()
	s.save()
}

// save persists the full record. Callers must hold s.mu. Failures are
// logged only; in-memory state stays authoritative.
func (s *Store) save() {
	data, err := json.Marshal(s.state)
	if err != nil {
		log.Printf("Marshal game state: %v", err)
		return
	}
	if err := s.persist.Save(StateKey, data); err != nil {
		log.Printf("Persist game state: %v", err)
	}
}
