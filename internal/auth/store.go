package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"hackterm/internal/storage"
)

// SessionKey is the storage key for the persisted session record.
const SessionKey = "hackterm.session"

// Lockout policy: maxAttempts consecutive failures lock a username for
// lockoutWindow, independent of whether later attempts carry the correct
// secret.
const (
	maxAttempts   = 3
	lockoutWindow = 5 * time.Minute
)

// Session is one authenticated (or guest) terminal session. Permissions
// are snapshotted from the user at login time.
type Session struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	Permissions  []string  `json:"permissions"`
	StartTime    time.Time `json:"startTime"`
	LastActivity time.Time `json:"lastActivity"`
	Active       bool      `json:"active"`
}

// HasPermission reports whether the session's snapshot contains name.
func (s *Session) HasPermission(name string) bool {
	for _, p := range s.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// AttemptTracker records failed login attempts keyed by username. It is
// shared process-wide so failures accumulate across sessions. The
// deferred clear is best effort; Locked re-checks the stored timestamp
// so correctness never depends on the timer firing.
type AttemptTracker struct {
	mu  sync.Mutex
	now func() time.Time

	records map[string]*attemptRecord
}

type attemptRecord struct {
	count       int
	lastFail    time.Time
	lockedUntil time.Time
	timer       *time.Timer
}

// NewAttemptTracker creates an empty tracker.
func NewAttemptTracker() *AttemptTracker {
	return &AttemptTracker{
		now:     time.Now,
		records: make(map[string]*attemptRecord),
	}
}

// Fail records a failed attempt and returns the consecutive failure
// count. The third failure arms the lockout window and schedules its
// expiry.
func (t *AttemptTracker) Fail(username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	rec := t.records[username]
	if rec == nil {
		rec = &attemptRecord{}
		t.records[username] = rec
	}
	// Stale failures outside the window do not count toward lockout.
	if !rec.lastFail.IsZero() && now.Sub(rec.lastFail) > lockoutWindow {
		rec.count = 0
	}
	rec.count++
	rec.lastFail = now

	if rec.count >= maxAttempts && rec.lockedUntil.IsZero() {
		rec.lockedUntil = now.Add(lockoutWindow)
		if rec.timer != nil {
			rec.timer.Stop()
		}
		rec.timer = time.AfterFunc(lockoutWindow, func() { t.Clear(username) })
	}
	return rec.count
}

// Locked reports whether the username is currently locked out.
func (t *AttemptTracker) Locked(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.records[username]
	if rec == nil || rec.lockedUntil.IsZero() {
		return false
	}
	if t.now().Before(rec.lockedUntil) {
		return true
	}
	// Window elapsed; forget the record even if the timer never fired.
	if rec.timer != nil {
		rec.timer.Stop()
	}
	delete(t.records, username)
	return false
}

// Remaining returns how many attempts are left before lockout.
func (t *AttemptTracker) Remaining(username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.records[username]
	if rec == nil {
		return maxAttempts
	}
	n := maxAttempts - rec.count
	if n < 0 {
		n = 0
	}
	return n
}

// Clear forgets all failures for a username.
func (t *AttemptTracker) Clear(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rec := t.records[username]; rec != nil && rec.timer != nil {
		rec.timer.Stop()
	}
	delete(t.records, username)
}

// Store manages the single current session over a user source. One
// store exists per terminal connection; the attempt tracker and user
// source are shared between stores.
type Store struct {
	users    UserSource
	persist  storage.Store
	attempts *AttemptTracker
	now      func() time.Time

	mu      sync.Mutex
	current *Session
}

// NewStore creates a session store. A persisted session is restored if
// present; otherwise an implicit guest session is created. A corrupt
// session record is logged and replaced with a guest session.
func NewStore(users UserSource, persist storage.Store, attempts *AttemptTracker) *Store {
	if attempts == nil {
		attempts = NewAttemptTracker()
	}
	s := &Store{
		users:    users,
		persist:  persist,
		attempts: attempts,
		now:      time.Now,
	}

	data, ok, err := persist.Load(SessionKey)
	if err != nil {
		log.Printf("Session load failed: %v; starting as guest", err)
	}
	if ok && err == nil {
		var sess Session
		if uerr := json.Unmarshal(data, &sess); uerr != nil {
			log.Printf("Corrupt session record: %v; starting as guest", uerr)
		} else if sess.Active {
			s.current = &sess
		}
	}
	if s.current == nil {
		s.StartGuest()
	}
	return s
}

// SetClock replaces the store's clock. Tests use this to control the
// lockout window.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
	s.attempts.mu.Lock()
	s.attempts.now = now
	s.attempts.mu.Unlock()
}

// Current returns the current session, or nil after logout.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// StartGuest replaces the current session with a fresh anonymous one.
func (s *Store) StartGuest() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.current = &Session{
		ID:           uuid.NewString(),
		Username:     "guest",
		Role:         RoleGuest,
		Permissions:  RoleGuest.Permissions(),
		StartTime:    now,
		LastActivity: now,
		Active:       true,
	}
	s.save()
	return s.current
}

// Login authenticates a username/secret pair and, on success, makes a
// new session current and returns the role-specific welcome message.
// Failures are returned as errors whose text is shown verbatim in the
// terminal.
func (s *Store) Login(username, secret string) (string, error) {
	u, err := s.users.Get(username)
	if err != nil {
		s.attempts.Fail(username)
		return "", errors.New("User not found.")
	}
	if u.IsLocked {
		return "", errors.New("Account locked. Contact the operator.")
	}
	if s.attempts.Locked(username) {
		return "", errors.New("Too many failed attempts. Try again in a few minutes.")
	}
	if !CheckSecret(secret, u.SecretHash) {
		n := s.attempts.Fail(username)
		remaining := maxAttempts - n
		if remaining < 0 {
			remaining = 0
		}
		return "", fmt.Errorf("Invalid password. %d attempts remaining.", remaining)
	}

	s.attempts.Clear(username)
	now := s.now()
	if err := s.users.TouchLogin(u.Username, now); err != nil {
		log.Printf("Touch login for %s: %v", u.Username, err)
	}

	s.mu.Lock()
	s.current = &Session{
		ID:           uuid.NewString(),
		Username:     u.Username,
		Role:         u.Role,
		Permissions:  u.Permissions(),
		StartTime:    now,
		LastActivity: now,
		Active:       true,
	}
	s.save()
	s.mu.Unlock()

	return u.Role.WelcomeMessage(u.Username), nil
}

// Logout ends the current session. The caller decides whether to start
// a fresh guest session afterwards; the shell does so immediately.
func (s *Store) Logout() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || !s.current.Active {
		return "", errors.New("No active session.")
	}
	name := s.current.Username
	s.current.Active = false
	s.current = nil
	if err := s.persist.Delete(SessionKey); err != nil {
		log.Printf("Clear persisted session: %v", err)
	}
	return fmt.Sprintf("Logged out %s. Connection downgraded to guest.", name), nil
}

// SwitchUser changes identity within an active session. Switching to
// root succeeds without the secret when the current session already
// holds admin permission, mirroring sudo. This is a deliberate gameplay
// shortcut in a fictional privilege system, not a security property.
func (s *Store) SwitchUser(username, secret string) (string, error) {
	s.mu.Lock()
	cur := s.current
	s.mu.Unlock()
	if cur == nil || !cur.Active {
		return "", errors.New("No active session.")
	}

	if username == string(RoleRoot) && cur.HasPermission(PermAdmin) {
		u, err := s.users.Get(username)
		if err != nil {
			return "", errors.New("User not found.")
		}
		now := s.now()
		s.mu.Lock()
		s.current = &Session{
			ID:           uuid.NewString(),
			Username:     u.Username,
			Role:         u.Role,
			Permissions:  u.Permissions(),
			StartTime:    now,
			LastActivity: now,
			Active:       true,
		}
		s.save()
		s.mu.Unlock()
		return u.Role.WelcomeMessage(u.Username), nil
	}

	return s.Login(username, secret)
}

// CreateUser adds a new account. Requires admin permission on the
// current session.
func (s *Store) CreateUser(username, secret string, role Role) error {
	if !s.HasPermission(PermAdmin) {
		return errors.New("Permission denied: admin access required.")
	}
	if !ValidRole(role) {
		return fmt.Errorf("Unknown role %q.", role)
	}
	if err := ValidateUsername(username); err != nil {
		return fmt.Errorf("Invalid username: %v.", err)
	}
	if err := ValidateSecret(secret); err != nil {
		return fmt.Errorf("Invalid password: %v.", err)
	}
	if s.users.Exists(username) {
		return fmt.Errorf("User %s already exists.", username)
	}
	if _, err := s.users.Create(username, secret, role); err != nil {
		return fmt.Errorf("Create user failed: %v", err)
	}
	return nil
}

// HasPermission reports whether the current session holds name. A
// missing session yields false, never an error.
func (s *Store) HasPermission(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || !s.current.Active {
		return false
	}
	return s.current.HasPermission(name)
}

// Touch updates the session's last-activity timestamp and persists it.
func (s *Store) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.current.LastActivity = s.now()
	s.save()
}

// save persists the current session. Callers must hold s.mu.
// Persistence failures are logged only; the in-memory session remains
// authoritative.
func (s *Store) save() {
	if s.current == nil {
		return
	}
	data, err := json.Marshal(s.current)
	if err != nil {
		log.Printf("Marshal session: %v", err)
		return
	}
	if err := s.persist.Save(SessionKey, data); err != nil {
		log.Printf("Persist session: %v", err)
	}
}
