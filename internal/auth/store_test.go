package auth

import (
	"strings"
	"testing"
	"time"

	"hackterm/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	if _, err := repo.Create("alice", "hunter2", RoleUser); err != nil {
		t.Fatalf("seed alice: %v", err)
	}
	return NewStore(repo, storage.NewMemory(), NewAttemptTracker()), repo
}

func TestStoreStartsAsGuest(t *testing.T) {
	s, _ := newTestStore(t)
	sess := s.Current()
	if sess == nil || sess.Role != RoleGuest || sess.Username != "guest" {
		t.Fatalf("expected implicit guest session, got %+v", sess)
	}
	if !s.HasPermission(PermRead) || s.HasPermission(PermWrite) {
		t.Fatal("guest permission snapshot wrong")
	}
}

func TestLoginFailureCountdown(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Login("alice", "wrong")
	if err == nil || err.Error() != "Invalid password. 2 attempts remaining." {
		t.Fatalf("first failure: %v", err)
	}
	_, err = s.Login("alice", "wrong")
	if err == nil || err.Error() != "Invalid password. 1 attempts remaining." {
		t.Fatalf("second failure: %v", err)
	}
	_, err = s.Login("alice", "wrong")
	if err == nil || err.Error() != "Invalid password. 0 attempts remaining." {
		t.Fatalf("third failure: %v", err)
	}

	// Locked out now, even with the correct secret.
	_, err = s.Login("alice", "hunter2")
	if err == nil || !strings.Contains(err.Error(), "Too many failed attempts.") {
		t.Fatalf("expected lockout, got %v", err)
	}
}

func TestLockoutExpires(t *testing.T) {
	s, _ := newTestStore(t)
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	now := base
	s.SetClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		s.Login("alice", "wrong")
	}
	if _, err := s.Login("alice", "hunter2"); err == nil {
		t.Fatal("expected lockout before window elapses")
	}

	now = base.Add(5*time.Minute + time.Second)
	msg, err := s.Login("alice", "hunter2")
	if err != nil {
		t.Fatalf("expected login after window, got %v", err)
	}
	if msg != "Welcome back, alice. Access level: USER." {
		t.Errorf("unexpected welcome %q", msg)
	}
}

func TestLoginClearsFailuresOnSuccess(t *testing.T) {
	s, _ := newTestStore(t)

	s.Login("alice", "wrong")
	if _, err := s.Login("alice", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	s.Logout()
	s.StartGuest()

	// The counter restarts after a success.
	_, err := s.Login("alice", "wrong")
	if err == nil || err.Error() != "Invalid password. 2 attempts remaining." {
		t.Fatalf("expected fresh countdown, got %v", err)
	}
}

func TestLoginLockedAccount(t *testing.T) {
	s, repo := newTestStore(t)
	if err := repo.SetLocked("alice", true); err != nil {
		t.Fatalf("lock: %v", err)
	}
	_, err := s.Login("alice", "hunter2")
	if err == nil || err.Error() != "Account locked. Contact the operator." {
		t.Fatalf("expected locked account error, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Login("alice", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	msg, err := s.Logout()
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if msg != "Logged out alice. Connection downgraded to guest." {
		t.Errorf("unexpected message %q", msg)
	}
	if s.Current() != nil {
		t.Fatal("session should be nil until a new one starts")
	}
	if _, err := s.Logout(); err == nil {
		t.Fatal("second logout should fail")
	}
}

func TestSwitchUserRootShortcut(t *testing.T) {
	s, repo := newTestStore(t)
	repo.Create("admin", "secret", RoleAdmin)
	repo.Create("root", "toor", RoleRoot)

	if _, err := s.Login("admin", "secret"); err != nil {
		t.Fatalf("login admin: %v", err)
	}
	// Admin reaches root without the secret.
	msg, err := s.SwitchUser("root", "")
	if err != nil {
		t.Fatalf("su root as admin: %v", err)
	}
	if !strings.Contains(msg, "root shell acquired.") {
		t.Errorf("unexpected welcome %q", msg)
	}

	// Everyone else needs the real secret.
	if _, err := s.Login("alice", "hunter2"); err != nil {
		t.Fatalf("login alice: %v", err)
	}
	if _, err := s.SwitchUser("root", ""); err == nil {
		t.Fatal("expected secret check for non-admin")
	}
	if _, err := s.SwitchUser("root", "toor"); err != nil {
		t.Fatalf("su with secret: %v", err)
	}
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.CreateUser("eve", "s3cret4", RoleUser); err == nil {
		t.Fatal("guest must not create users")
	}
	if _, err := s.Login("alice", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.CreateUser("eve", "s3cret4", RoleUser); err == nil {
		t.Fatal("plain user must not create users")
	}
}

func TestCreateUserValidation(t *testing.T) {
	s, repo := newTestStore(t)
	repo.Create("admin", "secret", RoleAdmin)
	if _, err := s.Login("admin", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	cases := []struct {
		username, secret string
		role             Role
		wantSub          string
	}{
		{"eve", "s3cret4", "deity", "Unknown role"},
		{"e", "s3cret4", RoleUser, "Invalid username"},
		{"bad!name", "s3cret4", RoleUser, "Invalid username"},
		{"eve", "xy", RoleUser, "Invalid password"},
		{"alice", "s3cret4", RoleUser, "already exists"},
	}
	for _, c := range cases {
		err := s.CreateUser(c.username, c.secret, c.role)
		if err == nil || !strings.Contains(err.Error(), c.wantSub) {
			t.Errorf("CreateUser(%q,%q,%q) = %v, want substring %q", c.username, c.secret, c.role, err, c.wantSub)
		}
	}

	if err := s.CreateUser("eve", "s3cret4", RoleUser); err != nil {
		t.Fatalf("valid create failed: %v", err)
	}
}

func TestAttemptTrackerStaleFailures(t *testing.T) {
	tr := NewAttemptTracker()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	now := base
	tr.now = func() time.Time { return now }

	tr.Fail("bob")
	tr.Fail("bob")
	if tr.Remaining("bob") != 1 {
		t.Fatalf("expected 1 remaining, got %d", tr.Remaining("bob"))
	}

	// Failures older than the window do not accumulate.
	now = base.Add(6 * time.Minute)
	if n := tr.Fail("bob"); n != 1 {
		t.Fatalf("expected stale counter reset, got %d", n)
	}
	if tr.Locked("bob") {
		t.Fatal("single fresh failure must not lock")
	}
}

func TestSessionPersistsAcrossStores(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Create("alice", "hunter2", RoleUser)
	persist := storage.NewMemory()
	attempts := NewAttemptTracker()

	s1 := NewStore(repo, persist, attempts)
	if _, err := s1.Login("alice", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	s2 := NewStore(repo, persist, attempts)
	sess := s2.Current()
	if sess == nil || sess.Username != "alice" {
		t.Fatalf("expected restored session, got %+v", sess)
	}
}
