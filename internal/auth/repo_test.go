package auth

import (
	"path/filepath"
	"testing"

	"hackterm/internal/db"
)

func newSQLRepo(t *testing.T) *Repo {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewRepo(database.DB)
}

func TestRepoCreateAndGetCaseInsensitive(t *testing.T) {
	repo := newSQLRepo(t)

	u, err := repo.Create("Alice", "hunter2", RoleUser)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Username != "Alice" || u.Role != RoleUser {
		t.Fatalf("unexpected user %+v", u)
	}
	if !CheckSecret("hunter2", u.SecretHash) {
		t.Fatal("secret hash does not verify")
	}

	got, err := repo.Get("ALICE")
	if err != nil {
		t.Fatalf("case-insensitive get: %v", err)
	}
	if got.Username != "Alice" {
		t.Fatalf("expected stored casing back, got %q", got.Username)
	}
	if !repo.Exists("alice") {
		t.Fatal("Exists should ignore case")
	}

	if _, err := repo.Create("alice", "other", RoleUser); err == nil {
		t.Fatal("expected unique constraint on case-insensitive username")
	}
	if _, err := repo.Get("nobody"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRepoSeedIsIdempotent(t *testing.T) {
	repo := newSQLRepo(t)
	accounts := []SeedAccount{
		{Username: "admin", Secret: "first", Role: RoleAdmin},
	}

	if err := repo.Seed(accounts); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Operator changes the secret out of band; reseeding must not undo it.
	if err := repo.UpdateSecret("admin", "changed"); err != nil {
		t.Fatalf("update secret: %v", err)
	}
	if err := repo.Seed(accounts); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	u, err := repo.Get("admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !CheckSecret("changed", u.SecretHash) {
		t.Fatal("reseed overwrote the operator's secret")
	}
}

func TestRepoSetRoleAndLock(t *testing.T) {
	repo := newSQLRepo(t)
	if _, err := repo.Create("bob", "hunter2", RoleUser); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.SetRole("BOB", RoleAdmin); err != nil {
		t.Fatalf("set role: %v", err)
	}
	if err := repo.SetLocked("bob", true); err != nil {
		t.Fatalf("set locked: %v", err)
	}

	u, err := repo.Get("bob")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Role != RoleAdmin || !u.IsLocked {
		t.Fatalf("updates not applied: %+v", u)
	}
}
