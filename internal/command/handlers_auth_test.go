package command

import (
	"strings"
	"testing"

	"hackterm/internal/auth"
	"hackterm/internal/egg"
	"hackterm/internal/game"
)

func newAuthDispatcher(t *testing.T) (*Dispatcher, *Context, *auth.MemoryRepo, *fakeGame) {
	t.Helper()
	ctx, repo, g := newTestContext(t)
	reg := NewRegistry()
	RegisterAuth(reg)
	return NewDispatcher(reg, egg.Default()), ctx, repo, g
}

func TestLoginSuccessAndFailure(t *testing.T) {
	d, ctx, repo, g := newAuthDispatcher(t)
	if _, err := repo.Create("alice", "hunter2", auth.RoleUser); err != nil {
		t.Fatalf("create: %v", err)
	}

	res := d.Execute("login alice wrong", ctx)
	if res.Kind != KindError || res.Output != "Invalid password. 2 attempts remaining." {
		t.Fatalf("expected countdown on bad secret, got %+v", res)
	}
	if res.Sound != "denied" {
		t.Errorf("expected denied sound, got %q", res.Sound)
	}

	res = d.Execute("login alice hunter2", ctx)
	if res.Kind != KindSuccess || res.Output != "Welcome back, alice. Access level: USER." {
		t.Fatalf("expected role welcome, got %+v", res)
	}
	if sess := ctx.Auth.Current(); sess == nil || sess.Username != "alice" {
		t.Fatalf("session not switched: %+v", ctx.Auth.Current())
	}
	// Every attempt counts, including the failed one.
	if g.stats[game.StatLoginAttempts] != 2 {
		t.Errorf("expected 2 login attempts counted, got %d", g.stats[game.StatLoginAttempts])
	}
}

func TestLoginUsage(t *testing.T) {
	d, ctx, _, g := newAuthDispatcher(t)

	res := d.Execute("login alice", ctx)
	if res.Kind != KindError || res.Output != "usage: login <username> <password>" {
		t.Fatalf("expected usage error, got %+v", res)
	}
	if g.stats[game.StatLoginAttempts] != 1 {
		t.Errorf("usage error still counts as an attempt, got %d", g.stats[game.StatLoginAttempts])
	}
}

func TestLoginUnknownUser(t *testing.T) {
	d, ctx, _, _ := newAuthDispatcher(t)

	res := d.Execute("login nobody whatever", ctx)
	if res.Kind != KindError || res.Output != "User not found." {
		t.Fatalf("expected not-found error, got %+v", res)
	}
}

func TestLogoutDropsToGuest(t *testing.T) {
	d, ctx, repo, _ := newAuthDispatcher(t)
	loginAs(t, ctx, repo, "alice", auth.RoleUser)

	res := d.Execute("logout", ctx)
	if res.Kind != KindSuccess || !strings.Contains(res.Output, "Logged out alice.") {
		t.Fatalf("expected logout notice, got %+v", res)
	}
	sess := ctx.Auth.Current()
	if sess == nil || sess.Role != auth.RoleGuest {
		t.Fatalf("expected fresh guest session, got %+v", sess)
	}
}

func TestSuRequiresAdmin(t *testing.T) {
	d, ctx, repo, _ := newAuthDispatcher(t)
	if _, err := repo.Create("root", "toor", auth.RoleRoot); err != nil {
		t.Fatalf("create root: %v", err)
	}

	// Guests do not even reach the handler.
	res := d.Execute("su root", ctx)
	if res.Kind != KindError || !strings.Contains(res.Output, "Access denied.") {
		t.Fatalf("expected guest rejection, got %+v", res)
	}

	loginAs(t, ctx, repo, "alice", auth.RoleUser)
	res = d.Execute("su root", ctx)
	if res.Kind != KindError || res.Output != "Permission denied: admin access required." {
		t.Fatalf("expected non-admin rejection, got %+v", res)
	}

	// Admins switch to root without the secret.
	loginAs(t, ctx, repo, "admin", auth.RoleAdmin)
	res = d.Execute("su root", ctx)
	if res.Kind != KindSuccess || !strings.Contains(res.Output, "root shell acquired.") {
		t.Fatalf("expected root switch, got %+v", res)
	}
	if sess := ctx.Auth.Current(); sess.Role != auth.RoleRoot {
		t.Fatalf("expected root session, got %+v", sess)
	}
}

func TestAdduserValidation(t *testing.T) {
	d, ctx, repo, _ := newAuthDispatcher(t)
	loginAs(t, ctx, repo, "admin", auth.RoleAdmin)

	res := d.Execute("adduser eve s3cret4 user", ctx)
	if res.Kind != KindSuccess || !strings.Contains(res.Output, "User eve created with role user.") {
		t.Fatalf("expected created user, got %+v", res)
	}
	if !repo.Exists("eve") {
		t.Fatal("user not stored")
	}

	res = d.Execute("adduser eve again user", ctx)
	if res.Kind != KindError || !strings.Contains(res.Output, "already exists") {
		t.Fatalf("expected duplicate rejection, got %+v", res)
	}
	res = d.Execute("adduser bad!name s3cret4 user", ctx)
	if res.Kind != KindError || !strings.Contains(res.Output, "Invalid username") {
		t.Fatalf("expected username rejection, got %+v", res)
	}
	res = d.Execute("adduser mallory s3cret4 deity", ctx)
	if res.Kind != KindError || !strings.Contains(res.Output, "Unknown role") {
		t.Fatalf("expected role rejection, got %+v", res)
	}
	res = d.Execute("adduser short xy user", ctx)
	if res.Kind != KindError || !strings.Contains(res.Output, "Invalid password") {
		t.Fatalf("expected secret rejection, got %+v", res)
	}
}

func TestUsersTable(t *testing.T) {
	d, ctx, repo, _ := newAuthDispatcher(t)
	loginAs(t, ctx, repo, "admin", auth.RoleAdmin)

	res := d.Execute("users", ctx)
	if res.Kind != KindSuccess {
		t.Fatalf("users failed: %+v", res)
	}
	if !strings.Contains(res.Output, "USERNAME") || !strings.Contains(res.Output, "admin") {
		t.Fatalf("unexpected table %q", res.Output)
	}
}
