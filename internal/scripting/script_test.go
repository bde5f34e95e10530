package scripting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hackterm/internal/auth"
	"hackterm/internal/challenge"
	"hackterm/internal/command"
	"hackterm/internal/game"
	"hackterm/internal/storage"
)

const greetScript = `
local term = require("term")

return {
    name = "greet",
    description = "Greet the visitor",
    usage = "greet [shout]",
    run = function(args)
        local line = "hello " .. term.username() .. " (level " .. term.level() .. ")"
        if args[1] == "shout" then
            return string.upper(line), "warning"
        end
        return line, "info"
    end,
}
`

func writeScript(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newScriptContext(t *testing.T) *command.Context {
	t.Helper()
	repo := auth.NewMemoryRepo()
	return &command.Context{
		Dir:     "/home/guest",
		Auth:    auth.NewStore(repo, storage.NewMemory(), auth.NewAttemptTracker()),
		Game:    game.NewStore(challenge.Builtin(), storage.NewMemory(), 3),
		Tracker: command.NewTracker(),
	}
}

func TestLoadAndRun(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet.lua", greetScript)

	scripts := Load(dir)
	if len(scripts) != 1 {
		t.Fatalf("expected 1 script, got %d", len(scripts))
	}
	s := scripts[0]
	defer s.Close()
	if s.Name != "greet" || s.Description != "Greet the visitor" {
		t.Fatalf("metadata wrong: %+v", s)
	}

	reg := command.NewRegistry()
	Register(reg, scripts)
	cmd := reg.Get("greet")
	if cmd == nil {
		t.Fatal("script not registered")
	}

	ctx := newScriptContext(t)
	res := cmd.Handler(nil, ctx)
	if res.Kind != command.KindInfo || res.Output != "hello guest (level 1)" {
		t.Fatalf("unexpected result %+v", res)
	}

	res = cmd.Handler([]string{"shout"}, ctx)
	if res.Kind != command.KindWarning || res.Output != "HELLO GUEST (LEVEL 1)" {
		t.Fatalf("unexpected shouted result %+v", res)
	}
}

func TestLoadSkipsBrokenScripts(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "01-broken.lua", "this is not lua at all (")
	writeScript(t, dir, "02-notable.lua", "return 42")
	writeScript(t, dir, "03-norun.lua", `return { name = "norun" }`)
	writeScript(t, dir, "04-good.lua", greetScript)

	scripts := Load(dir)
	if len(scripts) != 1 || scripts[0].Name != "greet" {
		t.Fatalf("expected only the good script, got %d", len(scripts))
	}
	for _, s := range scripts {
		s.Close()
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	if scripts := Load(filepath.Join(t.TempDir(), "nope")); scripts != nil {
		t.Fatalf("missing dir should load nothing, got %d", len(scripts))
	}
}

func TestRegisterSkipsCollisions(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet.lua", greetScript)
	scripts := Load(dir)
	defer func() {
		for _, s := range scripts {
			s.Close()
		}
	}()

	reg := command.NewRegistry()
	reg.MustRegister(&command.Command{
		Name:    "greet",
		Handler: func([]string, *command.Context) command.Result { return command.Successf("builtin") },
	})
	Register(reg, scripts)

	// The built-in keeps its slot; the collision is logged, not fatal.
	res := reg.Get("greet").Handler(nil, newScriptContext(t))
	if res.Output != "builtin" {
		t.Fatalf("builtin was displaced: %+v", res)
	}
}

func TestScriptFailureIsContained(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bomb.lua", `
return {
    name = "bomb",
    run = function(args)
        error("boom")
    end,
}
`)
	scripts := Load(dir)
	if len(scripts) != 1 {
		t.Fatalf("expected 1 script, got %d", len(scripts))
	}
	defer scripts[0].Close()

	reg := command.NewRegistry()
	Register(reg, scripts)
	res := reg.Get("bomb").Handler(nil, newScriptContext(t))
	if res.Kind != command.KindError || !strings.Contains(res.Output, "Script 'bomb' failed.") {
		t.Fatalf("expected contained failure, got %+v", res)
	}
}
