package scripting

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI exposes the read-only session view as the "term" module.
// Scripts cannot mutate game or session state; they observe and print.
func registerAPI(vm *VM, s *Script) {
	vm.RegisterModule("term", map[string]lua.LGFunction{
		"username": func(L *lua.LState) int {
			name := "guest"
			if s.ctx != nil {
				if sess := s.ctx.Auth.Current(); sess != nil {
					name = sess.Username
				}
			}
			L.Push(lua.LString(name))
			return 1
		},
		"role": func(L *lua.LState) int {
			role := "guest"
			if s.ctx != nil {
				role = s.ctx.SessionRole()
			}
			L.Push(lua.LString(role))
			return 1
		},
		"level": func(L *lua.LState) int {
			lvl := 1
			if s.ctx != nil {
				lvl = s.ctx.Game.State().Level
			}
			L.Push(lua.LNumber(lvl))
			return 1
		},
		"score": func(L *lua.LState) int {
			score := 0
			if s.ctx != nil {
				score = s.ctx.Game.State().Score
			}
			L.Push(lua.LNumber(score))
			return 1
		},
		"solved": func(L *lua.LState) int {
			n := 0
			if s.ctx != nil {
				n = len(s.ctx.Game.State().SolvedChallenges)
			}
			L.Push(lua.LNumber(n))
			return 1
		},
		"cwd": func(L *lua.LState) int {
			dir := "/"
			if s.ctx != nil {
				dir = s.ctx.Dir
			}
			L.Push(lua.LString(dir))
			return 1
		},
	})
}
