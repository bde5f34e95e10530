// Package scripting lets operators add terminal commands as Lua
// scripts. Each script file owns its own VM; scripts see a read-only
// view of the session and game state.
package scripting

import (
	"fmt"
	"log"

	lua "github.com/yuin/gopher-lua"
)

// VM wraps a Lua state with terminal-specific configuration.
type VM struct {
	L *lua.LState
}

// NewVM creates a new Lua VM with the standard libraries loaded.
func NewVM() *VM {
	L := lua.NewState(lua.Options{
		CallStackSize: 120,
		RegistrySize:  120 * 20,
	})
	return &VM{L: L}
}

// Close shuts down the Lua VM.
func (vm *VM) Close() {
	vm.L.Close()
}

// DoFile loads and executes a Lua script file. The script is expected
// to return a command table.
func (vm *VM) DoFile(path string) error {
	if err := vm.L.DoFile(path); err != nil {
		return fmt.Errorf("load script %s: %w", path, err)
	}
	return nil
}

// commandTable finds the command table: either the script's return
// value or a global named "command".
func (vm *VM) commandTable() *lua.LTable {
	top := vm.L.Get(-1)
	if tbl, ok := top.(*lua.LTable); ok {
		return tbl
	}
	g := vm.L.GetGlobal("command")
	if tbl, ok := g.(*lua.LTable); ok {
		return tbl
	}
	return nil
}

// RegisterModule registers a table of functions as a Lua global module.
func (vm *VM) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	mod := vm.L.NewTable()
	for fname, fn := range funcs {
		mod.RawSetString(fname, vm.L.NewFunction(fn))
	}
	vm.L.SetGlobal(name, mod)
	vm.L.PreloadModule(name, func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
}

// LogError logs a Lua error with context.
func LogError(context string, err error) {
	if err != nil {
		log.Printf("Lua error [%s]: %v", context, err)
	}
}
