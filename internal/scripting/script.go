package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"hackterm/internal/command"
)

// Script is one loaded Lua command. The VM is single-threaded; a
// Script belongs to exactly one session.
type Script struct {
	Name        string
	Description string
	Usage       string

	vm  *VM
	run *lua.LFunction

	// ctx is swapped in for the duration of each call so the API
	// module sees the calling session.
	ctx *command.Context
}

// Close releases the script's VM.
func (s *Script) Close() {
	s.vm.Close()
}

// Load reads every *.lua file in dir, in name order. A missing
// directory is not an error; a broken script is logged and skipped.
func Load(dir string) []*Script {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			LogError("read script dir", err)
		}
		return nil
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var scripts []*Script
	for _, name := range names {
		s, err := loadFile(filepath.Join(dir, name))
		if err != nil {
			LogError(name, err)
			continue
		}
		scripts = append(scripts, s)
	}
	return scripts
}

func loadFile(path string) (*Script, error) {
	vm := NewVM()
	s := &Script{vm: vm}
	registerAPI(vm, s)

	if err := vm.DoFile(path); err != nil {
		vm.Close()
		return nil, err
	}
	tbl := vm.commandTable()
	if tbl == nil {
		vm.Close()
		return nil, fmt.Errorf("%s: script did not return a command table", path)
	}

	s.Name = lua.LVAsString(tbl.RawGetString("name"))
	s.Description = lua.LVAsString(tbl.RawGetString("description"))
	s.Usage = lua.LVAsString(tbl.RawGetString("usage"))
	run, ok := tbl.RawGetString("run").(*lua.LFunction)
	if !ok {
		vm.Close()
		return nil, fmt.Errorf("%s: command table has no run function", path)
	}
	s.run = run

	if s.Name == "" {
		vm.Close()
		return nil, fmt.Errorf("%s: command table has no name", path)
	}
	return s, nil
}

// Register adds every script to the registry as a regular command.
// Name collisions with built-ins are logged and skipped, never fatal.
func Register(reg *command.Registry, scripts []*Script) {
	for _, s := range scripts {
		desc := s.Description
		if desc == "" {
			desc = "Script command"
		}
		cmd := &command.Command{
			Name:        s.Name,
			Description: desc,
			Usage:       s.Usage,
			Handler:     s.handler(),
		}
		if err := reg.Register(cmd); err != nil {
			LogError(s.Name, err)
		}
	}
}

// handler bridges a dispatched call into the script's run function.
// The function receives the argument list and returns output text plus
// an optional kind string.
func (s *Script) handler() command.HandlerFunc {
	return func(args []string, ctx *command.Context) command.Result {
		s.ctx = ctx
		defer func() { s.ctx = nil }()

		argTable := s.vm.L.NewTable()
		for _, a := range args {
			argTable.Append(lua.LString(a))
		}

		if err := s.vm.L.CallByParam(lua.P{
			Fn:      s.run,
			NRet:    2,
			Protect: true,
		}, argTable); err != nil {
			LogError(s.Name, err)
			return command.Errorf(fmt.Sprintf("Script '%s' failed.", s.Name))
		}

		kindVal := s.vm.L.Get(-1)
		output := lua.LVAsString(s.vm.L.Get(-2))
		s.vm.L.Pop(2)

		kind := command.KindSuccess
		switch lua.LVAsString(kindVal) {
		case "error":
			kind = command.KindError
		case "info":
			kind = command.KindInfo
		case "warning":
			kind = command.KindWarning
		}
		return command.Result{Kind: kind, Output: output}
	}
}
