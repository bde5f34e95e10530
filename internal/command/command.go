// Package command implements the terminal's command registry and
// dispatcher: parsing, alias resolution, permission and cooldown
// gating, easter-egg fallback and suggestion generation.
package command

import (
	"fmt"
	"time"
)

// HandlerFunc executes a command against parsed arguments and the
// session context.
type HandlerFunc func(args []string, ctx *Context) Result

// Command is one registered terminal command.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	// Hidden commands are omitted from help listings but executable.
	Hidden bool
	// RequiresAuth rejects anonymous (guest) sessions.
	RequiresAuth bool
	// AdminOnly additionally requires the admin permission.
	AdminOnly bool
	// Unlockable commands stay invisible until the game state has
	// earned them.
	Unlockable bool
	// Cooldown is the minimum wait between invocations per user.
	Cooldown time.Duration
	Handler  HandlerFunc
}

// Registry holds commands with stable insertion order. Names and
// aliases share one namespace; collisions are rejected.
type Registry struct {
	order   []string
	byName  map[string]*Command
	aliases map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*Command),
		aliases: make(map[string]string),
	}
}

// Register adds a command, rejecting any name or alias collision.
func (r *Registry) Register(cmd *Command) error {
	if cmd.Name == "" {
		return fmt.Errorf("register: empty command name")
	}
	if cmd.Handler == nil {
		return fmt.Errorf("register %s: nil handler", cmd.Name)
	}
	if r.taken(cmd.Name) {
		return fmt.Errorf("register %s: name already taken", cmd.Name)
	}
	for _, a := range cmd.Aliases {
		if r.taken(a) {
			return fmt.Errorf("register %s: alias %q already taken", cmd.Name, a)
		}
	}

	r.byName[cmd.Name] = cmd
	r.order = append(r.order, cmd.Name)
	for _, a := range cmd.Aliases {
		r.aliases[a] = cmd.Name
	}
	return nil
}

// MustRegister registers or panics; used for the built-in table.
func (r *Registry) MustRegister(cmd *Command) {
	if err := r.Register(cmd); err != nil {
		panic(err)
	}
}

// Unregister removes a command and its aliases.
func (r *Registry) Unregister(name string) {
	cmd, ok := r.byName[name]
	if !ok {
		return
	}
	delete(r.byName, name)
	for _, a := range cmd.Aliases {
		delete(r.aliases, a)
	}
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) taken(key string) bool {
	if _, ok := r.byName[key]; ok {
		return true
	}
	_, ok := r.aliases[key]
	return ok
}

// Resolve maps an alias to its canonical name; unknown keys pass
// through unchanged.
func (r *Registry) Resolve(key string) string {
	if canonical, ok := r.aliases[key]; ok {
		return canonical
	}
	return key
}

// Get returns the command registered under the canonical name.
func (r *Registry) Get(name string) *Command {
	return r.byName[name]
}

// All returns the commands in registration order.
func (r *Registry) All() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Keys returns every name and alias in registry order: each command's
// name first, then its aliases. Suggestion candidates keep this order.
func (r *Registry) Keys() []string {
	var out []string
	for _, name := range r.order {
		out = append(out, name)
		out = append(out, r.byName[name].Aliases...)
	}
	return out
}
