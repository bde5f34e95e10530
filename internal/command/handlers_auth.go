package command

import (
	"fmt"
	"strings"

	"hackterm/internal/auth"
	"hackterm/internal/game"
)

// RegisterAuth adds the simulated access-control commands.
func RegisterAuth(reg *Registry) {
	reg.MustRegister(&Command{
		Name:        "login",
		Description: "Authenticate with the access system",
		Usage:       "login <username> <password>",
		Handler:     loginHandler,
	})
	reg.MustRegister(&Command{
		Name:        "logout",
		Description: "End the authenticated session",
		Handler:     logoutHandler,
	})
	reg.MustRegister(&Command{
		Name:         "su",
		Description:  "Switch to another account",
		Usage:        "su <username> [password]",
		RequiresAuth: true,
		AdminOnly:    true,
		Handler:      suHandler,
	})
	reg.MustRegister(&Command{
		Name:        "adduser",
		Description: "Create a new account",
		Usage:       "adduser <username> <password> <role>",
		AdminOnly:   true,
		Handler:     adduserHandler,
	})
	reg.MustRegister(&Command{
		Name:        "users",
		Description: "List all accounts",
		AdminOnly:   true,
		Handler:     usersHandler,
	})
}

func loginHandler(args []string, ctx *Context) Result {
	ach := ctx.Game.IncrementStat(game.StatLoginAttempts, 1)
	if len(args) < 2 {
		return Result{Kind: KindError, Output: "usage: login <username> <password>", Achievements: ach}
	}

	msg, err := ctx.Auth.Login(args[0], args[1])
	if err != nil {
		return Result{Kind: KindError, Output: err.Error(), Sound: "denied", Achievements: ach}
	}
	return Result{Kind: KindSuccess, Output: msg, Sound: "login", Achievements: ach}
}

func logoutHandler(args []string, ctx *Context) Result {
	msg, err := ctx.Auth.Logout()
	if err != nil {
		return Errorf(err.Error())
	}
	// The terminal never sits without a session; drop straight back to
	// an anonymous one.
	ctx.Auth.StartGuest()
	return Successf(msg)
}

func suHandler(args []string, ctx *Context) Result {
	if len(args) < 1 {
		return Errorf("usage: su <username> [password]")
	}
	secret := ""
	if len(args) > 1 {
		secret = args[1]
	}
	msg, err := ctx.Auth.SwitchUser(args[0], secret)
	if err != nil {
		return Result{Kind: KindError, Output: err.Error(), Sound: "denied"}
	}
	return Result{Kind: KindSuccess, Output: msg, Sound: "login"}
}

func adduserHandler(args []string, ctx *Context) Result {
	if len(args) < 3 {
		return Errorf("usage: adduser <username> <password> <role>")
	}
	username, secret, role := args[0], args[1], auth.Role(strings.ToLower(args[2]))
	if err := ctx.Auth.CreateUser(username, secret, role); err != nil {
		return Errorf(err.Error())
	}
	return Successf(fmt.Sprintf("User %s created with role %s.", username, role))
}

func usersHandler(args []string, ctx *Context) Result {
	if ctx.Users == nil {
		return Infof("No user directory in this mode.")
	}
	list, err := ctx.Users.List()
	if err != nil {
		return Errorf("users: " + err.Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-8s %-8s %s\n", "USERNAME", "ROLE", "LOCKED", "LAST LOGIN")
	for _, u := range list {
		last := "never"
		if u.LastLogin != nil {
			last = u.LastLogin.Format("2006-01-02 15:04")
		}
		locked := "-"
		if u.IsLocked {
			locked = "yes"
		}
		fmt.Fprintf(&b, "%-12s %-8s %-8s %s\n", u.Username, u.Role, locked, last)
	}
	return Successf(strings.TrimRight(b.String(), "\n"))
}
