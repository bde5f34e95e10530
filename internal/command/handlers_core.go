package command

import (
	"fmt"
	"strings"

	"hackterm/internal/auth"
	"hackterm/internal/mockfs"
)

// RegisterCore adds navigation, information and social commands.
func RegisterCore(reg *Registry) {
	reg.MustRegister(&Command{
		Name:        "help",
		Aliases:     []string{"?", "commands"},
		Description: "List available commands",
		Usage:       "help [command]",
		Handler:     helpHandler(reg),
	})
	reg.MustRegister(&Command{
		Name:        "clear",
		Aliases:     []string{"cls"},
		Description: "Clear the terminal",
		Handler: func(args []string, ctx *Context) Result {
			return Result{Kind: KindClear, ClearScreen: true}
		},
	})
	reg.MustRegister(&Command{
		Name:        "banner",
		Description: "Redraw the welcome banner",
		Handler: func(args []string, ctx *Context) Result {
			return Result{Kind: KindInfo, Effect: "banner"}
		},
	})
	reg.MustRegister(&Command{
		Name:        "whoami",
		Aliases:     []string{"id"},
		Description: "Show the current session identity",
		Handler:     whoamiHandler,
	})
	reg.MustRegister(&Command{
		Name:        "pwd",
		Description: "Print the working directory",
		Handler: func(args []string, ctx *Context) Result {
			return Successf(ctx.Dir)
		},
	})
	reg.MustRegister(&Command{
		Name:        "ls",
		Aliases:     []string{"dir"},
		Description: "List directory contents",
		Usage:       "ls [-a] [path]",
		Handler:     lsHandler,
	})
	reg.MustRegister(&Command{
		Name:        "cd",
		Description: "Change the working directory",
		Usage:       "cd [path]",
		Handler:     cdHandler,
	})
	reg.MustRegister(&Command{
		Name:        "cat",
		Aliases:     []string{"type"},
		Description: "Print a file",
		Usage:       "cat <file>",
		Handler:     catHandler,
	})
	reg.MustRegister(&Command{
		Name:        "guestbook",
		Aliases:     []string{"gb"},
		Description: "Read or sign the guestbook",
		Usage:       "guestbook [sign <message>]",
		Handler:     guestbookHandler,
	})
	reg.MustRegister(&Command{
		Name:        "who",
		Description: "List connected nodes",
		Handler:     whoHandler,
	})
	reg.MustRegister(&Command{
		Name:        "wall",
		Description: "Broadcast a message to every node",
		Usage:       "wall <message>",
		AdminOnly:   true,
		Handler:     wallHandler,
	})
	reg.MustRegister(&Command{
		Name:        "exit",
		Aliases:     []string{"quit", "bye"},
		Description: "Close the session",
		Handler: func(args []string, ctx *Context) Result {
			return Result{
				Kind:       KindInfo,
				Output:     "Connection closed by remote host. (Not really. You hung up.)",
				Disconnect: true,
			}
		},
	})
}

func helpHandler(reg *Registry) HandlerFunc {
	return func(args []string, ctx *Context) Result {
		if run := ctx.Tracker.HelpRun(); run > 3 {
			return Result{
				Kind:   KindWarning,
				Output: fmt.Sprintf("That's %d help calls in a row. The commands have not changed. Try running one.", run),
			}
		}

		if len(args) > 0 {
			name := reg.Resolve(strings.ToLower(args[0]))
			cmd := reg.Get(name)
			if cmd == nil || cmd.Hidden || (cmd.Unlockable && !ctx.Game.CommandUnlocked(cmd.Name)) {
				return Errorf(fmt.Sprintf("No help available for '%s'.", args[0]))
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%s - %s", cmd.Name, cmd.Description)
			if cmd.Usage != "" {
				fmt.Fprintf(&b, "\nusage:   %s", cmd.Usage)
			}
			if len(cmd.Aliases) > 0 {
				fmt.Fprintf(&b, "\naliases: %s", strings.Join(cmd.Aliases, ", "))
			}
			return Infof(b.String())
		}

		isAdmin := ctx.Auth.HasPermission(auth.PermAdmin)
		var b strings.Builder
		b.WriteString("Available commands:\n\n")
		for _, cmd := range reg.All() {
			if cmd.Hidden {
				continue
			}
			if cmd.Unlockable && !ctx.Game.CommandUnlocked(cmd.Name) {
				continue
			}
			if cmd.AdminOnly && !isAdmin {
				continue
			}
			fmt.Fprintf(&b, "  %-14s %s\n", cmd.Name, cmd.Description)
		}
		b.WriteString("\nSome commands only appear once you earn them.")
		return Infof(b.String())
	}
}

func whoamiHandler(args []string, ctx *Context) Result {
	sess := ctx.Auth.Current()
	if sess == nil {
		return Successf("guest (no active session)")
	}
	return Successf(fmt.Sprintf(
		"%s\nrole:        %s\npermissions: %s\nsession:     %s",
		sess.Username, sess.Role, strings.Join(sess.Permissions, ", "), sess.ID,
	))
}

func lsHandler(args []string, ctx *Context) Result {
	showHidden := false
	target := ctx.Dir
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "a") {
				showHidden = true
			}
			continue
		}
		target = mockfs.Resolve(ctx.Dir, a)
	}

	entries, err := ctx.FS.List(target)
	if err != nil {
		return Errorf("ls: " + err.Error())
	}
	var b strings.Builder
	for _, e := range entries {
		if e.Hidden() && !showHidden {
			continue
		}
		name := e.Name
		if e.Dir {
			name += "/"
		}
		b.WriteString(name + "\n")
	}
	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		out = "(empty)"
	}
	return Successf(out)
}

func cdHandler(args []string, ctx *Context) Result {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	target := mockfs.Resolve(ctx.Dir, arg)
	if arg == "" {
		target = mockfs.HomeDir
	}
	if !ctx.FS.IsDir(target) {
		if _, err := ctx.FS.Read(target); err == nil {
			return Errorf("cd: " + target + ": not a directory")
		}
		return Errorf("cd: " + target + ": no such file or directory")
	}
	ctx.Dir = target
	return Result{Kind: KindSuccess}
}

func catHandler(args []string, ctx *Context) Result {
	if len(args) == 0 {
		return Errorf("usage: cat <file>")
	}
	target := mockfs.Resolve(ctx.Dir, args[0])
	content, err := ctx.FS.Read(target)
	if err != nil {
		return Errorf("cat: " + err.Error())
	}
	return Successf(strings.TrimRight(content, "\n"))
}

func guestbookHandler(args []string, ctx *Context) Result {
	if ctx.Guestbook == nil {
		return Infof("The guestbook is unavailable in this mode.")
	}

	if len(args) > 0 && strings.ToLower(args[0]) == "sign" {
		if !ctx.Auth.HasPermission(auth.PermWrite) {
			return Errorf("Log in to sign the guestbook.")
		}
		body := strings.Join(args[1:], " ")
		author := "anonymous"
		if sess := ctx.Auth.Current(); sess != nil {
			author = sess.Username
		}
		entry, err := ctx.Guestbook.Sign(author, body)
		if err != nil {
			return Errorf("guestbook: " + err.Error())
		}
		return Successf(fmt.Sprintf("Signed as %s. Thanks for stopping by.", entry.Author))
	}

	entries, err := ctx.Guestbook.Recent(10)
	if err != nil {
		return Errorf("guestbook: " + err.Error())
	}
	if len(entries) == 0 {
		return Infof("The guestbook is empty. Be the first: guestbook sign <message>")
	}
	var b strings.Builder
	b.WriteString("Guestbook (latest first):\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "[%s] %s: %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Author, e.Body)
	}
	return Successf(strings.TrimRight(b.String(), "\n"))
}

func whoHandler(args []string, ctx *Context) Result {
	if ctx.Peers == nil {
		return Infof("Just you.")
	}
	names := ctx.Peers.Who()
	if len(names) == 0 {
		return Infof("Just you.")
	}
	return Successf("Connected:\n  " + strings.Join(names, "\n  "))
}

func wallHandler(args []string, ctx *Context) Result {
	if ctx.Peers == nil {
		return Infof("Nobody else is listening in this mode.")
	}
	if len(args) == 0 {
		return Errorf("usage: wall <message>")
	}
	from := "operator"
	if sess := ctx.Auth.Current(); sess != nil {
		from = sess.Username
	}
	ctx.Peers.Broadcast(from, strings.Join(args, " "))
	return Successf("Broadcast sent.")
}
