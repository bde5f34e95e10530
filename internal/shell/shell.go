// Package shell runs the interactive command loop for one connected
// terminal: banner, prompt, dispatch, rendering of results and the
// session's time accounting.
package shell

import (
	"fmt"
	"log"
	"strings"
	"time"

	"hackterm/internal/banner"
	"hackterm/internal/command"
	"hackterm/internal/game"
	"hackterm/internal/terminal"
)

const maxInputLen = 512

// Options wires one shell session.
type Options struct {
	Term       *terminal.Terminal
	Dispatcher *command.Dispatcher
	Ctx        *command.Context
	Banners    *banner.Loader

	SiteName  string
	SiteOwner string

	// Sleep is injectable so effect tests run instantly.
	Sleep func(time.Duration)
}

// Engine is one running shell session.
type Engine struct {
	term       *terminal.Terminal
	dispatcher *command.Dispatcher
	ctx        *command.Context
	banners    *banner.Loader

	siteName  string
	siteOwner string
	sleep     func(time.Duration)
}

// New creates a shell engine.
func New(opts Options) *Engine {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Engine{
		term:       opts.Term,
		dispatcher: opts.Dispatcher,
		ctx:        opts.Ctx,
		banners:    opts.Banners,
		siteName:   opts.SiteName,
		siteOwner:  opts.SiteOwner,
		sleep:      sleep,
	}
}

// Run drives the session until disconnect. Read errors end the loop
// quietly; they almost always mean the peer hung up.
func (e *Engine) Run() {
	start := time.Now()
	defer func() {
		if mins := int(time.Since(start).Minutes()); mins > 0 {
			e.ctx.Game.IncrementStat(game.StatTimeSpentMinutes, mins)
		}
	}()

	e.showBanner()

	for {
		if err := e.term.Send(e.prompt()); err != nil {
			return
		}
		line, err := e.term.GetLine(maxInputLen)
		if err != nil {
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		res := e.dispatcher.Execute(line, e.ctx)
		extra := e.ctx.Game.IncrementStat(game.StatCommandsExecuted, 1)
		res.Achievements = append(res.Achievements, extra...)

		e.render(res)
		if res.Disconnect {
			return
		}
	}
}

// prompt renders user@site:dir$ with the home directory shortened.
func (e *Engine) prompt() string {
	user := "guest"
	if sess := e.ctx.Auth.Current(); sess != nil {
		user = sess.Username
	}
	dir := e.ctx.Dir
	if strings.HasPrefix(dir, "/home/"+user) {
		dir = "~" + strings.TrimPrefix(dir, "/home/"+user)
	}
	host := strings.ToLower(strings.ReplaceAll(e.siteName, " ", ""))
	if host == "" {
		host = "hackterm"
	}

	if !e.term.ANSIEnabled {
		return fmt.Sprintf("%s@%s:%s$ ", user, host, dir)
	}
	return fmt.Sprintf("%s%s@%s%s:%s%s%s$ %s",
		terminal.FgBrightGreen, user, host,
		terminal.Reset, terminal.FgBrightBlue, dir,
		terminal.Reset, "")
}

func (e *Engine) render(res command.Result) {
	if res.ClearScreen {
		e.term.Cls()
		e.showBanner()
		return
	}
	if res.Effect == "banner" {
		e.showBanner()
		return
	}
	if res.Effect == "matrix" {
		e.term.Matrix(12, e.sleep)
	}

	if res.Output != "" {
		if res.Effect == "glitch" {
			lines := strings.SplitN(res.Output, "\n", 2)
			e.term.Glitch(lines[0], e.sleep)
			if len(lines) > 1 {
				e.term.StyledLn(e.colorFor(res.Kind), lines[1])
			}
		} else {
			e.term.StyledLn(e.colorFor(res.Kind), res.Output)
		}
	}
	if res.Sound != "" {
		// The closest thing telnet has to a sound effect.
		e.term.Send("\a")
	}

	if res.ExperienceGained > 0 {
		e.term.StyledLn(terminal.FgYellow, fmt.Sprintf("+%d XP", res.ExperienceGained))
	}
	for _, a := range res.Achievements {
		e.term.StyledLn(terminal.FgBrightMagenta,
			fmt.Sprintf("ACHIEVEMENT UNLOCKED [%s] %s - %s (+%d pts)", a.Icon, a.Name, a.Description, a.Points))
		e.term.Send("\a")
	}
}

func (e *Engine) colorFor(kind command.Kind) string {
	switch kind {
	case command.KindSuccess:
		return terminal.FgBrightGreen
	case command.KindError:
		return terminal.FgBrightRed
	case command.KindWarning:
		return terminal.FgYellow
	default:
		return terminal.FgCyan
	}
}

// showBanner renders the site banner with substitutions, falling back
// to a plain header when no art is installed.
func (e *Engine) showBanner() {
	name := e.siteName
	if name == "" {
		name = "hackterm"
	}

	if e.banners != nil {
		if f, err := e.banners.Find("welcome", e.term.ANSIEnabled); err == nil {
			st := e.ctx.Game.State()
			out := banner.Render(f.Data, map[string]string{
				"site":  name,
				"owner": e.siteOwner,
				"level": fmt.Sprintf("%d", st.Level),
				"score": fmt.Sprintf("%d", st.Score),
			})
			e.term.SendLn(strings.TrimRight(out, "\r\n"))
			return
		} else {
			log.Printf("Banner lookup failed: %v", err)
		}
	}

	e.term.StyledLn(terminal.FgBrightGreen, "=== "+name+" ===")
	e.term.SendLn("Unauthorized access is mandatory. Type 'help' to begin.")
}
