package command

import (
	"errors"
	"fmt"
	"strings"

	"hackterm/internal/game"
)

// RegisterGame adds the challenge and progression commands.
func RegisterGame(reg *Registry) {
	reg.MustRegister(&Command{
		Name:        "ctf",
		Aliases:     []string{"challenges"},
		Description: "Play the capture-the-flag challenges",
		Usage:       "ctf [list|show <id>|submit <id> <flag>]",
		Handler:     ctfHandler,
	})
	reg.MustRegister(&Command{
		Name:        "hint",
		Description: "Spend a hint from your budget",
		Handler:     hintHandler,
	})
	reg.MustRegister(&Command{
		Name:        "score",
		Aliases:     []string{"level"},
		Description: "Show level, experience and score",
		Handler:     scoreHandler,
	})
	reg.MustRegister(&Command{
		Name:        "stats",
		Description: "Show session statistics",
		Handler:     statsHandler,
	})
	reg.MustRegister(&Command{
		Name:        "achievements",
		Aliases:     []string{"badges"},
		Description: "List unlocked achievements",
		Handler:     achievementsHandler,
	})
	reg.MustRegister(&Command{
		Name:        "progress",
		Description: "Show challenge completion",
		Handler: func(args []string, ctx *Context) Result {
			_, _, text := ctx.Game.Progress()
			return Infof(text)
		},
	})
	reg.MustRegister(&Command{
		Name:        "reset",
		Description: "Wipe all game progress",
		Usage:       "reset confirm",
		Handler:     resetHandler,
	})
}

func ctfHandler(args []string, ctx *Context) Result {
	sub := "list"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}
	switch sub {
	case "list":
		return ctfList(ctx)
	case "show":
		if len(args) < 2 {
			return Errorf("usage: ctf show <id>")
		}
		return ctfShow(args[1], ctx)
	case "submit":
		if len(args) < 3 {
			return Errorf("usage: ctf submit <id> <flag>")
		}
		return ctfSubmit(args[1], strings.Join(args[2:], " "), ctx)
	default:
		return Errorf("usage: ctf [list|show <id>|submit <id> <flag>]")
	}
}

func ctfList(ctx *Context) Result {
	st := ctx.Game.State()
	solved := make(map[string]bool, len(st.SolvedChallenges))
	for _, id := range st.SolvedChallenges {
		solved[id] = true
	}

	var b strings.Builder
	b.WriteString("Challenges:\n\n")
	for _, ch := range ctx.Game.Catalog().Ordered() {
		mark := "[ ]"
		if solved[ch.ID] {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "%s %-14s %-8s %4d pts  %s\n", mark, ch.ID, ch.Difficulty, ch.Points, ch.Title)
	}
	_, _, text := ctx.Game.Progress()
	b.WriteString("\n" + text)
	b.WriteString("\nInspect one with 'ctf show <id>', answer with 'ctf submit <id> <flag>'.")
	return Infof(b.String())
}

func ctfShow(id string, ctx *Context) Result {
	ch, ok := ctx.Game.Catalog().Get(id)
	if !ok {
		return Errorf(fmt.Sprintf("Unknown challenge '%s'. Try 'ctf list'.", id))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %d pts)\n\n%s", ch.Title, ch.Difficulty, ch.Points, ch.Description)
	if ch.Content != "" {
		b.WriteString("\n\n" + ch.Content)
	}
	b.WriteString("\n\nSubmit with: ctf submit " + ch.ID + " <flag>")
	return Infof(b.String())
}

func ctfSubmit(id, flag string, ctx *Context) Result {
	ch, ok := ctx.Game.Catalog().Get(id)
	if !ok {
		return Errorf(fmt.Sprintf("Unknown challenge '%s'. Try 'ctf list'.", id))
	}
	if strings.TrimSpace(flag) != ch.Flag {
		ctx.Game.BreakStreak()
		return Result{
			Kind:   KindError,
			Output: "ACCESS DENIED. Incorrect flag. Your streak is gone.",
			Sound:  "denied",
		}
	}

	res, err := ctx.Game.SolveChallenge(id)
	if errors.Is(err, game.ErrAlreadySolved) {
		return Infof("Already solved. No double credit in this establishment.")
	}
	if err != nil {
		return Errorf(err.Error())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ACCESS GRANTED. '%s' solved for %d points.", res.Challenge.Title, res.Points)
	if res.LeveledUp {
		fmt.Fprintf(&b, "\nLEVEL UP! You are now level %d.", res.NewLevel)
	}
	for _, cmd := range res.UnlockedCommands {
		fmt.Fprintf(&b, "\nNew command unlocked: %s", cmd)
	}
	if res.RewardMessage != "" {
		b.WriteString("\n" + res.RewardMessage)
	}
	return Result{
		Kind:             KindSuccess,
		Output:           b.String(),
		Sound:            "success",
		ExperienceGained: res.Points,
		Achievements:     res.Achievements,
	}
}

func hintHandler(args []string, ctx *Context) Result {
	hint, err := ctx.Game.UseHint()
	if err != nil {
		return Errorf("No hints left. You are on your own now.")
	}
	left := ctx.Game.State().Hints.Available
	return Infof(fmt.Sprintf("HINT: %s\n(%d hints remaining)", hint, left))
}

func scoreHandler(args []string, ctx *Context) Result {
	st := ctx.Game.State()
	intoLevel := st.Experience % 100
	return Successf(fmt.Sprintf(
		"Level %d  (%d/100 XP to next)\nScore:  %d\nStreak: %d (best %d)",
		st.Level, intoLevel, st.Score, st.CurrentStreak, st.BestStreak,
	))
}

func statsHandler(args []string, ctx *Context) Result {
	st := ctx.Game.State()
	return Successf(fmt.Sprintf(
		"Commands executed:  %d\nChallenges solved:  %d\nEaster eggs found:  %d\nLogin attempts:     %d\nTime in terminal:   %d min",
		st.Stats.CommandsExecuted, st.Stats.ChallengesSolved, st.Stats.EasterEggsFound,
		st.Stats.LoginAttempts, st.Stats.TimeSpentMinutes,
	))
}

func achievementsHandler(args []string, ctx *Context) Result {
	st := ctx.Game.State()
	if len(st.Achievements) == 0 {
		return Infof("No achievements yet. Solve something.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Achievements (%d/%d):\n\n", len(st.Achievements), game.AchievementCount())
	for _, a := range st.Achievements {
		fmt.Fprintf(&b, "[%s] %-14s %3d pts  %s\n", a.Icon, a.Name, a.Points, a.Description)
	}
	return Successf(strings.TrimRight(b.String(), "\n"))
}

func resetHandler(args []string, ctx *Context) Result {
	if len(args) == 0 || strings.ToLower(args[0]) != "confirm" {
		return Result{
			Kind:   KindWarning,
			Output: "This wipes every point, solve and achievement. Type 'reset confirm' if you mean it.",
		}
	}
	ctx.Game.Reset()
	return Successf("Progress wiped. Level 1. The terminal remembers nothing.")
}
