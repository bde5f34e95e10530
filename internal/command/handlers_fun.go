package command

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// RegisterFun adds the earnable theatrics. Everything here is
// Unlockable: invisible until the game state grants it.
func RegisterFun(reg *Registry) {
	reg.MustRegister(&Command{
		Name:        "matrix",
		Description: "There is no spoon",
		Unlockable:  true,
		Handler: func(args []string, ctx *Context) Result {
			return Result{
				Kind:   KindSuccess,
				Output: "Wake up...\nThe Matrix has you.\nFollow the white rabbit.",
				Effect: "matrix",
			}
		},
	})
	reg.MustRegister(&Command{
		Name:        "hack",
		Description: "Initiate a highly cinematic intrusion",
		Usage:       "hack [target]",
		Unlockable:  true,
		Cooldown:    30 * time.Second,
		Handler:     hackHandler,
	})
	reg.MustRegister(&Command{
		Name:        "decrypt",
		Description: "Decode rot13, base64 or hex",
		Usage:       "decrypt <rot13|base64|hex> <text>",
		Unlockable:  true,
		Handler:     decryptHandler,
	})
	reg.MustRegister(&Command{
		Name:        "backdoor",
		Description: "Knock on port 31337",
		Unlockable:  true,
		Handler: func(args []string, ctx *Context) Result {
			return Result{
				Kind:   KindSuccess,
				Output: "Connecting to 31337/tcp...\nHandshake accepted. The elite backdoor swings open.\nInside: a sticky note reading \"remember to close the backdoor\".",
				Sound:  "secret",
			}
		},
	})
	reg.MustRegister(&Command{
		Name:        "selfdestruct",
		Description: "Arm the self-destruct sequence",
		Unlockable:  true,
		Handler: func(args []string, ctx *Context) Result {
			return Result{
				Kind:   KindWarning,
				Output: "SELF-DESTRUCT ARMED.\n3...\n2...\n1...\n\nDetonation cancelled: this terminal is load-bearing.",
				Sound:  "alarm",
				Effect: "glitch",
			}
		},
	})
	reg.MustRegister(&Command{
		Name:        "godmode",
		Description: "Ascend",
		Unlockable:  true,
		Handler: func(args []string, ctx *Context) Result {
			rep := ctx.Game.AddExperience(50)
			return Result{
				Kind:             KindSuccess,
				Output:           "GODMODE ENABLED.\nYou can now see the green rain for what it is: CSS.\nNothing is off limits. Everything was already unlocked.",
				Effect:           "glitch",
				ExperienceGained: 50,
				Achievements:     rep.Achievements,
			}
		},
	})
	reg.MustRegister(&Command{
		Name:        "nuke",
		Description: "Do not run this",
		Hidden:      true,
		Unlockable:  true,
		Handler: func(args []string, ctx *Context) Result {
			return Result{
				Kind:   KindWarning,
				Output: "Launch codes accepted.\n...\nLaunch aborted: the silo is a metaphor.",
				Sound:  "alarm",
			}
		},
	})
}

func hackHandler(args []string, ctx *Context) Result {
	target := firstArg(args)
	if target == "" {
		target = "the mainframe"
	}
	rep := ctx.Game.AddExperience(15)
	out := fmt.Sprintf(
		"Targeting %s...\nBypassing firewall........ done\nSpoofing MAC address...... done\nInjecting payload......... done\nCovering tracks........... done\n\nYou're in. (You were always in. This is your terminal.)",
		target,
	)
	return Result{
		Kind:             KindSuccess,
		Output:           out,
		Effect:           "glitch",
		ExperienceGained: 15,
		Achievements:     rep.Achievements,
	}
}

func decryptHandler(args []string, ctx *Context) Result {
	if len(args) < 2 {
		return Errorf("usage: decrypt <rot13|base64|hex> <text>")
	}
	mode := strings.ToLower(args[0])
	text := strings.Join(args[1:], " ")

	switch mode {
	case "rot13":
		return Successf(rot13(text))
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			// Tolerate missing padding.
			decoded, err = base64.RawStdEncoding.DecodeString(text)
		}
		if err != nil {
			return Errorf("decrypt: not valid base64")
		}
		return Successf(string(decoded))
	case "hex":
		decoded, err := hex.DecodeString(strings.ReplaceAll(text, " ", ""))
		if err != nil {
			return Errorf("decrypt: not valid hex")
		}
		return Successf(string(decoded))
	default:
		return Errorf(fmt.Sprintf("decrypt: unknown mode %q", mode))
	}
}

func rot13(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return 'a' + (r-'a'+13)%26
		case r >= 'A' && r <= 'Z':
			return 'A' + (r-'A'+13)%26
		}
		return r
	}, s)
}
