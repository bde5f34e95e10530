package command

import "hackterm/internal/game"

// Kind classifies a Result for styling by the terminal.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindClear   Kind = "clear"
)

// Result is the single outcome of one dispatched input line. The
// dispatcher never renders; the shell interprets these fields.
type Result struct {
	// Output is the text to append to the terminal. May be empty.
	Output string
	// Kind selects the output styling.
	Kind Kind
	// Command is the resolved canonical command name, when one matched.
	// The shell special-cases "clear".
	Command string
	// ClearScreen asks the shell to reset the display to the banner.
	ClearScreen bool
	// Sound and Effect are best-effort presentation hints.
	Sound  string
	Effect string
	// Achievements lists newly unlocked achievements to surface.
	Achievements []game.Achievement
	// ExperienceGained is surfaced as a floating notification when > 0.
	ExperienceGained int
	// Disconnect asks the shell to end the session.
	Disconnect bool
}

// Successf is a shorthand for a success result.
func Successf(output string) Result {
	return Result{Kind: KindSuccess, Output: output}
}

// Errorf is a shorthand for an error result.
func Errorf(output string) Result {
	return Result{Kind: KindError, Output: output}
}

// Infof is a shorthand for an info result.
func Infof(output string) Result {
	return Result{Kind: KindInfo, Output: output}
}
