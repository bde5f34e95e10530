package terminal

import "fmt"

// ANSI SGR constants.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	FgBlack   = "\033[30m"
	FgRed     = "\033[31m"
	FgGreen   = "\033[32m"
	FgBrown   = "\033[33m"
	FgBlue    = "\033[34m"
	FgMagenta = "\033[35m"
	FgCyan    = "\033[36m"
	FgGray    = "\033[37m"
)

// Bright foreground helpers (Bold + foreground).
const (
	FgDarkGray      = "\033[1;30m"
	FgBrightRed     = "\033[1;31m"
	FgBrightGreen   = "\033[1;32m"
	FgYellow        = "\033[1;33m"
	FgBrightBlue    = "\033[1;34m"
	FgBrightMagenta = "\033[1;35m"
	FgBrightCyan    = "\033[1;36m"
	FgWhite         = "\033[1;37m"
)

// ClearScreen sends the ANSI clear-screen sequence and homes the cursor.
func ClearScreen() string {
	return "\033[2J\033[1;1H"
}

// MoveTo returns an ANSI cursor positioning sequence (1-based).
func MoveTo(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}

// ClearLine clears the current line.
func ClearLine() string {
	return "\033[2K"
}

// HideCursor returns the ANSI hide-cursor sequence.
func HideCursor() string {
	return "\033[?25l"
}

// ShowCursor returns the ANSI show-cursor sequence.
func ShowCursor() string {
	return "\033[?25h"
}
