package terminal

import (
	"math/rand"
	"strings"
	"time"
)

// Effect animations are short and best-effort: write errors abort
// silently because the connection is already gone.

const matrixGlyphs = "ｱｲｳｴｵｶｷｸｹｺ0123456789ABCDEF$#@%"

// Matrix plays a brief digital-rain animation. Degrades to a static
// line without ANSI.
func (t *Terminal) Matrix(frames int, sleep func(time.Duration)) {
	if sleep == nil {
		sleep = time.Sleep
	}
	if !t.ANSIEnabled {
		t.SendLn("01001101 01100001 01110100 01110010 01101001 01111000")
		return
	}
	width := t.Width
	if width <= 0 || width > 120 {
		width = 80
	}
	glyphs := []rune(matrixGlyphs)

	t.Send(HideCursor())
	for f := 0; f < frames; f++ {
		var b strings.Builder
		b.WriteString(FgBrightGreen)
		for c := 0; c < width; c++ {
			if rand.Intn(3) == 0 {
				b.WriteRune(glyphs[rand.Intn(len(glyphs))])
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(Reset)
		if t.SendLn(b.String()) != nil {
			break
		}
		sleep(60 * time.Millisecond)
	}
	t.Send(ShowCursor())
}

// Glitch re-prints a line with corrupted passes before settling.
func (t *Terminal) Glitch(text string, sleep func(time.Duration)) {
	if sleep == nil {
		sleep = time.Sleep
	}
	if !t.ANSIEnabled {
		t.SendLn(text)
		return
	}
	noise := []rune("!@#$%^&*<>?/\\|~")
	runes := []rune(text)
	for pass := 0; pass < 3; pass++ {
		corrupted := make([]rune, len(runes))
		copy(corrupted, runes)
		for i := range corrupted {
			if corrupted[i] != ' ' && rand.Intn(4) == 0 {
				corrupted[i] = noise[rand.Intn(len(noise))]
			}
		}
		t.Send("\r" + ClearLine() + FgBrightRed + string(corrupted) + Reset)
		sleep(80 * time.Millisecond)
	}
	t.Send("\r" + ClearLine())
	t.SendLn(text)
}
