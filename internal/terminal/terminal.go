// Package terminal provides the low-level read/write abstraction over a
// raw connection: CRLF handling, line editing, output styling and the
// visual effects the game commands trigger.
package terminal

import (
	"io"
	"strings"
)

// Terminal wraps a raw connection with line-oriented I/O.
type Terminal struct {
	rwc         io.ReadWriteCloser
	Width       int
	Height      int
	ANSIEnabled bool

	// echoControl toggles client-side echo; telnet wires this to the
	// ECHO option negotiation.
	echoControl func(on bool) error
}

// New creates a Terminal wrapping the given ReadWriteCloser.
func New(rwc io.ReadWriteCloser, width, height int, ansiEnabled bool) *Terminal {
	return &Terminal{
		rwc:         rwc,
		Width:       width,
		Height:      height,
		ANSIEnabled: ansiEnabled,
	}
}

// SetEchoControl registers a callback for toggling echo behavior.
func (t *Terminal) SetEchoControl(fn func(on bool) error) {
	t.echoControl = fn
}

// Close closes the underlying connection.
func (t *Terminal) Close() error {
	return t.rwc.Close()
}

// Read implements io.Reader, delegating to the underlying connection.
func (t *Terminal) Read(p []byte) (int, error) {
	return t.rwc.Read(p)
}

// Write implements io.Writer, delegating to the underlying connection.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.rwc.Write(p)
}

// Send writes raw bytes to the terminal.
func (t *Terminal) Send(data string) error {
	_, err := io.WriteString(t.rwc, data)
	return err
}

// SendLn writes text followed by CR+LF. Embedded newlines are
// normalized so multi-line command output renders on raw telnet.
func (t *Terminal) SendLn(text string) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "\r\n")
	return t.Send(text + "\r\n")
}

// StyledLn writes text in the given SGR color when ANSI is on.
func (t *Terminal) StyledLn(color, text string) error {
	if !t.ANSIEnabled || color == "" {
		return t.SendLn(text)
	}
	if err := t.Send(color); err != nil {
		return err
	}
	if err := t.SendLn(text); err != nil {
		return err
	}
	return t.Send(Reset)
}

// Cls clears the screen.
func (t *Terminal) Cls() error {
	if t.ANSIEnabled {
		return t.Send(ClearScreen())
	}
	return t.Send(strings.Repeat("\r\n", 24))
}

// ReadByte reads a single byte from the terminal.
func (t *Terminal) ReadByte() (byte, error) {
	buf := make([]byte, 1)
	_, err := t.rwc.Read(buf)
	return buf[0], err
}

// GetLine reads a line of input up to maxLen characters, with echo and
// backspace editing. Returns the entered string without CR/LF.
func (t *Terminal) GetLine(maxLen int) (string, error) {
	var buf []byte
	for {
		b, err := t.ReadByte()
		if err != nil {
			return string(buf), err
		}
		switch b {
		case '\r', '\n':
			t.Send("\r\n")
			return string(buf), nil
		case 8, 127: // backspace or delete
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				t.Send("\b \b")
			}
		default:
			if b >= 32 && b < 127 && len(buf) < maxLen {
				buf = append(buf, b)
				t.Send(string(b))
			}
		}
	}
}

// GetSecret reads a line without echoing, printing asterisks instead.
func (t *Terminal) GetSecret(maxLen int) (string, error) {
	if t.echoControl != nil {
		t.echoControl(false)
		defer t.echoControl(true)
	}
	var buf []byte
	for {
		b, err := t.ReadByte()
		if err != nil {
			return string(buf), err
		}
		switch b {
		case '\r', '\n':
			t.Send("\r\n")
			return string(buf), nil
		case 8, 127:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				t.Send("\b \b")
			}
		default:
			if b >= 32 && b < 127 && len(buf) < maxLen {
				buf = append(buf, b)
				t.Send("*")
			}
		}
	}
}
