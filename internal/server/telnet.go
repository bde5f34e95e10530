package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"sync"
)

// Telnet protocol constants.
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	SE   byte = 240
	GA   byte = 249

	OptEcho    byte = 1
	OptSGA     byte = 3
	OptTType   byte = 24
	OptNAWS    byte = 31
	OptLinemod byte = 34
)

// TelnetConn wraps a raw TCP connection with telnet protocol handling.
// IAC sequences are stripped from the data stream transparently.
type TelnetConn struct {
	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	// Terminal properties discovered via negotiation.
	TermType    string
	Width       int
	Height      int
	ANSICapable bool
}

// NewTelnetConn wraps a raw TCP connection.
func NewTelnetConn(conn net.Conn) *TelnetConn {
	return &TelnetConn{
		conn:        conn,
		reader:      bufio.NewReaderSize(conn, 1024),
		Width:       80,
		Height:      24,
		ANSICapable: true, // assume ANSI until told otherwise
	}
}

// Negotiate sends the initial telnet option negotiations: server-side
// echo, character-at-a-time input, and requests for window size and
// terminal type.
func (tc *TelnetConn) Negotiate() error {
	for _, pair := range [][2]byte{
		{WILL, OptEcho},
		{WILL, OptSGA},
		{DO, OptSGA},
		{DONT, OptLinemod},
		{DO, OptNAWS},
		{DO, OptTType},
	} {
		if err := tc.sendCommand(pair[0], pair[1]); err != nil {
			return err
		}
	}
	return nil
}

func (tc *TelnetConn) sendCommand(cmd, option byte) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	_, err := tc.conn.Write([]byte{IAC, cmd, option})
	return err
}

// ReadByte reads one data byte, consuming any IAC sequences in between.
func (tc *TelnetConn) ReadByte() (byte, error) {
	for {
		b, err := tc.reader.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != IAC {
			return b, nil
		}

		cmd, err := tc.reader.ReadByte()
		if err != nil {
			return 0, err
		}
		switch cmd {
		case IAC:
			// Escaped literal 0xFF.
			return IAC, nil
		case WILL, WONT:
			opt, err := tc.reader.ReadByte()
			if err != nil {
				return 0, err
			}
			tc.handleWillWont(cmd, opt)
		case DO, DONT:
			opt, err := tc.reader.ReadByte()
			if err != nil {
				return 0, err
			}
			tc.handleDoDont(cmd, opt)
		case SB:
			if err := tc.handleSubNegotiation(); err != nil {
				return 0, err
			}
		default:
			// GA and anything unknown: skip.
		}
	}
}

// Read implements io.Reader, filtering telnet protocol from the stream.
func (tc *TelnetConn) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		b, err := tc.ReadByte()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		p[n] = b
		n++
		if tc.reader.Buffered() == 0 {
			break
		}
	}
	return n, nil
}

// Write sends data to the client, escaping literal 0xFF bytes.
func (tc *TelnetConn) Write(p []byte) (int, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	written := 0
	for i, b := range p {
		if b == IAC {
			if i > written {
				if _, err := tc.conn.Write(p[written:i]); err != nil {
					return written, err
				}
			}
			if _, err := tc.conn.Write([]byte{IAC, IAC}); err != nil {
				return i, err
			}
			written = i + 1
		}
	}
	if written < len(p) {
		if _, err := tc.conn.Write(p[written:]); err != nil {
			return written, err
		}
	}
	return len(p), nil
}

// Close closes the underlying connection.
func (tc *TelnetConn) Close() error {
	return tc.conn.Close()
}

// RemoteAddr returns the remote address of the connection.
func (tc *TelnetConn) RemoteAddr() net.Addr {
	return tc.conn.RemoteAddr()
}

// SetEcho keeps the server in echo mode regardless of the requested
// state. Sending WONT ECHO makes many clients fall back to local echo,
// which would leak password characters while the server prints '*'.
func (tc *TelnetConn) SetEcho(on bool) error {
	_ = on
	return tc.sendCommand(WILL, OptEcho)
}

func (tc *TelnetConn) handleWillWont(cmd, opt byte) {
	switch opt {
	case OptTType:
		if cmd == WILL {
			// Ask the client to send its terminal type.
			tc.mu.Lock()
			tc.conn.Write([]byte{IAC, SB, OptTType, 1, IAC, SE})
			tc.mu.Unlock()
		}
	case OptLinemod:
		if cmd == WILL {
			_ = tc.sendCommand(DONT, OptLinemod)
		}
	}
}

func (tc *TelnetConn) handleDoDont(cmd, opt byte) {
	switch opt {
	case OptEcho, OptSGA:
		// Already offered; the client is confirming.
	default:
		if cmd == DO {
			tc.sendCommand(WONT, opt)
		}
	}
}

func (tc *TelnetConn) handleSubNegotiation() error {
	const maxSubnegLen = 1024
	var buf []byte
	for {
		b, err := tc.reader.ReadByte()
		if err != nil {
			return fmt.Errorf("subneg read: %w", err)
		}
		if b == IAC {
			next, err := tc.reader.ReadByte()
			if err != nil {
				return fmt.Errorf("subneg read: %w", err)
			}
			if next == SE {
				break
			}
			if next == IAC {
				buf = append(buf, IAC)
				if len(buf) > maxSubnegLen {
					return fmt.Errorf("subneg too long")
				}
				continue
			}
			break
		}
		buf = append(buf, b)
		if len(buf) > maxSubnegLen {
			return fmt.Errorf("subneg too long")
		}
	}

	if len(buf) == 0 {
		return nil
	}
	switch buf[0] {
	case OptNAWS:
		if len(buf) >= 5 {
			tc.Width = int(buf[1])<<8 | int(buf[2])
			tc.Height = int(buf[3])<<8 | int(buf[4])
		}
	case OptTType:
		if len(buf) >= 2 && buf[1] == 0 {
			term := string(buf[2:])
			if len(term) > 64 {
				term = term[:64]
			}
			tc.TermType = term
			tc.ANSICapable = isANSITermType(term)
		}
	}
	return nil
}

func isANSITermType(termType string) bool {
	switch termType {
	case "ANSI", "ansi", "ANSI-BBS", "ansi-bbs",
		"xterm", "xterm-256color", "xterm-color",
		"vt100", "VT100", "vt102", "VT102",
		"linux", "screen", "screen-256color",
		"tmux", "tmux-256color",
		"rxvt", "rxvt-unicode":
		return true
	}
	return false
}

var _ io.ReadWriteCloser = (*TelnetConn)(nil)
