package server

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHConn wraps an SSH session channel as an io.ReadWriteCloser for
// the terminal layer.
type SSHConn struct {
	channel ssh.Channel
	mu      sync.Mutex

	Width       int
	Height      int
	ANSICapable bool
	TermType    string
}

// NewSSHConn wraps an SSH channel.
func NewSSHConn(channel ssh.Channel, width, height int, termType string) *SSHConn {
	return &SSHConn{
		channel:     channel,
		Width:       width,
		Height:      height,
		ANSICapable: true, // SSH clients are effectively always ANSI-capable
		TermType:    termType,
	}
}

// Read implements io.Reader.
func (sc *SSHConn) Read(p []byte) (int, error) {
	return sc.channel.Read(p)
}

// Write implements io.Writer.
func (sc *SSHConn) Write(p []byte) (int, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.channel.Write(p)
}

// Close implements io.Closer.
func (sc *SSHConn) Close() error {
	return sc.channel.Close()
}

// SetEcho is a no-op for SSH; echo is the client's business.
func (sc *SSHConn) SetEcho(on bool) error {
	return nil
}

// SSHListener accepts incoming SSH connections. SSH-level auth is
// deliberately open: the terminal's own login command handles the
// simulated access system.
type SSHListener struct {
	addr        string
	config      *ssh.ServerConfig
	handler     func(conn *SSHConn, remoteAddr string)
	hostKeyPath string

	attemptMu sync.Mutex
	attempts  map[string]*connAttempt
}

// NewSSHListener creates an SSH listener with a persistent host key.
func NewSSHListener(port int, hostKeyPath string, handler func(conn *SSHConn, remoteAddr string)) (*SSHListener, error) {
	config := &ssh.ServerConfig{
		ServerVersion: "SSH-2.0-hackterm",
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			// Any password works at the SSH layer; login happens inside.
			return nil, nil
		},
		NoClientAuth: true,
	}

	l := &SSHListener{
		addr:        fmt.Sprintf(":%d", port),
		config:      config,
		handler:     handler,
		hostKeyPath: hostKeyPath,
		attempts:    make(map[string]*connAttempt),
	}
	if err := l.loadOrGenerateHostKey(); err != nil {
		return nil, fmt.Errorf("host key: %w", err)
	}
	return l, nil
}

// loadOrGenerateHostKey loads the ed25519 host key, creating one on
// first start.
func (l *SSHListener) loadOrGenerateHostKey() error {
	data, err := os.ReadFile(l.hostKeyPath)
	if err == nil {
		signer, perr := ssh.ParsePrivateKey(data)
		if perr != nil {
			return fmt.Errorf("parse host key %s: %w", l.hostKeyPath, perr)
		}
		l.config.AddHostKey(signer)
		log.Printf("SSH: loaded host key from %s (%s)", l.hostKeyPath, signer.PublicKey().Type())
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("generate ed25519 key: %w", err)
	}
	privBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return fmt.Errorf("marshal ed25519 key: %w", err)
	}
	pemData := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privBytes})

	if err := os.MkdirAll(filepath.Dir(l.hostKeyPath), 0700); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(l.hostKeyPath, pemData, 0600); err != nil {
		return fmt.Errorf("write host key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(pemData)
	if err != nil {
		return fmt.Errorf("parse new ed25519 key: %w", err)
	}
	l.config.AddHostKey(signer)
	log.Printf("SSH: generated new host key at %s (%s)", l.hostKeyPath, signer.PublicKey().Type())
	return nil
}

type connAttempt struct {
	last  time.Time
	count int
}

// allowConnection applies a per-host backoff so anonymous connection
// floods get slow, then get dropped.
func (l *SSHListener) allowConnection(host string) (time.Duration, bool) {
	const (
		window     = 10 * time.Second
		resetAfter = 30 * time.Second
		maxCount   = 30
		step       = 250 * time.Millisecond
		maxDelay   = 5 * time.Second
	)

	now := time.Now()

	l.attemptMu.Lock()
	defer l.attemptMu.Unlock()

	a := l.attempts[host]
	if a == nil {
		a = &connAttempt{last: now}
		l.attempts[host] = a
	}

	if now.Sub(a.last) > resetAfter {
		a.count = 0
	}
	if now.Sub(a.last) <= window {
		a.count++
	} else {
		a.count = 1
	}
	a.last = now

	if a.count > maxCount {
		return 0, false
	}
	if a.count <= 3 {
		return 0, true
	}
	d := time.Duration(a.count-3) * step
	if d > maxDelay {
		d = maxDelay
	}
	return d, true
}

// ListenAndServe blocks accepting SSH connections.
func (l *SSHListener) ListenAndServe() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", l.addr, err)
	}
	defer ln.Close()

	log.Printf("SSH server listening on %s", l.addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("SSH accept error: %v", err)
			continue
		}
		go l.handleConnection(conn)
	}
}

func (l *SSHListener) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	delay, ok := l.allowConnection(host)
	if !ok {
		conn.Close()
		return
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	_ = conn.SetDeadline(time.Now().Add(20 * time.Second))

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, l.config)
	if err != nil {
		log.Printf("SSH handshake failed from %s: %v", remoteAddr, err)
		conn.Close()
		return
	}
	defer sshConn.Close()
	_ = conn.SetDeadline(time.Time{})

	log.Printf("SSH connection from %s (user: %s)", remoteAddr, sshConn.User())

	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			newChannel.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		channel, requests, err := newChannel.Accept()
		if err != nil {
			log.Printf("SSH channel accept error: %v", err)
			continue
		}

		width, height := 80, 24
		termType := "xterm"

		go func() {
			for req := range requests {
				switch req.Type {
				case "pty-req":
					if len(req.Payload) >= 4 {
						termLen := int(req.Payload[3])
						if len(req.Payload) >= 4+termLen+8 {
							termType = string(req.Payload[4 : 4+termLen])
							off := 4 + termLen
							width = int(req.Payload[off])<<24 | int(req.Payload[off+1])<<16 |
								int(req.Payload[off+2])<<8 | int(req.Payload[off+3])
							height = int(req.Payload[off+4])<<24 | int(req.Payload[off+5])<<16 |
								int(req.Payload[off+6])<<8 | int(req.Payload[off+7])
						}
					}
					if req.WantReply {
						req.Reply(true, nil)
					}
				case "shell":
					if req.WantReply {
						req.Reply(true, nil)
					}
					sc := NewSSHConn(channel, width, height, termType)
					l.handler(sc, remoteAddr)
					channel.Close()
					return
				case "window-change":
					if len(req.Payload) >= 8 {
						width = int(req.Payload[0])<<24 | int(req.Payload[1])<<16 |
							int(req.Payload[2])<<8 | int(req.Payload[3])
						height = int(req.Payload[4])<<24 | int(req.Payload[5])<<16 |
							int(req.Payload[6])<<8 | int(req.Payload[7])
					}
				default:
					if req.WantReply {
						req.Reply(false, nil)
					}
				}
			}
		}()
	}
}

var _ io.ReadWriteCloser = (*SSHConn)(nil)
