// Package node tracks connected terminal sessions and enforces the
// connection limit. Each node owns its session state; nodes share the
// user directory, guestbook and failed-login tracker.
package node

import (
	"log"
	"time"

	"hackterm/internal/auth"
	"hackterm/internal/banner"
	"hackterm/internal/challenge"
	"hackterm/internal/command"
	"hackterm/internal/egg"
	"hackterm/internal/game"
	"hackterm/internal/mockfs"
	"hackterm/internal/netsim"
	"hackterm/internal/scripting"
	"hackterm/internal/shell"
	"hackterm/internal/storage"
	"hackterm/internal/terminal"
)

// Deps holds the process-wide services every node shares.
type Deps struct {
	Users    auth.UserSource
	Attempts *auth.AttemptTracker
	Catalog  *challenge.Catalog

	Guestbook command.Guestbook
	Banners   *banner.Loader
	Net       *netsim.Sim

	ScriptDir  string
	SiteName   string
	SiteOwner  string
	HintBudget int
}

// Node is a single connected terminal session.
type Node struct {
	ID        int
	Term      *terminal.Terminal
	ConnectAt time.Time
	Remote    string

	sessions *auth.Store

	done chan struct{}
}

// NewNode creates a node for the given terminal.
func NewNode(id int, term *terminal.Terminal, remoteAddr string) *Node {
	return &Node{
		ID:        id,
		Term:      term,
		ConnectAt: time.Now(),
		Remote:    remoteAddr,
		done:      make(chan struct{}),
	}
}

// Username returns the node's current identity for listings.
func (n *Node) Username() string {
	if n.sessions == nil {
		return "(connecting)"
	}
	if sess := n.sessions.Current(); sess != nil {
		return sess.Username
	}
	return "guest"
}

// Run executes the shell loop for this node. Remote sessions get
// in-memory state: progress lives for the connection, matching a
// browser tab that was never opened before.
func (n *Node) Run(mgr *Manager, deps Deps) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Node %d panic: %v", n.ID, r)
		}
		n.Term.Close()
		mgr.Remove(n.ID)
		log.Printf("Node %d disconnected (%s)", n.ID, n.Remote)
	}()

	log.Printf("Node %d connected from %s", n.ID, n.Remote)

	n.sessions = auth.NewStore(deps.Users, storage.NewMemory(), deps.Attempts)
	gameStore := game.NewStore(deps.Catalog, storage.NewMemory(), deps.HintBudget)

	registry := command.Defaults()
	scripts := scripting.Load(deps.ScriptDir)
	scripting.Register(registry, scripts)
	defer func() {
		for _, s := range scripts {
			s.Close()
		}
	}()

	ctx := &command.Context{
		Dir:       mockfs.HomeDir,
		FS:        mockfs.Default(),
		Auth:      n.sessions,
		Users:     deps.Users,
		Game:      gameStore,
		Net:       deps.Net,
		Guestbook: deps.Guestbook,
		Peers:     mgr,
		Tracker:   command.NewTracker(),
		SiteName:  deps.SiteName,
		SiteOwner: deps.SiteOwner,
	}

	engine := shell.New(shell.Options{
		Term:       n.Term,
		Dispatcher: command.NewDispatcher(registry, egg.Default()),
		Ctx:        ctx,
		Banners:    deps.Banners,
		SiteName:   deps.SiteName,
		SiteOwner:  deps.SiteOwner,
	})
	engine.Run()
}

// Disconnect closes the node connection.
func (n *Node) Disconnect() {
	select {
	case <-n.done:
	default:
		close(n.done)
	}
	n.Term.Close()
}
