package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"hackterm/internal/auth"
	"hackterm/internal/banner"
	"hackterm/internal/challenge"
	"hackterm/internal/command"
	"hackterm/internal/config"
	"hackterm/internal/db"
	"hackterm/internal/egg"
	"hackterm/internal/game"
	"hackterm/internal/guestbook"
	"hackterm/internal/mockfs"
	"hackterm/internal/netsim"
	"hackterm/internal/node"
	"hackterm/internal/scripting"
	"hackterm/internal/server"
	"hackterm/internal/shell"
	"hackterm/internal/storage"
	"hackterm/internal/terminal"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	local := flag.Bool("local", false, "run a single session on stdin/stdout instead of serving")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting %s (operator: %s)", cfg.Site.Name, cfg.Site.Owner)

	if err := os.MkdirAll(cfg.Paths.Data, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	database, err := db.Open(cfg.Paths.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()
	log.Printf("Database opened: %s", cfg.Paths.Database)

	users := auth.NewRepo(database.DB)
	if err := users.Seed(seedAccounts(cfg)); err != nil {
		log.Fatalf("Failed to seed accounts: %v", err)
	}

	catalog, err := challenge.LoadDir(cfg.Paths.Challenges)
	if err != nil {
		log.Fatalf("Failed to load challenges: %v", err)
	}
	log.Printf("Loaded %d challenges", catalog.Len())

	deps := node.Deps{
		Users:      users,
		Attempts:   auth.NewAttemptTracker(),
		Catalog:    catalog,
		Guestbook:  guestbook.NewRepo(database.DB),
		Banners:    banner.NewLoader(cfg.Paths.Banners),
		Net:        netsim.New(),
		ScriptDir:  cfg.Paths.Scripts,
		SiteName:   cfg.Site.Name,
		SiteOwner:  cfg.Site.Owner,
		HintBudget: cfg.Game.HintsAvailable,
	}

	if *local {
		runLocal(cfg, database, deps)
		return
	}

	nodeMgr := node.NewManager(cfg.Site.MaxNodes)

	handleConnection := func(term *terminal.Terminal, remoteAddr string) {
		nodeID, ok := nodeMgr.Acquire()
		if !ok {
			term.SendLn("All terminals are busy. Try again in a minute.")
			term.Close()
			return
		}
		n := node.NewNode(nodeID, term, remoteAddr)
		nodeMgr.Add(n)
		n.Run(nodeMgr, deps)
	}

	telnetListener := server.NewListener(cfg.Server.TelnetPort, func(tc *server.TelnetConn) {
		if err := tc.Negotiate(); err != nil {
			log.Printf("Telnet negotiation error from %s: %v", tc.RemoteAddr(), err)
			tc.Close()
			return
		}
		term := terminal.New(tc, tc.Width, tc.Height, tc.ANSICapable)
		term.SetEchoControl(tc.SetEcho)
		handleConnection(term, tc.RemoteAddr().String())
	})
	go func() {
		if err := telnetListener.ListenAndServe(); err != nil {
			log.Fatalf("Telnet server error: %v", err)
		}
	}()

	hostKeyPath := filepath.Join(cfg.Paths.Data, "ssh_host_key")
	sshListener, err := server.NewSSHListener(cfg.Server.SSHPort, hostKeyPath, func(sc *server.SSHConn, remoteAddr string) {
		term := terminal.New(sc, sc.Width, sc.Height, sc.ANSICapable)
		handleConnection(term, remoteAddr)
	})
	if err != nil {
		log.Fatalf("Failed to create SSH listener: %v", err)
	}
	go func() {
		if err := sshListener.ListenAndServe(); err != nil {
			log.Fatalf("SSH server error: %v", err)
		}
	}()

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	healthServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HealthPort),
		Handler:           healthMux,
		ReadHeaderTimeout: 2 * time.Second,
	}
	go func() {
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Health server error: %v", err)
		}
	}()

	fmt.Printf("\n%s is running\n", cfg.Site.Name)
	fmt.Printf("  Telnet: port %d\n", cfg.Server.TelnetPort)
	fmt.Printf("  SSH:    port %d\n", cfg.Server.SSHPort)
	fmt.Printf("  Health: port %d\n", cfg.Server.HealthPort)
	fmt.Printf("  Nodes:  0/%d\n", cfg.Site.MaxNodes)
	fmt.Println("\nPress Ctrl+C to shut down.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Printf("Received signal %v, shutting down...", sig)
	nodeMgr.Broadcast("system", "Shutting down NOW. Your progress was imaginary anyway.")
	for _, n := range nodeMgr.List() {
		n.Disconnect()
	}
	log.Printf("%s shut down complete.", cfg.Site.Name)
}

// loadConfig reads the config file, falling back to built-in defaults
// when no file exists.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("No config at %s; using defaults", path)
		return config.Default(), nil
	}
	return config.Load(path)
}

// seedAccounts builds the fictional account roster. One of these never
// shows up in the listings; the ghost_user challenge is about finding
// it.
func seedAccounts(cfg *config.Config) []auth.SeedAccount {
	return []auth.SeedAccount{
		{Username: "user", Secret: cfg.Seed.UserSecret, Role: auth.RoleUser},
		{Username: "admin", Secret: cfg.Seed.AdminSecret, Role: auth.RoleAdmin},
		{Username: "root", Secret: cfg.Seed.RootSecret, Role: auth.RoleRoot},
		{Username: "morpheus", Secret: cfg.Seed.MasterSecret, Role: auth.RoleMaster},
		{Username: "flaghunter", Secret: cfg.Seed.CTFSecret, Role: auth.RoleCTF},
	}
}

// stdio adapts the process's own stdin/stdout into the connection
// interface the terminal layer expects.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return nil }

// runLocal runs a single persistent session on the controlling
// terminal. Unlike remote nodes, local state survives restarts via the
// database's key-value store.
func runLocal(cfg *config.Config, database *db.DB, deps node.Deps) {
	persist := storage.NewSQLite(database.DB)
	sessions := auth.NewStore(deps.Users, persist, deps.Attempts)
	gameStore := game.NewStore(deps.Catalog, persist, deps.HintBudget)

	registry := command.Defaults()
	scripts := scripting.Load(deps.ScriptDir)
	scripting.Register(registry, scripts)
	defer func() {
		for _, s := range scripts {
			s.Close()
		}
	}()

	term := terminal.New(stdio{}, 80, 24, true)
	ctx := &command.Context{
		Dir:       mockfs.HomeDir,
		FS:        mockfs.Default(),
		Auth:      sessions,
		Users:     deps.Users,
		Game:      gameStore,
		Net:       deps.Net,
		Guestbook: deps.Guestbook,
		Tracker:   command.NewTracker(),
		SiteName:  cfg.Site.Name,
		SiteOwner: cfg.Site.Owner,
	}

	engine := shell.New(shell.Options{
		Term:       term,
		Dispatcher: command.NewDispatcher(registry, egg.Default()),
		Ctx:        ctx,
		Banners:    deps.Banners,
		SiteName:   cfg.Site.Name,
		SiteOwner:  cfg.Site.Owner,
	})
	engine.Run()
}
