package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the hackterm configuration.
type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Server ServerConfig `yaml:"server"`
	Paths  PathsConfig  `yaml:"paths"`
	Game   GameConfig   `yaml:"game"`
	Seed   SeedConfig   `yaml:"seed"`
}

// SiteConfig identifies the portfolio and limits concurrent visitors.
type SiteConfig struct {
	Name     string `yaml:"name"`
	Owner    string `yaml:"owner"`
	MaxNodes int    `yaml:"max_nodes"`
}

// ServerConfig holds network listener settings.
type ServerConfig struct {
	TelnetPort int `yaml:"telnet_port"`
	SSHPort    int `yaml:"ssh_port"`
	HealthPort int `yaml:"health_port"`
}

// PathsConfig holds filesystem paths for assets and data.
type PathsConfig struct {
	Data       string `yaml:"data"`
	Database   string `yaml:"database"`
	Banners    string `yaml:"banners"`
	Scripts    string `yaml:"scripts"`
	Challenges string `yaml:"challenges"`
}

// GameConfig tunes the CTF mini-game.
type GameConfig struct {
	HintsAvailable int `yaml:"hints_available"`
}

// SeedConfig sets the secrets for the seeded simulation accounts.
// These are gameplay props, not protected credentials: the terminal
// itself hints players toward them.
type SeedConfig struct {
	UserSecret   string `yaml:"user_secret"`
	AdminSecret  string `yaml:"admin_secret"`
	RootSecret   string `yaml:"root_secret"`
	MasterSecret string `yaml:"master_secret"`
	CTFSecret    string `yaml:"ctf_secret"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Name:     "hackterm",
			Owner:    "operator",
			MaxNodes: 8,
		},
		Server: ServerConfig{
			TelnetPort: 2323,
			SSHPort:    2222,
			HealthPort: 2223,
		},
		Paths: PathsConfig{
			Data:       "./data",
			Database:   "./data/hackterm.db",
			Banners:    "./assets/banners",
			Scripts:    "./assets/scripts",
			Challenges: "./assets/challenges",
		},
		Game: GameConfig{
			HintsAvailable: 3,
		},
		Seed: SeedConfig{
			UserSecret:   "password",
			AdminSecret:  "hacktheplanet",
			RootSecret:   "toor",
			MasterSecret: "redpill",
			CTFSecret:    "flaghunter",
		},
	}
}

// Load reads and parses a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges on the loaded configuration.
func (c *Config) Validate() error {
	if c.Site.MaxNodes <= 0 {
		return fmt.Errorf("site.max_nodes must be > 0")
	}
	if c.Server.TelnetPort <= 0 || c.Server.TelnetPort > 65535 {
		return fmt.Errorf("invalid telnet_port %d", c.Server.TelnetPort)
	}
	if c.Server.SSHPort <= 0 || c.Server.SSHPort > 65535 {
		return fmt.Errorf("invalid ssh_port %d", c.Server.SSHPort)
	}
	if c.Game.HintsAvailable < 0 {
		return fmt.Errorf("game.hints_available must be >= 0")
	}
	return nil
}
