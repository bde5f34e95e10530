// Package netsim fabricates network reconnaissance output for the
// scan/lookup commands. Results are deterministic for a given RNG and
// entirely fictional; the only real network access is the optional
// public-IP lookup, which callers stub in tests.
package netsim

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// Sim produces fabricated scan and lookup results. Sleep and RandIntn
// are injectable so tests run instantly and deterministically.
type Sim struct {
	Sleep    func(d time.Duration)
	RandIntn func(n int) int
	Client   *http.Client
}

// New returns a Sim with real sleeping and randomness.
func New() *Sim {
	return &Sim{
		Sleep:    time.Sleep,
		RandIntn: rand.Intn,
		Client:   &http.Client{Timeout: 4 * time.Second},
	}
}

type portResult struct {
	port    int
	state   string
	service string
}

// scanTable is the fixed fictional port map of "the mainframe". Port
// 31337 carries the port_knock challenge flag as its service name.
var scanTable = []portResult{
	{21, "closed", "ftp"},
	{22, "open", "ssh"},
	{23, "open", "telnet"},
	{80, "filtered", "http"},
	{443, "filtered", "https"},
	{1337, "open", "leet"},
	{8080, "closed", "http-alt"},
	{31337, "open", "elite_backdoor"},
}

// PortScan renders a fake scan against the given target, pausing
// between rows for drama.
func (s *Sim) PortScan(target string) string {
	if target == "" {
		target = "mainframe.internal"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Scanning %s (simulated)...\n\n", target)
	fmt.Fprintf(&b, "%-8s %-10s %s\n", "PORT", "STATE", "SERVICE")
	for _, p := range scanTable {
		s.Sleep(time.Duration(60+s.RandIntn(90)) * time.Millisecond)
		fmt.Fprintf(&b, "%-8d %-10s %s\n", p.port, p.state, p.service)
	}
	b.WriteString("\nScan complete. No packets were harmed.")
	return b.String()
}

// Lookup fabricates a DNS answer for host.
func (s *Sim) Lookup(host string) string {
	if host == "" {
		host = "mainframe.internal"
	}
	s.Sleep(time.Duration(120+s.RandIntn(180)) * time.Millisecond)
	addr := s.fakeAddr()
	// The mainframe always resolves to the same address; the
	// dns_detective challenge depends on it.
	if strings.Contains(strings.ToLower(host), "mainframe") {
		addr = "10.13.37.1"
	}
	return fmt.Sprintf("Server:  10.0.0.53\nAddress: 10.0.0.53#53\n\nNon-authoritative answer:\nName:    %s\nAddress: %s", host, addr)
}

// Traceroute fabricates a route of increasingly suspicious hops.
func (s *Sim) Traceroute(host string) string {
	if host == "" {
		host = "mainframe.internal"
	}
	hops := []string{
		"gateway.localdomain",
		"isp-edge-01.example.net",
		"core-router-7.example.net",
		"definitely-not-the-nsa.example.org",
		"darknet-gw",
		host,
	}
	var b strings.Builder
	fmt.Fprintf(&b, "traceroute to %s, 30 hops max\n", host)
	for i, hop := range hops {
		s.Sleep(time.Duration(80+s.RandIntn(120)) * time.Millisecond)
		fmt.Fprintf(&b, "%2d  %s  %d.%03d ms\n", i+1, hop, 1+s.RandIntn(40), s.RandIntn(1000))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Sim) fakeAddr() string {
	return fmt.Sprintf("%d.%d.%d.%d", 10+s.RandIntn(180), s.RandIntn(256), s.RandIntn(256), 1+s.RandIntn(254))
}

// PublicIP asks an external service for the caller's address. Any
// failure degrades to a fabricated one; this command never errors.
func (s *Sim) PublicIP() string {
	if s.Client != nil {
		resp, err := s.Client.Get("https://api.ipify.org")
		if err == nil {
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				body, rerr := io.ReadAll(io.LimitReader(resp.Body, 64))
				if rerr == nil && len(body) > 0 {
					return fmt.Sprintf("Your public IP: %s", strings.TrimSpace(string(body)))
				}
			}
		}
	}
	return fmt.Sprintf("Your public IP: %s (probably)", s.fakeAddr())
}
