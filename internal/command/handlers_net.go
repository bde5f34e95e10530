package command

import (
	"strings"
	"time"
)

// RegisterNet adds the fake reconnaissance commands.
func RegisterNet(reg *Registry) {
	reg.MustRegister(&Command{
		Name:        "scan",
		Aliases:     []string{"nmap"},
		Description: "Port-scan the mainframe (simulated)",
		Usage:       "scan [target]",
		Cooldown:    10 * time.Second,
		Handler: func(args []string, ctx *Context) Result {
			return Successf(ctx.Net.PortScan(firstArg(args)))
		},
	})
	reg.MustRegister(&Command{
		Name:        "nslookup",
		Aliases:     []string{"dig"},
		Description: "Resolve a hostname (simulated)",
		Usage:       "nslookup [host]",
		Handler: func(args []string, ctx *Context) Result {
			return Successf(ctx.Net.Lookup(firstArg(args)))
		},
	})
	reg.MustRegister(&Command{
		Name:        "traceroute",
		Aliases:     []string{"tracert"},
		Description: "Trace the route to a host (simulated)",
		Usage:       "traceroute [host]",
		Handler: func(args []string, ctx *Context) Result {
			return Successf(ctx.Net.Traceroute(firstArg(args)))
		},
	})
	reg.MustRegister(&Command{
		Name:        "iplookup",
		Aliases:     []string{"myip"},
		Description: "Show your public IP",
		Handler: func(args []string, ctx *Context) Result {
			return Successf(ctx.Net.PublicIP())
		},
	})
}

func firstArg(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}
