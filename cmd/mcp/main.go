package main

import (
	"fmt"
	"os"

	"github.com/elC0mpa/costdrill/cmd/mcp/tools"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	cfg := LoadConfig()

	s := server.NewMCPServer(
		"costdrill-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	tools.RegisterCostTools(s, cfg.Region, cfg.Profile)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
