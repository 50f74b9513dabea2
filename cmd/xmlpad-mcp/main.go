package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "xmlpad/internal/adapters/mcp"
	"xmlpad/internal/bootstrap"
	"xmlpad/internal/config"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	rootFlag := flag.String("root", "", "directory documents are resolved against (overrides the config)")
	flag.Parse()

	if err := run(*configFlag, *rootFlag, serveStdio); err != nil {
		fmt.Fprintf(os.Stderr, "xmlpad-mcp: %v\n", err)
		os.Exit(1)
	}
}

func serveStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// run wires the server and hands it to serve; the environment is closed whatever
// serve returns
func run(configPath, root string, serve func(*server.MCPServer) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if root != "" {
		cfg.Editor.Root = root
	}

	// stdout carries the protocol
	env, err := bootstrap.New(cfg, bootstrap.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}
	defer env.Close()

	ws := mcpadapter.NewWorkspace(
		env.OpenSession,
		mcpadapter.WorkspaceOptions{
			List:     env.Store.List,
			History:  env.History,
			Autosave: cfg.MCP.Autosave,
			Logger:   env.Logger,
		},
	)
	if err := serve(newServer(ws)); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func newServer(ws *mcpadapter.Workspace) *server.MCPServer {
	mcpServer := server.NewMCPServer(
		"xmlpad-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, ws)
	mcpadapter.RegisterWriteTools(mcpServer, ws)
	return mcpServer
}
