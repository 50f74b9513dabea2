package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"xmlpad/internal/application/session"
)

// RegisterReadTools adds all read-only document tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, ws *Workspace) {
	s.AddTools(readTools(ws)...)
}

func readTools(ws *Workspace) []server.ServerTool {
	return []server.ServerTool{
		{Tool: listTool(), Handler: listHandler(ws)},
		{Tool: treeTool(), Handler: treeHandler(ws)},
		{Tool: nodeTool(), Handler: nodeHandler(ws)},
		{Tool: renderTool(), Handler: renderHandler(ws)},
		{Tool: historyTool(), Handler: historyHandler(ws)},
	}
}

func fileArg() mcp.ToolOption {
	return mcp.WithString("file",
		mcp.Description("Path of the XML document, relative to the workspace root"),
		mcp.Required(),
	)
}

func pathArg(name, desc string, required bool) mcp.ToolOption {
	opts := []mcp.PropertyOption{mcp.Description(desc)}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithString(name, opts...)
}

// --- list_documents ---

func listTool() mcp.Tool {
	return mcp.NewTool("list_documents",
		mcp.WithDescription("List the XML documents in the workspace."),
		mcp.WithString("dir",
			mcp.Description("Directory to list, relative to the workspace root. Omit for the root."),
		),
	)
}

func listHandler(ws *Workspace) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ws.list == nil {
			return toolError(fmt.Errorf("listing documents is not supported"))
		}
		files, err := ws.list(req.GetString("dir", "."))
		if err != nil {
			return toolError(err)
		}
		if len(files) == 0 {
			return mcp.NewToolResultText("No documents."), nil
		}
		return mcp.NewToolResultText(strings.Join(files, "\n") + "\n"), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Show every node of a document with its path. Paths are child indexes separated by slashes; attributes come before child nodes."),
		fileArg(),
	)
}

func treeHandler(ws *Workspace) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := ws.Read(req.GetString("file", ""), func(s *session.Session) (string, error) {
			var sb strings.Builder
			if err := s.WriteOutline(&sb); err != nil {
				return "", err
			}
			if sb.Len() == 0 {
				return "Empty document.", nil
			}
			return sb.String(), nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(out), nil
	}
}

// --- get_node ---

func nodeTool() mcp.Tool {
	return mcp.NewTool("get_node",
		mcp.WithDescription("Return the markup of one node."),
		fileArg(),
		pathArg("path", "Node path, e.g. /0/2", true),
	)
}

func nodeHandler(ws *Workspace) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := ws.Read(req.GetString("file", ""), func(s *session.Session) (string, error) {
			v, err := s.Resolve(req.GetString("path", ""))
			if err != nil {
				return "", err
			}
			if v == nil || v.Node() == nil {
				return "", fmt.Errorf("path does not name a node")
			}
			return fmt.Sprintf("%s %s\n%s", v.Kind(), s.PathOf(v), v.Node().OuterXMLStandalone()), nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(out), nil
	}
}

// --- render ---

func renderTool() mcp.Tool {
	return mcp.NewTool("render",
		mcp.WithDescription("Return the document markup, including unsaved edits."),
		fileArg(),
	)
}

func renderHandler(ws *Workspace) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := ws.Read(req.GetString("file", ""), func(s *session.Session) (string, error) {
			var sb strings.Builder
			err := s.Render(&sb)
			return sb.String(), err
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(out), nil
	}
}

// --- clipboard_history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("clipboard_history",
		mcp.WithDescription("List recent clipboard entries. Their IDs can be passed to paste."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries (default 20)"),
		),
	)
}

func historyHandler(ws *Workspace) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ws.history == nil {
			return toolError(fmt.Errorf("clipboard history is not configured"))
		}
		entries, err := ws.history.List(req.GetInt("limit", 20))
		if err != nil {
			return toolError(err)
		}
		if len(entries) == 0 {
			return mcp.NewToolResultText("Clipboard history is empty."), nil
		}
		var sb strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&sb, "%s  %-9s %s\n", shortID(e.ID), e.NodeType, oneLine(e.XML, 60))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) > max {
		return string([]rune(s)[:max-1]) + "…"
	}
	return s
}
