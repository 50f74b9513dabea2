package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"xmlpad/internal/application"
	"xmlpad/internal/application/commands"
	"xmlpad/internal/application/session"
	"xmlpad/internal/domain"
)

// RegisterWriteTools adds all editing tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, ws *Workspace) {
	s.AddTools(writeTools(ws)...)
}

func writeTools(ws *Workspace) []server.ServerTool {
	return []server.ServerTool{
		{Tool: insertTool(), Handler: insertHandler(ws)},
		{Tool: deleteTool(), Handler: deleteHandler(ws)},
		{Tool: moveTool(), Handler: moveHandler(ws)},
		{Tool: duplicateTool(), Handler: duplicateHandler(ws)},
		{Tool: nudgeTool(), Handler: nudgeHandler(ws)},
		{Tool: renameTool(), Handler: renameHandler(ws)},
		{Tool: retypeTool(), Handler: retypeHandler(ws)},
		{Tool: setValueTool(), Handler: setValueHandler(ws)},
		{Tool: cutTool(), Handler: cutHandler(ws)},
		{Tool: copyTool(), Handler: copyHandler(ws)},
		{Tool: pasteTool(), Handler: pasteHandler(ws)},
		{Tool: undoTool(), Handler: undoHandler(ws)},
		{Tool: redoTool(), Handler: redoHandler(ws)},
		{Tool: saveTool(), Handler: saveHandler(ws)},
		{Tool: reloadTool(), Handler: reloadHandler(ws)},
	}
}

func positionArg() mcp.ToolOption {
	return mcp.WithString("position",
		mcp.Description("Where the node goes relative to the target: child (default), before or after"),
		mcp.Enum("child", "before", "after"),
	)
}

// edit wraps a session edit as a tool handler
func edit(ws *Workspace, fn func(s *session.Session, req mcp.CallToolRequest) (string, error)) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		msg, err := ws.Edit(req.GetString("file", ""), func(s *session.Session) (string, error) {
			return fn(s, req)
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(msg), nil
	}
}

func position(req mcp.CallToolRequest) (commands.Position, error) {
	return commands.ParsePosition(req.GetString("position", "child"))
}

// --- insert ---

func insertTool() mcp.Tool {
	return mcp.NewTool("insert",
		mcp.WithDescription("Insert a new node. Elements, attributes and processing instructions need a name."),
		fileArg(),
		pathArg("target", "Path of the node to insert relative to. Omit for the document root.", false),
		positionArg(),
		mcp.WithString("type",
			mcp.Description("Node type"),
			mcp.Enum("element", "attribute", "text", "cdata", "comment", "pi"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Qualified name, or target of a processing instruction"),
		),
		mcp.WithString("value",
			mcp.Description("Optional initial value"),
		),
	)
}

func insertHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, req mcp.CallToolRequest) (string, error) {
		kind, err := application.ValidateNodeType("nodeType", req.GetString("type", ""))
		if err != nil {
			return "", err
		}
		pos, err := position(req)
		if err != nil {
			return "", err
		}
		v, err := s.Insert(req.GetString("target", ""), pos, kind, req.GetString("name", ""))
		if err != nil {
			return "", err
		}
		path := s.PathOf(v)
		msg := fmt.Sprintf("Inserted %s at %s", v.Text(), path)
		if value := req.GetString("value", ""); value != "" {
			if err := s.SetValue(path, value); err != nil {
				return "", err
			}
		}
		return msg, nil
	})
}

// --- delete ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription("Delete a node and everything below it."),
		fileArg(),
		pathArg("path", "Path of the node to delete", true),
	)
}

func deleteHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, req mcp.CallToolRequest) (string, error) {
		path := req.GetString("path", "")
		v, err := s.Resolve(path)
		if err != nil {
			return "", err
		}
		if v == nil {
			return "", application.ErrNoSelection
		}
		text := v.Text()
		if err := s.Delete(path); err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted %s", text), nil
	})
}

// --- move ---

func moveTool() mcp.Tool {
	return mcp.NewTool("move",
		mcp.WithDescription("Move a node, or a copy of it, relative to another node."),
		fileArg(),
		pathArg("source", "Path of the node to move", true),
		pathArg("target", "Path of the node to move relative to. Omit for the document root.", false),
		positionArg(),
		mcp.WithBoolean("copy",
			mcp.Description("Place a copy and keep the original"),
		),
	)
}

func moveHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, req mcp.CallToolRequest) (string, error) {
		pos, err := position(req)
		if err != nil {
			return "", err
		}
		v, err := s.Move(req.GetString("source", ""), req.GetString("target", ""), pos, req.GetBool("copy", false))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved %s to %s", v.Text(), s.PathOf(v)), nil
	})
}

// --- duplicate ---

func duplicateTool() mcp.Tool {
	return mcp.NewTool("duplicate",
		mcp.WithDescription("Insert a copy of a node right after it. Duplicated attributes get a unique name."),
		fileArg(),
		pathArg("path", "Path of the node to duplicate", true),
	)
}

func duplicateHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, req mcp.CallToolRequest) (string, error) {
		v, err := s.Duplicate(req.GetString("path", ""))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Duplicated as %s at %s", v.Text(), s.PathOf(v)), nil
	})
}

// --- nudge ---

func nudgeTool() mcp.Tool {
	return mcp.NewTool("nudge",
		mcp.WithDescription("Move a node one step: up or down among its siblings, left out of its parent, right into the preceding element."),
		fileArg(),
		pathArg("path", "Path of the node to nudge", true),
		mcp.WithString("direction",
			mcp.Enum("up", "down", "left", "right"),
			mcp.Required(),
		),
	)
}

func nudgeHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, req mcp.CallToolRequest) (string, error) {
		dir, err := commands.ParseNudgeDirection(req.GetString("direction", ""))
		if err != nil {
			return "", err
		}
		if err := s.Nudge(req.GetString("path", ""), dir); err != nil {
			return "", err
		}
		v, path := s.Selected()
		return fmt.Sprintf("Nudged %s %s to %s", v.Text(), dir, path), nil
	})
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Rename an element, attribute or processing instruction."),
		fileArg(),
		pathArg("path", "Path of the node to rename", true),
		mcp.WithString("name",
			mcp.Description("New qualified name"),
			mcp.Required(),
		),
	)
}

func renameHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, req mcp.CallToolRequest) (string, error) {
		path, name := req.GetString("path", ""), req.GetString("name", "")
		if err := s.Rename(path, name); err != nil {
			return "", err
		}
		return fmt.Sprintf("Renamed %s to %s", path, name), nil
	})
}

// --- retype ---

func retypeTool() mcp.Tool {
	return mcp.NewTool("retype",
		mcp.WithDescription("Convert a node to another type, keeping its content where possible."),
		fileArg(),
		pathArg("path", "Path of the node to convert", true),
		mcp.WithString("type",
			mcp.Enum("element", "attribute", "text", "cdata", "comment", "pi"),
			mcp.Required(),
		),
	)
}

func retypeHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, req mcp.CallToolRequest) (string, error) {
		kind, err := application.ValidateNodeType("nodeType", req.GetString("type", ""))
		if err != nil {
			return "", err
		}
		v, err := s.Retype(req.GetString("path", ""), kind)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Converted to %s at %s", v.Text(), s.PathOf(v)), nil
	})
}

// --- set_value ---

func setValueTool() mcp.Tool {
	return mcp.NewTool("set_value",
		mcp.WithDescription("Set the value of an attribute, text, comment, CDATA or processing instruction, or the text of an element without child elements."),
		fileArg(),
		pathArg("path", "Path of the node", true),
		mcp.WithString("value",
			mcp.Description("New value"),
			mcp.Required(),
		),
	)
}

func setValueHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, req mcp.CallToolRequest) (string, error) {
		path := req.GetString("path", "")
		if err := s.SetValue(path, req.GetString("value", "")); err != nil {
			return "", err
		}
		return fmt.Sprintf("Updated %s", path), nil
	})
}

// --- cut / copy / paste ---

func cutTool() mcp.Tool {
	return mcp.NewTool("cut",
		mcp.WithDescription("Move a node to the clipboard."),
		fileArg(),
		pathArg("path", "Path of the node to cut", true),
	)
}

func cutHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, req mcp.CallToolRequest) (string, error) {
		data, err := s.Cut(req.GetString("path", ""))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Cut %s", oneLine(data.XML, 60)), nil
	})
}

func copyTool() mcp.Tool {
	return mcp.NewTool("copy",
		mcp.WithDescription("Place a copy of a node on the clipboard."),
		fileArg(),
		pathArg("path", "Path of the node to copy", true),
	)
}

func copyHandler(ws *Workspace) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := ws.Read(req.GetString("file", ""), func(s *session.Session) (string, error) {
			data, err := s.Copy(req.GetString("path", ""))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Copied %s", oneLine(data.XML, 60)), nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(out), nil
	}
}

func pasteTool() mcp.Tool {
	return mcp.NewTool("paste",
		mcp.WithDescription("Insert the clipboard, or a clipboard history entry, relative to a node. Anything pasted onto a non-element goes after it."),
		fileArg(),
		pathArg("target", "Path of the node to paste relative to. Omit for the selection.", false),
		positionArg(),
		mcp.WithString("entry_id",
			mcp.Description("Clipboard history entry ID or a prefix of at least 4 characters"),
		),
	)
}

func pasteHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, req mcp.CallToolRequest) (string, error) {
		pos, err := position(req)
		if err != nil {
			return "", err
		}
		target := req.GetString("target", "")
		var v *domain.ViewNode
		if id := req.GetString("entry_id", ""); id != "" {
			v, err = s.PasteEntry(id, target, pos)
		} else {
			v, err = s.Paste(target, pos)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Pasted %s at %s", v.Text(), s.PathOf(v)), nil
	})
}

// --- undo / redo ---

func undoTool() mcp.Tool {
	return mcp.NewTool("undo",
		mcp.WithDescription("Undo the last edit of a document made in this server session."),
		fileArg(),
	)
}

func undoHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, _ mcp.CallToolRequest) (string, error) {
		name, err := s.Undo()
		if err != nil {
			return "", err
		}
		return "Undid " + name, nil
	})
}

func redoTool() mcp.Tool {
	return mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone edit of a document."),
		fileArg(),
	)
}

func redoHandler(ws *Workspace) server.ToolHandlerFunc {
	return edit(ws, func(s *session.Session, _ mcp.CallToolRequest) (string, error) {
		name, err := s.Redo()
		if err != nil {
			return "", err
		}
		return "Redid " + name, nil
	})
}

// --- save / reload ---

func saveTool() mcp.Tool {
	return mcp.NewTool("save",
		mcp.WithDescription("Write a document to disk."),
		fileArg(),
	)
}

func saveHandler(ws *Workspace) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		file := req.GetString("file", "")
		out, err := ws.Read(file, func(s *session.Session) (string, error) {
			if err := s.Save(); err != nil {
				return "", err
			}
			return "Saved " + file, nil
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(out), nil
	}
}

func reloadTool() mcp.Tool {
	return mcp.NewTool("reload",
		mcp.WithDescription("Discard unsaved edits and the undo history, and read the document from disk again."),
		fileArg(),
	)
}

func reloadHandler(ws *Workspace) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		file := req.GetString("file", "")
		if ws.Close(file) {
			return mcp.NewToolResultText("Reloaded " + file), nil
		}
		return mcp.NewToolResultText(file + " was not open"), nil
	}
}
