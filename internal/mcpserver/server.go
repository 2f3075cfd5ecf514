// Package mcpserver exposes OKR progress to MCP clients over stdio.
package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/alexanderramin/okra/internal/service"
)

const instructions = `okra tracks objectives, key results and check-ins.
Use okr_dashboard for the current progress tree, okr_list_objectives to find
short IDs, okr_preview_progress to try values without saving, and
okr_check_in to record a new key result value.`

// New registers every okra tool on a fresh MCP server.
func New(set *service.Set, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"okra",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	dashboard := NewDashboardTool(set.Dashboard)
	s.AddTool(dashboard.Definition(), dashboard.Handle)

	objectives := NewListObjectivesTool(set.Objectives)
	s.AddTool(objectives.Definition(), objectives.Handle)

	preview := NewPreviewTool(set.Preview)
	s.AddTool(preview.Definition(), preview.Handle)

	checkIn := NewCheckInTool(set.KeyResults)
	s.AddTool(checkIn.Definition(), checkIn.Handle)

	return s
}

// ServeStdio blocks serving s on stdin/stdout until the process is
// signalled. Transport errors go to logger.
func ServeStdio(s *server.MCPServer, logger *slog.Logger) error {
	if logger == nil {
		return server.ServeStdio(s)
	}
	return server.ServeStdio(s, server.WithErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)))
}
