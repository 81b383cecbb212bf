// Package presentation implements the deck lifecycle tools: create, load,
// save, close, plus whole-deck inspection.
package presentation

import (
	"github.com/slidesmith/slidesmith-mcp/internal/logger"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

var log = logger.ForComponent("tools.presentation")

// GetTools returns the lifecycle family bound to the shared session
// registry. Saves outside safeDir are redirected into it.
func GetTools(sessions *session.Registry, safeDir string) []tools.Tool {
	return []tools.Tool{
		NewCreateTool(sessions),
		NewLoadTool(sessions),
		NewSaveTool(sessions, safeDir),
		NewCloseTool(sessions),
		NewInfoTool(sessions),
		NewExtractTextTool(sessions),
	}
}
