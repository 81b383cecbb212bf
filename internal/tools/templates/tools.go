// Package templates implements the template tools: registration, data-driven
// deck generation, content updates, and bulk generation.
package templates

import (
	"github.com/slidesmith/slidesmith-mcp/internal/logger"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/templating"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

var log = logger.ForComponent("tools.templates")

// GetTools returns the template family. Bulk auto-saves land under safeDir
// when the requested directory is not writable by policy.
func GetTools(sessions *session.Registry, store *templating.Store, safeDir string) []tools.Tool {
	return []tools.Tool{
		NewCreateTool(store),
		NewApplyTool(sessions, store),
		NewListTool(store),
		NewUpdateContentTool(sessions),
		NewBulkTool(sessions, store, safeDir),
	}
}
