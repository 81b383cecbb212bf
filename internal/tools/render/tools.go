// Package render implements the slide screenshot tool over the LibreOffice
// render bridge.
package render

import (
	bridge "github.com/slidesmith/slidesmith-mcp/internal/render"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// GetTools returns the render family.
func GetTools(sessions *session.Registry, renderer *bridge.Renderer, safeDir string) []tools.Tool {
	return []tools.Tool{
		NewScreenshotTool(sessions, renderer, safeDir),
	}
}
