// Package slides implements slide-level structure tools: adding and removing
// slides, backgrounds, and named layout templates.
package slides

import (
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// GetTools returns the slide structure family.
func GetTools(sessions *session.Registry) []tools.Tool {
	return []tools.Tool{
		NewAddTool(sessions),
		NewDeleteTool(sessions),
		NewBackgroundTool(sessions),
		NewLayoutTemplateTool(sessions),
	}
}
