// Package critique implements the presentation review tool over the rubric
// engine.
package critique

import (
	engine "github.com/slidesmith/slidesmith-mcp/internal/critique"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// GetTools returns the critique family.
func GetTools(sessions *session.Registry, eng *engine.Engine) []tools.Tool {
	return []tools.Tool{
		NewCritiqueTool(sessions, eng),
	}
}
