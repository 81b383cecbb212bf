// Package style implements the style analysis tools: deck analysis, style
// profile creation, and profile persistence in sqlite.
package style

import (
	"github.com/slidesmith/slidesmith-mcp/internal/logger"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

var log = logger.ForComponent("tools.style")

// GetTools returns the style family. store may be nil; persistence tools
// then report an invalid-state error instead of failing at startup.
func GetTools(profiles *Profiles, store *ProfileStore) []tools.Tool {
	return []tools.Tool{
		NewAnalyzeTool(),
		NewCreateProfileTool(profiles),
		NewSaveProfileTool(profiles, store),
		NewLoadProfileTool(profiles, store),
		NewListProfilesTool(profiles, store),
	}
}
