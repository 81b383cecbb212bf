// Package design implements the deck-wide design tools: layout grids, shape
// distribution, color palettes, typography profiles, and master themes.
package design

import (
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// GetTools returns the design family sharing one Designs registry.
func GetTools(sessions *session.Registry, designs *Designs) []tools.Tool {
	return []tools.Tool{
		NewGridTool(sessions),
		NewSnapTool(sessions),
		NewDistributeTool(sessions),
		NewPaletteTool(designs),
		NewApplyPaletteTool(sessions, designs),
		NewTypographyTool(designs),
		NewApplyTypographyTool(sessions, designs),
		NewThemeTool(designs),
		NewApplyThemeTool(sessions, designs),
		NewListThemesTool(designs),
	}
}
