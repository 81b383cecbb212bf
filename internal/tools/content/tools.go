// Package content implements the per-slide content tools: text boxes, text
// formatting, images, charts, and the professional shape library.
package content

import (
	"github.com/slidesmith/slidesmith-mcp/internal/logger"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

var log = logger.ForComponent("tools.content")

// GetTools returns the content family. fetcher serves add_image URL sources
// and may be nil to disable remote fetches.
func GetTools(sessions *session.Registry, fetcher *Fetcher) []tools.Tool {
	return []tools.Tool{
		NewTextBoxTool(sessions),
		NewFormatTextTool(sessions),
		NewImageTool(sessions, fetcher),
		NewChartTool(sessions),
		NewShapeTool(sessions),
		NewShapeLibraryTool(),
		NewListContentTool(sessions),
	}
}
