// Package tables implements the table tools: creation, cell text, cell and
// range styling, inspection, and structural edits.
package tables

import (
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// GetTools returns the table family.
func GetTools(sessions *session.Registry) []tools.Tool {
	return []tools.Tool{
		NewAddTool(sessions),
		NewSetCellTool(sessions),
		NewStyleCellTool(sessions),
		NewStyleRangeTool(sessions),
		NewInfoTool(sessions),
		NewWithDataTool(sessions),
		NewStructureTool(sessions),
	}
}
