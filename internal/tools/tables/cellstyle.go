package tables

import (
	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/args"
)

// cellStyle is the styling block shared by the cell and range tools and the
// header/data styles of create_table_with_data.
type cellStyle struct {
	args.Font
	Alignment string      `json:"alignment"`
	Fill      interface{} `json:"fill"`
}

func (c *cellStyle) empty() bool {
	return c == nil || (c.Font.Empty() && c.Alignment == "" && c.Fill == nil)
}

// parts resolves the block into the pieces the deck layer takes.
func (c *cellStyle) parts() (*deck.FontPatch, string, *deck.RGB, error) {
	if c == nil {
		return nil, "", nil, nil
	}
	patch, err := c.Font.Patch()
	if err != nil {
		return nil, "", nil, err
	}
	alignment, err := deck.ParseAlignment(c.Alignment)
	if err != nil {
		return nil, "", nil, err
	}
	var fill *deck.RGB
	if c.Fill != nil {
		if fill, err = deck.ParseColor(c.Fill); err != nil {
			return nil, "", nil, err
		}
	}
	return patch, alignment, fill, nil
}

// patch resolves the block into the convenience-builder form.
func (c *cellStyle) patch() (*deck.CellStylePatch, error) {
	if c.empty() {
		return nil, nil
	}
	font, alignment, fill, err := c.parts()
	if err != nil {
		return nil, err
	}
	return &deck.CellStylePatch{Font: font, Alignment: alignment, Fill: fill}, nil
}

// cellStyleSchema is the JSON schema fragment for a cellStyle block.
const cellStyleSchema = `{
				"type": "object",
				"properties": {
					"font_name": {"type": "string"},
					"font_size": {"type": "number"},
					"bold":      {"type": "boolean"},
					"italic":    {"type": "boolean"},
					"underline": {"type": "boolean"},
					"color":     {"description": "Text color as \"#RRGGBB\" or [r, g, b]"},
					"alignment": {"type": "string", "description": "left, center, right, or justify"},
					"fill":      {"description": "Cell background as \"#RRGGBB\" or [r, g, b]"}
				}
			}`
