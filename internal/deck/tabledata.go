package deck

import (
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Default header styling for tables created with a header row.
var (
	headerFill      = MustColor("#4472C4")
	headerTextColor = MustColor("#FFFFFF")
	altRowFill      = MustColor("#D9E2F3")
)

func styleHeaderRow(t *Table) {
	fill := headerFill
	color := headerTextColor
	for c := 0; c < t.ColCount(); c++ {
		cell := t.Grid[0][c]
		cell.Fill = &fill
		cell.Frame.EachRun(func(r *Run) {
			if r.Font == nil {
				r.Font = &Font{}
			}
			r.Font.Bold = true
			r.Font.Color = &color
		})
	}
}

// CellStylePatch bundles the optional per-cell styling arguments of the
// table convenience builder.
type CellStylePatch struct {
	Font      *FontPatch
	Alignment string
	Fill      *RGB
}

// NewTableWithData sizes a table to the data, fills it, and applies the
// optional header and data styles. Row lengths must be uniform; a headers
// list must match the row width.
func NewTableWithData(data [][]string, headers []string, headerStyle, dataStyle *CellStylePatch, alternating bool) (*Table, error) {
	if len(data) == 0 && len(headers) == 0 {
		return nil, tools.NewBadArgument("create_table_with_data requires data rows or headers")
	}

	width := 0
	if len(headers) > 0 {
		width = len(headers)
	} else {
		width = len(data[0])
	}
	if width == 0 {
		return nil, tools.NewBadArgument("table rows must have at least one column")
	}

	for i, row := range data {
		if len(row) != width {
			return nil, tools.NewShapeMismatch(
				"row %d has %d cells but the table is %d columns wide", i, len(row), width)
		}
	}

	rows := len(data)
	headerOffset := 0
	if len(headers) > 0 {
		rows++
		headerOffset = 1
	}

	table, err := NewTable(rows, width)
	if err != nil {
		return nil, err
	}
	table.HeaderRow = headerOffset == 1

	if headerOffset == 1 {
		for c, text := range headers {
			table.Grid[0][c].Frame.SetText(text)
		}
		styleHeaderRow(table)
		if headerStyle != nil {
			if err := table.StyleRange(0, 0, 0, width-1, headerStyle.Font, headerStyle.Alignment, headerStyle.Fill); err != nil {
				return nil, err
			}
		}
	}

	for r, row := range data {
		for c, text := range row {
			table.Grid[r+headerOffset][c].Frame.SetText(text)
		}
	}

	if dataStyle != nil && len(data) > 0 {
		if err := table.StyleRange(headerOffset, 0, rows-1, width-1, dataStyle.Font, dataStyle.Alignment, dataStyle.Fill); err != nil {
			return nil, err
		}
	}

	if alternating {
		fill := altRowFill
		for r := 0; r < len(data); r++ {
			if r%2 == 1 {
				for c := 0; c < width; c++ {
					f := fill
					table.Grid[r+headerOffset][c].Fill = &f
				}
			}
		}
	}

	return table, nil
}
