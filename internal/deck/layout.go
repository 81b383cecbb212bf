package deck

import (
	"sort"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Layout kinds by index, in the order of the standard slide-layout set.
var layoutNames = []string{
	"Title Slide",
	"Title and Content",
	"Section Header",
	"Two Content",
	"Comparison",
	"Title Only",
	"Blank",
	"Content with Caption",
	"Picture with Caption",
	"Title and Vertical Text",
	"Vertical Title and Text",
}

// LayoutBlank is the index of the blank layout.
const LayoutBlank = 6

// LayoutCount is the number of layout kinds.
func LayoutCount() int {
	return len(layoutNames)
}

// LayoutName returns the display name of a layout kind.
func LayoutName(idx int) string {
	if idx < 0 || idx >= len(layoutNames) {
		return "Unknown"
	}
	return layoutNames[idx]
}

// ValidateLayout checks a layout index.
func ValidateLayout(idx int) error {
	if idx < 0 || idx >= len(layoutNames) {
		return tools.NewIndexOutOfRange("layout index %d out of range [0, %d)", idx, len(layoutNames))
	}
	return nil
}

// LayoutGrid is the design grid stored on a deck by create_layout_grid.
// Margin and Gutter are in EMU.
type LayoutGrid struct {
	Columns int   `json:"columns"`
	Rows    int   `json:"rows"`
	Margin  int64 `json:"margin"`
	Gutter  int64 `json:"gutter"`
}

// NewLayoutGrid validates grid dimensions.
func NewLayoutGrid(columns, rows int, margin, gutter int64) (*LayoutGrid, error) {
	if columns < 1 || rows < 1 {
		return nil, tools.NewBadArgument("grid requires columns >= 1 and rows >= 1, got %dx%d", columns, rows)
	}
	if margin < 0 || gutter < 0 {
		return nil, tools.NewBadArgument("grid margin and gutter must be >= 0")
	}
	return &LayoutGrid{Columns: columns, Rows: rows, Margin: margin, Gutter: gutter}, nil
}

// CellRect computes the frame covering the given cell span on a slide of
// the given dimensions.
func (g *LayoutGrid) CellRect(slideW, slideH int64, col, row, colSpan, rowSpan int) (Frame, error) {
	if colSpan < 1 || rowSpan < 1 {
		return Frame{}, tools.NewBadArgument("column_span and row_span must be >= 1")
	}
	if col < 0 || col+colSpan > g.Columns {
		return Frame{}, tools.NewIndexOutOfRange("columns [%d, %d) out of grid range [0, %d)", col, col+colSpan, g.Columns)
	}
	if row < 0 || row+rowSpan > g.Rows {
		return Frame{}, tools.NewIndexOutOfRange("rows [%d, %d) out of grid range [0, %d)", row, row+rowSpan, g.Rows)
	}

	usableW := slideW - 2*g.Margin - int64(g.Columns-1)*g.Gutter
	usableH := slideH - 2*g.Margin - int64(g.Rows-1)*g.Gutter
	if usableW <= 0 || usableH <= 0 {
		return Frame{}, tools.NewInvalidState("grid margins and gutters exceed the slide size")
	}

	cellW := usableW / int64(g.Columns)
	cellH := usableH / int64(g.Rows)

	return Frame{
		Left:   g.Margin + int64(col)*(cellW+g.Gutter),
		Top:    g.Margin + int64(row)*(cellH+g.Gutter),
		Width:  int64(colSpan)*cellW + int64(colSpan-1)*g.Gutter,
		Height: int64(rowSpan)*cellH + int64(rowSpan-1)*g.Gutter,
	}, nil
}

// SetGrid stores grid metadata on the deck.
func (d *Deck) SetGrid(g *LayoutGrid) {
	d.Grid = g
}

// SnapToGrid moves the shape to the rect covering the given cell span.
// Requires a layout grid on the deck.
func (d *Deck) SnapToGrid(slideIdx, shapeIdx, col, row, colSpan, rowSpan int) (Frame, error) {
	if d.Grid == nil {
		return Frame{}, tools.NewInvalidState("no layout grid defined: call create_layout_grid first")
	}
	slide, err := d.Slide(slideIdx)
	if err != nil {
		return Frame{}, err
	}
	shape, err := slide.Shape(shapeIdx)
	if err != nil {
		return Frame{}, err
	}
	rect, err := d.Grid.CellRect(d.SlideWidth, d.SlideHeight, col, row, colSpan, rowSpan)
	if err != nil {
		return Frame{}, err
	}
	shape.Frame = rect
	return rect, nil
}

// Distribution directions.
const (
	DistributeHorizontal = "horizontal"
	DistributeVertical   = "vertical"
)

// DistributeShapes equalizes the gaps between the listed shapes along the
// axis, keeping the first and last shape fixed. An empty index list
// distributes every shape on the slide.
func (d *Deck) DistributeShapes(slideIdx int, direction string, indices []int) error {
	if direction != DistributeHorizontal && direction != DistributeVertical {
		return tools.NewBadArgument("invalid direction %q: expected horizontal or vertical", direction)
	}
	slide, err := d.Slide(slideIdx)
	if err != nil {
		return err
	}

	if len(indices) == 0 {
		indices = make([]int, len(slide.Shapes))
		for i := range slide.Shapes {
			indices[i] = i
		}
	}
	if len(indices) < 2 {
		return tools.NewBadArgument("distribute_shapes requires at least two shapes, got %d", len(indices))
	}

	shapes := make([]*Shape, len(indices))
	for i, idx := range indices {
		shape, err := slide.Shape(idx)
		if err != nil {
			return err
		}
		shapes[i] = shape
	}

	horizontal := direction == DistributeHorizontal
	sort.SliceStable(shapes, func(i, j int) bool {
		if horizontal {
			return shapes[i].Frame.Left < shapes[j].Frame.Left
		}
		return shapes[i].Frame.Top < shapes[j].Frame.Top
	})

	if len(shapes) == 2 {
		return nil
	}

	var span, occupied int64
	first, last := shapes[0], shapes[len(shapes)-1]
	if horizontal {
		span = (last.Frame.Left + last.Frame.Width) - first.Frame.Left
		for _, s := range shapes {
			occupied += s.Frame.Width
		}
	} else {
		span = (last.Frame.Top + last.Frame.Height) - first.Frame.Top
		for _, s := range shapes {
			occupied += s.Frame.Height
		}
	}

	gap := (span - occupied) / int64(len(shapes)-1)
	if gap < 0 {
		gap = 0
	}

	if horizontal {
		cursor := first.Frame.Left
		for _, s := range shapes[:len(shapes)-1] {
			s.Frame.Left = cursor
			cursor += s.Frame.Width + gap
		}
	} else {
		cursor := first.Frame.Top
		for _, s := range shapes[:len(shapes)-1] {
			s.Frame.Top = cursor
			cursor += s.Frame.Height + gap
		}
	}
	return nil
}
