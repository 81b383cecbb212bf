package deck

import (
	"strings"

	"github.com/tiendc/go-deepcopy"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Margins are cell insets in EMU. Defaults follow the common OOXML cell
// insets: 0.1 in left/right, 0.05 in top/bottom.
type Margins struct {
	Left   int64 `json:"left"`
	Top    int64 `json:"top"`
	Right  int64 `json:"right"`
	Bottom int64 `json:"bottom"`
}

func DefaultMargins() Margins {
	return Margins{Left: 91440, Top: 45720, Right: 91440, Bottom: 45720}
}

// Cell owns a text frame plus fill and margins.
type Cell struct {
	Frame   *TextFrame `json:"frame"`
	Fill    *RGB       `json:"fill,omitempty"`
	Margins Margins    `json:"margins"`
}

func NewCell() *Cell {
	return &Cell{
		Frame:   NewTextFrame("", nil),
		Margins: DefaultMargins(),
	}
}

// Clone deep-copies the cell so rebuilt grids share no state with the
// original.
func (c *Cell) Clone() *Cell {
	var out Cell
	if err := deepcopy.Copy(&out, c); err != nil {
		// The cell graph is plain data; a copy failure is a bug.
		panic(err)
	}
	return &out
}

// Table is a rectangular grid of cells. Grid[r][c] with 0 <= r < rows and
// 0 <= c < cols; both dimensions stay >= 1 for the table's lifetime.
type Table struct {
	Grid      [][]*Cell `json:"grid"`
	HeaderRow bool      `json:"header_row,omitempty"`
}

// NewTable allocates rows x cols empty cells.
func NewTable(rows, cols int) (*Table, error) {
	if rows < 1 || cols < 1 {
		return nil, tools.NewBadArgument("table requires rows >= 1 and cols >= 1, got %dx%d", rows, cols)
	}
	t := &Table{Grid: make([][]*Cell, rows)}
	for r := 0; r < rows; r++ {
		t.Grid[r] = make([]*Cell, cols)
		for c := 0; c < cols; c++ {
			t.Grid[r][c] = NewCell()
		}
	}
	return t, nil
}

func (t *Table) RowCount() int {
	return len(t.Grid)
}

func (t *Table) ColCount() int {
	if len(t.Grid) == 0 {
		return 0
	}
	return len(t.Grid[0])
}

// Cell returns the cell at (row, col), bounds-checked.
func (t *Table) Cell(row, col int) (*Cell, error) {
	if row < 0 || row >= t.RowCount() {
		return nil, tools.NewIndexOutOfRange("row %d out of range [0, %d)", row, t.RowCount())
	}
	if col < 0 || col >= t.ColCount() {
		return nil, tools.NewIndexOutOfRange("col %d out of range [0, %d)", col, t.ColCount())
	}
	return t.Grid[row][col], nil
}

// SetCell replaces the cell text and applies optional formatting.
func (t *Table) SetCell(row, col int, text string, patch *FontPatch, alignment string, fill *RGB) error {
	cell, err := t.Cell(row, col)
	if err != nil {
		return err
	}
	cell.Frame.SetText(text)
	if !patch.Empty() || alignment != "" {
		cell.Frame.ApplyPatch(patch, alignment)
	}
	if fill != nil {
		f := *fill
		cell.Fill = &f
	}
	return nil
}

// StyleCell applies formatting without touching the text.
func (t *Table) StyleCell(row, col int, patch *FontPatch, alignment string, fill *RGB) error {
	cell, err := t.Cell(row, col)
	if err != nil {
		return err
	}
	cell.Frame.ApplyPatch(patch, alignment)
	if fill != nil {
		f := *fill
		cell.Fill = &f
	}
	return nil
}

// StyleRange applies the same style to every cell in the inclusive
// rectangle. Requires start <= end on both axes.
func (t *Table) StyleRange(startRow, startCol, endRow, endCol int, patch *FontPatch, alignment string, fill *RGB) error {
	if startRow > endRow || startCol > endCol {
		return tools.NewBadArgument(
			"invalid range: start (%d, %d) must not exceed end (%d, %d)",
			startRow, startCol, endRow, endCol)
	}
	if _, err := t.Cell(startRow, startCol); err != nil {
		return err
	}
	if _, err := t.Cell(endRow, endCol); err != nil {
		return err
	}
	for r := startRow; r <= endRow; r++ {
		for c := startCol; c <= endCol; c++ {
			if err := t.StyleCell(r, c, patch, alignment, fill); err != nil {
				return err
			}
		}
	}
	return nil
}

// PlainText joins cells with tabs and rows with newlines.
func (t *Table) PlainText() string {
	rows := make([]string, t.RowCount())
	for r := range t.Grid {
		cells := make([]string, len(t.Grid[r]))
		for c, cell := range t.Grid[r] {
			cells[c] = cell.Frame.PlainText()
		}
		rows[r] = strings.Join(cells, "\t")
	}
	return strings.Join(rows, "\n")
}

// CellStyle is the formatting summary reported by get_table_info.
type CellStyle struct {
	FontName  string  `json:"font_name,omitempty"`
	FontSize  float64 `json:"font_size,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Color     string  `json:"color,omitempty"`
	Fill      string  `json:"fill,omitempty"`
	Alignment string  `json:"alignment,omitempty"`
}

// CellInfo pairs a cell's text with its formatting summary.
type CellInfo struct {
	Text       string    `json:"text"`
	Formatting CellStyle `json:"formatting"`
}

// Matrix returns the row-major cell info grid.
func (t *Table) Matrix() [][]CellInfo {
	out := make([][]CellInfo, t.RowCount())
	for r := range t.Grid {
		out[r] = make([]CellInfo, len(t.Grid[r]))
		for c, cell := range t.Grid[r] {
			info := CellInfo{Text: cell.Frame.PlainText()}
			if cell.Fill != nil {
				info.Formatting.Fill = cell.Fill.Hex()
			}
			if len(cell.Frame.Paragraphs) > 0 {
				p := cell.Frame.Paragraphs[0]
				info.Formatting.Alignment = p.Alignment
				if len(p.Runs) > 0 && p.Runs[0].Font != nil {
					f := p.Runs[0].Font
					info.Formatting.FontName = f.Name
					info.Formatting.FontSize = f.Size
					info.Formatting.Bold = f.Bold
					info.Formatting.Italic = f.Italic
					if f.Color != nil {
						info.Formatting.Color = f.Color.Hex()
					}
				}
			}
			out[r][c] = info
		}
	}
	return out
}

// Structural operations accepted by Resize.
const (
	TableAddRow       = "add_row"
	TableRemoveRow    = "remove_row"
	TableAddColumn    = "add_column"
	TableRemoveColumn = "remove_column"
)

// Resize produces a new table with the structural operation applied,
// deep-copying every preserved cell at its mapped coordinates. The receiver
// is not modified; callers splice the result into the slide only after the
// rebuild succeeds.
func (t *Table) Resize(operation string, position *int, count int) (*Table, error) {
	if count < 1 {
		return nil, tools.NewBadArgument("count must be >= 1, got %d", count)
	}

	rows, cols := t.RowCount(), t.ColCount()

	switch operation {
	case TableAddRow:
		pos := rows
		if position != nil {
			pos = *position
		}
		if pos < 0 || pos > rows {
			return nil, tools.NewIndexOutOfRange("insert position %d out of range [0, %d]", pos, rows)
		}
		return t.rebuild(rows+count, cols, func(r, c int) (int, int, bool) {
			if r < pos {
				return r, c, true
			}
			return r + count, c, true
		})

	case TableRemoveRow:
		pos := rows - count
		if position != nil {
			pos = *position
		}
		if rows-count < 1 {
			return nil, tools.NewInvalidState("cannot remove %d row(s) from a %d-row table: at least one row must remain", count, rows)
		}
		if pos < 0 || pos+count > rows {
			return nil, tools.NewIndexOutOfRange("remove range [%d, %d) out of range [0, %d)", pos, pos+count, rows)
		}
		return t.rebuild(rows-count, cols, func(r, c int) (int, int, bool) {
			if r < pos {
				return r, c, true
			}
			if r >= pos+count {
				return r - count, c, true
			}
			return 0, 0, false
		})

	case TableAddColumn:
		pos := cols
		if position != nil {
			pos = *position
		}
		if pos < 0 || pos > cols {
			return nil, tools.NewIndexOutOfRange("insert position %d out of range [0, %d]", pos, cols)
		}
		return t.rebuild(rows, cols+count, func(r, c int) (int, int, bool) {
			if c < pos {
				return r, c, true
			}
			return r, c + count, true
		})

	case TableRemoveColumn:
		pos := cols - count
		if position != nil {
			pos = *position
		}
		if cols-count < 1 {
			return nil, tools.NewInvalidState("cannot remove %d column(s) from a %d-column table: at least one column must remain", count, cols)
		}
		if pos < 0 || pos+count > cols {
			return nil, tools.NewIndexOutOfRange("remove range [%d, %d) out of range [0, %d)", pos, pos+count, cols)
		}
		return t.rebuild(rows, cols-count, func(r, c int) (int, int, bool) {
			if c < pos {
				return r, c, true
			}
			if c >= pos+count {
				return r, c - count, true
			}
			return 0, 0, false
		})

	default:
		return nil, tools.NewBadArgument(
			"unknown operation %q: expected add_row, remove_row, add_column, or remove_column", operation)
	}
}

// rebuild allocates the new grid and copies each retained source cell to
// the coordinates mapFn assigns it. Unassigned destination cells stay empty.
func (t *Table) rebuild(newRows, newCols int, mapFn func(r, c int) (int, int, bool)) (*Table, error) {
	out, err := NewTable(newRows, newCols)
	if err != nil {
		return nil, err
	}
	out.HeaderRow = t.HeaderRow
	for r := range t.Grid {
		for c := range t.Grid[r] {
			nr, nc, keep := mapFn(r, c)
			if !keep {
				continue
			}
			out.Grid[nr][nc] = t.Grid[r][c].Clone()
		}
	}
	return out, nil
}
