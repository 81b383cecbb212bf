package deck

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

func TestAddSlideIndicesAreContiguous(t *testing.T) {
	d := New()

	for want := 0; want < 3; want++ {
		got, err := d.AddSlide(LayoutBlank)
		if err != nil {
			t.Fatalf("AddSlide: %v", err)
		}
		if got != want {
			t.Errorf("expected slide index %d, got %d", want, got)
		}
	}
	if d.SlideCount() != 3 {
		t.Errorf("expected 3 slides, got %d", d.SlideCount())
	}

	var te *tools.ToolError
	if _, err := d.AddSlide(LayoutCount()); !errors.As(err, &te) || te.Kind != tools.KindIndexOutOfRange {
		t.Errorf("expected index_out_of_range past the last layout, got %v", err)
	}
	if _, err := d.AddSlide(-1); !errors.As(err, &te) || te.Kind != tools.KindIndexOutOfRange {
		t.Errorf("expected index_out_of_range for a negative layout, got %v", err)
	}
}

func TestDeleteSlideShiftsLaterSlides(t *testing.T) {
	d := New()
	for _, text := range []string{"first", "second", "third"} {
		idx, err := d.AddSlide(LayoutBlank)
		if err != nil {
			t.Fatalf("AddSlide: %v", err)
		}
		d.Slides[idx].AddTextBox(FrameFromInches(1, 1, 4, 1), text, nil, "")
	}

	if err := d.DeleteSlide(1); err != nil {
		t.Fatalf("DeleteSlide: %v", err)
	}
	if d.SlideCount() != 2 {
		t.Fatalf("expected 2 slides after delete, got %d", d.SlideCount())
	}
	if got := d.Slides[1].Shapes[0].PlainText(); got != "third" {
		t.Errorf("expected the former third slide at index 1, got %q", got)
	}

	var te *tools.ToolError
	if err := d.DeleteSlide(5); !errors.As(err, &te) || te.Kind != tools.KindIndexOutOfRange {
		t.Errorf("expected index_out_of_range, got %v", err)
	}
}

func TestDeleteShapeShiftsLaterShapes(t *testing.T) {
	s := &Slide{Layout: LayoutBlank}
	for i, text := range []string{"a", "b", "c"} {
		if got := s.AddTextBox(FrameFromInches(float64(i), 1, 1, 1), text, nil, ""); got != i {
			t.Fatalf("expected shape index %d, got %d", i, got)
		}
	}

	if err := s.DeleteShape(0); err != nil {
		t.Fatalf("DeleteShape: %v", err)
	}
	want := []string{"b", "c"}
	if len(s.Shapes) != len(want) {
		t.Fatalf("expected %d shapes, got %d", len(want), len(s.Shapes))
	}
	for i, text := range want {
		if got := s.Shapes[i].PlainText(); got != text {
			t.Errorf("shape %d: expected %q, got %q", i, text, got)
		}
	}

	var te *tools.ToolError
	if err := s.DeleteShape(2); !errors.As(err, &te) || te.Kind != tools.KindIndexOutOfRange {
		t.Errorf("expected index_out_of_range, got %v", err)
	}
}

// buildTable fills a rows x cols grid with "r<row>c<col>" markers.
func buildTable(t *testing.T, rows, cols int) *Table {
	t.Helper()
	tbl, err := NewTable(rows, cols)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if err := tbl.SetCell(r, c, fmt.Sprintf("r%dc%d", r, c), nil, "", nil); err != nil {
				t.Fatalf("SetCell(%d,%d): %v", r, c, err)
			}
		}
	}
	return tbl
}

func cellTexts(tbl *Table) [][]string {
	out := make([][]string, tbl.RowCount())
	for r := range tbl.Grid {
		out[r] = make([]string, len(tbl.Grid[r]))
		for c, cell := range tbl.Grid[r] {
			out[r][c] = cell.Frame.PlainText()
		}
	}
	return out
}

func TestResizeAddRowPreservesCells(t *testing.T) {
	tbl := buildTable(t, 2, 2)
	bold := true
	if err := tbl.StyleCell(0, 0, &FontPatch{Bold: &bold}, AlignCenter, &RGB{R: 0xEE, G: 0xEE, B: 0xEE}); err != nil {
		t.Fatalf("StyleCell: %v", err)
	}

	pos := 1
	out, err := tbl.Resize(TableAddRow, &pos, 1)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if out.RowCount() != 3 || out.ColCount() != 2 {
		t.Fatalf("expected 3x2, got %dx%d", out.RowCount(), out.ColCount())
	}

	want := [][]string{
		{"r0c0", "r0c1"},
		{"", ""},
		{"r1c0", "r1c1"},
	}
	if diff := cmp.Diff(want, cellTexts(out)); diff != "" {
		t.Errorf("cell text mismatch (-want +got):\n%s", diff)
	}

	info := out.Matrix()[0][0]
	if !info.Formatting.Bold || info.Formatting.Alignment != AlignCenter || info.Formatting.Fill != "#EEEEEE" {
		t.Errorf("formatting lost across rebuild: %+v", info.Formatting)
	}

	// The receiver is untouched and shares no cells with the rebuild.
	if tbl.RowCount() != 2 {
		t.Errorf("source table modified: %d rows", tbl.RowCount())
	}
	out.Grid[0][0].Frame.SetText("changed")
	if got := tbl.Grid[0][0].Frame.PlainText(); got != "r0c0" {
		t.Errorf("rebuilt grid shares state with the source: %q", got)
	}
}

func TestResizeRemoveColumnShiftsCells(t *testing.T) {
	tbl := buildTable(t, 2, 3)

	pos := 0
	out, err := tbl.Resize(TableRemoveColumn, &pos, 1)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}

	want := [][]string{
		{"r0c1", "r0c2"},
		{"r1c1", "r1c2"},
	}
	if diff := cmp.Diff(want, cellTexts(out)); diff != "" {
		t.Errorf("cell text mismatch (-want +got):\n%s", diff)
	}
}

func TestResizeValidation(t *testing.T) {
	tbl := buildTable(t, 1, 2)

	var te *tools.ToolError
	if _, err := tbl.Resize(TableRemoveRow, nil, 1); !errors.As(err, &te) || te.Kind != tools.KindInvalidState {
		t.Errorf("expected invalid_state removing the last row, got %v", err)
	}
	if _, err := tbl.Resize("explode", nil, 1); !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
		t.Errorf("expected bad_argument for an unknown operation, got %v", err)
	}
	if _, err := tbl.Resize(TableAddRow, nil, 0); !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
		t.Errorf("expected bad_argument for count 0, got %v", err)
	}

	pos := 5
	if _, err := tbl.Resize(TableAddColumn, &pos, 1); !errors.As(err, &te) || te.Kind != tools.KindIndexOutOfRange {
		t.Errorf("expected index_out_of_range for position 5, got %v", err)
	}
}

func TestModifyTableStructureReplacesShape(t *testing.T) {
	s := &Slide{Layout: LayoutBlank}
	s.AddTextBox(FrameFromInches(0, 0, 2, 1), "before", nil, "")
	if _, err := s.AddTable(2, 2, FrameFromInches(1, 1, 6, 3), false); err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	s.AddTextBox(FrameFromInches(0, 5, 2, 1), "after", nil, "")

	// A failed operation leaves the slide untouched.
	var te *tools.ToolError
	if _, err := s.ModifyTableStructure(1, "explode", nil, 1); !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
		t.Fatalf("expected bad_argument, got %v", err)
	}
	if len(s.Shapes) != 3 {
		t.Fatalf("failed operation changed the slide: %d shapes", len(s.Shapes))
	}
	if _, err := s.TableAt(1); err != nil {
		t.Fatalf("table moved after a failed operation: %v", err)
	}

	newIdx, err := s.ModifyTableStructure(1, TableAddRow, nil, 1)
	if err != nil {
		t.Fatalf("ModifyTableStructure: %v", err)
	}
	if newIdx != 2 {
		t.Errorf("expected the replacement at index 2, got %d", newIdx)
	}
	tbl, err := s.TableAt(newIdx)
	if err != nil {
		t.Fatalf("TableAt(%d): %v", newIdx, err)
	}
	if tbl.RowCount() != 3 {
		t.Errorf("expected 3 rows, got %d", tbl.RowCount())
	}
	if got := s.Shapes[1].PlainText(); got != "after" {
		t.Errorf("expected the later text box at index 1, got %q", got)
	}

	if _, err := s.ModifyTableStructure(0, TableAddRow, nil, 1); !errors.As(err, &te) || te.Kind != tools.KindShapeMismatch {
		t.Errorf("expected shape_mismatch for a text box, got %v", err)
	}
}

func TestSnapToGridSetsTheCellRect(t *testing.T) {
	d := New()
	if _, err := d.AddSlide(LayoutBlank); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	shapeIdx := d.Slides[0].AddTextBox(FrameFromInches(0, 0, 1, 1), "x", nil, "")

	var te *tools.ToolError
	if _, err := d.SnapToGrid(0, shapeIdx, 0, 0, 1, 1); !errors.As(err, &te) || te.Kind != tools.KindInvalidState {
		t.Fatalf("expected invalid_state without a grid, got %v", err)
	}

	grid, err := NewLayoutGrid(4, 3, 0, 0)
	if err != nil {
		t.Fatalf("NewLayoutGrid: %v", err)
	}
	d.SetGrid(grid)

	// 10 x 7.5 in slide with no margins: cells are 2.5 x 2.5 in.
	got, err := d.SnapToGrid(0, shapeIdx, 2, 1, 1, 1)
	if err != nil {
		t.Fatalf("SnapToGrid: %v", err)
	}
	want := Frame{Left: 4572000, Top: 2286000, Width: 2286000, Height: 2286000}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if d.Slides[0].Shapes[shapeIdx].Frame != want {
		t.Error("shape frame not updated")
	}

	got, err = d.SnapToGrid(0, shapeIdx, 0, 0, 2, 1)
	if err != nil {
		t.Fatalf("SnapToGrid span: %v", err)
	}
	if got.Width != 4572000 {
		t.Errorf("expected span width 4572000, got %d", got.Width)
	}

	if _, err := d.SnapToGrid(0, shapeIdx, 3, 0, 2, 1); !errors.As(err, &te) || te.Kind != tools.KindIndexOutOfRange {
		t.Errorf("expected index_out_of_range past the grid edge, got %v", err)
	}
}

func TestDistributeShapesEqualizesGaps(t *testing.T) {
	d := New()
	if _, err := d.AddSlide(LayoutBlank); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	s := d.Slides[0]
	s.AddTextBox(FrameFromInches(0, 1, 1, 1), "a", nil, "")
	s.AddTextBox(FrameFromInches(7, 1, 1, 1), "c", nil, "")
	s.AddTextBox(FrameFromInches(2, 1, 1, 1), "b", nil, "")

	if err := d.DistributeShapes(0, DistributeHorizontal, nil); err != nil {
		t.Fatalf("DistributeShapes: %v", err)
	}

	// Span 0..8 in with 3 in occupied leaves 2.5 in gaps; the first and
	// last shape stay fixed.
	wantLefts := map[string]int64{
		"a": 0,
		"b": FromInches(3.5),
		"c": FromInches(7),
	}
	for _, shape := range s.Shapes {
		if got := shape.Frame.Left; got != wantLefts[shape.PlainText()] {
			t.Errorf("shape %q: expected left %d, got %d", shape.PlainText(), wantLefts[shape.PlainText()], got)
		}
	}

	var te *tools.ToolError
	if err := d.DistributeShapes(0, "diagonal", nil); !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
		t.Errorf("expected bad_argument for the direction, got %v", err)
	}
	if err := d.DistributeShapes(0, DistributeVertical, []int{0}); !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
		t.Errorf("expected bad_argument for a single shape, got %v", err)
	}
}

func TestDistributeShapesVertical(t *testing.T) {
	d := New()
	if _, err := d.AddSlide(LayoutBlank); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	s := d.Slides[0]
	s.AddTextBox(FrameFromInches(1, 0, 1, 1), "top", nil, "")
	s.AddTextBox(FrameFromInches(1, 3, 1, 1), "mid", nil, "")
	s.AddTextBox(FrameFromInches(1, 5, 1, 1), "bottom", nil, "")

	if err := d.DistributeShapes(0, DistributeVertical, []int{0, 1, 2}); err != nil {
		t.Fatalf("DistributeShapes: %v", err)
	}

	// Span 0..6 in with 3 in occupied leaves 1.5 in gaps.
	if got := s.Shapes[1].Frame.Top; got != FromInches(2.5) {
		t.Errorf("expected the middle shape at 2.5 in, got %d", got)
	}
	if got := s.Shapes[2].Frame.Top; got != FromInches(5) {
		t.Errorf("the last shape moved: top %d", got)
	}
}
