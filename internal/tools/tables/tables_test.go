package tables

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

func newSession(t *testing.T, sessions *session.Registry) *session.Session {
	t.Helper()
	d := deck.New()
	if _, err := d.AddSlide(deck.LayoutBlank); err != nil {
		t.Fatalf("add slide: %v", err)
	}
	return sessions.Allocate(d, "")
}

// addGrid drops a rows x cols table on slide 0 and returns its shape index.
func addGrid(t *testing.T, sessions *session.Registry, s *session.Session, rows, cols int) int {
	t.Helper()
	tool := NewAddTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "rows": %d, "columns": %d, "left": 1, "top": 1, "width": 8, "height": 4}`,
		s.ID, rows, cols))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("add_table failed: %v", err)
	}
	return resp.(map[string]interface{})["shape_index"].(int)
}

func setCell(t *testing.T, sessions *session.Registry, s *session.Session, shape, row, col int, text string) {
	t.Helper()
	tool := NewSetCellTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "shape_index": %d, "row": %d, "column": %d, "text": %q}`,
		s.ID, shape, row, col, text))
	if _, err := tool.Execute(context.Background(), input); err != nil {
		t.Fatalf("set_table_cell(%d,%d) failed: %v", row, col, err)
	}
}

func TestGetTools(t *testing.T) {
	list := GetTools(session.NewRegistry())

	if len(list) != 7 {
		t.Fatalf("expected 7 tools, got %d", len(list))
	}

	names := []string{
		"add_table",
		"set_table_cell",
		"style_table_cell",
		"style_table_range",
		"get_table_info",
		"create_table_with_data",
		"modify_table_structure",
	}
	for i, expected := range names {
		if list[i].Name() != expected {
			t.Errorf("expected tool %d to be '%s', got '%s'", i, expected, list[i].Name())
		}
	}
}

func TestAddTableAndFillCells(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions)

	shape := addGrid(t, sessions, s, 3, 3)
	values := [][]string{
		{"Name", "Q1", "Q2"},
		{"North", "1", "2"},
		{"South", "4", "5"},
	}
	for r, row := range values {
		for c, text := range row {
			setCell(t, sessions, s, shape, r, c, text)
		}
	}

	info := NewInfoTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "shape_index": %d}`, s.ID, shape))
	resp, err := info.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("get_table_info failed: %v", err)
	}

	result := resp.(map[string]interface{})
	if result["rows"].(int) != 3 || result["columns"].(int) != 3 {
		t.Errorf("expected 3x3, got %vx%v", result["rows"], result["columns"])
	}
	if result["total_cells"].(int) != 9 {
		t.Errorf("expected 9 total cells, got %v", result["total_cells"])
	}

	cells := result["cells"].([][]deck.CellInfo)
	if cells[2][1].Text != "4" {
		t.Errorf("expected '4' at [2][1], got '%s'", cells[2][1].Text)
	}
	if cells[0][0].Text != "Name" {
		t.Errorf("expected 'Name' at [0][0], got '%s'", cells[0][0].Text)
	}
}

func TestSetCellOutOfRange(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions)
	shape := addGrid(t, sessions, s, 2, 2)

	tool := NewSetCellTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "shape_index": %d, "row": 5, "column": 0, "text": "x"}`, s.ID, shape))
	_, err := tool.Execute(context.Background(), input)
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindIndexOutOfRange {
		t.Errorf("expected index_out_of_range, got %v", err)
	}
}

func TestInfoRejectsNonTableShape(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions)
	s.Lock()
	slide, _ := s.Deck.Slide(0)
	slide.AddTextBox(deck.FrameFromInches(1, 1, 4, 1), "not a table", nil, "")
	s.Unlock()

	tool := NewInfoTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "shape_index": 0}`, s.ID))
	_, err := tool.Execute(context.Background(), input)
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindShapeMismatch {
		t.Errorf("expected shape_mismatch, got %v", err)
	}
}

func TestStyleTableCell(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions)
	shape := addGrid(t, sessions, s, 2, 2)
	setCell(t, sessions, s, shape, 0, 0, "Header")

	tool := NewStyleCellTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "shape_index": %d, "row": 0, "column": 0,
		  "bold": true, "fill": "#DDEBF7", "alignment": "center"}`, s.ID, shape))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("style_table_cell failed: %v", err)
	}
	if resp.(map[string]interface{})["styled"] != true {
		t.Error("expected styled=true")
	}

	s.Lock()
	table, _ := s.Deck.Slides[0].TableAt(shape)
	cell, _ := table.Cell(0, 0)
	s.Unlock()
	if cell.Fill == nil || cell.Fill.Hex() != "#DDEBF7" {
		t.Errorf("fill not applied: %+v", cell.Fill)
	}
	run := cell.Frame.Paragraphs[0].Runs[0]
	if run.Font == nil || !run.Font.Bold {
		t.Errorf("bold not applied: %+v", run.Font)
	}
	if cell.Frame.Paragraphs[0].Alignment != deck.AlignCenter {
		t.Errorf("alignment not applied: %q", cell.Frame.Paragraphs[0].Alignment)
	}
}

func TestStyleCellRejectsEmptyStyle(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions)
	shape := addGrid(t, sessions, s, 2, 2)

	tool := NewStyleCellTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "shape_index": %d, "row": 0, "column": 0}`, s.ID, shape))
	_, err := tool.Execute(context.Background(), input)
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
		t.Errorf("expected bad_argument, got %v", err)
	}
}

func TestStyleTableRange(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions)
	shape := addGrid(t, sessions, s, 3, 3)

	tool := NewStyleRangeTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "shape_index": %d,
		  "start_row": 0, "start_column": 0, "end_row": 1, "end_column": 2, "fill": "#EEEEEE"}`, s.ID, shape))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("style_table_range failed: %v", err)
	}

	result := resp.(map[string]interface{})
	if result["cells_styled"].(int) != 6 {
		t.Errorf("expected 6 cells styled, got %v", result["cells_styled"])
	}

	s.Lock()
	table, _ := s.Deck.Slides[0].TableAt(shape)
	styled, _ := table.Cell(1, 2)
	untouched, _ := table.Cell(2, 0)
	s.Unlock()
	if styled.Fill == nil {
		t.Error("cell inside the range should be filled")
	}
	if untouched.Fill != nil {
		t.Error("cell outside the range should stay unfilled")
	}
}

func TestCreateTableWithData(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions)

	tool := NewWithDataTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0,
		  "headers": ["Region", "Total"],
		  "data": [["North", "310"], ["South", "275"]],
		  "header_style": {"bold": true, "fill": "#1F4E79", "color": "#FFFFFF"},
		  "alternating_rows": true,
		  "left": 1, "top": 1, "width": 8, "height": 3}`, s.ID))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("create_table_with_data failed: %v", err)
	}

	result := resp.(map[string]interface{})
	if result["rows"].(int) != 3 || result["columns"].(int) != 2 {
		t.Errorf("expected 3x2, got %vx%v", result["rows"], result["columns"])
	}

	s.Lock()
	table, _ := s.Deck.Slides[0].TableAt(result["shape_index"].(int))
	header, _ := table.Cell(0, 0)
	body, _ := table.Cell(1, 0)
	s.Unlock()
	if !table.HeaderRow {
		t.Error("headers should mark the header row")
	}
	if header.Frame.PlainText() != "Region" {
		t.Errorf("expected 'Region' header, got '%s'", header.Frame.PlainText())
	}
	if header.Fill == nil || header.Fill.Hex() != "#1F4E79" {
		t.Errorf("header fill not applied: %+v", header.Fill)
	}
	if body.Frame.PlainText() != "North" {
		t.Errorf("expected 'North' at [1][0], got '%s'", body.Frame.PlainText())
	}
}

func TestModifyTableStructure(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions)
	shape := addGrid(t, sessions, s, 3, 3)
	setCell(t, sessions, s, shape, 0, 0, "Name")
	setCell(t, sessions, s, shape, 1, 0, "North")

	tool := NewStructureTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "shape_index": %d, "operation": "add_column", "position": 0}`,
		s.ID, shape))
	resp, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("modify_table_structure failed: %v", err)
	}

	result := resp.(map[string]interface{})
	if result["rows"].(int) != 3 || result["columns"].(int) != 4 {
		t.Errorf("expected 3x4 after add_column, got %vx%v", result["rows"], result["columns"])
	}
	newIdx := result["new_table_index"].(int)

	s.Lock()
	table, err := s.Deck.Slides[0].TableAt(newIdx)
	s.Unlock()
	if err != nil {
		t.Fatalf("new_table_index does not resolve: %v", err)
	}
	cell, _ := table.Cell(0, 1)
	if cell.Frame.PlainText() != "Name" {
		t.Errorf("existing data should shift right, got '%s' at [0][1]", cell.Frame.PlainText())
	}
	inserted, _ := table.Cell(0, 0)
	if inserted.Frame.PlainText() != "" {
		t.Errorf("inserted column should be empty, got '%s'", inserted.Frame.PlainText())
	}
}

func TestModifyTableStructureRemoveLastRow(t *testing.T) {
	sessions := session.NewRegistry()
	s := newSession(t, sessions)
	shape := addGrid(t, sessions, s, 1, 2)

	tool := NewStructureTool(sessions)
	input := json.RawMessage(fmt.Sprintf(
		`{"presentation_id": %q, "slide_index": 0, "shape_index": %d, "operation": "remove_row"}`, s.ID, shape))
	_, err := tool.Execute(context.Background(), input)
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindInvalidState {
		t.Errorf("expected invalid_state removing the last row, got %v", err)
	}
}
