package templating

import (
	"errors"
	"testing"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

func reportTemplate() *Template {
	return &Template{
		Name: "quarterly-report",
		Slides: []TemplateSlide{
			{
				Layout: 0,
				Elements: []Element{{
					Type: "text", Left: 1, Top: 1, Width: 8, Height: 1.5,
					Text: "{{company.name}} - {{report.period}} {{report.year}}",
					Font: &FontSpec{Name: "Arial", Size: 32, Bold: true},
				}},
			},
			{
				Layout: deck.LayoutBlank,
				Condition: &Predicate{
					Field:    "metrics.revenue",
					Operator: "greater_than",
					Value:    float64(100),
				},
				Elements: []Element{{
					Type: "text", Left: 1, Top: 2, Width: 8, Height: 2,
					Text: "Revenue: {{metrics.revenue}}",
				}},
			},
		},
	}
}

func reportData(revenue float64) map[string]interface{} {
	return map[string]interface{}{
		"company": map[string]interface{}{"name": "X"},
		"report":  map[string]interface{}{"period": "Q1", "year": float64(2024)},
		"metrics": map[string]interface{}{"revenue": revenue},
	}
}

func TestSubstitute(t *testing.T) {
	data := reportData(125)
	cases := []struct {
		in   string
		want string
	}{
		{"{{company.name}} - {{report.period}} {{report.year}}", "X - Q1 2024"},
		{"{{ company.name }}", "X"},
		{"{{missing}} stays", "{{missing}} stays"},
		{"{{company.address.city}}", "{{company.address.city}}"},
		{"plain text", "plain text"},
		{"Revenue: {{metrics.revenue}}", "Revenue: 125"},
	}
	for _, tc := range cases {
		if got := Substitute(tc.in, data); got != tc.want {
			t.Errorf("Substitute(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSubstituteSequenceIndexing(t *testing.T) {
	data := map[string]interface{}{
		"items": []interface{}{"alpha", "beta", "gamma"},
		"rows": []interface{}{
			map[string]interface{}{"label": "first"},
		},
	}
	if got := Substitute("{{items.1}}", data); got != "beta" {
		t.Errorf("items.1 = %q, want beta", got)
	}
	if got := Substitute("{{rows.0.label}}", data); got != "first" {
		t.Errorf("rows.0.label = %q, want first", got)
	}
	if got := Substitute("{{items.9}}", data); got != "{{items.9}}" {
		t.Errorf("out-of-range index substituted: %q", got)
	}
	if got := Substitute("{{items.x}}", data); got != "{{items.x}}" {
		t.Errorf("non-integer index substituted: %q", got)
	}
}

func TestSubstituteNotRecursive(t *testing.T) {
	data := map[string]interface{}{
		"a": "{{b}}",
		"b": "hidden",
	}
	if got := Substitute("{{a}}", data); got != "{{b}}" {
		t.Errorf("substitution recursed: %q", got)
	}
}

func TestPredicates(t *testing.T) {
	data := map[string]interface{}{
		"name":   "Acme Corp",
		"count":  float64(7),
		"tags":   []interface{}{"draft", "internal"},
		"nested": map[string]interface{}{"flag": true},
	}
	cases := []struct {
		pred Predicate
		want bool
	}{
		{Predicate{Field: "name", Operator: "equals", Value: "Acme Corp"}, true},
		{Predicate{Field: "name", Operator: "equals", Value: "Other"}, false},
		{Predicate{Field: "name", Operator: "not_equals", Value: "Other"}, true},
		{Predicate{Field: "count", Operator: "greater_than", Value: float64(5)}, true},
		{Predicate{Field: "count", Operator: "greater_than", Value: float64(7)}, false},
		{Predicate{Field: "count", Operator: "less_than", Value: float64(10)}, true},
		{Predicate{Field: "name", Operator: "contains", Value: "Corp"}, true},
		{Predicate{Field: "tags", Operator: "contains", Value: "draft"}, true},
		{Predicate{Field: "tags", Operator: "contains", Value: "public"}, false},
		{Predicate{Field: "nested.flag", Operator: "exists"}, true},
		{Predicate{Field: "nested.other", Operator: "exists"}, false},
		{Predicate{Field: "gone", Operator: "equals", Value: "x"}, false},
		{Predicate{Field: "gone", Operator: "not_equals", Value: "x"}, true},
		{Predicate{Field: "gone", Operator: "greater_than", Value: float64(1)}, false},
	}
	for _, tc := range cases {
		got, err := tc.pred.Evaluate(data)
		if err != nil {
			t.Fatalf("%+v: %v", tc.pred, err)
		}
		if got != tc.want {
			t.Errorf("%s %s %v = %v, want %v", tc.pred.Field, tc.pred.Operator, tc.pred.Value, got, tc.want)
		}
	}
}

func TestPredicateUnknownOperator(t *testing.T) {
	p := Predicate{Field: "x", Operator: "matches", Value: "y"}
	if _, err := p.Evaluate(map[string]interface{}{"x": "y"}); err == nil {
		t.Fatal("expected an error for unknown operator")
	}
}

func TestBuildDeckConditionalInclusion(t *testing.T) {
	tpl := reportTemplate()

	d, err := BuildDeck(tpl, reportData(125))
	if err != nil {
		t.Fatalf("BuildDeck: %v", err)
	}
	if d.SlideCount() != 2 {
		t.Fatalf("revenue 125: slide count = %d, want 2", d.SlideCount())
	}

	d, err = BuildDeck(tpl, reportData(75))
	if err != nil {
		t.Fatalf("BuildDeck: %v", err)
	}
	if d.SlideCount() != 1 {
		t.Fatalf("revenue 75: slide count = %d, want 1", d.SlideCount())
	}
}

func TestBuildDeckSubstitutesText(t *testing.T) {
	d, err := BuildDeck(reportTemplate(), reportData(125))
	if err != nil {
		t.Fatalf("BuildDeck: %v", err)
	}
	slide, _ := d.Slide(0)
	shape, _ := slide.Shape(0)
	if got := shape.Text.PlainText(); got != "X - Q1 2024" {
		t.Errorf("title text = %q, want %q", got, "X - Q1 2024")
	}
	slide, _ = d.Slide(1)
	shape, _ = slide.Shape(0)
	if got := shape.Text.PlainText(); got != "Revenue: 125" {
		t.Errorf("revenue text = %q, want %q", got, "Revenue: 125")
	}
}

func TestBuildDeckChartSubstitution(t *testing.T) {
	tpl := &Template{
		Name: "chart",
		Slides: []TemplateSlide{{
			Layout: deck.LayoutBlank,
			Elements: []Element{{
				Type: "chart", Left: 1, Top: 1, Width: 8, Height: 5,
				Chart: &ChartSpec{
					ChartType:  "column",
					Title:      "{{report.period}} Revenue",
					Categories: []string{"{{regions.0}}", "{{regions.1}}"},
					Series:     []SeriesSpec{{Name: "{{report.year}}", Values: []float64{10, 20}}},
				},
			}},
		}},
	}
	data := map[string]interface{}{
		"report":  map[string]interface{}{"period": "Q1", "year": float64(2024)},
		"regions": []interface{}{"EMEA", "APAC"},
	}

	d, err := BuildDeck(tpl, data)
	if err != nil {
		t.Fatalf("BuildDeck: %v", err)
	}
	slide, _ := d.Slide(0)
	shape, _ := slide.Shape(0)
	chart := shape.Chart
	if chart == nil {
		t.Fatal("expected a chart shape")
	}
	if chart.Title != "Q1 Revenue" {
		t.Errorf("title = %q", chart.Title)
	}
	if chart.Categories[0] != "EMEA" || chart.Categories[1] != "APAC" {
		t.Errorf("categories = %v", chart.Categories)
	}
	if chart.Series[0].Name != "2024" {
		t.Errorf("series name = %q", chart.Series[0].Name)
	}
}

func TestBuildDeckTableData(t *testing.T) {
	tpl := &Template{
		Name: "table",
		Slides: []TemplateSlide{{
			Layout: deck.LayoutBlank,
			Elements: []Element{{
				Type: "table", Left: 1, Top: 1, Width: 8, Height: 3,
				Table: &TableSpec{
					Headers: []string{"Region", "Revenue"},
					Data:    [][]string{{"EMEA", "{{emea}}"}, {"APAC", "{{apac}}"}},
				},
			}},
		}},
	}
	data := map[string]interface{}{"emea": float64(120), "apac": float64(96)}

	d, err := BuildDeck(tpl, data)
	if err != nil {
		t.Fatalf("BuildDeck: %v", err)
	}
	slide, _ := d.Slide(0)
	table, err := slide.TableAt(0)
	if err != nil {
		t.Fatalf("TableAt: %v", err)
	}
	if table.RowCount() != 3 || table.ColCount() != 2 {
		t.Fatalf("table = %dx%d, want 3x2", table.RowCount(), table.ColCount())
	}
	cell, _ := table.Cell(1, 1)
	if got := cell.Frame.PlainText(); got != "120" {
		t.Errorf("cell[1][1] = %q, want 120", got)
	}
}

func TestValidateTemplate(t *testing.T) {
	cases := []struct {
		name string
		tpl  Template
	}{
		{"missing name", Template{Slides: []TemplateSlide{{Elements: []Element{{Type: "text"}}}}}},
		{"no slides", Template{Name: "t"}},
		{"slide without elements", Template{Name: "t", Slides: []TemplateSlide{{Layout: 0}}}},
		{"unknown element type", Template{Name: "t", Slides: []TemplateSlide{{
			Elements: []Element{{Type: "video"}},
		}}}},
		{"unknown operator", Template{Name: "t", Slides: []TemplateSlide{{
			Condition: &Predicate{Field: "x", Operator: "matches"},
			Elements:  []Element{{Type: "text"}},
		}}}},
		{"chart without series", Template{Name: "t", Slides: []TemplateSlide{{
			Elements: []Element{{Type: "chart", Chart: &ChartSpec{ChartType: "column"}}},
		}}}},
	}
	for _, tc := range cases {
		err := tc.tpl.Validate()
		var te *tools.ToolError
		if !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
			t.Errorf("%s: err = %v, want bad_argument", tc.name, err)
		}
	}
}

func TestStoreAssignsSequentialIDs(t *testing.T) {
	s := NewStore()
	id1, err := s.Create(reportTemplate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id2, err := s.Create(reportTemplate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id1 != "tpl_1" || id2 != "tpl_2" {
		t.Errorf("ids = %s, %s", id1, id2)
	}

	if _, err := s.Get("tpl_99"); err == nil {
		t.Error("expected handle_not_found for unknown template")
	}

	s.RecordUse(id1)
	s.RecordUse(id1)
	list := s.List()
	if len(list) != 2 || list[0].ID != "tpl_1" || list[0].UseCount != 2 {
		t.Errorf("list = %+v", list)
	}
}

func TestUpdateContent(t *testing.T) {
	d := deck.New()
	idx, _ := d.AddSlide(deck.LayoutBlank)
	slide, _ := d.Slide(idx)
	slide.AddTextBox(deck.FrameFromInches(1, 1, 8, 1), "Hello {{name}}, welcome to {{venue}}", nil, "")
	slide.AddTextBox(deck.FrameFromInches(1, 3, 8, 1), "No placeholders here", nil, "")

	changes, err := UpdateContent(d, map[string]map[string]interface{}{
		"0": {"name": "Ada"},
	})
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(changes))
	}
	if changes[0].After != "Hello Ada, welcome to {{venue}}" {
		t.Errorf("after = %q", changes[0].After)
	}
	if changes[0].Patch == "" {
		t.Error("expected a patch for the change")
	}

	shape, _ := slide.Shape(0)
	if got := shape.Text.PlainText(); got != "Hello Ada, welcome to {{venue}}" {
		t.Errorf("shape text = %q", got)
	}
}

func TestUpdateContentBadKeys(t *testing.T) {
	d := deck.New()
	d.AddSlide(deck.LayoutBlank)

	_, err := UpdateContent(d, map[string]map[string]interface{}{"two": {}})
	var te *tools.ToolError
	if !errors.As(err, &te) || te.Kind != tools.KindBadArgument {
		t.Fatalf("err = %v, want bad_argument", err)
	}

	_, err = UpdateContent(d, map[string]map[string]interface{}{"5": {}})
	if !errors.As(err, &te) || te.Kind != tools.KindIndexOutOfRange {
		t.Fatalf("err = %v, want index_out_of_range", err)
	}
}
