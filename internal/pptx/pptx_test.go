package pptx

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
)

func buildSampleDeck(t *testing.T) *deck.Deck {
	t.Helper()
	d := deck.New()
	idx, err := d.AddSlide(deck.LayoutBlank)
	if err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	slide, err := d.Slide(idx)
	if err != nil {
		t.Fatalf("Slide: %v", err)
	}

	titleColor := deck.MustColor("#1F3864")
	slide.AddTextBox(deck.FrameFromInches(0.5, 0.4, 9, 1), "Quarterly Review",
		&deck.Font{Name: "Arial", Size: 32, Bold: true, Color: &titleColor}, deck.AlignCenter)

	tblIdx, err := slide.AddTable(2, 3, deck.FrameFromInches(0.5, 2, 9, 2), true)
	if err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	table, err := slide.TableAt(tblIdx)
	if err != nil {
		t.Fatalf("TableAt: %v", err)
	}
	if err := table.SetCell(0, 0, "Region", nil, "", nil); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := table.SetCell(1, 0, "EMEA", nil, "", nil); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	chart, err := deck.NewChart(deck.ChartColumn, "Revenue", []string{"Q1", "Q2"},
		[]deck.Series{{Name: "2025", Values: []float64{10, 12.5}}})
	if err != nil {
		t.Fatalf("NewChart: %v", err)
	}
	slide.AddChart(deck.FrameFromInches(1, 4, 5, 3), chart)

	accent := deck.MustColor("#ED7D31")
	slide.AddAutoShape(deck.FrameFromInches(7, 4, 2, 1), "chevron", &accent, nil, "Go", &deck.Font{Size: 14})

	mediaKey := d.AddMedia([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png")
	slide.AddImage(deck.FrameFromInches(7, 5.5, 2, 1.5), mediaKey, "https://example.com/logo.png", "logo")

	slide.SetBackgroundColor(deck.MustColor("#F2F2F2"))

	if _, err := d.AddSlide(0); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	return d
}

func TestWriteReadRoundTrip(t *testing.T) {
	d := buildSampleDeck(t)
	out := filepath.Join(t.TempDir(), "roundtrip.pptx")
	if err := Write(d, out); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.SlideCount() != 2 {
		t.Fatalf("slide count = %d, want 2", got.SlideCount())
	}
	if got.SlideWidth != deck.DefaultSlideWidth || got.SlideHeight != deck.DefaultSlideHeight {
		t.Errorf("slide size = %dx%d, want %dx%d",
			got.SlideWidth, got.SlideHeight, deck.DefaultSlideWidth, deck.DefaultSlideHeight)
	}
	if !got.Loaded() {
		t.Error("deck read from disk should report Loaded")
	}

	s0, err := got.Slide(0)
	if err != nil {
		t.Fatalf("Slide(0): %v", err)
	}
	if s0.Layout != deck.LayoutBlank {
		t.Errorf("slide 0 layout = %d, want %d", s0.Layout, deck.LayoutBlank)
	}
	if len(s0.Shapes) != 5 {
		t.Fatalf("slide 0 has %d shapes, want 5", len(s0.Shapes))
	}

	tb := s0.Shapes[0]
	if tb.Kind != deck.KindText {
		t.Errorf("shape 0 kind = %s, want text", tb.Kind)
	}
	if text := tb.Text.PlainText(); text != "Quarterly Review" {
		t.Errorf("shape 0 text = %q", text)
	}
	if tb.Frame.Left != deck.FromInches(0.5) || tb.Frame.Width != deck.FromInches(9) {
		t.Errorf("shape 0 frame = %+v", tb.Frame)
	}
	para := tb.Text.Paragraphs[0]
	if para.Alignment != deck.AlignCenter {
		t.Errorf("shape 0 alignment = %q, want center", para.Alignment)
	}
	font := para.Runs[0].Font
	if font == nil {
		t.Fatal("shape 0 run font missing")
	}
	if font.Name != "Arial" || font.Size != 32 || !font.Bold {
		t.Errorf("shape 0 font = %+v", font)
	}
	if font.Color == nil || font.Color.Hex() != "#1F3864" {
		t.Errorf("shape 0 color = %v", font.Color)
	}

	tbl := s0.Shapes[1]
	if tbl.Kind != deck.KindTable {
		t.Fatalf("shape 1 kind = %s, want table", tbl.Kind)
	}
	if tbl.Table.RowCount() != 2 || tbl.Table.ColCount() != 3 {
		t.Errorf("table = %dx%d, want 2x3", tbl.Table.RowCount(), tbl.Table.ColCount())
	}
	if !tbl.Table.HeaderRow {
		t.Error("table lost header row flag")
	}
	head, err := tbl.Table.Cell(0, 0)
	if err != nil {
		t.Fatalf("Cell: %v", err)
	}
	if text := head.Frame.PlainText(); text != "Region" {
		t.Errorf("header cell text = %q", text)
	}
	if head.Fill == nil || head.Fill.Hex() != "#4472C4" {
		t.Errorf("header cell fill = %v", head.Fill)
	}
	if head.Margins != deck.DefaultMargins() {
		t.Errorf("header cell margins = %+v", head.Margins)
	}
	body, _ := tbl.Table.Cell(1, 0)
	if text := body.Frame.PlainText(); text != "EMEA" {
		t.Errorf("body cell text = %q", text)
	}

	ch := s0.Shapes[2]
	if ch.Kind != deck.KindChart {
		t.Fatalf("shape 2 kind = %s, want chart", ch.Kind)
	}
	if ch.Chart.Kind != deck.ChartColumn || ch.Chart.Title != "Revenue" {
		t.Errorf("chart = kind %s title %q", ch.Chart.Kind, ch.Chart.Title)
	}
	if len(ch.Chart.Categories) != 2 || ch.Chart.Categories[0] != "Q1" || ch.Chart.Categories[1] != "Q2" {
		t.Errorf("chart categories = %v", ch.Chart.Categories)
	}
	if len(ch.Chart.Series) != 1 || ch.Chart.Series[0].Name != "2025" {
		t.Fatalf("chart series = %+v", ch.Chart.Series)
	}
	if v := ch.Chart.Series[0].Values; len(v) != 2 || v[0] != 10 || v[1] != 12.5 {
		t.Errorf("chart values = %v", v)
	}

	as := s0.Shapes[3]
	if as.Kind != deck.KindAutoShape {
		t.Fatalf("shape 3 kind = %s, want auto_shape", as.Kind)
	}
	if as.Auto.Preset != "chevron" {
		t.Errorf("auto shape preset = %q", as.Auto.Preset)
	}
	if as.Auto.Fill == nil || as.Auto.Fill.Hex() != "#ED7D31" {
		t.Errorf("auto shape fill = %v", as.Auto.Fill)
	}
	if text := as.Text.PlainText(); text != "Go" {
		t.Errorf("auto shape text = %q", text)
	}

	pic := s0.Shapes[4]
	if pic.Kind != deck.KindImage {
		t.Fatalf("shape 4 kind = %s, want image", pic.Kind)
	}
	if pic.Image.AltText != "logo" {
		t.Errorf("image alt text = %q", pic.Image.AltText)
	}
	data, ok := got.Media(pic.Image.Media)
	if !ok {
		t.Fatalf("media %q missing after reload", pic.Image.Media)
	}
	if !bytes.Equal(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		t.Error("media bytes changed across save/load")
	}

	if s0.Background == nil || s0.Background.Color == nil || s0.Background.Color.Hex() != "#F2F2F2" {
		t.Errorf("background = %+v", s0.Background)
	}

	s1, err := got.Slide(1)
	if err != nil {
		t.Fatalf("Slide(1): %v", err)
	}
	if s1.Layout != 0 {
		t.Errorf("slide 1 layout = %d, want 0", s1.Layout)
	}
}

func TestSaveLoadedDeckKeepsScaffold(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.pptx")
	if err := Write(buildSampleDeck(t), first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	d, err := Read(first)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if _, err := d.AddSlide(2); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	second := filepath.Join(dir, "second.pptx")
	if err := Write(d, second); err != nil {
		t.Fatalf("Write loaded deck: %v", err)
	}

	got, err := Read(second)
	if err != nil {
		t.Fatalf("Read second: %v", err)
	}
	if got.SlideCount() != 3 {
		t.Fatalf("slide count = %d, want 3", got.SlideCount())
	}
	s2, _ := got.Slide(2)
	if s2.Layout != 2 {
		t.Errorf("appended slide layout = %d, want 2", s2.Layout)
	}
	s0, _ := got.Slide(0)
	if text := s0.Shapes[0].Text.PlainText(); text != "Quarterly Review" {
		t.Errorf("slide 0 text after two cycles = %q", text)
	}
}

func TestResolveOutputPath(t *testing.T) {
	safe := filepath.Join(t.TempDir(), "safe")
	tests := []struct {
		name       string
		requested  string
		want       string
		redirected bool
	}{
		{"relative", "deck.pptx", filepath.Join(safe, "deck.pptx"), true},
		{"relative subdir", "reports/deck.pptx", filepath.Join(safe, "reports", "deck.pptx"), true},
		{"missing extension", "deck", filepath.Join(safe, "deck.pptx"), true},
		{"escape flattened", "../../etc/deck.pptx", filepath.Join(safe, "deck.pptx"), true},
		{"absolute", filepath.Join(safe, "abs.pptx"), filepath.Join(safe, "abs.pptx"), false},
		{"protected location", "/opt/app/deck.pptx", filepath.Join(safe, "deck.pptx"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, redirected, err := ResolveOutputPath(tt.requested, safe)
			if err != nil {
				t.Fatalf("ResolveOutputPath(%q): %v", tt.requested, err)
			}
			if got != tt.want {
				t.Errorf("path = %q, want %q", got, tt.want)
			}
			if redirected != tt.redirected {
				t.Errorf("redirected = %v, want %v", redirected, tt.redirected)
			}
		})
	}

	if _, _, err := ResolveOutputPath("  ", safe); err == nil {
		t.Error("empty path should fail")
	}
}

func TestPartNaturalOrder(t *testing.T) {
	got := sortedKeys([]string{
		"ppt/slides/slide10.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/slide1.xml",
	})
	want := []string{
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/slide10.xml",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
