package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Write serializes the deck to outPath as a presentation archive. The file
// is written to a temporary sibling first and renamed into place so a
// failed save never leaves a truncated document behind.
func Write(d *deck.Deck, outPath string) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return tools.NewIOError(err, "creating output directory %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".slidesmith-*.pptx")
	if err != nil {
		return tools.NewIOError(err, "creating temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	zw := zip.NewWriter(tmp)
	if err := writeArchive(zw, d, outPath); err != nil {
		zw.Close()
		cleanup()
		return err
	}
	if err := zw.Close(); err != nil {
		cleanup()
		return tools.NewIOError(err, "finalizing archive")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return tools.NewIOError(err, "closing temporary file")
	}
	if err := os.Rename(tmpName, outPath); err != nil {
		os.Remove(tmpName)
		return tools.NewIOError(err, "moving archive into place at %s", outPath)
	}
	return nil
}

func writeArchive(zw *zip.Writer, d *deck.Deck, outPath string) error {
	masters, layouts := masterLayouts(d)
	generated := len(masters) == 0
	if generated {
		masters = []string{"ppt/slideMasters/slideMaster1.xml"}
		layouts = make([]string, layoutPartCount)
		for i := range layouts {
			layouts[i] = fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1)
		}
	}

	parts := make(map[string]string)
	overrides := make(map[string]string)

	// Scaffold parts: generated for blank decks, preserved bytes otherwise.
	if generated {
		parts["ppt/theme/theme1.xml"] = themeXML
		overrides["ppt/theme/theme1.xml"] = ctTheme
		parts["ppt/slideMasters/slideMaster1.xml"] = masterXML(layoutPartCount)
		parts["ppt/slideMasters/_rels/slideMaster1.xml.rels"] = masterRelsXML(layoutPartCount)
		overrides["ppt/slideMasters/slideMaster1.xml"] = ctSlideMaster
		for i, name := range generatedLayoutNames {
			part := layouts[i]
			parts[part] = layoutXML(name)
			parts["ppt/slideLayouts/_rels/"+path.Base(part)+".rels"] = layoutRelsXML
			overrides[part] = ctSlideLayout
		}
		parts["ppt/presProps.xml"] = presPropsXML
		overrides["ppt/presProps.xml"] = ctPresProps
		parts["ppt/viewProps.xml"] = viewPropsXML
		overrides["ppt/viewProps.xml"] = ctViewProps
		parts["ppt/tableStyles.xml"] = tableStylesXML
		overrides["ppt/tableStyles.xml"] = ctTableStyles
	} else {
		for _, name := range d.PartNames() {
			data, _ := d.Part(name)
			parts[name] = string(data)
			switch {
			case strings.HasPrefix(name, "ppt/slideMasters/_rels/"),
				strings.HasPrefix(name, "ppt/slideLayouts/_rels/"),
				strings.HasPrefix(name, "ppt/theme/_rels/"):
			case strings.HasPrefix(name, "ppt/slideMasters/"):
				overrides[name] = ctSlideMaster
			case strings.HasPrefix(name, "ppt/slideLayouts/"):
				overrides[name] = ctSlideLayout
			case strings.HasPrefix(name, "ppt/theme/"):
				overrides[name] = ctTheme
			case name == "ppt/presProps.xml":
				overrides[name] = ctPresProps
			case name == "ppt/viewProps.xml":
				overrides[name] = ctViewProps
			case name == "ppt/tableStyles.xml":
				overrides[name] = ctTableStyles
			}
		}
	}

	// Slides, their relationships, and chart parts. Chart part numbering is
	// global across the deck.
	chartSeq := 0
	for i, slide := range d.Slides {
		slideName := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		chartTargets := make(map[int]string)
		for si, shape := range slide.Shapes {
			if shape.Kind == deck.KindChart && shape.Chart != nil {
				chartSeq++
				chartPart := fmt.Sprintf("ppt/charts/chart%d.xml", chartSeq)
				parts[chartPart] = chartXML(shape.Chart)
				overrides[chartPart] = ctChart
				chartTargets[si] = "../charts/" + path.Base(chartPart)
			}
		}
		rels := &relList{}
		rels.add(relTypeSlideLayout, layoutTarget(layouts, slide.Layout))
		parts[slideName] = slideXML(slide, rels, func(idx int) string { return chartTargets[idx] })
		parts["ppt/slides/_rels/"+path.Base(slideName)+".rels"] = rels.xml()
		overrides[slideName] = ctSlide
	}

	// Presentation part and its relationships.
	presRels := &relList{}
	var masterIDs []string
	for _, m := range masters {
		masterIDs = append(masterIDs, presRels.add(relTypeSlideMaster, strings.TrimPrefix(m, "ppt/")))
	}
	var slideIDs []string
	for i := range d.Slides {
		slideIDs = append(slideIDs, presRels.add(relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1)))
	}
	for _, aux := range []struct{ part, relTyp string }{
		{"ppt/presProps.xml", relTypePresProps},
		{"ppt/viewProps.xml", relTypeViewProps},
		{"ppt/tableStyles.xml", relTypeTableStyles},
	} {
		if _, ok := parts[aux.part]; ok {
			presRels.add(aux.relTyp, strings.TrimPrefix(aux.part, "ppt/"))
		}
	}
	for _, name := range sortedPartNames(parts) {
		if strings.HasPrefix(name, "ppt/theme/") && !strings.Contains(name, "_rels") {
			presRels.add(relTypeTheme, strings.TrimPrefix(name, "ppt/"))
		}
	}
	parts["ppt/presentation.xml"] = presentationXML(d, masterIDs, slideIDs)
	parts["ppt/_rels/presentation.xml.rels"] = presRels.xml()
	overrides["ppt/presentation.xml"] = ctPresentation

	parts["_rels/.rels"] = rootRelsXML
	title := strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath))
	parts["docProps/core.xml"] = corePropsXML(title)
	overrides["docProps/core.xml"] = ctCoreProps
	parts["docProps/app.xml"] = appPropsXML(len(d.Slides))
	overrides["docProps/app.xml"] = ctExtProps

	mediaExts := make(map[string]bool)
	for _, key := range d.MediaKeys() {
		ext := strings.TrimPrefix(path.Ext(key), ".")
		if ext != "" {
			mediaExts[strings.ToLower(ext)] = true
		}
	}
	parts["[Content_Types].xml"] = contentTypesXML(mediaExts, overrides)

	for _, name := range sortedPartNames(parts) {
		w, err := zw.Create(name)
		if err != nil {
			return tools.NewIOError(err, "adding part %s", name)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			return tools.NewIOError(err, "writing part %s", name)
		}
	}
	for _, key := range sortedKeys(d.MediaKeys()) {
		data, _ := d.Media(key)
		w, err := zw.Create("ppt/" + key)
		if err != nil {
			return tools.NewIOError(err, "adding media %s", key)
		}
		if _, err := w.Write(data); err != nil {
			return tools.NewIOError(err, "writing media %s", key)
		}
	}
	return nil
}

func presentationXML(d *deck.Deck, masterIDs, slideIDs []string) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:presentation xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsRelationships + `" xmlns:p="` + nsPresentationML + `">`)
	sb.WriteString(`<p:sldMasterIdLst>`)
	for i, rID := range masterIDs {
		fmt.Fprintf(&sb, `<p:sldMasterId id="%d" r:id="%s"/>`, 2147483648+i, rID)
	}
	sb.WriteString(`</p:sldMasterIdLst>`)
	if len(slideIDs) > 0 {
		sb.WriteString(`<p:sldIdLst>`)
		for i, rID := range slideIDs {
			fmt.Fprintf(&sb, `<p:sldId id="%d" r:id="%s"/>`, 256+i, rID)
		}
		sb.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&sb, `<p:sldSz cx="%d" cy="%d"/>`, d.SlideWidth, d.SlideHeight)
	fmt.Fprintf(&sb, `<p:notesSz cx="%d" cy="%d"/>`, d.SlideHeight, d.SlideWidth)
	sb.WriteString(`</p:presentation>`)
	return sb.String()
}

var mediaContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"svg":  "image/svg+xml",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
}

func contentTypesXML(mediaExts map[string]bool, overrides map[string]string) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	exts := make([]string, 0, len(mediaExts))
	for ext := range mediaExts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		ct := mediaContentTypes[ext]
		if ct == "" {
			ct = "application/octet-stream"
		}
		sb.WriteString(`<Default Extension="` + ext + `" ContentType="` + ct + `"/>`)
	}
	for _, name := range sortedKeys(keysOf(overrides)) {
		sb.WriteString(`<Override PartName="/` + name + `" ContentType="` + overrides[name] + `"/>`)
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

// layoutTarget maps a layout index to the slide-relative target of its
// layout part, clamping indices outside the available set.
func layoutTarget(layouts []string, idx int) string {
	if len(layouts) == 0 {
		return "../slideLayouts/slideLayout1.xml"
	}
	if idx < 0 || idx >= len(layouts) {
		idx = 0
	}
	return "../slideLayouts/" + path.Base(layouts[idx])
}

// masterLayouts returns the preserved master part names and the ordered
// layout part names of the first master. Both are empty for blank decks.
func masterLayouts(d *deck.Deck) ([]string, []string) {
	var masters []string
	for _, name := range d.PartNames() {
		if strings.HasPrefix(name, "ppt/slideMasters/") && !strings.Contains(name, "_rels") &&
			strings.HasSuffix(name, ".xml") {
			masters = append(masters, name)
		}
	}
	if len(masters) == 0 {
		return nil, nil
	}
	masters = sortedKeys(masters)
	layouts := masterLayoutOrder(d, masters[0])
	return masters, layouts
}

// masterLayoutOrder parses a master part's layout id list and resolves
// each r:id through the master's relationships, preserving document order.
func masterLayoutOrder(d *deck.Deck, masterPart string) []string {
	data, ok := d.Part(masterPart)
	if !ok {
		return nil
	}
	var master struct {
		LayoutIDs []struct {
			RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldLayoutIdLst>sldLayoutId"`
	}
	if err := xml.Unmarshal(data, &master); err != nil {
		return nil
	}
	relsName := path.Dir(masterPart) + "/_rels/" + path.Base(masterPart) + ".rels"
	relsData, ok := d.Part(relsName)
	if !ok {
		return nil
	}
	rels, err := parseRelationships(relsData)
	if err != nil {
		return nil
	}
	var layouts []string
	for _, lid := range master.LayoutIDs {
		if target, ok := rels[lid.RID]; ok {
			layouts = append(layouts, resolveTarget(masterPart, target.Target))
		}
	}
	return layouts
}

func sortedPartNames(parts map[string]string) []string {
	return sortedKeys(keysOf(parts))
}

func keysOf[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// sortedKeys orders part names with numeric suffixes in natural order so
// slide10 sorts after slide9.
func sortedKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		pa, na := splitNumericSuffix(a)
		pb, nb := splitNumericSuffix(b)
		if pa == pb && na >= 0 && nb >= 0 {
			return na < nb
		}
		return a < b
	})
	return out
}

// splitNumericSuffix splits "ppt/slides/slide12.xml" into
// ("ppt/slides/slide.xml", 12); names without a trailing number before the
// extension return -1.
func splitNumericSuffix(name string) (string, int) {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	i := len(stem)
	for i > 0 && stem[i-1] >= '0' && stem[i-1] <= '9' {
		i--
	}
	if i == len(stem) {
		return name, -1
	}
	n := 0
	for _, c := range stem[i:] {
		n = n*10 + int(c-'0')
	}
	return stem[:i] + ext, n
}
