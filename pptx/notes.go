package pptx

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PlaceholderNote is used for slides without a generated description.
const PlaceholderNote = "No description is available for this slide."

// Default 4:3 slide surface and the text box margin, in EMU.
const (
	defaultSlideCx = 9144000
	defaultSlideCy = 6858000
	noteMarginEMU  = 457200 // 0.5 inch
)

// slideSize reads the deck's slide dimensions from ppt/presentation.xml,
// falling back to the standard 4:3 surface.
func (p *Package) slideSize() (cx, cy int64) {
	cx, cy = defaultSlideCx, defaultSlideCy
	root, err := loadXMLFile(filepath.Join(p.Root, "ppt", "presentation.xml"))
	if err != nil {
		return cx, cy
	}
	sldSz := root.child("sldSz")
	if sldSz == nil {
		return cx, cy
	}
	if v, err := strconv.ParseInt(sldSz.attr("cx"), 10, 64); err == nil && v > 0 {
		cx = v
	}
	if v, err := strconv.ParseInt(sldSz.attr("cy"), 10, 64); err == nil && v > 0 {
		cy = v
	}
	return cx, cy
}

// WriteNotesDeck writes a companion deck to dst with one text-only slide
// per source slide. notes[i] is the description for slide i in deck order;
// missing or empty entries get PlaceholderNote. The source package is not
// modified: the deck is built from a scratch clone whose slides are
// replaced with a single word-wrapped text box each.
func (p *Package) WriteNotesDeck(dst string, notes []string) error {
	tmp, err := os.MkdirTemp("", "notesdeck-")
	if err != nil {
		return fmt.Errorf("scratch dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	clone, err := p.Clone(tmp)
	if err != nil {
		return err
	}
	slides, err := clone.SlidePaths()
	if err != nil {
		return err
	}
	cx, cy := p.slideSize()
	for i, path := range slides {
		text := PlaceholderNote
		if i < len(notes) && notes[i] != "" {
			text = notes[i]
		}
		if err := replaceWithTextBox(path, text, cx, cy); err != nil {
			return fmt.Errorf("notes slide %d: %w", i+1, err)
		}
	}
	p.logger.Info("notes deck written", "slides", len(slides), "dst", dst)
	return clone.Repack(dst)
}

// replaceWithTextBox drops every shape from the slide's tree and installs a
// single text box holding text. The two mandatory group property elements
// are kept.
func replaceWithTextBox(path, text string, cx, cy int64) error {
	root, err := loadXMLFile(path)
	if err != nil {
		return err
	}
	tree := findSpTree(root)
	if tree == nil {
		return fmt.Errorf("no shape tree in %s", filepath.Base(path))
	}
	var kept []*Node
	for _, c := range tree.Children {
		switch c.local() {
		case "nvGrpSpPr", "grpSpPr":
			kept = append(kept, c)
		}
	}
	tree.Children = append(kept, textBoxShape(text, cx, cy))
	return saveXMLFile(path, root)
}

func textBoxShape(text string, cx, cy int64) *Node {
	cNvPr := &Node{Name: "p:cNvPr"}
	cNvPr.setAttr("id", "2")
	cNvPr.setAttr("name", "Slide Description")
	cNvSpPr := &Node{Name: "p:cNvSpPr"}
	cNvSpPr.setAttr("txBox", "1")
	nvSpPr := &Node{Name: "p:nvSpPr", Children: []*Node{cNvPr, cNvSpPr, {Name: "p:nvPr"}}}

	off := &Node{Name: "a:off"}
	off.setAttr("x", strconv.FormatInt(noteMarginEMU, 10))
	off.setAttr("y", strconv.FormatInt(noteMarginEMU, 10))
	ext := &Node{Name: "a:ext"}
	ext.setAttr("cx", strconv.FormatInt(cx-2*noteMarginEMU, 10))
	ext.setAttr("cy", strconv.FormatInt(cy-2*noteMarginEMU, 10))
	prstGeom := &Node{Name: "a:prstGeom", Children: []*Node{{Name: "a:avLst"}}}
	prstGeom.setAttr("prst", "rect")
	spPr := &Node{Name: "p:spPr", Children: []*Node{
		{Name: "a:xfrm", Children: []*Node{off, ext}},
		prstGeom,
	}}

	bodyPr := &Node{Name: "a:bodyPr"}
	bodyPr.setAttr("wrap", "square")
	txBody := &Node{Name: "p:txBody", Children: []*Node{bodyPr, {Name: "a:lstStyle"}}}
	for _, line := range strings.Split(text, "\n") {
		pPr := &Node{Name: "a:pPr"}
		pPr.setAttr("algn", "l")
		para := &Node{Name: "a:p", Children: []*Node{pPr}}
		if line != "" {
			rPr := &Node{Name: "a:rPr"}
			rPr.setAttr("lang", "en-US")
			rPr.setAttr("sz", "1800")
			para.Children = append(para.Children, &Node{
				Name:     "a:r",
				Children: []*Node{rPr, {Name: "a:t", Text: line}},
			})
		}
		txBody.Children = append(txBody.Children, para)
	}

	return &Node{Name: "p:sp", Children: []*Node{nvSpPr, spPr, txBody}}
}
