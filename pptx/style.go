package pptx

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// StyleConfig controls run and paragraph restyling. Zero values disable the
// corresponding override except for italic and color, which are always
// forced (non-italic, solid black) for readability.
type StyleConfig struct {
	// FontName replaces the latin typeface of every run when non-empty.
	FontName string
	// FontSizePt is applied only when ApplyFontSize is set.
	FontSizePt    float64
	ApplyFontSize bool
	// CharSpacingPt sets character spacing in points when > 0.
	CharSpacingPt float64
	// LineSpacing sets paragraph line spacing as a multiple (1.2 = 120%)
	// when > 0.
	LineSpacing float64
}

// NormalizeStyle rewrites the text styling of every run and paragraph in
// every slide per cfg, traversing nested groups and table cells uniformly.
// Shapes that are not text frames, tables, or groups are left untouched.
func (p *Package) NormalizeStyle(cfg StyleConfig) error {
	slides, err := p.SlidePaths()
	if err != nil {
		return err
	}
	for _, path := range slides {
		root, err := loadXMLFile(path)
		if err != nil {
			return err
		}
		for _, body := range textBodies(root) {
			for _, para := range body.Children {
				if para.local() != "p" {
					continue
				}
				normalizeParagraph(para, cfg)
			}
		}
		if err := saveXMLFile(path, root); err != nil {
			return fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		p.logger.Debug("normalized slide style", "slide", filepath.Base(path))
	}
	return nil
}

func normalizeParagraph(para *Node, cfg StyleConfig) {
	if cfg.LineSpacing > 0 {
		pPr := para.child("pPr")
		if pPr == nil {
			pPr = &Node{Name: "a:pPr"}
			para.insertChild(0, pPr)
		}
		pPr.removeChildren("lnSpc")
		// lnSpc leads the pPr child sequence. spcPct is in thousandths of
		// a percent (1.2 → 120000).
		pct := &Node{Name: "a:spcPct"}
		pct.setAttr("val", strconv.Itoa(int(cfg.LineSpacing*100000)))
		pPr.insertChild(0, &Node{Name: "a:lnSpc", Children: []*Node{pct}})
	}
	for _, r := range para.Children {
		if r.local() == "r" {
			normalizeRun(r, cfg)
		}
	}
}

// rPrTail lists the CT_TextCharacterProperties children that must follow
// a:latin in the schema sequence.
var rPrTail = map[string]bool{
	"ea": true, "cs": true, "sym": true,
	"hlinkClick": true, "hlinkMouseOver": true, "rtl": true, "extLst": true,
}

func normalizeRun(run *Node, cfg StyleConfig) {
	rPr := run.child("rPr")
	if rPr == nil {
		rPr = &Node{Name: "a:rPr"}
		run.insertChild(0, rPr)
	}

	rPr.setAttr("i", "0")
	if cfg.CharSpacingPt > 0 {
		// spc is in hundredths of a point.
		rPr.setAttr("spc", strconv.Itoa(int(cfg.CharSpacingPt*100)))
	}
	if cfg.ApplyFontSize && cfg.FontSizePt > 0 {
		rPr.setAttr("sz", strconv.Itoa(int(cfg.FontSizePt*100)))
	}

	// Replace whatever fill the run had with solid black. The fill group
	// sits right after a:ln in the rPr sequence.
	rPr.removeChildren("solidFill", "gradFill", "pattFill", "noFill", "blipFill", "grpFill")
	black := &Node{Name: "a:srgbClr"}
	black.setAttr("val", "000000")
	fillIdx := 0
	for i, c := range rPr.Children {
		if c.local() == "ln" {
			fillIdx = i + 1
		}
	}
	rPr.insertChild(fillIdx, &Node{Name: "a:solidFill", Children: []*Node{black}})

	if cfg.FontName != "" {
		rPr.removeChildren("latin")
		latin := &Node{Name: "a:latin"}
		latin.setAttr("typeface", cfg.FontName)
		idx := len(rPr.Children)
		for i, c := range rPr.Children {
			if rPrTail[c.local()] {
				idx = i
				break
			}
		}
		rPr.insertChild(idx, latin)
	}
}
