package pptx

import (
	"fmt"
	"path/filepath"
)

// ContractText rewrites every text run in every slide through translate,
// typically a braille contraction. Traversal covers text frames, table
// cells, and nested groups. The first translation error aborts the pass.
func (p *Package) ContractText(translate func(string) (string, error)) error {
	slides, err := p.SlidePaths()
	if err != nil {
		return err
	}
	for _, path := range slides {
		root, err := loadXMLFile(path)
		if err != nil {
			return err
		}
		changed := false
		for _, body := range textBodies(root) {
			for _, para := range body.Children {
				if para.local() != "p" {
					continue
				}
				for _, r := range para.Children {
					if r.local() != "r" {
						continue
					}
					t := r.child("t")
					if t == nil || t.Text == "" {
						continue
					}
					out, err := translate(t.Text)
					if err != nil {
						return fmt.Errorf("translate run in %s: %w", filepath.Base(path), err)
					}
					if out != t.Text {
						t.Text = out
						changed = true
					}
				}
			}
		}
		if !changed {
			continue
		}
		if err := saveXMLFile(path, root); err != nil {
			return fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}
