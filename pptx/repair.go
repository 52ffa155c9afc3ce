package pptx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RepairReport summarizes one RepairReferences pass.
type RepairReport struct {
	RelationshipsRemoved int
	PicturesRemoved      int
	SlidesRewritten      int
}

// RepairReferences walks every slide relationship part, drops image
// relationships whose target no longer exists on disk, and removes the
// picture elements that referenced them from the slide parts.
//
// After completion every remaining image relationship resolves to an
// existing media file and every remaining picture references a relationship
// still present in its slide's rels. Parts with nothing to remove are left
// byte-identical, so a second pass is a no-op.
//
// A missing _rels directory and malformed XML are both fatal; this routine
// does not attempt best-effort salvage of a broken package.
func (p *Package) RepairReferences() (*RepairReport, error) {
	relsDir := filepath.Join(p.Root, filepath.FromSlash(slideRelsDir))
	entries, err := os.ReadDir(relsDir)
	if err != nil {
		return nil, fmt.Errorf("slide rels directory: %w", err)
	}

	report := &RepairReport{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".rels") {
			continue
		}
		if err := p.repairSlide(relsDir, e.Name(), report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (p *Package) repairSlide(relsDir, relsName string, report *RepairReport) error {
	relsFile := filepath.Join(relsDir, relsName)
	data, err := os.ReadFile(relsFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", relsName, err)
	}
	rels, err := parseRelationships(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", relsName, err)
	}

	removed := make(map[string]bool)
	for _, r := range rels {
		if !isImageRel(r) {
			continue
		}
		resolved := resolveTarget(slidesDir, r.Target)
		onDisk := filepath.Join(p.Root, filepath.FromSlash(resolved))
		if _, err := os.Stat(onDisk); os.IsNotExist(err) {
			removed[r.ID] = true
			p.logger.Debug("dangling image relationship",
				"rels", relsName, "id", r.ID, "target", r.Target)
		} else if err != nil {
			return fmt.Errorf("stat %s: %w", resolved, err)
		}
	}
	if len(removed) == 0 {
		return nil
	}

	edited, nRels, err := removeRelationships(data, removed)
	if err != nil {
		return fmt.Errorf("edit %s: %w", relsName, err)
	}
	if err := os.WriteFile(relsFile, edited, 0644); err != nil {
		return fmt.Errorf("write %s: %w", relsName, err)
	}
	report.RelationshipsRemoved += nRels

	// The slide part carries the same name minus the .rels suffix and lives
	// one level up from _rels.
	slideFile := filepath.Join(filepath.Dir(relsDir), strings.TrimSuffix(relsName, ".rels"))
	slideData, err := os.ReadFile(slideFile)
	if err != nil {
		return fmt.Errorf("read slide for %s: %w", relsName, err)
	}
	editedSlide, nPics, err := removePictures(slideData, removed)
	if err != nil {
		return fmt.Errorf("edit slide for %s: %w", relsName, err)
	}
	if nPics > 0 {
		if err := os.WriteFile(slideFile, editedSlide, 0644); err != nil {
			return fmt.Errorf("write slide for %s: %w", relsName, err)
		}
		report.PicturesRemoved += nPics
		report.SlidesRewritten++
	}
	p.logger.Info("repaired slide references",
		"slide", filepath.Base(slideFile), "relationships", nRels, "pictures", nPics)
	return nil
}
