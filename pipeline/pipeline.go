// Package pipeline orchestrates the full accessibility conversion: clean
// the deck, describe its images, restyle it for braille-first reading, and
// pair slides with their descriptions in one interleaved PDF.
//
// Everything runs sequentially; any failure aborts the run. There is no
// retry and no silent continuation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/accessdeck/accessdeck/braille"
	"github.com/accessdeck/accessdeck/caption"
	"github.com/accessdeck/accessdeck/pdfops"
	"github.com/accessdeck/accessdeck/pptx"
)

// Artifacts lists the files a run produces, all next to the input deck.
type Artifacts struct {
	Cleaned     string // <base>_cleaned_images.pptx
	Notes       string // <base>_notes.pptx
	Braille     string // <base>_braille.pptx
	BraillePDF  string // <base>_braille.pdf
	NotesPDF    string // <base>_notes.pdf
	Interleaved string // <base>_braille_with_notes.pdf
}

// artifactPaths derives the output file set from the input path.
func artifactPaths(input string) *Artifacts {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return &Artifacts{
		Cleaned:     base + "_cleaned_images.pptx",
		Notes:       base + "_notes.pptx",
		Braille:     base + "_braille.pptx",
		BraillePDF:  base + "_braille.pdf",
		NotesPDF:    base + "_notes.pdf",
		Interleaved: base + "_braille_with_notes.pdf",
	}
}

// Pipeline runs the conversion.
type Pipeline struct {
	cfg        *Config
	logger     *slog.Logger
	translator *braille.Translator
	describer  *caption.Describer
	converter  *pdfops.Converter
}

// New builds a Pipeline from cfg. The caption cache is opened here when a
// service credential is configured.
func New(cfg *Config, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pl := &Pipeline{cfg: cfg, logger: logger}

	pl.converter = pdfops.NewConverter(logger)
	pl.converter.Command = cfg.Converter

	if cfg.ContractBraille {
		pl.translator = &braille.Translator{
			Command: cfg.Braille.Command,
			Table:   cfg.Braille.Table,
		}
	}

	if cfg.Caption.APIKey != "" {
		client := caption.New(caption.Config{
			BaseURL: cfg.Caption.BaseURL,
			APIKey:  cfg.Caption.APIKey,
			Model:   cfg.Caption.Model,
			Logger:  logger,
		})
		var cache *caption.Cache
		if cfg.Caption.CachePath != "" {
			var err error
			cache, err = caption.OpenCache(cfg.Caption.CachePath)
			if err != nil {
				return nil, err
			}
		}
		pl.describer = caption.NewDescriber(client, cache, logger)
	}

	return pl, nil
}

// Run executes the full conversion for one input deck and returns the
// produced artifact paths. The scratch working directory is removed on
// every exit path.
func (pl *Pipeline) Run(ctx context.Context, input string) (*Artifacts, error) {
	out := artifactPaths(input)
	outDir := filepath.Dir(input)

	workDir, err := os.MkdirTemp("", "accessdeck-")
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Clean: extract, prune repeated media, repair dangling references.
	pkg, err := pptx.Extract(input, workDir, pl.logger)
	if err != nil {
		return nil, err
	}
	slideCount, err := pkg.SlideCount()
	if err != nil {
		return nil, err
	}
	pruned, err := pkg.PruneRepeatedMedia(slideCount)
	if err != nil {
		return nil, err
	}
	report, err := pkg.RepairReferences()
	if err != nil {
		return nil, err
	}
	pl.logger.Info("deck cleaned",
		"slides", slideCount,
		"media_pruned", len(pruned),
		"relationships_removed", report.RelationshipsRemoved,
		"pictures_removed", report.PicturesRemoved)
	if err := pkg.Repack(out.Cleaned); err != nil {
		return nil, err
	}

	// Notes deck from per-slide image descriptions.
	notes, err := pl.slideNotes(ctx, pkg)
	if err != nil {
		return nil, err
	}
	if err := pkg.WriteNotesDeck(out.Notes, notes); err != nil {
		return nil, err
	}

	// Braille deck: restyle the cleaned package in place, then repack.
	err = pkg.NormalizeStyle(pptx.StyleConfig{
		FontName:      pl.cfg.Font.Name,
		FontSizePt:    pl.cfg.Font.SizePt,
		ApplyFontSize: pl.cfg.Font.ApplySize,
		CharSpacingPt: pl.cfg.Font.SpacingPt,
		LineSpacing:   pl.cfg.LineSpacing,
	})
	if err != nil {
		return nil, err
	}
	if pl.translator != nil {
		translate := func(text string) (string, error) {
			return pl.translator.Translate(ctx, text)
		}
		if err := pkg.ContractText(translate); err != nil {
			return nil, err
		}
	}
	if err := pkg.Repack(out.Braille); err != nil {
		return nil, err
	}

	// PDF rendering and the interleaved slide/description pairing.
	if out.BraillePDF, err = pl.converter.Convert(ctx, out.Braille, outDir); err != nil {
		return nil, err
	}
	if out.NotesPDF, err = pl.converter.Convert(ctx, out.Notes, outDir); err != nil {
		return nil, err
	}
	if err := pdfops.Interleave(out.BraillePDF, out.NotesPDF, out.Interleaved); err != nil {
		return nil, err
	}

	pl.logger.Info("pipeline complete", "interleaved", out.Interleaved)
	return out, nil
}

// slideNotes produces one description per slide in deck order. Without a
// configured caption service every slide gets the placeholder text.
func (pl *Pipeline) slideNotes(ctx context.Context, pkg *pptx.Package) ([]string, error) {
	slides, err := pkg.SlidePaths()
	if err != nil {
		return nil, err
	}
	notes := make([]string, len(slides))
	for i, slidePath := range slides {
		if pl.describer == nil {
			notes[i] = pptx.PlaceholderNote
			continue
		}
		images, err := pkg.SlideImages(slidePath)
		if err != nil {
			return nil, err
		}
		var parts []string
		for _, img := range images {
			desc, err := pl.describer.DescribeFile(ctx, img)
			if err != nil {
				return nil, fmt.Errorf("describe %s: %w", filepath.Base(img), err)
			}
			parts = append(parts, desc)
		}
		notes[i] = strings.Join(parts, "\n\n")
	}
	return notes, nil
}
