// Package pdfops converts presentations to PDF through a headless office
// process and interleaves PDF pairs with pdfcpu.
package pdfops

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Converter runs a headless office suite to render a presentation as PDF.
type Converter struct {
	// Command is the converter binary (default: libreoffice).
	Command string
	Logger  *slog.Logger
}

// NewConverter returns a Converter using libreoffice.
func NewConverter(logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{Command: "libreoffice", Logger: logger}
}

// Convert renders src to a PDF in outDir and returns the PDF path. The
// child process is blocking; a non-zero exit or a missing output file is
// fatal — conversion failures are never silently skipped.
func (c *Converter) Convert(ctx context.Context, src, outDir string) (string, error) {
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("convert input: %w", err)
	}
	cmd := exec.CommandContext(ctx, c.Command,
		"--headless", "--convert-to", "pdf", src, "--outdir", outDir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s convert %s: %w: %s",
			c.Command, filepath.Base(src), err, strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	pdf := filepath.Join(outDir, base+".pdf")
	if _, err := os.Stat(pdf); err != nil {
		return "", fmt.Errorf("%s produced no output for %s: %w", c.Command, filepath.Base(src), err)
	}
	c.Logger.Info("converted to pdf", "src", filepath.Base(src), "pdf", filepath.Base(pdf))
	return pdf, nil
}

// Interleave writes a PDF to out alternating pages from a and b
// (a1, b1, a2, b2, …); when one input is longer its tail pages follow in
// order. Implemented as a pdfcpu merge followed by a page collection in
// the interleaved order.
func Interleave(a, b, out string) error {
	for _, f := range []string{a, b} {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("interleave input: %w", err)
		}
	}
	conf := model.NewDefaultConfiguration()
	na, err := api.PageCountFile(a)
	if err != nil {
		return fmt.Errorf("page count %s: %w", filepath.Base(a), err)
	}
	nb, err := api.PageCountFile(b)
	if err != nil {
		return fmt.Errorf("page count %s: %w", filepath.Base(b), err)
	}

	tmp, err := os.MkdirTemp("", "interleave-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	merged := filepath.Join(tmp, "merged.pdf")
	if err := api.MergeCreateFile([]string{a, b}, merged, false, conf); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	if err := api.CollectFile(merged, out, interleaveOrder(na, nb), conf); err != nil {
		return fmt.Errorf("collect pages: %w", err)
	}
	return nil
}

// interleaveOrder returns the 1-based page selection over a merged a+b
// document that alternates the two inputs.
func interleaveOrder(na, nb int) []string {
	var pages []string
	for i := 0; i < na || i < nb; i++ {
		if i < na {
			pages = append(pages, strconv.Itoa(i+1))
		}
		if i < nb {
			pages = append(pages, strconv.Itoa(na+i+1))
		}
	}
	return pages
}
