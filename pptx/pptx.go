// Package pptx manipulates PPTX packages on disk: extraction and repacking
// of the zip container, pruning of repeated media, repair of dangling image
// relationships, and slide-level text restyling.
//
// A Package is a directory tree mirroring an unzipped container. All
// operations mutate the tree in place; callers are expected to work on a
// scratch copy and repack once done.
//
// Usage:
//
//	p, err := pptx.Extract("deck.pptx", workDir, logger)
//	report, err := p.RepairReferences()
//	err = p.Repack("deck_cleaned.pptx")
package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	mediaDir     = "ppt/media"
	slidesDir    = "ppt/slides"
	slideRelsDir = "ppt/slides/_rels"
)

// Package is an unpacked PPTX container rooted at a working directory.
type Package struct {
	Root   string
	logger *slog.Logger
}

// New wraps an already-extracted container directory.
func New(root string, logger *slog.Logger) *Package {
	if logger == nil {
		logger = slog.Default()
	}
	return &Package{Root: root, logger: logger}
}

// Extract decompresses the container at src into workDir and returns the
// resulting Package. workDir is created if needed; existing contents are
// overwritten file by file.
func Extract(src, workDir string, logger *slog.Logger) (*Package, error) {
	if _, err := os.Stat(src); err != nil {
		return nil, fmt.Errorf("presentation file: %w", err)
	}
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open container %s: %w", src, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := extractEntry(f, workDir); err != nil {
			return nil, fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return New(workDir, logger), nil
}

func extractEntry(f *zip.File, workDir string) error {
	rel := filepath.FromSlash(f.Name)
	dst := filepath.Join(workDir, rel)
	// Zip-slip guard: entry must stay under workDir.
	if !strings.HasPrefix(dst, filepath.Clean(workDir)+string(os.PathSeparator)) {
		return fmt.Errorf("entry escapes working directory")
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(dst, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Repack walks the package tree and writes every regular file into a new
// zip archive at dst, using slash paths relative to the package root as
// entry names.
func (p *Package) Repack(dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	zw := zip.NewWriter(out)

	err = filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(p.Root, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		out.Close()
		return fmt.Errorf("repack %s: %w", p.Root, err)
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finalize archive: %w", err)
	}
	return out.Close()
}

var slideNameRe = regexp.MustCompile(`^slide(\d+)\.xml$`)

// SlidePaths returns the absolute paths of all slide parts in deck order.
func (p *Package) SlidePaths() ([]string, error) {
	dir := filepath.Join(p.Root, filepath.FromSlash(slidesDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read slides dir: %w", err)
	}
	type numbered struct {
		n    int
		path string
	}
	var slides []numbered
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := slideNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, numbered{n: n, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].n < slides[j].n })
	paths := make([]string, len(slides))
	for i, s := range slides {
		paths[i] = s.path
	}
	return paths, nil
}

// SlideCount returns the number of slide parts in the package.
func (p *Package) SlideCount() (int, error) {
	paths, err := p.SlidePaths()
	if err != nil {
		return 0, err
	}
	return len(paths), nil
}

// relsPath returns the relationship part for a slide part path.
func relsPath(slidePath string) string {
	return filepath.Join(filepath.Dir(slidePath), "_rels", filepath.Base(slidePath)+".rels")
}

// SlideImages returns the on-disk paths of media files embedded by the
// given slide, resolved through its relationship part. Relationships whose
// target is missing are skipped.
func (p *Package) SlideImages(slidePath string) ([]string, error) {
	data, err := os.ReadFile(relsPath(slidePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read slide rels: %w", err)
	}
	rels, err := parseRelationships(data)
	if err != nil {
		return nil, fmt.Errorf("parse slide rels: %w", err)
	}
	var images []string
	for _, r := range rels {
		if !isImageRel(r) {
			continue
		}
		resolved := filepath.Join(p.Root, filepath.FromSlash(resolveTarget(slidesDir, r.Target)))
		if _, err := os.Stat(resolved); err != nil {
			continue
		}
		images = append(images, resolved)
	}
	return images, nil
}

// Clone copies the package tree into dstDir and returns the copy.
func (p *Package) Clone(dstDir string) (*Package, error) {
	err := filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(p.Root, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0644)
	})
	if err != nil {
		return nil, fmt.Errorf("clone package: %w", err)
	}
	return New(dstDir, p.logger), nil
}
