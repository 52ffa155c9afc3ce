package pptx

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// hashBufSize is the streaming read size for media hashing.
const hashBufSize = 64 * 1024

// hashFile returns the hex SHA-1 of a file's content, read in 64 KiB chunks.
// SHA-1 is a dedup key here, not a security boundary.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha1.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, hashBufSize)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// PruneRepeatedMedia deletes every media file whose content hash recurs on
// more than 80% of slides — the signature of a background or logo stamped
// onto nearly every slide, which is clutter for audio/braille consumption.
//
// Deletions are irreversible; RepairReferences cleans up the relationships
// left dangling afterwards. With slideCount == 0 pruning is skipped
// entirely. Returns the deleted paths.
func (p *Package) PruneRepeatedMedia(slideCount int) ([]string, error) {
	if slideCount == 0 {
		p.logger.Debug("no slides, skipping media prune")
		return nil, nil
	}
	dir := filepath.Join(p.Root, filepath.FromSlash(mediaDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read media dir: %w", err)
	}

	byHash := make(map[string][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		sum, err := hashFile(path)
		if err != nil {
			return nil, fmt.Errorf("hash %s: %w", e.Name(), err)
		}
		byHash[sum] = append(byHash[sum], path)
	}

	threshold := 0.8 * float64(slideCount)
	var deleted []string
	for sum, files := range byHash {
		if float64(len(files)) <= threshold {
			continue
		}
		for _, path := range files {
			if err := os.Remove(path); err != nil {
				return deleted, fmt.Errorf("delete %s: %w", path, err)
			}
			deleted = append(deleted, path)
		}
		p.logger.Info("pruned repeated media",
			"hash", sum, "count", len(files), "slides", slideCount)
	}
	return deleted, nil
}
