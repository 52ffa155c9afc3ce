package pptx

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestPruneRepeatedMedia(t *testing.T) {
	root := t.TempDir()
	parts := map[string]string{}
	// 9 copies of the background on a 10-slide deck crosses the 80%
	// threshold; 2 copies of the chart image does not.
	for i := 1; i <= 9; i++ {
		parts[fmt.Sprintf("ppt/media/background%d.png", i)] = "background bytes"
	}
	parts["ppt/media/chart1.png"] = "chart bytes"
	parts["ppt/media/chart2.png"] = "chart bytes"
	writePackageDir(t, root, parts)

	deleted, err := New(root, testLogger()).PruneRepeatedMedia(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(deleted) != 9 {
		t.Fatalf("deleted %d files, want 9", len(deleted))
	}
	for _, p := range deleted {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s still on disk", p)
		}
	}
	for _, name := range []string{"chart1.png", "chart2.png"} {
		if _, err := os.Stat(filepath.Join(root, "ppt", "media", name)); err != nil {
			t.Errorf("%s was pruned: %v", name, err)
		}
	}
}

func TestPruneRepeatedMediaExactThresholdKept(t *testing.T) {
	root := t.TempDir()
	parts := map[string]string{}
	// 8 of 10 is exactly 80%, which must not be pruned.
	for i := 1; i <= 8; i++ {
		parts[fmt.Sprintf("ppt/media/logo%d.png", i)] = "logo bytes"
	}
	writePackageDir(t, root, parts)

	deleted, err := New(root, testLogger()).PruneRepeatedMedia(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(deleted) != 0 {
		t.Fatalf("deleted %v at exactly the threshold", deleted)
	}
}

func TestPruneRepeatedMediaNoSlides(t *testing.T) {
	root := t.TempDir()
	writePackageDir(t, root, map[string]string{
		"ppt/media/image1.png": "bytes",
		"ppt/media/image2.png": "bytes",
	})

	deleted, err := New(root, testLogger()).PruneRepeatedMedia(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(deleted) != 0 {
		t.Fatalf("pruned %v on an empty deck", deleted)
	}
	if _, err := os.Stat(filepath.Join(root, "ppt", "media", "image1.png")); err != nil {
		t.Error("media deleted despite zero slide count")
	}
}

func TestPruneRepeatedMediaMissingDir(t *testing.T) {
	deleted, err := New(t.TempDir(), testLogger()).PruneRepeatedMedia(5)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != nil {
		t.Fatalf("deleted = %v, want nil", deleted)
	}
}
