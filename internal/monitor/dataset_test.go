package monitor

import (
	"os"
	"path/filepath"
	"testing"
)

func writeImages(t *testing.T, dir, class string, names ...string) {
	t.Helper()
	classDir := filepath.Join(dir, class)
	if err := os.MkdirAll(classDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(classDir, n), []byte("img"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func TestLoadDataset_LabelsFromDirNames(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir, "cat", "a.jpg", "b.png", "notes.txt")
	writeImages(t, dir, "dog", "c.jpeg")

	items, err := LoadDataset(dir, 0)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("want 3 images (txt excluded), got %+v", items)
	}
	labels := map[string]int{}
	for _, it := range items {
		labels[it.Label]++
	}
	if labels["cat"] != 2 || labels["dog"] != 1 {
		t.Fatalf("labels wrong: %+v", labels)
	}
}

func TestLoadDataset_MaxPerClassCaps(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir, "cat", "a.jpg", "b.jpg", "c.jpg", "d.jpg")
	writeImages(t, dir, "dog", "e.jpg")

	items, err := LoadDataset(dir, 2)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("cap not applied: %+v", items)
	}
}

func TestLoadDataset_MissingDirFails(t *testing.T) {
	if _, err := LoadDataset(filepath.Join(t.TempDir(), "nope"), 0); err == nil {
		t.Fatalf("want error for missing dir")
	}
}

func TestLoadDataset_EmptyDirFails(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir, "cat") // class dir with no images
	if _, err := LoadDataset(dir, 0); err == nil {
		t.Fatalf("want error for dataset without images")
	}
}
