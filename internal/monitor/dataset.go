package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Item is one labeled evaluation input: an image path and the class its
// directory claims it belongs to.
type Item struct {
	Path  string
	Label string
}

// LoadDataset walks a test directory laid out as one subdirectory per
// class (data/processed/test/{cat,dog}) and returns the labeled items,
// capped at maxPerClass per class when the cap is positive.
func LoadDataset(dir string, maxPerClass int) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("evaluation set %s: %w", dir, err)
	}

	var items []Item
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		label := e.Name()
		files, err := os.ReadDir(filepath.Join(dir, label))
		if err != nil {
			return nil, fmt.Errorf("class dir %s: %w", label, err)
		}
		var names []string
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(f.Name())) {
			case ".jpg", ".jpeg", ".png":
				names = append(names, f.Name())
			}
		}
		sort.Strings(names)
		if maxPerClass > 0 && len(names) > maxPerClass {
			names = names[:maxPerClass]
		}
		for _, n := range names {
			items = append(items, Item{Path: filepath.Join(dir, label, n), Label: label})
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("evaluation set %s: no labeled images found", dir)
	}
	return items, nil
}
