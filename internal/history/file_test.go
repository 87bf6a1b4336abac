package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdulbitspilani/mlopsgate/internal/domain"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return fs
}

func snap(id string, acc float64, ts time.Time) *domain.PerformanceSnapshot {
	return &domain.PerformanceSnapshot{
		ID:             id,
		Timestamp:      ts,
		SampleCount:    10,
		Accuracy:       acc,
		MeanConfidence: 0.8,
		PerClassAccuracy: map[string]float64{
			"cat": acc,
			"dog": acc,
		},
	}
}

func TestFileStore_AppendOnlyOrdering(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		s := snap(fmt.Sprintf("s%d", i), 0.8, base.Add(time.Duration(i)*time.Hour))
		if err := fs.Append(ctx, s); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	all, err := fs.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 snapshots, got %d", len(all))
	}
	for i, s := range all {
		if s.ID != fmt.Sprintf("s%d", i) {
			t.Fatalf("chronological order broken: %+v", all)
		}
	}

	latest, err := fs.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != "s2" {
		t.Fatalf("latest wrong: %+v", latest)
	}
}

func TestFileStore_PriorSnapshotsUntouched(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	if err := fs.Append(ctx, snap("first", 0.9, time.Now().UTC())); err != nil {
		t.Fatalf("Append: %v", err)
	}
	before, err := os.ReadFile(fs.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if err := fs.Append(ctx, snap("second", 0.7, time.Now().UTC())); err != nil {
		t.Fatalf("Append: %v", err)
	}
	after, err := os.ReadFile(fs.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(after[:len(before)]) != string(before) {
		t.Fatalf("append rewrote existing history")
	}
}

func TestFileStore_GetByID(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()
	if err := fs.Append(ctx, snap("pinned", 0.85, time.Now().UTC())); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := fs.Get(ctx, "pinned")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Accuracy != 0.85 {
		t.Fatalf("wrong snapshot: %+v", got)
	}

	if _, err := fs.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestFileStore_EmptyHistory(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	latest, err := fs.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("want nil latest on empty history, got %+v", latest)
	}
}

func TestFileStore_LockBlocksSecondAppend(t *testing.T) {
	fs := newTestStore(t)
	lockPath := fs.Path + ".lock"
	if err := os.WriteFile(lockPath, nil, 0o644); err != nil {
		t.Fatalf("pre-create lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := fs.Append(ctx, snap("blocked", 0.5, time.Now().UTC()))
	if err == nil {
		t.Fatalf("append should fail while lock is held")
	}

	_ = os.Remove(lockPath)
	if err := fs.Append(context.Background(), snap("ok", 0.5, time.Now().UTC())); err != nil {
		t.Fatalf("append after unlock: %v", err)
	}
}
