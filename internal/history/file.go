package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abdulbitspilani/mlopsgate/internal/domain"
)

// FileStore keeps the snapshot history as JSON Lines: one snapshot per
// line, appended and never rewritten, which is the audit trail the monitor
// relies on. A sibling .lock file serializes concurrent appends.
type FileStore struct {
	Path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("history: empty file path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create dir: %w", err)
		}
	}
	return &FileStore{Path: path}, nil
}

func (f *FileStore) Append(ctx context.Context, s *domain.PerformanceSnapshot) error {
	unlock, err := f.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	line, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("history: marshal snapshot: %w", err)
	}
	file, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("history: open: %w", err)
	}
	defer file.Close()
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

func (f *FileStore) List(ctx context.Context) ([]domain.PerformanceSnapshot, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("history: open: %w", err)
	}
	defer file.Close()

	var out []domain.PerformanceSnapshot
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var s domain.PerformanceSnapshot
		if err := json.Unmarshal(sc.Bytes(), &s); err != nil {
			return nil, fmt.Errorf("history: corrupt line: %w", err)
		}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("history: read: %w", err)
	}
	return out, nil
}

func (f *FileStore) Latest(ctx context.Context) (*domain.PerformanceSnapshot, error) {
	all, err := f.List(ctx)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return &all[len(all)-1], nil
}

func (f *FileStore) Get(ctx context.Context, id string) (*domain.PerformanceSnapshot, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *FileStore) Close() {}

// lock takes the sibling lock file with a bounded wait so two overlapping
// monitor invocations cannot interleave their appends.
func (f *FileStore) lock(ctx context.Context) (func(), error) {
	lockPath := f.Path + ".lock"
	deadline := time.Now().Add(5 * time.Second)
	for {
		file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			file.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("history: lock: %w", err)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("history: lock held too long by another run (%s)", lockPath)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}
