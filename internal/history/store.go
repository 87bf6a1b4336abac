package history

import (
	"context"
	"errors"

	"github.com/abdulbitspilani/mlopsgate/internal/domain"
)

// ErrNotFound is returned when a pinned baseline id does not exist.
var ErrNotFound = errors.New("history: snapshot not found")

// Store is the append-only snapshot history. Implementations must keep
// chronological order and never rewrite prior entries.
type Store interface {
	// Append stores a finished snapshot. Called once per run, only after
	// the whole batch completed.
	Append(ctx context.Context, s *domain.PerformanceSnapshot) error
	// List returns every stored snapshot, oldest first.
	List(ctx context.Context) ([]domain.PerformanceSnapshot, error)
	// Latest returns the most recent snapshot, or nil when history is empty.
	Latest(ctx context.Context) (*domain.PerformanceSnapshot, error)
	// Get looks a snapshot up by id.
	Get(ctx context.Context, id string) (*domain.PerformanceSnapshot, error)
	Close()
}
