package store

import (
	"context"
	"errors"

	"github.com/llm-exam-tester/backend/internal/domain/run"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateRun = errors.New("run already exists")

	ErrUnsupportedFormat = errors.New("unsupported run format version")
)

// Store is the durable, append-only collection of run reports.
type Store interface {
	// AppendRun persists a completed run. It fails with ErrDuplicateRun
	// if a run with the same ID is already stored.
	AppendRun(ctx context.Context, r *run.Report) error

	// AllRuns returns every stored run ordered by timestamp ascending.
	AllRuns(ctx context.Context) ([]*run.Report, error)

	// GetRun returns a single run or ErrNotFound.
	GetRun(ctx context.Context, id string) (*run.Report, error)
}
