package pool

import "context"

type Repository interface {
	// LoadSnapshot reads picks, results, schedule, lock-outs and the user
	// roster in one pass.
	LoadSnapshot(ctx context.Context) (Snapshot, error)

	// SaveStatuses persists the evaluator's output onto the users table.
	// Idempotent: re-saving the same statuses is a no-op.
	SaveStatuses(ctx context.Context, statuses map[string]Status) error

	// LastSavedStatuses returns the statuses from the most recent successful
	// save, used as the fallback when an evaluation fails.
	LastSavedStatuses(ctx context.Context) (map[string]Status, error)
}
