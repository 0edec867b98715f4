package roster

import "context"

// Storage persists a whole roster. Implementations live in
// infrastructure/persistence.
type Storage interface {
	// Load returns the stored roster. It returns shared.ErrNoData when
	// nothing has been stored yet and shared.ErrCorruptData when the stored
	// data breaks any roster constraint.
	Load(ctx context.Context) (*Roster, error)

	// Save replaces the stored roster with data.
	Save(ctx context.Context, data ReadOnlyRoster) error
}
