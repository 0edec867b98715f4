package roster

import (
	"fmt"

	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

// DefaultInitialLabel labels the state a VersionedRoster starts from.
const DefaultInitialLabel = "initial state"

type historyEntry struct {
	label    string
	snapshot *Roster
}

// VersionedRoster is a Roster with a linear undo/redo history. The embedded
// Roster is the working copy; every history entry holds its own deep copy.
//
// The cursor always indexes the entry matching the last committed or
// restored state. Committing after an undo discards every entry after the
// cursor.
type VersionedRoster struct {
	*Roster

	history []historyEntry
	cursor  int
}

// NewVersionedRoster starts a history whose only entry is a copy of initial.
func NewVersionedRoster(initial *Roster, initialLabel string) *VersionedRoster {
	return &VersionedRoster{
		Roster:  initial.Clone(),
		history: []historyEntry{{label: initialLabel, snapshot: initial.Clone()}},
		cursor:  0,
	}
}

// Commit records the working copy as a new history entry after the cursor.
func (v *VersionedRoster) Commit(label string) {
	clear(v.history[v.cursor+1:])
	v.history = append(v.history[:v.cursor+1], historyEntry{
		label:    label,
		snapshot: v.Roster.Clone(),
	})
	v.cursor++
}

// Undo restores the previous entry and returns the label of the state that
// was undone.
func (v *VersionedRoster) Undo() (string, error) {
	if !v.CanUndo() {
		return "", shared.ErrNothingToUndo
	}
	undone := v.history[v.cursor].label
	v.restore(v.history[v.cursor-1].snapshot)
	v.cursor--
	return undone, nil
}

// Redo restores the next entry and returns its label.
func (v *VersionedRoster) Redo() (string, error) {
	if !v.CanRedo() {
		return "", shared.ErrNothingToRedo
	}
	v.cursor++
	v.restore(v.history[v.cursor].snapshot)
	return v.history[v.cursor].label, nil
}

// CanUndo reports whether an entry precedes the cursor.
func (v *VersionedRoster) CanUndo() bool {
	return v.cursor > 0
}

// CanRedo reports whether an entry follows the cursor.
func (v *VersionedRoster) CanRedo() bool {
	return v.cursor < len(v.history)-1
}

// History returns the cursor and every label in order.
func (v *VersionedRoster) History() (int, []string) {
	labels := make([]string, len(v.history))
	for i, e := range v.history {
		labels[i] = e.label
	}
	return v.cursor, labels
}

func (v *VersionedRoster) restore(snapshot *Roster) {
	// Snapshots were valid rosters when taken; failing here means one was
	// modified after the fact.
	if err := v.Roster.ResetData(snapshot.Clone()); err != nil {
		panic(fmt.Sprintf("roster: history snapshot rejected on restore: %v", err))
	}
}
