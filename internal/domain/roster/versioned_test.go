package roster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

func TestVersionedRoster_InitialState(t *testing.T) {
	v := NewVersionedRoster(New(), DefaultInitialLabel)

	cursor, labels := v.History()
	assert.Equal(t, 0, cursor)
	assert.Equal(t, []string{DefaultInitialLabel}, labels)
	assert.False(t, v.CanUndo())
	assert.False(t, v.CanRedo())

	_, err := v.Undo()
	assert.ErrorIs(t, err, shared.ErrNothingToUndo)
	assert.True(t, shared.IsHistoryBoundary(err))

	_, err = v.Redo()
	assert.ErrorIs(t, err, shared.ErrNothingToRedo)
}

func TestVersionedRoster_CommitsGrowHistory(t *testing.T) {
	for _, k := range []int{1, 2, 5, 10} {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			v := NewVersionedRoster(New(), DefaultInitialLabel)
			for i := 0; i < k; i++ {
				require.NoError(t, v.AddStudent(newStudent(t, fmt.Sprintf("Student %d", i), fmt.Sprintf("%08d", i), "s@example.com")))
				v.Commit(fmt.Sprintf("add %d", i))
			}
			cursor, labels := v.History()
			assert.Len(t, labels, k+1)
			assert.Equal(t, k, cursor)
		})
	}
}

func TestVersionedRoster_CommitAfterUndoPrunesRedo(t *testing.T) {
	v := NewVersionedRoster(New(), DefaultInitialLabel)
	require.NoError(t, v.AddStudent(newStudent(t, "Alice", "123", "a@example.com")))
	v.Commit("first")
	require.NoError(t, v.AddStudent(newStudent(t, "Bob", "456", "b@example.com")))
	v.Commit("second")

	_, err := v.Undo()
	require.NoError(t, err)
	assert.True(t, v.CanRedo())

	require.NoError(t, v.AddStudent(newStudent(t, "Carol", "789", "c@example.com")))
	v.Commit("third")

	assert.False(t, v.CanRedo())
	cursor, labels := v.History()
	assert.Equal(t, 2, cursor)
	assert.Equal(t, []string{DefaultInitialLabel, "first", "third"}, labels)
}

func TestVersionedRoster_UndoRedoRoundTrip(t *testing.T) {
	v := NewVersionedRoster(New(), DefaultInitialLabel)
	require.NoError(t, v.AddStudent(newStudent(t, "Alice", "123", "a@example.com")))
	v.Commit("add alice")

	before := v.Roster.Clone()
	undone, err := v.Undo()
	require.NoError(t, err)
	assert.Equal(t, "add alice", undone)
	assert.Empty(t, v.Students())

	redone, err := v.Redo()
	require.NoError(t, err)
	assert.Equal(t, "add alice", redone)
	assert.True(t, v.Equal(before))
}

func TestVersionedRoster_EnrolScenario(t *testing.T) {
	v := NewVersionedRoster(New(), DefaultInitialLabel)
	alice := newStudent(t, "Alice", "94351253", "alice@example.com")
	require.NoError(t, v.AddStudent(alice))
	cs101 := newClass(t, "CS101", nil)
	require.NoError(t, v.AddModuleClass(cs101))
	v.Commit("add both")

	require.NoError(t, v.SetModuleClass(cs101, cs101.WithStudent(alice.ID)))
	v.Commit("enroll")

	label, err := v.Undo()
	require.NoError(t, err)
	assert.Equal(t, "enroll", label)
	got, err := v.ModuleClassByName("CS101")
	require.NoError(t, err)
	assert.False(t, got.HasStudent(alice.ID))

	label, err = v.Redo()
	require.NoError(t, err)
	assert.Equal(t, "enroll", label)
	got, err = v.ModuleClassByName("CS101")
	require.NoError(t, err)
	assert.True(t, got.HasStudent(alice.ID))
}

func TestVersionedRoster_SnapshotsDoNotAliasWorkingCopy(t *testing.T) {
	initial, alice, _ := populated(t)
	v := NewVersionedRoster(initial, DefaultInitialLabel)

	// Changing the roster passed in does not reach the history.
	initial.DeleteAllStudents()
	assert.Len(t, v.Students(), 2)

	require.NoError(t, v.DeleteStudent(alice))
	v.Commit("delete alice")
	_, err := v.Undo()
	require.NoError(t, err)

	// Mutating the restored working copy must leave the snapshot intact.
	v.DeleteAllStudents()
	_, err = v.Redo()
	require.NoError(t, err)
	assert.Len(t, v.Students(), 1)

	_, err = v.Undo()
	require.NoError(t, err)
	assert.Len(t, v.Students(), 2)
	_, err = v.StudentByID(alice.ID)
	assert.NoError(t, err)
}
