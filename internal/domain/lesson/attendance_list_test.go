package lesson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

func TestAttendanceRecordList_AddKeepsOriginal(t *testing.T) {
	id := shared.NewStudentID()

	for n := 1; n <= shared.MaxWeeks; n += 17 {
		original := NewAttendanceRecordList(n)
		for w := 1; w <= n; w++ {
			week := shared.Week(w)
			result, err := original.AddAttendance(id, week, shared.MustAttendance(75))
			require.NoError(t, err)

			got, err := result.GetAttendance(id, week)
			require.NoError(t, err)
			assert.Equal(t, shared.Attendance(75), got)
			assert.Equal(t, n, result.Len())

			_, err = original.GetAttendance(id, week)
			assert.ErrorIs(t, err, shared.ErrAttendanceNotFound, "original list must not change")
		}
	}
}

func TestAttendanceRecordList_WeekOutOfRange(t *testing.T) {
	id := shared.NewStudentID()
	l, err := NewAttendanceRecordList(5).AddAttendance(id, 3, shared.MustAttendance(40))
	require.NoError(t, err)

	for _, w := range []shared.Week{0, 6, 52, -1} {
		_, err := l.AddAttendance(id, w, shared.MustAttendance(1))
		assert.ErrorIs(t, err, shared.ErrInvalidWeek, "add week %d", w)

		_, err = l.EditAttendance(id, w, shared.MustAttendance(1))
		assert.ErrorIs(t, err, shared.ErrInvalidWeek, "edit week %d", w)

		_, err = l.DeleteAttendance(id, w)
		assert.ErrorIs(t, err, shared.ErrInvalidWeek, "delete week %d", w)
	}

	got, err := l.GetAttendance(id, 3)
	require.NoError(t, err)
	assert.Equal(t, shared.Attendance(40), got)
}

func TestAttendanceRecordList_UpperBoundIsInclusive(t *testing.T) {
	id := shared.NewStudentID()
	l := NewAttendanceRecordList(4)

	_, err := l.AddAttendance(id, 4, shared.MustAttendance(100))
	assert.NoError(t, err)
}

func TestAttendanceRecordList_EditDeleteRequireExistingEntry(t *testing.T) {
	id := shared.NewStudentID()
	l := NewAttendanceRecordList(3)

	_, err := l.EditAttendance(id, 2, shared.MustAttendance(10))
	assert.ErrorIs(t, err, shared.ErrAttendanceNotFound)

	_, err = l.DeleteAttendance(id, 2)
	assert.ErrorIs(t, err, shared.ErrAttendanceNotFound)

	l, err = l.AddAttendance(id, 2, shared.MustAttendance(10))
	require.NoError(t, err)
	_, err = l.AddAttendance(id, 2, shared.MustAttendance(20))
	assert.ErrorIs(t, err, shared.ErrDuplicateAttendance)

	edited, err := l.EditAttendance(id, 2, shared.MustAttendance(20))
	require.NoError(t, err)
	got, err := edited.GetAttendance(id, 2)
	require.NoError(t, err)
	assert.Equal(t, shared.Attendance(20), got)

	old, err := l.GetAttendance(id, 2)
	require.NoError(t, err)
	assert.Equal(t, shared.Attendance(10), old)
}

func TestAttendanceRecord_IsValueSemantics(t *testing.T) {
	id := shared.NewStudentID()
	r := NewAttendanceRecord()

	added, err := r.Add(id, shared.MustAttendance(55))
	require.NoError(t, err)
	assert.True(t, r.IsEmpty())
	assert.Equal(t, 1, added.Len())

	entries := added.Entries()
	delete(entries, id)
	assert.True(t, added.Has(id), "Entries must return a copy")
}

func TestAttendanceRecordList_RejectsOutOfRangeScore(t *testing.T) {
	id := shared.NewStudentID()
	l := NewAttendanceRecordList(2)

	for _, score := range []shared.Attendance{-1, 101, 250} {
		_, err := l.AddAttendance(id, 1, score)
		assert.ErrorIs(t, err, shared.ErrInvalidAttendance, "add %d", score)
	}

	l, err := l.AddAttendance(id, 1, shared.MustAttendance(50))
	require.NoError(t, err)
	_, err = l.EditAttendance(id, 1, shared.Attendance(250))
	assert.ErrorIs(t, err, shared.ErrInvalidAttendance)

	got, err := l.GetAttendance(id, 1)
	require.NoError(t, err)
	assert.Equal(t, shared.Attendance(50), got)
	assert.NoError(t, l.CheckScores())
}

func TestAttendanceRecordList_CheckScores(t *testing.T) {
	id := shared.NewStudentID()
	l := AttendanceRecordListOf(
		NewAttendanceRecord(),
		AttendanceRecordOf(map[shared.StudentID]shared.Attendance{id: 250}),
	)

	err := l.CheckScores()
	assert.ErrorIs(t, err, shared.ErrInvalidAttendance)
	assert.Contains(t, err.Error(), "week 2")
}
