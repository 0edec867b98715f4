package lesson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

func testSchedule(t *testing.T, occurrences int) Schedule {
	t.Helper()
	start, err := ParseClock("10:00")
	require.NoError(t, err)
	end, err := ParseClock("12:00")
	require.NoError(t, err)
	return Schedule{
		Day:         time.Monday,
		Start:       start,
		End:         end,
		Venue:       "COM1-B103",
		Occurrences: occurrences,
	}
}

func TestNew_AllocatesEmptyAttendance(t *testing.T) {
	l, err := New(testSchedule(t, 13))
	require.NoError(t, err)

	assert.Equal(t, 13, l.Attendance().Len())
	for _, r := range l.Attendance().Records() {
		assert.True(t, r.IsEmpty())
	}
}

func TestNew_ValidatesSchedule(t *testing.T) {
	base := testSchedule(t, 3)

	tests := []struct {
		name   string
		mutate func(*Schedule)
		want   error
	}{
		{"zero occurrences", func(s *Schedule) { s.Occurrences = 0 }, shared.ErrInvalidOccurrences},
		{"too many occurrences", func(s *Schedule) { s.Occurrences = 53 }, shared.ErrInvalidOccurrences},
		{"blank venue", func(s *Schedule) { s.Venue = "  " }, shared.ErrInvalidVenue},
		{"end before start", func(s *Schedule) { s.Start, s.End = s.End, s.Start }, shared.ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			_, err := New(s)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, shared.IsValidation(err))
		})
	}
}

func TestNewWithAttendance_PanicsOnLengthMismatch(t *testing.T) {
	s := testSchedule(t, 3)
	assert.Panics(t, func() {
		_, _ = NewWithAttendance(s, NewAttendanceRecordList(4))
	})
	assert.NotPanics(t, func() {
		_, _ = NewWithAttendance(s, NewAttendanceRecordList(3))
	})
}

func TestLesson_AttendanceScenario(t *testing.T) {
	id := shared.NewStudentID()
	l, err := New(testSchedule(t, 3))
	require.NoError(t, err)

	l, err = l.AddAttendance(id, 1, shared.MustAttendance(80))
	require.NoError(t, err)
	got, err := l.GetAttendance(id, 1)
	require.NoError(t, err)
	assert.Equal(t, shared.Attendance(80), got)

	l, err = l.DeleteAttendance(id, 1)
	require.NoError(t, err)
	_, err = l.GetAttendance(id, 1)
	assert.ErrorIs(t, err, shared.ErrAttendanceNotFound)

	_, err = l.AddAttendance(id, 4, shared.MustAttendance(50))
	assert.ErrorIs(t, err, shared.ErrInvalidWeek)
}

func TestLesson_IsSameIgnoresOccurrencesAndAttendance(t *testing.T) {
	a, err := New(testSchedule(t, 3))
	require.NoError(t, err)
	b, err := New(testSchedule(t, 10))
	require.NoError(t, err)
	a2, err := a.AddAttendance(shared.NewStudentID(), 2, shared.MustAttendance(10))
	require.NoError(t, err)

	assert.True(t, a.IsSame(b))
	assert.True(t, a.IsSame(a2))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(a2))
	assert.True(t, a.Equal(a.Clone()))

	other := testSchedule(t, 3)
	other.Venue = "LT19"
	c, err := New(other)
	require.NoError(t, err)
	assert.False(t, a.IsSame(c))
}

func TestLesson_WithScheduleResizesAttendance(t *testing.T) {
	id := shared.NewStudentID()
	l, err := New(testSchedule(t, 4))
	require.NoError(t, err)
	l, err = l.AddAttendance(id, 1, shared.MustAttendance(90))
	require.NoError(t, err)
	l, err = l.AddAttendance(id, 4, shared.MustAttendance(70))
	require.NoError(t, err)

	shorter, err := l.WithSchedule(testSchedule(t, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, shorter.Attendance().Len())
	got, err := shorter.GetAttendance(id, 1)
	require.NoError(t, err)
	assert.Equal(t, shared.Attendance(90), got)

	longer, err := l.WithSchedule(testSchedule(t, 6))
	require.NoError(t, err)
	assert.Equal(t, 6, longer.Attendance().Len())
	_, err = longer.GetAttendance(id, 6)
	assert.ErrorIs(t, err, shared.ErrAttendanceNotFound)
}

func TestLesson_WithoutStudent(t *testing.T) {
	keep, drop := shared.NewStudentID(), shared.NewStudentID()
	l, err := New(testSchedule(t, 2))
	require.NoError(t, err)
	for _, id := range []shared.StudentID{keep, drop} {
		l, err = l.AddAttendance(id, 2, shared.MustAttendance(60))
		require.NoError(t, err)
	}

	stripped := l.WithoutStudent(drop)
	assert.Equal(t, []shared.StudentID{keep}, stripped.Attendance().StudentIDs())
	assert.Len(t, l.Attendance().StudentIDs(), 2)
}

func TestParseDayAndClock(t *testing.T) {
	for _, in := range []string{"monday", "Mon", "MONDAY"} {
		d, err := ParseDay(in)
		require.NoError(t, err)
		assert.Equal(t, time.Monday, d)
	}
	_, err := ParseDay("funday")
	assert.ErrorIs(t, err, shared.ErrInvalidDay)

	c, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", c.String())
	_, err = ParseClock("25:00")
	assert.True(t, shared.IsValidation(err))
}
