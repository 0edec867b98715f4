// Package lesson models recurring lessons and their per-week attendance.
//
// Lessons, attendance lists and attendance records are immutable values. Every
// edit returns a new value, so a caller holding an older value never observes
// a change.
package lesson

import (
	"fmt"
	"time"

	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

// Lesson is a recurring meeting of a module class together with the
// attendance of each occurrence.
type Lesson struct {
	schedule   Schedule
	attendance AttendanceRecordList
}

// New creates a lesson with empty attendance for every occurrence.
func New(s Schedule) (Lesson, error) {
	if err := s.Validate(); err != nil {
		return Lesson{}, err
	}
	return Lesson{
		schedule:   s,
		attendance: NewAttendanceRecordList(s.Occurrences),
	}, nil
}

// NewWithAttendance creates a lesson holding an existing attendance list.
// It panics when the list length differs from the number of occurrences:
// that is a programming error, never a user error.
func NewWithAttendance(s Schedule, list AttendanceRecordList) (Lesson, error) {
	if err := s.Validate(); err != nil {
		return Lesson{}, err
	}
	mustMatch(s, list)
	return Lesson{schedule: s, attendance: list.Clone()}, nil
}

func mustMatch(s Schedule, list AttendanceRecordList) {
	if list.Len() != s.Occurrences {
		panic(fmt.Sprintf("lesson: attendance list has %d records, want %d", list.Len(), s.Occurrences))
	}
}

// Schedule returns the lesson's schedule.
func (l Lesson) Schedule() Schedule { return l.schedule }

// Day returns the day of the week the lesson takes place on.
func (l Lesson) Day() time.Weekday { return l.schedule.Day }

// Start returns the start time.
func (l Lesson) Start() Clock { return l.schedule.Start }

// End returns the end time.
func (l Lesson) End() Clock { return l.schedule.End }

// Venue returns where the lesson takes place.
func (l Lesson) Venue() string { return l.schedule.Venue }

// Occurrences returns the number of weeks the lesson runs for.
func (l Lesson) Occurrences() int { return l.schedule.Occurrences }

// Attendance returns the lesson's attendance list.
func (l Lesson) Attendance() AttendanceRecordList { return l.attendance }

// IsSame reports whether both lessons occupy the same slot. Occurrence count
// and attendance are ignored.
func (l Lesson) IsSame(other Lesson) bool {
	return l.schedule.IsSameSlot(other.schedule)
}

// Equal reports whether both lessons have identical schedules and attendance.
func (l Lesson) Equal(other Lesson) bool {
	return l.schedule == other.schedule && l.attendance.Equal(other.attendance)
}

// GetAttendance returns the student's score for the given week.
func (l Lesson) GetAttendance(id shared.StudentID, week shared.Week) (shared.Attendance, error) {
	return l.attendance.GetAttendance(id, week)
}

// AddAttendance returns a lesson with a new score recorded.
func (l Lesson) AddAttendance(id shared.StudentID, week shared.Week, a shared.Attendance) (Lesson, error) {
	list, err := l.attendance.AddAttendance(id, week, a)
	if err != nil {
		return l, err
	}
	return l.WithAttendance(list), nil
}

// EditAttendance returns a lesson with an existing score replaced.
func (l Lesson) EditAttendance(id shared.StudentID, week shared.Week, a shared.Attendance) (Lesson, error) {
	list, err := l.attendance.EditAttendance(id, week, a)
	if err != nil {
		return l, err
	}
	return l.WithAttendance(list), nil
}

// DeleteAttendance returns a lesson with an existing score removed.
func (l Lesson) DeleteAttendance(id shared.StudentID, week shared.Week) (Lesson, error) {
	list, err := l.attendance.DeleteAttendance(id, week)
	if err != nil {
		return l, err
	}
	return l.WithAttendance(list), nil
}

// WithAttendance returns a lesson holding the given list. It panics on a
// length mismatch.
func (l Lesson) WithAttendance(list AttendanceRecordList) Lesson {
	mustMatch(l.schedule, list)
	return Lesson{schedule: l.schedule, attendance: list}
}

// WithSchedule returns a lesson with a new schedule. Attendance is kept for the
// weeks both schedules share.
func (l Lesson) WithSchedule(s Schedule) (Lesson, error) {
	if err := s.Validate(); err != nil {
		return l, err
	}
	return Lesson{schedule: s, attendance: l.attendance.Resized(s.Occurrences)}, nil
}

// WithoutStudent returns a lesson in which the student has no attendance.
func (l Lesson) WithoutStudent(id shared.StudentID) Lesson {
	return l.WithAttendance(l.attendance.WithoutStudent(id))
}

// WithClearedAttendance returns a lesson in which nobody has attendance.
func (l Lesson) WithClearedAttendance() Lesson {
	return l.WithAttendance(l.attendance.Cleared())
}

// Clone returns an independently owned copy.
func (l Lesson) Clone() Lesson {
	return Lesson{schedule: l.schedule, attendance: l.attendance.Clone()}
}

// String returns the schedule description.
func (l Lesson) String() string {
	return l.schedule.String()
}
