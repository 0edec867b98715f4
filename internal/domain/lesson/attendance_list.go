package lesson

import (
	"fmt"

	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE RECORD LIST
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceRecordList is the fixed-length sequence of attendance records of a
// lesson, one per occurrence. Position i holds week i+1.
//
// Lists are values: the add/edit/delete operations return a new list of the
// same length and leave the receiver, and every record it holds, untouched.
type AttendanceRecordList struct {
	records []AttendanceRecord
}

// NewAttendanceRecordList allocates n empty records.
func NewAttendanceRecordList(n int) AttendanceRecordList {
	records := make([]AttendanceRecord, n)
	for i := range records {
		records[i] = NewAttendanceRecord()
	}
	return AttendanceRecordList{records: records}
}

// AttendanceRecordListOf builds a list holding copies of the given records.
func AttendanceRecordListOf(records ...AttendanceRecord) AttendanceRecordList {
	out := make([]AttendanceRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return AttendanceRecordList{records: out}
}

// Len returns the number of occurrences covered.
func (l AttendanceRecordList) Len() int {
	return len(l.records)
}

// Records returns copies of all records in week order.
func (l AttendanceRecordList) Records() []AttendanceRecord {
	return l.Clone().records
}

// Record returns the record of the given week.
func (l AttendanceRecordList) Record(week shared.Week) (AttendanceRecord, error) {
	if err := l.checkWeek(week); err != nil {
		return AttendanceRecord{}, err
	}
	return l.records[week.Index()].Clone(), nil
}

// GetAttendance returns the student's score for the given week.
func (l AttendanceRecordList) GetAttendance(id shared.StudentID, week shared.Week) (shared.Attendance, error) {
	if err := l.checkWeek(week); err != nil {
		return 0, err
	}
	a, ok := l.records[week.Index()].Get(id)
	if !ok {
		return 0, shared.ErrAttendanceNotFound
	}
	return a, nil
}

// AddAttendance records a new score for the student in the given week.
func (l AttendanceRecordList) AddAttendance(id shared.StudentID, week shared.Week, a shared.Attendance) (AttendanceRecordList, error) {
	return l.update(week, func(r AttendanceRecord) (AttendanceRecord, error) {
		return r.Add(id, a)
	})
}

// EditAttendance replaces the student's existing score in the given week.
func (l AttendanceRecordList) EditAttendance(id shared.StudentID, week shared.Week, a shared.Attendance) (AttendanceRecordList, error) {
	return l.update(week, func(r AttendanceRecord) (AttendanceRecord, error) {
		return r.Edit(id, a)
	})
}

// DeleteAttendance removes the student's existing score in the given week.
func (l AttendanceRecordList) DeleteAttendance(id shared.StudentID, week shared.Week) (AttendanceRecordList, error) {
	return l.update(week, func(r AttendanceRecord) (AttendanceRecord, error) {
		return r.Delete(id)
	})
}

// WithoutStudent returns a list in which no record holds the student.
func (l AttendanceRecordList) WithoutStudent(id shared.StudentID) AttendanceRecordList {
	out := make([]AttendanceRecord, len(l.records))
	for i, r := range l.records {
		out[i] = r.Without(id)
	}
	return AttendanceRecordList{records: out}
}

// Cleared returns a list of the same length with every record empty.
func (l AttendanceRecordList) Cleared() AttendanceRecordList {
	return NewAttendanceRecordList(len(l.records))
}

// Resized returns a list of length n. Records for weeks beyond n are dropped
// and new weeks start empty.
func (l AttendanceRecordList) Resized(n int) AttendanceRecordList {
	out := NewAttendanceRecordList(n)
	for i := 0; i < n && i < len(l.records); i++ {
		out.records[i] = l.records[i].Clone()
	}
	return out
}

// StudentIDs returns every student that appears in any record.
func (l AttendanceRecordList) StudentIDs() []shared.StudentID {
	seen := map[shared.StudentID]struct{}{}
	ids := make([]shared.StudentID, 0)
	for _, r := range l.records {
		for id := range r.entries {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

// Clone returns an independently owned copy.
func (l AttendanceRecordList) Clone() AttendanceRecordList {
	return AttendanceRecordListOf(l.records...)
}

// Equal reports whether both lists have the same length and equal records.
func (l AttendanceRecordList) Equal(other AttendanceRecordList) bool {
	if len(l.records) != len(other.records) {
		return false
	}
	for i := range l.records {
		if !l.records[i].Equal(other.records[i]) {
			return false
		}
	}
	return true
}

// CheckScores reports the first out-of-range score in any week.
func (l AttendanceRecordList) CheckScores() error {
	for i, r := range l.records {
		if err := r.CheckScores(); err != nil {
			return fmt.Errorf("week %d: %w", i+1, err)
		}
	}
	return nil
}

func (l AttendanceRecordList) checkWeek(week shared.Week) error {
	if week < shared.MinWeek || week.Int() > len(l.records) {
		return shared.WrapError("attendance", "CheckWeek", shared.ErrValueOutOfRange,
			fmt.Sprintf("week must be between 1 and %d", len(l.records)), shared.ErrInvalidWeek)
	}
	return nil
}

// update validates the week, applies fn to that week's record and splices the
// result into a copy of the sequence.
func (l AttendanceRecordList) update(week shared.Week, fn func(AttendanceRecord) (AttendanceRecord, error)) (AttendanceRecordList, error) {
	if err := l.checkWeek(week); err != nil {
		return l, err
	}

	updated, err := fn(l.records[week.Index()])
	if err != nil {
		return l, err
	}

	out := make([]AttendanceRecord, len(l.records))
	copy(out, l.records)
	out[week.Index()] = updated
	return AttendanceRecordList{records: out}, nil
}
