package lesson

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE RECORD
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceRecord holds the scores of one lesson occurrence, keyed by student.
// Only students who were scored that week have an entry. A record is never
// modified after construction: every operation returns a new record.
type AttendanceRecord struct {
	entries map[shared.StudentID]shared.Attendance
}

// NewAttendanceRecord returns an empty record.
func NewAttendanceRecord() AttendanceRecord {
	return AttendanceRecord{entries: map[shared.StudentID]shared.Attendance{}}
}

// AttendanceRecordOf builds a record from the given entries. The map is copied.
func AttendanceRecordOf(entries map[shared.StudentID]shared.Attendance) AttendanceRecord {
	r := AttendanceRecord{entries: make(map[shared.StudentID]shared.Attendance, len(entries))}
	for id, a := range entries {
		r.entries[id] = a
	}
	return r
}

// Get returns the score of the student, if recorded.
func (r AttendanceRecord) Get(id shared.StudentID) (shared.Attendance, bool) {
	a, ok := r.entries[id]
	return a, ok
}

// Has reports whether the student has an entry.
func (r AttendanceRecord) Has(id shared.StudentID) bool {
	_, ok := r.entries[id]
	return ok
}

// Len returns the number of scored students.
func (r AttendanceRecord) Len() int {
	return len(r.entries)
}

// IsEmpty reports whether nobody was scored.
func (r AttendanceRecord) IsEmpty() bool {
	return len(r.entries) == 0
}

// StudentIDs returns the scored students in a stable order.
func (r AttendanceRecord) StudentIDs() []shared.StudentID {
	ids := make([]shared.StudentID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Entries returns a copy of the underlying mapping.
func (r AttendanceRecord) Entries() map[shared.StudentID]shared.Attendance {
	return AttendanceRecordOf(r.entries).entries
}

// Add returns a new record with the student's score added.
func (r AttendanceRecord) Add(id shared.StudentID, a shared.Attendance) (AttendanceRecord, error) {
	if !a.IsValid() {
		return r, shared.ErrInvalidAttendance
	}
	if r.Has(id) {
		return r, shared.ErrDuplicateAttendance
	}
	next := r.Clone()
	next.entries[id] = a
	return next, nil
}

// Edit returns a new record with the student's score replaced.
func (r AttendanceRecord) Edit(id shared.StudentID, a shared.Attendance) (AttendanceRecord, error) {
	if !a.IsValid() {
		return r, shared.ErrInvalidAttendance
	}
	if !r.Has(id) {
		return r, shared.ErrAttendanceNotFound
	}
	next := r.Clone()
	next.entries[id] = a
	return next, nil
}

// Delete returns a new record without the student's score.
func (r AttendanceRecord) Delete(id shared.StudentID) (AttendanceRecord, error) {
	if !r.Has(id) {
		return r, shared.ErrAttendanceNotFound
	}
	return r.Without(id), nil
}

// Without returns a record without the student's score, whether or not one existed.
func (r AttendanceRecord) Without(id shared.StudentID) AttendanceRecord {
	next := r.Clone()
	delete(next.entries, id)
	return next
}

// CheckScores reports the first entry whose score is out of range.
func (r AttendanceRecord) CheckScores() error {
	for _, id := range r.StudentIDs() {
		if a := r.entries[id]; !a.IsValid() {
			return shared.WrapError("attendance", "CheckScores", shared.ErrValueOutOfRange,
				fmt.Sprintf("score %d for student %s", a, id), shared.ErrInvalidAttendance)
		}
	}
	return nil
}

// Clone returns an independently owned copy.
func (r AttendanceRecord) Clone() AttendanceRecord {
	return AttendanceRecordOf(r.entries)
}

// Equal reports whether both records hold exactly the same entries.
func (r AttendanceRecord) Equal(other AttendanceRecord) bool {
	if len(r.entries) != len(other.entries) {
		return false
	}
	for id, a := range r.entries {
		b, ok := other.entries[id]
		if !ok || a != b {
			return false
		}
	}
	return true
}

func sortIDs(ids []shared.StudentID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}
