// Package shared contains common domain types, errors and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentID is the opaque, never reused identifier of a student.
// Module classes and attendance records refer to students only through it.
type StudentID uuid.UUID

// NilStudentID is the zero identifier. No stored student carries it.
var NilStudentID = StudentID(uuid.Nil)

// NewStudentID generates a fresh random identifier.
func NewStudentID() StudentID {
	return StudentID(uuid.New())
}

// ParseStudentID parses the canonical textual form of a student ID.
func ParseStudentID(value string) (StudentID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return NilStudentID, WrapError("shared", "ParseStudentID", ErrInvalidID, "invalid student ID format", err)
	}
	if id == uuid.Nil {
		return NilStudentID, ErrInvalidStudentID
	}
	return StudentID(id), nil
}

// String returns the canonical textual form.
func (s StudentID) String() string {
	return uuid.UUID(s).String()
}

// IsNil reports whether the ID is the zero identifier.
func (s StudentID) IsNil() bool {
	return s == NilStudentID
}

// ═══════════════════════════════════════════════════════════════════════════
// Week Value Object
// ═══════════════════════════════════════════════════════════════════════════

// MaxWeeks bounds both Week values and a lesson's number of occurrences.
const MaxWeeks = 52

// Week is a 1-based occurrence index of a recurring lesson.
type Week int

// MinWeek is the first occurrence of any lesson.
const MinWeek Week = 1

// IsValid checks if the week lies within 1..MaxWeeks.
func (w Week) IsValid() bool {
	return w >= MinWeek && w <= MaxWeeks
}

// Int returns the underlying 1-based value.
func (w Week) Int() int {
	return int(w)
}

// Index returns the 0-based position of the week in an attendance list.
func (w Week) Index() int {
	return int(w) - 1
}

// String returns the string representation.
func (w Week) String() string {
	return fmt.Sprintf("week %d", int(w))
}

// NewWeek creates a new Week with validation.
func NewWeek(value int) (Week, error) {
	w := Week(value)
	if !w.IsValid() {
		return 0, NewDomainError("shared", "NewWeek", ErrValueOutOfRange,
			fmt.Sprintf("week must be between %d and %d", MinWeek, MaxWeeks))
	}
	return w, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Attendance Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Attendance is the score a student received for one lesson occurrence.
type Attendance int

const (
	MinAttendance Attendance = 0
	MaxAttendance Attendance = 100
)

// IsValid checks if the score is within 0..100.
func (a Attendance) IsValid() bool {
	return a >= MinAttendance && a <= MaxAttendance
}

// Int returns the underlying int value.
func (a Attendance) Int() int {
	return int(a)
}

// NewAttendance creates a new Attendance with validation.
func NewAttendance(score int) (Attendance, error) {
	a := Attendance(score)
	if !a.IsValid() {
		return 0, ErrInvalidAttendance
	}
	return a, nil
}

// MustAttendance is like NewAttendance but panics on an out-of-range score.
// Use it only where the score has already been validated.
func MustAttendance(score int) Attendance {
	a, err := NewAttendance(score)
	if err != nil {
		panic(fmt.Sprintf("shared: attendance score %d out of range", score))
	}
	return a
}
