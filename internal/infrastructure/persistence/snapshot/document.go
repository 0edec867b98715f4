// Package snapshot converts a roster to and from its storage record, the
// document every persistence backend reads and writes.
package snapshot

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/tutorspet/tutorspet/internal/domain/roster"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD SHAPE
// ══════════════════════════════════════════════════════════════════════════════

// Document is the stored form of a whole roster.
type Document struct {
	Students []StudentRecord `json:"students" yaml:"students" validate:"dive"`
	Classes  []ClassRecord   `json:"classes" yaml:"classes" validate:"dive"`
}

// StudentRecord is a stored student. Phone and Email are the two contact fields.
type StudentRecord struct {
	ID    string   `json:"id" yaml:"id" validate:"required,uuid"`
	Name  string   `json:"name" yaml:"name" validate:"required"`
	Phone string   `json:"phone" yaml:"phone" validate:"required"`
	Email string   `json:"email" yaml:"email" validate:"required"`
	Tags  []string `json:"tags" yaml:"tags" validate:"dive,required"`
}

// ClassRecord is a stored module class.
type ClassRecord struct {
	Name       string         `json:"name" yaml:"name" validate:"required"`
	StudentIDs []string       `json:"studentIds" yaml:"studentIds" validate:"dive,uuid"`
	Lessons    []LessonRecord `json:"lessons" yaml:"lessons" validate:"dive"`
}

// LessonRecord is a stored lesson. Only weeks with at least one entry are
// listed in Attendance.
type LessonRecord struct {
	Start           string       `json:"start" yaml:"start" validate:"required"`
	End             string       `json:"end" yaml:"end" validate:"required"`
	Day             string       `json:"day" yaml:"day" validate:"required"`
	OccurrenceCount int          `json:"occurrenceCount" yaml:"occurrenceCount" validate:"min=1,max=52"`
	Venue           string       `json:"venue" yaml:"venue" validate:"required"`
	Attendance      []WeekRecord `json:"attendance" yaml:"attendance" validate:"dive"`
}

// WeekRecord holds the attendance of one occurrence.
type WeekRecord struct {
	Week    int           `json:"week" yaml:"week" validate:"min=1,max=52"`
	Entries []EntryRecord `json:"entries" yaml:"entries" validate:"dive"`
}

// EntryRecord is one student's score in one week.
type EntryRecord struct {
	StudentID string `json:"studentId" yaml:"studentId" validate:"required,uuid"`
	Score     int    `json:"score" yaml:"score" validate:"min=0,max=100"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DIGEST
// ══════════════════════════════════════════════════════════════════════════════

// Digest returns a content hash of the document. FromRoster output is
// deterministic, so equal rosters have equal digests.
func (d Document) Digest() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("snapshot: marshal for digest: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Digest is shorthand for FromRoster(data).Digest().
func Digest(data roster.ReadOnlyRoster) (string, error) {
	return FromRoster(data).Digest()
}
