// Package student contains the student entity of the roster.
// This is pure domain logic: no storage, no presentation.
package student

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tutorspet/tutorspet/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

var (
	phoneRegex = regexp.MustCompile(`^\d{3,}$`)
	emailRegex = regexp.MustCompile(`^[A-Za-z0-9+_.\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-.]*[A-Za-z0-9])?$`)
	tagRegex   = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// ValidateName checks that a name is not blank.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.ErrInvalidName
	}
	return nil
}

// ValidatePhone checks that a phone number has at least 3 digits and nothing else.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return shared.ErrInvalidPhone
	}
	return nil
}

// ValidateEmail checks the local@domain shape of an email address.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return shared.ErrInvalidEmail
	}
	return nil
}

// ValidateTag checks that a tag is a single alphanumeric word.
func ValidateTag(tag string) error {
	if !tagRegex.MatchString(tag) {
		return shared.ErrInvalidTag
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is a person tracked by the roster.
type Student struct {
	// ID is assigned at creation and never reused. Module classes and
	// attendance records reference the student only through it.
	ID shared.StudentID

	// Name is the full name, never blank.
	Name string

	// Phone is the first contact field.
	Phone string

	// Email is the second contact field.
	Email string

	// Tags is a sorted set of labels.
	Tags []string
}

// NewStudentParams holds the fields of a student to create.
type NewStudentParams struct {
	Name  string
	Phone string
	Email string
	Tags  []string
}

// NewStudent creates a student with a freshly generated ID.
func NewStudent(params NewStudentParams) (Student, error) {
	return Restore(shared.NewStudentID(), params)
}

// Restore rebuilds a student with a known ID, e.g. when loading from storage
// or replacing an edited student.
func Restore(id shared.StudentID, params NewStudentParams) (Student, error) {
	if id.IsNil() {
		return Student{}, shared.ErrInvalidStudentID
	}

	name := strings.TrimSpace(params.Name)
	if err := ValidateName(name); err != nil {
		return Student{}, err
	}

	phone := strings.TrimSpace(params.Phone)
	if err := ValidatePhone(phone); err != nil {
		return Student{}, err
	}

	email := strings.TrimSpace(params.Email)
	if err := ValidateEmail(email); err != nil {
		return Student{}, err
	}

	tags, err := normalizeTags(params.Tags)
	if err != nil {
		return Student{}, err
	}

	return Student{
		ID:    id,
		Name:  name,
		Phone: phone,
		Email: email,
		Tags:  tags,
	}, nil
}

func normalizeTags(in []string) ([]string, error) {
	set := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if err := ValidateTag(t); err != nil {
			return nil, err
		}
		set[t] = struct{}{}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}

// Params returns the editable fields of the student.
func (s Student) Params() NewStudentParams {
	return NewStudentParams{
		Name:  s.Name,
		Phone: s.Phone,
		Email: s.Email,
		Tags:  append([]string(nil), s.Tags...),
	}
}

// HasTag reports whether the student carries the tag.
func (s Student) HasTag(tag string) bool {
	i := sort.SearchStrings(s.Tags, tag)
	return i < len(s.Tags) && s.Tags[i] == tag
}

// IsSame reports whether both values describe the same real-world student:
// same name and at least one matching contact field.
// This weaker notion governs duplicate detection.
func (s Student) IsSame(other Student) bool {
	return s.Name == other.Name &&
		(s.Phone == other.Phone || s.Email == other.Email)
}

// Equal reports whether every field, including the ID, matches.
func (s Student) Equal(other Student) bool {
	if s.ID != other.ID || s.Name != other.Name || s.Phone != other.Phone || s.Email != other.Email {
		return false
	}
	if len(s.Tags) != len(other.Tags) {
		return false
	}
	for i := range s.Tags {
		if s.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return true
}

// Clone returns an independently owned copy.
func (s Student) Clone() Student {
	s.Tags = append([]string(nil), s.Tags...)
	return s
}

// String returns a one-line description.
func (s Student) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteString("; Phone: ")
	b.WriteString(s.Phone)
	b.WriteString("; Email: ")
	b.WriteString(s.Email)
	if len(s.Tags) > 0 {
		b.WriteString("; Tags: ")
		for _, t := range s.Tags {
			b.WriteString("[" + t + "]")
		}
	}
	return b.String()
}
