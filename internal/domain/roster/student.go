// Package roster contains the student domain model of the academy.
// This is core business logic - no external dependencies here.
package roster

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Belt is the name of a rank in the academy's configured belt sequence.
// The sequence itself lives in the app settings; a Belt value is only
// meaningful relative to that sequence.
type Belt string

// String returns the string representation of the belt.
func (b Belt) String() string {
	return string(b)
}

// BeltIndex returns the position of belt in the sequence, or -1 when the
// belt is not part of it.
func BeltIndex(sequence []Belt, belt Belt) int {
	for i, b := range sequence {
		if b == belt {
			return i
		}
	}
	return -1
}

// NextBelt returns the belt that follows the given one in the sequence.
// The second return value is false for the last belt or an unknown belt.
func NextBelt(sequence []Belt, belt Belt) (Belt, bool) {
	idx := BeltIndex(sequence, belt)
	if idx < 0 || idx+1 >= len(sequence) {
		return "", false
	}
	return sequence[idx+1], true
}

// MaxStripes is the maximum number of stripes on any belt.
const MaxStripes = 4

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status determines whether a student is currently training.
type Status string

const (
	// StatusActive - the student trains and is offered as a check-in candidate.
	StatusActive Status = "ACTIVE"
	// StatusInactive - the student is paused; hidden from the totem.
	StatusInactive Status = "INACTIVE"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Graduation is one append-only entry in a student's promotion history.
type Graduation struct {
	// Date - when the promotion happened.
	Date time.Time `json:"date"`

	// Belt - the belt awarded.
	Belt Belt `json:"belt"`

	// Stripes - the stripe count awarded with the belt.
	Stripes int `json:"stripes"`

	// Author - who recorded the promotion.
	Author string `json:"author"`
}

// Student is the central entity of the system.
// JSON field names are the persisted wire format and must stay stable:
// they appear verbatim inside sync tokens exchanged between devices.
type Student struct {
	// ID - opaque unique identifier (UUID in string form).
	ID string `json:"id"`

	// Name - full display name.
	Name string `json:"name"`

	// Photo - optional small encoded image (data URL captured at reception).
	Photo string `json:"photo,omitempty"`

	// Phone - optional contact number.
	Phone string `json:"phone,omitempty"`

	// BirthDate - optional birth date (YYYY-MM-DD).
	BirthDate string `json:"birthDate,omitempty"`

	// Notes - free-form staff notes.
	Notes string `json:"notes,omitempty"`

	// Status - ACTIVE or INACTIVE.
	Status Status `json:"status"`

	// Belt - current belt; must be part of the configured sequence.
	Belt Belt `json:"belt"`

	// Stripes - current stripe count, 0 to MaxStripes.
	Stripes int `json:"stripes"`

	// LastGraduationUpdate - when belt or stripes last changed.
	LastGraduationUpdate time.Time `json:"lastGraduationUpdate"`

	// GraduationHistory - append-only promotion log, oldest first.
	GraduationHistory []Graduation `json:"graduationHistory"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidName - empty or oversized student name.
	ErrInvalidName = errors.New("invalid student name: must be 1-100 chars")

	// ErrInvalidStripes - stripe count outside 0..4.
	ErrInvalidStripes = fmt.Errorf("invalid stripe count: must be 0-%d", MaxStripes)

	// ErrUnknownBelt - belt not part of the configured sequence.
	ErrUnknownBelt = errors.New("unknown belt: not in the configured belt sequence")

	// ErrInvalidStatus - status is neither ACTIVE nor INACTIVE.
	ErrInvalidStatus = errors.New("invalid student status")

	// ErrGraduationBackdated - promotion dated before the last history entry.
	ErrGraduationBackdated = errors.New("graduation date precedes last recorded promotion")

	// ErrStudentNotFound - student not found in the roster.
	ErrStudentNotFound = errors.New("student not found")

	// ErrStudentInactive - operation requires an active student.
	ErrStudentInactive = errors.New("student is inactive")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams contains the parameters for enrolling a new student.
type NewStudentParams struct {
	ID        string
	Name      string
	Photo     string
	Phone     string
	BirthDate string
	Notes     string
	Belt      Belt
	Stripes   int
}

// NewStudent enrolls a student with all fields validated against the
// configured belt sequence. New students start ACTIVE with an empty
// graduation history.
func NewStudent(params NewStudentParams, sequence []Belt, now time.Time) (*Student, error) {
	if params.ID == "" {
		return nil, errors.New("student id is required")
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	belt := params.Belt
	if belt == "" && len(sequence) > 0 {
		belt = sequence[0]
	}
	if BeltIndex(sequence, belt) < 0 {
		return nil, ErrUnknownBelt
	}

	if params.Stripes < 0 || params.Stripes > MaxStripes {
		return nil, ErrInvalidStripes
	}

	return &Student{
		ID:                   params.ID,
		Name:                 name,
		Photo:                params.Photo,
		Phone:                params.Phone,
		BirthDate:            params.BirthDate,
		Notes:                params.Notes,
		Status:               StatusActive,
		Belt:                 belt,
		Stripes:              params.Stripes,
		LastGraduationUpdate: now,
		GraduationHistory:    make([]Graduation, 0),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// IsActive returns true when the student may be offered for check-in.
func (s *Student) IsActive() bool {
	return s.Status == StatusActive
}

// FirstName returns the first word of the student's name, as shown on the
// totem confirmation screen.
func (s *Student) FirstName() string {
	if i := strings.IndexByte(s.Name, ' '); i > 0 {
		return s.Name[:i]
	}
	return s.Name
}

// Promote awards a new belt and stripe count, appending to the graduation
// history. History entries are never edited or removed; promotions must not
// be dated before the last recorded entry.
func (s *Student) Promote(belt Belt, stripes int, author string, at time.Time, sequence []Belt) error {
	if BeltIndex(sequence, belt) < 0 {
		return ErrUnknownBelt
	}
	if stripes < 0 || stripes > MaxStripes {
		return ErrInvalidStripes
	}
	if n := len(s.GraduationHistory); n > 0 && at.Before(s.GraduationHistory[n-1].Date) {
		return ErrGraduationBackdated
	}

	s.Belt = belt
	s.Stripes = stripes
	s.LastGraduationUpdate = at
	s.GraduationHistory = append(s.GraduationHistory, Graduation{
		Date:    at,
		Belt:    belt,
		Stripes: stripes,
		Author:  author,
	})
	return nil
}

// Deactivate pauses the student.
func (s *Student) Deactivate() {
	s.Status = StatusInactive
}

// Reactivate returns a paused student to the mats.
func (s *Student) Reactivate() {
	s.Status = StatusActive
}

// String returns a string representation of the student for logging.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Belt: %s, Stripes: %d, Status: %s}",
		s.ID, s.Name, s.Belt, s.Stripes, s.Status)
}

// Clone creates a deep copy of the student.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := *s
	clone.GraduationHistory = append([]Graduation(nil), s.GraduationHistory...)
	return &clone
}
