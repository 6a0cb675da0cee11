// Package attendance contains the attendance record domain model.
// Records are append-only: nothing in the system mutates or deletes one,
// except cascade deletion of the owning student.
package attendance

import (
	"errors"
	"time"
)

// Origin tells how a check-in was recorded.
type Origin string

const (
	// OriginTotem - self check-in on the kiosk at the academy entrance.
	OriginTotem Origin = "TOTEM"
	// OriginManual - recorded by staff from the admin panel.
	OriginManual Origin = "MANUAL"
)

// IsValid checks that the origin is one of the known values.
func (o Origin) IsValid() bool {
	return o == OriginTotem || o == OriginManual
}

// DefaultClass is the class label used when a check-in carries no
// specific class.
const DefaultClass = "Treino"

// Record is one attendance row.
// JSON field names are the persisted wire format used inside sync tokens.
type Record struct {
	// ID - opaque unique identifier.
	ID string `json:"id"`

	// StudentID - who attended.
	StudentID string `json:"studentId"`

	// DateTime - when the check-in happened.
	DateTime time.Time `json:"dateTime"`

	// Origin - TOTEM or MANUAL.
	Origin Origin `json:"origin"`

	// Class - class label, e.g. "Treino".
	Class string `json:"class"`
}

var (
	// ErrInvalidOrigin - unknown attendance origin.
	ErrInvalidOrigin = errors.New("invalid attendance origin")
)

// New builds an attendance record. An empty class falls back to DefaultClass.
func New(id, studentID string, at time.Time, origin Origin, class string) (*Record, error) {
	if id == "" {
		return nil, errors.New("attendance id is required")
	}
	if studentID == "" {
		return nil, errors.New("attendance student id is required")
	}
	if !origin.IsValid() {
		return nil, ErrInvalidOrigin
	}
	if class == "" {
		class = DefaultClass
	}

	return &Record{
		ID:        id,
		StudentID: studentID,
		DateTime:  at,
		Origin:    origin,
		Class:     class,
	}, nil
}
