// Package settings contains the academy configuration model and the single
// built-in default used when nothing has been persisted yet.
package settings

import (
	"errors"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
)

// Schedule is one recurring class slot.
type Schedule struct {
	ID        string `json:"id"`
	DayOfWeek string `json:"dayOfWeek"`
	Time      string `json:"time"`
	ClassName string `json:"className"`
}

// AppSettings is the academy-wide configuration.
// JSON field names are the persisted wire format used inside sync tokens.
type AppSettings struct {
	// AcademyName - shown on the totem header and reports.
	AcademyName string `json:"academyName"`

	// Plans - enrollment price points.
	Plans []billing.Plan `json:"plans"`

	// Schedules - recurring class slots.
	Schedules []Schedule `json:"schedules"`

	// AllowCheckinWithOverdue - the overdue gate: when false, a student with
	// any OVERDUE fee is refused at the totem.
	AllowCheckinWithOverdue bool `json:"allowCheckinWithOverdue"`

	// Belts - ordered belt sequence used by graduation flows. Must contain
	// at least one entry. Tokens exported by older devices may lack this
	// field; Normalize fills in the default sequence.
	Belts []roster.Belt `json:"belts,omitempty"`
}

// ErrEmptyBeltSequence - graduation logic needs at least one belt.
var ErrEmptyBeltSequence = errors.New("belt sequence must contain at least one belt")

// DefaultBelts is the adult Brazilian Jiu-Jitsu belt order.
var DefaultBelts = []roster.Belt{"BRANCA", "AZUL", "ROXA", "MARROM", "PRETA"}

// Default returns the built-in settings used when nothing is persisted.
// This is the only place default settings are constructed.
func Default() AppSettings {
	return AppSettings{
		AcademyName:             "TREE BRAZILIAN JIU JITSU",
		AllowCheckinWithOverdue: true,
		Plans: []billing.Plan{
			{ID: "1", Name: "Plano Adulto", Price: 10000},
			{ID: "2", Name: "Plano Kids", Price: 8000},
		},
		Schedules: []Schedule{
			{ID: "1", DayOfWeek: "Segunda", Time: "19:00", ClassName: "Jiu-Jitsu Adulto"},
			{ID: "2", DayOfWeek: "Terça", Time: "18:00", ClassName: "Jiu-Jitsu Kids"},
		},
		Belts: append([]roster.Belt(nil), DefaultBelts...),
	}
}

// Normalize repairs settings decoded from older devices: a missing belt
// sequence falls back to the default order.
func (s *AppSettings) Normalize() {
	if len(s.Belts) == 0 {
		s.Belts = append([]roster.Belt(nil), DefaultBelts...)
	}
}

// Validate checks settings invariants before persisting user edits.
func (s AppSettings) Validate() error {
	if s.AcademyName == "" {
		return errors.New("academy name is required")
	}
	if len(s.Belts) == 0 {
		return ErrEmptyBeltSequence
	}
	for _, p := range s.Plans {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
