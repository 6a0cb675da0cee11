// Package checkin implements the totem check-in decision: given a student
// and the current billing state, either append a fresh attendance record or
// refuse with a billing-hold outcome. Each attempt is stateless; the engine
// keeps nothing between invocations.
package checkin

import (
	"time"

	"github.com/google/uuid"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/attendance"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/settings"
	"github.com/treebjjjapan/manager-dojo-marques/internal/store"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/logger"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

// Reason tells why a check-in was refused.
type Reason string

// ReasonOverdueBlocked - the student has an overdue fee and the academy
// does not allow training with an open balance. A normal business outcome,
// not a fault.
const ReasonOverdueBlocked Reason = "OVERDUE_BLOCKED"

// Outcome is the check-in contract exposed to the calling UI.
type Outcome struct {
	OK          bool               `json:"ok"`
	Reason      Reason             `json:"reason,omitempty"`
	Attendance  *attendance.Record `json:"attendance,omitempty"`
	DisplayName string             `json:"displayName,omitempty"`
	DisplayTime string             `json:"displayTime,omitempty"`
}

// Engine decides check-in admissibility and persists admitted attempts.
type Engine struct {
	store *store.Store
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

// New creates a check-in engine bound to the given store.
func New(st *store.Store, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Default()
	}
	return &Engine{
		store: st,
		log:   log.With(logger.Component("checkin")),
		now:   timeutil.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Decide is the pure admission rule. It never touches storage.
//
// A refused check-in produces no attendance record. An admitted one carries
// a fresh TOTEM record plus the confirmation payload the totem renders.
// Repeated check-ins by the same student on the same day are NOT
// deduplicated; every admissible attempt appends a new record.
func Decide(st *roster.Student, fees []billing.MonthlyFee, cfg settings.AppSettings, id string, now time.Time) (Outcome, error) {
	if !st.IsActive() {
		// Inactive students are filtered upstream; this is a guard, not a flow.
		return Outcome{}, roster.ErrStudentInactive
	}

	hasOverdue := false
	for _, f := range fees {
		if f.StudentID == st.ID && f.IsOverdue() {
			hasOverdue = true
			break
		}
	}

	if hasOverdue && !cfg.AllowCheckinWithOverdue {
		return Outcome{OK: false, Reason: ReasonOverdueBlocked}, nil
	}

	rec, err := attendance.New(id, st.ID, now, attendance.OriginTotem, attendance.DefaultClass)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		OK:          true,
		Attendance:  rec,
		DisplayName: st.FirstName(),
		DisplayTime: timeutil.ToAcademy(now).Format(timeutil.FormatTime),
	}, nil
}

// CheckIn loads the student's state from the store, decides, and appends
// the attendance record when admitted.
func (e *Engine) CheckIn(studentID string) (Outcome, error) {
	st, err := e.store.FindStudent(studentID)
	if err != nil {
		return Outcome{}, err
	}

	outcome, err := Decide(st, e.store.Fees(), e.store.Settings(), e.newID(), e.now())
	if err != nil {
		return Outcome{}, err
	}

	if !outcome.OK {
		e.log.Info("check-in refused",
			logger.StudentID(studentID),
			logger.String("reason", string(outcome.Reason)))
		return outcome, nil
	}

	if err := e.store.AppendAttendance(*outcome.Attendance); err != nil {
		return Outcome{}, err
	}

	e.log.Info("check-in recorded",
		logger.StudentID(studentID),
		logger.String("time", outcome.DisplayTime))
	return outcome, nil
}
