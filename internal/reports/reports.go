// Package reports computes the dashboard figures as pure folds over
// already-loaded collections. Nothing here mutates store data; callers load
// through the store and pass copies in.
package reports

import (
	"sort"
	"time"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/settings"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

// ActiveStudents counts students currently training.
func ActiveStudents(students []roster.Student) int {
	n := 0
	for _, s := range students {
		if s.IsActive() {
			n++
		}
	}
	return n
}

// MonthlyRevenue sums PAID fees whose payment date falls in ref's calendar
// month, in the academy timezone.
func MonthlyRevenue(fees []billing.MonthlyFee, ref time.Time) int64 {
	var total int64
	for _, f := range fees {
		if f.IsPaid() && f.PaymentDate != nil && timeutil.SameMonth(*f.PaymentDate, ref) {
			total += f.Amount
		}
	}
	return total
}

// TotalReceived sums every PAID fee regardless of month.
func TotalReceived(fees []billing.MonthlyFee) int64 {
	var total int64
	for _, f := range fees {
		if f.IsPaid() {
			total += f.Amount
		}
	}
	return total
}

// OutstandingTotal sums every OVERDUE fee.
func OutstandingTotal(fees []billing.MonthlyFee) int64 {
	var total int64
	for _, f := range fees {
		if f.IsOverdue() {
			total += f.Amount
		}
	}
	return total
}

// OverdueCount counts fees currently OVERDUE.
func OverdueCount(fees []billing.MonthlyFee) int {
	n := 0
	for _, f := range fees {
		if f.IsOverdue() {
			n++
		}
	}
	return n
}

// Candidate is an active student ranked for promotion review.
type Candidate struct {
	Student      roster.Student `json:"student"`
	MonthsOnRank int            `json:"monthsOnRank"`
	NextBelt     roster.Belt    `json:"nextBelt,omitempty"`
	AtFinalBelt  bool           `json:"atFinalBelt"`
	StripesMaxed bool           `json:"stripesMaxed"`
}

// GraduationCandidates lists active students ordered by time since their
// last promotion, longest first, annotated with the next belt from the
// configured sequence.
func GraduationCandidates(students []roster.Student, cfg settings.AppSettings, now time.Time, limit int) []Candidate {
	candidates := make([]Candidate, 0, len(students))
	for _, s := range students {
		if !s.IsActive() {
			continue
		}
		next, ok := roster.NextBelt(cfg.Belts, s.Belt)
		candidates = append(candidates, Candidate{
			Student:      s,
			MonthsOnRank: monthsBetween(s.LastGraduationUpdate, now),
			NextBelt:     next,
			AtFinalBelt:  !ok,
			StripesMaxed: s.Stripes >= roster.MaxStripes,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MonthsOnRank > candidates[j].MonthsOnRank
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// SchedulesForDay filters the configured class slots down to one weekday.
func SchedulesForDay(cfg settings.AppSettings, day time.Weekday) []settings.Schedule {
	name := timeutil.WeekdayNames[day]
	out := make([]settings.Schedule, 0)
	for _, sch := range cfg.Schedules {
		if sch.DayOfWeek == name {
			out = append(out, sch)
		}
	}
	return out
}

func monthsBetween(from, to time.Time) int {
	la, lb := timeutil.ToAcademy(from), timeutil.ToAcademy(to)
	months := (lb.Year()-la.Year())*12 + int(lb.Month()) - int(la.Month())
	if lb.Day() < la.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
