package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/settings"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

func TestActiveStudents(t *testing.T) {
	students := []roster.Student{
		{ID: "s1", Status: roster.StatusActive},
		{ID: "s2", Status: roster.StatusInactive},
		{ID: "s3", Status: roster.StatusActive},
	}
	assert.Equal(t, 2, ActiveStudents(students))
	assert.Equal(t, 0, ActiveStudents(nil))
}

func TestRevenueFigures(t *testing.T) {
	ref := timeutil.Date(2026, 3, 15)
	paidThisMonth := timeutil.Date(2026, 3, 3)
	paidLastMonth := timeutil.Date(2026, 2, 20)

	fees := []billing.MonthlyFee{
		{ID: "f1", StudentID: "s1", Amount: 10000, Status: billing.StatusPaid, PaymentDate: &paidThisMonth},
		{ID: "f2", StudentID: "s2", Amount: 8000, Status: billing.StatusOverdue},
		{ID: "f3", StudentID: "s3", Amount: 10000, Status: billing.StatusPaid, PaymentDate: &paidLastMonth},
		{ID: "f4", StudentID: "s4", Amount: 10000, Status: billing.StatusPending},
	}

	assert.Equal(t, int64(10000), MonthlyRevenue(fees, ref))
	assert.Equal(t, int64(20000), TotalReceived(fees))
	assert.Equal(t, int64(8000), OutstandingTotal(fees))
	assert.Equal(t, 1, OverdueCount(fees))
}

func TestMonthlyRevenue_IgnoresPaidWithoutDate(t *testing.T) {
	// Defensive: a PAID fee without a payment date cannot be attributed
	// to any month.
	fees := []billing.MonthlyFee{
		{ID: "f1", Amount: 10000, Status: billing.StatusPaid},
	}
	assert.Equal(t, int64(0), MonthlyRevenue(fees, timeutil.Now()))
	assert.Equal(t, int64(10000), TotalReceived(fees))
}

func TestGraduationCandidates(t *testing.T) {
	now := timeutil.Date(2026, 6, 1)
	cfg := settings.Default()

	students := []roster.Student{
		{ID: "s1", Name: "Ana", Status: roster.StatusActive, Belt: "AZUL", Stripes: 4,
			LastGraduationUpdate: timeutil.Date(2024, 6, 1)},
		{ID: "s2", Name: "Bruno", Status: roster.StatusActive, Belt: "PRETA", Stripes: 0,
			LastGraduationUpdate: timeutil.Date(2025, 6, 1)},
		{ID: "s3", Name: "Clara", Status: roster.StatusInactive, Belt: "BRANCA",
			LastGraduationUpdate: timeutil.Date(2020, 1, 1)},
		{ID: "s4", Name: "Davi", Status: roster.StatusActive, Belt: "BRANCA", Stripes: 1,
			LastGraduationUpdate: timeutil.Date(2026, 3, 1)},
	}

	candidates := GraduationCandidates(students, cfg, now, 0)
	require.Len(t, candidates, 3) // inactive Clara excluded

	// Longest on rank first.
	assert.Equal(t, "s1", candidates[0].Student.ID)
	assert.Equal(t, 24, candidates[0].MonthsOnRank)
	assert.Equal(t, roster.Belt("ROXA"), candidates[0].NextBelt)
	assert.True(t, candidates[0].StripesMaxed)
	assert.False(t, candidates[0].AtFinalBelt)

	assert.Equal(t, "s2", candidates[1].Student.ID)
	assert.True(t, candidates[1].AtFinalBelt)
	assert.Empty(t, candidates[1].NextBelt)

	assert.Equal(t, "s4", candidates[2].Student.ID)
	assert.Equal(t, 3, candidates[2].MonthsOnRank)
}

func TestGraduationCandidates_Limit(t *testing.T) {
	now := timeutil.Now()
	cfg := settings.Default()
	students := []roster.Student{
		{ID: "s1", Status: roster.StatusActive, Belt: "BRANCA", LastGraduationUpdate: now.AddDate(-3, 0, 0)},
		{ID: "s2", Status: roster.StatusActive, Belt: "BRANCA", LastGraduationUpdate: now.AddDate(-2, 0, 0)},
		{ID: "s3", Status: roster.StatusActive, Belt: "BRANCA", LastGraduationUpdate: now.AddDate(-1, 0, 0)},
	}

	candidates := GraduationCandidates(students, cfg, now, 2)
	require.Len(t, candidates, 2)
	assert.Equal(t, "s1", candidates[0].Student.ID)
	assert.Equal(t, "s2", candidates[1].Student.ID)
}

func TestSchedulesForDay(t *testing.T) {
	cfg := settings.AppSettings{Schedules: []settings.Schedule{
		{ID: "1", DayOfWeek: "Segunda", Time: "19:00", ClassName: "Jiu-Jitsu Adulto"},
		{ID: "2", DayOfWeek: "Terça", Time: "18:00", ClassName: "Jiu-Jitsu Kids"},
		{ID: "3", DayOfWeek: "Segunda", Time: "07:00", ClassName: "Treino Livre"},
	}}

	monday := SchedulesForDay(cfg, time.Monday)
	require.Len(t, monday, 2)
	assert.Equal(t, "1", monday[0].ID)
	assert.Equal(t, "3", monday[1].ID)

	assert.Empty(t, SchedulesForDay(cfg, time.Sunday))
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 12, monthsBetween(timeutil.Date(2025, 3, 10), timeutil.Date(2026, 3, 10)))
	assert.Equal(t, 11, monthsBetween(timeutil.Date(2025, 3, 10), timeutil.Date(2026, 3, 9)))
	assert.Equal(t, 0, monthsBetween(timeutil.Date(2026, 3, 10), timeutil.Date(2026, 3, 10)))
	// Clock skew between devices must not produce negative tenure.
	assert.Equal(t, 0, monthsBetween(timeutil.Date(2026, 5, 1), timeutil.Date(2026, 3, 1)))
}
