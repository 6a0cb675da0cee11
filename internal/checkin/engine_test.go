package checkin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/attendance"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/settings"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

func activeStudent() *roster.Student {
	return &roster.Student{
		ID:     "s1",
		Name:   "Carlos Eduardo Silva",
		Status: roster.StatusActive,
		Belt:   "AZUL",
	}
}

func overdueFee(studentID string) billing.MonthlyFee {
	return billing.MonthlyFee{
		ID:        "f1",
		StudentID: studentID,
		DueDate:   timeutil.Date(2026, 3, 5),
		Amount:    10000,
		Status:    billing.StatusOverdue,
	}
}

func TestDecide_AdmitsCleanStudent(t *testing.T) {
	now := timeutil.DateTime(2026, 3, 10, 19, 30, 0)
	cfg := settings.Default()

	outcome, err := Decide(activeStudent(), nil, cfg, "a1", now)
	require.NoError(t, err)

	assert.True(t, outcome.OK)
	assert.Empty(t, outcome.Reason)
	require.NotNil(t, outcome.Attendance)
	assert.Equal(t, "s1", outcome.Attendance.StudentID)
	assert.Equal(t, attendance.OriginTotem, outcome.Attendance.Origin)
	assert.Equal(t, attendance.DefaultClass, outcome.Attendance.Class)
	assert.Equal(t, "Carlos", outcome.DisplayName)
	assert.Equal(t, "19:30", outcome.DisplayTime)
}

func TestDecide_BlocksOverdueWhenGateClosed(t *testing.T) {
	now := timeutil.DateTime(2026, 3, 10, 19, 30, 0)
	cfg := settings.Default()
	cfg.AllowCheckinWithOverdue = false

	outcome, err := Decide(activeStudent(), []billing.MonthlyFee{overdueFee("s1")}, cfg, "a1", now)
	require.NoError(t, err)

	assert.False(t, outcome.OK)
	assert.Equal(t, ReasonOverdueBlocked, outcome.Reason)
	assert.Nil(t, outcome.Attendance)
}

func TestDecide_AdmitsOverdueWhenGateOpen(t *testing.T) {
	now := timeutil.DateTime(2026, 3, 10, 19, 30, 0)
	cfg := settings.Default()
	cfg.AllowCheckinWithOverdue = true

	outcome, err := Decide(activeStudent(), []billing.MonthlyFee{overdueFee("s1")}, cfg, "a1", now)
	require.NoError(t, err)

	assert.True(t, outcome.OK)
	require.NotNil(t, outcome.Attendance)
}

func TestDecide_IgnoresOtherStudentsFees(t *testing.T) {
	now := timeutil.Now()
	cfg := settings.Default()
	cfg.AllowCheckinWithOverdue = false

	outcome, err := Decide(activeStudent(), []billing.MonthlyFee{overdueFee("someone-else")}, cfg, "a1", now)
	require.NoError(t, err)
	assert.True(t, outcome.OK)
}

func TestDecide_PendingAndPaidFeesDoNotBlock(t *testing.T) {
	now := timeutil.Now()
	cfg := settings.Default()
	cfg.AllowCheckinWithOverdue = false

	paidAt := timeutil.Date(2026, 3, 3)
	fees := []billing.MonthlyFee{
		{ID: "f1", StudentID: "s1", Status: billing.StatusPending, Amount: 10000},
		{ID: "f2", StudentID: "s1", Status: billing.StatusPaid, Amount: 10000, PaymentDate: &paidAt},
	}

	outcome, err := Decide(activeStudent(), fees, cfg, "a1", now)
	require.NoError(t, err)
	assert.True(t, outcome.OK)
}

func TestDecide_RejectsInactiveStudent(t *testing.T) {
	st := activeStudent()
	st.Deactivate()

	_, err := Decide(st, nil, settings.Default(), "a1", timeutil.Now())
	assert.ErrorIs(t, err, roster.ErrStudentInactive)
}

func TestDecide_NoSameDayDeduplication(t *testing.T) {
	now := timeutil.DateTime(2026, 3, 10, 19, 30, 0)
	cfg := settings.Default()
	st := activeStudent()

	first, err := Decide(st, nil, cfg, "a1", now)
	require.NoError(t, err)
	second, err := Decide(st, nil, cfg, "a2", now.Add(5*time.Minute))
	require.NoError(t, err)

	assert.True(t, first.OK)
	assert.True(t, second.OK)
	assert.NotEqual(t, first.Attendance.ID, second.Attendance.ID)
}
