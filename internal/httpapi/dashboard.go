package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/settings"
	"github.com/treebjjjapan/manager-dojo-marques/internal/reports"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

const candidateLimit = 5

type dashboardResponse struct {
	ActiveStudents       int                 `json:"activeStudents"`
	MonthlyRevenue       int64               `json:"monthlyRevenue"`
	TotalReceived        int64               `json:"totalReceived"`
	OutstandingTotal     int64               `json:"outstandingTotal"`
	OverdueCount         int                 `json:"overdueCount"`
	TodayAttendance      int                 `json:"todayAttendance"`
	GraduationCandidates []reports.Candidate `json:"graduationCandidates"`
	TodaySchedules       []settings.Schedule `json:"todaySchedules"`
	Weekday              string              `json:"weekday"`
}

// dashboard folds the raw collections into the panel's landing numbers.
// Everything is derived on request, nothing here is persisted.
func (s *Server) dashboard(c echo.Context) error {
	now := timeutil.Now()
	students := s.store.Students()
	fees := s.store.Fees()
	records := s.store.Attendance()
	cfg := s.store.Settings()

	todayAttendance := 0
	for _, rec := range records {
		if timeutil.SameDay(rec.DateTime, now) {
			todayAttendance++
		}
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		ActiveStudents:       reports.ActiveStudents(students),
		MonthlyRevenue:       reports.MonthlyRevenue(fees, now),
		TotalReceived:        reports.TotalReceived(fees),
		OutstandingTotal:     reports.OutstandingTotal(fees),
		OverdueCount:         reports.OverdueCount(fees),
		TodayAttendance:      todayAttendance,
		GraduationCandidates: reports.GraduationCandidates(students, cfg, now, candidateLimit),
		TodaySchedules:       reports.SchedulesForDay(cfg, timeutil.ToAcademy(now).Weekday()),
		Weekday:              timeutil.WeekdayName(now),
	})
}
