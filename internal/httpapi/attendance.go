package httpapi

import (
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/attendance"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

// listAttendance returns the attendance history, newest first.
func (s *Server) listAttendance(c echo.Context) error {
	studentID := c.QueryParam("studentId")

	records := s.store.Attendance()
	out := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if studentID != "" && r.StudentID != studentID {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateTime.After(out[j].DateTime)
	})
	return c.JSON(http.StatusOK, out)
}

type attendanceRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Class     string `json:"class"`
}

// recordAttendance lets staff record a presence manually, bypassing the
// totem gate. Origin is MANUAL so reports can tell the two apart.
func (s *Server) recordAttendance(c echo.Context) error {
	var req attendanceRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "studentId is required")
	}

	if _, err := s.store.FindStudent(req.StudentID); err != nil {
		return errJSON(c, http.StatusNotFound, roster.ErrStudentNotFound.Error())
	}

	rec, err := attendance.New(uuid.NewString(), req.StudentID, timeutil.Now(), attendance.OriginManual, req.Class)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}

	if err := s.store.AppendAttendance(*rec); err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not persist attendance")
	}
	return c.JSON(http.StatusCreated, rec)
}
