package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

type studentRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Photo     string `json:"photo"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate"`
	Notes     string `json:"notes"`
	Belt      string `json:"belt"`
	Stripes   int    `json:"stripes" validate:"min=0,max=4"`
	Status    string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// listStudents returns the roster, optionally filtered by name search and
// status (the totem asks for status=ACTIVE).
func (s *Server) listStudents(c echo.Context) error {
	search := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	status := roster.Status(c.QueryParam("status"))

	students := s.store.Students()
	out := make([]roster.Student, 0, len(students))
	for _, st := range students {
		if status.IsValid() && st.Status != status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(st.Name), search) {
			continue
		}
		out = append(out, st)
	}
	return c.JSON(http.StatusOK, out)
}

// createStudent enrolls a new student.
func (s *Server) createStudent(c echo.Context) error {
	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid student fields")
	}

	cfg := s.store.Settings()
	st, err := roster.NewStudent(roster.NewStudentParams{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Photo:     req.Photo,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Notes:     req.Notes,
		Belt:      roster.Belt(req.Belt),
		Stripes:   req.Stripes,
	}, cfg.Belts, timeutil.Now())
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}

	if err := s.store.SaveStudents(append(s.store.Students(), *st)); err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not persist student")
	}
	return c.JSON(http.StatusCreated, st)
}

// updateStudent edits contact fields and status. Belt and stripes only
// change through the promote endpoint so the graduation history stays
// consistent.
func (s *Server) updateStudent(c echo.Context) error {
	id := c.Param("id")

	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid student fields")
	}

	students := s.store.Students()
	for i := range students {
		if students[i].ID != id {
			continue
		}
		st := &students[i]
		st.Name = strings.TrimSpace(req.Name)
		st.Photo = req.Photo
		st.Phone = req.Phone
		st.BirthDate = req.BirthDate
		st.Notes = req.Notes
		if req.Status != "" {
			st.Status = roster.Status(req.Status)
		}

		if err := s.store.SaveStudents(students); err != nil {
			return errJSON(c, http.StatusInternalServerError, "could not persist student")
		}
		return c.JSON(http.StatusOK, st)
	}
	return errJSON(c, http.StatusNotFound, roster.ErrStudentNotFound.Error())
}

// deleteStudent removes a student and cascades to fees and attendance.
// The caller must send confirm=true: there is no undo.
func (s *Server) deleteStudent(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return errJSON(c, http.StatusBadRequest, "deletion requires confirm=true")
	}

	err := s.store.DeleteStudent(c.Param("id"))
	if errors.Is(err, roster.ErrStudentNotFound) {
		return errJSON(c, http.StatusNotFound, err.Error())
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not delete student")
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

type promoteRequest struct {
	Belt    string `json:"belt" validate:"required"`
	Stripes int    `json:"stripes" validate:"min=0,max=4"`
}

// promoteStudent awards a belt/stripe change and appends to the
// graduation history.
func (s *Server) promoteStudent(c echo.Context) error {
	id := c.Param("id")

	var req promoteRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid promotion fields")
	}

	cfg := s.store.Settings()
	students := s.store.Students()
	for i := range students {
		if students[i].ID != id {
			continue
		}
		err := students[i].Promote(roster.Belt(req.Belt), req.Stripes, operatorName(c), timeutil.Now(), cfg.Belts)
		if err != nil {
			return errJSON(c, http.StatusBadRequest, err.Error())
		}
		if err := s.store.SaveStudents(students); err != nil {
			return errJSON(c, http.StatusInternalServerError, "could not persist promotion")
		}
		return c.JSON(http.StatusOK, students[i])
	}
	return errJSON(c, http.StatusNotFound, roster.ErrStudentNotFound.Error())
}
