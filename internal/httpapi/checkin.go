package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
)

type checkinRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

// totemCheckin runs one check-in attempt through the engine and returns
// the outcome contract as-is: the totem renders either the confirmation
// overlay or the billing-hold notice from this payload. A refused check-in
// is an HTTP 200 - it is a modeled outcome, not a fault.
func (s *Server) totemCheckin(c echo.Context) error {
	var req checkinRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "studentId is required")
	}

	outcome, err := s.engine.CheckIn(req.StudentID)
	if errors.Is(err, roster.ErrStudentNotFound) {
		return errJSON(c, http.StatusNotFound, err.Error())
	}
	if errors.Is(err, roster.ErrStudentInactive) {
		return errJSON(c, http.StatusConflict, err.Error())
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "check-in failed")
	}

	return c.JSON(http.StatusOK, outcome)
}
