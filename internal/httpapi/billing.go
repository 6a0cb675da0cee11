package httpapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

// listFees returns every fee, newest due date first, optionally filtered
// by status or student.
func (s *Server) listFees(c echo.Context) error {
	status := billing.Status(c.QueryParam("status"))
	studentID := c.QueryParam("studentId")

	fees := s.store.Fees()
	out := make([]billing.MonthlyFee, 0, len(fees))
	for _, f := range fees {
		if status.IsValid() && f.Status != status {
			continue
		}
		if studentID != "" && f.StudentID != studentID {
			continue
		}
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.After(out[j].DueDate)
	})
	return c.JSON(http.StatusOK, out)
}

type feeRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	DueDate   string `json:"dueDate" validate:"required"`
	Amount    int64  `json:"amount" validate:"min=0"`
	Notes     string `json:"notes"`
}

// createFee issues a pending fee for a student.
func (s *Server) createFee(c echo.Context) error {
	var req feeRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid fee fields")
	}

	due, err := time.ParseInLocation(timeutil.FormatDate, req.DueDate, timeutil.AcademyTZ)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "dueDate must be YYYY-MM-DD")
	}

	if _, err := s.store.FindStudent(req.StudentID); err != nil {
		return errJSON(c, http.StatusNotFound, roster.ErrStudentNotFound.Error())
	}

	fee, err := billing.NewMonthlyFee(uuid.NewString(), req.StudentID, due, req.Amount)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	fee.Notes = req.Notes

	if err := s.store.SaveFees(append(s.store.Fees(), *fee)); err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not persist fee")
	}
	return c.JSON(http.StatusCreated, fee)
}

type payRequest struct {
	Method string `json:"method" validate:"required,oneof=PIX CASH CARD"`
}

// payFee settles a fee with the given payment method.
func (s *Server) payFee(c echo.Context) error {
	id := c.Param("id")

	var req payRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "method must be PIX, CASH or CARD")
	}

	fees := s.store.Fees()
	for i := range fees {
		if fees[i].ID != id {
			continue
		}
		if err := fees[i].MarkPaid(billing.PaymentMethod(req.Method), timeutil.Now()); err != nil {
			return errJSON(c, http.StatusConflict, err.Error())
		}
		if err := s.store.SaveFees(fees); err != nil {
			return errJSON(c, http.StatusInternalServerError, "could not persist payment")
		}
		return c.JSON(http.StatusOK, fees[i])
	}
	return errJSON(c, http.StatusNotFound, billing.ErrFeeNotFound.Error())
}
