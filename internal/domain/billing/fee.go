// Package billing contains the monthly fee and plan domain model.
// This is core business logic - no external dependencies here.
package billing

import (
	"errors"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the payment state of a monthly fee.
//
// Allowed transitions: PENDING → PAID, PENDING → OVERDUE → PAID.
// PAID is terminal.
type Status string

const (
	// StatusPending - issued, not yet due or not yet paid.
	StatusPending Status = "PENDING"
	// StatusPaid - settled. Terminal.
	StatusPaid Status = "PAID"
	// StatusOverdue - past its due date without payment.
	StatusOverdue Status = "OVERDUE"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusOverdue
}

// PaymentMethod is how a fee was settled.
type PaymentMethod string

const (
	PaymentPIX  PaymentMethod = "PIX"
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

// IsValid checks that the method is one of the known values.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentPIX || m == PaymentCash || m == PaymentCard
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// MonthlyFee is one billing cycle charge for one student.
// JSON field names are the persisted wire format used inside sync tokens.
type MonthlyFee struct {
	// ID - opaque unique identifier.
	ID string `json:"id"`

	// StudentID - the charged student. Referential integrity is advisory;
	// cascade deletion of a student removes these rows.
	StudentID string `json:"studentId"`

	// DueDate - when the fee falls due.
	DueDate time.Time `json:"dueDate"`

	// Amount - integer minor-unit currency (yen). Never negative.
	Amount int64 `json:"amount"`

	// Status - PENDING, PAID or OVERDUE.
	Status Status `json:"status"`

	// PaymentDate - set when the fee is settled.
	PaymentDate *time.Time `json:"paymentDate,omitempty"`

	// PaymentMethod - set when the fee is settled.
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`

	// Notes - free-form staff notes.
	Notes string `json:"notes,omitempty"`
}

// Plan is a named price point for enrollment.
type Plan struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Validate checks plan invariants.
func (p Plan) Validate() error {
	if p.Name == "" {
		return ErrInvalidPlanName
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNegativeAmount - fee amount below zero.
	ErrNegativeAmount = errors.New("invalid fee amount: must be non-negative")

	// ErrInvalidPaymentMethod - unknown payment method.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrFeeAlreadyPaid - PAID is terminal; the fee cannot change again.
	ErrFeeAlreadyPaid = errors.New("fee is already paid")

	// ErrFeeNotFound - fee not found.
	ErrFeeNotFound = errors.New("fee not found")

	// ErrInvalidPlanName - plan without a name.
	ErrInvalidPlanName = errors.New("invalid plan: name is required")

	// ErrNegativePrice - plan price below zero.
	ErrNegativePrice = errors.New("invalid plan price: must be non-negative")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & BUSINESS LOGIC
// ══════════════════════════════════════════════════════════════════════════════

// NewMonthlyFee issues a pending fee for a student.
func NewMonthlyFee(id, studentID string, dueDate time.Time, amount int64) (*MonthlyFee, error) {
	if id == "" {
		return nil, errors.New("fee id is required")
	}
	if studentID == "" {
		return nil, errors.New("fee student id is required")
	}
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	return &MonthlyFee{
		ID:        id,
		StudentID: studentID,
		DueDate:   dueDate,
		Amount:    amount,
		Status:    StatusPending,
	}, nil
}

// MarkPaid settles the fee. Valid from PENDING and OVERDUE; PAID is terminal.
func (f *MonthlyFee) MarkPaid(method PaymentMethod, at time.Time) error {
	if f.Status == StatusPaid {
		return ErrFeeAlreadyPaid
	}
	if !method.IsValid() {
		return ErrInvalidPaymentMethod
	}

	f.Status = StatusPaid
	f.PaymentDate = &at
	f.PaymentMethod = method
	return nil
}

// MarkOverdue ages a pending fee into OVERDUE. Aging an already overdue fee
// is a no-op; a paid fee never ages.
func (f *MonthlyFee) MarkOverdue() error {
	switch f.Status {
	case StatusPaid:
		return ErrFeeAlreadyPaid
	case StatusOverdue:
		return nil
	default:
		f.Status = StatusOverdue
		return nil
	}
}

// IsOverdue returns true when the fee is in OVERDUE state.
func (f *MonthlyFee) IsOverdue() bool {
	return f.Status == StatusOverdue
}

// IsPaid returns true when the fee is settled.
func (f *MonthlyFee) IsPaid() bool {
	return f.Status == StatusPaid
}

// DueBefore returns true when the fee's due date is strictly before t.
func (f *MonthlyFee) DueBefore(t time.Time) bool {
	return f.DueDate.Before(t)
}

// String returns a string representation of the fee for logging.
func (f *MonthlyFee) String() string {
	return fmt.Sprintf("MonthlyFee{ID: %s, Student: %s, Amount: %d, Status: %s}",
		f.ID, f.StudentID, f.Amount, f.Status)
}
