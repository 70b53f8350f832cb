package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment axis of an intake record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// WorkflowStatus is the operator-managed axis of an intake record.
// It is independent of PaymentStatus.
type WorkflowStatus string

const (
	WorkflowPending   WorkflowStatus = "pending"
	WorkflowScheduled WorkflowStatus = "scheduled"
	WorkflowCompleted WorkflowStatus = "completed"
)

// WorkflowStatuses lists the valid operator statuses.
var WorkflowStatuses = []WorkflowStatus{WorkflowPending, WorkflowScheduled, WorkflowCompleted}

// IsValid reports whether s is a known workflow status.
func (s WorkflowStatus) IsValid() bool {
	for _, v := range WorkflowStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ClientProfile holds the questionnaire answers submitted with a booking.
type ClientProfile struct {
	FirstName        string
	LastName         string
	Email            string
	PhoneNumber      string
	Age              int
	Occupation       string
	Goals            []string
	ReadinessScore   int
	SleepHours       string
	StressLevel      string
	Movement         []string
	SkinConcerns     []string
	DietDescription  string
	EnergyCrashes    bool
	TakesSupplements bool
	HealthIssues     bool
	BiggestChallenge string
	SuccessVision    string
}

// FullName returns "First Last".
func (p ClientProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// OrderDescription is the payment order line shown to the client by the processor.
func OrderDescription(p ClientProfile, date time.Time) string {
	return fmt.Sprintf("Consultation: %s, %s", p.FullName(), date.Format(DateFormat))
}

// IntakeRecord is a consultation booking: client profile plus the two status axes.
type IntakeRecord struct {
	ID      int64
	Profile ClientProfile

	Status WorkflowStatus

	PaymentStatus PaymentStatus
	// PaymentAmount is the price snapshot taken when the booking was reserved.
	// It is never recomputed.
	PaymentAmount    *decimal.Decimal
	PaymentReference *string
	PaymentOrderID   *string
	PaymentDate      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPaid reports whether payment has been captured.
func (r *IntakeRecord) IsPaid() bool {
	return r.PaymentStatus == PaymentCompleted
}

// AwaitsPayment reports whether the record still holds reservations pending a capture.
func (r *IntakeRecord) AwaitsPayment() bool {
	return r.PaymentStatus == PaymentPending
}

// FormattedAmount returns the snapshot amount with two decimals, or "" when absent.
func (r *IntakeRecord) FormattedAmount() string {
	if r.PaymentAmount == nil {
		return ""
	}
	return r.PaymentAmount.StringFixed(CurrencyPrecision)
}

// IntakeFilter narrows the operator list view.
type IntakeFilter struct {
	Status *WorkflowStatus
	// Search matches "first last" case-insensitively.
	Search string
	Limit  uint64
}

// PendingPaymentFilter selects intakes the reconciler should re-check.
type PendingPaymentFilter struct {
	CreatedBefore time.Time
	Limit         uint64
}
