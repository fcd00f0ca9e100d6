package events

import (
	"time"

	"github.com/spec-kit/item-lending/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventItemRegistered EventType = "item_registered"
	EventItemRemoved    EventType = "item_removed"
	EventLoanRegistered EventType = "loan_registered"
	EventItemReturned   EventType = "item_returned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Owner     domain.UserKey `json:"owner"`
	ItemName  string         `json:"item_name"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   any            `json:"payload"`
}

// ItemRegisteredPayload payload.
type ItemRegisteredPayload struct {
	Kind  domain.ItemKind `json:"kind"`
	Price float64         `json:"price"`
}

// LoanRegisteredPayload payload.
type LoanRegisteredPayload struct {
	LoanID     string         `json:"loan_id"`
	Borrower   domain.UserKey `json:"borrower"`
	LoanDate   string         `json:"loan_date"`
	PeriodDays int            `json:"period_days"`
	DueDate    time.Time      `json:"due_date"`
}

// ItemReturnedPayload payload.
type ItemReturnedPayload struct {
	LoanID     string         `json:"loan_id"`
	Borrower   domain.UserKey `json:"borrower"`
	ReturnDate time.Time      `json:"return_date"`
	Late       bool           `json:"late"`
}
