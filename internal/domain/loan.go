package domain

import (
	"time"

	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

// DefaultDateLayout is the expected format of loan and return dates.
const DefaultDateLayout = "2006-01-02"

// Loan is a ledger entry. Loans are closed by setting ReturnDate and never deleted.
type Loan struct {
	ID          string
	Owner       UserKey
	Borrower    UserKey
	ItemName    string
	LoanDate    time.Time
	LoanDateRaw string
	PeriodDays  int
	ReturnDate  *time.Time
	CreatedAt   time.Time
}

// DueDate is the loan date plus the period.
func (l *Loan) DueDate() time.Time {
	return l.LoanDate.AddDate(0, 0, l.PeriodDays)
}

// Open reports whether the item has not been returned yet.
func (l *Loan) Open() bool {
	return l.ReturnDate == nil
}

// Matches compares the full return key. The loan date is compared verbatim.
func (l *Loan) Matches(owner, borrower UserKey, itemName, loanDate string) bool {
	return l.Owner == owner && l.Borrower == borrower && l.ItemName == itemName && l.LoanDateRaw == loanDate
}

// ParseDate parses raw strictly with layout.
func ParseDate(layout, raw string) (time.Time, error) {
	if layout == "" {
		layout = DefaultDateLayout
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidDate(raw, err)
	}
	return t, nil
}
