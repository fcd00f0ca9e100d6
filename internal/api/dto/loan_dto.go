package dto

// LoanRequest payload for POST /loans.
type LoanRequest struct {
	Owner      UserKey `json:"owner"`
	Borrower   UserKey `json:"borrower"`
	Item       string  `json:"item"`
	LoanDate   string  `json:"loan_date"`
	PeriodDays int     `json:"period_days"`
}

// ReturnRequest payload for POST /loans/return.
type ReturnRequest struct {
	Owner      UserKey `json:"owner"`
	Borrower   UserKey `json:"borrower"`
	Item       string  `json:"item"`
	LoanDate   string  `json:"loan_date"`
	ReturnDate string  `json:"return_date"`
}

// LoanResponse describes a ledger entry.
type LoanResponse struct {
	ID         string  `json:"id"`
	Owner      UserKey `json:"owner"`
	Borrower   UserKey `json:"borrower"`
	Item       string  `json:"item"`
	LoanDate   string  `json:"loan_date"`
	PeriodDays int     `json:"period_days"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date,omitempty"`
	Overdue    bool    `json:"overdue"`
}
