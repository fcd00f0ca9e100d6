package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/item-lending/internal/domain"
)

// LoanFilter narrows List results. Zero values match everything.
type LoanFilter struct {
	Owner    *domain.UserKey
	Borrower *domain.UserKey
	ItemName *string
	OpenOnly bool
}

// LoanRepository is the append-only loan ledger.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	MarkReturned(ctx context.Context, id string, returnedAt time.Time) error
	FindOpen(ctx context.Context, owner, borrower domain.UserKey, itemName, loanDate string) (*domain.Loan, error)
	List(ctx context.Context, filter LoanFilter) ([]domain.Loan, error)
}

type loanRepository struct {
	mu    sync.RWMutex
	loans []*domain.Loan
}

// NewLoanRepository returns an in-memory ledger.
func NewLoanRepository() LoanRepository {
	return &loanRepository{}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if loan.ID == "" {
		loan.ID = uuid.NewString()
	}
	loan.CreatedAt = time.Now().UTC()
	stored := *loan
	r.loans = append(r.loans, &stored)
	return nil
}

func (r *loanRepository) MarkReturned(ctx context.Context, id string, returnedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, loan := range r.loans {
		if loan.ID == id {
			if !loan.Open() {
				return ErrNotFound
			}
			ts := returnedAt
			loan.ReturnDate = &ts
			return nil
		}
	}
	return ErrNotFound
}

func (r *loanRepository) FindOpen(ctx context.Context, owner, borrower domain.UserKey, itemName, loanDate string) (*domain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, loan := range r.loans {
		if loan.Open() && loan.Matches(owner, borrower, itemName, loanDate) {
			cp := *loan
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *loanRepository) List(ctx context.Context, filter LoanFilter) ([]domain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loans := make([]domain.Loan, 0)
	for _, loan := range r.loans {
		if filter.Owner != nil && loan.Owner != *filter.Owner {
			continue
		}
		if filter.Borrower != nil && loan.Borrower != *filter.Borrower {
			continue
		}
		if filter.ItemName != nil && loan.ItemName != *filter.ItemName {
			continue
		}
		if filter.OpenOnly && !loan.Open() {
			continue
		}
		loans = append(loans, *loan)
	}
	return loans, nil
}
