package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/item-lending/internal/config"
	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/events"
	"github.com/spec-kit/item-lending/internal/platform/keylock"
	"github.com/spec-kit/item-lending/internal/repository"
	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

// LoanService coordinates lending and returning items.
type LoanService struct {
	users      repository.UserRepository
	loans      repository.LoanRepository
	locks      *keylock.Locker
	dispatcher events.Dispatcher
	cfg        config.LoanConfig
}

// LoanDependencies bundles collaborators for the loan service.
type LoanDependencies struct {
	UserRepo   repository.UserRepository
	LoanRepo   repository.LoanRepository
	Locks      *keylock.Locker
	Dispatcher events.Dispatcher
	Config     config.LoanConfig
}

// LoanInput describes a loan registration.
type LoanInput struct {
	Owner      domain.UserKey
	Borrower   domain.UserKey
	ItemName   string
	LoanDate   string
	PeriodDays int
}

// ReturnInput identifies the loan being closed. LoanDate must equal the registered string.
type ReturnInput struct {
	Owner      domain.UserKey
	Borrower   domain.UserKey
	ItemName   string
	LoanDate   string
	ReturnDate string
}

// NewLoanService constructs the service.
func NewLoanService(deps LoanDependencies) *LoanService {
	locks := deps.Locks
	if locks == nil {
		locks = keylock.New()
	}
	cfg := deps.Config
	if cfg.DateLayout == "" {
		cfg.DateLayout = domain.DefaultDateLayout
	}
	return &LoanService{
		users:      deps.UserRepo,
		loans:      deps.LoanRepo,
		locks:      locks,
		dispatcher: deps.Dispatcher,
		cfg:        cfg,
	}
}

// RegisterLoan lends an available item. Every check runs before the ledger or the item changes.
func (s *LoanService) RegisterLoan(ctx context.Context, input LoanInput) (*domain.Loan, error) {
	unlockUsers := lockUsers(s.locks, input.Owner, input.Borrower)
	defer unlockUsers()

	owner, _, err := s.resolveParties(ctx, input.Owner, input.Borrower)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(itemLockKey(input.Owner, input.ItemName))
	defer unlock()

	item, err := findItem(owner, input.ItemName)
	if err != nil {
		return nil, err
	}
	if item.OnLoan() {
		return nil, apperrors.NewOperationNotAllowed("item is on loan", map[string]any{"item": input.ItemName})
	}
	loanDate, err := domain.ParseDate(s.cfg.DateLayout, input.LoanDate)
	if err != nil {
		return nil, err
	}
	if err := s.validatePeriod(input.PeriodDays); err != nil {
		return nil, err
	}

	loan := &domain.Loan{
		Owner:       input.Owner,
		Borrower:    input.Borrower,
		ItemName:    input.ItemName,
		LoanDate:    loanDate,
		LoanDateRaw: input.LoanDate,
		PeriodDays:  input.PeriodDays,
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, err
	}
	if err := domain.MarkOnLoan(item); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventLoanRegistered,
		Owner:    input.Owner,
		ItemName: input.ItemName,
		Payload: events.LoanRegisteredPayload{
			LoanID:     loan.ID,
			Borrower:   input.Borrower,
			LoanDate:   input.LoanDate,
			PeriodDays: input.PeriodDays,
			DueDate:    loan.DueDate(),
		},
	})
	return loan, nil
}

// ReturnItem closes the open loan matching the full key and makes the item available again.
func (s *LoanService) ReturnItem(ctx context.Context, input ReturnInput) (*domain.Loan, error) {
	owner, _, err := s.resolveParties(ctx, input.Owner, input.Borrower)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(itemLockKey(input.Owner, input.ItemName))
	defer unlock()

	item, err := findItem(owner, input.ItemName)
	if err != nil {
		return nil, err
	}
	loan, err := s.loans.FindOpen(ctx, input.Owner, input.Borrower, input.ItemName, input.LoanDate)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewLoanNotFound(map[string]any{
			"owner":     input.Owner.String(),
			"borrower":  input.Borrower.String(),
			"item":      input.ItemName,
			"loan_date": input.LoanDate,
		})
	}
	if err != nil {
		return nil, err
	}
	returnDate, err := domain.ParseDate(s.cfg.DateLayout, input.ReturnDate)
	if err != nil {
		return nil, err
	}
	if returnDate.Before(loan.LoanDate) {
		return nil, apperrors.NewInvalidData("return date before loan date", map[string]any{
			"loan_date":   input.LoanDate,
			"return_date": input.ReturnDate,
		})
	}

	if err := s.loans.MarkReturned(ctx, loan.ID, returnDate); err != nil {
		return nil, err
	}
	domain.MarkAvailable(item)
	loan.ReturnDate = &returnDate

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventItemReturned,
		Owner:    input.Owner,
		ItemName: input.ItemName,
		Payload: events.ItemReturnedPayload{
			LoanID:     loan.ID,
			Borrower:   input.Borrower,
			ReturnDate: returnDate,
			Late:       returnDate.After(loan.DueDate()),
		},
	})
	return loan, nil
}

// LoanHistory lists every loan of an item, oldest first. History outlives removed items.
func (s *LoanService) LoanHistory(ctx context.Context, ownerKey domain.UserKey, itemName string) ([]domain.Loan, error) {
	if _, err := resolveUser(ctx, s.users, ownerKey); err != nil {
		return nil, err
	}
	return s.loans.List(ctx, repository.LoanFilter{Owner: &ownerKey, ItemName: &itemName})
}

// OpenLoanFor returns the open loan of an item, or LoanNotFound when it is available.
func (s *LoanService) OpenLoanFor(ctx context.Context, ownerKey domain.UserKey, itemName string) (*domain.Loan, error) {
	if _, err := resolveUser(ctx, s.users, ownerKey); err != nil {
		return nil, err
	}
	open, err := s.loans.List(ctx, repository.LoanFilter{Owner: &ownerKey, ItemName: &itemName, OpenOnly: true})
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, apperrors.NewLoanNotFound(map[string]any{"owner": ownerKey.String(), "item": itemName})
	}
	return &open[0], nil
}

// OpenLoans lists the open loans a user takes part in as borrower.
func (s *LoanService) OpenLoans(ctx context.Context, borrower domain.UserKey) ([]domain.Loan, error) {
	if _, err := resolveUser(ctx, s.users, borrower); err != nil {
		return nil, err
	}
	return s.loans.List(ctx, repository.LoanFilter{Borrower: &borrower, OpenOnly: true})
}

func (s *LoanService) resolveParties(ctx context.Context, ownerKey, borrowerKey domain.UserKey) (*domain.User, *domain.User, error) {
	owner, err := resolveUser(ctx, s.users, ownerKey)
	if err != nil {
		return nil, nil, err
	}
	borrower, err := resolveUser(ctx, s.users, borrowerKey)
	if err != nil {
		return nil, nil, err
	}
	return owner, borrower, nil
}

func (s *LoanService) validatePeriod(days int) error {
	if days <= 0 || (s.cfg.MaxPeriodDays > 0 && days > s.cfg.MaxPeriodDays) {
		return apperrors.NewInvalidData("invalid loan period", map[string]any{"period": days})
	}
	return nil
}

// Overdue reports whether an open loan has passed its due date at now.
func Overdue(loan domain.Loan, now time.Time) bool {
	return loan.Open() && now.After(loan.DueDate())
}
