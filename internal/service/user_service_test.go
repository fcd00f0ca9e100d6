package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/item-lending/internal/config"
	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/service"
	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

func Test_UserService_Register(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, config.LoanConfig{})

	_, err := r.users.Register(ctx, ana.Name, ana.Phone, "other@example.com")
	assert.ErrorIs(t, err, apperrors.ErrOperationNotAllowed)

	_, err = r.users.Register(ctx, "Ana", "", "ana@example.com")
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	// same name, different phone is a different user
	_, err = r.users.Register(ctx, ana.Name, "555-9999", "ana2@example.com")
	require.NoError(t, err)

	n, err := r.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func Test_UserService_UpdateEmail(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, config.LoanConfig{})

	user, err := r.users.UpdateEmail(ctx, ana, "ana@new.example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana@new.example.com", user.Email())

	_, err = r.users.UpdateEmail(ctx, ana, " ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	_, err = r.users.UpdateEmail(ctx, domain.UserKey{Name: "Ghost", Phone: "0"}, "g@example.com")
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)
}

func Test_UserService_RemoveBlockedByOpenLoan(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, config.LoanConfig{})
	r.addBoardGame(t, ana, "X", 10)
	_, err := r.loans.RegisterLoan(ctx, loanX())
	require.NoError(t, err)

	assert.ErrorIs(t, r.users.Remove(ctx, bo), apperrors.ErrOperationNotAllowed)
	assert.ErrorIs(t, r.users.Remove(ctx, ana), apperrors.ErrOperationNotAllowed)

	_, err = r.loans.ReturnItem(ctx, service.ReturnInput{Owner: ana, Borrower: bo, ItemName: "X", LoanDate: "2024-01-10", ReturnDate: "2024-01-12"})
	require.NoError(t, err)

	require.NoError(t, r.users.Remove(ctx, bo))
	_, err = r.users.Resolve(ctx, bo)
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)
}

func Test_UserService_RemoveSerializedWithLoanRegistration(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		r := newRegistry(t, config.LoanConfig{})
		r.addBoardGame(t, ana, "X", 10)

		var loanErr, removeErr error
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, loanErr = r.loans.RegisterLoan(ctx, loanX())
		}()
		go func() {
			defer wg.Done()
			removeErr = r.users.Remove(ctx, bo)
		}()
		wg.Wait()

		// exactly one of them goes through
		if loanErr == nil {
			require.ErrorIs(t, removeErr, apperrors.ErrOperationNotAllowed)
			_, err := r.users.Resolve(ctx, bo)
			require.NoError(t, err)
		} else {
			require.NoError(t, removeErr)
			require.ErrorIs(t, loanErr, apperrors.ErrInvalidData)
			open, err := r.loans.OpenLoanFor(ctx, ana, "X")
			require.Nil(t, open)
			require.ErrorIs(t, err, apperrors.ErrLoanNotFound)
		}
	}
}
