package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/item-lending/internal/config"
	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/events"
	"github.com/spec-kit/item-lending/internal/platform/keylock"
	"github.com/spec-kit/item-lending/internal/repository"
	"github.com/spec-kit/item-lending/internal/service"
)

var (
	ana = domain.UserKey{Name: "Ana", Phone: "555-0100"}
	bo  = domain.UserKey{Name: "Bo", Phone: "555-0200"}
)

type registry struct {
	users      *service.UserService
	catalog    *service.CatalogService
	loans      *service.LoanService
	listing    *service.ListingService
	dispatcher events.Dispatcher
}

func newRegistry(t *testing.T, loanCfg config.LoanConfig) *registry {
	t.Helper()

	userRepo := repository.NewUserRepository()
	loanRepo := repository.NewLoanRepository()
	locks := keylock.New()
	dispatcher := events.NewInMemoryDispatcher()

	r := &registry{
		users: service.NewUserService(userRepo, loanRepo, locks),
		catalog: service.NewCatalogService(service.CatalogDependencies{
			UserRepo:   userRepo,
			Locks:      locks,
			Dispatcher: dispatcher,
		}),
		loans: service.NewLoanService(service.LoanDependencies{
			UserRepo:   userRepo,
			LoanRepo:   loanRepo,
			Locks:      locks,
			Dispatcher: dispatcher,
			Config:     loanCfg,
		}),
		listing:    service.NewListingService(userRepo, locks),
		dispatcher: dispatcher,
	}

	ctx := context.Background()
	_, err := r.users.Register(ctx, ana.Name, ana.Phone, "ana@example.com")
	require.NoError(t, err)
	_, err = r.users.Register(ctx, bo.Name, bo.Phone, "bo@example.com")
	require.NoError(t, err)
	return r
}

func (r *registry) addBoardGame(t *testing.T, owner domain.UserKey, name string, price float64) domain.Item {
	t.Helper()
	it, err := r.catalog.RegisterItem(context.Background(), owner, service.ItemInput{
		Kind:  domain.KindBoardGame,
		Name:  name,
		Price: price,
	})
	require.NoError(t, err)
	return it
}
