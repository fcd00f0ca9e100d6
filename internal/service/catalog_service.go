package service

import (
	"context"
	"strings"

	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/events"
	"github.com/spec-kit/item-lending/internal/platform/keylock"
	"github.com/spec-kit/item-lending/internal/repository"
	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

// CatalogService registers and maintains the items each user owns.
type CatalogService struct {
	users      repository.UserRepository
	locks      *keylock.Locker
	dispatcher events.Dispatcher
}

// CatalogDependencies bundles collaborators for the catalog service.
type CatalogDependencies struct {
	UserRepo   repository.UserRepository
	Locks      *keylock.Locker
	Dispatcher events.Dispatcher
}

// ItemInput describes any variant. Fields that do not apply to Kind are ignored.
type ItemInput struct {
	Kind        domain.ItemKind
	Name        string
	Price       float64
	Platform    string
	Duration    int
	Genre       string
	Rating      string
	ReleaseYear int
	Description string
	Season      int
	Tracks      int
	Artist      string
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	locks := deps.Locks
	if locks == nil {
		locks = keylock.New()
	}
	return &CatalogService{
		users:      deps.UserRepo,
		locks:      locks,
		dispatcher: deps.Dispatcher,
	}
}

// RegisterItem builds the variant named by input.Kind and adds it to the owner's collection.
func (s *CatalogService) RegisterItem(ctx context.Context, ownerKey domain.UserKey, input ItemInput) (domain.Item, error) {
	owner, err := resolveUser(ctx, s.users, ownerKey)
	if err != nil {
		return nil, err
	}
	item, err := buildItem(input)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(itemLockKey(ownerKey, item.Name()))
	defer unlock()

	if err := owner.AddItem(item); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventItemRegistered,
		Owner:    ownerKey,
		ItemName: item.Name(),
		Payload: events.ItemRegisteredPayload{
			Kind:  item.Kind(),
			Price: item.Price(),
		},
	})
	return item, nil
}

// FindItem returns the owner's item by name.
func (s *CatalogService) FindItem(ctx context.Context, ownerKey domain.UserKey, name string) (domain.Item, error) {
	owner, err := resolveUser(ctx, s.users, ownerKey)
	if err != nil {
		return nil, err
	}
	return findItem(owner, name)
}

// ItemAttribute reads one attribute of an item as a string.
func (s *CatalogService) ItemAttribute(ctx context.Context, ownerKey domain.UserKey, name, attr string) (string, error) {
	var value string
	err := s.withItem(ctx, ownerKey, name, nil, func(_ *domain.User, it domain.Item) error {
		v, err := domain.Attribute(it, attr)
		value = v
		return err
	})
	return value, err
}

// UpdateItemAttribute sets one attribute through its typed setter and returns the item as it now stands.
// A rename is refused while the item is on loan so open loans stay matchable.
func (s *CatalogService) UpdateItemAttribute(ctx context.Context, ownerKey domain.UserKey, name, attr, value string) (ItemView, error) {
	rename := strings.EqualFold(strings.TrimSpace(attr), domain.AttrName)
	var also []string
	if rename {
		// the item is reachable under the new name as soon as the rename commits
		also = append(also, value)
	}

	var view ItemView
	err := s.withItem(ctx, ownerKey, name, also, func(owner *domain.User, it domain.Item) error {
		if rename && it.OnLoan() {
			return apperrors.NewOperationNotAllowed("item is on loan", map[string]any{"item": name})
		}
		if err := owner.SetItemAttribute(it, attr, value); err != nil {
			return err
		}
		view = viewOf(owner.Key, it)
		return nil
	})
	return view, err
}

// RemoveItem deletes an item that is not on loan.
func (s *CatalogService) RemoveItem(ctx context.Context, ownerKey domain.UserKey, name string) error {
	err := s.withItem(ctx, ownerKey, name, nil, func(owner *domain.User, it domain.Item) error {
		if it.OnLoan() {
			return apperrors.NewOperationNotAllowed("item is on loan", map[string]any{"item": name})
		}
		owner.RemoveItem(name)
		return nil
	})
	if err != nil {
		return err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventItemRemoved,
		Owner:    ownerKey,
		ItemName: name,
	})
	return nil
}

// ViewItem returns a consistent snapshot of the item.
func (s *CatalogService) ViewItem(ctx context.Context, ownerKey domain.UserKey, name string) (ItemView, error) {
	var view ItemView
	err := s.withItem(ctx, ownerKey, name, nil, func(owner *domain.User, it domain.Item) error {
		view = viewOf(owner.Key, it)
		return nil
	})
	return view, err
}

// DescribeItem renders the item with every variant field.
func (s *CatalogService) DescribeItem(ctx context.Context, ownerKey domain.UserKey, name string) (string, error) {
	var description string
	err := s.withItem(ctx, ownerKey, name, nil, func(_ *domain.User, it domain.Item) error {
		description = it.Describe()
		return nil
	})
	return description, err
}

// AddLostPiece records a lost piece on a board game.
func (s *CatalogService) AddLostPiece(ctx context.Context, ownerKey domain.UserKey, name, piece string) error {
	return s.withItem(ctx, ownerKey, name, nil, func(_ *domain.User, it domain.Item) error {
		game, ok := it.(*domain.BoardGame)
		if !ok {
			return apperrors.NewOperationNotAllowed("item is not a board game", map[string]any{"item": name})
		}
		return game.AddLostPiece(piece)
	})
}

// AddEpisode records an episode on a series disc.
func (s *CatalogService) AddEpisode(ctx context.Context, ownerKey domain.UserKey, name string, minutes int) error {
	return s.withItem(ctx, ownerKey, name, nil, func(_ *domain.User, it domain.Item) error {
		series, ok := it.(*domain.SeriesDisc)
		if !ok {
			return apperrors.NewOperationNotAllowed("item is not a series", map[string]any{"item": name})
		}
		return series.AddEpisode(minutes)
	})
}

// withItem resolves owner and item while holding the item's lock, plus the locks of any names in also.
func (s *CatalogService) withItem(ctx context.Context, ownerKey domain.UserKey, name string, also []string, fn func(*domain.User, domain.Item) error) error {
	owner, err := resolveUser(ctx, s.users, ownerKey)
	if err != nil {
		return err
	}

	keys := []string{itemLockKey(ownerKey, name)}
	for _, other := range also {
		keys = append(keys, itemLockKey(ownerKey, other))
	}
	unlock := lockAll(s.locks, keys...)
	defer unlock()

	it, err := findItem(owner, name)
	if err != nil {
		return err
	}
	return fn(owner, it)
}

func buildItem(in ItemInput) (domain.Item, error) {
	switch in.Kind {
	case domain.KindElectronicGame:
		return asItem(domain.NewElectronicGame(in.Name, in.Price, in.Platform))
	case domain.KindBoardGame:
		return asItem(domain.NewBoardGame(in.Name, in.Price))
	case domain.KindMovieDisc:
		return asItem(domain.NewMovieDisc(in.Name, in.Price, in.Duration, in.Genre, in.Rating, in.ReleaseYear))
	case domain.KindSeriesDisc:
		return asItem(domain.NewSeriesDisc(in.Name, in.Price, in.Description, in.Duration, in.Rating, in.Genre, in.Season))
	case domain.KindShowDisc:
		return asItem(domain.NewShowDisc(in.Name, in.Price, in.Duration, in.Tracks, in.Artist, in.Rating))
	default:
		return nil, apperrors.NewInvalidData("unknown item kind", map[string]any{"kind": in.Kind})
	}
}

// asItem keeps a failed constructor from producing a non-nil interface around a nil pointer.
func asItem[T domain.Item](it T, err error) (domain.Item, error) {
	if err != nil {
		return nil, err
	}
	return it, nil
}
