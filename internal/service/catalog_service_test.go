package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/item-lending/internal/config"
	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/service"
	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

func Test_RegisterItem_AllVariants(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, config.LoanConfig{})

	inputs := []service.ItemInput{
		{Kind: domain.KindElectronicGame, Name: "Halo", Price: 120, Platform: "XBOX360"},
		{Kind: domain.KindBoardGame, Name: "Catan", Price: 50},
		{Kind: domain.KindMovieDisc, Name: "Alien", Price: 20, Duration: 117, Genre: "Horror", Rating: "R", ReleaseYear: 1979},
		{Kind: domain.KindSeriesDisc, Name: "Lost", Price: 30, Description: "island", Duration: 45, Rating: "PG", Genre: "Drama", Season: 1},
		{Kind: domain.KindShowDisc, Name: "Live Aid", Price: 25, Duration: 90, Tracks: 12, Artist: "Queen", Rating: "G"},
	}
	for _, in := range inputs {
		it, err := r.catalog.RegisterItem(ctx, ana, in)
		require.NoError(t, err)
		assert.Equal(t, in.Kind, it.Kind())
	}

	found, err := r.catalog.FindItem(ctx, ana, "Lost")
	require.NoError(t, err)
	assert.IsType(t, &domain.SeriesDisc{}, found)
}

func Test_RegisterItem_Failures(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, config.LoanConfig{})
	r.addBoardGame(t, ana, "Catan", 50)

	_, err := r.catalog.RegisterItem(ctx, ana, service.ItemInput{Kind: domain.KindBoardGame, Name: "Catan", Price: 10})
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	_, err = r.catalog.RegisterItem(ctx, ana, service.ItemInput{Kind: domain.KindMovieDisc, Name: "Alien", Price: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	_, err = r.catalog.RegisterItem(ctx, ana, service.ItemInput{Kind: "VHS", Name: "Tape", Price: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	_, err = r.catalog.RegisterItem(ctx, domain.UserKey{Name: "Ghost", Phone: "0"}, service.ItemInput{Kind: domain.KindBoardGame, Name: "Go", Price: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	// the same name under another owner is fine
	r.addBoardGame(t, bo, "Catan", 50)
}

func Test_UpdateItemAttribute_UnknownAttributeChangesNothing(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, config.LoanConfig{})
	_, err := r.catalog.RegisterItem(ctx, ana, service.ItemInput{Kind: domain.KindElectronicGame, Name: "Halo", Price: 120, Platform: "XBOX360"})
	require.NoError(t, err)
	before, err := r.catalog.DescribeItem(ctx, ana, "Halo")
	require.NoError(t, err)

	_, err = r.catalog.UpdateItemAttribute(ctx, ana, "Halo", "season", "2")
	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)

	_, err = r.catalog.UpdateItemAttribute(ctx, ana, "Halo", "price", "cheap")
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	after, err := r.catalog.DescribeItem(ctx, ana, "Halo")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	view, err := r.catalog.UpdateItemAttribute(ctx, ana, "Halo", "Platform", "PC")
	require.NoError(t, err)
	assert.Equal(t, "ELECTRONIC GAME: Halo, $120.00, Available, PC", view.Description)
	platform, err := r.catalog.ItemAttribute(ctx, ana, "Halo", "platform")
	require.NoError(t, err)
	assert.Equal(t, "PC", platform)

	_, err = r.catalog.ItemAttribute(ctx, ana, "Halo", "artist")
	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)
}

func Test_UpdateItemAttribute_Rename(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, config.LoanConfig{})
	r.addBoardGame(t, ana, "Catan", 50)
	r.addBoardGame(t, ana, "Go", 20)

	_, err := r.catalog.UpdateItemAttribute(ctx, ana, "Go", "name", "Catan")
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	view, err := r.catalog.UpdateItemAttribute(ctx, ana, "Go", "name", "Baduk")
	require.NoError(t, err)
	assert.Equal(t, "Baduk", view.Name)
	_, err = r.catalog.FindItem(ctx, ana, "Go")
	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)

	_, err = r.loans.RegisterLoan(ctx, service.LoanInput{Owner: ana, Borrower: bo, ItemName: "Baduk", LoanDate: "2024-01-10", PeriodDays: 3})
	require.NoError(t, err)
	_, err = r.catalog.UpdateItemAttribute(ctx, ana, "Baduk", "name", "Weiqi")
	assert.ErrorIs(t, err, apperrors.ErrOperationNotAllowed)
}

func Test_RemoveItem(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, config.LoanConfig{})
	r.addBoardGame(t, ana, "Catan", 50)
	r.addBoardGame(t, ana, "X", 10)

	require.NoError(t, r.catalog.RemoveItem(ctx, ana, "Catan"))
	assert.ErrorIs(t, r.catalog.RemoveItem(ctx, ana, "Catan"), apperrors.ErrItemNotFound)

	_, err := r.loans.RegisterLoan(ctx, loanX())
	require.NoError(t, err)
	assert.ErrorIs(t, r.catalog.RemoveItem(ctx, ana, "X"), apperrors.ErrOperationNotAllowed)
}

func Test_AddLostPiece_KeepsDuplicates(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, config.LoanConfig{})
	item := r.addBoardGame(t, ana, "Catan", 50)

	require.NoError(t, r.catalog.AddLostPiece(ctx, ana, "Catan", "knight"))
	require.NoError(t, r.catalog.AddLostPiece(ctx, ana, "Catan", "knight"))

	game, ok := item.(*domain.BoardGame)
	require.True(t, ok)
	assert.Equal(t, []string{"knight", "knight"}, game.LostPieces())

	pieces, err := r.catalog.ItemAttribute(ctx, ana, "Catan", "lost_pieces")
	require.NoError(t, err)
	assert.Equal(t, "knight,knight", pieces)

	_, err = r.catalog.UpdateItemAttribute(ctx, ana, "Catan", "lost_pieces", "")
	assert.ErrorIs(t, err, apperrors.ErrOperationNotAllowed)

	_, err = r.catalog.RegisterItem(ctx, ana, service.ItemInput{Kind: domain.KindElectronicGame, Name: "Halo", Price: 1, Platform: "PC"})
	require.NoError(t, err)
	assert.ErrorIs(t, r.catalog.AddLostPiece(ctx, ana, "Halo", "disc"), apperrors.ErrOperationNotAllowed)
}

func Test_AddEpisode(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, config.LoanConfig{})
	_, err := r.catalog.RegisterItem(ctx, ana, service.ItemInput{Kind: domain.KindSeriesDisc, Name: "Lost", Price: 30, Description: "island", Duration: 45, Rating: "PG", Genre: "Drama", Season: 1})
	require.NoError(t, err)
	r.addBoardGame(t, ana, "Catan", 50)

	require.NoError(t, r.catalog.AddEpisode(ctx, ana, "Lost", 44))
	assert.ErrorIs(t, r.catalog.AddEpisode(ctx, ana, "Lost", -1), apperrors.ErrInvalidData)
	assert.ErrorIs(t, r.catalog.AddEpisode(ctx, ana, "Catan", 10), apperrors.ErrOperationNotAllowed)

	episodes, err := r.catalog.ItemAttribute(ctx, ana, "Lost", "episodes")
	require.NoError(t, err)
	assert.Equal(t, "1", episodes)
}
