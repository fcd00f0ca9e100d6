package util_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

func Test_DomainError_IsMatchesOnCode(t *testing.T) {
	err := apperrors.NewItemNotFound("item not found", map[string]any{"item": "Catan"})

	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrLoanNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidData)
}

func Test_DomainError_InvalidDateIsInvalidData(t *testing.T) {
	_, parseErr := time.Parse("2006-01-02", "31-31-2024")
	require.Error(t, parseErr)

	err := apperrors.NewInvalidDate("31-31-2024", parseErr)

	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)
	assert.NotErrorIs(t, apperrors.NewInvalidData("bad", nil), apperrors.ErrInvalidDate)

	var pe *time.ParseError
	assert.True(t, errors.As(err, &pe))
}

func Test_ToDomainError(t *testing.T) {
	wrapped := fmt.Errorf("registering loan: %w", apperrors.NewOperationNotAllowed("item on loan", nil))

	de := apperrors.ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeOperationNotAllowed, de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)

	de = apperrors.ToDomainError(errors.New("boom"))
	assert.Equal(t, apperrors.CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)

	assert.Nil(t, apperrors.ToDomainError(nil))
}
