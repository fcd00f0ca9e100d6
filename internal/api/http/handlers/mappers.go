package handlers

import (
	"strings"
	"time"

	"github.com/spec-kit/item-lending/internal/api/dto"
	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/service"
)

func userKey(k domain.UserKey) dto.UserKey {
	return dto.UserKey{Name: k.Name, Phone: k.Phone}
}

func domainKey(k dto.UserKey) domain.UserKey {
	return domain.UserKey{Name: k.Name, Phone: k.Phone}
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		Name:      u.Key.Name,
		Phone:     u.Key.Phone,
		Email:     u.Email(),
		ItemCount: len(u.ItemNames()),
		CreatedAt: u.CreatedAt,
	}
}

func itemResponse(v service.ItemView) dto.ItemResponse {
	return dto.ItemResponse{
		Owner:       userKey(v.Owner),
		Kind:        string(v.Kind),
		Name:        v.Name,
		Price:       v.Price,
		OnLoan:      v.OnLoan,
		Description: v.Description,
	}
}

func loanResponse(l domain.Loan, layout string, now time.Time) dto.LoanResponse {
	resp := dto.LoanResponse{
		ID:         l.ID,
		Owner:      userKey(l.Owner),
		Borrower:   userKey(l.Borrower),
		Item:       l.ItemName,
		LoanDate:   l.LoanDateRaw,
		PeriodDays: l.PeriodDays,
		DueDate:    l.DueDate().Format(layout),
		Overdue:    service.Overdue(l, now),
	}
	if l.ReturnDate != nil {
		returned := l.ReturnDate.Format(layout)
		resp.ReturnDate = &returned
	}
	return resp
}

// itemKind accepts "board_game", "board-game" or "BOARD_GAME".
func itemKind(raw string) domain.ItemKind {
	return domain.ItemKind(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_")))
}
