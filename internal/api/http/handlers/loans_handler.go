package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/item-lending/internal/api/dto"
	"github.com/spec-kit/item-lending/internal/auth"
	"github.com/spec-kit/item-lending/internal/domain"
	"github.com/spec-kit/item-lending/internal/service"
	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

// LoansHandler registers loans and returns.
type LoansHandler struct {
	loans  *service.LoanService
	layout string
	now    func() time.Time
}

// NewLoansHandler constructs handler.
func NewLoansHandler(loans *service.LoanService, layout string) *LoansHandler {
	if layout == "" {
		layout = domain.DefaultDateLayout
	}
	return &LoansHandler{loans: loans, layout: layout, now: time.Now}
}

// RegisterLoan POST /loans. Only the owner may lend an item.
func (h *LoansHandler) RegisterLoan(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.LoanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidData("invalid payload", nil)
	}
	owner := domainKey(req.Owner)
	if principal.Key() != owner {
		return apperrors.NewForbidden("only the owner may lend an item")
	}

	loan, err := h.loans.RegisterLoan(c.UserContext(), service.LoanInput{
		Owner:      owner,
		Borrower:   domainKey(req.Borrower),
		ItemName:   req.Item,
		LoanDate:   req.LoanDate,
		PeriodDays: req.PeriodDays,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": loanResponse(*loan, h.layout, h.now())})
}

// ReturnItem POST /loans/return. Either party may record the return.
func (h *LoansHandler) ReturnItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidData("invalid payload", nil)
	}
	owner, borrower := domainKey(req.Owner), domainKey(req.Borrower)
	if caller := principal.Key(); caller != owner && caller != borrower {
		return apperrors.NewForbidden("only the owner or the borrower may return an item")
	}

	loan, err := h.loans.ReturnItem(c.UserContext(), service.ReturnInput{
		Owner:      owner,
		Borrower:   borrower,
		ItemName:   req.Item,
		LoanDate:   req.LoanDate,
		ReturnDate: req.ReturnDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": loanResponse(*loan, h.layout, h.now())})
}
