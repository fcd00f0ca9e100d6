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

// ItemsHandler manages the items of a single owner.
type ItemsHandler struct {
	catalog *service.CatalogService
	loans   *service.LoanService
	layout  string
	now     func() time.Time
}

// NewItemsHandler constructs handler. layout formats loan dates in responses.
func NewItemsHandler(catalog *service.CatalogService, loans *service.LoanService, layout string) *ItemsHandler {
	if layout == "" {
		layout = domain.DefaultDateLayout
	}
	return &ItemsHandler{catalog: catalog, loans: loans, layout: layout, now: time.Now}
}

// CreateItem POST /users/:name/:phone/items.
func (h *ItemsHandler) CreateItem(c *fiber.Ctx) error {
	owner, err := auth.KeyFromParams(c)
	if err != nil {
		return err
	}
	var req dto.ItemCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidData("invalid payload", nil)
	}

	input := service.ItemInput{
		Kind:        itemKind(req.Kind),
		Name:        req.Name,
		Price:       req.Price,
		Platform:    req.Platform,
		Duration:    req.Duration,
		Genre:       req.Genre,
		Rating:      req.Rating,
		ReleaseYear: req.ReleaseYear,
		Description: req.Description,
		Season:      req.Season,
		Tracks:      req.Tracks,
		Artist:      req.Artist,
	}
	it, err := h.catalog.RegisterItem(c.UserContext(), owner, input)
	if err != nil {
		return err
	}
	view, err := h.catalog.ViewItem(c.UserContext(), owner, it.Name())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": itemResponse(view)})
}

// GetItem GET /users/:name/:phone/items/:item.
func (h *ItemsHandler) GetItem(c *fiber.Ctx) error {
	owner, name, err := itemParams(c)
	if err != nil {
		return err
	}
	view, err := h.catalog.ViewItem(c.UserContext(), owner, name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(view)})
}

// GetAttribute GET /users/:name/:phone/items/:item/attributes/:attr.
func (h *ItemsHandler) GetAttribute(c *fiber.Ctx) error {
	owner, name, err := itemParams(c)
	if err != nil {
		return err
	}
	attr, err := auth.Param(c, "attr")
	if err != nil {
		return err
	}
	value, err := h.catalog.ItemAttribute(c.UserContext(), owner, name, attr)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AttributeResponse{Attribute: attr, Value: value}})
}

// UpdateAttribute PUT /users/:name/:phone/items/:item/attributes/:attr.
func (h *ItemsHandler) UpdateAttribute(c *fiber.Ctx) error {
	owner, name, err := itemParams(c)
	if err != nil {
		return err
	}
	attr, err := auth.Param(c, "attr")
	if err != nil {
		return err
	}
	var req dto.AttributeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidData("invalid payload", nil)
	}
	view, err := h.catalog.UpdateItemAttribute(c.UserContext(), owner, name, attr, req.Value)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(view)})
}

// DeleteItem DELETE /users/:name/:phone/items/:item.
func (h *ItemsHandler) DeleteItem(c *fiber.Ctx) error {
	owner, name, err := itemParams(c)
	if err != nil {
		return err
	}
	if err := h.catalog.RemoveItem(c.UserContext(), owner, name); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddLostPiece POST /users/:name/:phone/items/:item/lost-pieces.
func (h *ItemsHandler) AddLostPiece(c *fiber.Ctx) error {
	owner, name, err := itemParams(c)
	if err != nil {
		return err
	}
	var req dto.LostPieceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidData("invalid payload", nil)
	}
	if err := h.catalog.AddLostPiece(c.UserContext(), owner, name, req.Piece); err != nil {
		return err
	}
	return h.respondItem(c, owner, name, http.StatusCreated)
}

// AddEpisode POST /users/:name/:phone/items/:item/episodes.
func (h *ItemsHandler) AddEpisode(c *fiber.Ctx) error {
	owner, name, err := itemParams(c)
	if err != nil {
		return err
	}
	var req dto.EpisodeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidData("invalid payload", nil)
	}
	if err := h.catalog.AddEpisode(c.UserContext(), owner, name, req.Duration); err != nil {
		return err
	}
	return h.respondItem(c, owner, name, http.StatusCreated)
}

// LoanHistory GET /users/:name/:phone/items/:item/loans.
func (h *ItemsHandler) LoanHistory(c *fiber.Ctx) error {
	owner, name, err := itemParams(c)
	if err != nil {
		return err
	}
	loans, err := h.loans.LoanHistory(c.UserContext(), owner, name)
	if err != nil {
		return err
	}
	now := h.now()
	out := make([]dto.LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, loanResponse(l, h.layout, now))
	}
	return c.JSON(fiber.Map{"data": out})
}

// OpenLoan GET /users/:name/:phone/items/:item/loan.
func (h *ItemsHandler) OpenLoan(c *fiber.Ctx) error {
	owner, name, err := itemParams(c)
	if err != nil {
		return err
	}
	loan, err := h.loans.OpenLoanFor(c.UserContext(), owner, name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": loanResponse(*loan, h.layout, h.now())})
}

func (h *ItemsHandler) respondItem(c *fiber.Ctx, owner domain.UserKey, name string, status int) error {
	view, err := h.catalog.ViewItem(c.UserContext(), owner, name)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{"data": itemResponse(view)})
}

func itemParams(c *fiber.Ctx) (domain.UserKey, string, error) {
	owner, err := auth.KeyFromParams(c)
	if err != nil {
		return domain.UserKey{}, "", err
	}
	name, err := auth.Param(c, "item")
	if err != nil {
		return domain.UserKey{}, "", err
	}
	return owner, name, nil
}
