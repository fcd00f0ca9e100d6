package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/item-lending/internal/api/dto"
	"github.com/spec-kit/item-lending/internal/service"
	apperrors "github.com/spec-kit/item-lending/pkg/util"
)

// ListingHandler serves the catalog-wide listing.
type ListingHandler struct {
	listing *service.ListingService
}

// NewListingHandler constructs handler.
func NewListingHandler(listing *service.ListingService) *ListingHandler {
	return &ListingHandler{listing: listing}
}

// ListItems GET /items?order=registry|description|price&distinct=true.
func (h *ListingHandler) ListItems(c *fiber.Ctx) error {
	order := service.ItemOrder(c.Query("order", string(service.OrderRegistry)))
	switch order {
	case service.OrderRegistry, service.OrderDescription, service.OrderPrice:
	default:
		return apperrors.NewInvalidData("invalid order", map[string]any{"order": order})
	}

	views, err := h.listing.List(c.UserContext(), order)
	if err != nil {
		return err
	}
	if c.QueryBool("distinct") {
		views = service.Distinct(views)
	}

	items := make([]dto.ItemResponse, 0, len(views))
	for _, v := range views {
		items = append(items, itemResponse(v))
	}
	return c.JSON(fiber.Map{"data": dto.ListingResponse{
		Listing: service.Render(views),
		Items:   items,
	}})
}
