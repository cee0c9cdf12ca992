// internal/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mercato/mercato-backend/internal/services"
	"github.com/mercato/mercato-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

type quantityRequest struct {
	Quantity int `form:"quantity" json:"quantity"`
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GET /cart
func (h *CartHandler) ViewCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	items, total, err := h.cartService.ViewCart(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items": items,
		"total": total,
	})
}

// POST /cart/add/:product_id
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	req := quantityRequest{Quantity: 1}
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid quantity", err.Error())
		return
	}

	item, err := h.cartService.AddToCart(userID, productID, req.Quantity)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Added " + item.Product.Name + " to cart",
		"item":    item,
	})
}

// POST /cart/update/:item_id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid cart item ID", nil)
		return
	}

	var req quantityRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid quantity", err.Error())
		return
	}

	if err := h.cartService.UpdateCartItem(userID, itemID, req.Quantity); err != nil {
		h.respondCartError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Cart updated",
	})
}

// POST /cart/remove/:item_id
func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid cart item ID", nil)
		return
	}

	if err := h.cartService.RemoveCartItem(userID, itemID); err != nil {
		h.respondCartError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Item removed from cart",
	})
}

// respondCartError maps cart service failures: insufficient stock names the
// product, non-owner mutations redirect back to the cart with nothing
// mutated, missing rows are 404s.
func (h *CartHandler) respondCartError(c *gin.Context, err error) {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		utils.BadRequestResponse(c, stockErr.Error(), gin.H{
			"product":   stockErr.ProductName,
			"available": stockErr.Available,
		})
	case errors.Is(err, services.ErrNotOwner):
		c.Redirect(http.StatusFound, "/v1/cart")
	case strings.Contains(err.Error(), "not found"):
		utils.NotFoundResponse(c, "Cart item")
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
