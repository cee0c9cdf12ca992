// internal/handlers/order.go
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

type OrderHandler struct {
	checkoutService *services.CheckoutService
	cartService     *services.CartService
	paymentService  *services.PaymentService
}

type checkoutRequest struct {
	ShippingAddress string `form:"shipping_address" json:"shipping_address"`
}

func NewOrderHandler(checkoutService *services.CheckoutService, cartService *services.CartService, paymentService *services.PaymentService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		cartService:     cartService,
		paymentService:  paymentService,
	}
}

// GET /cart/checkout — the checkout view payload: cart summary plus the
// publishable payment key for the client
func (h *OrderHandler) CheckoutView(c *gin.Context) {
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
	if len(items) == 0 {
		utils.BadRequestResponse(c, "Your cart is empty", nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items":                  items,
		"total":                  total,
		"payment_enabled":        h.paymentService.Enabled(),
		"stripe_publishable_key": h.paymentService.PublishableKey(),
	})
}

// POST /cart/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req checkoutRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	order, err := h.checkoutService.Checkout(userID, req.ShippingAddress)
	if err != nil {
		var stockErr *services.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			utils.BadRequestResponse(c, stockErr.Error(), gin.H{
				"product":   stockErr.ProductName,
				"available": stockErr.Available,
			})
		case errors.Is(err, services.ErrCartEmpty):
			utils.BadRequestResponse(c, "Your cart is empty", nil)
		case errors.Is(err, services.ErrMissingAddress):
			utils.BadRequestResponse(c, "Please provide a shipping address", nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orders, err := h.checkoutService.ListOrders(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"orders": orders,
	})
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.checkoutService.GetOrder(userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotOwner):
			c.Redirect(http.StatusFound, "/v1/orders")
		case strings.Contains(err.Error(), "not found"):
			utils.NotFoundResponse(c, "Order")
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}
