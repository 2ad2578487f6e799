package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/superpizzeria/order-service/internal/repository"
	"github.com/superpizzeria/order-service/internal/service"
)

// OrderHandler serves order creation, listing, item mutation and the
// public tracking lookup. All methods except Track assume JWT
// authentication has already run.
type OrderHandler struct {
	Orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

type createOrderReq struct {
	Items []service.ItemRequest `json:"items"`
}

// Create handles POST /orders/. The order and all items are written
// in one transaction; a mid-batch failure persists nothing and the
// underlying error text is returned with a 400.
func (h *OrderHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.Create(ctx, userID, req.Items)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, order)
}

// List handles GET /orders/ and returns the caller's orders, newest
// first, each with its items.
func (h *OrderHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load orders failed"})
	}
	return c.JSON(http.StatusOK, orders)
}

// DeleteItem handles DELETE /order-items/:id. Quantity above one is
// decremented; otherwise the item is removed and, when it was the
// order's last item, the order goes with it. The outcome is reported
// in the message field.
func (h *OrderHandler) DeleteItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	msg, err := h.Orders.DecrementOrEraseItem(ctx, itemID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrItemNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order item not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update item failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// Track handles GET /v1/orders/track/:hash. No authentication or
// ownership check: order hashes are unguessable random tokens, which
// is the access control on this read-only path.
func (h *OrderHandler) Track(c echo.Context) error {
	hash := c.Param("hash")
	if hash == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order hash"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, order)
}
