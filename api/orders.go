package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/busstation/internal/domain"
	"github.com/zvrva/busstation/internal/service/booking"
)

// userIDHeader carries the authenticated rider's id, injected by the
// gateway in front of this service. Authentication itself lives there.
const userIDHeader = "X-User-ID"

type OrderHandler struct {
	service booking.BookingUseCase
}

type createOrderRequest struct {
	Tickets []domain.SeatRequest `json:"tickets"`
}

func NewOrderHandler(service booking.BookingUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
}

func (h *OrderHandler) create(c *gin.Context) {
	userID, ok := userID(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), userID, req.Tickets)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) list(c *gin.Context) {
	userID, ok := userID(c)
	if !ok {
		return
	}

	limit, offset := pageParams(c)
	orders, err := h.service.ListOrders(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func userID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + userIDHeader + " header"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid " + userIDHeader + " header"})
		return 0, false
	}
	return id, true
}
