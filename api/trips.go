package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/busstation/internal/domain"
	"github.com/zvrva/busstation/internal/service/trips"
)

type TripHandler struct {
	service trips.TripUseCase
}

type tripRequest struct {
	Source      string    `json:"source" binding:"required"`
	Destination string    `json:"destination" binding:"required"`
	Departure   time.Time `json:"departure" binding:"required"`
	BusID       int64     `json:"bus_id" binding:"required"`
}

func NewTripHandler(service trips.TripUseCase) *TripHandler {
	return &TripHandler{service: service}
}

func (h *TripHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/availability", h.bulkAvailability)
	router.GET("/:id", h.get)
	router.GET("/:id/availability", h.availability)
	router.GET("/:id/seats", h.takenSeats)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *TripHandler) list(c *gin.Context) {
	trips, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

func (h *TripHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	trip, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *TripHandler) availability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	available, err := h.service.Availability(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": id, "tickets_available": available})
}

func (h *TripHandler) bulkAvailability(c *gin.Context) {
	ids, err := idsParam(c.Query("ids"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ids"})
		return
	}

	availability, err := h.service.AvailabilityForTrips(c.Request.Context(), ids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (h *TripHandler) takenSeats(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	seats, err := h.service.TakenSeats(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": id, "taken_seats": seats})
}

func (h *TripHandler) create(c *gin.Context) {
	var req tripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := domain.Trip{
		Source:      req.Source,
		Destination: req.Destination,
		Departure:   req.Departure,
		BusID:       req.BusID,
	}
	if err := h.service.Create(c.Request.Context(), &trip); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (h *TripHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req tripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := domain.Trip{
		ID:          id,
		Source:      req.Source,
		Destination: req.Destination,
		Departure:   req.Departure,
		BusID:       req.BusID,
	}
	if err := h.service.Update(c.Request.Context(), &trip); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *TripHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
