package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/busstation/internal/domain"
	"github.com/zvrva/busstation/internal/service/buses"
)

type FacilityHandler struct {
	service buses.FacilityUseCase
}

type facilityRequest struct {
	Name string `json:"name" binding:"required"`
}

func NewFacilityHandler(service buses.FacilityUseCase) *FacilityHandler {
	return &FacilityHandler{service: service}
}

func (h *FacilityHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *FacilityHandler) list(c *gin.Context) {
	facilities, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, facilities)
}

func (h *FacilityHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	facility, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, facility)
}

func (h *FacilityHandler) create(c *gin.Context) {
	var req facilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facility := domain.Facility{Name: req.Name}
	if err := h.service.Create(c.Request.Context(), &facility); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, facility)
}

func (h *FacilityHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req facilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facility := domain.Facility{ID: id, Name: req.Name}
	if err := h.service.Update(c.Request.Context(), &facility); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, facility)
}

func (h *FacilityHandler) delete(c *gin.Context) {
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
