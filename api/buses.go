package api

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zvrva/busstation/internal/domain"
	"github.com/zvrva/busstation/internal/repository"
	"github.com/zvrva/busstation/internal/service/buses"
)

type BusHandler struct {
	service   buses.BusUseCase
	uploadDir string
}

type busRequest struct {
	Info       string  `json:"info"`
	NumSeats   int     `json:"num_seats" binding:"required"`
	Facilities []int64 `json:"facilities"`
}

type busResponse struct {
	domain.Bus
	IsSmall bool `json:"is_small"`
}

func toBusResponse(b domain.Bus) busResponse {
	return busResponse{Bus: b, IsSmall: b.IsSmall()}
}

func NewBusHandler(service buses.BusUseCase, uploadDir string) *BusHandler {
	return &BusHandler{service: service, uploadDir: uploadDir}
}

func (h *BusHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
	router.POST("/:id/upload-image", h.uploadImage)
}

func (h *BusHandler) list(c *gin.Context) {
	filter := repository.BusFilter{}
	filter.Limit, filter.Offset = pageParams(c)

	if raw := c.Query("facilities"); raw != "" {
		ids, err := idsParam(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid facilities filter"})
			return
		}
		filter.FacilityIDs = ids
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]busResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, toBusResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BusHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	bus, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBusResponse(*bus))
}

func (h *BusHandler) create(c *gin.Context) {
	var req busRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bus := domain.Bus{Info: req.Info, NumSeats: req.NumSeats}
	if err := h.service.Create(c.Request.Context(), &bus, req.Facilities); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBusResponse(bus))
}

func (h *BusHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req busRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bus := domain.Bus{ID: id, Info: req.Info, NumSeats: req.NumSeats}
	if err := h.service.Update(c.Request.Context(), &bus, req.Facilities); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBusResponse(bus))
}

func (h *BusHandler) delete(c *gin.Context) {
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

// uploadImage stores the posted file under the upload dir with a slugged,
// uuid-suffixed name and records the relative path on the bus.
func (h *BusHandler) uploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	bus, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	name := slugify(bus.Info) + "-" + uuid.NewString() + filepath.Ext(file.Filename)
	relPath := filepath.Join("buses", name)
	dst := filepath.Join(h.uploadDir, relPath)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		writeError(c, err)
		return
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		writeError(c, err)
		return
	}

	if err := h.service.AttachImage(c.Request.Context(), id, filepath.ToSlash(relPath)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "image": filepath.ToSlash(relPath)})
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if s == "" {
		return "bus"
	}
	return s
}
