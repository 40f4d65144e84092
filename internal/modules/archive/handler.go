package archive

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stadium/internal/modules/booking"
	"stadium/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/archives", h.List)
	public.GET("/archives/export.csv", h.ExportCSV)
	public.GET("/archives/:id", h.Get)
	protected.POST("/facilities/:facility/weeks/:week/archive", h.Save)
	protected.DELETE("/archives/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Query("facility"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"archives": list})
}

func (h *Handler) Get(c *gin.Context) {
	a, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"archive": a})
}

func (h *Handler) Save(c *gin.Context) {
	a, err := h.service.Save(c.Request.Context(), c.Param("facility"), c.Param("week"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"archive": a})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) ExportCSV(c *gin.Context) {
	name := fmt.Sprintf("archive_%s.csv", h.service.now().Format("2006-01-02_15-04"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Status(http.StatusOK)
	if err := h.service.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidWeek):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrUnknownFacility), errors.Is(err, booking.ErrUnknownFacility):
		response.Error(c, http.StatusNotFound, "UNKNOWN_FACILITY", "Unknown facility")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Archive snapshot not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process archive request")
	}
}
