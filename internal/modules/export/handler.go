package export

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the export routes behind the given middleware,
// typically a rate limiter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	weeks := rg.Group("/facilities/:facility/weeks/:week", mw...)
	weeks.GET("/export.pdf", h.PDF)
	weeks.GET("/export.xlsx", h.XLSX)
}

func (h *Handler) PDF(c *gin.Context) {
	doc, err := h.service.PDF(c.Request.Context(), c.Param("facility"), c.Param("week"), anonymized(c))
	if err != nil {
		writeError(c, err)
		return
	}
	send(c, doc)
}

func (h *Handler) XLSX(c *gin.Context) {
	doc, err := h.service.XLSX(c.Request.Context(), c.Param("facility"), c.Param("week"), anonymized(c))
	if err != nil {
		writeError(c, err)
		return
	}
	send(c, doc)
}

func anonymized(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.DefaultQuery("anonymized", "false"))
	return v
}

func send(c *gin.Context, doc *Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidWeek):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, booking.ErrUnknownFacility):
		response.Error(c, http.StatusNotFound, "UNKNOWN_FACILITY", "Unknown facility")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render export")
	}
}
