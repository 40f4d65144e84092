package booking

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"stadium/internal/domain"
	"stadium/internal/pkg/response"
	"stadium/internal/pkg/validator"
	"stadium/internal/weekgrid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts read routes on public and mutating routes on
// protected.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/facilities", h.ListFacilities)
	public.GET("/facilities/:facility/slots", h.ListSlots)
	public.GET("/facilities/:facility/bookings", h.ListBookings)
	public.POST("/facilities/:facility/availability", h.CheckAvailability)
	public.GET("/facilities/:facility/weeks/:week/grid", h.WeekGrid)

	protected.POST("/facilities/:facility/bookings/batch", h.CreateBatch)
	protected.DELETE("/facilities/:facility/bookings", h.DeleteAll)
	protected.DELETE("/bookings/:id", h.Delete)
	protected.POST("/facilities/:facility/reorganize", h.Reorganize)
	protected.POST("/facilities/:facility/reorganize/undo", h.UndoReorganize)
}

func (h *Handler) ListFacilities(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"facilities": domain.Facilities()})
}

func (h *Handler) ListSlots(c *gin.Context) {
	p, err := h.service.Facility(c.Param("facility"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"facility": p.ID, "slots": domain.TimeSlots})
}

func (h *Handler) ListBookings(c *gin.Context) {
	fromStr, toStr := c.Query("from"), c.Query("to")
	if d := c.Query("date"); d != "" {
		fromStr, toStr = d, d
	}
	if fromStr == "" || toStr == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date or from and to are required")
		return
	}
	from, err := domain.ParseDate(fromStr)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	to, err := domain.ParseDate(toStr)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	out, err := h.service.List(c.Request.Context(), c.Param("facility"), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": out})
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid availability request", errs)
		return
	}

	out, err := h.service.Availability(c.Request.Context(), c.Param("facility"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) CreateBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid batch request", errs)
		return
	}

	out, err := h.service.CreateBatch(c.Request.Context(), c.Param("facility"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, BatchResponse{Created: len(out), Bookings: out})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) DeleteAll(c *gin.Context) {
	n, err := h.service.DeleteAll(c.Request.Context(), c.Param("facility"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": n})
}

func (h *Handler) Reorganize(c *gin.Context) {
	out, err := h.service.Reorganize(c.Request.Context(), c.Param("facility"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) UndoReorganize(c *gin.Context) {
	n, err := h.service.UndoReorganization(c.Request.Context(), c.Param("facility"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"restored": n})
}

type blockView struct {
	Booking domain.Booking `json:"booking"`
	Date    string         `json:"date"`
	Slot    int            `json:"slot"`
	Section int            `json:"section"`
	RowSpan int            `json:"row_span"`
	ColSpan int            `json:"col_span"`
}

func (h *Handler) WeekGrid(c *gin.Context) {
	week, err := domain.ParseDate(c.Param("week"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	g, err := h.service.Grid(c.Request.Context(), c.Param("facility"), week)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"grid": g, "blocks": blockViews(g)})
}

func blockViews(g weekgrid.Grid) []blockView {
	blocks := g.Blocks()
	out := make([]blockView, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockView{
			Booking: b.Booking,
			Date:    g.Days[b.Day].Date.Format(domain.DateLayout),
			Slot:    b.Slot,
			Section: g.Sections[b.Section],
			RowSpan: b.RowSpan,
			ColSpan: b.ColSpan,
		})
	}
	return out
}

// writeError maps service errors onto the response envelope.
func writeError(c *gin.Context, err error) {
	var rejected *BatchRejectedError
	switch {
	case errors.As(err, &rejected):
		response.ErrorWithDetails(c, http.StatusConflict, "INSUFFICIENT_AVAILABILITY", rejected.Error(), gin.H{
			"messages": rejected.Messages,
			"failed":   rejected.Failed,
			"total":    rejected.Total,
		})
	case errors.Is(err, ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrUnknownFacility):
		response.Error(c, http.StatusNotFound, "UNKNOWN_FACILITY", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrOverbooking):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Sections were taken by another booking, reload and try again")
	case errors.Is(err, ErrNothingToUndo):
		response.Error(c, http.StatusConflict, "NOTHING_TO_UNDO", "No reorganization to undo")
	default:
		_ = c.Error(err)
		log.Printf("booking_handler_error path=%s error=%v", c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking request")
	}
}
