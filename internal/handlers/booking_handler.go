package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/usecase/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createBooking *booking.CreateBooking
	createStay    *booking.CreateStay
	availability  *booking.GetAvailability
	updateStatus  *booking.UpdateBookingStatus
	listByDate    *booking.ListBookingsByDate
	listByMonth   *booking.ListBookingsByMonth
	ErrorResponder
}

func NewBookingHandler(
	createBooking *booking.CreateBooking,
	createStay *booking.CreateStay,
	availability *booking.GetAvailability,
	updateStatus *booking.UpdateBookingStatus,
	listByDate *booking.ListBookingsByDate,
	listByMonth *booking.ListBookingsByMonth,
	resp ErrorResponder,
) *BookingHandler {
	return &BookingHandler{
		createBooking:  createBooking,
		createStay:     createStay,
		availability:   availability,
		updateStatus:   updateStatus,
		listByDate:     listByDate,
		listByMonth:    listByMonth,
		ErrorResponder: resp,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required,phone"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	BranchID      *uint  `json:"branch_id"`
	EmployeeID    *uint  `json:"employee_id"`
	Date          string `json:"date" binding:"required,ymd"`
	Time          string `json:"time" binding:"required,hhmm"`
	Notes         string `json:"notes"`

	// walk-in: ignora antecedência e expediente, já nasce confirmada
	SkipAdvanceCheck bool `json:"skip_advance_check"`
}

type CreateStayRequest struct {
	CustomerName     string `json:"customer_name" binding:"required"`
	CustomerPhone    string `json:"customer_phone" binding:"required,phone"`
	CustomerEmail    string `json:"customer_email" binding:"omitempty,email"`
	ServiceID        uint   `json:"service_id" binding:"required"`
	BranchID         *uint  `json:"branch_id"`
	CheckIn          string `json:"check_in" binding:"required,ymd"`
	CheckOut         string `json:"check_out" binding:"required,ymd"`
	Notes            string `json:"notes"`
	SkipAdvanceCheck bool   `json:"skip_advance_check"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.createBooking.Execute(c.Request.Context(), booking.CreateBookingInput{
		TenantID:         middleware.TenantID(c),
		BranchID:         req.BranchID,
		ServiceID:        req.ServiceID,
		EmployeeID:       req.EmployeeID,
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerPhone:    validators.NormalizePhone(req.CustomerPhone),
		CustomerEmail:    strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		Date:             req.Date,
		StartTime:        req.Time,
		Notes:            req.Notes,
		Source:           "dashboard",
		SkipAdvanceCheck: req.SkipAdvanceCheck,
		UserID:           middleware.UserID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) CreateStay(c *gin.Context) {
	var req CreateStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.createStay.Execute(c.Request.Context(), booking.CreateStayInput{
		TenantID:         middleware.TenantID(c),
		BranchID:         req.BranchID,
		ServiceID:        req.ServiceID,
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerPhone:    validators.NormalizePhone(req.CustomerPhone),
		CustomerEmail:    strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CheckIn:          req.CheckIn,
		CheckOut:         req.CheckOut,
		Notes:            req.Notes,
		Source:           "dashboard",
		SkipAdvanceCheck: req.SkipAdvanceCheck,
		UserID:           middleware.UserID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// AVAILABILITY (PAINEL)
// ======================================================

// Availability mostra a grade do dia; com skip_advance_check=true
// os horários de hoje não passam pelo filtro de antecedência.
func (h *BookingHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if date == "" || err != nil {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return
	}

	branchID, err := optionalUint(c.Query("branch_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_branch_id", "Unidade inválida.")
		return
	}

	skip, _ := strconv.ParseBool(c.DefaultQuery("skip_advance_check", "false"))

	slots, err := h.availability.Execute(c.Request.Context(), booking.AvailabilityInput{
		TenantID:         middleware.TenantID(c),
		BranchID:         branchID,
		ServiceID:        uint(serviceID),
		Date:             date,
		SkipAdvanceCheck: skip,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context)  { h.transition(c, domain.StatusConfirmed) }
func (h *BookingHandler) Cancel(c *gin.Context)   { h.transition(c, domain.StatusCancelled) }
func (h *BookingHandler) Complete(c *gin.Context) { h.transition(c, domain.StatusCompleted) }
func (h *BookingHandler) NoShow(c *gin.Context)   { h.transition(c, domain.StatusNoShow) }

func (h *BookingHandler) transition(c *gin.Context, to domain.Status) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	b, err := h.updateStatus.Execute(
		c.Request.Context(),
		middleware.TenantID(c),
		id,
		to,
		middleware.UserID(c),
	)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), middleware.TenantID(c), date)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_month", httperr.MessageFor("invalid_month"))
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), middleware.TenantID(c), year, month)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, out)
}
