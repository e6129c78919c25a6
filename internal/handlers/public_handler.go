package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/usecase/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db *gorm.DB

	availability     *booking.GetAvailability
	stayAvailability *booking.GetStayAvailability
	createBooking    *booking.CreateBooking
	createStay       *booking.CreateStay

	ErrorResponder
}

func NewPublicHandler(
	db *gorm.DB,
	availability *booking.GetAvailability,
	stayAvailability *booking.GetStayAvailability,
	createBooking *booking.CreateBooking,
	createStay *booking.CreateStay,
	resp ErrorResponder,
) *PublicHandler {
	return &PublicHandler{
		db:               db,
		availability:     availability,
		stayAvailability: stayAvailability,
		createBooking:    createBooking,
		createStay:       createStay,
		ErrorResponder:   resp,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateBookingRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required,phone"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	BranchID      *uint  `json:"branch_id"`
	Date          string `json:"date" binding:"required,ymd"`
	Time          string `json:"time" binding:"required,hhmm"`
	Notes         string `json:"notes"`
}

type PublicCreateStayRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required,phone"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	BranchID      *uint  `json:"branch_id"`
	CheckIn       string `json:"check_in" binding:"required,ymd"`
	CheckOut      string `json:"check_out" binding:"required,ymd"`
	Notes         string `json:"notes"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	tenant, ok := tenantBySlug(h.db, c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))

	q := h.db.Where("tenant_id = ? AND active = ?", tenant.ID, true)
	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant": gin.H{
			"id":      tenant.ID,
			"name":    tenant.Name,
			"slug":    tenant.Slug,
			"phone":   tenant.Phone,
			"address": tenant.Address,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	serviceIDStr := c.Query("service_id")
	if date == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return
	}

	branchID, err := optionalUint(c.Query("branch_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_branch_id", "Unidade inválida.")
		return
	}

	tenant, ok := tenantBySlug(h.db, c)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), booking.AvailabilityInput{
		TenantID:  tenant.ID,
		BranchID:  branchID,
		ServiceID: uint(serviceID),
		Date:      date,
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

func (h *PublicHandler) StayAvailability(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, "missing_params", "Período obrigatório.")
		return
	}

	branchID, err := optionalUint(c.Query("branch_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_branch_id", "Unidade inválida.")
		return
	}

	tenant, ok := tenantBySlug(h.db, c)
	if !ok {
		return
	}

	days, err := h.stayAvailability.Execute(c.Request.Context(), booking.StayAvailabilityInput{
		TenantID: tenant.ID,
		BranchID: branchID,
		From:     from,
		To:       to,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from": from,
		"to":   to,
		"days": days,
	})
}

////////////////////////////////////////////////////////
// CREATE
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	tenant, ok := tenantBySlug(h.db, c)
	if !ok {
		return
	}

	var req PublicCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.createBooking.Execute(c.Request.Context(), booking.CreateBookingInput{
		TenantID:      tenant.ID,
		BranchID:      req.BranchID,
		ServiceID:     req.ServiceID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: validators.NormalizePhone(req.CustomerPhone),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		Date:          req.Date,
		StartTime:     req.Time,
		Notes:         req.Notes,
		Source:        "public",
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *PublicHandler) CreateStay(c *gin.Context) {
	tenant, ok := tenantBySlug(h.db, c)
	if !ok {
		return
	}

	var req PublicCreateStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.createStay.Execute(c.Request.Context(), booking.CreateStayInput{
		TenantID:      tenant.ID,
		BranchID:      req.BranchID,
		ServiceID:     req.ServiceID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: validators.NormalizePhone(req.CustomerPhone),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Notes:         req.Notes,
		Source:        "public",
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}
