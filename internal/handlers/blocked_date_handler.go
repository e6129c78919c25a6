package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type BlockedDateHandler struct {
	db    *gorm.DB
	cache domain.SlotCache
	ErrorResponder
}

func NewBlockedDateHandler(db *gorm.DB, cache domain.SlotCache, resp ErrorResponder) *BlockedDateHandler {
	return &BlockedDateHandler{db: db, cache: cache, ErrorResponder: resp}
}

type CreateBlockedDateRequest struct {
	BranchID *uint  `json:"branch_id"`
	Date     string `json:"date" binding:"required,ymd"`
	Reason   string `json:"reason"`
}

func (h *BlockedDateHandler) List(c *gin.Context) {
	q := h.db.Where("tenant_id = ?", middleware.TenantID(c))

	// datas em YYYY-MM-DD comparam como texto
	if from := c.Query("from"); from != "" {
		q = q.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		q = q.Where("date <= ?", to)
	}

	var dates []models.BlockedDate
	if err := q.Order("date ASC").Find(&dates).Error; err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, dates)
}

func (h *BlockedDateHandler) Create(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var req CreateBlockedDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if !ownBranch(h.db, c, tenantID, req.BranchID) {
		return
	}

	blocked := models.BlockedDate{
		TenantID: tenantID,
		BranchID: req.BranchID,
		Date:     req.Date,
		Reason:   req.Reason,
	}

	if err := h.db.Create(&blocked).Error; err != nil {
		h.fail(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), tenantID)

	c.JSON(http.StatusCreated, blocked)
}

func (h *BlockedDateHandler) Delete(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&models.BlockedDate{})
	if res.Error != nil {
		h.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "blocked_date_not_found", "Bloqueio não encontrado.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), tenantID)

	c.Status(http.StatusNoContent)
}
