package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// BranchHandler cadastra as unidades; cada uma tem agenda própria.
type BranchHandler struct {
	db    *gorm.DB
	cache domain.SlotCache
	ErrorResponder
}

func NewBranchHandler(db *gorm.DB, cache domain.SlotCache, resp ErrorResponder) *BranchHandler {
	return &BranchHandler{db: db, cache: cache, ErrorResponder: resp}
}

type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Address string `json:"address" binding:"max=255"`
}

type UpdateBranchRequest struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Address *string `json:"address,omitempty" binding:"omitempty,max=255"`
	Active  *bool   `json:"active,omitempty"`
}

func (h *BranchHandler) List(c *gin.Context) {
	var branches []models.Branch
	if err := h.db.
		Where("tenant_id = ?", middleware.TenantID(c)).
		Order("id ASC").
		Find(&branches).Error; err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, branches)
}

func (h *BranchHandler) Create(c *gin.Context) {
	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	branch := models.Branch{
		TenantID: middleware.TenantID(c),
		Name:     req.Name,
		Address:  req.Address,
		Active:   true,
	}

	if err := h.db.Create(&branch).Error; err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, branch)
}

func (h *BranchHandler) Update(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var branch models.Branch
	if err := h.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "branch_not_found", httperr.MessageFor("branch_not_found"))
			return
		}
		h.fail(c, err)
		return
	}

	var req UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.Active != nil {
		branch.Active = *req.Active
	}

	if err := h.db.Save(&branch).Error; err != nil {
		h.fail(c, err)
		return
	}

	// unidade desativada some da disponibilidade
	h.cache.Invalidate(c.Request.Context(), tenantID)

	c.JSON(http.StatusOK, branch)
}
