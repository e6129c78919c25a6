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

type ScheduleHandler struct {
	db    *gorm.DB
	cache domain.SlotCache
	ErrorResponder
}

func NewScheduleHandler(db *gorm.DB, cache domain.SlotCache, resp ErrorResponder) *ScheduleHandler {
	return &ScheduleHandler{db: db, cache: cache, ErrorResponder: resp}
}

// DayOfWeek: segunda=0 ... domingo=6.
type ScheduleDayConfig struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	IsActive  bool   `json:"is_active"`
	StartTime string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime   string `json:"end_time" binding:"omitempty,hhmm"`
}

type ScheduleUpdateRequest struct {
	BranchID *uint               `json:"branch_id"`
	Days     []ScheduleDayConfig `json:"days" binding:"required,dive"`
}

// scoped restringe ao estabelecimento e à unidade (nil = padrão do estabelecimento).
func scoped(q *gorm.DB, tenantID uint, branchID *uint) *gorm.DB {
	q = q.Where("tenant_id = ?", tenantID)
	if branchID == nil {
		return q.Where("branch_id IS NULL")
	}
	return q.Where("branch_id = ?", *branchID)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	branchID, err := optionalUint(c.Query("branch_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_branch_id", "Unidade inválida.")
		return
	}

	var schedules []models.Schedule
	if err := scoped(h.db, middleware.TenantID(c), branchID).
		Order("day_of_week ASC").
		Find(&schedules).Error; err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, schedules)
}

// Update substitui a semana inteira do escopo.
func (h *ScheduleHandler) Update(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var req ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if !ownBranch(h.db, c, tenantID, req.BranchID) {
		return
	}

	seen := make(map[int]bool, len(req.Days))
	toCreate := make([]models.Schedule, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.DayOfWeek] {
			httperr.BadRequest(c, "duplicated_day", "Dia da semana repetido.")
			return
		}
		seen[d.DayOfWeek] = true

		if d.IsActive && (d.StartTime == "" || d.EndTime == "" || d.StartTime == d.EndTime) {
			httperr.BadRequest(c, "invalid_schedule", "Expediente inválido.")
			return
		}

		toCreate = append(toCreate, models.Schedule{
			TenantID:  tenantID,
			BranchID:  req.BranchID,
			DayOfWeek: d.DayOfWeek,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			IsActive:  d.IsActive,
		})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := scoped(tx, tenantID, req.BranchID).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), tenantID)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
