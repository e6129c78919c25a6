package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type TenantHandler struct {
	db    *gorm.DB
	cache domain.SlotCache
	ErrorResponder
}

func NewTenantHandler(db *gorm.DB, cache domain.SlotCache, resp ErrorResponder) *TenantHandler {
	return &TenantHandler{db: db, cache: cache, ErrorResponder: resp}
}

type UpdateTenantRequest struct {
	Name     *string         `json:"name"`
	Phone    *string         `json:"phone"`
	Address  *string         `json:"address"`
	Settings json.RawMessage `json:"settings"`
}

func (h *TenantHandler) load(c *gin.Context) (*models.Tenant, bool) {
	var tenant models.Tenant
	if err := h.db.First(&tenant, middleware.TenantID(c)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "tenant_not_found", httperr.MessageFor("tenant_not_found"))
			return nil, false
		}
		h.fail(c, err)
		return nil, false
	}
	return &tenant, true
}

// Get devolve o cadastro e as regras já resolvidas (com padrões aplicados).
func (h *TenantHandler) Get(c *gin.Context) {
	tenant, ok := h.load(c)
	if !ok {
		return
	}

	constraints, _ := domain.ParseConstraints(tenant.Settings)

	c.JSON(http.StatusOK, gin.H{
		"tenant":      tenant,
		"constraints": constraints,
	})
}

func (h *TenantHandler) Update(c *gin.Context) {
	tenant, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.Address != nil {
		tenant.Address = *req.Address
	}
	if len(req.Settings) > 0 {
		if _, err := domain.ParseConstraints(req.Settings); err != nil {
			httperr.BadRequest(c, "invalid_settings", "Configurações inválidas.")
			return
		}
		tenant.Settings = datatypes.JSON(req.Settings)
	}

	if err := h.db.Save(tenant).Error; err != nil {
		h.fail(c, err)
		return
	}

	// regras mudaram: grade em cache não vale mais
	h.cache.Invalidate(c.Request.Context(), tenant.ID)

	constraints, _ := domain.ParseConstraints(tenant.Settings)
	c.JSON(http.StatusOK, gin.H{
		"tenant":      tenant,
		"constraints": constraints,
	})
}
