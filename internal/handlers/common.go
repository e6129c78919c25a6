package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/metrics"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// ErrorResponder centraliza a saída de erro: conta rejeições e delega ao httperr.
type ErrorResponder struct {
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewErrorResponder(logger *zerolog.Logger, m *metrics.Metrics) ErrorResponder {
	return ErrorResponder{logger: logger, metrics: m}
}

func (r ErrorResponder) fail(c *gin.Context, err error) {
	if r.metrics != nil {
		r.metrics.ObserveError(err)
	}
	httperr.Respond(c, r.logger, err)
}

func invalidRequest(c *gin.Context, err error) {
	c.JSON(400, gin.H{
		"error_code": "invalid_request",
		"message":    "Dados inválidos.",
		"details":    err.Error(),
	})
}

// optionalUint lê um id opcional da query ("" → nil).
func optionalUint(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	id := uint(v)
	return &id, nil
}

func paramID(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}

// ownBranch confere que a unidade do corpo pertence ao estabelecimento logado.
func ownBranch(db *gorm.DB, c *gin.Context, tenantID uint, branchID *uint) bool {
	if branchID == nil {
		return true
	}

	var count int64
	if err := db.Model(&models.Branch{}).
		Where("id = ? AND tenant_id = ?", *branchID, tenantID).
		Count(&count).Error; err != nil || count == 0 {
		httperr.NotFound(c, "branch_not_found", httperr.MessageFor("branch_not_found"))
		return false
	}
	return true
}

func tenantBySlug(db *gorm.DB, c *gin.Context) (*models.Tenant, bool) {
	var tenant models.Tenant
	if err := db.Where("slug = ?", c.Param("slug")).First(&tenant).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", httperr.MessageFor("tenant_not_found"))
		return nil, false
	}
	return &tenant, true
}
