package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type CustomerHandler struct {
	db *gorm.DB
	ErrorResponder
}

func NewCustomerHandler(db *gorm.DB, resp ErrorResponder) *CustomerHandler {
	return &CustomerHandler{db: db, ErrorResponder: resp}
}

// ======================================================
// LIST CUSTOMERS
// ======================================================
func (h *CustomerHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("tenant_id = ?", middleware.TenantID(c))

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"(LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?)",
			like, like, like,
		)
	}

	var customers []models.Customer
	if err := q.
		Order("last_booking_at DESC, created_at DESC").
		Find(&customers).Error; err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, customers)
}
