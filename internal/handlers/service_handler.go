package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/media"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

const maxImageBytes = 5 << 20

// ImageUploader publica a imagem e devolve a URL pública.
type ImageUploader interface {
	UploadServiceImage(ctx context.Context, tenantID, serviceID uint, r io.Reader) (string, error)
}

type ServiceHandler struct {
	db     *gorm.DB
	cache  domain.SlotCache
	images ImageUploader
	ErrorResponder
}

// images pode ser nil quando o bucket não está configurado.
func NewServiceHandler(db *gorm.DB, cache domain.SlotCache, images ImageUploader, resp ErrorResponder) *ServiceHandler {
	return &ServiceHandler{db: db, cache: cache, images: images, ErrorResponder: resp}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	DurationMin int             `json:"duration_min" binding:"min=0"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	DurationMin *int             `json:"duration_min,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Active      *bool            `json:"active,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("tenant_id = ?", tenantID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Preço inválido.")
		return
	}

	service := models.Service{
		TenantID:    middleware.TenantID(c),
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
		Category:    strings.ToLower(req.Category),
	}

	if err := h.db.Create(&service).Error; err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) find(c *gin.Context) (*models.Service, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	var service models.Service
	if err := h.db.
		Where("id = ? AND tenant_id = ?", id, middleware.TenantID(c)).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", httperr.MessageFor("service_not_found"))
			return nil, false
		}
		h.fail(c, err)
		return nil, false
	}
	return &service, true
}

func (h *ServiceHandler) Update(c *gin.Context) {
	service, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin < 0 {
			httperr.BadRequest(c, "invalid_duration", "Duração inválida.")
			return
		}
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, "invalid_price", "Preço inválido.")
			return
		}
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}
	if req.Category != nil {
		service.Category = strings.ToLower(*req.Category)
	}

	if err := h.db.Save(service).Error; err != nil {
		h.fail(c, err)
		return
	}

	// duração entra na grade de horários
	h.cache.Invalidate(c.Request.Context(), service.TenantID)

	c.JSON(http.StatusOK, service)
}

// UploadImage recebe multipart "image".
func (h *ServiceHandler) UploadImage(c *gin.Context) {
	if h.images == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "media_disabled", "Upload de imagens indisponível.")
		return
	}

	service, ok := h.find(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Imagem obrigatória.")
		return
	}
	if file.Size > maxImageBytes {
		httperr.BadRequest(c, "image_too_large", "Imagem muito grande (máx. 5MB).")
		return
	}

	f, err := file.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	url, err := h.images.UploadServiceImage(c.Request.Context(), service.TenantID, service.ID, f)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			httperr.BadRequest(c, "invalid_image", "Formato de imagem não suportado.")
			return
		}
		h.fail(c, err)
		return
	}

	if err := h.db.Model(service).Update("image_url", url).Error; err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
