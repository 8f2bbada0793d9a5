package handlers

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/lib/sl"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const servicesCacheKey = "services:list"

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	services *repository.ServiceGormRepository
	cache    cache.Cache
	ttl      time.Duration
	audit    *audit.Dispatcher
	log      *slog.Logger
}

func NewServiceHandler(
	services *repository.ServiceGormRepository,
	c cache.Cache,
	ttl time.Duration,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *ServiceHandler {
	return &ServiceHandler{
		services: services,
		cache:    c,
		ttl:      ttl,
		audit:    audit,
		log:      log.With(slog.String("component", "handlers/services")),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateServiceRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"max=255"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	DurationMin int      `json:"durationMin" binding:"omitempty,min=5,max=480"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=255"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	DurationMin *int     `json:"durationMin" binding:"omitempty,min=5,max=480"`
}

// ======================================================
// READ (public)
// ======================================================

func (h *ServiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var services []models.Service
	hit, err := h.cache.Get(ctx, servicesCacheKey, &services)
	if err != nil {
		h.log.Warn("services cache read failed", sl.Err(err))
	}

	if !hit {
		services, err = h.services.List(ctx)
		if err != nil {
			writeError(c, h.log, "services.List", err)
			return
		}
		if err := h.cache.Set(ctx, servicesCacheKey, services, h.ttl); err != nil {
			h.log.Warn("services cache write failed", sl.Err(err))
		}
	}

	httpresp.List(c, "Services", services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc, err := h.services.Get(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, "services.Get", err)
		return
	}

	httpresp.OK(c, "Service", svc)
}

// ======================================================
// WRITE (admin)
// ======================================================

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	svc := &models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		DurationMin: req.DurationMin,
	}
	if svc.DurationMin == 0 {
		svc.DurationMin = 30
	}

	if err := h.services.Create(c.Request.Context(), svc); err != nil {
		writeError(c, h.log, "services.Create", err)
		return
	}

	h.afterWrite(c, "service.created", svc.ID)
	httpresp.Created(c, "Service created", svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	svc, err := h.services.Get(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, "services.Update", err)
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}

	if err := h.services.Save(c.Request.Context(), svc); err != nil {
		writeError(c, h.log, "services.Update", err)
		return
	}

	h.afterWrite(c, "service.updated", svc.ID)
	httpresp.OK(c, "Service updated", svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Delete(c.Request.Context(), id); err != nil {
		h.notFoundOr(c, "services.Delete", err)
		return
	}

	h.afterWrite(c, "service.deleted", id)
	httpresp.OK(c, "Service deleted", nil)
}

// ======================================================
// HELPERS
// ======================================================

func (h *ServiceHandler) afterWrite(c *gin.Context, action string, id uint) {
	if err := h.cache.Invalidate(c.Request.Context(), servicesCacheKey); err != nil {
		h.log.Warn("services cache invalidation failed", sl.Err(err))
	}

	actor := middleware.CurrentUserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actor,
		Action:   action,
		Entity:   "service",
		EntityID: &id,
	})
}

func (h *ServiceHandler) notFoundOr(c *gin.Context, op string, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = httperr.ErrBusiness(httperr.CodeServiceNotFound)
	}
	writeError(c, h.log, op, err)
}
