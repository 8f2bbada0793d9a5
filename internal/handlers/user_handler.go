package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/domain/roles"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/media"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type UserHandler struct {
	users   *repository.UserGormRepository
	storage media.Storage
	audit   *audit.Dispatcher
	log     *slog.Logger
}

func NewUserHandler(
	users *repository.UserGormRepository,
	storage media.Storage,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *UserHandler {
	return &UserHandler{
		users:   users,
		storage: storage,
		audit:   audit,
		log:     log.With(slog.String("component", "handlers/users")),
	}
}

// --------- Requests ---------

type CreateUserRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required,role"`
	Phone       string `json:"phone" binding:"max=20"`
	Bio         string `json:"bio" binding:"max=500"`
	Specialties string `json:"specialties" binding:"max=255"`
}

type UpdateUserRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	Specialties *string `json:"specialties" binding:"omitempty,max=255"`

	// admin only
	Role   *string `json:"role" binding:"omitempty,role"`
	Active *bool   `json:"active"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

// --------- Public ---------

func (h *UserHandler) ListWorkers(c *gin.Context) {
	workers, err := h.users.ListWorkers(c.Request.Context())
	if err != nil {
		writeError(c, h.log, "users.ListWorkers", err)
		return
	}
	httpresp.List(c, "Workers", dto.NewWorkerList(workers))
}

// --------- Admin / self ---------

func (h *UserHandler) List(c *gin.Context) {
	filter := repository.UserFilter{Query: c.Query("query")}

	if raw := c.Query("role"); raw != "" {
		role, ok := roles.Parse(raw)
		if !ok {
			writeError(c, h.log, "users.List", httperr.ErrBusiness(httperr.CodeInvalidRole))
			return
		}
		filter.Role = role.String()
	}

	users, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, "users.List", err)
		return
	}
	httpresp.List(c, "Users", users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.selfOrAdmin(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, "users.Get", err)
		return
	}
	httpresp.OK(c, "User", user)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	role, _ := roles.Parse(req.Role)

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, h.log, "users.Create", err)
		return
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
		Role:         role.String(),
		Active:       true,
		Phone:        req.Phone,
		Bio:          req.Bio,
		Specialties:  req.Specialties,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if db.IsUniqueViolation(err) {
			err = httperr.ErrBusiness(httperr.CodeEmailTaken)
		}
		writeError(c, h.log, "users.Create", err)
		return
	}

	h.dispatch(c, "user.created", user.ID, map[string]string{"role": user.Role})
	httpresp.Created(c, "User created", user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.selfOrAdmin(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	isAdmin := middleware.CurrentRole(c) == roles.Admin
	if req.Role != nil || req.Active != nil {
		if !isAdmin {
			writeError(c, h.log, "users.Update", httperr.ErrBusiness(httperr.CodeForbidden))
			return
		}
		if id == middleware.CurrentUserID(c) {
			httperr.BadRequest(c, "cannot_change_own_role", "You cannot change your own role or status")
			return
		}
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Specialties != nil {
		fields["specialties"] = *req.Specialties
	}
	if req.Role != nil {
		role, _ := roles.Parse(*req.Role)
		fields["role"] = role.String()
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}

	user, err := h.users.Update(c.Request.Context(), id, fields)
	if err != nil {
		h.notFoundOr(c, "users.Update", err)
		return
	}

	h.dispatch(c, "user.updated", user.ID, fields)
	httpresp.OK(c, "User updated", user)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	if id == middleware.CurrentUserID(c) {
		httperr.BadRequest(c, "cannot_change_own_role", "You cannot change your own role")
		return
	}

	role, _ := roles.Parse(req.Role)
	user, err := h.users.Update(c.Request.Context(), id, map[string]any{"role": role.String()})
	if err != nil {
		h.notFoundOr(c, "users.UpdateRole", err)
		return
	}

	h.dispatch(c, "user.role_changed", user.ID, map[string]string{"role": user.Role})
	httpresp.OK(c, "Role updated", user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if id == middleware.CurrentUserID(c) {
		httperr.BadRequest(c, "cannot_delete_self", "You cannot delete your own account")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.notFoundOr(c, "users.Delete", err)
		return
	}

	h.dispatch(c, "user.deleted", id, nil)
	httpresp.OK(c, "User deleted", nil)
}

// UploadAvatar stores the caller's avatar as a square WebP.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	id := middleware.CurrentUserID(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Send the image in the 'avatar' form field")
		return
	}
	if file.Size > media.MaxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "Image must be at most 5MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		writeError(c, h.log, "users.UploadAvatar", err)
		return
	}
	defer src.Close()

	img, err := media.ProcessAvatar(src)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			httperr.BadRequest(c, "invalid_image", "Unsupported image, use JPEG, PNG or WebP")
			return
		}
		writeError(c, h.log, "users.UploadAvatar", err)
		return
	}

	key := fmt.Sprintf("avatars/%d/%s.webp", id, uuid.NewString())
	url, err := h.storage.Put(c.Request.Context(), key, "image/webp", img)
	if err != nil {
		writeError(c, h.log, "users.UploadAvatar", err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, map[string]any{"avatar_url": url})
	if err != nil {
		h.notFoundOr(c, "users.UploadAvatar", err)
		return
	}

	h.dispatch(c, "user.avatar_updated", id, nil)
	httpresp.OK(c, "Avatar updated", user)
}

// --------- Helpers ---------

// selfOrAdmin resolves :id and allows it only for admins or the user themself.
func (h *UserHandler) selfOrAdmin(c *gin.Context) (uint, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return 0, false
	}
	if middleware.CurrentRole(c) != roles.Admin && id != middleware.CurrentUserID(c) {
		writeError(c, h.log, "users.selfOrAdmin", httperr.ErrBusiness(httperr.CodeForbidden))
		return 0, false
	}
	return id, true
}

func (h *UserHandler) dispatch(c *gin.Context, action string, id uint, meta any) {
	actor := middleware.CurrentUserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actor,
		Action:   action,
		Entity:   "user",
		EntityID: &id,
		Metadata: meta,
	})
}

func (h *UserHandler) notFoundOr(c *gin.Context, op string, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = httperr.ErrBusiness(httperr.CodeUserNotFound)
	}
	writeError(c, h.log, op, err)
}
