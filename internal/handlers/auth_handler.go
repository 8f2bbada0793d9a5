package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/domain/roles"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/lib/sl"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/oauth"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	users   *repository.UserGormRepository
	tokens  *auth.TokenMaker
	revoker auth.Revoker
	google  oauth.Provider
	audit   *audit.Dispatcher
	config  *config.Config
	log     *slog.Logger
}

// NewAuthHandler wires the handler; google may be nil when sign-in with
// Google is not configured.
func NewAuthHandler(
	users *repository.UserGormRepository,
	tokens *auth.TokenMaker,
	revoker auth.Revoker,
	google oauth.Provider,
	audit *audit.Dispatcher,
	cfg *config.Config,
	log *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		google:  google,
		audit:   audit,
		config:  cfg,
		log:     log.With(slog.String("component", "handlers/auth")),
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if h.config.CheckEmailDomain && !validators.IsEmailDomainValid(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, h.log, "auth.Register", err)
		return
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
		Phone:        req.Phone,
		Role:         roles.Client.String(),
		Active:       true,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if db.IsUniqueViolation(err) {
			writeError(c, h.log, "auth.Register", httperr.ErrBusiness(httperr.CodeEmailTaken))
			return
		}
		writeError(c, h.log, "auth.Register", err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "user.registered",
		Entity:   "user",
		EntityID: &user.ID,
	})

	h.respondWithToken(c, http.StatusCreated, "User registered", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password")
			return
		}
		writeError(c, h.log, "auth.Login", err)
		return
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password")
		return
	}

	if !user.Active {
		httperr.Unauthorized(c, "account_inactive", "This account is disabled")
		return
	}

	h.respondWithToken(c, http.StatusOK, "Login successful", user)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, h.log, "auth.Me", httperr.ErrBusiness(httperr.CodeUserNotFound))
			return
		}
		writeError(c, h.log, "auth.Me", err)
		return
	}

	httpresp.OK(c, "Current user", user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil || claims.ExpiresAt == nil {
		httperr.Unauthorized(c, "invalid_token", "Invalid or expired token")
		return
	}

	if err := h.revoker.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		writeError(c, h.log, "auth.Logout", err)
		return
	}

	httpresp.OK(c, "Logged out", nil)
}

// --------- Google ---------

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		httperr.NotFound(c, "oauth_disabled", "Google sign-in is not enabled")
		return
	}

	state := oauth.NewState()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/auth/google", "", h.config.Env == config.EnvProd, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		httperr.NotFound(c, "oauth_disabled", "Google sign-in is not enabled")
		return
	}

	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		httperr.BadRequest(c, "invalid_oauth_state", "Sign-in session expired, try again")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", h.config.Env == config.EnvProd, true)

	code := c.Query("code")
	if code == "" {
		httperr.BadRequest(c, "missing_code", "Missing authorization code")
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Warn("google exchange failed", sl.Err(err))
		httperr.Unauthorized(c, "oauth_failed", "Google sign-in failed")
		return
	}

	user, err := h.findOrCreateGoogleUser(c, profile)
	if err != nil {
		writeError(c, h.log, "auth.GoogleCallback", err)
		return
	}

	if !user.Active {
		httperr.Unauthorized(c, "account_inactive", "This account is disabled")
		return
	}

	if h.config.FrontendURL == "" {
		h.respondWithToken(c, http.StatusOK, "Login successful", user)
		return
	}

	token, _, err := h.tokens.Generate(user)
	if err != nil {
		writeError(c, h.log, "auth.GoogleCallback", err)
		return
	}
	target := strings.TrimRight(h.config.FrontendURL, "/") + "/oauth/callback?token=" + url.QueryEscape(token)
	c.Redirect(http.StatusFound, target)
}

// findOrCreateGoogleUser matches on google id first, then links an existing
// account with the same email, and finally registers a new CLIENT.
func (h *AuthHandler) findOrCreateGoogleUser(c *gin.Context, p *oauth.Profile) (*models.User, error) {
	ctx := c.Request.Context()

	user, err := h.users.GetByGoogleID(ctx, p.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err = h.users.GetByEmail(ctx, p.Email)
	switch {
	case err == nil:
		return h.users.Update(ctx, user.ID, map[string]any{"google_id": p.ID})
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hashed, err := auth.RandomPasswordHash()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = p.Email
	}

	googleID := p.ID
	user = &models.User{
		Name:         name,
		Email:        strings.ToLower(p.Email),
		PasswordHash: hashed,
		Role:         roles.Client.String(),
		Active:       true,
		GoogleID:     &googleID,
	}
	if err := h.users.Create(ctx, user); err != nil {
		return nil, err
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "user.registered",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]string{"provider": "google"},
	})

	return user, nil
}

// --------- JWT ---------

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, message string, user *models.User) {
	token, claims, err := h.tokens.Generate(user)
	if err != nil {
		writeError(c, h.log, "auth.respondWithToken", err)
		return
	}

	body := authResponse{
		User:      user,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	if status == http.StatusCreated {
		httpresp.Created(c, message, body)
		return
	}
	httpresp.OK(c, message, body)
}
