package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/domain/roles"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/lib/sl"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"
	ContextClaims    = "claims"
)

// UserLookup resolves the account behind a token. Soft-deleted users must
// come back as gorm.ErrRecordNotFound.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware accepts a bearer token only while its account still exists
// and is active; the role in context is the stored one, not the token's.
func AuthMiddleware(tokens *auth.TokenMaker, revoker auth.Revoker, users UserLookup, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Authentication required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Authentication required")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Invalid or expired token")
			return
		}

		revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Error("revocation check failed", sl.Err(err))
			httperr.Abort(c, http.StatusServiceUnavailable, "auth_unavailable", "Could not verify token")
			return
		}
		if revoked {
			httperr.Abort(c, http.StatusUnauthorized, "token_revoked", "Token has been revoked")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Invalid or expired token")
				return
			}
			log.Error("user lookup failed", sl.Err(err))
			httperr.Abort(c, http.StatusServiceUnavailable, "auth_unavailable", "Could not verify token")
			return
		}
		if !user.Active {
			httperr.Abort(c, http.StatusUnauthorized, "account_inactive", "This account is disabled")
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserEmail, user.Email)
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// RequireRoles must run after AuthMiddleware.
func RequireRoles(allowed ...roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		for _, r := range allowed {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Abort(c, http.StatusForbidden, httperr.CodeForbidden, "You do not have permission to perform this action")
	}
}

func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

func CurrentRole(c *gin.Context) roles.Role {
	return roles.Role(c.GetString(ContextUserRole))
}

func CurrentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
