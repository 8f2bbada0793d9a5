// Package oauth implements third-party sign-in.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/BruksfildServices01/barber-booking/internal/config"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var ErrEmailNotVerified = errors.New("oauth: email not verified")

// Profile is the identity returned by a provider after a successful exchange.
type Profile struct {
	ID    string
	Email string
	Name  string
}

type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

type Google struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewGoogle(c config.GoogleConfig) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (g *Google) Exchange(ctx context.Context, code string) (*Profile, error) {
	const op = "oauth.Google.Exchange"

	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: userinfo status %d", op, resp.StatusCode)
	}

	var u googleUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Sub == "" || u.Email == "" {
		return nil, fmt.Errorf("%s: incomplete profile", op)
	}
	if !u.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	return &Profile{ID: u.Sub, Email: u.Email, Name: u.Name}, nil
}

// NewState returns an unguessable value for the CSRF state round-trip.
func NewState() string {
	return uuid.NewString()
}
