// Package session supplies the acting user to the rest of the dashboard. It
// owns authentication at the demo level (bcrypt login, JWT bearer tokens) and
// the explicit current-user snapshot used by role-switching tooling. Nothing
// downstream reads ambient state: the effective role and access config travel
// with the request principal.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
)

// User is the identity record. Exactly one of TemplateID or CustomConfig
// resolves to the effective access config for RBAC-subject roles; bypass
// roles carry neither.
type User struct {
	ID           string                `json:"id"`
	Email        string                `json:"email"`
	Name         string                `json:"name"`
	Role         accesscontrol.Role    `json:"role"`
	TemplateID   string                `json:"template_id,omitempty"`
	CustomConfig *accesscontrol.Config `json:"custom_config,omitempty"`
	Communities  []string              `json:"communities,omitempty"`
	IsActive     bool                  `json:"is_active"`
}

// EffectiveConfig resolves the template-or-custom blueprint plus the per-user
// community assignment. Bypass roles get an empty config; the resolver never
// consults it for them.
func (u *User) EffectiveConfig() (accesscontrol.Config, error) {
	if u.Role.BypassesRBAC() {
		return accesscontrol.Config{}, nil
	}

	if u.TemplateID != "" {
		tpl, ok := accesscontrol.TemplateByID(u.TemplateID)
		if !ok {
			return accesscontrol.Config{}, fmt.Errorf("user %s references unknown access template %q", u.ID, u.TemplateID)
		}
		return tpl.Apply(u.Communities), nil
	}

	if u.CustomConfig != nil {
		cfg := *u.CustomConfig
		cfg.Communities = append([]string(nil), u.Communities...)
		return cfg, nil
	}

	return accesscontrol.Config{}, fmt.Errorf("user %s has neither template nor custom access config", u.ID)
}

// ToPrincipal builds the request-scoped identity handed to the core.
func (u *User) ToPrincipal() (*internal.Principal, error) {
	cfg, err := u.EffectiveConfig()
	if err != nil {
		return nil, err
	}
	return &internal.Principal{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		Config: cfg,
	}, nil
}

// Provider holds the current-user snapshot. Replacing the user is an explicit
// SetUser call; consumers always read the snapshot current at call time.
type Provider struct {
	mu      sync.RWMutex
	current *User
}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) CurrentUser() (*User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil, false
	}
	u := *p.current
	return &u, true
}

func (p *Provider) SetUser(u *User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if u == nil {
		p.current = nil
		return
	}
	clone := *u
	p.current = &clone
}

func (p *Provider) Clear() {
	p.SetUser(nil)
}

// Claims are the JWT claims carried by session tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenGenerator creates and validates session tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, email string) (string, error)
	GenerateRefreshToken(userID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

func (g *JWTTokenGenerator) GenerateAccessToken(userID, email string) (string, error) {
	return g.generate(userID, email, g.AccessTokenSecret, g.AccessTokenTTL)
}

func (g *JWTTokenGenerator) GenerateRefreshToken(userID, email string) (string, error) {
	return g.generate(userID, email, g.RefreshTokenSecret, g.RefreshTokenTTL)
}

func (g *JWTTokenGenerator) generate(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (g *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	return g.validate(tokenString, g.AccessTokenSecret)
}

func (g *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return g.validate(tokenString, g.RefreshTokenSecret)
}

func (g *JWTTokenGenerator) validate(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}
	if !token.Valid {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}
