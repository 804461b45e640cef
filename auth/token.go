package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleGuest      = "guest"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Claims is carried by both guest cart tokens and admin tokens.
type Claims struct {
	SessionID string `json:"session_id,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin is true for admin and super admin tokens.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin || c.Role == RoleSuperAdmin
}

// Issuer signs and parses HS256 tokens with one shared secret.
type Issuer struct {
	secret     []byte
	sessionTTL time.Duration
	adminTTL   time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, sessionTTL, adminTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		adminTTL:   adminTTL,
		now:        time.Now,
	}
}

// GuestToken issues a cart session token and returns its expiry.
func (i *Issuer) GuestToken(sessionID string) (string, time.Time, error) {
	exp := i.now().Add(i.sessionTTL)
	tok, err := i.sign(Claims{
		SessionID: sessionID,
		Role:      RoleGuest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(i.now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	return tok, exp, err
}

// AdminToken issues a dashboard token for email with role.
func (i *Issuer) AdminToken(email, role, userID string) (string, error) {
	return i.sign(Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(i.now()),
			ExpiresAt: jwt.NewNumericDate(i.now().Add(i.adminTTL)),
		},
	})
}

func (i *Issuer) sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates the signature and expiry of tokenString.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
