package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/cajero/internal/http/respond"
	"github.com/MrJamesThe3rd/cajero/internal/session"
)

const issuer = "cajero-sandbox"

// Claims are embedded in every token the sandbox issues.
type Claims struct {
	Username  string `json:"username"`
	CompanyID string `json:"empresa"`
	Rol       string `json:"rol,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(u session.User) (string, error) {
	now := t.now()

	claims := Claims{
		Username:  u.Username,
		CompanyID: u.Empresa.ID,
		Rol:       u.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return t.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("token is not valid")
	}

	return claims, nil
}

type claimsKey struct{}

// Middleware rejects requests without a valid bearer token.
func (t *Tokens) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			respond.Error(w, http.StatusUnauthorized, "Autenticación requerida")
			return
		}

		claims, err := t.Parse(raw)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "Token inválido o expirado")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

// FromContext returns the claims Middleware stored. It is nil outside
// authenticated routes.
func FromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}

// SameCompany answers 403 unless the caller belongs to companyID.
func SameCompany(w http.ResponseWriter, r *http.Request, companyID string) bool {
	if c := FromContext(r.Context()); c == nil || c.CompanyID != companyID {
		respond.Error(w, http.StatusForbidden, "Sin acceso a la empresa")
		return false
	}

	return true
}
