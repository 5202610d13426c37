package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/parentalrights/complaint-portal-api/models"
)

// IdentityVerifier validates the identity provider's session tokens. The
// portal never sees credentials; the provider signs a JWT and we verify it.
type IdentityVerifier struct {
	Secret string
}

var authenticator auth.Authenticator
var cache store.Cache

type identityCtxKey struct{}

// sessionClaims is the shape of the identity provider's session token
type sessionClaims struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Middleware adds bearer-token authentication around accessing the routes
// and exposes the verified identity to handlers via the request context
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("user %s authenticated", user.UserName())
		ctx := WithIdentity(r.Context(), identityFromInfo(user))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetupGoGuardian sets up the go-guardian middleware with a cached bearer
// strategy backed by session-token verification
func (v IdentityVerifier) SetupGoGuardian() {
	authenticator = auth.New()
	cache = store.NewFIFO(context.Background(), 12*time.Hour)
	tokenStrategy := bearer.New(v.verifySessionToken, cache)
	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// verifySessionToken checks the provider's JWT signature and expiry and maps
// its claims onto an auth user
func (v IdentityVerifier) verifySessionToken(_ context.Context, _ *http.Request, token string) (auth.Info, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(v.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify session token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	ext := map[string][]string{
		"firstName": {claims.FirstName},
		"lastName":  {claims.LastName},
	}
	return auth.NewDefaultUser(claims.Email, claims.Subject, nil, ext), nil
}

func identityFromInfo(user auth.Info) models.Identity {
	ident := models.Identity{
		UserID: user.ID(),
		Email:  user.UserName(),
	}
	if ext := user.Extensions(); ext != nil {
		if v := ext["firstName"]; len(v) > 0 {
			ident.FirstName = v[0]
		}
		if v := ext["lastName"]; len(v) > 0 {
			ident.LastName = v[0]
		}
	}
	return ident
}

// WithIdentity stores the verified identity on the context
func WithIdentity(ctx context.Context, ident models.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, ident)
}

// IdentityFromContext returns the identity the middleware verified for this
// request, if any
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	ident, found := ctx.Value(identityCtxKey{}).(models.Identity)
	return ident, found
}
