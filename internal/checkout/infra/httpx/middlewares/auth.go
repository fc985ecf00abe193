package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type memberKey struct{}

// Member is the signed-in club member that owns the request.
type Member struct {
	ID    string
	Email string
}

type memberClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// MemberFromContext returns the member set by Authenticate.
func MemberFromContext(ctx context.Context) (Member, bool) {
	m, ok := ctx.Value(memberKey{}).(Member)
	return m, ok
}

func WithMember(ctx context.Context, m Member) context.Context {
	return context.WithValue(ctx, memberKey{}, m)
}

// Authenticate requires an HMAC-signed bearer token whose subject is the
// member id. An empty secret turns authentication off.
func Authenticate(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			member, err := parseBearer(r.Header.Get("Authorization"), key)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithMember(r.Context(), member)))
		})
	}
}

func parseBearer(header string, key []byte) (Member, error) {
	if header == "" {
		return Member{}, errors.New("missing authorization")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return Member{}, errors.New("invalid authorization header")
	}

	var claims memberClaims
	_, err := jwt.ParseWithClaims(parts[1], &claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods(hmacMethods))
	if err != nil {
		return Member{}, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return Member{}, errors.New("token has no subject")
	}
	return Member{ID: claims.Subject, Email: claims.Email}, nil
}
