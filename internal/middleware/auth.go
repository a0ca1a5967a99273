package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/BuzzLyutic/mileapp-task-api/internal/auth"
	"github.com/BuzzLyutic/mileapp-task-api/pkg/respond"
)

var ErrUnauthenticated = errors.New("no token provided")

// TokenVerifier - часть TokenService, нужная гейту.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

type ctxKey struct{}

// Authenticate пропускает запрос дальше только с валидным Bearer-токеном
// и кладет личность вызывающего в контекст.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Authorization")

			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, "No token provided, authorization denied")
				return
			}

			id, err := verifier.Verify(token)
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, reason(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" {
		return "", ErrUnauthenticated
	}
	// токен - ровно следующий сегмент до пробела, "Bearer  abc" его не имеет
	token, _, _ = strings.Cut(token, " ")
	if token == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, auth.ErrTokenMalformed):
		return "Invalid token"
	default:
		return "Token verification failed"
	}
}

func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(auth.Identity)
	return id, ok
}
