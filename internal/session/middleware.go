package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CookieName identifica a sessão do navegador.
const CookieName = "sid"

type ctxKey struct{}

// Middleware garante que todo request tem um id de sessão: lê o cookie ou
// cria um novo e devolve via Set-Cookie.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(CookieName); err == nil {
			if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
				id = cookie.Value
			}
		}

		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// IDFrom devolve o id de sessão do contexto ("" fora do middleware).
func IDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
