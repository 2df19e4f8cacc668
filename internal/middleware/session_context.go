package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"adopthub/internal/ports/auth"

	"github.com/gorilla/sessions"
)

type ctxKey string

const callerKey ctxKey = "caller"

// SessionName es el nombre de la cookie de sesión.
const SessionName = "adopthub.sid"

// SessionContext:
// - Si store != nil => lee la cookie de sesión y setea el Caller si hay user_id.
// - Si store == nil => modo dev: X-Debug-User-ID (+ X-Debug-Role opcional) setea el Caller.
// - Si no hay sesión, el request sigue igual; los handlers/services deciden si exigen auth.
func SessionContext(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Modo dev: permitir inyectar caller sin sesión real
			if store == nil {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					id, err := strconv.ParseInt(uid, 10, 64)
					if err == nil {
						caller := auth.Caller{
							ID:   id,
							Role: auth.ParseRole(r.Header.Get("X-Debug-Role")),
						}
						next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
						return
					}
				}

				next.ServeHTTP(w, r)
				return
			}

			session, err := store.Get(r, SessionName)
			if err != nil {
				// Cookie corrupta o key rotada: seguimos sin caller.
				next.ServeHTTP(w, r)
				return
			}

			id, ok := session.Values["user_id"].(int64)
			if !ok || id == 0 {
				next.ServeHTTP(w, r)
				return
			}

			caller := auth.Caller{ID: id}
			if v, ok := session.Values["name"].(string); ok {
				caller.Name = v
			}
			if v, ok := session.Values["email"].(string); ok {
				caller.Email = v
			}
			if v, ok := session.Values["role"].(string); ok {
				caller.Role = auth.ParseRole(v)
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func WithCaller(ctx context.Context, c auth.Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

func GetCaller(ctx context.Context) (auth.Caller, bool) {
	v := ctx.Value(callerKey)
	if v == nil {
		return auth.Caller{}, false
	}
	c, ok := v.(auth.Caller)
	return c, ok
}
