package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
)

// SessionCookieName holds the anonymous user id. There is no authentication; the cookie only
// keeps one browser's preferences apart from another's.
const SessionCookieName = "dcrisk_session"

const sessionMaxAge = 365 * 24 * 60 * 60

type ctxUserIDKey struct{}

// UserIDFrom returns the session user bound by sessionMiddleware
func UserIDFrom(ctx context.Context) types.UserID {
	if id, ok := ctx.Value(ctxUserIDKey{}).(types.UserID); ok {
		return id
	}
	return ""
}

// sessionMiddleware binds the session user id to the request, issuing a new id when the
// cookie is missing or not a UUID
func sessionMiddleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID types.UserID
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					userID = types.UserID(cookie.Value)
				}
			}

			if userID == "" {
				userID = types.UserID(uuid.NewString())
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    userID.String(),
					Path:     "/",
					MaxAge:   sessionMaxAge,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
				logging.From(r.Context()).Debug("issued session", "user_id", userID)
			}

			ctx := context.WithValue(r.Context(), ctxUserIDKey{}, userID)
			ctx = logging.With(ctx, logging.From(ctx).With("user_id", userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
