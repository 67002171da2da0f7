package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "vs_session"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// Session resolves the history session from the X-Session-ID header or the
// vs_session cookie. When neither carries a usable id a new one is issued.
// Cookie sessions get the cookie re-sent on every request so it expires
// after ttl of inactivity, the same idle window the history stores use.
func Session(ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := r.Header.Get(SessionHeader)
			if !sessionIDPattern.MatchString(sid) {
				sid = ""
				if c, err := r.Cookie(SessionCookie); err == nil && sessionIDPattern.MatchString(c.Value) {
					sid = c.Value
				}
				if sid == "" {
					sid = uuid.NewString()
				}
				http.SetCookie(w, sessionCookie(sid, ttl, secure))
			}
			w.Header().Set(SessionHeader, sid)
			ctx := context.WithValue(r.Context(), sessionIDKey, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionCookie(sid string, ttl time.Duration, secure bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl / time.Second)
	}
	return cookie
}

func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}
