package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/logging"
	"github.com/camden-git/congoaddressmapper/permissions"
)

// SessionCookieName holds the session token for browser clients.
const SessionCookieName = "cam_session"

// Identity resolves the caller of a request.
type Identity struct {
	Tokens *auth.TokenIssuer
	Demo   *auth.DemoIdentity
	// DemoMode treats requests without a valid token as the demo administrator.
	DemoMode bool
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// CallerMiddleware attaches the caller, if any, to the request context.
// It never rejects a request; RequirePermission does that.
func (id *Identity) CallerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if token := bearerToken(r); token != "" && id.Tokens != nil {
			caller, err := id.Tokens.Parse(token)
			if err == nil {
				ctx = auth.WithCaller(ctx, caller)
			} else {
				logging.Debug(ctx, "ignoring invalid session token", logging.Err(err))
			}
		}
		if _, ok := auth.CallerFrom(ctx); !ok && id.DemoMode && id.Demo != nil {
			ctx = auth.WithCaller(ctx, id.Demo.Caller())
		}
		if c, ok := auth.CallerFrom(ctx); ok {
			ctx = logging.WithAttrs(ctx, slog.String("caller", c.ID))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission rejects requests whose caller's role does not grant key.
func RequirePermission(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := auth.CallerFrom(r.Context())
			if !ok {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			if !permissions.RoleAllows(c.Role, key) {
				WriteAPIError(w, http.StatusForbidden, "forbidden", "requires permission '"+key+"'")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs one line per request through the slog default logger.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithAttrs(r.Context(),
			slog.String("component", "http"),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		logging.Info(ctx, "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)))
	})
}

func callerOf(r *http.Request) auth.Caller {
	c, _ := auth.CallerFrom(r.Context())
	return c
}
