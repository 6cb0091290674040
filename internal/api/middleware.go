package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

type contextKey string

const (
	profileContextKey contextKey = "profile"
	profileCookieName            = "profile_id"
	profileHeaderName            = "X-Profile-ID"
	requestIDHeaderName          = "X-Request-ID"
)

func profileFromContext(ctx context.Context) *models.Profile {
	if v := ctx.Value(profileContextKey); v != nil {
		if p, ok := v.(*models.Profile); ok {
			return p
		}
	}
	return nil
}

// profileIDFromRequest prefers the X-Profile-ID header over the cookie.
func profileIDFromRequest(r *http.Request) (string, bool) {
	if v := strings.TrimSpace(r.Header.Get(profileHeaderName)); v != "" {
		return v, true
	}
	if cookie, err := r.Cookie(profileCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

// profileMiddleware resolves the active profile and rejects the request with
// 401 when there is none.
func (s *Server) profileMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		raw, ok := profileIDFromRequest(r)
		if !ok {
			log.Debug("no profile selected")
			handleError(w, r, errors.NewUnauthorizedError("no profile selected"))
			return
		}

		profileID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Warn("invalid profile id: %s", raw)
			handleError(w, r, errors.NewUnauthorizedError("invalid profile id"))
			return
		}

		profile, err := s.ProfileService.GetProfile(r.Context(), profileID)
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeNotFound) {
				log.Warn("unknown profile: %d", profileID)
				handleError(w, r, errors.NewUnauthorizedError("unknown profile"))
				return
			}
			handleError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		ctx = logger.NewContext(ctx, logger.FromContext(ctx).WithField("profile_id", profile.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clearProfileCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    profileCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
}

func setProfileCookie(w http.ResponseWriter, id int64) {
	http.SetCookie(w, &http.Cookie{
		Name:     profileCookieName,
		Value:    strconv.FormatInt(id, 10),
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeaderName)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		r = r.WithContext(logger.NewContext(r.Context(), log))
		w.Header().Set(requestIDHeaderName, requestID)
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")
		next.ServeHTTP(wrapped, r)

		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware recovers from panics and logs them.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(r.Context()).Error("panic recovered: %v", rec)
				handleError(w, r, errors.NewInternalError(nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
