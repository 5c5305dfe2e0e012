package adapthttp

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"todolist/internal/app"
	"todolist/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

func userFromContext(r *http.Request) *domain.User {
	u, _ := r.Context().Value(userContextKey).(*domain.User)
	return u
}

// requireSession resolves the JWT cookie and passes the user to next in the
// request context. Requests without a valid session are redirected to
// fallback.
func (s *Server) requireSession(fallback string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw string
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			raw = cookie.Value
		}

		user, err := s.gate.Resolve(r.Context(), raw)
		if err != nil {
			if !errors.Is(err, app.ErrNoSession) {
				log.Printf("session lookup: %v", err)
			}
			http.Redirect(w, r, fallback, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
