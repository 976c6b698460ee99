package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TG-Note-App/game-be/internal/initdata"
)

const (
	requestIDHeader = "X-Request-ID"
	initDataHeader  = "X-Telegram-Init-Data"
)

type ctxKey int

const identityKey ctxKey = iota

// withRequestID tags every request with an id and a request scoped logger.
func withRequestID(base zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		logger := base.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		zerolog.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+initDataHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IdentityFrom returns the Telegram user attached by the init data middleware.
func IdentityFrom(ctx context.Context) (*initdata.User, bool) {
	u, ok := ctx.Value(identityKey).(*initdata.User)
	return u, ok && u != nil
}

var (
	errMissingInitData = errors.New("init data is required")
	errMissingUser     = errors.New("init data carries no user")
)

// requireInitData rejects requests without a valid X-Telegram-Init-Data
// header (or initData query parameter).
func (s *Server) requireInitData(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.devMode {
			next.ServeHTTP(w, r)
			return
		}
		raw := r.Header.Get(initDataHeader)
		if raw == "" {
			raw = r.URL.Query().Get("initData")
		}
		if raw == "" {
			writeError(w, r, http.StatusUnauthorized, errMissingInitData)
			return
		}

		res, err := s.verify(raw)
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("init data rejected")
			writeError(w, r, verifyErrorStatus(err), err)
			return
		}
		if !res.Valid {
			writeJSON(w, r, http.StatusUnauthorized, envelope{"ok": false, "error": "invalid init data"})
			return
		}
		user, err := res.Identity()
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		if user == nil {
			writeError(w, r, http.StatusUnauthorized, errMissingUser)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, user)))
	})
}
