// Package httpapi exposes the game backend over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/TG-Note-App/game-be/internal/initdata"
	"github.com/TG-Note-App/game-be/internal/player"
	"github.com/TG-Note-App/game-be/internal/snapshot"
)

// Options - dependencies and settings of the HTTP API
type Options struct {
	BotToken string
	Scheme   initdata.Scheme
	// MaxAge rejects init data whose auth_date is older. Zero disables the check.
	MaxAge time.Duration

	Store    player.Store
	Archiver snapshot.Archiver // optional

	StaticDir string
	DevMode   bool
	Logger    zerolog.Logger
}

type Server struct {
	verifier    *initdata.Verifier
	verifierErr error
	maxAge      time.Duration

	store     player.Store
	archiver  snapshot.Archiver
	staticDir string
	devMode   bool
	logger    zerolog.Logger
	now       func() time.Time
}

// NewServer builds the API. A missing bot token or scheme does not fail
// here: verification requests answer 500 until the configuration is fixed.
func NewServer(opts Options) *Server {
	s := &Server{
		maxAge:    opts.MaxAge,
		store:     opts.Store,
		archiver:  opts.Archiver,
		staticDir: opts.StaticDir,
		devMode:   opts.DevMode,
		logger:    opts.Logger,
		now:       time.Now,
	}
	s.verifier, s.verifierErr = initdata.NewVerifier(opts.BotToken, opts.Scheme)
	if s.verifierErr != nil {
		s.logger.Warn().Err(s.verifierErr).Msg("init data verification is not configured")
	}
	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.health).Methods("GET")
	r.HandleFunc("/api/validate_init_data", s.validateInitData).Methods("POST")
	r.Handle("/api/save_game_data", s.requireInitData(http.HandlerFunc(s.saveGameData))).Methods("POST")
	r.HandleFunc("/api/users", s.listUsers).Methods("GET")

	players := r.PathPrefix("/api/players").Subrouter()
	players.Use(s.requireInitData)
	players.HandleFunc("/{id:[0-9]+}", s.getPlayer).Methods("GET")
	players.HandleFunc("/{id:[0-9]+}/snapshot", s.archivePlayer).Methods("POST")

	if s.staticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
	} else {
		r.HandleFunc("/", index).Methods("GET")
	}

	return withRequestID(s.logger, accessLog(cors(r)))
}

// HTTPServer returns a server with the same timeouts the note backend used.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// verify checks raw init data and applies the auth_date freshness window.
// Stale data is reported as an invalid result, like a bad signature.
func (s *Server) verify(raw string) (initdata.Result, error) {
	if s.verifier == nil {
		if raw == "" {
			return initdata.Result{}, initdata.ErrMissingToken
		}
		return initdata.Result{}, s.verifierErr
	}
	res, err := s.verifier.Verify(raw)
	if err != nil || !res.Valid || s.maxAge <= 0 {
		return res, err
	}
	authDate, err := initdata.AuthDate(res.Params)
	if err != nil {
		return initdata.Result{}, err
	}
	if authDate.IsZero() || s.now().Sub(authDate) > s.maxAge {
		return initdata.Result{Params: res.Params}, nil
	}
	return res, nil
}

func verifyErrorStatus(err error) int {
	if errors.Is(err, initdata.ErrConfiguration) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// register creates a player record for a freshly verified user.
func (s *Server) register(ctx context.Context, user *initdata.User) error {
	_, err := s.store.Get(ctx, user.ID)
	if err == nil || !errors.Is(err, player.ErrNotFound) {
		return err
	}
	p := player.New(user.ID)
	switch {
	case user.Username != "":
		p.Username = user.Username
	case user.FirstName != "":
		p.Username = user.FirstName
	}
	return s.store.Upsert(ctx, p)
}
