package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/TG-Note-App/game-be/internal/player"
)

func index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Backend is running!"))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, envelope{"ok": true})
}

type validateRequest struct {
	InitData      string `json:"initData"`
	InitDataSnake string `json:"init_data"`
}

func (s *Server) validateInitData(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var body validateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Info().Err(err).Msg("decoding validate request")
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	raw := body.InitData
	if raw == "" {
		raw = body.InitDataSnake
	}

	res, err := s.verify(raw)
	if err != nil {
		logger.Warn().Err(err).Msg("init data verification failed")
		writeError(w, r, verifyErrorStatus(err), err)
		return
	}
	if !res.Valid {
		logger.Info().Msg("init data signature mismatch")
		writeJSON(w, r, http.StatusUnauthorized, envelope{"ok": true, "valid": false})
		return
	}

	if user, err := res.Identity(); err != nil {
		logger.Warn().Err(err).Msg("decoding verified user")
	} else if user != nil {
		if err := s.register(r.Context(), user); err != nil {
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("registering player")
		}
	}

	writeJSON(w, r, http.StatusOK, envelope{"ok": true, "valid": true, "user": res.User})
}

// playerID accepts the user id as a JSON number or a numeric string.
type playerID int64

func (id *playerID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("user_id must be an integer, got %s", data)
	}
	*id = playerID(v)
	return nil
}

type saveGameRequest struct {
	UserID   playerID `json:"user_id"`
	Username *string  `json:"username"`
	Level    *int     `json:"level"`
	Health   *int     `json:"health"`
	Energy   *int     `json:"energy"`
}

var errForeignPlayer = errors.New("init data belongs to another player")

func (s *Server) saveGameData(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var body saveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Info().Err(err).Msg("decoding save request")
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.UserID == 0 {
		writeJSON(w, r, http.StatusBadRequest, envelope{"ok": false, "message": "Missing user_id"})
		return
	}
	id := int64(body.UserID)
	if user, ok := IdentityFrom(r.Context()); ok && user.ID != id {
		writeError(w, r, http.StatusForbidden, errForeignPlayer)
		return
	}

	p := player.New(id)
	if body.Username != nil && *body.Username != "" {
		p.Username = *body.Username
	}
	if body.Level != nil {
		p.Level = *body.Level
	}
	if body.Health != nil {
		p.Health = *body.Health
	}
	if body.Energy != nil {
		p.Energy = *body.Energy
	}

	if err := s.store.Upsert(r.Context(), p); err != nil {
		logger.Error().Err(err).Int64("user_id", id).Msg("saving game data")
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	logger.Info().Int64("user_id", id).Int("level", p.Level).Msg("player data saved")
	writeJSON(w, r, http.StatusOK, envelope{"ok": true, "message": "Player data saved", "player": p})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	players, err := s.store.List(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("listing players")
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	byID := make(map[string]*player.Player, len(players))
	for _, p := range players {
		byID[strconv.FormatInt(p.ID, 10)] = p
	}
	writeJSON(w, r, http.StatusOK, envelope{"ok": true, "players": byID})
}

func (s *Server) lookupPlayer(w http.ResponseWriter, r *http.Request) (*player.Player, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid player id: %w", err))
		return nil, false
	}
	p, err := s.store.Get(r.Context(), id)
	if errors.Is(err, player.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("user_id", id).Msg("loading player")
		writeError(w, r, http.StatusInternalServerError, err)
		return nil, false
	}
	return p, true
}

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookupPlayer(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, envelope{"ok": true, "player": p})
}

var errSnapshotsDisabled = errors.New("snapshot storage is not configured")

func (s *Server) archivePlayer(w http.ResponseWriter, r *http.Request) {
	if s.archiver == nil {
		writeError(w, r, http.StatusServiceUnavailable, errSnapshotsDisabled)
		return
	}
	p, ok := s.lookupPlayer(w, r)
	if !ok {
		return
	}
	if user, ok := IdentityFrom(r.Context()); ok && user.ID != p.ID {
		writeError(w, r, http.StatusForbidden, errForeignPlayer)
		return
	}

	link, err := s.archiver.Archive(r.Context(), p)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("user_id", p.ID).Msg("archiving player")
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Int64("user_id", p.ID).Msg("player snapshot archived")
	writeJSON(w, r, http.StatusOK, envelope{"ok": true, "url": link})
}
