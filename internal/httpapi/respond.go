package httpapi

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("encoding response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, r, status, envelope{"ok": false, "error": err.Error()})
}
