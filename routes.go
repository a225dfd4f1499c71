package main

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

const (
	qrSize             = 256
	defaultBoardLimit  = 10
	maxBoardLimit      = 100
	anonymousSpectator = "anonymous"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// spectateURL is what the QR code points at
func spectateURL(publicURL string, r *http.Request) string {
	if publicURL != "" {
		return strings.TrimRight(publicURL, "/") + "/spectate"
	}
	scheme := "ws"
	if r.TLS != nil {
		scheme = "wss"
	}
	return scheme + "://" + r.Host + "/spectate"
}

// bearerToken reads the token query parameter or an Authorization header
func bearerToken(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// SetupRoutes configures the spectator and stats HTTP routes. auth and db
// may be nil.
func SetupRoutes(hub *Hub, auth *Auth, db *DB, publicURL string, log zerolog.Logger) *http.ServeMux {
	log = log.With().Str("component", "http").Logger()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /spectate", func(w http.ResponseWriter, r *http.Request) {
		subject := anonymousSpectator
		if auth != nil {
			sub, err := auth.ValidateToken(bearerToken(r))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			subject = sub
		}
		if !hub.CanAccept() {
			http.Error(w, "too many spectators", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("upgrade")
			return
		}
		s := NewSpectator(hub, conn, extractIP(r), subject)
		if !hub.Register(s) {
			conn.Close()
			return
		}
		go s.WritePump()
		go s.ReadPump()
	})

	mux.HandleFunc("POST /spectate/login", func(w http.ResponseWriter, r *http.Request) {
		if !auth.CanLogin() {
			http.NotFound(w, r)
			return
		}
		token, err := auth.Login(r.PostFormValue("password"), extractIP(r))
		switch {
		case errors.Is(err, ErrRateLimited):
			http.Error(w, err.Error(), http.StatusTooManyRequests)
			return
		case err != nil:
			http.Error(w, "invalid password", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	})

	mux.HandleFunc("GET /spectate.png", func(w http.ResponseWriter, r *http.Request) {
		png, err := qrcode.Encode(spectateURL(publicURL, r), qrcode.Medium, qrSize)
		if err != nil {
			log.Error().Err(err).Msg("qr encode")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(png)
	})

	mux.HandleFunc("GET /stats/kills", func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			http.NotFound(w, r)
			return
		}
		limit := defaultBoardLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = min(n, maxBoardLimit)
		}
		rows, err := db.KillLeaderboard(limit)
		if err != nil {
			log.Error().Err(err).Msg("kill leaderboard")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	})

	return mux
}
