/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rpmurphy2/pickleball-round-robin/render"
	"github.com/rpmurphy2/pickleball-round-robin/roster"
	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

// withEntry looks up the session named in the url, locks it and runs fn.
func (s *Server) withEntry(w http.ResponseWriter, r *http.Request,
	fn func(e *entry)) {

	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = s.now()
	fn(e)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int,
	data any) {

	if err := writeJSON(w, status, data); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.sessions)
	s.mu.RUnlock()
	s.respond(w, r, http.StatusOK, envelope{"status": "ok", "sessions": n})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      string         `json:"title"`
		Config     *configRequest `json:"config"`
		Passphrase string         `json:"passphrase"`
		// CopyFrom names an earlier session whose stored roster seeds this one.
		CopyFrom string `json:"copyFrom"`
	}
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}

	cfg := roundrobin.DefaultConfig()
	cfg.Courts = s.opts.Courts
	cfg.Budget = s.opts.Budget
	cfg, err := req.Config.apply(cfg)
	if err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Round Robin"
	}
	hash, err := hashPassphrase(req.Passphrase)
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}

	e, err := s.newEntry(title, cfg)
	if err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}
	token, err := s.issueToken(e.id)
	if err != nil {
		s.remove(e.id)
		s.serverErrorResponse(w, r, err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.passHash = hash
	if req.CopyFrom != "" && s.store != nil {
		e.roster = roster.Restore(r.Context(), s.store, s.storePrefix(req.CopyFrom))
	}
	s.saveRoster(r.Context(), e)
	s.log.Info("created session", slog.String("session", e.id),
		slog.String("mode", string(cfg.Mode)))

	s.respond(w, r, http.StatusCreated, envelope{"token": token, "session": e.view()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, func(e *entry) {
		s.respond(w, r, http.StatusOK, envelope{"session": e.view()})
	})
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, func(e *entry) {
		s.respond(w, r, http.StatusOK, envelope{"standings": e.view().Standings})
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	s.withEntry(w, r, func(e *entry) {
		if err := checkPassphrase(e.passHash, req.Passphrase); err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		token, err := s.issueToken(e.id)
		if err != nil {
			s.serverErrorResponse(w, r, err)
			return
		}
		s.respond(w, r, http.StatusOK, envelope{"token": token})
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.lookup(id); err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}
	s.remove(id)
	s.respond(w, r, http.StatusOK, envelope{"deleted": id})
}

func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	s.withEntry(w, r, func(e *entry) {
		cfg, err := req.apply(e.session.Config())
		if err == nil {
			err = e.session.Configure(cfg)
		}
		if err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.respond(w, r, http.StatusOK, envelope{"config": e.session.Config()})
	})
}

func (s *Server) handleAddTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player1 string `json:"player1"`
		Player2 string `json:"player2"`
	}
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	s.withEntry(w, r, func(e *entry) {
		team, err := e.roster.AddTeam(req.Player1, req.Player2)
		if err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.saveRoster(r.Context(), e)
		s.respond(w, r, http.StatusCreated, envelope{"team": team})
	})
}

func (s *Server) handleRemoveTeam(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil {
		s.badRequestResponse(w, r, fmt.Errorf("bad team id: %w", err))
		return
	}
	s.withEntry(w, r, func(e *entry) {
		if err := e.roster.RemoveTeam(roundrobin.UnitID(id)); err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.saveRoster(r.Context(), e)
		s.respond(w, r, http.StatusOK, envelope{"teams": e.roster.Entrants().Teams})
	})
}

func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	role, err := roundrobin.ParseRole(req.Role)
	if err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}
	s.withEntry(w, r, func(e *entry) {
		p, err := e.roster.AddPlayer(req.Name, role)
		if err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.saveRoster(r.Context(), e)
		s.respond(w, r, http.StatusCreated, envelope{"player": p})
	})
}

func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil {
		s.badRequestResponse(w, r, fmt.Errorf("bad player id: %w", err))
		return
	}
	s.withEntry(w, r, func(e *entry) {
		if err := e.roster.RemovePlayer(roundrobin.PlayerID(id)); err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.saveRoster(r.Context(), e)
		s.respond(w, r, http.StatusOK,
			envelope{"players": e.roster.Entrants().Players})
	})
}

func (s *Server) handleQuickAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	// pasted sign-up pages are reduced to one entry per line
	text, err := roster.SignupLines(req.Text)
	if err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}
	s.withEntry(w, r, func(e *entry) {
		var added any
		var err error
		switch req.Kind {
		case "", "teams":
			added, err = e.roster.QuickAddTeams(text)
		case "players":
			added, err = e.roster.QuickAddPlayers(text)
		default:
			err = fmt.Errorf("%w: kind must be teams or players",
				roster.ErrMalformedQuickAdd)
		}
		if err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.saveRoster(r.Context(), e)
		s.respond(w, r, http.StatusCreated, envelope{"added": added})
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Locks []lockRequest `json:"locks"`
	}
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &req); err != nil {
			s.badRequestResponse(w, r, err)
			return
		}
	}
	locks, err := parseLocks(req.Locks)
	if err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}

	s.withEntry(w, r, func(e *entry) {
		start := time.Now()
		_, err := e.session.Generate(r.Context(), e.roster.Entrants(), locks)
		s.metrics.observeGeneration(e.session.Config().Mode, start, err)
		if err != nil {
			s.log.Info("generation failed", slog.String("session", e.id),
				slog.Any("err", err))
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.broadcastUpdate(e)
		s.respond(w, r, http.StatusOK, envelope{"session": e.view()})
	})
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, func(e *entry) {
		start := time.Now()
		_, err := e.session.Regenerate(r.Context())
		s.metrics.observeGeneration(e.session.Config().Mode, start, err)
		if err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.broadcastUpdate(e)
		s.respond(w, r, http.StatusOK, envelope{"session": e.view()})
	})
}

func (s *Server) handlePinMatch(w http.ResponseWriter, r *http.Request) {
	key, err := roundrobin.ParseMatchupKey(chi.URLParam(r, "key"))
	if err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}
	var req struct {
		Round int `json:"round"`
	}
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	s.withEntry(w, r, func(e *entry) {
		if err := e.session.PinMatch(key, req.Round); err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.broadcastUpdate(e)
		s.respond(w, r, http.StatusOK, envelope{"session": e.view()})
	})
}

func (s *Server) handlePinBye(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		s.badRequestResponse(w, r, fmt.Errorf("bad round: %w", err))
		return
	}
	var req struct {
		Team int `json:"team"`
	}
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	s.withEntry(w, r, func(e *entry) {
		if err := e.session.PinBye(round, roundrobin.UnitID(req.Team)); err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.broadcastUpdate(e)
		s.respond(w, r, http.StatusOK, envelope{"session": e.view()})
	})
}

func (s *Server) handleRecordScore(w http.ResponseWriter, r *http.Request) {
	key, err := roundrobin.ParseMatchupKey(chi.URLParam(r, "key"))
	if err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}
	// Lo and Hi are the points of the lower and higher numbered side.
	var req struct {
		Lo *int `json:"lo"`
		Hi *int `json:"hi"`
	}
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	if req.Lo == nil || req.Hi == nil {
		s.badRequestResponse(w, r, errors.New("both lo and hi scores are required"))
		return
	}
	s.withEntry(w, r, func(e *entry) {
		if err := e.session.RecordScore(key, *req.Lo, *req.Hi); err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.broadcastUpdate(e)
		s.respond(w, r, http.StatusOK, envelope{"standings": e.view().Standings})
	})
}

func (s *Server) handleClearScore(w http.ResponseWriter, r *http.Request) {
	key, err := roundrobin.ParseMatchupKey(chi.URLParam(r, "key"))
	if err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}
	s.withEntry(w, r, func(e *entry) {
		if err := e.session.ClearScore(key); err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		s.broadcastUpdate(e)
		s.respond(w, r, http.StatusOK, envelope{"standings": e.view().Standings})
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var page render.Page
	found := false
	s.withEntry(w, r, func(e *entry) {
		found = true
		sess := e.session
		page = render.Page{
			Title:     e.title,
			SessionID: e.id,
			Summary:   sess.Summary(),
			Schedule:  sess.Snapshot(),
			Standings: sess.Standings(),
			StartOf:   sess.RoundStart,
		}
	})
	if !found {
		return
	}

	templ.Handler(render.SessionPage(page)).ServeHTTP(w, r)
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range s.opts.AllowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.lookup(id); err != nil {
		s.mapServiceErrorToHTTP(w, r, err)
		return
	}
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied
		s.log.Debug("websocket upgrade failed", slog.String("session", id),
			slog.Any("err", err))
		return
	}
	s.hub.join(conn, id)
}
