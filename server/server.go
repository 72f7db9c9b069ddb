/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package server exposes tournament sessions over http. Anyone with a
// session id can watch it; changes need the edit token handed out when the
// session was created.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/rpmurphy2/pickleball-round-robin/internal"
	"github.com/rpmurphy2/pickleball-round-robin/roster"
	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
	"github.com/rpmurphy2/pickleball-round-robin/store"
)

type Options struct {
	JWTSecret      []byte
	TokenTTL       time.Duration
	SessionIdle    time.Duration
	SweepSchedule  string
	AllowedOrigins []string
	Budget         roundrobin.Budget
	Courts         int
	// Prefix is prepended to every store key, ahead of the session id.
	Prefix string
}

// entry is one live tournament. mu serializes every read and write of the
// roster and session.
type entry struct {
	mu       sync.Mutex
	id       string
	title    string
	passHash []byte
	roster   *roster.Roster
	session  *roundrobin.Session
	lastUsed time.Time
}

type Server struct {
	opts    Options
	store   store.Store
	log     *slog.Logger
	hub     *Hub
	metrics *metrics
	cron    *cron.Cron
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*entry
}

func New(opts Options, st store.Store, log *slog.Logger) (*Server, error) {
	if len(opts.JWTSecret) == 0 {
		return nil, fmt.Errorf("server.new: a jwt secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.SessionIdle <= 0 {
		opts.SessionIdle = 12 * time.Hour
	}
	if opts.SweepSchedule == "" {
		opts.SweepSchedule = "@every 5m"
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Budget == (roundrobin.Budget{}) {
		opts.Budget = roundrobin.DefaultBudget
	}
	if opts.Courts < 1 {
		opts.Courts = roundrobin.DefaultCourts
	}

	s := &Server{
		opts:     opts,
		store:    st,
		log:      log,
		hub:      NewHub(log),
		metrics:  newMetrics(),
		cron:     cron.New(),
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	if _, err := s.cron.AddFunc(opts.SweepSchedule, s.sweepIdle); err != nil {
		return nil, fmt.Errorf("server.new: bad sweep schedule %q: %w",
			opts.SweepSchedule, err)
	}

	return s, nil
}

// Start runs the websocket hub and the idle sweeper in the background.
func (s *Server) Start() {
	go s.hub.Run()
	s.cron.Start()
}

// Stop halts the sweeper and disconnects every viewer.
func (s *Server) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.hub.Stop()
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Get("/sessions/{id}", s.handlePage)
	r.Get("/sessions/{id}/ws", s.handleWebsocket)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Get("/standings", s.handleStandings)
			r.Post("/token", s.handleToken)

			r.Group(func(r chi.Router) {
				r.Use(s.requireEditToken)
				r.Delete("/", s.handleDeleteSession)
				r.Put("/config", s.handleConfigure)
				r.Post("/teams", s.handleAddTeam)
				r.Delete("/teams/{teamID}", s.handleRemoveTeam)
				r.Post("/players", s.handleAddPlayer)
				r.Delete("/players/{playerID}", s.handleRemovePlayer)
				r.Post("/quickadd", s.handleQuickAdd)
				r.Post("/schedule", s.handleGenerate)
				r.Post("/regenerate", s.handleRegenerate)
				r.Put("/pins/matches/{key}", s.handlePinMatch)
				r.Put("/pins/byes/{round}", s.handlePinBye)
				r.Put("/scores/{key}", s.handleRecordScore)
				r.Delete("/scores/{key}", s.handleClearScore)
			})
		})
	})

	return r
}

func (s *Server) newEntry(title string, cfg roundrobin.Config) (*entry, error) {
	sess, err := roundrobin.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	e := &entry{
		id:       uuid.New().String(),
		title:    title,
		roster:   roster.New(),
		session:  sess,
		lastUsed: s.now(),
	}

	s.mu.Lock()
	s.sessions[e.id] = e
	n := len(s.sessions)
	s.mu.Unlock()
	s.metrics.sessions.Set(float64(n))

	return e, nil
}

// lookup returns the session and marks it used. The caller must lock
// entry.mu before touching its state.
func (s *Server) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %v", errSessionNotFound, id)
	}
	return e, nil
}

func (s *Server) remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	s.metrics.sessions.Set(float64(n))
	s.hub.CloseRoom(id)
}

// sweepIdle drops sessions nobody has touched for SessionIdle. Their
// rosters stay in the store. A session whose lock is held is in use and is
// skipped.
func (s *Server) sweepIdle() {
	cutoff := s.now().Add(-s.opts.SessionIdle)

	s.mu.RLock()
	entries := make(map[string]*entry, len(s.sessions))
	for id, e := range s.sessions {
		entries[id] = e
	}
	s.mu.RUnlock()

	var idle []string
	for id, e := range entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			idle = append(idle, id)
		}
		e.mu.Unlock()
	}

	for _, id := range idle {
		s.remove(id)
		s.metrics.expired.Inc()
		s.log.Info("expired idle session", slog.String("session", id))
	}
}

func (s *Server) storePrefix(id string) string {
	return s.opts.Prefix + id + ":"
}

// saveRoster persists the entry's roster. Callers hold e.mu.
func (s *Server) saveRoster(ctx context.Context, e *entry) {
	if s.store == nil {
		return
	}
	if err := e.roster.Save(ctx, s.store, s.storePrefix(e.id)); err != nil {
		s.log.Warn("failed to save roster", slog.String("session", e.id),
			slog.Any("err", err))
	}
}

func (s *Server) broadcastUpdate(e *entry) {
	s.hub.BroadcastToRoom(e.id, Message{Type: internal.ScheduleUpdated,
		Payload: e.session.Summary()})
}
