// Package web serves a run over HTTP with server-rendered pages. Every
// browser session gets its own controller, restored from the store on first
// use and persisted after each action.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"randomweapon/internal/game"
	"randomweapon/internal/logger"
	"randomweapon/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const cookieName = "trw_sid"

type Server struct {
	Engine *game.Engine
	Store  session.Store[game.State]
	Tmpl   *template.Template
	Log    *slog.Logger
	// Assets serves weapon images and other static files for paths no route
	// matches. Nil disables it.
	Assets fs.FS

	sessions *sessionCache
}

// NewServer wires a server with the embedded templates.
func NewServer(engine *game.Engine, store session.Store[game.State], log *slog.Logger) (*Server, error) {
	tmpl, err := ParseTemplates()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		Engine:   engine,
		Store:    store,
		Tmpl:     tmpl,
		Log:      log,
		sessions: newSessionCache(maxSessions, sessionIdle),
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(AccessLog(s.Log))
	r.Use(middleware.Recoverer)
	r.Use(Compression)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/state", s.handleAPIState)

	r.Post("/stage/next", s.action(nextStage))
	r.Post("/stage/prev", s.action(previousStage))
	r.Post("/mode", s.action(setMode))
	r.Post("/options/stage-clear", s.action(toggleStageClear))
	r.Post("/options/weapon-list", s.action(toggleWeaponList))
	r.Post("/options/sort", s.action(setSort))
	r.Post("/random", s.action(rollRandom))
	r.Post("/random/confirm", s.action(confirmRandom))
	r.Post("/weapons/exclude", s.action(excludeWeapon))
	r.Post("/reset", s.action(reset))

	r.Get("/save", s.handleSave)
	r.Post("/load", s.handleLoad)
	r.Get("/checklist.pdf", s.handleChecklistPDF)
	r.Get("/checklist.xlsx", s.handleChecklistXLSX)

	if s.Assets != nil {
		r.NotFound(http.FileServerFS(s.Assets).ServeHTTP)
	}
	return r
}

// controllerFor returns the controller of the request's session, issuing a
// new session cookie when the request has none. The caller must call release
// once it is done with the controller.
func (s *Server) controllerFor(w http.ResponseWriter, r *http.Request) (c *game.Controller, release func(), err error) {
	id := s.sessionID(r)
	if id == "" {
		id = s.Store.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	release = func() { s.sessions.release(id) }

	if hit := s.sessions.acquire(id); hit != nil {
		return hit, release, nil
	}
	st, err := s.restore(r.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	c = s.sessions.add(id, game.NewController(s.Engine, st, s.persister(id), s.notifier(id)))
	return c, release, nil
}

// restore loads a session's saved state. A snapshot that no longer parses
// is logged and replaced by a fresh run.
func (s *Server) restore(ctx context.Context, id string) (game.State, error) {
	st, ok, err := s.Store.Get(ctx, id)
	switch {
	case errors.Is(err, game.ErrInvalidSnapshot):
		s.Log.Warn("discarding unreadable session state", slog.String("session", id), slog.Any("err", err))
		return game.NewState(s.Engine.Catalog), nil
	case err != nil:
		return game.State{}, fmt.Errorf("restore session: %w", err)
	case !ok:
		return game.NewState(s.Engine.Catalog), nil
	}
	return st, nil
}

func (s *Server) persister(id string) game.Persister {
	return game.PersistFunc(func(ctx context.Context, st game.State) error {
		return s.Store.Put(ctx, id, st)
	})
}

func (s *Server) notifier(id string) game.Notifier {
	return game.NotifyFunc(func(v game.View) {
		s.Log.Debug("state changed",
			slog.String("session", id),
			slog.String("stage", v.StageName),
			slog.String("mode", string(v.Mode)),
			slog.Int("available", v.Available),
		)
	})
}

// sessionID returns the cookie's id, or "" when it is missing or was not
// issued by us.
func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	if uuid.Validate(c.Value) != nil {
		return ""
	}
	return c.Value
}
