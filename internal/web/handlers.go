package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"randomweapon/internal/catalog"
	"randomweapon/internal/game"
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// actionFunc applies one form submission to a controller.
type actionFunc func(ctx context.Context, c *game.Controller, r *http.Request) (game.View, error)

// action adapts an actionFunc to a handler. htmx requests get the game
// fragment back; plain form posts are redirected to the page.
func (s *Server) action(fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		c, release, err := s.controllerFor(w, r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		defer release()
		v, err := fn(r.Context(), c, r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.respond(w, r, v)
	}
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v game.View) {
	if r.Header.Get("HX-Request") == "true" {
		s.render(w, r, "game.html", v)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBadRequest) || errors.Is(err, game.ErrInvalidSnapshot) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.Log.ErrorContext(r.Context(), "request failed", slog.String("path", r.URL.Path), slog.Any("err", err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	c, release, err := s.controllerFor(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer release()
	s.render(w, r, "page.html", c.View())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func nextStage(ctx context.Context, c *game.Controller, _ *http.Request) (game.View, error) {
	return c.NextStage(ctx)
}

func previousStage(ctx context.Context, c *game.Controller, _ *http.Request) (game.View, error) {
	return c.PreviousStage(ctx)
}

// setMode cycles when no mode is given.
func setMode(ctx context.Context, c *game.Controller, r *http.Request) (game.View, error) {
	raw := r.FormValue("mode")
	if raw == "" {
		return c.CycleMode(ctx)
	}
	m, err := catalog.ParseMode(raw)
	if err != nil {
		return game.View{}, badRequest("%v", err)
	}
	return c.SetMode(ctx, m)
}

func toggleStageClear(ctx context.Context, c *game.Controller, _ *http.Request) (game.View, error) {
	return c.ToggleStageClear(ctx)
}

func toggleWeaponList(ctx context.Context, c *game.Controller, _ *http.Request) (game.View, error) {
	return c.ToggleWeaponList(ctx)
}

func setSort(ctx context.Context, c *game.Controller, r *http.Request) (game.View, error) {
	sm := game.SortMode(r.FormValue("sort"))
	if !sm.Valid() {
		return game.View{}, badRequest("unknown sort mode %q", sm)
	}
	return c.SetSort(ctx, sm)
}

func rollRandom(_ context.Context, c *game.Controller, _ *http.Request) (game.View, error) {
	return c.RollRandom(), nil
}

func confirmRandom(ctx context.Context, c *game.Controller, r *http.Request) (game.View, error) {
	accept, err := formBool(r, "accept")
	if err != nil {
		return game.View{}, err
	}
	exclude, err := formBool(r, "exclude")
	if err != nil {
		return game.View{}, err
	}
	return c.ResolveRandomPrompt(ctx, accept, exclude)
}

// excludeWeapon sets the weapon's exclusion when "excluded" is given and
// toggles it otherwise.
func excludeWeapon(ctx context.Context, c *game.Controller, r *http.Request) (game.View, error) {
	name := r.FormValue("name")
	if name == "" {
		return game.View{}, badRequest("missing weapon name")
	}
	if r.FormValue("excluded") == "" {
		return c.ToggleWeaponExcluded(ctx, name)
	}
	excluded, err := formBool(r, "excluded")
	if err != nil {
		return game.View{}, err
	}
	return c.SetWeaponExcluded(ctx, name, excluded)
}

func reset(ctx context.Context, c *game.Controller, _ *http.Request) (game.View, error) {
	return c.Reset(ctx)
}

// formBool reads an optional boolean field; a missing field is false.
func formBool(r *http.Request, key string) (bool, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badRequest("%s: not a boolean: %q", key, raw)
	}
	return b, nil
}
