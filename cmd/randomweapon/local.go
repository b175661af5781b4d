package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"randomweapon/internal/catalog"
	"randomweapon/internal/game"
	"randomweapon/internal/session"
)

// saveKey names the CLI's single run inside StateDir.
var saveKey = strings.TrimSuffix(game.SaveFileName, session.FileExt)

func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()
	l := &catalog.Loader{
		Source:  catalog.NewSource(a.cfg.Data),
		Base:    a.cfg.BaseFile,
		Overlay: a.cfg.OverlayFile,
		Log:     a.log,
	}
	return l.Load(ctx)
}

// openLocal restores the run saved in StateDir. With fresh set an unreadable
// save is replaced by a new run instead of failing.
func (a *app) openLocal(ctx context.Context, fresh bool) (*game.Controller, error) {
	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	store, err := session.NewFileStore[game.State](a.cfg.StateDir, game.Codec{Catalog: cat})
	if err != nil {
		return nil, err
	}

	st, ok, err := store.Get(ctx, saveKey)
	switch {
	case err != nil && fresh && errors.Is(err, game.ErrInvalidSnapshot):
		a.log.Warn("discarding unreadable save", "path", store.Path(saveKey), "err", err)
		st = game.NewState(cat)
	case err != nil:
		return nil, fmt.Errorf("read %s: %w (run reset to start over)", store.Path(saveKey), err)
	case !ok:
		st = game.NewState(cat)
	}

	persist := game.PersistFunc(func(ctx context.Context, st game.State) error {
		return store.Put(ctx, saveKey, st)
	})
	notify := game.NotifyFunc(func(v game.View) {
		a.log.Debug("saved", "stage", v.StageName, "mode", string(v.Mode))
	})
	return game.NewController(game.NewEngine(cat), st, persist, notify), nil
}
