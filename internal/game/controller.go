package game

//go:generate mockgen -destination=mock/mock_controller.go -package=gamemock -source=controller.go

import (
	"context"
	"fmt"
	"sync"

	"randomweapon/internal/catalog"
)

// Persister stores a full state snapshot after every mutating action.
type Persister interface {
	Persist(ctx context.Context, st State) error
}

// Notifier receives the derived view after a successful action. It is
// called with the controller lock held and must not call back into the
// controller.
type Notifier interface {
	Notify(v View)
}

// PersistFunc adapts a function to Persister.
type PersistFunc func(ctx context.Context, st State) error

func (f PersistFunc) Persist(ctx context.Context, st State) error { return f(ctx, st) }

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(v View)

func (f NotifyFunc) Notify(v View) { f(v) }

// Controller owns one run's state and serializes every read and write of it.
// Each mutating action clamps the stage, persists the snapshot, then derives
// the view and notifies, in that order. When persisting fails the mutation
// stays in memory, the error is returned and nobody is notified.
type Controller struct {
	mu       sync.Mutex
	engine   *Engine
	state    State
	pending  *catalog.Weapon
	prompted bool
	persist  Persister
	notify   Notifier
}

// NewController wraps st. Either collaborator may be nil.
func NewController(engine *Engine, st State, p Persister, n Notifier) *Controller {
	if st.Excluded == nil {
		st.Excluded = map[string]bool{}
	}
	st.Clamp(engine.Catalog)
	return &Controller{engine: engine, state: st, persist: p, notify: n}
}

func (c *Controller) Engine() *Engine { return c.engine }

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// View derives the current view without changing anything.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Snapshot serializes the current state.
func (c *Controller) Snapshot() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Serialize(c.state)
}

// NextStage advances one visible stage. At the last stage it does nothing,
// not even persist.
func (c *Controller) NextStage(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.CurrentStage >= c.engine.Catalog.VisibleCount(c.state.Mode)-1 {
		return c.viewLocked(), nil
	}
	c.state.CurrentStage++
	return c.commit(ctx)
}

// PreviousStage steps back one visible stage; a no-op at the first.
func (c *Controller) PreviousStage(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.CurrentStage <= 0 {
		return c.viewLocked(), nil
	}
	c.state.CurrentStage--
	return c.commit(ctx)
}

// CycleMode moves vanilla -> calamity -> both -> vanilla.
func (c *Controller) CycleMode(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mode = c.state.Mode.Next()
	return c.commit(ctx)
}

func (c *Controller) SetMode(ctx context.Context, m catalog.Mode) (View, error) {
	if !m.Valid() {
		return View{}, fmt.Errorf("set mode: unknown mode %q", m)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mode = m
	return c.commit(ctx)
}

func (c *Controller) ToggleStageClear(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.StageClear = !c.state.StageClear
	return c.commit(ctx)
}

func (c *Controller) ToggleWeaponList(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.WeaponListOpen = !c.state.WeaponListOpen
	return c.commit(ctx)
}

func (c *Controller) SetSort(ctx context.Context, s SortMode) (View, error) {
	if !s.Valid() {
		return View{}, fmt.Errorf("set sort: unknown sort mode %q", s)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Sort = s
	return c.commit(ctx)
}

// RollRandom draws a candidate and holds it as the pending prompt. The
// state itself is untouched, so nothing is persisted. The returned view has
// Prompted set; Pending is nil when nothing was available.
func (c *Controller) RollRandom() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
	if w, ok := c.engine.Pick(c.state); ok {
		c.pending = &w
	}
	c.prompted = true
	return c.viewLocked()
}

// ResolveRandomPrompt closes the prompt. Accepting selects the pending
// weapon and rejecting clears the selection. With addToExclusion the pending
// weapon, if any, is excluded either way.
func (c *Controller) ResolveRandomPrompt(ctx context.Context, accept, addToExclusion bool) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := c.pending
	c.pending, c.prompted = nil, false

	c.state.Selected = nil
	if accept {
		c.state.Selected = pending
	}
	if addToExclusion && pending != nil {
		c.state.Excluded[pending.Name] = true
	}
	return c.commit(ctx)
}

func (c *Controller) SetWeaponExcluded(ctx context.Context, name string, excluded bool) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setExcluded(name, excluded)
	return c.commit(ctx)
}

// ToggleWeaponExcluded flips one weapon from the list view.
func (c *Controller) ToggleWeaponExcluded(ctx context.Context, name string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setExcluded(name, !c.state.Excluded[name])
	return c.commit(ctx)
}

// Reset replaces the run with a fresh one.
func (c *Controller) Reset(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = NewState(c.engine.Catalog)
	c.pending, c.prompted = nil, false
	return c.commit(ctx)
}

// Load replaces the run with a deserialized snapshot. Data that does not
// parse leaves the current state alone.
func (c *Controller) Load(ctx context.Context, data []byte) (View, error) {
	st, err := Deserialize(data, c.engine.Catalog)
	if err != nil {
		return View{}, fmt.Errorf("load snapshot: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = st
	c.pending, c.prompted = nil, false
	return c.commit(ctx)
}

func (c *Controller) setExcluded(name string, excluded bool) {
	if excluded {
		c.state.Excluded[name] = true
		return
	}
	delete(c.state.Excluded, name)
}

func (c *Controller) commit(ctx context.Context) (View, error) {
	c.state.Clamp(c.engine.Catalog)
	if c.persist != nil {
		if err := c.persist.Persist(ctx, c.state.Clone()); err != nil {
			return c.viewLocked(), fmt.Errorf("persist state: %w", err)
		}
	}
	v := c.viewLocked()
	if c.notify != nil {
		c.notify.Notify(v)
	}
	return v, nil
}

func (c *Controller) viewLocked() View {
	return c.engine.View(c.state, c.pending, c.prompted)
}
