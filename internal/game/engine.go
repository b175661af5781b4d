package game

import (
	"cmp"
	"slices"

	"randomweapon/internal/catalog"
)

// Engine answers read-only questions about a catalog for a given state. It
// never mutates the state it is handed.
type Engine struct {
	Catalog *catalog.Catalog
	Rand    Rand
}

func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{Catalog: cat, Rand: DefaultRand}
}

// Available returns the weapons eligible at the given visible-stage index,
// in stage-then-listing order. Weapons are accumulated from the first
// visible stage up to the clamped index; with stageClear set, a stage that
// clears previous weapons drops everything accumulated before it. The result
// is then filtered by each weapon's own provenance and by the exclusion set.
func (e *Engine) Available(stage int, excluded map[string]bool, mode catalog.Mode, stageClear bool) []catalog.Weapon {
	vis := e.Catalog.VisibleStages(mode)
	if len(vis) == 0 {
		return nil
	}
	stage = e.Catalog.ClampStage(stage, mode)

	var acc []catalog.Weapon
	for _, s := range vis[:stage+1] {
		if stageClear && s.ClearPreviousWeapons {
			acc = acc[:0]
		}
		acc = append(acc, s.Weapons...)
	}

	out := make([]catalog.Weapon, 0, len(acc))
	for _, w := range acc {
		if !mode.Allows(w.Mod) || excluded[w.Name] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// AvailableFor is Available evaluated against a state.
func (e *Engine) AvailableFor(st State) []catalog.Weapon {
	return e.Available(st.CurrentStage, st.Excluded, st.Mode, st.StageClear)
}

// Pick draws one weapon uniformly from the state's available weapons. It
// reports false when nothing is available.
func (e *Engine) Pick(st State) (catalog.Weapon, bool) {
	return pick(e.rand(), e.AvailableFor(st))
}

// WeaponList builds the list view: every weapon the stage offers regardless
// of exclusion, flagged and ordered by the state's sort mode.
func (e *Engine) WeaponList(st State) []ListEntry {
	ws := e.Available(st.CurrentStage, nil, st.Mode, st.StageClear)
	SortWeapons(ws, st.Sort, st.Excluded)

	out := make([]ListEntry, len(ws))
	for i, w := range ws {
		out[i] = ListEntry{
			Weapon:   w,
			Excluded: st.Excluded[w.Name],
			Selected: st.Selected != nil && st.Selected.Name == w.Name,
		}
	}
	return out
}

// View derives the render model for a state and an optional pending prompt.
func (e *Engine) View(st State, pending *catalog.Weapon, prompted bool) View {
	v := View{
		StageName:      e.Catalog.StageName(st.CurrentStage, st.Mode),
		StageNumber:    st.CurrentStage + 1,
		VisibleStages:  e.Catalog.VisibleCount(st.Mode),
		Available:      len(e.AvailableFor(st)),
		Selected:       cloneWeapon(st.Selected),
		Pending:        cloneWeapon(pending),
		Prompted:       prompted,
		StageClear:     st.StageClear,
		WeaponListOpen: st.WeaponListOpen,
		Sort:           st.Sort,
		Mode:           st.Mode,
		GameVersion:    st.GameVersion,
		ToolVersion:    st.ToolVersion,
		Author:         e.Catalog.Author(),
	}
	if st.WeaponListOpen {
		v.Weapons = e.WeaponList(st)
	}
	return v
}

// SortWeapons sorts ws in place. Available weapons come before excluded ones
// for the availability modes; names compare byte-wise. The sort is stable, so
// ties keep stage order.
func SortWeapons(ws []catalog.Weapon, mode SortMode, excluded map[string]bool) {
	rank := func(w catalog.Weapon) int {
		if excluded[w.Name] {
			return 1
		}
		return 0
	}
	slices.SortStableFunc(ws, func(a, b catalog.Weapon) int {
		switch mode {
		case SortName:
			return cmp.Compare(a.Name, b.Name)
		case SortAvailability:
			return cmp.Compare(rank(a), rank(b))
		default:
			return cmp.Or(cmp.Compare(rank(a), rank(b)), cmp.Compare(a.Name, b.Name))
		}
	})
}

func (e *Engine) rand() Rand {
	if e.Rand == nil {
		return DefaultRand
	}
	return e.Rand
}

func cloneWeapon(w *catalog.Weapon) *catalog.Weapon {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}
