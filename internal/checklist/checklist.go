// Package checklist renders a run as a printable weapon checklist: one
// section per visible stage, each weapon with a box that is ticked once the
// weapon has been excluded.
package checklist

import (
	"randomweapon/internal/catalog"
	"randomweapon/internal/game"
)

// Entry is a weapon line in a section.
type Entry struct {
	Name     string
	Mod      catalog.Provenance
	Excluded bool
	Selected bool
}

// Section is one visible stage.
type Section struct {
	Stage   string
	Current bool
	Clears  bool
	Entries []Entry
}

// Sheet is everything a renderer needs.
type Sheet struct {
	Title       string
	Mode        catalog.Mode
	GameVersion string
	Done        int
	Total       int
	Sections    []Section
}

// Build lays out the stages visible in the state's mode. Weapons are kept in
// catalog order and filtered by the mode; a weapon listed in several stages
// appears in each.
func Build(cat *catalog.Catalog, st game.State) Sheet {
	sh := Sheet{
		Title:       "Weapon Checklist",
		Mode:        st.Mode,
		GameVersion: st.GameVersion,
	}
	cur := cat.ClampStage(st.CurrentStage, st.Mode)
	for i, s := range cat.VisibleStages(st.Mode) {
		sec := Section{
			Stage:   s.Name,
			Current: i == cur,
			Clears:  s.ClearPreviousWeapons && st.StageClear,
		}
		for _, w := range s.Weapons {
			if !st.Mode.Allows(w.Mod) {
				continue
			}
			e := Entry{
				Name:     w.Name,
				Mod:      w.Mod,
				Excluded: st.Excluded[w.Name],
				Selected: st.Selected != nil && st.Selected.Name == w.Name,
			}
			if e.Excluded {
				sh.Done++
			}
			sh.Total++
			sec.Entries = append(sec.Entries, e)
		}
		sh.Sections = append(sh.Sections, sec)
	}
	return sh
}
