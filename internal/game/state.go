package game

import "randomweapon/internal/catalog"

// NewState returns a freshly reset run for cat.
func NewState(cat *catalog.Catalog) State {
	st := State{
		CurrentStage: 0,
		Excluded:     map[string]bool{},
		StageClear:   true,
		Sort:         SortAvailabilityAndName,
		Mode:         catalog.ModeVanilla,
		ToolVersion:  ToolVersion,
	}
	if cat != nil {
		st.GameVersion = cat.GameVersion()
	}
	return st
}

// Clamp pulls CurrentStage back into the stages visible in the state's mode.
func (st *State) Clamp(cat *catalog.Catalog) {
	st.CurrentStage = cat.ClampStage(st.CurrentStage, st.Mode)
}

// Clone returns a deep copy so callers can hold a state without sharing the
// exclusion map or selection.
func (st State) Clone() State {
	c := st
	c.Excluded = make(map[string]bool, len(st.Excluded))
	for k, v := range st.Excluded {
		c.Excluded[k] = v
	}
	c.Selected = cloneWeapon(st.Selected)
	return c
}
