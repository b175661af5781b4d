package game

import (
	"fmt"

	"randomweapon/internal/catalog"
)

// ToolVersion is stamped into every fresh state.
const ToolVersion = "0.0.1"

// SortMode orders the full weapon list view.
type SortMode string

const (
	SortName                SortMode = "name"
	SortAvailability        SortMode = "availability"
	SortAvailabilityAndName SortMode = "availabilityAndName"
)

// SortModes lists the sort modes in display order.
var SortModes = []SortMode{SortName, SortAvailability, SortAvailabilityAndName}

func (s SortMode) Valid() bool {
	switch s {
	case SortName, SortAvailability, SortAvailabilityAndName:
		return true
	}
	return false
}

// Label is the human-readable name shown in the sort picker.
func (s SortMode) Label() string {
	switch s {
	case SortName:
		return "Name"
	case SortAvailability:
		return "Availability"
	case SortAvailabilityAndName:
		return "Availability and Name"
	}
	return string(s)
}

// State is the mutable run state. CurrentStage indexes the stages visible in
// Mode, not the full catalog.
type State struct {
	CurrentStage   int
	Excluded       map[string]bool
	Selected       *catalog.Weapon
	StageClear     bool
	Sort           SortMode
	WeaponListOpen bool
	Mode           catalog.Mode
	GameVersion    string
	ToolVersion    string
}

// ListEntry is one row of the weapon list view.
type ListEntry struct {
	Weapon   catalog.Weapon
	Excluded bool
	Selected bool
}

// View is everything a renderer needs after an action.
type View struct {
	StageName      string
	StageNumber    int // 1-based
	VisibleStages  int
	Available      int
	Selected       *catalog.Weapon
	Pending        *catalog.Weapon
	Prompted       bool
	StageClear     bool
	WeaponListOpen bool
	Sort           SortMode
	Mode           catalog.Mode
	Weapons        []ListEntry // nil unless the list is open
	GameVersion    string
	ToolVersion    string
	Author         string
}

// StageLabel renders the stage header, e.g. "Skeletron (3/12)".
func (v View) StageLabel() string {
	return fmt.Sprintf("%s (%d/%d)", v.StageName, v.StageNumber, v.VisibleStages)
}
