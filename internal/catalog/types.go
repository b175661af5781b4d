package catalog

import (
	"fmt"
	"strings"
)

// Provenance tags where a weapon comes from. Data files may carry any tag;
// only vanilla and calamity are known to the mode filter.
type Provenance string

const (
	ProvenanceVanilla  Provenance = "vanilla"
	ProvenanceCalamity Provenance = "calamity"
)

// NormalizeProvenance lower-cases a tag and defaults an empty one to vanilla.
func NormalizeProvenance(s string) Provenance {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ProvenanceVanilla
	}
	return Provenance(s)
}

// Mode selects which provenances are active.
type Mode string

const (
	ModeVanilla  Mode = "vanilla"
	ModeCalamity Mode = "calamity"
	ModeBoth     Mode = "both"
)

// Modes lists the modes in cycle order.
var Modes = []Mode{ModeVanilla, ModeCalamity, ModeBoth}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeVanilla, ModeCalamity, ModeBoth:
		return true
	}
	return false
}

// Next returns the following mode: vanilla -> calamity -> both -> vanilla.
func (m Mode) Next() Mode {
	switch m {
	case ModeVanilla:
		return ModeCalamity
	case ModeCalamity:
		return ModeBoth
	default:
		return ModeVanilla
	}
}

// Allows reports whether a weapon of provenance p is eligible in mode m.
func (m Mode) Allows(p Provenance) bool {
	switch m {
	case ModeVanilla:
		return p == ProvenanceVanilla
	case ModeCalamity:
		return p == ProvenanceCalamity
	default:
		return true
	}
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q (want vanilla, calamity or both)", s)
	}
	return m, nil
}

// Weapon is a single pickable item. Name is its identity key.
type Weapon struct {
	Name string     `json:"name" yaml:"name"`
	Img  string     `json:"img,omitempty" yaml:"img,omitempty"`
	Mod  Provenance `json:"mod,omitempty" yaml:"mod,omitempty"`
}

// Stage is a progression checkpoint contributing weapons.
type Stage struct {
	Name                 string
	Weapons              []Weapon
	ClearPreviousWeapons bool
	CalamityOnly         bool
}

// Catalog is the merged, ordered stage list. It is read-only once built.
type Catalog struct {
	gameVersion string
	author      string
	stages      []Stage
}

// New builds a catalog from already merged stages.
func New(gameVersion, author string, stages []Stage) *Catalog {
	return &Catalog{
		gameVersion: gameVersion,
		author:      author,
		stages:      cloneStages(stages),
	}
}

func (c *Catalog) GameVersion() string { return c.gameVersion }
func (c *Catalog) Author() string      { return c.author }
func (c *Catalog) Len() int            { return len(c.stages) }

// Stages returns the full stage list in catalog order.
func (c *Catalog) Stages() []Stage {
	return append([]Stage(nil), c.stages...)
}

// Stage returns the catalog stage with the given name.
func (c *Catalog) Stage(name string) (Stage, bool) {
	for _, s := range c.stages {
		if s.Name == name {
			return s, true
		}
	}
	return Stage{}, false
}

func cloneStages(src []Stage) []Stage {
	out := make([]Stage, len(src))
	for i, s := range src {
		out[i] = s
		out[i].Weapons = append([]Weapon(nil), s.Weapons...)
	}
	return out
}
