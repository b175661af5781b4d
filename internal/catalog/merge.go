package catalog

import "math"

// Merge combines a base document with an optional overlay. Overlay stages are
// applied in their listed order, so a later overlay stage sees the insertions
// made by earlier ones. A nil overlay yields the base catalog unchanged.
func Merge(base *BaseDocument, overlay *OverlayDocument) *Catalog {
	c := &Catalog{}
	if base == nil {
		return c
	}
	c.gameVersion = base.GameVersion
	c.author = base.Author
	c.stages = make([]Stage, 0, len(base.Stages))
	for _, sd := range base.Stages {
		c.stages = append(c.stages, Stage{
			Name:                 sd.Name,
			Weapons:              append([]Weapon(nil), sd.Weapons...),
			ClearPreviousWeapons: sd.ClearPreviousWeapons,
			CalamityOnly:         sd.CalamityOnly,
		})
	}
	if overlay == nil {
		return c
	}
	for _, sd := range overlay.Stages {
		c.applyOverlayStage(sd)
	}
	return c
}

func (c *Catalog) applyOverlayStage(sd StageDocument) {
	weapons := make([]Weapon, len(sd.Weapons))
	for i, w := range sd.Weapons {
		w.Mod = ProvenanceCalamity
		weapons[i] = w
	}

	if i := c.indexOf(sd.Name); i >= 0 {
		c.stages[i].Weapons = append(c.stages[i].Weapons, weapons...)
		if sd.ClearPreviousWeapons {
			c.stages[i].ClearPreviousWeapons = true
		}
		return
	}

	at := c.insertionIndex(sd)
	st := Stage{
		Name:                 sd.Name,
		Weapons:              weapons,
		ClearPreviousWeapons: sd.ClearPreviousWeapons,
		CalamityOnly:         sd.CalamityOnly,
	}
	c.stages = append(c.stages, Stage{})
	copy(c.stages[at+1:], c.stages[at:])
	c.stages[at] = st
}

// insertionIndex resolves where a new overlay stage goes. The first placement
// field present decides: position, then insertAfter, then insertBefore. A
// name that does not resolve appends the stage.
func (c *Catalog) insertionIndex(sd StageDocument) int {
	n := len(c.stages)
	switch {
	case sd.Position != nil:
		pos := math.Floor(*sd.Position)
		switch {
		case pos < 0:
			return 0
		case pos > float64(n):
			return n
		}
		return int(pos)
	case sd.InsertAfter != nil:
		if i := c.indexOf(*sd.InsertAfter); i >= 0 {
			return i + 1
		}
	case sd.InsertBefore != nil:
		if i := c.indexOf(*sd.InsertBefore); i >= 0 {
			return i
		}
	}
	return n
}

func (c *Catalog) indexOf(name string) int {
	for i := range c.stages {
		if c.stages[i].Name == name {
			return i
		}
	}
	return -1
}
