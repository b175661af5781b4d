package catalog

// NoStagesLabel is shown in place of a stage name when no stage is visible.
const NoStagesLabel = "No Stages"

// VisibleStages returns the stages shown in mode m, in catalog order.
// Vanilla mode hides calamity-only stages; the other modes show every stage
// and leave weapon filtering to the availability query.
func (c *Catalog) VisibleStages(m Mode) []Stage {
	if m != ModeVanilla {
		return c.Stages()
	}
	out := make([]Stage, 0, len(c.stages))
	for _, s := range c.stages {
		if !s.CalamityOnly {
			out = append(out, s)
		}
	}
	return out
}

// VisibleCount is len(VisibleStages(m)) without the copy.
func (c *Catalog) VisibleCount(m Mode) int {
	if m != ModeVanilla {
		return len(c.stages)
	}
	n := 0
	for _, s := range c.stages {
		if !s.CalamityOnly {
			n++
		}
	}
	return n
}

// ClampStage clamps a visible-stage index into [0, VisibleCount(m)-1], or 0
// when nothing is visible.
func (c *Catalog) ClampStage(index int, m Mode) int {
	return clampIndex(index, c.VisibleCount(m))
}

// StageName returns the name of the visible stage at the clamped index.
func (c *Catalog) StageName(index int, m Mode) string {
	vis := c.VisibleStages(m)
	if len(vis) == 0 {
		return NoStagesLabel
	}
	return vis[clampIndex(index, len(vis))].Name
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
