package catalog

import (
	"testing"
)

func stageNames(c *Catalog) []string {
	out := make([]string, 0, c.Len())
	for _, s := range c.Stages() {
		out = append(out, s.Name)
	}
	return out
}

func equalNames(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected stages %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected stages %v, got %v", want, got)
		}
	}
}

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }
func w(name string) Weapon      { return Weapon{Name: name, Mod: ProvenanceVanilla} }

func baseAB() *BaseDocument {
	return &BaseDocument{
		GameVersion: "1.4.4",
		Author:      "tester",
		Stages: []StageDocument{
			{Name: "A", Weapons: []Weapon{w("a1")}},
			{Name: "B", Weapons: []Weapon{w("b1")}},
		},
	}
}

func TestMerge_NoOverlay(t *testing.T) {
	c := Merge(baseAB(), nil)
	equalNames(t, stageNames(c), []string{"A", "B"})
	if c.GameVersion() != "1.4.4" {
		t.Errorf("Expected game version 1.4.4, got %q", c.GameVersion())
	}
	if c.Author() != "tester" {
		t.Errorf("Expected author tester, got %q", c.Author())
	}
}

func TestMerge_NilBase(t *testing.T) {
	c := Merge(nil, &OverlayDocument{Stages: []StageDocument{{Name: "X"}}})
	if c.Len() != 0 {
		t.Errorf("Expected empty catalog, got %d stages", c.Len())
	}
}

func TestMerge_SameNameAppendsWeapons(t *testing.T) {
	c := Merge(baseAB(), &OverlayDocument{Stages: []StageDocument{
		{Name: "A", Weapons: []Weapon{{Name: "w", Mod: ProvenanceVanilla}}},
	}})
	equalNames(t, stageNames(c), []string{"A", "B"})

	a, _ := c.Stage("A")
	if len(a.Weapons) != 2 {
		t.Fatalf("Expected 2 weapons in A, got %d", len(a.Weapons))
	}
	if a.Weapons[0].Name != "a1" || a.Weapons[1].Name != "w" {
		t.Errorf("Expected base weapons first, got %+v", a.Weapons)
	}
	if a.Weapons[1].Mod != ProvenanceCalamity {
		t.Errorf("Expected overlay weapon tagged calamity, got %q", a.Weapons[1].Mod)
	}
	if a.Weapons[0].Mod != ProvenanceVanilla {
		t.Errorf("Expected base weapon to stay vanilla, got %q", a.Weapons[0].Mod)
	}
}

func TestMerge_ClearFlagIsMonotonic(t *testing.T) {
	base := baseAB()
	base.Stages[1].ClearPreviousWeapons = true
	c := Merge(base, &OverlayDocument{Stages: []StageDocument{
		{Name: "A", ClearPreviousWeapons: true},
		{Name: "B", ClearPreviousWeapons: false},
	}})
	a, _ := c.Stage("A")
	b, _ := c.Stage("B")
	if !a.ClearPreviousWeapons {
		t.Error("Expected overlay to set clear flag on A")
	}
	if !b.ClearPreviousWeapons {
		t.Error("Expected overlay without the flag to leave B's clear flag set")
	}
}

func TestMerge_SameNameIgnoresCalamityOnly(t *testing.T) {
	c := Merge(baseAB(), &OverlayDocument{Stages: []StageDocument{
		{Name: "A", CalamityOnly: true},
	}})
	a, _ := c.Stage("A")
	if a.CalamityOnly {
		t.Error("Expected merged stage to keep its own calamityOnly flag")
	}
}

func TestMerge_Placement(t *testing.T) {
	tests := []struct {
		name  string
		stage StageDocument
		want  []string
	}{
		{"insertAfter", StageDocument{Name: "X", InsertAfter: strPtr("A")}, []string{"A", "X", "B"}},
		{"insertAfter last", StageDocument{Name: "X", InsertAfter: strPtr("B")}, []string{"A", "B", "X"}},
		{"insertBefore", StageDocument{Name: "X", InsertBefore: strPtr("A")}, []string{"X", "A", "B"}},
		{"position", StageDocument{Name: "X", Position: numPtr(1)}, []string{"A", "X", "B"}},
		{"position floored", StageDocument{Name: "X", Position: numPtr(1.9)}, []string{"A", "X", "B"}},
		{"position negative", StageDocument{Name: "X", Position: numPtr(-4)}, []string{"X", "A", "B"}},
		{"position too large", StageDocument{Name: "X", Position: numPtr(1e9)}, []string{"A", "B", "X"}},
		{"position beats insertAfter", StageDocument{Name: "X", Position: numPtr(0), InsertAfter: strPtr("B")}, []string{"X", "A", "B"}},
		{"insertAfter beats insertBefore", StageDocument{Name: "X", InsertAfter: strPtr("B"), InsertBefore: strPtr("A")}, []string{"A", "B", "X"}},
		{"unknown insertAfter appends", StageDocument{Name: "X", InsertAfter: strPtr("nope"), InsertBefore: strPtr("A")}, []string{"A", "B", "X"}},
		{"unknown insertBefore appends", StageDocument{Name: "X", InsertBefore: strPtr("nope")}, []string{"A", "B", "X"}},
		{"no placement appends", StageDocument{Name: "X"}, []string{"A", "B", "X"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Merge(baseAB(), &OverlayDocument{Stages: []StageDocument{tt.stage}})
			equalNames(t, stageNames(c), tt.want)
		})
	}
}

func TestMerge_NewStageFlags(t *testing.T) {
	c := Merge(baseAB(), &OverlayDocument{Stages: []StageDocument{
		{Name: "X", CalamityOnly: true, ClearPreviousWeapons: true, Weapons: []Weapon{w("x1")}},
		{Name: "Y", Weapons: []Weapon{w("y1")}},
	}})
	x, _ := c.Stage("X")
	y, _ := c.Stage("Y")
	if !x.CalamityOnly || !x.ClearPreviousWeapons {
		t.Errorf("Expected X calamityOnly and clearing, got %+v", x)
	}
	if y.CalamityOnly {
		t.Error("Expected Y not calamityOnly")
	}
	if x.Weapons[0].Mod != ProvenanceCalamity {
		t.Errorf("Expected new stage weapons tagged calamity, got %q", x.Weapons[0].Mod)
	}
}

func TestMerge_InsertionsCompound(t *testing.T) {
	c := Merge(baseAB(), &OverlayDocument{Stages: []StageDocument{
		{Name: "X", InsertAfter: strPtr("A")},
		{Name: "Y", InsertAfter: strPtr("X")},
		{Name: "Z", InsertBefore: strPtr("Y")},
		{Name: "X", Weapons: []Weapon{w("x2")}},
	}})
	equalNames(t, stageNames(c), []string{"A", "X", "Z", "Y", "B"})
	x, _ := c.Stage("X")
	if len(x.Weapons) != 1 || x.Weapons[0].Name != "x2" {
		t.Errorf("Expected later overlay stage to merge into X, got %+v", x.Weapons)
	}
}

func TestMerge_DoesNotAliasInputs(t *testing.T) {
	base := baseAB()
	overlay := &OverlayDocument{Stages: []StageDocument{{Name: "A", Weapons: []Weapon{w("w")}}}}
	c := Merge(base, overlay)
	if len(base.Stages[0].Weapons) != 1 {
		t.Errorf("Expected base document untouched, got %+v", base.Stages[0].Weapons)
	}
	if overlay.Stages[0].Weapons[0].Mod != ProvenanceVanilla {
		t.Error("Expected overlay document untouched")
	}
	if c.Len() != 2 {
		t.Errorf("Expected 2 stages, got %d", c.Len())
	}
}
