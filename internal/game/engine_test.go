package game

import (
	"math/rand/v2"
	"slices"
	"testing"

	"randomweapon/internal/catalog"
)

func vw(name string) catalog.Weapon {
	return catalog.Weapon{Name: name, Mod: catalog.ProvenanceVanilla}
}

func cw(name string) catalog.Weapon {
	return catalog.Weapon{Name: name, Mod: catalog.ProvenanceCalamity}
}

func names(ws []catalog.Weapon) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Name
	}
	return out
}

// testCatalog: S1, C1 (calamity only), S2 (clears), S3.
func testCatalog() *catalog.Catalog {
	return catalog.New("1.4.4", "tester", []catalog.Stage{
		{Name: "S1", Weapons: []catalog.Weapon{vw("w1"), cw("c0")}},
		{Name: "C1", CalamityOnly: true, Weapons: []catalog.Weapon{cw("c1")}},
		{Name: "S2", ClearPreviousWeapons: true, Weapons: []catalog.Weapon{vw("w2"), vw("w3")}},
		{Name: "S3", Weapons: []catalog.Weapon{vw("w4"), cw("c2")}},
	})
}

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func TestAvailable_StageClear(t *testing.T) {
	cat := catalog.New("", "", []catalog.Stage{
		{Name: "S1", Weapons: []catalog.Weapon{vw("w1")}},
		{Name: "S2", ClearPreviousWeapons: true, Weapons: []catalog.Weapon{vw("w2")}},
	})
	e := NewEngine(cat)

	got := names(e.Available(1, nil, catalog.ModeVanilla, true))
	if !slices.Equal(got, []string{"w2"}) {
		t.Errorf("Expected [w2] with stage clear, got %v", got)
	}

	got = names(e.Available(1, nil, catalog.ModeVanilla, false))
	if !slices.Equal(got, []string{"w1", "w2"}) {
		t.Errorf("Expected [w1 w2] without stage clear, got %v", got)
	}
}

func TestAvailable_ModeFilter(t *testing.T) {
	e := NewEngine(testCatalog())
	tests := []struct {
		mode  catalog.Mode
		stage int
		want  []string
	}{
		{catalog.ModeVanilla, 0, []string{"w1"}},
		{catalog.ModeCalamity, 0, []string{"c0"}},
		{catalog.ModeBoth, 0, []string{"w1", "c0"}},
		// C1 is visible in calamity and both, so S3 sits at index 3 there.
		{catalog.ModeVanilla, 2, []string{"w2", "w3", "w4"}},
		{catalog.ModeBoth, 3, []string{"w2", "w3", "w4", "c2"}},
		{catalog.ModeCalamity, 1, []string{"c0", "c1"}},
		{catalog.ModeCalamity, 3, []string{"c2"}},
	}
	for _, tt := range tests {
		got := names(e.Available(tt.stage, nil, tt.mode, true))
		if !slices.Equal(got, tt.want) {
			t.Errorf("mode %s stage %d: expected %v, got %v", tt.mode, tt.stage, tt.want, got)
		}
	}
}

func TestAvailable_VisibleStageWithNoEligibleWeapons(t *testing.T) {
	cat := catalog.New("", "", []catalog.Stage{
		{Name: "Mixed", Weapons: []catalog.Weapon{cw("c1"), cw("c2")}},
	})
	e := NewEngine(cat)
	if n := cat.VisibleCount(catalog.ModeVanilla); n != 1 {
		t.Fatalf("Expected stage visible in vanilla, got %d visible", n)
	}
	if got := e.Available(0, nil, catalog.ModeVanilla, true); len(got) != 0 {
		t.Errorf("Expected no vanilla weapons, got %v", names(got))
	}
}

func TestAvailable_NeverReturnsExcluded(t *testing.T) {
	e := NewEngine(testCatalog())
	excluded := map[string]bool{"w2": true, "c0": true, "w4": false}
	for _, m := range catalog.Modes {
		for stage := -1; stage < 6; stage++ {
			for _, clear := range []bool{true, false} {
				for _, w := range e.Available(stage, excluded, m, clear) {
					if excluded[w.Name] {
						t.Errorf("mode %s stage %d: excluded weapon %s returned", m, stage, w.Name)
					}
				}
			}
		}
	}
	got := names(e.Available(3, excluded, catalog.ModeBoth, true))
	if !slices.Contains(got, "w4") {
		t.Errorf("Expected a false exclusion entry to keep w4, got %v", got)
	}
}

func TestAvailable_Idempotent(t *testing.T) {
	e := NewEngine(testCatalog())
	excluded := map[string]bool{"w3": true}
	a := names(e.Available(3, excluded, catalog.ModeBoth, false))
	b := names(e.Available(3, excluded, catalog.ModeBoth, false))
	if !slices.Equal(a, b) {
		t.Errorf("Expected identical results, got %v and %v", a, b)
	}
}

func TestAvailable_ClampsIndex(t *testing.T) {
	e := NewEngine(testCatalog())
	high := names(e.Available(42, nil, catalog.ModeVanilla, true))
	last := names(e.Available(2, nil, catalog.ModeVanilla, true))
	if !slices.Equal(high, last) {
		t.Errorf("Expected out-of-range index to clamp to last stage, got %v want %v", high, last)
	}
	low := names(e.Available(-5, nil, catalog.ModeVanilla, true))
	if !slices.Equal(low, []string{"w1"}) {
		t.Errorf("Expected negative index to clamp to first stage, got %v", low)
	}
}

func TestAvailable_EmptyCatalog(t *testing.T) {
	e := NewEngine(catalog.New("", "", nil))
	if got := e.Available(0, nil, catalog.ModeBoth, true); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}

func TestAvailable_DoesNotMutateCatalog(t *testing.T) {
	cat := testCatalog()
	e := NewEngine(cat)
	_ = e.Available(3, nil, catalog.ModeBoth, true)
	_ = e.Available(3, nil, catalog.ModeBoth, false)
	s1, _ := cat.Stage("S1")
	if !slices.Equal(names(s1.Weapons), []string{"w1", "c0"}) {
		t.Errorf("Expected S1 untouched, got %v", names(s1.Weapons))
	}
}

func TestPick_None(t *testing.T) {
	e := NewEngine(testCatalog())
	st := NewState(e.Catalog)
	st.Excluded["w1"] = true
	if w, ok := e.Pick(st); ok {
		t.Errorf("Expected no pick, got %+v", w)
	}
}

func TestPick_Uniform(t *testing.T) {
	e := NewEngine(testCatalog())
	e.Rand = rand.New(rand.NewPCG(1, 2))
	st := NewState(e.Catalog)
	st.Mode = catalog.ModeBoth
	st.CurrentStage = 3

	counts := map[string]int{}
	const draws = 40000
	for range draws {
		w, ok := e.Pick(st)
		if !ok {
			t.Fatal("Expected a pick")
		}
		counts[w.Name]++
	}
	if len(counts) != 4 {
		t.Fatalf("Expected all 4 candidates drawn, got %v", counts)
	}
	for name, n := range counts {
		if n < draws/4-1000 || n > draws/4+1000 {
			t.Errorf("Expected roughly %d draws of %s, got %d", draws/4, name, n)
		}
	}
}

func TestPick_UsesRand(t *testing.T) {
	e := NewEngine(testCatalog())
	e.Rand = fixedRand(1)
	st := NewState(e.Catalog)
	st.CurrentStage = 2
	w, ok := e.Pick(st)
	if !ok || w.Name != "w3" {
		t.Errorf("Expected w3, got %+v (%v)", w, ok)
	}
}

func TestSortWeapons(t *testing.T) {
	base := []catalog.Weapon{vw("b"), vw("a"), vw("d"), vw("c")}
	excluded := map[string]bool{"a": true, "d": true}

	tests := []struct {
		mode SortMode
		want []string
	}{
		{SortName, []string{"a", "b", "c", "d"}},
		{SortAvailability, []string{"b", "c", "a", "d"}},
		{SortAvailabilityAndName, []string{"b", "c", "a", "d"}},
	}
	for _, tt := range tests {
		ws := slices.Clone(base)
		SortWeapons(ws, tt.mode, excluded)
		if got := names(ws); !slices.Equal(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.mode, tt.want, got)
		}
	}

	ws := []catalog.Weapon{vw("z"), vw("y"), vw("x")}
	SortWeapons(ws, SortAvailability, map[string]bool{"y": true})
	if got := names(ws); !slices.Equal(got, []string{"z", "x", "y"}) {
		t.Errorf("Expected availability sort to be stable, got %v", got)
	}
}

func TestSortWeapons_ByteOrder(t *testing.T) {
	ws := []catalog.Weapon{vw("apple"), vw("Zenith"), vw("Zapinator")}
	SortWeapons(ws, SortName, nil)
	if got := names(ws); !slices.Equal(got, []string{"Zapinator", "Zenith", "apple"}) {
		t.Errorf("Expected upper case first, got %v", got)
	}
}

func TestWeaponList(t *testing.T) {
	e := NewEngine(testCatalog())
	st := NewState(e.Catalog)
	st.CurrentStage = 2
	st.Excluded["w2"] = true
	sel := vw("w3")
	st.Selected = &sel

	list := e.WeaponList(st)
	if len(list) != 3 {
		t.Fatalf("Expected excluded weapons listed too, got %d entries", len(list))
	}
	want := []string{"w3", "w4", "w2"}
	for i, entry := range list {
		if entry.Weapon.Name != want[i] {
			t.Errorf("Entry %d: expected %s, got %s", i, want[i], entry.Weapon.Name)
		}
	}
	if !list[0].Selected || list[0].Excluded {
		t.Errorf("Expected w3 selected and not excluded, got %+v", list[0])
	}
	if !list[2].Excluded {
		t.Errorf("Expected w2 excluded, got %+v", list[2])
	}
}

func TestView(t *testing.T) {
	e := NewEngine(testCatalog())
	st := NewState(e.Catalog)
	st.CurrentStage = 1

	v := e.View(st, nil, false)
	if v.StageLabel() != "S2 (2/3)" {
		t.Errorf("Expected label 'S2 (2/3)', got %q", v.StageLabel())
	}
	if v.Available != 2 {
		t.Errorf("Expected 2 available, got %d", v.Available)
	}
	if v.Weapons != nil {
		t.Error("Expected no list while closed")
	}
	if v.Author != "tester" || v.ToolVersion != ToolVersion {
		t.Errorf("Unexpected credits %q %q", v.Author, v.ToolVersion)
	}

	st.WeaponListOpen = true
	if v := e.View(st, nil, false); len(v.Weapons) != 2 {
		t.Errorf("Expected 2 list entries, got %d", len(v.Weapons))
	}
}

func TestView_NoStages(t *testing.T) {
	e := NewEngine(catalog.New("", "", nil))
	v := e.View(NewState(e.Catalog), nil, false)
	if v.StageLabel() != "No Stages (1/0)" {
		t.Errorf("Expected 'No Stages (1/0)', got %q", v.StageLabel())
	}
}

func TestFormatWeapon(t *testing.T) {
	if got := FormatWeapon(nil); got != "None" {
		t.Errorf("Expected None, got %q", got)
	}
	w := vw("Zenith")
	if got := FormatWeapon(&w); got != "Zenith" {
		t.Errorf("Expected Zenith, got %q", got)
	}
}
