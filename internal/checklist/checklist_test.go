package checklist

import (
	"bytes"
	"testing"

	"randomweapon/internal/catalog"
	"randomweapon/internal/game"

	"github.com/xuri/excelize/v2"
)

func testState() (*catalog.Catalog, game.State) {
	cat := catalog.New("1.4.4", "", []catalog.Stage{
		{Name: "Pre-Boss", Weapons: []catalog.Weapon{
			{Name: "Copper Shortsword", Mod: catalog.ProvenanceVanilla},
			{Name: "Wulfrum Blade", Mod: catalog.ProvenanceCalamity},
		}},
		{Name: "Desert Scourge", CalamityOnly: true, Weapons: []catalog.Weapon{
			{Name: "Seabow", Mod: catalog.ProvenanceCalamity},
		}},
		{Name: "Wall of Flesh", ClearPreviousWeapons: true, Weapons: []catalog.Weapon{
			{Name: "Breaker Blade", Mod: catalog.ProvenanceVanilla},
		}},
	})
	st := game.NewState(cat)
	st.CurrentStage = 1
	st.Excluded["Copper Shortsword"] = true
	sel := catalog.Weapon{Name: "Breaker Blade"}
	st.Selected = &sel
	return cat, st
}

func TestBuild_Vanilla(t *testing.T) {
	cat, st := testState()
	sh := Build(cat, st)

	if len(sh.Sections) != 2 {
		t.Fatalf("Expected 2 vanilla sections, got %d", len(sh.Sections))
	}
	if sh.Sections[0].Current || !sh.Sections[1].Current {
		t.Error("Expected second visible stage to be current")
	}
	if !sh.Sections[1].Clears {
		t.Error("Expected Wall of Flesh to be marked as clearing")
	}
	if len(sh.Sections[0].Entries) != 1 || !sh.Sections[0].Entries[0].Excluded {
		t.Errorf("Expected only the excluded vanilla weapon, got %+v", sh.Sections[0].Entries)
	}
	if !sh.Sections[1].Entries[0].Selected {
		t.Error("Expected Breaker Blade selected")
	}
	if sh.Done != 1 || sh.Total != 2 {
		t.Errorf("Expected 1/2 done, got %d/%d", sh.Done, sh.Total)
	}
}

func TestBuild_BothModes(t *testing.T) {
	cat, st := testState()
	st.Mode = catalog.ModeBoth
	st.StageClear = false
	sh := Build(cat, st)

	if len(sh.Sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(sh.Sections))
	}
	if sh.Sections[2].Clears {
		t.Error("Expected no clear marker with stage clear disabled")
	}
	if sh.Total != 4 {
		t.Errorf("Expected 4 weapons, got %d", sh.Total)
	}
}

func TestPDF(t *testing.T) {
	cat, st := testState()
	data, err := PDF(Build(cat, st))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("Expected PDF header")
	}
}

func TestPDF_ManyWeaponsPaginates(t *testing.T) {
	weapons := make([]catalog.Weapon, 200)
	for i := range weapons {
		weapons[i] = catalog.Weapon{Name: "Weapon " + string(rune('A'+i%26)), Mod: catalog.ProvenanceVanilla}
	}
	cat := catalog.New("", "", []catalog.Stage{{Name: "Everything", Weapons: weapons}})
	data, err := PDF(Build(cat, game.NewState(cat)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n := bytes.Count(data, []byte("/Type /Page\n")); n < 2 {
		t.Errorf("Expected several pages, got %d", n)
	}
}

func TestPDF_EmptyCatalog(t *testing.T) {
	cat := catalog.New("", "", nil)
	if _, err := PDF(Build(cat, game.NewState(cat))); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestXLSX(t *testing.T) {
	cat, st := testState()
	data, err := XLSX(Build(cat, st))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Unexpected error opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("Unexpected error reading rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "Weapon" {
		t.Errorf("Expected Weapon header, got %q", rows[0][1])
	}
	if rows[1][1] != "Copper Shortsword" || rows[1][3] != "TRUE" {
		t.Errorf("Unexpected first row %v", rows[1])
	}
	if rows[2][0] != "Wall of Flesh *" {
		t.Errorf("Expected current stage marker, got %q", rows[2][0])
	}
}
