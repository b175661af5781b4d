package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"randomweapon/internal/catalog"
)

// SaveFileName is the suggested name for exported snapshots.
const SaveFileName = "TerrariaRandomWeapon.save"

// ErrInvalidSnapshot is returned for snapshot data that does not parse.
var ErrInvalidSnapshot = errors.New("snapshot is not valid JSON")

// snapshot is the persisted wire shape. Field names match saves written by
// the browser version of the tool.
type snapshot struct {
	TerrariaVersion string          `json:"terrariaVersion"`
	TRWVersion      string          `json:"trwVersion"`
	CurrentStage    int             `json:"currentStage"`
	WeaponBlacklist map[string]bool `json:"weaponBlacklist"`
	SelectedWeapon  *catalog.Weapon `json:"selectedWeapon"`
	StageClear      bool            `json:"enableStageClearPreviousWeapons"`
	SortWeapons     SortMode        `json:"sortWeapons"`
	OpenWeaponList  bool            `json:"openWeaponList"`
	ModMode         catalog.Mode    `json:"modMode"`
}

// Serialize encodes the complete state.
func Serialize(st State) ([]byte, error) {
	bl := st.Excluded
	if bl == nil {
		bl = map[string]bool{}
	}
	return json.Marshal(snapshot{
		TerrariaVersion: st.GameVersion,
		TRWVersion:      st.ToolVersion,
		CurrentStage:    st.CurrentStage,
		WeaponBlacklist: bl,
		SelectedWeapon:  st.Selected,
		StageClear:      st.StageClear,
		SortWeapons:     st.Sort,
		OpenWeaponList:  st.WeaponListOpen,
		ModMode:         st.Mode,
	})
}

// Deserialize rebuilds a state from a snapshot. It starts from NewState(cat)
// and overwrites one field at a time; a field that is missing or has the
// wrong shape keeps its default, so older and partial saves load. Only input
// that is not JSON at all is an error. The stage index is re-clamped.
func Deserialize(data []byte, cat *catalog.Catalog) (State, error) {
	st := NewState(cat)
	if !json.Valid(data) {
		return st, ErrInvalidSnapshot
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// null, arrays and scalars carry no fields.
		fields = nil
	}

	var (
		s  string
		b  bool
		f  float64
		wp *catalog.Weapon
		bl map[string]any
	)
	if decodeField(fields, "terrariaVersion", &s) {
		st.GameVersion = s
	}
	if decodeField(fields, "trwVersion", &s) {
		st.ToolVersion = s
	}
	if decodeField(fields, "currentStage", &f) {
		st.CurrentStage = floorIndex(f)
	}
	if decodeField(fields, "weaponBlacklist", &bl) {
		for name, v := range bl {
			if catalog.Truthy(v) {
				st.Excluded[name] = true
			}
		}
	}
	if decodeField(fields, "selectedWeapon", &wp) && wp != nil {
		w := *wp
		w.Mod = catalog.NormalizeProvenance(string(w.Mod))
		st.Selected = &w
	}
	if decodeField(fields, "enableStageClearPreviousWeapons", &b) {
		st.StageClear = b
	}
	if decodeField(fields, "sortWeapons", &s) && SortMode(s).Valid() {
		st.Sort = SortMode(s)
	}
	if decodeField(fields, "openWeaponList", &b) {
		st.WeaponListOpen = b
	}
	if decodeField(fields, "modMode", &s) {
		if m, err := catalog.ParseMode(s); err == nil {
			st.Mode = m
		}
	}

	if cat != nil {
		st.Clamp(cat)
	}
	return st, nil
}

// decodeField decodes fields[key] into dst and reports whether it did. JSON
// null counts as absent.
func decodeField(fields map[string]json.RawMessage, key string, dst any) bool {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func floorIndex(f float64) int {
	f = math.Floor(f)
	switch {
	case f < 0:
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return int(f)
}

// Codec adapts Serialize and Deserialize to a session store.
type Codec struct {
	Catalog *catalog.Catalog
}

func (c Codec) Encode(st State) ([]byte, error) {
	data, err := Serialize(st)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func (c Codec) Decode(data []byte) (State, error) {
	st, err := Deserialize(data, c.Catalog)
	if err != nil {
		return st, fmt.Errorf("decode snapshot: %w", err)
	}
	return st, nil
}
