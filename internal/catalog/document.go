package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var errMalformedOverlay = errors.New("overlay is not an object with a stages list")

// BaseDocument is the decoded base catalog (data.json).
type BaseDocument struct {
	GameVersion string
	Author      string
	Stages      []StageDocument
}

// OverlayDocument is the decoded optional overlay (calamity.json).
type OverlayDocument struct {
	Stages []StageDocument
}

// StageDocument is a stage as written in either document. Placement fields
// are only meaningful in an overlay; a nil pointer means the field was absent
// or of the wrong type.
type StageDocument struct {
	Name                 string
	Weapons              []Weapon
	ClearPreviousWeapons bool
	CalamityOnly         bool
	Position             *float64
	InsertAfter          *string
	InsertBefore         *string
}

// ParseBase decodes a base catalog. Only a syntax error fails; a missing or
// malformed stages list decodes as no stages.
func ParseBase(filename string, raw []byte) (*BaseDocument, error) {
	v, err := decodeByExt(filename, raw)
	if err != nil {
		return nil, fmt.Errorf("decode base catalog %s: %w", filename, err)
	}
	doc := &BaseDocument{}
	obj, ok := v.(map[string]any)
	if !ok {
		return doc, nil
	}
	doc.GameVersion = text(obj["terrariaVersion"])
	if meta, ok := obj["$meta"].(map[string]any); ok {
		doc.Author = text(meta["author"])
	}
	doc.Stages = parseStages(obj["stages"])
	// calamityOnly only marks stages an overlay adds.
	for i := range doc.Stages {
		doc.Stages[i].CalamityOnly = false
	}
	return doc, nil
}

// ParseOverlay decodes an overlay catalog. Unlike ParseBase it also rejects a
// document without a stages list so the caller can treat it as absent.
func ParseOverlay(filename string, raw []byte) (*OverlayDocument, error) {
	v, err := decodeByExt(filename, raw)
	if err != nil {
		return nil, fmt.Errorf("decode overlay catalog %s: %w", filename, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errMalformedOverlay
	}
	if _, ok := obj["stages"].([]any); !ok {
		return nil, errMalformedOverlay
	}
	return &OverlayDocument{Stages: parseStages(obj["stages"])}, nil
}

func decodeByExt(filename string, raw []byte) (any, error) {
	var v any
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func parseStages(v any) []StageDocument {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]StageDocument, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sd := StageDocument{
			Name:                 text(obj["name"]),
			Weapons:              parseWeapons(obj["weapons"]),
			ClearPreviousWeapons: Truthy(obj["clearPreviousWeapons"]),
			CalamityOnly:         Truthy(obj["calamityOnly"]),
		}
		if f, ok := number(obj["position"]); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			sd.Position = &f
		}
		if s, ok := obj["insertAfter"].(string); ok {
			sd.InsertAfter = &s
		}
		if s, ok := obj["insertBefore"].(string); ok {
			sd.InsertBefore = &s
		}
		out = append(out, sd)
	}
	return out
}

func parseWeapons(v any) []Weapon {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Weapon, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		w := Weapon{
			Name: text(obj["name"]),
			Img:  text(obj["img"]),
			Mod:  ProvenanceVanilla,
		}
		if m := obj["mod"]; Truthy(m) {
			w.Mod = NormalizeProvenance(text(m))
		}
		out = append(out, w)
	}
	return out
}

// text renders a scalar the way the data authors wrote it; nil is empty.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

// Truthy follows JSON-document truthiness: false, null, zero, NaN and the
// empty string are false, anything else is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		if f, ok := number(v); ok {
			return f != 0 && !math.IsNaN(f)
		}
		return true
	}
}
