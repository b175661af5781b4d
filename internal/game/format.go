package game

import "randomweapon/internal/catalog"

// NoneLabel stands in for a missing weapon.
const NoneLabel = "None"

// FormatWeapon renders a weapon for plain-text output.
func FormatWeapon(w *catalog.Weapon) string {
	if w == nil {
		return NoneLabel
	}
	return w.Name
}
