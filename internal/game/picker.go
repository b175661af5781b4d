package game

import (
	"math/rand/v2"

	"randomweapon/internal/catalog"
)

// Rand is the random source used by the picker. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the process-wide math/rand/v2 generator.
var DefaultRand Rand = globalRand{}

func pick(r Rand, ws []catalog.Weapon) (catalog.Weapon, bool) {
	if len(ws) == 0 {
		return catalog.Weapon{}, false
	}
	return ws[r.IntN(len(ws))], true
}
