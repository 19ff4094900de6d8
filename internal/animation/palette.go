package animation

import "github.com/smazurov/amplifier/internal/strip"

// Named colors used by the game effects.
var (
	IdleBlue   = strip.RGB(0, 50, 100)
	RedWine    = strip.RGB(114, 14, 38)
	GreenGrass = strip.RGB(60, 179, 38)
	Purple     = strip.RGB(128, 0, 128)
	SoftWhite  = strip.RGB(255, 214, 170)
)

// PartyPalette is the band sequence of the party wave.
var PartyPalette = []strip.Color{RedWine, GreenGrass, Purple, SoftWhite}
