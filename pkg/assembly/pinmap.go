package assembly

import (
	"fmt"
	"strings"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
)

// Size is the number of pins per side of a 17x17 assembly.
const Size = 17

// Positions names the 25 guide tube positions of a 17x17 assembly, top row
// first. The centre position m holds the instrument tube.
const Positions = "abcdefghijklmnopqrstuvwxy"

// Center is the instrument tube position.
const Center = 'm'

// pinTemplate is the 17x17 layout, top row first. Dots are fuel rods.
var pinTemplate = [Size]string{
	".................",
	".................",
	".....a..b..c.....",
	"...d.........e...",
	".................",
	"..f..g..h..i..j..",
	".................",
	".................",
	"..k..l..m..n..o..",
	".................",
	".................",
	"..p..q..r..s..t..",
	".................",
	"...u.........v...",
	".....w..x..y.....",
	".................",
	".................",
}

// PinMap assigns a universe to every guide tube position.
type PinMap map[rune]*csg.Universe

// Uniform fills every guide tube position with tube and the centre with
// center.
func Uniform(tube, center *csg.Universe) PinMap {
	pm := make(PinMap, len(Positions))
	for _, p := range Positions {
		pm[p] = tube
	}
	pm[Center] = center
	return pm
}

// With returns a copy of pm with the listed positions set to u.
func (pm PinMap) With(positions string, u *csg.Universe) PinMap {
	out := make(PinMap, len(pm))
	for k, v := range pm {
		out[k] = v
	}
	for _, p := range positions {
		out[p] = u
	}
	return out
}

// Count returns how many positions hold u.
func (pm PinMap) Count(u *csg.Universe) int {
	n := 0
	for _, p := range Positions {
		if pm[p] == u {
			n++
		}
	}
	return n
}

// Rows expands the pin map into lattice rows, top row first, with fuel in
// every non-tube position.
func (pm PinMap) Rows(fuel *csg.Universe) ([][]*csg.Universe, error) {
	if fuel == nil {
		return nil, fmt.Errorf("pin map: no fuel universe")
	}
	rows := make([][]*csg.Universe, Size)
	for i, line := range pinTemplate {
		rows[i] = make([]*csg.Universe, Size)
		for j, c := range line {
			if c == '.' {
				rows[i][j] = fuel
				continue
			}
			u, ok := pm[c]
			if !ok || u == nil {
				return nil, fmt.Errorf("pin map: no universe for position %q", c)
			}
			rows[i][j] = u
		}
	}
	return rows, nil
}

// Location returns the row (from the top) and column of a guide tube
// position.
func Location(p rune) (row, col int, ok bool) {
	for i, line := range pinTemplate {
		if j := strings.IndexRune(line, p); j >= 0 {
			return i, j, true
		}
	}
	return 0, 0, false
}

// BALayouts maps burnable absorber layout names to the positions that hold
// absorber rods.
var BALayouts = map[string]string{
	"6BAN":   "ptuvwy",
	"6BAS":   "acdefj",
	"6BAW":   "cejtvy",
	"6BAE":   "adfpuw",
	"12BA":   "acdefjptuvwy",
	"15BANW": "ghijlnoqrstvwxy",
	"15BANE": "fghiklnpqrsuwxy",
	"15BASW": "abceghijlnoqrst",
	"15BASE": "abcdfghiklnpqrs",
	"16BA":   "abcdefjkoptuvwxy",
	"20BA":   "abcdefgijkopqstuvwxy",
}
