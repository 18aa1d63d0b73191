package mapping

import (
	"fmt"
	"sort"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// TRAKTOR Kontrol X1 Mk1, bottom-up, left to right. Encoder 14 is missing
// because the reference unit reports nothing for it.
var traktorX1 = map[uint16]uint8{
	// transport deck A
	256: 1, 279: 2, 257: 3, 278: 4, 258: 5, 277: 6, 276: 7, 259: 8,
	// loop / load deck A
	282: 9, 2: 10, 265: 11, 264: 12, 280: 13,
	// effects deck A
	287: 15, 22: 16, 286: 17, 20: 18, 285: 19, 18: 20, 284: 21, 16: 22,
	// transport deck B
	272: 23, 271: 24, 273: 25, 270: 26, 274: 27, 269: 28, 268: 29, 275: 30,
	// loop / load deck B
	283: 31, 40: 32, 294: 33, 293: 34, 281: 35, 1: 36,
	// effects deck B
	23: 37, 291: 38, 21: 39, 290: 40, 19: 41, 289: 42, 17: 43, 288: 44,
	// shift / hotcue
	295: 45, 292: 46,
}

var builtins = map[string]*contracts.Mapping{
	"traktor-x1": contracts.NewMapping("TRAKTOR Kontrol X1", traktorX1),
}

// Builtin returns the preset called name.
func Builtin(name string) (*contracts.Mapping, error) {
	m, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: no built-in mapping %q (have %v)", contracts.ErrInvalidMapping, name, BuiltinNames())
	}
	return m, nil
}

// BuiltinNames lists the available presets.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
