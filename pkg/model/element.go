package model

import "strings"

// Element is a chemical element with the properties the renderer needs.
type Element struct {
	Symbol string
	Number int
	// Radius is the van der Waals radius in angstroms.
	Radius float32
	Metal  bool
}

var elements = map[string]*Element{}

// Unknown stands in for unrecognised symbols.
var Unknown = &Element{Symbol: "?", Radius: 1.5}

func init() {
	for _, e := range []Element{
		{"H", 1, 1.20, false},
		{"He", 2, 1.40, false},
		{"Li", 3, 1.82, true},
		{"Be", 4, 1.53, true},
		{"B", 5, 1.92, false},
		{"C", 6, 1.70, false},
		{"N", 7, 1.55, false},
		{"O", 8, 1.52, false},
		{"F", 9, 1.47, false},
		{"Ne", 10, 1.54, false},
		{"Na", 11, 2.27, true},
		{"Mg", 12, 1.73, true},
		{"Al", 13, 1.84, true},
		{"Si", 14, 2.10, false},
		{"P", 15, 1.80, false},
		{"S", 16, 1.80, false},
		{"Cl", 17, 1.75, false},
		{"Ar", 18, 1.88, false},
		{"K", 19, 2.75, true},
		{"Ca", 20, 2.31, true},
		{"Mn", 25, 2.05, true},
		{"Fe", 26, 2.04, true},
		{"Co", 27, 2.00, true},
		{"Ni", 28, 1.63, true},
		{"Cu", 29, 1.40, true},
		{"Zn", 30, 1.39, true},
		{"Se", 34, 1.90, false},
		{"Br", 35, 1.85, false},
		{"I", 53, 1.98, false},
	} {
		elements[strings.ToUpper(e.Symbol)] = &e
	}
}

// LookupElement resolves a symbol case-insensitively, returning Unknown for
// unrecognised symbols.
func LookupElement(symbol string) *Element {
	if e, ok := elements[strings.ToUpper(strings.TrimSpace(symbol))]; ok {
		return e
	}
	return Unknown
}
