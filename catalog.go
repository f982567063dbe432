package gaussmap

import (
	"fmt"
	"sort"
)

// catalog holds well-known surfaces in parseable form.
var catalog = map[string]Input{
	"catenoid": {
		X: "2*cosh(0.5*v)*cos(u)", Y: "2*cosh(0.5*v)*sin(u)", Z: "v",
		UMin: "-pi", UMax: "pi", VMin: "-2", VMax: "2",
	},
	"cone": {
		X: "v*cos(u)", Y: "v*sin(u)", Z: "v",
		UMin: "0", UMax: "2*pi", VMin: "0.01", VMax: "1",
	},
	"cylinder": {
		X: "cos(u)", Y: "sin(u)", Z: "v",
		UMin: "0", UMax: "2*pi", VMin: "-1", VMax: "1",
	},
	"hyperbolic_paraboloid": {
		X: "u", Y: "v", Z: "u*v",
		UMin: "-2", UMax: "2", VMin: "-2", VMax: "2",
	},
	"hyperboloid": {
		X: "cosh(u)*cos(v)", Y: "cosh(u)*sin(v)", Z: "sinh(u)",
		UMin: "-2*pi", UMax: "2*pi", VMin: "0", VMax: "2*pi",
	},
	"monkey_saddle": {
		X: "u", Y: "v", Z: "u^3 - 3*u*v^2",
		UMin: "-3", UMax: "3", VMin: "-3", VMax: "3",
	},
	"paraboloid": {
		X: "v*cos(u)", Y: "v*sin(u)", Z: "-(v^2)",
		UMin: "0", UMax: "2*pi", VMin: "0.01", VMax: "2",
	},
	"ring_torus": {
		X: "(3 + cos(u))*cos(v)", Y: "(3 + cos(u))*sin(v)", Z: "sin(u)",
		UMin: "0", UMax: "2*pi", VMin: "0", VMax: "2*pi",
	},
	"sphere": {
		X: "cos(u)*sin(v)", Y: "sin(u)*sin(v)", Z: "cos(v)",
		UMin: "0", UMax: "2*pi", VMin: "0.01", VMax: "pi - 0.01",
	},
}

// Lookup returns the catalog entry called name.
func Lookup(name string) (Input, error) {
	in, ok := catalog[name]
	if !ok {
		return Input{}, fmt.Errorf("%w: %q", ErrUnknownSurface, name)
	}
	return in, nil
}

// CatalogNames returns the catalog entry names in sorted order.
func CatalogNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
