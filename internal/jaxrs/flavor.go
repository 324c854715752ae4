package jaxrs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	FlavorJersey = "jersey"
	FlavorSpec   = "spec"
)

// ErrUnknownFlavor is returned for a flavor name with no registration.
var ErrUnknownFlavor = errors.New("unknown flavor")

// Flavor is a JAX-RS variant: the templates rendered per tag group.
type Flavor struct {
	Name      string
	Templates []string
}

var flavors = map[string]Flavor{
	FlavorJersey: {
		Name: FlavorJersey,
		Templates: []string{
			"api.mustache",
			"apiService.mustache",
			"apiServiceImpl.mustache",
			"apiServiceFactory.mustache",
		},
	},
	FlavorSpec: {
		Name: FlavorSpec,
		Templates: []string{
			"api.mustache",
			"apiServiceImpl.mustache",
		},
	},
}

// LookupFlavor returns the flavor registered under name (case-insensitive).
func LookupFlavor(name string) (Flavor, error) {
	f, ok := flavors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Flavor{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownFlavor, name, strings.Join(FlavorNames(), ", "))
	}
	return f, nil
}

// FlavorNames lists registered flavors in sorted order.
func FlavorNames() []string {
	names := make([]string, 0, len(flavors))
	for n := range flavors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
