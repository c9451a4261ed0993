package integrators

import (
	"fmt"
	"sort"
	"strings"
)

var methods = map[string]func() *RK{
	"rk45": NewRK45,
	"rk23": NewRK23,
}

// Lookup returns a fresh solver for a method name such as "RK45".
func Lookup(name string) (*RK, error) {
	fn, ok := methods[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Methods())
	}
	return fn(), nil
}

func Methods() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, strings.ToUpper(name))
	}
	sort.Strings(names)
	return names
}
