package shell

import (
	"fmt"
	"sort"

	"uniset/usetlib"
)

// Environment holds named resolved sets

type Environment struct {
	vars map[string]usetlib.Resolved
}

func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]usetlib.Resolved)}
}

func (e *Environment) Get(name string) (usetlib.Resolved, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *Environment) Set(name string, val usetlib.Resolved) {
	e.vars[name] = val
}

func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for n := range e.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) String() string {
	return fmt.Sprint(e.Names())
}
