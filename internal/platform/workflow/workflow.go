// Package workflow holds the status transition tables used by the action
// buttons of each page (approve a claim, dispatch an ambulance, ...).
package workflow

import "fmt"

// TransitionError is returned when a status change is not allowed.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.From, e.To)
}

// Machine is a transition table keyed by source status.
type Machine struct {
	entity string
	edges  map[string][]string
}

// New builds a Machine for entity from a from -> []to table.
func New(entity string, edges map[string][]string) *Machine {
	return &Machine{entity: entity, edges: edges}
}

// Allowed reports whether from -> to is a legal transition.
func (m *Machine) Allowed(from, to string) bool {
	for _, s := range m.edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Check returns a *TransitionError when from -> to is not allowed.
func (m *Machine) Check(from, to string) error {
	if !m.Allowed(from, to) {
		return &TransitionError{Entity: m.entity, From: from, To: to}
	}
	return nil
}

// Next lists the statuses reachable from from.
func (m *Machine) Next(from string) []string {
	out := make([]string, len(m.edges[from]))
	copy(out, m.edges[from])
	return out
}
