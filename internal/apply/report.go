// Package apply walks a changeset in dependency order and implements each
// requirement as a bounded, local edit against the project, flushing between
// steps and accumulating a report of what was and was not implemented.
package apply

import "github.com/1homsi/tsparam/internal/plan"

// Unimplemented is a requirement that could not be carried out, with the
// reason.
type Unimplemented struct {
	Requirement plan.Requirement
	Message     string
}

// Report is the outcome of one execution run. An empty Implemented list
// with an empty Unimplemented list means there was nothing to do; it is
// not an error.
type Report struct {
	Implemented   []plan.Requirement
	Unimplemented []Unimplemented
	Migrations    []Migration
}

// Clean reports whether every planned requirement was implemented.
func (r *Report) Clean() bool {
	return len(r.Unimplemented) == 0
}
