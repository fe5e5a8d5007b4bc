// Package validation provides common validation utilities for scheduling
// parameters across the ticktask library.
//
// The functions return *errors.ValidationError values so callers can report
// the rejected field and value consistently.
package validation
