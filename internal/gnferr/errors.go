//----------------------------------------------------------------------
// This file is part of gnfs.
//
// gnfs is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnfs is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//----------------------------------------------------------------------

// Package gnferr defines the error kinds of the GNFS core (spec §7) and a
// context-carrying wrapper around them.
package gnferr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every fallible core operation returns one of these
// (wrapped with Wrap for context) or nil.
var (
	// ErrBackendOverflow is raised by norm computation when the selected
	// integer backend's checked arithmetic overflows.
	ErrBackendOverflow = errors.New("backend overflow")
	// ErrModularInverse is raised by polynomial GCD/inverse in (Z/pZ)[x]
	// when the leading coefficient is not invertible mod p.
	ErrModularInverse = errors.New("non-invertible leading coefficient")
	// ErrNotAQuadraticResidue is raised by Tonelli-Shanks when the
	// Legendre/power-residue symbol is not +1.
	ErrNotAQuadraticResidue = errors.New("not a quadratic residue")
	// ErrNotASquare is raised by the rational side of the square-root
	// finder when the accumulated product is not a perfect square.
	ErrNotASquare = errors.New("rational product is not a perfect square")
	// ErrInsufficientRank is raised by the linear-algebra stage when the
	// matrix has zero free columns.
	ErrInsufficientRank = errors.New("matrix has insufficient rank")
	// ErrNeedMoreSieving is raised when the solution-set enumerator is
	// exhausted without producing a non-trivial factor.
	ErrNeedMoreSieving = errors.New("need more sieving")
	// ErrCancelled is returned by any stage that observes the
	// cancellation flag during cooperative shutdown.
	ErrCancelled = errors.New("cancelled")
	// ErrParameterInfeasible is the terminal, user-visible failure after
	// a bounded number of failed sieve expansions.
	ErrParameterInfeasible = errors.New("parameter set infeasible after bounded expansion")
)

// Error wraps a sentinel kind with variable context, preserving
// errors.Is/errors.As against the wrapped kind.
type Error struct {
	Err error  // base error (sentinel kind)
	Ctx string // error context
}

// Unwrap exposes the sentinel kind to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error returns a human-readable error description.
func (e *Error) Error() string {
	if e.Ctx == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + " [" + e.Ctx + "]"
}

// Wrap attaches formatted context to a sentinel error kind.
func Wrap(err error, format string, args ...interface{}) *Error {
	return &Error{
		Err: err,
		Ctx: fmt.Sprintf(format, args...),
	}
}
