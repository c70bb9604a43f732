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

// Package numeric implements the polymorphic integer backend described in
// spec.md §4.A: a capability set that every concrete backend (Int64,
// Int128, Fixed256, Fixed512, BigInt) provides, so the hot-path code in
// poly and sieve can be written once as generic functions and instantiated
// per run against whichever backend the input size selects.
//
// Signed is mandatory for every backend: the sieve's `a` coordinate and
// both norms may be negative (spec.md §3, §4.E), and the sign is recorded
// separately by the caller (a -1 entry in the factorisation), never by the
// backend silently taking an absolute value.
package numeric

import "math/big"

// Value is the capability set every backend type must satisfy. T is the
// concrete backend type itself (Int64, Int128, Fixed256, Fixed512, BigInt),
// so hot-path code is written as generic functions over a type parameter
// constrained by Value[T] and the compiler monomorphises away the
// interface dispatch spec.md §4.A and §9 require to not occur per
// coefficient operation.
type Value[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Rem(T) T
	Neg() T
	Abs() T
	Pow(n int) T
	GCD(T) T
	ModInverse(T) (T, bool)

	// CheckedAdd and CheckedMul return ok=false instead of silently
	// wrapping/truncating when the backend's fixed width would be
	// exceeded. BigInt's variants are always ok=true (arbitrary
	// precision never overflows).
	CheckedAdd(T) (result T, ok bool)
	CheckedMul(T) (result T, ok bool)

	Cmp(T) int
	Sign() int
	BitLen() int

	// Big converts to an arbitrary-precision value, the one capability
	// every backend must expose so the square-root finder and the
	// orchestrator can cross over to BigInt for CRT and gcd-with-N work
	// regardless of which backend the sieve ran with.
	Big() *big.Int

	String() string
}

// FromInt64 is implemented by every concrete backend's package-level
// constructor (e.g. numeric.I64(5), numeric.NewBig(5)); it is not part of
// the Value interface because Go generics cannot express "a static
// constructor function" as a method constraint. Backend selection code
// therefore dispatches construction through the Backend enum below
// instead of through the generic Value[T] interface.
type FromInt64[T any] func(int64) T

// FromBig is the arbitrary-precision counterpart of FromInt64.
type FromBig[T any] func(*big.Int) T

// Backend identifies a concrete integer backend, selected once per run
// (spec.md §4.A "Selection happens once at startup").
type Backend int

const (
	// BackendInt64 is the smallest, fastest backend: native int64 with
	// checked arithmetic via math/bits overflow detection.
	BackendInt64 Backend = iota
	// BackendInt128 is a 128-bit signed backend.
	BackendInt128
	// BackendFixed256 is a 256-bit signed backend.
	BackendFixed256
	// BackendFixed512 is a 512-bit signed backend.
	BackendFixed512
	// BackendBig is the arbitrary-precision fallback for the largest
	// inputs.
	BackendBig
)

// String names a Backend for logging.
func (b Backend) String() string {
	switch b {
	case BackendInt64:
		return "int64"
	case BackendInt128:
		return "int128"
	case BackendFixed256:
		return "fixed256"
	case BackendFixed512:
		return "fixed512"
	case BackendBig:
		return "bigint"
	default:
		return "unknown"
	}
}

// MaxBits returns the signed bit width of the backend, or -1 for the
// arbitrary-precision backend (which has none).
func (b Backend) MaxBits() int {
	switch b {
	case BackendInt64:
		return 64
	case BackendInt128:
		return 128
	case BackendFixed256:
		return 256
	case BackendFixed512:
		return 512
	default:
		return -1
	}
}
