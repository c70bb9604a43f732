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

// Package primes implements spec.md §4.C's prime services: a segmented
// sieve, next-prime search, primality testing, Legendre/Jacobi symbols
// and Tonelli-Shanks square roots mod p. These are the shared number-
// theoretic primitives behind factor-base construction (§4.D), the
// sieve's quadratic signature (§4.E) and the square-root finder's
// Couveignes step (§4.G).
package primes

import "github.com/bfix/gnfs/numeric"

// MillerRabinRounds is the fixed witness-round count used for primality
// testing of values too large for the machine-integer trial-division
// path (spec.md §4.C: "Miller-Rabin with fixed witness set for larger
// values used during square-root extraction"). math/big's ProbablyPrime
// implements Miller-Rabin (plus a Baillie-PSW check); 40 rounds bounds the
// false-positive probability to under 2^-80, comfortably below any
// practical GNFS run's tolerance.
const MillerRabinRounds = 40

// smallMachineBound is the boundary below which spec.md §4.C allows
// "deterministic for values fitting in a machine integer (trial division
// suffices for the bounds used)".
const smallMachineBound = 1 << 20

// IsPrime reports whether n is prime. Below smallMachineBound it uses
// trial division (deterministic for the bounds this package's callers
// use); above it, Miller-Rabin with MillerRabinRounds witnesses.
func IsPrime(n numeric.BigInt) bool {
	if n.Cmp(numeric.NewBig(2)) < 0 {
		return false
	}
	if v, ok := n.Int64(); ok && v < smallMachineBound {
		return isPrimeTrialDivision(v)
	}
	return n.ProbablyPrime(MillerRabinRounds)
}

func isPrimeTrialDivision(n int64) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for d := int64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// NextPrime returns the smallest prime strictly greater than n
// (spec.md §4.C).
func NextPrime(n numeric.BigInt) numeric.BigInt {
	c := n.Add(numeric.NewBig(1))
	if c.Cmp(numeric.NewBig(2)) <= 0 {
		return numeric.NewBig(2)
	}
	if c.Big().Bit(0) == 0 {
		c = c.Add(numeric.NewBig(1))
	}
	for !IsPrime(c) {
		c = c.Add(numeric.NewBig(2))
	}
	return c
}
