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

// Package poly implements the dense polynomial module of spec.md §4.B:
// arithmetic, evaluation, derivative and GCD for a monic integer
// polynomial f of small degree (d <= 7, spec.md §9 "Polynomial storage"),
// generic over the numeric backend selected for the current run so the
// sieve's hot-path norm evaluation never dispatches per coefficient.
//
// Modular reduction, modular GCD and sliding-window modular exponentiation
// (the (Z/pZ)[x] operations spec.md §4.B also specifies) live in modpoly.go
// over numeric.BigInt coefficients: those operations are always driven by
// a prime p chosen independently of the sieve's backend (factor-base root
// search, Couveignes square roots), so there is no hot generic path to
// preserve there the way there is for Eval/Add/Mul.
package poly

import "github.com/bfix/gnfs/numeric"

// Poly is a dense polynomial over a backend type T, coefficients indexed
// by exponent (spec.md §9: "Dense vector of coefficients indexed by
// exponent is preferred over a sparse map for the small degrees in
// scope"). Coeffs[i] is the coefficient of x^i; the polynomial is kept
// trimmed so the leading (highest-index) coefficient is never the
// backend's zero value, except for the zero polynomial which is
// represented as an empty slice.
type Poly[T numeric.Value[T]] struct {
	Coeffs []T
}

// New constructs a Poly from coefficients ordered by ascending exponent,
// trimming trailing zero coefficients.
func New[T numeric.Value[T]](coeffs []T, zero T) Poly[T] {
	p := Poly[T]{Coeffs: append([]T(nil), coeffs...)}
	p.trim(zero)
	return p
}

func (p *Poly[T]) trim(zero T) {
	n := len(p.Coeffs)
	for n > 0 && p.Coeffs[n-1].Cmp(zero) == 0 {
		n--
	}
	p.Coeffs = p.Coeffs[:n]
}

// Degree returns the polynomial's degree, or -1 for the zero polynomial.
func (p Poly[T]) Degree() int { return len(p.Coeffs) - 1 }

// IsZero reports whether p is the zero polynomial.
func (p Poly[T]) IsZero() bool { return len(p.Coeffs) == 0 }

// Clone returns an independent copy of p.
func (p Poly[T]) Clone() Poly[T] {
	return Poly[T]{Coeffs: append([]T(nil), p.Coeffs...)}
}

// Eval evaluates f(x) via Horner's method (spec.md §4.B, §8 round-trip
// property).
func (p Poly[T]) Eval(x T, zero T) T {
	acc := zero
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(p.Coeffs[i])
	}
	return acc
}

// Derivative returns f', the formal derivative of p, used by the
// square-root finder's rational side (spec.md §4.G step 3: "χ = f'(m)·β_r").
func (p Poly[T]) Derivative(zero T) Poly[T] {
	if len(p.Coeffs) <= 1 {
		return Poly[T]{}
	}
	out := make([]T, len(p.Coeffs)-1)
	for i := 1; i < len(p.Coeffs); i++ {
		// d/dx(c*x^i) = (i*c)*x^(i-1); T has no generic int-scalar
		// multiply, so i*c is accumulated by repeated addition.
		coeff := zero
		for k := 0; k < i; k++ {
			coeff = coeff.Add(p.Coeffs[i])
		}
		out[i-1] = coeff
	}
	q := Poly[T]{Coeffs: out}
	q.trim(zero)
	return q
}

// Add returns p+q.
func Add[T numeric.Value[T]](p, q Poly[T], zero T) Poly[T] {
	n := len(p.Coeffs)
	if len(q.Coeffs) > n {
		n = len(q.Coeffs)
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		c := zero
		if i < len(p.Coeffs) {
			c = c.Add(p.Coeffs[i])
		}
		if i < len(q.Coeffs) {
			c = c.Add(q.Coeffs[i])
		}
		out[i] = c
	}
	r := Poly[T]{Coeffs: out}
	r.trim(zero)
	return r
}

// Sub returns p-q.
func Sub[T numeric.Value[T]](p, q Poly[T], zero T) Poly[T] {
	n := len(p.Coeffs)
	if len(q.Coeffs) > n {
		n = len(q.Coeffs)
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		c := zero
		if i < len(p.Coeffs) {
			c = c.Add(p.Coeffs[i])
		}
		if i < len(q.Coeffs) {
			c = c.Sub(q.Coeffs[i])
		}
		out[i] = c
	}
	r := Poly[T]{Coeffs: out}
	r.trim(zero)
	return r
}

// Mul returns p*q by naive O(deg(p)*deg(q)) convolution (spec.md §4.B:
// "naive O(d²) acceptable; Karatsuba optional above d>=4" — at the
// degrees this module operates on (d <= 7), the crossover point for
// Karatsuba is never reached, so the naive path is the only one needed).
func Mul[T numeric.Value[T]](p, q Poly[T], zero T) Poly[T] {
	if p.IsZero() || q.IsZero() {
		return Poly[T]{}
	}
	out := make([]T, len(p.Coeffs)+len(q.Coeffs)-1)
	for i := range out {
		out[i] = zero
	}
	for i, pc := range p.Coeffs {
		if pc.Cmp(zero) == 0 {
			continue
		}
		for j, qc := range q.Coeffs {
			out[i+j] = out[i+j].Add(pc.Mul(qc))
		}
	}
	r := Poly[T]{Coeffs: out}
	r.trim(zero)
	return r
}

// ScalarMul returns c*p.
func ScalarMul[T numeric.Value[T]](p Poly[T], c T, zero T) Poly[T] {
	out := make([]T, len(p.Coeffs))
	for i, pc := range p.Coeffs {
		out[i] = pc.Mul(c)
	}
	r := Poly[T]{Coeffs: out}
	r.trim(zero)
	return r
}

// DivMod performs polynomial division with remainder over Z[x] for
// non-modular use (spec.md §4.B). It requires the divisor to be monic
// (exact division without fractional coefficients), which holds for the
// division-by-f use sites in this module.
func DivMod[T numeric.Value[T]](p, divisor Poly[T], zero, one T) (q, r Poly[T], ok bool) {
	if divisor.IsZero() {
		return Poly[T]{}, Poly[T]{}, false
	}
	lead := divisor.Coeffs[len(divisor.Coeffs)-1]
	if lead.Cmp(one) != 0 {
		return Poly[T]{}, Poly[T]{}, false
	}
	remainder := p.Clone()
	dDeg := divisor.Degree()
	qCoeffs := []T{}
	for remainder.Degree() >= dDeg && !remainder.IsZero() {
		shift := remainder.Degree() - dDeg
		coeff := remainder.Coeffs[remainder.Degree()]
		for len(qCoeffs) <= shift {
			qCoeffs = append(qCoeffs, zero)
		}
		qCoeffs[shift] = qCoeffs[shift].Add(coeff)

		term := make([]T, shift+1)
		for i := range term {
			term[i] = zero
		}
		term[shift] = coeff
		termPoly := Poly[T]{Coeffs: term}
		sub := Mul(termPoly, divisor, zero)
		remainder = Sub(remainder, sub, zero)
	}
	qp := Poly[T]{Coeffs: qCoeffs}
	qp.trim(zero)
	return qp, remainder, true
}
