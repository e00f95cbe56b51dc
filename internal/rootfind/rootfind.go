/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CTFAN project.
 *
 * CTFAN is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package rootfind brackets and bisects scalar functions.
//
// Functions may fail; their errors are returned unchanged so that a physical failure
// deep inside a residual reaches the caller with its original kind.
package rootfind

import (
	"math"

	"github.com/antst/ctfan/internal/calcerr"
)

const (
	DefaultTolerance     = 1e-5
	DefaultMaxIterations = 100
	DefaultGrowthFactor  = 1.8
	DefaultMaxExpansions = 20

	// lower bounds never expand below this, the searched quantities are positive
	minLower = 1e-6
)

// Func is a residual.
type Func func(x float64) (float64, error)

// Plain adapts a function that cannot fail.
func Plain(f func(float64) float64) Func {
	return func(x float64) (float64, error) {
		return f(x), nil
	}
}

type Bracket struct {
	Lower float64
	Upper float64
}

func (b Bracket) Contains(x float64) bool {
	return b.Lower <= x && x <= b.Upper
}

type BracketOptions struct {
	InitialLower  float64
	InitialUpper  float64
	GrowthFactor  float64
	MaxExpansions int
}

func (o BracketOptions) withDefaults() BracketOptions {
	if o.GrowthFactor <= 0 {
		o.GrowthFactor = DefaultGrowthFactor
	}
	if o.MaxExpansions <= 0 {
		o.MaxExpansions = DefaultMaxExpansions
	}
	return o
}

func evaluate(f Func, x float64) (float64, error) {
	v, err := f(x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, calcerr.Invalid("residual", "not a number at x=%g", x)
	}
	return v, nil
}

func straddles(fa, fb float64) bool {
	return fa == 0 || fb == 0 || (fa < 0) != (fb < 0)
}

// Bisection returns a root of f inside [lower, upper]. The interval must contain a sign
// change. It stops when |f(mid)| < tolerance or the interval is narrower than tolerance.
func Bisection(f Func, lower, upper, tolerance float64, maxIterations int) (float64, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if lower > upper {
		lower, upper = upper, lower
	}

	fa, err := evaluate(f, lower)
	if err != nil {
		return 0, err
	}
	fb, err := evaluate(f, upper)
	if err != nil {
		return 0, err
	}
	if !straddles(fa, fb) {
		return 0, calcerr.New(calcerr.InvalidBracket, "bracket",
			"f(%g)=%g and f(%g)=%g have the same sign", lower, fa, upper, fb)
	}
	if fa == 0 {
		return lower, nil
	}
	if fb == 0 {
		return upper, nil
	}

	a, b := lower, upper
	for i := 0; i < maxIterations; i++ {
		mid := (a + b) / 2
		fm, err := evaluate(f, mid)
		if err != nil {
			return 0, err
		}
		if math.Abs(fm) < tolerance || (b-a) < tolerance {
			return mid, nil
		}
		if (fa < 0) != (fm < 0) {
			b = mid
		} else {
			a, fa = mid, fm
		}
	}

	return 0, calcerr.New(calcerr.Convergence, "root",
		"no convergence to %g after %d iterations in [%g, %g]", tolerance, maxIterations, a, b)
}

// EnsureBracket widens [InitialLower, InitialUpper] geometrically until f changes sign.
// The lower bound shrinks by GrowthFactor times the current width and is floored at a
// small positive value, the upper bound grows by the same amount.
func EnsureBracket(f Func, opts BracketOptions) (Bracket, error) {
	opts = opts.withDefaults()
	lo, hi := opts.InitialLower, opts.InitialUpper
	if lo > hi {
		lo, hi = hi, lo
	}
	lo = math.Max(lo, minLower)
	if !(hi > lo) {
		return Bracket{}, calcerr.Invalid("bracket", "upper bound %g must exceed lower bound %g", hi, lo)
	}

	flo, err := evaluate(f, lo)
	if err != nil {
		return Bracket{}, err
	}
	fhi, err := evaluate(f, hi)
	if err != nil {
		return Bracket{}, err
	}

	for i := 0; ; i++ {
		if straddles(flo, fhi) {
			return Bracket{Lower: lo, Upper: hi}, nil
		}
		if i >= opts.MaxExpansions {
			break
		}

		width := hi - lo
		if newLo := math.Max(lo-opts.GrowthFactor*width, minLower); newLo != lo {
			lo = newLo
			if flo, err = evaluate(f, lo); err != nil {
				return Bracket{}, err
			}
		}
		hi += opts.GrowthFactor * width
		if fhi, err = evaluate(f, hi); err != nil {
			return Bracket{}, err
		}
	}

	return Bracket{}, calcerr.New(calcerr.BracketNotFound, "bracket",
		"no sign change in [%g, %g] after %d expansions", lo, hi, opts.MaxExpansions)
}
