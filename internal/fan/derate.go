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

package fan

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/antst/ctfan/internal/calcerr"
)

const (
	minDerateFactor    = 0.5
	maxDerateFactor    = 1.0
	DefaultLinearSlope = 5.0
)

// Derate maps a tip-clearance ratio (clearance/diameter) to a factor applied to the
// base fan efficiency.
type Derate interface {
	Factor(ratio float64) float64
}

func clampFactor(f float64) float64 {
	return math.Max(minDerateFactor, math.Min(maxDerateFactor, f))
}

// LinearDerate is 1 - Slope·ratio, held within [0.5, 1].
// With the default slope a 1% clearance costs 5% of efficiency.
type LinearDerate struct {
	Slope float64
}

func DefaultDerate() LinearDerate {
	return LinearDerate{Slope: DefaultLinearSlope}
}

func (d LinearDerate) Factor(ratio float64) float64 {
	return clampFactor(1 - d.Slope*ratio)
}

// TableDerate interpolates measured breakpoints, for example
// ratios {0, 0.005, 0.010, 0.015} with factors {1, 0.985, 0.960, 0.920}.
type TableDerate struct {
	ratios  []float64
	factors []float64
	pl      interp.PiecewiseLinear
}

func NewTableDerate(ratios, factors []float64) (*TableDerate, error) {
	if len(ratios) != len(factors) || len(ratios) < 2 {
		return nil, calcerr.Invalid("derate table", "need matching ratio and factor lists of at least 2 entries, got %d and %d",
			len(ratios), len(factors))
	}
	for i := range ratios {
		if math.IsNaN(ratios[i]) || math.IsNaN(factors[i]) {
			return nil, calcerr.Invalid("derate table", "entry %d is not a number", i)
		}
		if i > 0 && !(ratios[i] > ratios[i-1]) {
			return nil, calcerr.Invalid("derate table", "ratios must be strictly increasing at entry %d", i)
		}
	}

	d := &TableDerate{
		ratios:  append([]float64(nil), ratios...),
		factors: append([]float64(nil), factors...),
	}
	if err := d.pl.Fit(d.ratios, d.factors); err != nil {
		return nil, calcerr.Invalid("derate table", "%v", err)
	}
	return d, nil
}

// Factor holds the end values outside the table.
func (d *TableDerate) Factor(ratio float64) float64 {
	return clampFactor(d.pl.Predict(ratio))
}
