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

// Package merkel integrates the Merkel equation for counterflow towers.
package merkel

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/antst/ctfan/internal/calcerr"
)

// TchebycheffPoints are the sample positions as fractions of the integration range.
var TchebycheffPoints = [4]float64{0.1, 0.4, 0.6, 0.9}

// Tchebycheff4 integrates f over [lower, upper] with the four-point Tchebycheff rule.
// Every sample carries weight (upper-lower)/4. The first error returned by f aborts the
// integration.
func Tchebycheff4(f func(x float64) (float64, error), lower, upper float64) (float64, error) {
	if math.IsNaN(lower) || math.IsNaN(upper) || !(upper > lower) {
		return 0, calcerr.Invalid("integration range", "upper bound %v must be greater than lower bound %v", upper, lower)
	}

	dx := upper - lower
	samples := make([]float64, len(TchebycheffPoints))
	for i, p := range TchebycheffPoints {
		v, err := f(lower + p*dx)
		if err != nil {
			return 0, err
		}
		samples[i] = v
	}

	return dx * floats.Sum(samples) / float64(len(samples)), nil
}
