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

package psychro

import (
	"math"

	"github.com/antst/ctfan/internal/calcerr"
)

const (
	inletBracketSpan = 40.0
	inletMaxIter     = 80
	inletRHTolerance = 1e-5
)

// InletAirState is the tower inlet air, derived from wet-bulb, RH and pressure.
type InletAirState struct {
	DryBulb       float64 `json:"dry_bulb_c" yaml:"dry_bulb_c"`
	HumidityRatio float64 `json:"humidity_ratio" yaml:"humidity_ratio"`
	Enthalpy      float64 `json:"enthalpy_kj_kg" yaml:"enthalpy_kj_kg"`
	RH            float64 `json:"rh" yaml:"rh"`
}

// InletAirFromWbtRhPressure recovers the dry-bulb state whose relative humidity matches
// rhTarget (fraction) for wet-bulb twb (°C) at total pressure p (kPa).
//
// The vapor pressure for a trial dry-bulb comes from the psychrometer equation, which
// makes the predicted RH decrease monotonically with dry-bulb over [twb, twb+40].
func InletAirFromWbtRhPressure(twb, rhTarget, p float64) (InletAirState, error) {
	if !finite(rhTarget) || !(rhTarget > 0 && rhTarget <= 1) {
		return InletAirState{}, calcerr.Invalid("relative humidity", "%v must be in (0, 1]", rhTarget)
	}
	if !finite(p) || !(p > MinPressure) {
		return InletAirState{}, calcerr.Invalid("pressure", "%v kPa must be above %.0f kPa", p, MinPressure)
	}
	pwsWB, err := SaturationPressure(twb)
	if err != nil {
		return InletAirState{}, err
	}

	gamma := 0.00066 * (1 + 0.00115*twb)
	eval := func(tdb float64) (InletAirState, error) {
		pw := pwsWB - gamma*p*(tdb-twb)
		pw = math.Min(math.Max(pw, 0.001), 0.99*p)
		w, err := HumidityRatioFromVaporPressure(pw, p)
		if err != nil {
			return InletAirState{}, err
		}
		rh, err := RelativeHumidity(tdb, w, p)
		if err != nil {
			return InletAirState{}, err
		}
		return InletAirState{DryBulb: tdb, HumidityRatio: w, Enthalpy: Enthalpy(tdb, w), RH: rh}, nil
	}

	lo0, hi0 := twb, twb+inletBracketSpan
	lo, hi := lo0, hi0
	var state InletAirState
	for i := 0; i < inletMaxIter; i++ {
		mid := (lo + hi) / 2
		if mid < lo0 || mid > hi0 {
			return InletAirState{}, calcerr.New(calcerr.Convergence, "dry-bulb temperature",
				"%.4f °C left the bracket [%.2f, %.2f] °C", mid, lo0, hi0)
		}
		if state, err = eval(mid); err != nil {
			return InletAirState{}, err
		}
		diff := state.RH - rhTarget
		if math.Abs(diff) < inletRHTolerance {
			return state, nil
		}
		if diff > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	return InletAirState{}, calcerr.New(calcerr.Convergence, "relative humidity",
		"target %.4f not reachable for wet-bulb %.2f °C within [%.2f, %.2f] °C dry-bulb (closest %.4f)",
		rhTarget, twb, lo0, hi0, state.RH)
}
