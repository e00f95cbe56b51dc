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

// molecular mass ratio of water vapor to dry air
const epsilonW = 0.62198

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// HumidityRatioFromVaporPressure needs 0 < pw < p.
func HumidityRatioFromVaporPressure(pw, p float64) (float64, error) {
	if !finite(pw) || !finite(p) || !(pw > 0) || !(pw < p) {
		return 0, calcerr.Invalid("vapor pressure", "need 0 < Pw < P, got Pw=%v kPa, P=%v kPa", pw, p)
	}
	return epsilonW * pw / (p - pw), nil
}

// VaporPressureFromHumidityRatio needs w >= 0 and p > 0.
func VaporPressureFromHumidityRatio(w, p float64) (float64, error) {
	if !finite(w) || w < 0 {
		return 0, calcerr.Invalid("humidity ratio", "need w >= 0, got %v", w)
	}
	if !finite(p) || !(p > 0) {
		return 0, calcerr.Invalid("pressure", "need P > 0, got %v kPa", p)
	}
	return w * p / (epsilonW + w), nil
}

// SaturatedHumidityRatio clamps the saturation pressure to 0.999·p so that the
// relation stays finite at low pressure or high temperature.
func SaturatedHumidityRatio(t, p float64) (float64, error) {
	pws, err := SaturationPressure(t)
	if err != nil {
		return 0, err
	}
	return HumidityRatioFromVaporPressure(math.Min(pws, 0.999*p), p)
}

// Enthalpy of moist air, ASHRAE approximation.
func Enthalpy(t, w float64) float64 {
	return 1.006*t + w*(2501+1.86*t)
}

// SaturatedEnthalpy is the enthalpy of saturated air at the water/air interface temperature t.
func SaturatedEnthalpy(t, p float64) (float64, error) {
	ws, err := SaturatedHumidityRatio(t, p)
	if err != nil {
		return 0, err
	}
	return Enthalpy(t, ws), nil
}

// RelativeHumidity returns a fraction; it may exceed 1 for supersaturated input.
func RelativeHumidity(t, w, p float64) (float64, error) {
	pw, err := VaporPressureFromHumidityRatio(w, p)
	if err != nil {
		return 0, err
	}
	pws, err := SaturationPressure(t)
	if err != nil {
		return 0, err
	}
	return pw / pws, nil
}
