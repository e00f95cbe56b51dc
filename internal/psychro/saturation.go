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

// Package psychro holds the moist-air property relations used by the tower model.
// Temperatures are in °C, pressures in kPa, humidity ratios in kg/kg dry air and
// enthalpies in kJ/kg dry air.
package psychro

import (
	"math"

	"github.com/antst/ctfan/internal/calcerr"
)

const (
	// StandardPressure is sea-level barometric pressure, kPa.
	StandardPressure = 101.325
	// MinPressure is the lowest total pressure the relations accept, kPa.
	MinPressure = 10.0
)

// SaturationPressure returns the vapor pressure of water over a flat water surface (Buck),
// valid approximately -20..50 °C.
func SaturationPressure(t float64) (float64, error) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, calcerr.Invalid("temperature", "%v °C is not finite", t)
	}
	hPa := 6.1121 * math.Exp((18.678-t/234.5)*(t/(257.14+t)))
	return hPa / 10, nil
}

// PressureFromAltitude returns the standard-atmosphere barometric pressure at alt metres.
func PressureFromAltitude(alt float64) (float64, error) {
	if math.IsNaN(alt) || math.IsInf(alt, 0) {
		return 0, calcerr.Invalid("altitude", "%v m is not finite", alt)
	}
	base := 1 - 2.25577e-5*alt
	if base <= 0 {
		return 0, calcerr.Invalid("altitude", "%.0f m is above the standard atmosphere model", alt)
	}
	p := StandardPressure * math.Pow(base, 5.25588)
	if !(p > MinPressure) {
		return 0, calcerr.Invalid("altitude", "%.0f m gives %.2f kPa, at or below %.0f kPa", alt, p, MinPressure)
	}
	return p, nil
}
