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

package merkel

import (
	"github.com/antst/ctfan/internal/calcerr"
	"github.com/antst/ctfan/internal/psychro"
)

// CpWater is the specific heat of water, kJ/(kg·K).
const CpWater = 4.186

// Params describes one Merkel evaluation in SI units.
type Params struct {
	HotWater   float64 // °C
	ColdWater  float64 // °C
	InletH     float64 // inlet air enthalpy, kJ/kg dry air
	Pressure   float64 // kPa
	LG         float64 // water to dry-air mass flow ratio
	FillDerate float64 // fraction in [0, 1)
}

func (p Params) validate() error {
	if !(p.HotWater > p.ColdWater) {
		return calcerr.Invalid("water temperature", "hot water %v °C must be above cold water %v °C", p.HotWater, p.ColdWater)
	}
	if !(p.LG > 0) {
		return calcerr.Invalid("L/G", "%v must be > 0", p.LG)
	}
	if !(p.Pressure > psychro.MinPressure) {
		return calcerr.Invalid("pressure", "%v kPa must be above %.0f kPa", p.Pressure, psychro.MinPressure)
	}
	if !(p.FillDerate >= 0 && p.FillDerate < 1) {
		return calcerr.Invalid("fill derate", "%v must be in [0, 1)", p.FillDerate)
	}
	return nil
}

// AirEnthalpy is the air enthalpy opposite water at tw, from the heat balance along the
// water path.
func (p Params) AirEnthalpy(tw float64) float64 {
	return p.InletH + p.LG*CpWater*(p.HotWater-tw)
}

// RequiredKaVL evaluates ∫ dTw / (hs(Tw) - ha(Tw)) from cold to hot water temperature
// and raises it by 1/(1-FillDerate).
//
// The integral is PhysicallyInfeasible when the air enthalpy reaches saturation at any
// sample point, which happens when the airflow is too low for the duty.
func RequiredKaVL(p Params) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}

	base, err := Tchebycheff4(func(tw float64) (float64, error) {
		hs, err := psychro.SaturatedEnthalpy(tw, p.Pressure)
		if err != nil {
			return 0, err
		}
		ha := p.AirEnthalpy(tw)
		if d := hs - ha; d > 0 {
			return 1 / d, nil
		}
		return 0, calcerr.Infeasible("merkel driving force",
			"hs-ha <= 0 at Tw=%.2f °C (hs=%.2f, ha=%.2f kJ/kg), airflow too low for L/G=%.3f", tw, hs, ha, p.LG)
	}, p.ColdWater, p.HotWater)
	if err != nil {
		return 0, err
	}

	return base / (1 - p.FillDerate), nil
}
