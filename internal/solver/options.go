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

package solver

import (
	"github.com/antst/ctfan/internal/calcerr"
	"github.com/antst/ctfan/internal/fan"
	"github.com/antst/ctfan/internal/fill"
	"github.com/antst/ctfan/internal/hydraulics"
	"github.com/antst/ctfan/internal/rootfind"
)

const (
	WarnHighHumidity = "Relative humidity is high; inlet air is close to saturation."
	WarnHighAltitude = "Site is at high altitude; air density is well below standard."
)

// Options are the explicit defaults and strategies a Solver runs with.
type Options struct {
	Fill       fill.Curve
	Hydraulics *hydraulics.Model
	Derate     fan.Derate

	Bracket       rootfind.BracketOptions
	Tolerance     float64
	MaxIterations int

	// advisory thresholds
	HighHumidity float64 // fraction
	HighAltitude float64 // m
}

func DefaultOptions() Options {
	h, _ := hydraulics.NewModel(hydraulics.DefaultCoefficients())
	return Options{
		Fill:       fill.DefaultCurve(),
		Hydraulics: h,
		Derate:     fan.DefaultDerate(),
		Bracket: rootfind.BracketOptions{
			InitialLower:  1,
			InitialUpper:  300,
			GrowthFactor:  rootfind.DefaultGrowthFactor,
			MaxExpansions: rootfind.DefaultMaxExpansions,
		},
		Tolerance:     1e-6,
		MaxIterations: 120,
		HighHumidity:  0.9,
		HighAltitude:  1500,
	}
}

func (o Options) validate() error {
	if o.Fill == nil {
		return calcerr.Invalid("fill curve", "not configured")
	}
	if o.Hydraulics == nil {
		return calcerr.Invalid("hydraulic model", "not configured")
	}
	if o.Derate == nil {
		return calcerr.Invalid("tip clearance derate", "not configured")
	}
	if !(o.Bracket.InitialUpper > o.Bracket.InitialLower) {
		return calcerr.Invalid("airflow bracket", "[%v, %v] kg/s is empty", o.Bracket.InitialLower, o.Bracket.InitialUpper)
	}
	return nil
}
