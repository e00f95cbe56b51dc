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

// Package hydraulics sums the air-side static pressure losses through the tower.
package hydraulics

import (
	"math"

	"github.com/antst/ctfan/internal/calcerr"
)

// velocityHeadRef scales the loss terms: loss = K·(v/velocityHeadRef)²·densityRatio.
const velocityHeadRef = 4008.7

const minArea = 1e-6

// PressureBreakdown is in Pa.
type PressureBreakdown struct {
	Inlet      float64 `json:"inlet_pa" yaml:"inlet_pa"`
	Fill       float64 `json:"fill_pa" yaml:"fill_pa"`
	Eliminator float64 `json:"eliminator_pa" yaml:"eliminator_pa"`
	Total      float64 `json:"total_pa" yaml:"total_pa"`
}

// Coefficients are the loss coefficients of the three tower sections.
type Coefficients struct {
	Inlet        float64 `yaml:"inlet"`
	Fill         float64 `yaml:"fill"`
	Eliminator   float64 `yaml:"eliminator"`
	DensityRatio float64 `yaml:"density_ratio"`
}

func DefaultCoefficients() Coefficients {
	return Coefficients{Inlet: 2.15, Fill: 3.0, Eliminator: 2.5, DensityRatio: 1}
}

func (c Coefficients) Validate() error {
	for _, v := range []struct {
		name string
		k    float64
	}{{"inlet", c.Inlet}, {"fill", c.Fill}, {"eliminator", c.Eliminator}} {
		if math.IsNaN(v.k) || math.IsInf(v.k, 0) || v.k < 0 {
			return calcerr.Invalid("loss coefficient", "%s coefficient %v must be finite and >= 0", v.name, v.k)
		}
	}
	if !(c.DensityRatio > 0) || math.IsInf(c.DensityRatio, 0) {
		return calcerr.Invalid("density ratio", "%v must be finite and > 0", c.DensityRatio)
	}
	return nil
}

// PressureLoss is one loss term for air velocity v.
func PressureLoss(k, v, densityRatio float64) float64 {
	r := v / velocityHeadRef
	return k * r * r * densityRatio
}

// Model evaluates pressure drop with a fixed set of coefficients.
type Model struct {
	coeff Coefficients
}

func NewModel(c Coefficients) (*Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Model{coeff: c}, nil
}

func (m *Model) Coefficients() Coefficients {
	return m.coeff
}

// PressureDrop returns the losses for dry-air mass flow g (kg/s) through plan area (m²).
func (m *Model) PressureDrop(g, area float64) (PressureBreakdown, error) {
	if math.IsNaN(g) || math.IsInf(g, 0) || g < 0 {
		return PressureBreakdown{}, calcerr.Invalid("airflow", "%v kg/s must be finite and >= 0", g)
	}
	if math.IsNaN(area) || math.IsInf(area, 0) || !(area > 0) {
		return PressureBreakdown{}, calcerr.Invalid("plan area", "%v m² must be finite and > 0", area)
	}
	return m.breakdown(g / area), nil
}

func (m *Model) breakdown(v float64) PressureBreakdown {
	c := m.coeff
	pb := PressureBreakdown{
		Inlet:      PressureLoss(c.Inlet, v, c.DensityRatio),
		Fill:       PressureLoss(c.Fill, v, c.DensityRatio),
		Eliminator: PressureLoss(c.Eliminator, v, c.DensityRatio),
	}
	pb.Total = pb.Inlet + pb.Fill + pb.Eliminator
	return pb
}

var defaultModel = &Model{coeff: DefaultCoefficients()}

// TotalPressureDrop uses the default coefficients. Area is floored at 1e-6 m².
func TotalPressureDrop(g, area float64) PressureBreakdown {
	return defaultModel.breakdown(g / math.Max(area, minArea))
}
