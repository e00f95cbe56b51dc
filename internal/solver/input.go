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
	"math"

	"github.com/antst/ctfan/internal/calcerr"
	"github.com/antst/ctfan/internal/psychro"
)

// waterDensity converts m³/h of water to kg/s.
const waterDensity = 1000.0

// ThermalInput is the water-side duty and ambient state, SI units.
type ThermalInput struct {
	WaterFlow        float64 `json:"water_flow_m3h" yaml:"water_flow_m3h"`
	HotWaterTemp     float64 `json:"hot_water_c" yaml:"hot_water_c"`
	ColdWaterTemp    float64 `json:"cold_water_c" yaml:"cold_water_c"`
	WetBulbTemp      float64 `json:"wet_bulb_c" yaml:"wet_bulb_c"`
	RelativeHumidity float64 `json:"relative_humidity" yaml:"relative_humidity"`
	Altitude         float64 `json:"altitude_m" yaml:"altitude_m"`

	// BarometricPressure, kPa, overrides Altitude when > 0.
	BarometricPressure float64 `json:"barometric_pressure_kpa,omitempty" yaml:"barometric_pressure_kpa,omitempty"`
	FillDerate         float64 `json:"fill_derate,omitempty" yaml:"fill_derate,omitempty"`
}

func (t ThermalInput) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"water flow", t.WaterFlow},
		{"hot water temperature", t.HotWaterTemp},
		{"cold water temperature", t.ColdWaterTemp},
		{"wet-bulb temperature", t.WetBulbTemp},
		{"relative humidity", t.RelativeHumidity},
		{"altitude", t.Altitude},
		{"barometric pressure", t.BarometricPressure},
		{"fill derate", t.FillDerate},
	} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return calcerr.Invalid(v.name, "%v is not a finite number", v.val)
		}
	}
	if !(t.WaterFlow > 0) {
		return calcerr.Invalid("water flow", "%v m³/h must be > 0", t.WaterFlow)
	}
	if !(t.HotWaterTemp > t.ColdWaterTemp) {
		return calcerr.Invalid("water temperature", "hot water %v °C must be above cold water %v °C", t.HotWaterTemp, t.ColdWaterTemp)
	}
	if !(t.RelativeHumidity > 0 && t.RelativeHumidity <= 1) {
		return calcerr.Invalid("relative humidity", "%v must be a fraction in (0, 1]", t.RelativeHumidity)
	}
	if !(t.FillDerate >= 0 && t.FillDerate < 1) {
		return calcerr.Invalid("fill derate", "%v must be in [0, 1)", t.FillDerate)
	}
	if t.BarometricPressure < 0 {
		return calcerr.Invalid("barometric pressure", "%v kPa must be > 0", t.BarometricPressure)
	}
	_, err := t.Pressure()
	return err
}

// Pressure is the total pressure in kPa, from BarometricPressure when given, otherwise
// from Altitude.
func (t ThermalInput) Pressure() (float64, error) {
	if t.BarometricPressure > 0 {
		if !(t.BarometricPressure > psychro.MinPressure) {
			return 0, calcerr.Invalid("barometric pressure", "%v kPa must be above %.0f kPa", t.BarometricPressure, psychro.MinPressure)
		}
		return t.BarometricPressure, nil
	}
	return psychro.PressureFromAltitude(t.Altitude)
}

// WaterMassFlow is the water flow in kg/s.
func (t ThermalInput) WaterMassFlow() float64 {
	return t.WaterFlow * waterDensity / 3600
}

// GeometryInput is in metres.
type GeometryInput struct {
	TowerWidth   float64 `json:"tower_width_m" yaml:"tower_width_m"`
	TowerLength  float64 `json:"tower_length_m" yaml:"tower_length_m"`
	FanDiameter  float64 `json:"fan_diameter_m" yaml:"fan_diameter_m"`
	FillHeight   float64 `json:"fill_height_m" yaml:"fill_height_m"`
	PlenumHeight float64 `json:"plenum_height_m" yaml:"plenum_height_m"`
}

func (g GeometryInput) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"tower width", g.TowerWidth},
		{"tower length", g.TowerLength},
		{"fan diameter", g.FanDiameter},
		{"fill height", g.FillHeight},
		{"plenum height", g.PlenumHeight},
	} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) || !(v.val > 0) {
			return calcerr.Invalid(v.name, "%v m must be finite and > 0", v.val)
		}
	}
	return nil
}

// PlanArea is the tower plan area in m².
func (g GeometryInput) PlanArea() float64 {
	return g.TowerWidth * g.TowerLength
}

// FanInput efficiencies may be fractions or percentages.
type FanInput struct {
	TotalEfficiency        float64 `json:"total_efficiency" yaml:"total_efficiency"`
	TransmissionEfficiency float64 `json:"transmission_efficiency" yaml:"transmission_efficiency"`
	TipClearance           float64 `json:"tip_clearance_m" yaml:"tip_clearance_m"`
}
