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

package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/antst/ctfan/internal/calcerr"
	"github.com/antst/ctfan/internal/solver"
	"github.com/antst/ctfan/internal/units"
)

type ProjectConfig struct {
	Name    string `yaml:"name" json:"name"`
	Country string `yaml:"country,omitempty" json:"country,omitempty"`
	City    string `yaml:"city,omitempty" json:"city,omitempty"`
}

// ThermalCaseConfig is entered in the case's unit system. Hot water is either given
// directly or as Range above cold water.
type ThermalCaseConfig struct {
	WaterFlow          float64  `yaml:"water_flow" json:"water_flow"`
	HotWater           *float64 `yaml:"hot_water,omitempty" json:"hot_water,omitempty"`
	ColdWater          float64  `yaml:"cold_water" json:"cold_water"`
	Range              *float64 `yaml:"range,omitempty" json:"range,omitempty"`
	WetBulb            float64  `yaml:"wet_bulb" json:"wet_bulb"`
	RelativeHumidity   float64  `yaml:"relative_humidity" json:"relative_humidity"`
	Altitude           float64  `yaml:"altitude" json:"altitude"`
	BarometricPressure float64  `yaml:"barometric_pressure_kpa,omitempty" json:"barometric_pressure_kpa,omitempty"`
	FillDerate         float64  `yaml:"fill_derate,omitempty" json:"fill_derate,omitempty"`
}

type GeometryCaseConfig struct {
	TowerWidth   float64 `yaml:"tower_width" json:"tower_width"`
	TowerLength  float64 `yaml:"tower_length" json:"tower_length"`
	FanDiameter  float64 `yaml:"fan_diameter" json:"fan_diameter"`
	FillHeight   float64 `yaml:"fill_height" json:"fill_height"`
	PlenumHeight float64 `yaml:"plenum_height" json:"plenum_height"`
}

type FanCaseConfig struct {
	TotalEfficiency        float64 `yaml:"total_efficiency" json:"total_efficiency"`
	TransmissionEfficiency float64 `yaml:"transmission_efficiency" json:"transmission_efficiency"`
	TipClearance           float64 `yaml:"tip_clearance" json:"tip_clearance"`
}

// CaseConfig is one design case. Barometric pressure is always kPa and relative
// humidity always a fraction, whatever the unit system.
type CaseConfig struct {
	Project  ProjectConfig      `yaml:"project" json:"project"`
	Units    string             `yaml:"units" json:"units"`
	Thermal  ThermalCaseConfig  `yaml:"thermal" json:"thermal"`
	Geometry GeometryCaseConfig `yaml:"geometry" json:"geometry"`
	Fan      FanCaseConfig      `yaml:"fan" json:"fan"`
}

// DesignCase is a case converted to the SI inputs of the solver.
type DesignCase struct {
	Name     string
	System   units.System
	Thermal  solver.ThermalInput
	Geometry solver.GeometryInput
	Fan      solver.FanInput
}

func ParseCase(data []byte) (*CaseConfig, error) {
	c := &CaseConfig{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal design case")
	}
	return c, nil
}

func LoadCase(fileName string) (*CaseConfig, error) {
	data, err := os.ReadFile(expandHome(fileName))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read design case")
	}
	return ParseCase(data)
}

// ToSI converts the case into solver inputs.
func (c *CaseConfig) ToSI() (DesignCase, error) {
	sys, err := units.ParseSystem(c.Units)
	if err != nil {
		return DesignCase{}, calcerr.Invalid("units", "%v", err)
	}
	si := func(q units.Quantity, v float64) float64 {
		return units.FromDisplay(q, sys, v)
	}

	th := c.Thermal
	coldWater := si(units.Temperature, th.ColdWater)
	var hotWater float64
	switch {
	case th.HotWater != nil:
		hotWater = si(units.Temperature, *th.HotWater)
	case th.Range != nil:
		hotWater = coldWater + si(units.TemperatureDifference, *th.Range)
	default:
		return DesignCase{}, calcerr.Invalid("hot water temperature", "neither hot_water nor range is given")
	}

	return DesignCase{
		Name:   c.Project.Name,
		System: sys,
		Thermal: solver.ThermalInput{
			WaterFlow:          si(units.WaterFlow, th.WaterFlow),
			HotWaterTemp:       hotWater,
			ColdWaterTemp:      coldWater,
			WetBulbTemp:        si(units.Temperature, th.WetBulb),
			RelativeHumidity:   th.RelativeHumidity,
			Altitude:           si(units.Length, th.Altitude),
			BarometricPressure: th.BarometricPressure,
			FillDerate:         th.FillDerate,
		},
		Geometry: solver.GeometryInput{
			TowerWidth:   si(units.Length, c.Geometry.TowerWidth),
			TowerLength:  si(units.Length, c.Geometry.TowerLength),
			FanDiameter:  si(units.Length, c.Geometry.FanDiameter),
			FillHeight:   si(units.Length, c.Geometry.FillHeight),
			PlenumHeight: si(units.Length, c.Geometry.PlenumHeight),
		},
		Fan: solver.FanInput{
			TotalEfficiency:        c.Fan.TotalEfficiency,
			TransmissionEfficiency: c.Fan.TransmissionEfficiency,
			TipClearance:           si(units.Length, c.Fan.TipClearance),
		},
	}, nil
}
