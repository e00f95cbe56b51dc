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

// Package fan derives effective fan and drive efficiencies and the fan shaft power.
package fan

import (
	"math"

	"github.com/antst/ctfan/internal/calcerr"
)

const (
	// MaxTipClearanceRatio is the hard limit on clearance/diameter.
	MaxTipClearanceRatio = 0.015
	// WarnTipClearanceRatio starts the high-clearance advisory.
	WarnTipClearanceRatio = 0.012

	WarnHighTipClearance = "Tip clearance is high; fan efficiency may be significantly reduced."
)

type EfficiencyInput struct {
	TotalFanEfficiency     float64 // fraction (0.85) or percent (85)
	TransmissionEfficiency float64 // fraction (0.95) or percent (95)
	TipClearance           float64 // same length unit as FanDiameter
	FanDiameter            float64

	// Derate defaults to DefaultDerate when nil.
	Derate Derate
}

type EfficiencyResult struct {
	EffectiveFanEfficiency          float64  `json:"effective_fan_efficiency" yaml:"effective_fan_efficiency"`
	EffectiveTransmissionEfficiency float64  `json:"effective_transmission_efficiency" yaml:"effective_transmission_efficiency"`
	TipClearanceRatio               float64  `json:"tip_clearance_ratio" yaml:"tip_clearance_ratio"`
	TipClearanceDerateFactor        float64  `json:"tip_clearance_derate_factor" yaml:"tip_clearance_derate_factor"`
	Warnings                        []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type TipClearanceResult struct {
	EffectiveFanEfficiency float64
	Ratio                  float64
	DerateFactor           float64
	Warnings               []string
}

// NormalizeEfficiency accepts 0.85 or 85 and returns 0.85.
func NormalizeEfficiency(x float64, label string) (float64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, calcerr.Invalid(label, "%v is not a finite number", x)
	}
	if x <= 0 {
		return 0, calcerr.Invalid(label, "%v must be > 0", x)
	}
	v := x
	if v > 1 {
		v /= 100
	}
	if v <= 0 || v > 1 {
		return 0, calcerr.Invalid(label, "%v must be between 0 and 1 (or 0..100%%)", x)
	}
	return v, nil
}

// ApplyTipClearanceDerate derates the base fan efficiency for the clearance between blade
// tip and shroud. A ratio above MaxTipClearanceRatio is PhysicallyInfeasible.
func ApplyTipClearanceDerate(baseFanEfficiency, tipClearance, fanDiameter float64, derate Derate) (TipClearanceResult, error) {
	eff, err := NormalizeEfficiency(baseFanEfficiency, "total fan efficiency")
	if err != nil {
		return TipClearanceResult{}, err
	}
	if math.IsNaN(tipClearance) || math.IsInf(tipClearance, 0) || tipClearance < 0 {
		return TipClearanceResult{}, calcerr.Invalid("tip clearance", "%v must be finite and >= 0", tipClearance)
	}
	if math.IsNaN(fanDiameter) || math.IsInf(fanDiameter, 0) || !(fanDiameter > 0) {
		return TipClearanceResult{}, calcerr.Invalid("fan diameter", "%v must be finite and > 0", fanDiameter)
	}

	ratio := tipClearance / fanDiameter
	if ratio > MaxTipClearanceRatio {
		return TipClearanceResult{}, calcerr.Infeasible("tip clearance",
			"exceeds 1.5%% of fan diameter (ratio=%.2f%%)", ratio*100)
	}

	var warnings []string
	if ratio > WarnTipClearanceRatio {
		warnings = append(warnings, WarnHighTipClearance)
	}

	if derate == nil {
		derate = DefaultDerate()
	}
	factor := derate.Factor(ratio)

	return TipClearanceResult{
		EffectiveFanEfficiency: eff * factor,
		Ratio:                  ratio,
		DerateFactor:           factor,
		Warnings:               warnings,
	}, nil
}

func ComputeEffectiveEfficiencies(in EfficiencyInput) (EfficiencyResult, error) {
	fanEff, err := NormalizeEfficiency(in.TotalFanEfficiency, "total fan efficiency")
	if err != nil {
		return EfficiencyResult{}, err
	}
	transEff, err := NormalizeEfficiency(in.TransmissionEfficiency, "transmission efficiency")
	if err != nil {
		return EfficiencyResult{}, err
	}

	tip, err := ApplyTipClearanceDerate(fanEff, in.TipClearance, in.FanDiameter, in.Derate)
	if err != nil {
		return EfficiencyResult{}, err
	}

	return EfficiencyResult{
		EffectiveFanEfficiency:          tip.EffectiveFanEfficiency,
		EffectiveTransmissionEfficiency: transEff,
		TipClearanceRatio:               tip.Ratio,
		TipClearanceDerateFactor:        tip.DerateFactor,
		Warnings:                        tip.Warnings,
	}, nil
}

// ShaftPowerKW returns kW for airflow in kg/s and pressure in Pa. The airflow is taken as
// volumetric flow at a reference density of 1 kg/m³, so airflow·pressure is in W.
func ShaftPowerKW(airflow, pressure, fanEfficiency, transmissionEfficiency float64) (float64, error) {
	if !(fanEfficiency > 0 && fanEfficiency <= 1) || !(transmissionEfficiency > 0 && transmissionEfficiency <= 1) {
		return 0, calcerr.Invalid("efficiency", "fan %v and transmission %v must be in (0, 1]", fanEfficiency, transmissionEfficiency)
	}
	if math.IsNaN(airflow) || math.IsNaN(pressure) || airflow < 0 || pressure < 0 {
		return 0, calcerr.Invalid("shaft power", "airflow %v kg/s and pressure %v Pa must be >= 0", airflow, pressure)
	}
	return airflow * pressure / (fanEfficiency * transmissionEfficiency * 1000), nil
}
