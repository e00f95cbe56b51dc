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

// Package solver sizes the fan of a counterflow tower: it finds the dry-air mass flow at
// which the fill's available KaV/L meets the Merkel requirement, then derives pressure
// drop and shaft power.
//
// All quantities are SI: °C, kPa (ambient), m, kg/s, Pa (air side) and kW. Converting
// to and from other unit systems is the caller's job.
package solver

import (
	"math"

	"github.com/pkg/errors"

	"github.com/antst/ctfan/internal/calcerr"
	"github.com/antst/ctfan/internal/fan"
	"github.com/antst/ctfan/internal/hydraulics"
	"github.com/antst/ctfan/internal/logger"
	"github.com/antst/ctfan/internal/merkel"
	"github.com/antst/ctfan/internal/psychro"
	"github.com/antst/ctfan/internal/rootfind"
)

// SolveResult is one converged design point.
//
// PowerKW = AirflowKgps·PressureDropPa / (ηfan·ηtrans·1000), reading the dry-air mass
// flow as volumetric flow at 1 kg/m³.
type SolveResult struct {
	AirflowKgps    float64                      `json:"airflow_kgps" yaml:"airflow_kgps"`
	PressureDropPa float64                      `json:"pressure_drop_pa" yaml:"pressure_drop_pa"`
	PowerKW        float64                      `json:"power_kw" yaml:"power_kw"`
	Pressure       hydraulics.PressureBreakdown `json:"pressure" yaml:"pressure"`
	Diagnostics    fan.EfficiencyResult         `json:"diagnostics" yaml:"diagnostics"`
	Inlet          psychro.InletAirState        `json:"inlet" yaml:"inlet"`
	AmbientKPa     float64                      `json:"ambient_kpa" yaml:"ambient_kpa"`
	LG             float64                      `json:"lg" yaml:"lg"`
	KaVL           float64                      `json:"kavl" yaml:"kavl"`
	Warnings       []string                     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Solver holds immutable options and is safe for concurrent use.
type Solver struct {
	opts Options
}

func New(opts Options) (*Solver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Solver{opts: opts}, nil
}

func (s *Solver) Options() Options {
	return s.opts
}

var defaultSolver = &Solver{opts: DefaultOptions()}

// SolveForPower solves with DefaultOptions.
func SolveForPower(th ThermalInput, geo GeometryInput, fi FanInput) (SolveResult, error) {
	return defaultSolver.SolveForPower(th, geo, fi)
}

// kaVLEquation is the residual available - required at airflow g.
type kaVLEquation struct {
	fill      func(float64) float64
	water     float64 // kg/s
	params    merkel.Params
	lastError error
}

func (e *kaVLEquation) required(g float64) (float64, error) {
	if !(g > 0) {
		return 0, calcerr.Invalid("airflow", "%v kg/s must be > 0", g)
	}
	p := e.params
	p.LG = e.water / g
	return merkel.RequiredKaVL(p)
}

// residual reports an airflow at which the air would saturate before leaving the fill
// as -Inf: the requirement is unbounded there, so the supply can never meet it.
func (e *kaVLEquation) residual(g float64) (float64, error) {
	req, err := e.required(g)
	if calcerr.Is(err, calcerr.PhysicallyInfeasible) {
		e.lastError = err
		return math.Inf(-1), nil
	}
	if err != nil {
		return 0, err
	}
	return e.fill(g) - req, nil
}

// SolveForAirflow returns the converged dry-air mass flow, kg/s, and the KaV/L there.
func (s *Solver) SolveForAirflow(th ThermalInput) (float64, float64, error) {
	if err := th.Validate(); err != nil {
		return 0, 0, err
	}
	p, err := th.Pressure()
	if err != nil {
		return 0, 0, err
	}
	inlet, err := psychro.InletAirFromWbtRhPressure(th.WetBulbTemp, th.RelativeHumidity, p)
	if err != nil {
		return 0, 0, err
	}
	eq := s.equation(th, p, inlet)
	return s.solveAirflow(eq)
}

func (s *Solver) equation(th ThermalInput, p float64, inlet psychro.InletAirState) *kaVLEquation {
	return &kaVLEquation{
		fill:  s.opts.Fill.AvailableKaVL,
		water: th.WaterMassFlow(),
		params: merkel.Params{
			HotWater:   th.HotWaterTemp,
			ColdWater:  th.ColdWaterTemp,
			InletH:     inlet.Enthalpy,
			Pressure:   p,
			FillDerate: th.FillDerate,
		},
	}
}

func (s *Solver) solveAirflow(eq *kaVLEquation) (float64, float64, error) {
	bracket, err := rootfind.EnsureBracket(eq.residual, s.opts.Bracket)
	if err != nil {
		if calcerr.Is(err, calcerr.BracketNotFound) && eq.lastError != nil {
			err = errors.WithMessagef(err, "airflow never meets the requirement (last infeasible point: %v)", eq.lastError)
		}
		return 0, 0, err
	}
	logger.L().Debugf("Airflow bracket [%.4g, %.4g] kg/s", bracket.Lower, bracket.Upper)

	g, err := rootfind.Bisection(eq.residual, bracket.Lower, bracket.Upper, s.opts.Tolerance, s.opts.MaxIterations)
	if err != nil {
		return 0, 0, err
	}

	kavl, err := eq.required(g)
	if err != nil {
		return 0, 0, errors.WithMessagef(err, "at converged airflow %.4g kg/s", g)
	}
	return g, kavl, nil
}

// SolveForPower finds the airflow, pressure drop and shaft power for one design case.
// Errors carry a calcerr kind; advisory conditions are returned as warnings.
func (s *Solver) SolveForPower(th ThermalInput, geo GeometryInput, fi FanInput) (SolveResult, error) {
	if err := th.Validate(); err != nil {
		return SolveResult{}, err
	}
	if err := geo.Validate(); err != nil {
		return SolveResult{}, err
	}

	// efficiencies do not depend on airflow, fail on them before searching
	eff, err := fan.ComputeEffectiveEfficiencies(fan.EfficiencyInput{
		TotalFanEfficiency:     fi.TotalEfficiency,
		TransmissionEfficiency: fi.TransmissionEfficiency,
		TipClearance:           fi.TipClearance,
		FanDiameter:            geo.FanDiameter,
		Derate:                 s.opts.Derate,
	})
	if err != nil {
		return SolveResult{}, err
	}

	p, err := th.Pressure()
	if err != nil {
		return SolveResult{}, err
	}
	inlet, err := psychro.InletAirFromWbtRhPressure(th.WetBulbTemp, th.RelativeHumidity, p)
	if err != nil {
		return SolveResult{}, err
	}
	logger.L().Debugf("Inlet air: Tdb=%.2f °C, w=%.5f, h=%.2f kJ/kg, RH=%.4f at %.3f kPa",
		inlet.DryBulb, inlet.HumidityRatio, inlet.Enthalpy, inlet.RH, p)

	eq := s.equation(th, p, inlet)
	g, kavl, err := s.solveAirflow(eq)
	if err != nil {
		return SolveResult{}, err
	}

	pressure, err := s.opts.Hydraulics.PressureDrop(g, geo.PlanArea())
	if err != nil {
		return SolveResult{}, err
	}

	power, err := fan.ShaftPowerKW(g, pressure.Total, eff.EffectiveFanEfficiency, eff.EffectiveTransmissionEfficiency)
	if err != nil {
		return SolveResult{}, err
	}

	res := SolveResult{
		AirflowKgps:    g,
		PressureDropPa: pressure.Total,
		PowerKW:        power,
		Pressure:       pressure,
		Diagnostics:    eff,
		Inlet:          inlet,
		AmbientKPa:     p,
		LG:             eq.water / g,
		KaVL:           kavl,
		Warnings:       s.warnings(th, p, eff),
	}
	res.Diagnostics.Warnings = append([]string(nil), eff.Warnings...)

	logger.L().Debugf("Solved: G=%.3f kg/s, L/G=%.4f, KaV/L=%.4f, dP=%.4g Pa, P=%.4g kW",
		res.AirflowKgps, res.LG, res.KaVL, res.PressureDropPa, res.PowerKW)
	return res, nil
}

func (s *Solver) warnings(th ThermalInput, p float64, eff fan.EfficiencyResult) []string {
	warnings := append([]string(nil), eff.Warnings...)
	if s.opts.HighHumidity > 0 && th.RelativeHumidity > s.opts.HighHumidity {
		warnings = append(warnings, WarnHighHumidity)
	}
	if s.opts.HighAltitude > 0 {
		// a measured barometric pressure is compared against the threshold altitude's pressure
		if limit, err := psychro.PressureFromAltitude(s.opts.HighAltitude); err == nil && p < limit {
			warnings = append(warnings, WarnHighAltitude)
		}
	}
	return warnings
}
