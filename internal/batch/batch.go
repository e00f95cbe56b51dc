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

// Package batch solves a CSV file of design cases concurrently.
package batch

import (
	"context"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/antst/ctfan/internal/calcerr"
	"github.com/antst/ctfan/internal/logger"
	"github.com/antst/ctfan/internal/solver"
)

// CaseRow is one SI design case.
type CaseRow struct {
	Name                   string  `csv:"name" json:"name"`
	WaterFlow              float64 `csv:"water_flow_m3h" json:"water_flow_m3h"`
	HotWater               float64 `csv:"hot_water_c" json:"hot_water_c"`
	ColdWater              float64 `csv:"cold_water_c" json:"cold_water_c"`
	WetBulb                float64 `csv:"wet_bulb_c" json:"wet_bulb_c"`
	RelativeHumidity       float64 `csv:"relative_humidity" json:"relative_humidity"`
	Altitude               float64 `csv:"altitude_m" json:"altitude_m"`
	BarometricPressure     float64 `csv:"barometric_pressure_kpa" json:"barometric_pressure_kpa"`
	FillDerate             float64 `csv:"fill_derate" json:"fill_derate"`
	TowerWidth             float64 `csv:"tower_width_m" json:"tower_width_m"`
	TowerLength            float64 `csv:"tower_length_m" json:"tower_length_m"`
	FanDiameter            float64 `csv:"fan_diameter_m" json:"fan_diameter_m"`
	FillHeight             float64 `csv:"fill_height_m" json:"fill_height_m"`
	PlenumHeight           float64 `csv:"plenum_height_m" json:"plenum_height_m"`
	TotalEfficiency        float64 `csv:"total_efficiency" json:"total_efficiency"`
	TransmissionEfficiency float64 `csv:"transmission_efficiency" json:"transmission_efficiency"`
	TipClearance           float64 `csv:"tip_clearance_m" json:"tip_clearance_m"`
}

func (c CaseRow) Inputs() (solver.ThermalInput, solver.GeometryInput, solver.FanInput) {
	return solver.ThermalInput{
			WaterFlow:          c.WaterFlow,
			HotWaterTemp:       c.HotWater,
			ColdWaterTemp:      c.ColdWater,
			WetBulbTemp:        c.WetBulb,
			RelativeHumidity:   c.RelativeHumidity,
			Altitude:           c.Altitude,
			BarometricPressure: c.BarometricPressure,
			FillDerate:         c.FillDerate,
		}, solver.GeometryInput{
			TowerWidth:   c.TowerWidth,
			TowerLength:  c.TowerLength,
			FanDiameter:  c.FanDiameter,
			FillHeight:   c.FillHeight,
			PlenumHeight: c.PlenumHeight,
		}, solver.FanInput{
			TotalEfficiency:        c.TotalEfficiency,
			TransmissionEfficiency: c.TransmissionEfficiency,
			TipClearance:           c.TipClearance,
		}
}

// ResultRow is the outcome of one case. A failed case has ErrorKind and Error set and
// zero values elsewhere.
type ResultRow struct {
	Name                   string  `csv:"name"`
	AirflowKgps            float64 `csv:"airflow_kgps"`
	LG                     float64 `csv:"lg"`
	KaVL                   float64 `csv:"kavl"`
	InletPa                float64 `csv:"inlet_pa"`
	FillPa                 float64 `csv:"fill_pa"`
	EliminatorPa           float64 `csv:"eliminator_pa"`
	PressureDropPa         float64 `csv:"pressure_drop_pa"`
	FanEfficiency          float64 `csv:"fan_efficiency"`
	TransmissionEfficiency float64 `csv:"transmission_efficiency"`
	PowerKW                float64 `csv:"power_kw"`
	Warnings               string  `csv:"warnings"`
	ErrorKind              string  `csv:"error_kind"`
	Error                  string  `csv:"error"`
}

func NewResultRow(name string, res solver.SolveResult, err error) ResultRow {
	if err != nil {
		return ResultRow{Name: name, ErrorKind: calcerr.KindOf(err).String(), Error: err.Error()}
	}
	return ResultRow{
		Name:                   name,
		AirflowKgps:            res.AirflowKgps,
		LG:                     res.LG,
		KaVL:                   res.KaVL,
		InletPa:                res.Pressure.Inlet,
		FillPa:                 res.Pressure.Fill,
		EliminatorPa:           res.Pressure.Eliminator,
		PressureDropPa:         res.PressureDropPa,
		FanEfficiency:          res.Diagnostics.EffectiveFanEfficiency,
		TransmissionEfficiency: res.Diagnostics.EffectiveTransmissionEfficiency,
		PowerKW:                res.PowerKW,
		Warnings:               strings.Join(res.Warnings, " "),
	}
}

func ReadCases(r io.Reader) ([]CaseRow, error) {
	var rows []CaseRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to read cases")
	}
	return rows, nil
}

func WriteResults(w io.Writer, rows []ResultRow) error {
	return errors.Wrap(gocsv.Marshal(rows, w), "failed to write results")
}

// OnSolved is called once per case from the worker that solved it.
type OnSolved func(ctx context.Context, c CaseRow, res solver.SolveResult, err error) error

// Run solves all cases with at most workers concurrent solves and returns the results
// in case order. Failed solves become error rows. Only cancellation of ctx or an error
// from onSolved stops the batch.
func Run(ctx context.Context, s *solver.Solver, cases []CaseRow, workers int, onSolved OnSolved) ([]ResultRow, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]ResultRow, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cases {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c := cases[i]
			res, err := s.SolveForPower(c.Inputs())
			if err != nil {
				logger.L().Warnf("Case %d `%v` failed: %v", i+1, c.Name, err)
			}
			results[i] = NewResultRow(c.Name, res, err)
			if onSolved != nil {
				return onSolved(gctx, c, res, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.WithMessage(err, "batch aborted")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WithMessage(err, "batch aborted")
	}
	return results, nil
}
