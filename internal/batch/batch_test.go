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

package batch

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/ctfan/internal/solver"
)

const casesCSV = `name,water_flow_m3h,hot_water_c,cold_water_c,wet_bulb_c,relative_humidity,altitude_m,barometric_pressure_kpa,fill_derate,tower_width_m,tower_length_m,fan_diameter_m,fill_height_m,plenum_height_m,total_efficiency,transmission_efficiency,tip_clearance_m
mid-size,500,40,30,25,0.6,0,0,0,6,6,3,1.5,2,85,95,0.03
large clearance,500,40,30,25,0.6,0,0,0,6,6,3,1.5,2,85,95,0.06
high site,500,40,30,25,0.6,2000,0,0,6,6,3,1.5,2,0.85,0.95,0.03
`

func newSolver(t *testing.T) *solver.Solver {
	t.Helper()
	s, err := solver.New(solver.DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestReadCases(t *testing.T) {
	cases, err := ReadCases(strings.NewReader(casesCSV))
	require.NoError(t, err)
	require.Len(t, cases, 3)

	th, geo, fi := cases[0].Inputs()
	assert.Equal(t, 500.0, th.WaterFlow)
	assert.Equal(t, 40.0, th.HotWaterTemp)
	assert.Equal(t, 0.6, th.RelativeHumidity)
	assert.Equal(t, 6.0, geo.TowerLength)
	assert.Equal(t, 0.03, fi.TipClearance)
	assert.Equal(t, 2000.0, cases[2].Altitude)
}

func TestRunKeepsGoingPastFailedCase(t *testing.T) {
	cases, err := ReadCases(strings.NewReader(casesCSV))
	require.NoError(t, err)

	var mu sync.Mutex
	seen := map[string]error{}
	results, err := Run(context.Background(), newSolver(t), cases, 2,
		func(_ context.Context, c CaseRow, _ solver.SolveResult, err error) error {
			mu.Lock()
			defer mu.Unlock()
			seen[c.Name] = err
			return nil
		})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Len(t, seen, 3)

	assert.Equal(t, "mid-size", results[0].Name)
	assert.Empty(t, results[0].ErrorKind)
	assert.InDelta(t, 200.4, results[0].AirflowKgps, 0.5)
	assert.Greater(t, results[0].PowerKW, 0.0)

	assert.Equal(t, "large clearance", results[1].Name)
	assert.Equal(t, "PhysicallyInfeasible", results[1].ErrorKind)
	assert.Contains(t, results[1].Error, "tip clearance")
	assert.Zero(t, results[1].PowerKW)
	assert.Error(t, seen["large clearance"])

	assert.Empty(t, results[2].ErrorKind)
	assert.Contains(t, results[2].Warnings, solver.WarnHighAltitude)

	want, err := solver.SolveForPower(cases[0].Inputs())
	require.NoError(t, err)
	assert.Equal(t, NewResultRow("mid-size", want, nil), results[0])
}

func TestRunStopsOnCallbackError(t *testing.T) {
	cases, err := ReadCases(strings.NewReader(casesCSV))
	require.NoError(t, err)

	_, err = Run(context.Background(), newSolver(t), cases, 1,
		func(context.Context, CaseRow, solver.SolveResult, error) error {
			return errors.New("store is gone")
		})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store is gone")
}

func TestRunCancelled(t *testing.T) {
	cases, err := ReadCases(strings.NewReader(casesCSV))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, newSolver(t), cases, 2, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteResults(t *testing.T) {
	rows := []ResultRow{
		{Name: "a", AirflowKgps: 200.5, PowerKW: 0.5},
		{Name: "b", ErrorKind: "InvalidInput", Error: "InvalidInput: water flow: 0 m³/h must be > 0"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "name,airflow_kgps,lg,kavl,"))
	assert.True(t, strings.HasSuffix(lines[0], ",warnings,error_kind,error"))
	assert.True(t, strings.HasPrefix(lines[1], "a,200.5,"))
	assert.Contains(t, lines[2], "InvalidInput")
}
