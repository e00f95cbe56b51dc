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

package fan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/ctfan/internal/calcerr"
)

func TestNormalizeEfficiency(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.85, 0.85},
		{85, 0.85},
		{1, 1},
		{100, 1},
		{1.5, 0.015},
	}
	for _, c := range cases {
		got, err := NormalizeEfficiency(c.in, "fan")
		require.NoError(t, err)
		assert.InDelta(t, c.want, got, 1e-12, "input %v", c.in)
	}
}

func TestNormalizeEfficiencyRejects(t *testing.T) {
	for _, v := range []float64{0, -0.2, 101, math.NaN(), math.Inf(1)} {
		_, err := NormalizeEfficiency(v, "transmission efficiency")
		assert.True(t, calcerr.Is(err, calcerr.InvalidInput), "input %v", v)
		assert.Contains(t, err.Error(), "transmission efficiency")
	}
}

func TestLinearDerate(t *testing.T) {
	d := DefaultDerate()
	assert.Equal(t, 1.0, d.Factor(0))
	assert.InDelta(t, 0.95, d.Factor(0.01), 1e-12)
	assert.Equal(t, 0.5, d.Factor(0.5))
	assert.Equal(t, 1.0, d.Factor(-0.1))
}

func TestTableDerate(t *testing.T) {
	d, err := NewTableDerate([]float64{0, 0.005, 0.010, 0.015}, []float64{1, 0.985, 0.960, 0.920})
	require.NoError(t, err)

	assert.InDelta(t, 0.9725, d.Factor(0.0075), 1e-12)
	assert.Equal(t, 0.920, d.Factor(0.02))
	assert.Equal(t, 1.0, d.Factor(-1))

	low, err := NewTableDerate([]float64{0, 0.01}, []float64{0.6, 0.2})
	require.NoError(t, err)
	assert.Equal(t, 0.5, low.Factor(0.01))
}

func TestTableDerateInvalid(t *testing.T) {
	_, err := NewTableDerate([]float64{0, 0.01}, []float64{1})
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
	_, err = NewTableDerate([]float64{0.01, 0.01}, []float64{1, 0.9})
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
	_, err = NewTableDerate([]float64{0, math.NaN()}, []float64{1, 0.9})
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
}

func TestDerateStrategiesInterchangeable(t *testing.T) {
	table, err := NewTableDerate([]float64{0, 0.015}, []float64{1, 0.9})
	require.NoError(t, err)

	for _, d := range []Derate{DefaultDerate(), table} {
		r, err := ApplyTipClearanceDerate(85, 0.01, 1, d)
		require.NoError(t, err)
		assert.InDelta(t, 0.85*d.Factor(0.01), r.EffectiveFanEfficiency, 1e-12)
	}
}

func TestTipClearanceOverLimit(t *testing.T) {
	_, err := ComputeEffectiveEfficiencies(EfficiencyInput{
		TotalFanEfficiency:     85,
		TransmissionEfficiency: 95,
		TipClearance:           MaxTipClearanceRatio * 10,
		FanDiameter:            1,
	})
	assert.Equal(t, calcerr.PhysicallyInfeasible, calcerr.KindOf(err))
}

func TestTipClearanceWithinLimit(t *testing.T) {
	r, err := ComputeEffectiveEfficiencies(EfficiencyInput{
		TotalFanEfficiency:     85,
		TransmissionEfficiency: 95,
		TipClearance:           0.01,
		FanDiameter:            1,
	})
	require.NoError(t, err)
	assert.True(t, r.EffectiveFanEfficiency > 0 && r.EffectiveFanEfficiency <= 1)
	assert.InDelta(t, 0.85*0.95, r.EffectiveFanEfficiency, 1e-12)
	assert.InDelta(t, 0.95, r.EffectiveTransmissionEfficiency, 1e-12)
	assert.InDelta(t, 0.01, r.TipClearanceRatio, 1e-12)
	assert.Empty(t, r.Warnings)
}

func TestTipClearanceAdvisory(t *testing.T) {
	r, err := ComputeEffectiveEfficiencies(EfficiencyInput{
		TotalFanEfficiency:     0.8,
		TransmissionEfficiency: 0.97,
		TipClearance:           0.039,
		FanDiameter:            3,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{WarnHighTipClearance}, r.Warnings)
}

func TestApplyTipClearanceDerateValidation(t *testing.T) {
	_, err := ApplyTipClearanceDerate(0.85, -0.01, 3, nil)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
	_, err = ApplyTipClearanceDerate(0.85, 0.01, 0, nil)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
	_, err = ApplyTipClearanceDerate(0, 0.01, 3, nil)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
}

func TestShaftPowerKW(t *testing.T) {
	p, err := ShaftPowerKW(200, 150, 0.8, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 200*150/(0.8*0.95*1000), p, 1e-12)

	_, err = ShaftPowerKW(200, 150, 0, 0.95)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
	_, err = ShaftPowerKW(-1, 150, 0.8, 0.95)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
}
