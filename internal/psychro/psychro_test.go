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

package psychro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/ctfan/internal/calcerr"
)

func TestSaturationPressureMonotonic(t *testing.T) {
	prev := 0.0
	for temp := -20.0; temp <= 50.0; temp += 0.5 {
		p, err := SaturationPressure(temp)
		require.NoError(t, err)
		assert.Greater(t, p, 0.0)
		assert.Greater(t, p, prev, "not increasing at %v °C", temp)
		prev = p
	}
}

func TestSaturationPressureAt25C(t *testing.T) {
	p, err := SaturationPressure(25)
	require.NoError(t, err)
	assert.True(t, p > 3.0 && p < 3.3, "got %v kPa", p)
}

func TestSaturationPressureNotFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := SaturationPressure(v)
		assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
	}
}

func TestPressureFromAltitude(t *testing.T) {
	p, err := PressureFromAltitude(0)
	require.NoError(t, err)
	assert.InDelta(t, StandardPressure, p, 1e-9)

	p, err = PressureFromAltitude(850)
	require.NoError(t, err)
	assert.InDelta(t, 91.5, p, 0.2)

	_, err = PressureFromAltitude(40000)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
	_, err = PressureFromAltitude(math.NaN())
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
}

func TestHumidityRatioRoundTrip(t *testing.T) {
	w, err := HumidityRatioFromVaporPressure(2.0, StandardPressure)
	require.NoError(t, err)
	pw, err := VaporPressureFromHumidityRatio(w, StandardPressure)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, pw, 1e-12)
}

func TestHumidityRatioDomain(t *testing.T) {
	cases := []struct {
		name  string
		pw, p float64
	}{
		{"zero vapor", 0, 100},
		{"vapor equals total", 100, 100},
		{"vapor above total", 120, 100},
		{"nan", math.NaN(), 100},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := HumidityRatioFromVaporPressure(c.pw, c.p)
			assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
		})
	}

	_, err := VaporPressureFromHumidityRatio(-0.001, 100)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
	_, err = VaporPressureFromHumidityRatio(0.01, 0)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
}

func TestSaturatedHumidityRatioClamped(t *testing.T) {
	// 50 °C saturation (~12.3 kPa) exceeds a 12 kPa total pressure
	w, err := SaturatedHumidityRatio(50, 12)
	require.NoError(t, err)
	assert.InDelta(t, epsilonW*0.999*12/(12-0.999*12), w, 1e-9)
}

func TestEnthalpyIncreasesWithHumidity(t *testing.T) {
	for _, temp := range []float64{-10, 0, 15, 30, 45} {
		assert.Less(t, Enthalpy(temp, 0.010), Enthalpy(temp, 0.020))
	}
	assert.InDelta(t, 30.18+0.01*(2501+55.8), Enthalpy(30, 0.01), 1e-9)
}

func TestRelativeHumidityAtSaturation(t *testing.T) {
	ws, err := SaturatedHumidityRatio(20, StandardPressure)
	require.NoError(t, err)
	rh, err := RelativeHumidity(20, ws, StandardPressure)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rh, 1e-9)
}

func TestInletAirMatchesTarget(t *testing.T) {
	s, err := InletAirFromWbtRhPressure(25, 0.6, StandardPressure)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, s.RH, 0.01)
	assert.Greater(t, s.DryBulb, 25.0)
	assert.Less(t, s.DryBulb, 65.0)

	h := Enthalpy(s.DryBulb, s.HumidityRatio)
	assert.Equal(t, h, s.Enthalpy)
	rh, err := RelativeHumidity(s.DryBulb, s.HumidityRatio, StandardPressure)
	require.NoError(t, err)
	assert.InDelta(t, s.RH, rh, 1e-12)
}

func TestInletAirNormalCaseBounded(t *testing.T) {
	s, err := InletAirFromWbtRhPressure(24, 0.5, StandardPressure)
	require.NoError(t, err)
	assert.True(t, s.RH > 0 && s.RH <= 1.1)
	assert.InDelta(t, 0.5, s.RH, 1e-5)
}

func TestInletAirSaturated(t *testing.T) {
	s, err := InletAirFromWbtRhPressure(20, 1, StandardPressure)
	require.NoError(t, err)
	assert.InDelta(t, 20, s.DryBulb, 0.01)
}

func TestInletAirInvalid(t *testing.T) {
	_, err := InletAirFromWbtRhPressure(25, 0, StandardPressure)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
	_, err = InletAirFromWbtRhPressure(25, 1.2, StandardPressure)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
	_, err = InletAirFromWbtRhPressure(25, 0.5, 9)
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
}

func TestInletAirUnreachableTarget(t *testing.T) {
	// a 0.1% target needs more than 40 K of wet-bulb depression
	_, err := InletAirFromWbtRhPressure(25, 0.001, StandardPressure)
	assert.True(t, calcerr.Is(err, calcerr.Convergence))
}
