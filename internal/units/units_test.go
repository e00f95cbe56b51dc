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

package units

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSystem(t *testing.T) {
	s, err := ParseSystem("ip")
	require.NoError(t, err)
	assert.Equal(t, IP, s)

	s, err = ParseSystem("")
	require.NoError(t, err)
	assert.Equal(t, SI, s)

	_, err = ParseSystem("imperial")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "`imperial`")
	_, traced := err.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, traced)
}

func TestKnownConversions(t *testing.T) {
	assert.InDelta(t, 86.0, CToF(30), 1e-12)
	assert.InDelta(t, 1.0, InH2OToPa(PaToInH2O(1)), 1e-12)
	assert.InDelta(t, 2201.435, M3hToGPM(500), 1e-9)
	assert.InDelta(t, 9.84252, MToFt(3), 1e-9)
	assert.InDelta(t, 100.0, KWToHP(HPToKW(100)), 1e-9)
	assert.InDelta(t, 18.0, KToFDelta(10), 1e-12)
}

func TestRoundTrips(t *testing.T) {
	for _, q := range []Quantity{Temperature, TemperatureDifference, WaterFlow, AirFlow, Length, Pressure, Power} {
		for _, v := range []float64{-12.5, 0, 1, 37.2, 1250} {
			ip := ToDisplay(q, IP, v)
			assert.InDelta(t, v, FromDisplay(q, IP, ip), 1e-9, "%v %v", q, v)
			assert.Equal(t, v, ToDisplay(q, SI, v))
		}
	}
}

func TestLabelAndFormat(t *testing.T) {
	assert.Equal(t, "gpm", Label(WaterFlow, IP))
	assert.Equal(t, "m³/h", Label(WaterFlow, SI))
	assert.Equal(t, "", Label(Quantity("mass"), SI))
	assert.Equal(t, "86.0 °F", Format(Temperature, IP, 30, 1))
	assert.Equal(t, "30.00 °C", Format(Temperature, SI, 30, 2))
}
