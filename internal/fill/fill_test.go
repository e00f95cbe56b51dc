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

package fill

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/ctfan/internal/calcerr"
)

func TestLogCurveMonotonic(t *testing.T) {
	c := DefaultCurve()
	require.NoError(t, c.Validate())

	assert.Equal(t, DefaultLogA, c.AvailableKaVL(0.5))
	assert.Equal(t, DefaultLogA, c.AvailableKaVL(1))
	prev := c.AvailableKaVL(1)
	for g := 2.0; g < 2000; g *= 1.5 {
		v := c.AvailableKaVL(g)
		assert.Greater(t, v, prev)
		prev = v
	}
	assert.InDelta(t, 0.5+0.08*math.Log(300), c.AvailableKaVL(300), 1e-12)
}

func TestLogCurveValidate(t *testing.T) {
	assert.Error(t, LogCurve{A: 0.5, B: 0}.Validate())
	assert.Error(t, LogCurve{A: math.NaN(), B: 0.1}.Validate())
}

func TestTableCurveInterpolatesAndClamps(t *testing.T) {
	c, err := NewTableCurve([]Point{{Airflow: 200, KaVL: 1.4}, {Airflow: 100, KaVL: 1.0}, {Airflow: 300, KaVL: 1.6}})
	require.NoError(t, err)

	assert.InDelta(t, 1.2, c.AvailableKaVL(150), 1e-12)
	assert.InDelta(t, 1.5, c.AvailableKaVL(250), 1e-12)
	assert.Equal(t, 1.0, c.AvailableKaVL(10))
	assert.Equal(t, 1.6, c.AvailableKaVL(1000))
	assert.Equal(t, 100.0, c.Points()[0].Airflow)
}

func TestTableCurveRejectsBadData(t *testing.T) {
	_, err := NewTableCurve([]Point{{Airflow: 100, KaVL: 1}})
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))

	_, err = NewTableCurve([]Point{{Airflow: 100, KaVL: 1}, {Airflow: 200, KaVL: 0.9}})
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))

	_, err = NewTableCurve([]Point{{Airflow: 100, KaVL: 1}, {Airflow: 100, KaVL: 1.2}})
	assert.True(t, calcerr.Is(err, calcerr.InvalidInput))
}

func TestReadTableCurve(t *testing.T) {
	csv := "airflow_kgps,kavl\n50,0.8\n150,1.1\n250,1.3\n"
	c, err := ReadTableCurve(strings.NewReader(csv))
	require.NoError(t, err)
	assert.InDelta(t, 0.95, c.AvailableKaVL(100), 1e-12)
}
