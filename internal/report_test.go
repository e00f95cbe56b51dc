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

package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/ctfan/internal/solver"
	"github.com/antst/ctfan/internal/units"
)

func TestWriteReport(t *testing.T) {
	dc := referenceCase(t)
	res, err := solver.SolveForPower(dc.Thermal, dc.Geometry, dc.Fan)
	require.NoError(t, err)
	res.Warnings = []string{"check me"}

	var si bytes.Buffer
	require.NoError(t, WriteReport(&si, "Mid-size tower", units.SI, res))
	assert.Contains(t, si.String(), "Case: Mid-size tower")
	assert.Contains(t, si.String(), " kW")
	assert.Contains(t, si.String(), " °C dry bulb")
	assert.Contains(t, si.String(), "Warning: check me")

	var ip bytes.Buffer
	require.NoError(t, WriteReport(&ip, "", units.IP, res))
	assert.NotContains(t, ip.String(), "Case:")
	assert.Contains(t, ip.String(), " hp")
	assert.Contains(t, ip.String(), " cfm")
	assert.Contains(t, ip.String(), "inH₂O")
}
