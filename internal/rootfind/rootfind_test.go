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

package rootfind

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/ctfan/internal/calcerr"
)

func TestBisectionKnownRoot(t *testing.T) {
	root, err := Bisection(Plain(func(x float64) float64 { return x*x - 4 }), 1, 4, DefaultTolerance, DefaultMaxIterations)
	require.NoError(t, err)
	assert.InDelta(t, 2, root, 1e-4)
}

func TestBisectionDecreasingFunction(t *testing.T) {
	root, err := Bisection(Plain(func(x float64) float64 { return 3 - x }), 0, 10, 1e-9, 200)
	require.NoError(t, err)
	assert.InDelta(t, 3, root, 1e-8)
}

func TestBisectionEndpointRoot(t *testing.T) {
	root, err := Bisection(Plain(func(x float64) float64 { return x - 1 }), 1, 5, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, root)
}

func TestBisectionInfiniteEndpoint(t *testing.T) {
	f := func(x float64) (float64, error) {
		if x < 2 {
			return math.Inf(-1), nil
		}
		return x - 3, nil
	}
	root, err := Bisection(f, 1, 10, 1e-8, 120)
	require.NoError(t, err)
	assert.InDelta(t, 3, root, 1e-7)
}

func TestBisectionInvalidBracket(t *testing.T) {
	_, err := Bisection(Plain(func(x float64) float64 { return x*x + 1 }), -1, 1, 0, 0)
	assert.Equal(t, calcerr.InvalidBracket, calcerr.KindOf(err))
}

func TestBisectionConvergenceBudget(t *testing.T) {
	_, err := Bisection(Plain(func(x float64) float64 { return x - math.Pi }), 0, 100, 1e-12, 5)
	assert.Equal(t, calcerr.Convergence, calcerr.KindOf(err))
}

func TestBisectionPropagatesError(t *testing.T) {
	boom := calcerr.Infeasible("merkel denominator", "hs-ha <= 0")
	_, err := Bisection(func(x float64) (float64, error) {
		if x > 2 {
			return 0, boom
		}
		return x - 3, nil
	}, 0, 4, 0, 0)
	assert.True(t, errors.Is(err, boom))
}

func TestBisectionNaN(t *testing.T) {
	_, err := Bisection(Plain(func(x float64) float64 { return math.NaN() }), 0, 1, 0, 0)
	assert.Equal(t, calcerr.InvalidInput, calcerr.KindOf(err))
}

func TestEnsureBracketExpandsUpward(t *testing.T) {
	b, err := EnsureBracket(Plain(func(x float64) float64 { return x - 12 }), BracketOptions{
		InitialLower: 1,
		InitialUpper: 2,
	})
	require.NoError(t, err)
	assert.True(t, b.Contains(12), "bracket %+v", b)
	assert.GreaterOrEqual(t, b.Lower, minLower)
}

func TestEnsureBracketAlreadyValid(t *testing.T) {
	b, err := EnsureBracket(Plain(func(x float64) float64 { return x - 5 }), BracketOptions{
		InitialLower: 1, InitialUpper: 300, GrowthFactor: 2, MaxExpansions: 16,
	})
	require.NoError(t, err)
	assert.Equal(t, Bracket{Lower: 1, Upper: 300}, b)
}

func TestEnsureBracketLowerFloor(t *testing.T) {
	b, err := EnsureBracket(Plain(func(x float64) float64 { return x - 0.5 }), BracketOptions{
		InitialLower: 1, InitialUpper: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, minLower, b.Lower)
	assert.True(t, b.Contains(0.5))
}

func TestEnsureBracketNotFound(t *testing.T) {
	_, err := EnsureBracket(Plain(func(x float64) float64 { return 1 + x*x }), BracketOptions{
		InitialLower: 1, InitialUpper: 2, MaxExpansions: 5,
	})
	assert.Equal(t, calcerr.BracketNotFound, calcerr.KindOf(err))
}

func TestEnsureBracketThenBisect(t *testing.T) {
	f := Plain(func(x float64) float64 { return math.Log(x) - 4 })
	b, err := EnsureBracket(f, BracketOptions{InitialLower: 1, InitialUpper: 2})
	require.NoError(t, err)
	root, err := Bisection(f, b.Lower, b.Upper, 1e-9, 200)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(4), root, 1e-6)
}
