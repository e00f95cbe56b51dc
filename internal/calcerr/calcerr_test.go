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

package calcerr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOfThroughWrapping(t *testing.T) {
	err := Infeasible("tip clearance", "ratio %.2f%% exceeds 1.5%%", 2.0)
	wrapped := errors.WithMessage(err, "case `north cell`")

	assert.Equal(t, PhysicallyInfeasible, KindOf(wrapped))
	assert.True(t, Is(wrapped, PhysicallyInfeasible))
	assert.False(t, Is(wrapped, InvalidInput))
	assert.Contains(t, wrapped.Error(), "tip clearance")
	assert.Contains(t, wrapped.Error(), "PhysicallyInfeasible")
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Unknown, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, Unknown))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "BracketNotFound", BracketNotFound.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestErrorWithoutQuantity(t *testing.T) {
	assert.Equal(t, "Convergence: no root after 3 iterations", New(Convergence, "", "no root after %d iterations", 3).Error())
}
