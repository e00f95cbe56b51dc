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

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLogLevel(t *testing.T) {
	old := Level()
	defer SetLogLevel(old)

	SetLogLevel(zapcore.WarnLevel)
	assert.Equal(t, zapcore.WarnLevel, Level())
	assert.False(t, L().Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, L().Desugar().Core().Enabled(zapcore.ErrorLevel))
}

func TestSetupEncodings(t *testing.T) {
	defer func() { _ = Setup("console") }()

	assert.NoError(t, Setup("json"))
	assert.NotNil(t, L())
	assert.Error(t, Setup("xml"))
}
