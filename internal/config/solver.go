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

package config

import (
	"os"

	"github.com/pkg/errors"

	"github.com/antst/ctfan/internal/fan"
	"github.com/antst/ctfan/internal/fill"
	"github.com/antst/ctfan/internal/hydraulics"
	"github.com/antst/ctfan/internal/solver"
)

// FillConfig selects the available KaV/L curve: a CSV table when TableFile is set,
// otherwise the logarithmic placeholder A + B·ln(G).
type FillConfig struct {
	A         *float64 `yaml:"a"`
	B         *float64 `yaml:"b"`
	TableFile string   `yaml:"table_file,omitempty"`
}

// DerateConfig selects the tip-clearance derate: a breakpoint table when Ratios is set,
// otherwise linear with Slope.
type DerateConfig struct {
	Slope   *float64  `yaml:"slope"`
	Ratios  []float64 `yaml:"ratios,omitempty"`
	Factors []float64 `yaml:"factors,omitempty"`
}

type BracketConfig struct {
	Lower         *float64 `yaml:"lower"`
	Upper         *float64 `yaml:"upper"`
	GrowthFactor  *float64 `yaml:"growth_factor"`
	MaxExpansions *int     `yaml:"max_expansions"`
}

type SolverConfig struct {
	Fill          *FillConfig              `yaml:"fill"`
	Losses        *hydraulics.Coefficients `yaml:"losses"`
	Derate        *DerateConfig            `yaml:"derate"`
	Bracket       *BracketConfig           `yaml:"bracket"`
	Tolerance     *float64                 `yaml:"tolerance"`
	MaxIterations *int                     `yaml:"max_iterations"`
	HighHumidity  *float64                 `yaml:"high_humidity"`
	HighAltitude  *float64                 `yaml:"high_altitude_m"`
}

func NewSolverConfig() *SolverConfig {
	cfg := &SolverConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *SolverConfig) FillDefaults() {
	def := solver.DefaultOptions()

	if c.Fill == nil {
		c.Fill = &FillConfig{}
	}
	if c.Fill.A == nil {
		c.Fill.A = GetPTR(fill.DefaultLogA)
	}
	if c.Fill.B == nil {
		c.Fill.B = GetPTR(fill.DefaultLogB)
	}
	if c.Losses == nil {
		c.Losses = GetPTR(def.Hydraulics.Coefficients())
	}
	if c.Derate == nil {
		c.Derate = &DerateConfig{}
	}
	if c.Derate.Slope == nil {
		c.Derate.Slope = GetPTR(fan.DefaultLinearSlope)
	}
	if c.Bracket == nil {
		c.Bracket = &BracketConfig{}
	}
	if c.Bracket.Lower == nil {
		c.Bracket.Lower = GetPTR(def.Bracket.InitialLower)
	}
	if c.Bracket.Upper == nil {
		c.Bracket.Upper = GetPTR(def.Bracket.InitialUpper)
	}
	if c.Bracket.GrowthFactor == nil {
		c.Bracket.GrowthFactor = GetPTR(def.Bracket.GrowthFactor)
	}
	if c.Bracket.MaxExpansions == nil {
		c.Bracket.MaxExpansions = GetPTR(def.Bracket.MaxExpansions)
	}
	if c.Tolerance == nil {
		c.Tolerance = GetPTR(def.Tolerance)
	}
	if c.MaxIterations == nil {
		c.MaxIterations = GetPTR(def.MaxIterations)
	}
	if c.HighHumidity == nil {
		c.HighHumidity = GetPTR(def.HighHumidity)
	}
	if c.HighAltitude == nil {
		c.HighAltitude = GetPTR(def.HighAltitude)
	}
}

func (c *FillConfig) curve() (fill.Curve, error) {
	if c.TableFile == "" {
		curve := fill.LogCurve{A: *c.A, B: *c.B}
		if err := curve.Validate(); err != nil {
			return nil, err
		}
		return curve, nil
	}

	f, err := os.Open(expandHome(c.TableFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open fill table")
	}
	defer f.Close()
	return fill.ReadTableCurve(f)
}

func (c *DerateConfig) derate() (fan.Derate, error) {
	if len(c.Ratios) == 0 {
		return fan.LinearDerate{Slope: *c.Slope}, nil
	}
	return fan.NewTableDerate(c.Ratios, c.Factors)
}

// Options builds the solver options. FillDefaults must have run.
func (c *SolverConfig) Options() (solver.Options, error) {
	curve, err := c.Fill.curve()
	if err != nil {
		return solver.Options{}, errors.WithMessage(err, "fill")
	}
	derate, err := c.Derate.derate()
	if err != nil {
		return solver.Options{}, errors.WithMessage(err, "derate")
	}
	losses, err := hydraulics.NewModel(*c.Losses)
	if err != nil {
		return solver.Options{}, errors.WithMessage(err, "losses")
	}

	opts := solver.DefaultOptions()
	opts.Fill = curve
	opts.Derate = derate
	opts.Hydraulics = losses
	opts.Bracket.InitialLower = *c.Bracket.Lower
	opts.Bracket.InitialUpper = *c.Bracket.Upper
	opts.Bracket.GrowthFactor = *c.Bracket.GrowthFactor
	opts.Bracket.MaxExpansions = *c.Bracket.MaxExpansions
	opts.Tolerance = *c.Tolerance
	opts.MaxIterations = *c.MaxIterations
	opts.HighHumidity = *c.HighHumidity
	opts.HighAltitude = *c.HighAltitude
	return opts, nil
}

// NewSolver builds a solver from the configuration.
func (c *SolverConfig) NewSolver() (*solver.Solver, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return solver.New(opts)
}
