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

// Package fill supplies the transfer coefficient a fill pack makes available at a
// given dry-air mass flow.
package fill

import (
	"io"
	"math"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"

	"github.com/antst/ctfan/internal/calcerr"
)

const (
	DefaultLogA = 0.5
	DefaultLogB = 0.08
)

// Curve returns available KaV/L for dry-air mass flow g (kg/s).
// Implementations must increase monotonically with g; the airflow search relies on it.
type Curve interface {
	AvailableKaVL(g float64) float64
}

// LogCurve is the placeholder correlation A + B·ln(max(g, 1)).
// Its constants are not derived from any fill test.
type LogCurve struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

func DefaultCurve() LogCurve {
	return LogCurve{A: DefaultLogA, B: DefaultLogB}
}

func (c LogCurve) AvailableKaVL(g float64) float64 {
	return c.A + c.B*math.Log(math.Max(g, 1))
}

func (c LogCurve) Validate() error {
	if !(c.B > 0) || math.IsNaN(c.A) || math.IsInf(c.A, 0) || math.IsInf(c.B, 0) {
		return calcerr.Invalid("fill curve", "log curve needs finite A and B > 0, got A=%v B=%v", c.A, c.B)
	}
	return nil
}

// Point is one measured fill test point.
type Point struct {
	Airflow float64 `csv:"airflow_kgps"`
	KaVL    float64 `csv:"kavl"`
}

// TableCurve interpolates measured points linearly and holds the end values outside them.
type TableCurve struct {
	points []Point
	pl     interp.PiecewiseLinear
}

// NewTableCurve sorts points by airflow. Airflow and KaV/L must both be strictly increasing.
func NewTableCurve(points []Point) (*TableCurve, error) {
	if len(points) < 2 {
		return nil, calcerr.Invalid("fill curve", "need at least 2 points, got %d", len(points))
	}
	pts := append([]Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Airflow < pts[j].Airflow })

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		if i > 0 && !(p.Airflow > pts[i-1].Airflow) {
			return nil, calcerr.Invalid("fill curve", "duplicate airflow %v kg/s", p.Airflow)
		}
		if i > 0 && !(p.KaVL > pts[i-1].KaVL) {
			return nil, calcerr.Invalid("fill curve", "KaV/L must increase with airflow, %v at %v kg/s after %v at %v kg/s",
				p.KaVL, p.Airflow, pts[i-1].KaVL, pts[i-1].Airflow)
		}
		xs[i], ys[i] = p.Airflow, p.KaVL
	}

	c := &TableCurve{points: pts}
	if err := c.pl.Fit(xs, ys); err != nil {
		return nil, calcerr.Invalid("fill curve", "%v", err)
	}
	return c, nil
}

// ReadTableCurve loads airflow_kgps,kavl rows.
func ReadTableCurve(r io.Reader) (*TableCurve, error) {
	var points []Point
	if err := gocsv.Unmarshal(r, &points); err != nil {
		return nil, errors.Wrap(err, "failed to read fill curve")
	}
	return NewTableCurve(points)
}

func (c *TableCurve) AvailableKaVL(g float64) float64 {
	return c.pl.Predict(g)
}

func (c *TableCurve) Points() []Point {
	return append([]Point(nil), c.points...)
}
