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
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/antst/ctfan/internal/solver"
	"github.com/antst/ctfan/internal/units"
)

// WriteReport prints a solve result in unit system sys. The airflow is shown as
// volumetric flow at the 1 kg/m³ reference density the power figure assumes.
func WriteReport(w io.Writer, name string, sys units.System, res solver.SolveResult) error {
	ew := &errWriter{w: w}
	if name != "" {
		ew.printf("Case: %s\n", name)
	}
	ew.printf("Inlet air:            %s dry bulb, RH %.1f %%, h = %.2f kJ/kg, %.3f kPa\n",
		units.Format(units.Temperature, sys, res.Inlet.DryBulb, 1), res.Inlet.RH*100, res.Inlet.Enthalpy, res.AmbientKPa)
	ew.printf("Airflow:              %.2f kg/s (%s)\n",
		res.AirflowKgps, units.Format(units.AirFlow, sys, res.AirflowKgps, 1))
	ew.printf("L/G:                  %.4f\n", res.LG)
	ew.printf("KaV/L:                %.4f\n", res.KaVL)
	ew.printf("Pressure drop:        %s (inlet %s, fill %s, eliminator %s)\n",
		units.Format(units.Pressure, sys, res.PressureDropPa, 6),
		units.Format(units.Pressure, sys, res.Pressure.Inlet, 6),
		units.Format(units.Pressure, sys, res.Pressure.Fill, 6),
		units.Format(units.Pressure, sys, res.Pressure.Eliminator, 6))
	ew.printf("Fan efficiency:       %.1f %% (tip clearance %.2f %%, derate %.3f)\n",
		res.Diagnostics.EffectiveFanEfficiency*100, res.Diagnostics.TipClearanceRatio*100,
		res.Diagnostics.TipClearanceDerateFactor)
	ew.printf("Transmission:         %.1f %%\n", res.Diagnostics.EffectiveTransmissionEfficiency*100)
	ew.printf("Shaft power:          %s\n", units.Format(units.Power, sys, res.PowerKW, 6))
	for _, warn := range res.Warnings {
		ew.printf("Warning: %s\n", warn)
	}
	return errors.Wrap(ew.err, "failed to write report")
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
