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

// Package units converts between the SI values the solver works in and the unit system
// a case is entered or displayed in.
package units

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type System string

const (
	SI System = "SI"
	IP System = "IP"
)

func ParseSystem(s string) (System, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(SI):
		return SI, nil
	case string(IP):
		return IP, nil
	}
	return "", errors.Errorf("unknown unit system `%v`, want SI or IP", s)
}

type Quantity string

const (
	Temperature           Quantity = "temperature"
	TemperatureDifference Quantity = "temperatureDifference"
	WaterFlow             Quantity = "waterFlow"
	AirFlow               Quantity = "airFlow"
	Length                Quantity = "length"
	Pressure              Quantity = "pressure"
	Power                 Quantity = "power"
)

const (
	ftPerM       = 3.28084
	gpmPerM3h    = 4.40287
	cfmPerM3s    = 2118.88
	paPerInH2O   = 249.0889
	kWPerHP      = 0.745699872
	fahrenheitK  = 9.0 / 5.0
	fahrenheit0C = 32.0
)

func CToF(c float64) float64       { return c*fahrenheitK + fahrenheit0C }
func FToC(f float64) float64       { return (f - fahrenheit0C) / fahrenheitK }
func KToFDelta(dc float64) float64 { return dc * fahrenheitK }
func FDeltaToK(df float64) float64 { return df / fahrenheitK }
func MToFt(m float64) float64      { return m * ftPerM }
func FtToM(ft float64) float64     { return ft / ftPerM }
func M3hToGPM(v float64) float64   { return v * gpmPerM3h }
func GPMToM3h(v float64) float64   { return v / gpmPerM3h }
func M3sToCFM(v float64) float64   { return v * cfmPerM3s }
func CFMToM3s(v float64) float64   { return v / cfmPerM3s }
func PaToInH2O(pa float64) float64 { return pa / paPerInH2O }
func InH2OToPa(v float64) float64  { return v * paPerInH2O }
func KWToHP(kw float64) float64    { return kw / kWPerHP }
func HPToKW(hp float64) float64    { return hp * kWPerHP }

type meta struct {
	si, ip string
	toIP   func(float64) float64
	toSI   func(float64) float64
}

var quantities = map[Quantity]meta{
	Temperature:           {"°C", "°F", CToF, FToC},
	TemperatureDifference: {"K", "°F", KToFDelta, FDeltaToK},
	WaterFlow:             {"m³/h", "gpm", M3hToGPM, GPMToM3h},
	AirFlow:               {"m³/s", "cfm", M3sToCFM, CFMToM3s},
	Length:                {"m", "ft", MToFt, FtToM},
	Pressure:              {"Pa", "inH₂O", PaToInH2O, InH2OToPa},
	Power:                 {"kW", "hp", KWToHP, HPToKW},
}

// Label returns the unit symbol of q in system s.
func Label(q Quantity, s System) string {
	m, ok := quantities[q]
	if !ok {
		return ""
	}
	if s == IP {
		return m.ip
	}
	return m.si
}

// ToDisplay converts an SI value of q into system s.
func ToDisplay(q Quantity, s System, si float64) float64 {
	m, ok := quantities[q]
	if !ok || s != IP {
		return si
	}
	return m.toIP(si)
}

// FromDisplay converts a value of q entered in system s into SI.
func FromDisplay(q Quantity, s System, v float64) float64 {
	m, ok := quantities[q]
	if !ok || s != IP {
		return v
	}
	return m.toSI(v)
}

// Format renders an SI value in system s with its unit, e.g. "86.0 °F".
func Format(q Quantity, s System, si float64, precision int) string {
	return fmt.Sprintf("%.*f %s", precision, ToDisplay(q, s, si), Label(q, s))
}
