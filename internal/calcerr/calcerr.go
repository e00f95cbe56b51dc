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

// Package calcerr carries the failure kinds of the sizing core.
//
// Every failing core operation returns a *Error. Callers outside the core may wrap it
// with github.com/pkg/errors; KindOf still finds the kind through the wrapping.
package calcerr

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	// Unknown is reported by KindOf for errors that did not come from the core.
	Unknown Kind = iota
	// InvalidInput is a malformed or out-of-domain scalar.
	InvalidInput
	// InvalidBracket is a root-finder interval without a sign change.
	InvalidBracket
	// BracketNotFound means expansion never found a sign change: demand and supply do not cross.
	BracketNotFound
	// Convergence means the iteration budget ran out before the tolerance was met.
	Convergence
	// PhysicallyInfeasible is a physical constraint violated mid-computation.
	PhysicallyInfeasible
)

var kindNames = map[Kind]string{
	Unknown:              "Unknown",
	InvalidInput:         "InvalidInput",
	InvalidBracket:       "InvalidBracket",
	BracketNotFound:      "BracketNotFound",
	Convergence:          "Convergence",
	PhysicallyInfeasible: "PhysicallyInfeasible",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a core failure. Quantity names the physical quantity or constraint that failed.
type Error struct {
	Kind     Kind
	Quantity string
	Msg      string
}

func (e *Error) Error() string {
	if e.Quantity == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Quantity, e.Msg)
}

func New(kind Kind, quantity, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Quantity: quantity, Msg: fmt.Sprintf(format, args...)}
}

func Invalid(quantity, format string, args ...interface{}) *Error {
	return New(InvalidInput, quantity, format, args...)
}

func Infeasible(quantity, format string, args ...interface{}) *Error {
	return New(PhysicallyInfeasible, quantity, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
