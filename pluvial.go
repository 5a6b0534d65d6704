/*
Copyright © 2025 the Pluvial authors.
This file is part of Pluvial.

Pluvial is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Pluvial is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Pluvial.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package pluvial implements design-storm hydrology for small and
// mid-size catchments: intensity-duration-frequency relations, time of
// concentration estimators, design hyetograph generators, rainfall-excess
// transforms, and unit-hydrograph convolution. Units are SI throughout
// unless a name says otherwise: lengths in m, areas in ha or km², depths
// in mm, intensities in mm/h, times in minutes or hours as suffixed, and
// flows in m³/s.
package pluvial

import (
	"errors"
	"fmt"
)

// Version gives the version number.
const Version = "0.3.0"

// ErrUnavailable reports that a computation could not run because the
// basin is missing an input it needs (for example a rainfall-excess
// method asked to use a runoff coefficient that was never set). Callers
// iterating over method combinations should test for it with errors.Is
// and skip, rather than fail, the combination.
var ErrUnavailable = errors.New("pluvial: required basin parameter is not set")

// BasinParameters holds the physical description of the catchment under
// analysis. Optional fields use zero to mean "not set": a basin with
// C == 0 cannot run the rational method and a basin with CN == 0 cannot
// run the curve-number method.
type BasinParameters struct {
	Name string

	AreaHa   float64 // drainage area [ha]
	LengthM  float64 // main flow path length [m]
	SlopePct float64 // representative slope [%]

	C  float64 // runoff coefficient, 0 < C ≤ 1; 0 means not set
	CN float64 // SCS curve number for AMC II, 30 ≤ CN ≤ 100; 0 means not set

	P310 float64 // 3 h, 10 yr precipitation depth [mm] for regional IDF
}

// AreaKm2 returns the drainage area in km².
func (b *BasinParameters) AreaKm2() float64 { return b.AreaHa / 100 }

// Check returns an error describing the first invalid field, or nil.
func (b *BasinParameters) Check() error {
	if b.AreaHa <= 0 {
		return fmt.Errorf("pluvial: basin area must be positive, got %g ha", b.AreaHa)
	}
	if b.SlopePct < 0 {
		return fmt.Errorf("pluvial: basin slope must be non-negative, got %g%%", b.SlopePct)
	}
	if b.C != 0 && (b.C < 0 || b.C > 1) {
		return fmt.Errorf("pluvial: runoff coefficient must be in (0, 1], got %g", b.C)
	}
	if b.CN != 0 && (b.CN < 30 || b.CN > 100) {
		return fmt.Errorf("pluvial: curve number must be in [30, 100], got %g", b.CN)
	}
	return nil
}

// CoverageItem is one land-cover fraction of a basin used when computing
// an area-weighted coefficient. Value is the runoff coefficient or curve
// number of the cover. An item created with CoverageFromTable remembers
// the table row it came from so the weighted coefficient can later be
// recomputed exactly for a different return period; an item created with
// Coverage carries an opaque value and is re-scaled instead.
type CoverageItem struct {
	Description string
	AreaHa      float64
	Value       float64

	// TableIndex is the row in the named coefficient table this value
	// was read from, or -1 when the value is opaque.
	TableIndex int
}

// Coverage returns a CoverageItem with an opaque coefficient value.
func Coverage(description string, areaHa, value float64) CoverageItem {
	return CoverageItem{Description: description, AreaHa: areaHa, Value: value, TableIndex: -1}
}

// CoverageFromTable returns a CoverageItem whose value was taken from row
// index of a published coefficient table, keeping the provenance so the
// value can be looked up again at a different return period.
func CoverageFromTable(description string, areaHa, value float64, index int) CoverageItem {
	return CoverageItem{Description: description, AreaHa: areaHa, Value: value, TableIndex: index}
}

// Exact reports whether the item can be recomputed exactly from its
// source table for a new return period.
func (it CoverageItem) Exact() bool { return it.TableIndex >= 0 }
