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

package pluvial

import (
	"math"
	"testing"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance {
		return true
	}
	return false
}

func TestBasinCheck(t *testing.T) {
	b := &BasinParameters{AreaHa: 50, SlopePct: 2, C: 0.6, CN: 75, LengthM: 1200}
	if err := b.Check(); err != nil {
		t.Error(err)
	}
	if absDifferent(b.AreaKm2(), 0.5, 1e-12) {
		t.Errorf("area: got %g km², want 0.5", b.AreaKm2())
	}
	bad := []BasinParameters{
		{AreaHa: 0, SlopePct: 2},
		{AreaHa: 50, SlopePct: -1},
		{AreaHa: 50, SlopePct: 2, C: 1.2},
		{AreaHa: 50, SlopePct: 2, CN: 20},
	}
	for i, b := range bad {
		if err := b.Check(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestCoverageProvenance(t *testing.T) {
	opaque := Coverage("measured lot", 10, 0.55)
	if opaque.Exact() {
		t.Error("opaque coverage should not be exact")
	}
	tabled := CoverageFromTable("asphalt", 5, 0.70, 9)
	if !tabled.Exact() {
		t.Error("table-sourced coverage should be exact")
	}
}
