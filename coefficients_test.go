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

import "testing"

func TestChowCForTr(t *testing.T) {
	e := ChowCTable[0] // dense downtown business
	if absDifferent(e.CForTr(10), 0.85, 1e-12) {
		t.Errorf("exact column: got %g", e.CForTr(10))
	}
	// Tr = 20 interpolates between the 10 and 25 yr columns.
	if absDifferent(e.CForTr(20), 0.87, 1e-12) {
		t.Errorf("interpolated: got %g, want 0.87", e.CForTr(20))
	}
	// Outside the table the end columns are used.
	if absDifferent(e.CForTr(1), 0.75, 1e-12) || absDifferent(e.CForTr(500), 0.95, 1e-12) {
		t.Errorf("clamping: got %g and %g", e.CForTr(1), e.CForTr(500))
	}
}

func TestFHWACForTr(t *testing.T) {
	e := FHWACEntry{CBase: 0.85}
	if absDifferent(e.CForTr(10), 0.85, 1e-12) {
		t.Errorf("base range: got %g", e.CForTr(10))
	}
	if absDifferent(e.CForTr(25), 0.85*1.1, 1e-12) {
		t.Errorf("25 yr factor: got %g", e.CForTr(25))
	}
	if absDifferent(e.CForTr(100), 0.85*1.25, 1e-12) {
		t.Errorf("100 yr factor: got %g", e.CForTr(100))
	}
	// The adjusted coefficient never exceeds 1.
	high := FHWACEntry{CBase: 0.95}
	if high.CForTr(100) > 1 {
		t.Errorf("cap: got %g", high.CForTr(100))
	}
}

func TestCNLookup(t *testing.T) {
	e := SCSCNTable[5] // business districts
	if e.CN(SoilA) != 89 || e.CN(SoilD) != 95 {
		t.Errorf("got A=%d D=%d", e.CN(SoilA), e.CN(SoilD))
	}
	if e.CN("Z") != e.CN(SoilB) {
		t.Error("unknown soil group should default to B")
	}
	for _, e := range SCSCNTable {
		if !(e.A <= e.B && e.B <= e.C && e.C <= e.D) {
			t.Errorf("%s / %s: CN should not decrease from A to D: %d %d %d %d",
				e.Category, e.Description, e.A, e.B, e.C, e.D)
		}
	}
}

func TestWeighted(t *testing.T) {
	c, err := Weighted([]float64{10, 5, 15}, []float64{0.3, 0.9, 0.6})
	if err != nil {
		t.Fatal(err)
	}
	if absDifferent(c, 0.55, 1e-12) {
		t.Errorf("got %g, want 0.55", c)
	}
	if _, err := Weighted([]float64{0, 0}, []float64{0.3, 0.9}); err == nil {
		t.Error("expected error for zero total area")
	}
	if _, err := Weighted([]float64{1}, []float64{0.3, 0.9}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestRecalcWeightedCForTr(t *testing.T) {
	items := []CoverageItem{
		CoverageFromTable("asphalt", 6, ChowCTable[9].CForTr(2), 9),
		Coverage("gauged lot", 4, 0.40),
	}
	got, err := RecalcWeightedCForTr(items, TableChow, 25)
	if err != nil {
		t.Fatal(err)
	}
	// The tabled item is re-read at 25 yr; the opaque one keeps 0.40.
	want := (6*0.85 + 4*0.40) / 10
	if absDifferent(got, want, 1e-12) {
		t.Errorf("got %g, want %g", got, want)
	}
	if _, err := RecalcWeightedCForTr(nil, TableChow, 25); err == nil {
		t.Error("expected error for empty coverage")
	}
}

func TestCForTrFromTable(t *testing.T) {
	if _, err := CForTrFromTable(TableChow, len(ChowCTable), 10); err == nil {
		t.Error("expected out-of-range error")
	}
	if _, err := CForTrFromTable("usgs", 0, 10); err == nil {
		t.Error("expected unknown-table error")
	}
	c, err := CForTrFromTable(TableFHWA, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if absDifferent(c, 0.85, 1e-12) {
		t.Errorf("got %g", c)
	}
}

func TestAdjustCForTr(t *testing.T) {
	if absDifferent(AdjustCForTr(0.4, 25, 2), 0.6, 1e-12) {
		t.Errorf("2→25 yr: got %g, want 0.60", AdjustCForTr(0.4, 25, 2))
	}
	if absDifferent(AdjustCForTr(0.4, 2, 2), 0.4, 1e-12) {
		t.Error("same return period should be a no-op")
	}
	if AdjustCForTr(0.9, 100, 2) > 1 {
		t.Errorf("cap: got %g", AdjustCForTr(0.9, 100, 2))
	}
	// Moving to a smaller return period lowers C.
	if AdjustCForTr(0.6, 2, 25) >= 0.6 {
		t.Errorf("25→2 yr: got %g", AdjustCForTr(0.6, 2, 25))
	}
}

func TestMinimumInfiltrationRate(t *testing.T) {
	a, _ := MinimumInfiltrationRate(SoilA)
	d, _ := MinimumInfiltrationRate(SoilD)
	if absDifferent(a, 2.4, 1e-12) || absDifferent(d, 1.2, 1e-12) {
		t.Errorf("got A=%g D=%g", a, d)
	}
	if _, err := MinimumInfiltrationRate("E"); err == nil {
		t.Error("expected error for unknown soil group")
	}
}

func TestGetRationalC(t *testing.T) {
	low, err := GetRationalC("asphalt", "low")
	if err != nil {
		t.Fatal(err)
	}
	high, _ := GetRationalC("asphalt", "high")
	mid, _ := GetRationalC("asphalt", "average")
	if absDifferent(low, 0.70, 1e-12) || absDifferent(high, 0.95, 1e-12) {
		t.Errorf("got low=%g high=%g", low, high)
	}
	if absDifferent(mid, (low+high)/2, 1e-12) {
		t.Errorf("midpoint: got %g", mid)
	}
	if _, err := GetRationalC("wetland", "average"); err == nil {
		t.Error("expected error for unknown land use")
	}
}
