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

func testBatch(t *testing.T) *Batch {
	t.Helper()
	curves, err := LoadCurves()
	if err != nil {
		t.Fatal(err)
	}
	return &Batch{
		Basin: BasinParameters{
			Name: "arroyo seco", AreaHa: 50, LengthM: 1200,
			SlopePct: 2, C: 0.6, CN: 80, P310: 78,
		},
		TcMethods:     []TcMethod{TcKirpich, TcDesbordes},
		StormCodes:    []StormCode{StormGZ, StormSCSII},
		ReturnPeriods: []int{2, 10},
		XFactors:      []float64{1, 2},
		Curves:        curves,
	}
}

func TestBatchRun(t *testing.T) {
	b := testBatch(t)
	runs, err := b.Run()
	if err != nil {
		t.Fatal(err)
	}
	// Per Tc method: GZ expands over both X factors (2 Tr × 2 runoff
	// × 2 X = 8) while SCS II keeps X fixed (2 × 2 = 4).
	if len(runs) != 24 {
		t.Fatalf("got %d runs, want 24", len(runs))
	}
	for i, r := range runs {
		hg := r.Hydrograph
		if hg.PeakFlowM3s <= 0 {
			t.Errorf("run %d: non-positive peak %g", i, hg.PeakFlowM3s)
		}
		if hg.VolumeM3 <= 0 {
			t.Errorf("run %d: non-positive volume %g", i, hg.VolumeM3)
		}
		if hg.RunoffMm <= 0 || hg.RunoffMm > hg.TotalDepthMm {
			t.Errorf("run %d: runoff %g outside (0, %g]", i, hg.RunoffMm, hg.TotalDepthMm)
		}
		if len(hg.TimeHr) != len(hg.FlowM3s) {
			t.Errorf("run %d: time/flow length mismatch", i)
		}
		if r.Storm.Type == StormGZ && absDifferent(r.Storm.DurationHr, 6, 1e-12) {
			t.Errorf("run %d: gz duration %g, want 6", i, r.Storm.DurationHr)
		}
		if r.Storm.Type == StormSCSII && absDifferent(r.Storm.DurationHr, 24, 1e-12) {
			t.Errorf("run %d: scs_ii duration %g, want 24", i, r.Storm.DurationHr)
		}
		// The curve number chain forces the standard SCS shape.
		if r.RunoffMethod == RunoffSCSCN && r.Storm.Type != StormGZ && hg.XFactor != 1.67 {
			t.Errorf("run %d: X = %g, want 1.67", i, hg.XFactor)
		}
	}

	// Desbordes re-derives Tc from the frequency-adjusted coefficient,
	// so its 10 yr rational runs see a shorter Tc than the 2 yr ones.
	var tc2, tc10 float64
	for _, r := range runs {
		if r.Tc.Method == TcDesbordes && r.RunoffMethod == RunoffRational && r.Storm.Type == StormGZ {
			switch r.Storm.ReturnPeriodYr {
			case 2:
				tc2 = r.Tc.Hours
			case 10:
				tc10 = r.Tc.Hours
			}
		}
	}
	if tc2 == 0 || tc10 == 0 {
		t.Fatal("missing desbordes runs")
	}
	if tc10 >= tc2 {
		t.Errorf("desbordes Tc should shrink with the adjusted C: %g vs %g", tc10, tc2)
	}

	// A longer recession (larger X) lowers the peak for the same storm.
	var peak1, peak2 float64
	for _, r := range runs {
		if r.Tc.Method == TcKirpich && r.RunoffMethod == RunoffRational &&
			r.Storm.Type == StormGZ && r.Storm.ReturnPeriodYr == 10 {
			switch r.Hydrograph.XFactor {
			case 1:
				peak1 = r.Hydrograph.PeakFlowM3s
			case 2:
				peak2 = r.Hydrograph.PeakFlowM3s
			}
		}
	}
	if peak1 == 0 || peak2 == 0 {
		t.Fatal("missing gz shape factor runs")
	}
	if peak2 >= peak1 {
		t.Errorf("X = 2 should lower the peak: %g vs %g", peak2, peak1)
	}
}

func TestBatchDeterministic(t *testing.T) {
	serial := testBatch(t)
	serial.Workers = 1
	parallel := testBatch(t)
	parallel.Workers = 4

	a, err := serial.Run()
	if err != nil {
		t.Fatal(err)
	}
	c, err := parallel.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(c) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(c))
	}
	for i := range a {
		if a[i].Tc.Method != c[i].Tc.Method ||
			a[i].Storm.Type != c[i].Storm.Type ||
			a[i].Storm.ReturnPeriodYr != c[i].Storm.ReturnPeriodYr ||
			a[i].RunoffMethod != c[i].RunoffMethod {
			t.Fatalf("run %d: combination order differs", i)
		}
		if absDifferent(a[i].Hydrograph.PeakFlowM3s, c[i].Hydrograph.PeakFlowM3s, 1e-12) {
			t.Errorf("run %d: peaks differ: %g vs %g", i,
				a[i].Hydrograph.PeakFlowM3s, c[i].Hydrograph.PeakFlowM3s)
		}
	}
}

func TestBatchSkipsMissingCoefficients(t *testing.T) {
	b := testBatch(t)
	b.Basin.CN = 0 // rational only
	runs, err := b.Run()
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range runs {
		if r.RunoffMethod != RunoffRational {
			t.Errorf("run %d: got method %s", i, r.RunoffMethod)
		}
	}

	b = testBatch(t)
	b.Basin.C = 0 // curve number only; desbordes drops out too
	b.TcMethods = []TcMethod{TcKirpich, TcDesbordes}
	runs, err = b.Run()
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range runs {
		if r.RunoffMethod != RunoffSCSCN {
			t.Errorf("run %d: got method %s", i, r.RunoffMethod)
		}
		if r.Tc.Method == TcDesbordes {
			t.Errorf("run %d: desbordes should be skipped without C", i)
		}
	}

	b = testBatch(t)
	b.Basin.C = 0
	b.Basin.CN = 0
	if _, err := b.Run(); err == nil {
		t.Error("expected error with neither C nor CN")
	}
}

func TestBatchExactCoverageRecalc(t *testing.T) {
	b := testBatch(t)
	b.CWeighted = &WeightedCoefficient{
		Table:  TableChow,
		BaseTr: 2,
		Items: []CoverageItem{
			CoverageFromTable("asphalt", 30, ChowCTable[9].CForTr(2), 9),
			CoverageFromTable("single family", 20, ChowCTable[2].CForTr(2), 2),
		},
	}
	c25, err := b.cForTr(25)
	if err != nil {
		t.Fatal(err)
	}
	want := (30*ChowCTable[9].CForTr(25) + 20*ChowCTable[2].CForTr(25)) / 50
	if absDifferent(c25, want, 1e-12) {
		t.Errorf("exact recalc: got %g, want %g", c25, want)
	}

	// An opaque item falls back to average frequency factors applied to
	// the basin coefficient.
	b.CWeighted.Items = append(b.CWeighted.Items, Coverage("gauged", 10, 0.5))
	c25, err = b.cForTr(25)
	if err != nil {
		t.Fatal(err)
	}
	if absDifferent(c25, AdjustCForTr(b.Basin.C, 25, 2), 1e-12) {
		t.Errorf("fallback: got %g", c25)
	}
}

func TestBatchCustomStorm(t *testing.T) {
	b := testBatch(t)
	b.StormCodes = []StormCode{StormCustom}
	b.CustomDepthMm = 80
	b.CustomDurationHr = 3
	b.CustomDistribution = DistTriangular
	runs, err := b.Run()
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range runs {
		if absDifferent(r.Storm.TotalDepthMm, 80, 1e-6) {
			t.Errorf("run %d: total %g, want 80", i, r.Storm.TotalDepthMm)
		}
		if absDifferent(r.Storm.DurationHr, 3, 1e-12) {
			t.Errorf("run %d: duration %g, want 3", i, r.Storm.DurationHr)
		}
	}

	// A measured event replay beats the synthetic recipes.
	b = testBatch(t)
	b.StormCodes = []StormCode{StormCustom}
	b.CustomTimeMin = []float64{5, 15, 25, 35, 45, 55}
	b.CustomDepthMmSer = []float64{2, 10, 25, 12, 6, 3}
	runs, err = b.Run()
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range runs {
		if absDifferent(r.Storm.TotalDepthMm, 58, 1e-9) {
			t.Errorf("run %d: total %g, want 58", i, r.Storm.TotalDepthMm)
		}
	}
}

func TestBatchBimodal(t *testing.T) {
	b := testBatch(t)
	b.StormCodes = []StormCode{StormBimodal}
	runs, err := b.Run()
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range runs {
		if r.Storm.Bimodal == nil {
			t.Fatalf("run %d: missing bimodal config", i)
		}
		if absDifferent(r.Storm.Bimodal.Peak1Position, 0.25, 1e-12) {
			t.Errorf("run %d: default peak 1 at %g", i, r.Storm.Bimodal.Peak1Position)
		}
		want, _ := DinaguaDepth(78, float64(r.Storm.ReturnPeriodYr), 6, 0)
		if different(r.Storm.TotalDepthMm, want, 1e-9) {
			t.Errorf("run %d: total %g, want %g", i, r.Storm.TotalDepthMm, want)
		}
	}
}

func TestPeakRun(t *testing.T) {
	b := testBatch(t)
	runs, err := b.Run()
	if err != nil {
		t.Fatal(err)
	}
	peak, err := PeakRun(runs)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range runs {
		if r.Hydrograph.PeakFlowM3s > peak.Hydrograph.PeakFlowM3s {
			t.Errorf("run %s/%s/%d beats the reported peak",
				r.Tc.Method, r.Storm.Type, r.Storm.ReturnPeriodYr)
		}
	}
	if _, err := PeakRun(nil); err == nil {
		t.Error("expected error for empty runs")
	}
}

func TestComputeTc(t *testing.T) {
	b := testBatch(t)
	results, err := b.ComputeTc()
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Without a flow length only Desbordes survives.
	b.Basin.LengthM = 0
	results, err = b.ComputeTc()
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Method != TcDesbordes {
		t.Errorf("got %v", results)
	}
	// No computable method at all is an error.
	b.Basin.C = 0
	if _, err := b.ComputeTc(); err == nil {
		t.Error("expected error with no computable method")
	}
}
