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
	"errors"
	"testing"
)

func TestSCSPotentialRetention(t *testing.T) {
	s, err := SCSPotentialRetention(80)
	if err != nil {
		t.Fatal(err)
	}
	if absDifferent(s, 63.5, 1e-9) {
		t.Errorf("S(80): got %g mm, want 63.5", s)
	}
	if ia := SCSInitialAbstraction(s, DefaultLambda); absDifferent(ia, 12.7, 1e-9) {
		t.Errorf("Ia: got %g mm, want 12.7", ia)
	}
	// CN 100 is a fully impervious basin with no retention.
	if s, _ := SCSPotentialRetention(100); s != 0 {
		t.Errorf("S(100): got %g, want 0", s)
	}
	if _, err := SCSPotentialRetention(20); err == nil {
		t.Error("expected error below CN 30")
	}
}

func TestSCSRunoff(t *testing.T) {
	q, err := SCSRunoff(60, 80, DefaultLambda)
	if err != nil {
		t.Fatal(err)
	}
	if different(q, 20.1921480144, 1e-8) {
		t.Errorf("Q(60 mm, CN 80): got %g mm", q)
	}
	// Rain below the initial abstraction produces no runoff.
	if q, _ := SCSRunoff(10, 80, DefaultLambda); q != 0 {
		t.Errorf("Q below Ia: got %g", q)
	}
	// Runoff never exceeds rainfall.
	for _, p := range []float64{15, 30, 60, 120, 300} {
		q, _ := SCSRunoff(p, 80, DefaultLambda)
		if q > p {
			t.Errorf("Q(%g) = %g exceeds rainfall", p, q)
		}
	}
}

func TestAdjustCNForAMC(t *testing.T) {
	dry, err := AdjustCNForAMC(80, AMCDry)
	if err != nil {
		t.Fatal(err)
	}
	if different(dry, 63.6841267314, 1e-8) {
		t.Errorf("CN(I): got %g", dry)
	}
	wet, _ := AdjustCNForAMC(80, AMCWet)
	if different(wet, 90.3546419697, 1e-8) {
		t.Errorf("CN(III): got %g", wet)
	}
	avg, _ := AdjustCNForAMC(80, AMCAverage)
	if avg != 80 {
		t.Errorf("CN(II) should be unchanged, got %g", avg)
	}
	blank, _ := AdjustCNForAMC(80, "")
	if blank != 80 {
		t.Errorf("blank AMC should mean average, got %g", blank)
	}
	// The wet adjustment of CN 100 stays within [30, 100].
	if cn, _ := AdjustCNForAMC(100, AMCWet); cn > 100 {
		t.Errorf("clamp: got %g", cn)
	}
	if _, err := AdjustCNForAMC(80, "IV"); err == nil {
		t.Error("expected error for unknown AMC")
	}
}

func TestSCSExcessSeries(t *testing.T) {
	cumulative := []float64{5, 15, 40, 60}
	excess, err := SCSExcessSeries(cumulative, 80, DefaultLambda)
	if err != nil {
		t.Fatal(err)
	}
	if len(excess) != len(cumulative) {
		t.Fatalf("got %d intervals, want %d", len(excess), len(cumulative))
	}
	var sum float64
	for i, e := range excess {
		if e < 0 {
			t.Errorf("negative excess %g at interval %d", e, i)
		}
		sum += e
	}
	want, _ := SCSRunoff(60, 80, DefaultLambda)
	if different(sum, want, 1e-9) {
		t.Errorf("excess sum %g should equal total runoff %g", sum, want)
	}
	if _, err := SCSExcessSeries(nil, 80, DefaultLambda); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestRationalExcessSeries(t *testing.T) {
	excess, err := RationalExcessSeries([]float64{10, 20, 5}, 0.6)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{6, 12, 3}
	for i, e := range excess {
		if absDifferent(e, want[i], 1e-12) {
			t.Errorf("interval %d: got %g, want %g", i, e, want[i])
		}
	}
	if _, err := RationalExcessSeries([]float64{10}, 1.2); err == nil {
		t.Error("expected error for C > 1")
	}
}

func TestRainfallExcess(t *testing.T) {
	h, err := AlternatingBlocksDinagua(78, 10, 6, 10, 0, gzPeakPosition)
	if err != nil {
		t.Fatal(err)
	}
	basin := &BasinParameters{AreaHa: 50, SlopePct: 2, C: 0.6, CN: 80}

	rational, err := RainfallExcess(h, RunoffRational, basin, AMCAverage, 0)
	if err != nil {
		t.Fatal(err)
	}
	if different(rational.RunoffMm, 0.6*h.TotalDepthMm, 1e-9) {
		t.Errorf("rational runoff: got %g, want %g", rational.RunoffMm, 0.6*h.TotalDepthMm)
	}
	if rational.CUsed != 0.6 {
		t.Errorf("CUsed: got %g", rational.CUsed)
	}

	scs, err := RainfallExcess(h, RunoffSCSCN, basin, AMCAverage, 0)
	if err != nil {
		t.Fatal(err)
	}
	if scs.CNUsed != 80 {
		t.Errorf("CNUsed: got %g", scs.CNUsed)
	}
	want, _ := SCSRunoff(h.TotalDepthMm, 80, DefaultLambda)
	if different(scs.RunoffMm, want, 1e-9) {
		t.Errorf("scs runoff: got %g, want %g", scs.RunoffMm, want)
	}

	// A basin without the needed parameter is reported as unavailable.
	bare := &BasinParameters{AreaHa: 50, SlopePct: 2}
	if _, err := RainfallExcess(h, RunoffRational, bare, AMCAverage, 0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if _, err := RainfallExcess(h, RunoffSCSCN, bare, AMCAverage, 0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if _, err := RainfallExcess(h, "green-ampt", basin, AMCAverage, 0); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestRationalPeakFlow(t *testing.T) {
	q, err := RationalPeakFlow(0.6, 80, 50, 10)
	if err != nil {
		t.Fatal(err)
	}
	if different(q, 0.00278*0.6*80*50, 1e-9) {
		t.Errorf("got %g m³/s", q)
	}
	// The 25 yr frequency factor raises the coefficient.
	q25, _ := RationalPeakFlow(0.6, 80, 50, 25)
	if different(q25, 0.00278*0.66*80*50, 1e-9) {
		t.Errorf("25 yr: got %g m³/s", q25)
	}
	// Cf·C is capped at 1.
	qCap, _ := RationalPeakFlow(0.9, 80, 50, 100)
	if different(qCap, 0.00278*1*80*50, 1e-9) {
		t.Errorf("cap: got %g m³/s", qCap)
	}
	if _, err := RationalPeakFlow(0, 80, 50, 10); err == nil {
		t.Error("expected error for zero coefficient")
	}
}
