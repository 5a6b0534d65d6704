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

// Unit hydrographs for 1 mm of direct runoff, and the discrete
// convolution that turns a rainfall-excess series into a flood
// hydrograph.

import (
	"fmt"
	"math"
	"sort"
)

// SCSLagTime is the SCS lag, tlag = 0.6 Tc.
func SCSLagTime(tcHr float64) float64 { return 0.6 * tcHr }

// SCSTimeToPeak is Tp = ΔD/2 + 0.6 Tc, where ΔD is the duration of one
// excess interval.
func SCSTimeToPeak(tcHr, dtHr float64) float64 { return dtHr/2 + SCSLagTime(tcHr) }

// SCSTimeBase is the triangular time base Tb = 2.67 Tp.
func SCSTimeBase(tpHr float64) float64 { return 2.67 * tpHr }

// RecommendedStepHr suggests an excess interval ΔD = 0.133 Tc, floored
// at 15 min for the 24 h NRCS distributions (their native resolution)
// and 5 min otherwise.
func RecommendedStepHr(tcHr float64, code StormCode) float64 {
	floorMin := 5.0
	if code == StormSCSII || code == StormBlocks24 {
		floorMin = 15
	}
	return math.Max(0.133*tcHr, floorMin/60)
}

// UnitHydrograph is a unit hydrograph on a regular grid: FlowM3s[i] is
// the discharge at TimeHr[i] caused by 1 mm of excess.
type UnitHydrograph struct {
	TimeHr     []float64
	FlowM3s    []float64
	TpHr, TbHr float64
	PeakM3s    float64
}

// uhGrid returns ceil(tb/dt)+1 times evenly spaced on [0, tb].
func uhGrid(tbHr, dtHr float64) []float64 {
	n := int(math.Ceil(tbHr/dtHr)) + 1
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) * tbHr / float64(n-1)
	}
	return t
}

// TriangularUHX builds the adjustable triangular unit hydrograph of
// Porto used by the GZ method. The shape factor X sets the recession
// length,
//
//	Tp = 0.5 ΔD + 0.6 Tc
//	qp = 0.278 A / Tp · 2/(1+X)  [A: km², qp for 1 mm]
//	Tb = (1+X) Tp
//
// with X = 1 the rational-method symmetric triangle and X = 1.67 the
// standard SCS shape.
func TriangularUHX(areaHa, tcHr, dtHr, x float64) (*UnitHydrograph, error) {
	if areaHa <= 0 {
		return nil, fmt.Errorf("pluvial: triangular unit hydrograph: area must be positive, got %g ha", areaHa)
	}
	if tcHr <= 0 {
		return nil, fmt.Errorf("pluvial: triangular unit hydrograph: Tc must be positive, got %g h", tcHr)
	}
	if dtHr <= 0 {
		return nil, fmt.Errorf("pluvial: triangular unit hydrograph: step must be positive, got %g h", dtHr)
	}
	if x < 1 {
		return nil, fmt.Errorf("pluvial: triangular unit hydrograph: shape factor X must be ≥ 1, got %g", x)
	}
	tp := 0.5*dtHr + 0.6*tcHr
	qp := 0.278 * (areaHa / 100) / tp * 2 / (1 + x)
	tb := (1 + x) * tp
	tr := tb - tp
	time := uhGrid(tb, dtHr)
	flow := make([]float64, len(time))
	for i, t := range time {
		if t <= tp {
			flow[i] = qp * t / tp
		} else {
			flow[i] = qp * (tb - t) / tr
		}
		if flow[i] < 0 {
			flow[i] = 0
		}
	}
	return &UnitHydrograph{TimeHr: time, FlowM3s: flow, TpHr: tp, TbHr: tb, PeakM3s: qp}, nil
}

// SCSTriangularPeak is the triangular peak discharge
//
//	qp = 2.08 A Q / Tp  [qp: m³/s, A: km², Q: mm, Tp: hr]
func SCSTriangularPeak(areaKm2, runoffMm, tpHr float64) (float64, error) {
	if areaKm2 <= 0 {
		return 0, fmt.Errorf("pluvial: scs peak: area must be positive, got %g km²", areaKm2)
	}
	if runoffMm < 0 {
		return 0, fmt.Errorf("pluvial: scs peak: runoff must be non-negative, got %g mm", runoffMm)
	}
	if tpHr <= 0 {
		return 0, fmt.Errorf("pluvial: scs peak: time to peak must be positive, got %g h", tpHr)
	}
	return 2.08 * areaKm2 * runoffMm / tpHr, nil
}

// SCSTriangularUH builds the standard SCS triangular unit hydrograph
// (Tb = 2.67 Tp, recession 1.67 Tp) for 1 mm of runoff.
func SCSTriangularUH(areaKm2, tcHr, dtHr float64) (*UnitHydrograph, error) {
	if dtHr <= 0 {
		return nil, fmt.Errorf("pluvial: scs triangular unit hydrograph: step must be positive, got %g h", dtHr)
	}
	tp := SCSTimeToPeak(tcHr, dtHr)
	tb := SCSTimeBase(tp)
	tr := 1.67 * tp
	qp, err := SCSTriangularPeak(areaKm2, 1, tp)
	if err != nil {
		return nil, err
	}
	time := uhGrid(tb, dtHr)
	flow := make([]float64, len(time))
	for i, t := range time {
		if t <= tp {
			flow[i] = qp * t / tp
		} else {
			flow[i] = qp * (tb - t) / tr
		}
		if flow[i] < 0 {
			flow[i] = 0
		}
	}
	return &UnitHydrograph{TimeHr: time, FlowM3s: flow, TpHr: tp, TbHr: tb, PeakM3s: qp}, nil
}

// SCSCurvilinearUH builds the SCS dimensionless curvilinear unit
// hydrograph, scaled by a peak rate factor. PRF 484 is the standard
// shape; flatter basins use smaller factors.
func SCSCurvilinearUH(areaKm2, tcHr, dtHr float64, prf float64, curves *Curves) (*UnitHydrograph, error) {
	if dtHr <= 0 {
		return nil, fmt.Errorf("pluvial: scs curvilinear unit hydrograph: step must be positive, got %g h", dtHr)
	}
	if prf <= 0 {
		return nil, fmt.Errorf("pluvial: scs curvilinear unit hydrograph: peak rate factor must be positive, got %g", prf)
	}
	tp := SCSTimeToPeak(tcHr, dtHr)
	qpStd, err := SCSTriangularPeak(areaKm2, 1, tp)
	if err != nil {
		return nil, err
	}
	qp := prf / 484 * qpStd
	curve := curves.Curvilinear()
	tb := curve.x[len(curve.x)-1] * tp
	time := uhGrid(tb, dtHr)
	flow := make([]float64, len(time))
	for i, t := range time {
		flow[i] = qp * curve.At(t/tp)
	}
	return &UnitHydrograph{TimeHr: time, FlowM3s: flow, TpHr: tp, TbHr: tb, PeakM3s: qp}, nil
}

// GammaUH builds a gamma-function unit hydrograph
//
//	q/qp = (t/Tp)^m · e^(m(1-t/Tp))
//
// where the shape parameter m relates to the peak rate factor roughly
// as PRF ≈ 130m + 3 (m = 3.7 matches the standard 484).
func GammaUH(areaKm2, tcHr, dtHr, m float64) (*UnitHydrograph, error) {
	if dtHr <= 0 {
		return nil, fmt.Errorf("pluvial: gamma unit hydrograph: step must be positive, got %g h", dtHr)
	}
	if m <= 0 {
		return nil, fmt.Errorf("pluvial: gamma unit hydrograph: shape parameter must be positive, got %g", m)
	}
	tp := SCSTimeToPeak(tcHr, dtHr)
	qpStd, err := SCSTriangularPeak(areaKm2, 1, tp)
	if err != nil {
		return nil, err
	}
	qp := (130*m + 3) / 484 * qpStd
	tb := 5 * tp
	time := uhGrid(tb, dtHr)
	flow := make([]float64, len(time))
	for i, t := range time {
		tt := math.Max(t/tp, 1e-10)
		flow[i] = qp * math.Pow(tt, m) * math.Exp(m*(1-tt))
	}
	return &UnitHydrograph{TimeHr: time, FlowM3s: flow, TpHr: tp, TbHr: tb, PeakM3s: qp}, nil
}

// SnyderLagTime is the Snyder (1938) basin lag
//
//	tp = Ct (L Lc)^0.3  [tp: hr, L and Lc: mi]
//
// from the main channel length L and the distance Lc from the outlet to
// the basin centroid, both given here in km. Ct is typically 1.8-2.2.
func SnyderLagTime(lengthKm, lcKm, ct float64) float64 {
	const miPerKm = 0.621371
	return ct * math.Pow(lengthKm*miPerKm*lcKm*miPerKm, 0.3)
}

// SnyderUH builds the Snyder synthetic unit hydrograph from basin
// morphology and the regional coefficients Ct and Cp (0.4-0.8 typical).
// The classical relations give the peak for 1 in of runoff,
//
//	qp = 640 Cp A / tp  [qp: cfs, A: mi²]
//
// with hydrograph widths W50 = 770 (qp/A)^-1.08 and
// W75 = 440 (qp/A)^-1.08 [hr] placed one third before and two thirds
// after the peak, and time base Tb = tp + 3 W50. The ordinates are
// rescaled to the 1 mm convention used throughout.
func SnyderUH(areaKm2, lengthKm, lcKm, dtHr, ct, cp float64) (*UnitHydrograph, error) {
	if areaKm2 <= 0 {
		return nil, fmt.Errorf("pluvial: snyder unit hydrograph: area must be positive, got %g km²", areaKm2)
	}
	if lengthKm <= 0 || lcKm <= 0 {
		return nil, fmt.Errorf("pluvial: snyder unit hydrograph: channel length and centroid distance must be positive, got %g and %g km", lengthKm, lcKm)
	}
	if dtHr <= 0 {
		return nil, fmt.Errorf("pluvial: snyder unit hydrograph: step must be positive, got %g h", dtHr)
	}
	if ct <= 0 || cp <= 0 {
		return nil, fmt.Errorf("pluvial: snyder unit hydrograph: Ct and Cp must be positive, got %g and %g", ct, cp)
	}
	const (
		mi2PerKm2 = 0.386102
		m3sPerCfs = 0.0283168
		mmPerIn   = 25.4
	)
	tp := SnyderLagTime(lengthKm, lcKm, ct)
	areaMi2 := areaKm2 * mi2PerKm2
	qpCfs := 640 * cp * areaMi2 / tp
	qp := qpCfs * m3sPerCfs / mmPerIn
	w := math.Pow(qpCfs/areaMi2, -1.08)
	w50, w75 := 770*w, 440*w
	tb := tp + 3*w50

	// Anchor the shape at the width points and interpolate between them.
	type knot struct{ t, q float64 }
	knots := []knot{
		{0, 0},
		{tp - w50/3, 0.5 * qp},
		{tp - w75/3, 0.75 * qp},
		{tp, qp},
		{tp + 2*w75/3, 0.75 * qp},
		{tp + 2*w50/3, 0.5 * qp},
		{tb, 0},
	}
	sort.Slice(knots, func(i, j int) bool { return knots[i].t < knots[j].t })
	tKey := make([]float64, len(knots))
	qKey := make([]float64, len(knots))
	for i, k := range knots {
		tKey[i], qKey[i] = k.t, k.q
	}
	time := uhGrid(tb, dtHr)
	flow := make([]float64, len(time))
	for i, t := range time {
		flow[i] = math.Max(interpClamped(tKey, qKey, t), 0)
	}
	return &UnitHydrograph{TimeHr: time, FlowM3s: flow, TpHr: tp, TbHr: tb, PeakM3s: qp}, nil
}

// clarkTimeArea is the default dimensionless time-area relation, a
// diamond shape symmetric about t/Tc = 0.5.
func clarkTimeArea(tTc float64) float64 {
	var a float64
	if tTc <= 0.5 {
		a = 1.414 * math.Pow(tTc, 1.5)
	} else {
		a = 1 - 1.414*math.Pow(1-tTc, 1.5)
	}
	return math.Min(math.Max(a, 0), 1)
}

// ClarkUH builds the Clark unit hydrograph for 1 mm of runoff: the
// time-area curve translates runoff to the outlet over Tc and a linear
// reservoir with storage coefficient R smooths it,
//
//	O_i = c1 (I_i + I_{i-1}) + c0 O_{i-1}
//	c1 = Δt/(2R + Δt), c0 = (2R - Δt)/(2R + Δt)
//
// A zero rHr selects the typical R = 2 Tc.
func ClarkUH(areaKm2, tcHr, rHr, dtHr float64) (*UnitHydrograph, error) {
	if areaKm2 <= 0 {
		return nil, fmt.Errorf("pluvial: clark unit hydrograph: area must be positive, got %g km²", areaKm2)
	}
	if tcHr <= 0 {
		return nil, fmt.Errorf("pluvial: clark unit hydrograph: Tc must be positive, got %g h", tcHr)
	}
	if rHr < 0 {
		return nil, fmt.Errorf("pluvial: clark unit hydrograph: storage coefficient must be non-negative, got %g h", rHr)
	}
	if dtHr <= 0 {
		return nil, fmt.Errorf("pluvial: clark unit hydrograph: step must be positive, got %g h", dtHr)
	}
	if rHr == 0 {
		rHr = 2 * tcHr
	}
	// The recession is within e^-5 of empty at Tc + 5R.
	tb := tcHr + 5*rHr
	time := uhGrid(tb, dtHr)
	step := time[1] - time[0]
	c1 := step / (2*rHr + step)
	c0 := (2*rHr - step) / (2*rHr + step)
	inflow := make([]float64, len(time))
	var prevCum float64
	for i, t := range time {
		cum := clarkTimeArea(math.Min(t/tcHr, 1))
		// 1 mm over the incremental area fraction, as a rate.
		inflow[i] = (cum - prevCum) * areaKm2 * 1000 / (step * 3600)
		prevCum = cum
	}
	flow := make([]float64, len(time))
	peakIdx := 0
	for i := 1; i < len(time); i++ {
		flow[i] = c1*(inflow[i]+inflow[i-1]) + c0*flow[i-1]
		if flow[i] > flow[peakIdx] {
			peakIdx = i
		}
	}
	return &UnitHydrograph{TimeHr: time, FlowM3s: flow, TpHr: time[peakIdx], TbHr: tb, PeakM3s: flow[peakIdx]}, nil
}

// Convolve is the discrete convolution Qn = Σ Pm U(n-m+1) of a
// rainfall-excess series with unit hydrograph ordinates. The output has
// len(excess)+len(uh)-1 samples.
func Convolve(excessMm, uhFlowM3s []float64) []float64 {
	if len(excessMm) == 0 || len(uhFlowM3s) == 0 {
		return nil
	}
	out := make([]float64, len(excessMm)+len(uhFlowM3s)-1)
	for i, p := range excessMm {
		for j, u := range uhFlowM3s {
			out[i+j] += p * u
		}
	}
	return out
}

// TrapezoidVolume integrates a discharge series [m³/s] over time [h]
// into a volume [m³].
func TrapezoidVolume(timeHr, flowM3s []float64) float64 {
	var v float64
	for i := 1; i < len(timeHr); i++ {
		v += (flowM3s[i] + flowM3s[i-1]) / 2 * (timeHr[i] - timeHr[i-1]) * 3600
	}
	return v
}

// FloodHydrograph is the convolution result with its summary figures.
type FloodHydrograph struct {
	TimeHr  []float64
	FlowM3s []float64

	PeakFlowM3s  float64
	TimeToPeakHr float64
	VolumeM3     float64
}

// ComposeHydrograph convolves an excess series with a unit hydrograph
// on a common step and summarizes the result.
func ComposeHydrograph(excessMm []float64, uh *UnitHydrograph, dtHr float64) (*FloodHydrograph, error) {
	if len(excessMm) == 0 {
		return nil, fmt.Errorf("pluvial: compose hydrograph: empty excess series")
	}
	if dtHr <= 0 {
		return nil, fmt.Errorf("pluvial: compose hydrograph: step must be positive, got %g h", dtHr)
	}
	flow := Convolve(excessMm, uh.FlowM3s)
	time := make([]float64, len(flow))
	for i := range time {
		time[i] = float64(i) * dtHr
	}
	peakIdx := 0
	for i, q := range flow {
		if q > flow[peakIdx] {
			peakIdx = i
		}
	}
	return &FloodHydrograph{
		TimeHr:       time,
		FlowM3s:      flow,
		PeakFlowM3s:  flow[peakIdx],
		TimeToPeakHr: time[peakIdx],
		VolumeM3:     TrapezoidVolume(time, flow),
	}, nil
}
