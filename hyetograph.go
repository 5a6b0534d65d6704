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

// Shared hyetograph representation and the storm catalogue used by the
// batch driver.

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Hyetograph is a design storm discretized on a regular time step.
// TimeMin holds the center of each interval, so a storm of n intervals
// of step dt spans [0, n·dt] with TimeMin[i] = i·dt + dt/2.
type Hyetograph struct {
	Method string

	TimeMin       []float64 // interval centers [min]
	IntensityMmHr []float64
	DepthMm       []float64 // incremental depth per interval [mm]
	CumulativeMm  []float64

	TotalDepthMm      float64
	PeakIntensityMmHr float64
}

// StepMin returns the time step in minutes, inferred from the first two
// interval centers.
func (h *Hyetograph) StepMin() float64 {
	if len(h.TimeMin) < 2 {
		return 0
	}
	return h.TimeMin[1] - h.TimeMin[0]
}

// newHyetograph derives intensities, cumulative depth and the summary
// fields from incremental depths on a regular step.
func newHyetograph(method string, timeMin, depthMm []float64, dtMin float64) *Hyetograph {
	intensity := make([]float64, len(depthMm))
	for i, d := range depthMm {
		intensity[i] = d * 60 / dtMin
	}
	cumulative := make([]float64, len(depthMm))
	floats.CumSum(cumulative, depthMm)
	h := &Hyetograph{
		Method:        method,
		TimeMin:       timeMin,
		IntensityMmHr: intensity,
		DepthMm:       depthMm,
		CumulativeMm:  cumulative,
		TotalDepthMm:  floats.Sum(depthMm),
	}
	if len(intensity) > 0 {
		h.PeakIntensityMmHr = floats.Max(intensity)
	}
	return h
}

// intervalCenters returns the n interval-center times for step dtMin.
func intervalCenters(n int, dtMin float64) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i)*dtMin + dtMin/2
	}
	return t
}

// checkStormGrid validates a duration/step pair and returns the number
// of whole intervals.
func checkStormGrid(durationHr, dtMin float64) (int, error) {
	if durationHr <= 0 {
		return 0, fmt.Errorf("pluvial: storm duration must be positive, got %g h", durationHr)
	}
	if dtMin <= 0 {
		return 0, fmt.Errorf("pluvial: storm time step must be positive, got %g min", dtMin)
	}
	n := int(durationHr * 60 / dtMin)
	if n < 1 {
		return 0, fmt.Errorf("pluvial: storm of %g h has no whole %g min interval", durationHr, dtMin)
	}
	return n, nil
}

// distributeAlternatingBlocks places depth increments, sorted largest
// first, alternately left and right of the peak interval. When one side
// fills up the remainder spills to the other.
func distributeAlternatingBlocks(sortedIncrements []float64, n int, peakPosition float64) []float64 {
	peak := int(peakPosition * float64(n))
	if peak >= n {
		peak = n - 1
	}
	out := make([]float64, n)
	left, right := peak, peak+1
	toggle := true
	for _, inc := range sortedIncrements {
		switch {
		case toggle && left >= 0:
			out[left] = inc
			left--
		case !toggle && right < n:
			out[right] = inc
			right++
		case left >= 0:
			out[left] = inc
			left--
		case right < n:
			out[right] = inc
			right++
		}
		toggle = !toggle
	}
	return out
}

// incrementsFromCumulative converts a cumulative depth series to
// per-interval increments of the same length.
func incrementsFromCumulative(cumulative []float64) []float64 {
	inc := make([]float64, len(cumulative))
	var prev float64
	for i, c := range cumulative {
		inc[i] = c - prev
		prev = c
	}
	return inc
}

// StormCode identifies a design storm recipe of the batch driver. The
// recipe fixes both the hyetograph generator and the duration policy.
type StormCode string

const (
	// StormGZ is the 6 h DINAGUA alternating-blocks storm with the
	// peak placed at one sixth of the duration.
	StormGZ StormCode = "gz"
	// StormBlocks24 is a 24 h DINAGUA alternating-blocks storm.
	StormBlocks24 StormCode = "blocks24"
	// StormSCSII is a 24 h storm shaped by the SCS Type II curve with
	// its total depth taken from the DINAGUA relation.
	StormSCSII StormCode = "scs_ii"
	// StormBimodal is a double-peak storm with DINAGUA total depth.
	StormBimodal StormCode = "bimodal"
	// StormCustom distributes a user-supplied total depth, or replays
	// a measured event.
	StormCustom StormCode = "custom"

	StormHuffQ1 StormCode = "huff_q1"
	StormHuffQ2 StormCode = "huff_q2"
	StormHuffQ3 StormCode = "huff_q3"
	StormHuffQ4 StormCode = "huff_q4"
)

// gzPeakPosition places the alternating-blocks peak of the GZ storm at
// one sixth of the duration, per the DINAGUA design storm.
const gzPeakPosition = 1.0 / 6.0

// HuffQuartile returns the Huff quartile of a huff_qN code, or 0 when
// the code is not a Huff storm.
func (c StormCode) HuffQuartile() int {
	switch c {
	case StormHuffQ1:
		return 1
	case StormHuffQ2:
		return 2
	case StormHuffQ3:
		return 3
	case StormHuffQ4:
		return 4
	}
	return 0
}

// StormDurationAndStep resolves the storm duration and time step for a
// storm code given the basin's time of concentration. The 24 h recipes
// floor the step at 10 min to keep the interval count reasonable; Huff
// storms span twice the time of concentration with a 2 h minimum; other
// Tc-driven storms span at least 1 h.
func StormDurationAndStep(code StormCode, tcHr, dtMin, bimodalDurationHr, customDurationHr float64) (durationHr, stepMin float64) {
	stepMin = dtMin
	switch {
	case code == StormGZ:
		durationHr = 6
	case code == StormBimodal:
		durationHr = bimodalDurationHr
	case code == StormCustom:
		durationHr = customDurationHr
	case code == StormBlocks24 || code == StormSCSII:
		durationHr = 24
		if stepMin < 10 {
			stepMin = 10
		}
	case code.HuffQuartile() > 0:
		durationHr = math.Max(tcHr*2, 2)
	default:
		durationHr = math.Max(tcHr, 1)
	}
	return durationHr, stepMin
}
