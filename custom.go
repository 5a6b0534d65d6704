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

// Storms built from a known total depth (for example a gauged event
// total) or replayed from measured interval data.

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// CustomDistribution selects how CustomDepthStorm spreads a known total
// depth over the storm duration.
type CustomDistribution string

const (
	DistUniform           CustomDistribution = "uniform"
	DistTriangular        CustomDistribution = "triangular"
	DistAlternatingBlocks CustomDistribution = "alternating_blocks"
	DistSCSTypeII         CustomDistribution = "scs_type_ii"
	DistHuffQ1            CustomDistribution = "huff_q1"
	DistHuffQ2            CustomDistribution = "huff_q2"
	DistHuffQ3            CustomDistribution = "huff_q3"
	DistHuffQ4            CustomDistribution = "huff_q4"
)

// CustomDepthStorm distributes a known total depth over the duration.
// The alternating-blocks variant has no IDF curve to read, so it builds
// a synthetic cumulative relation P(d) = P_total (d/D)^0.6 before
// differencing and reordering. The SCS and Huff variants need the curve
// registry; the others ignore it.
func CustomDepthStorm(totalDepthMm, durationHr, dtMin float64, dist CustomDistribution, peakPosition float64, curves *Curves) (*Hyetograph, error) {
	if totalDepthMm <= 0 {
		return nil, fmt.Errorf("pluvial: custom storm: total depth must be positive, got %g mm", totalDepthMm)
	}
	n, err := checkStormGrid(durationHr, dtMin)
	if err != nil {
		return nil, err
	}
	centers := intervalCenters(n, dtMin)

	switch dist {
	case DistUniform:
		depths := make([]float64, n)
		for i := range depths {
			depths[i] = totalDepthMm / float64(n)
		}
		return newHyetograph("custom_uniform", centers, depths, dtMin), nil

	case DistTriangular:
		peak := n / 2
		depths := make([]float64, n)
		for i := range depths {
			if i <= peak {
				if peak > 0 {
					depths[i] = float64(i) / float64(peak)
				} else {
					depths[i] = 1
				}
			} else {
				depths[i] = float64(n-1-i) / float64(n-1-peak)
			}
		}
		var sum float64
		for _, d := range depths {
			sum += d
		}
		for i := range depths {
			depths[i] *= totalDepthMm / sum
		}
		return newHyetograph("custom_triangular", centers, depths, dtMin), nil

	case DistAlternatingBlocks:
		if err := checkPeakPosition(peakPosition); err != nil {
			return nil, err
		}
		cumulative := make([]float64, n)
		for i := 0; i < n; i++ {
			ratio := float64(i+1) / float64(n)
			cumulative[i] = totalDepthMm * math.Pow(ratio, 0.6)
		}
		increments := incrementsFromCumulative(cumulative)
		sort.Sort(sort.Reverse(sort.Float64Slice(increments)))
		depths := distributeAlternatingBlocks(increments, n, peakPosition)
		return newHyetograph("custom_alternating_blocks", centers, depths, dtMin), nil

	case DistSCSTypeII:
		h, err := SCSDistribution(totalDepthMm, durationHr, dtMin, SCSTypeII, curves)
		if err != nil {
			return nil, err
		}
		h.Method = "custom_scs_type_ii"
		return h, nil
	}

	if q, ok := huffQuartileOf(dist); ok {
		h, err := HuffDistribution(totalDepthMm, durationHr, dtMin, q, 50, curves)
		if err != nil {
			return nil, err
		}
		h.Method = fmt.Sprintf("custom_huff_q%d", q)
		return h, nil
	}
	return nil, fmt.Errorf("pluvial: unknown custom distribution %q", dist)
}

func huffQuartileOf(dist CustomDistribution) (int, bool) {
	s := string(dist)
	if !strings.HasPrefix(s, "huff_q") {
		return 0, false
	}
	q, err := strconv.Atoi(strings.TrimPrefix(s, "huff_q"))
	if err != nil || q < 1 || q > 4 {
		return 0, false
	}
	return q, true
}

// CustomHyetograph wraps a measured event given as interval-center
// times and per-interval depths. The step is inferred from the first
// two times; at least two equally spaced intervals are required.
func CustomHyetograph(timeMin, depthMm []float64) (*Hyetograph, error) {
	if len(timeMin) != len(depthMm) {
		return nil, fmt.Errorf("pluvial: custom hyetograph: %d times but %d depths", len(timeMin), len(depthMm))
	}
	if len(timeMin) < 2 {
		return nil, fmt.Errorf("pluvial: custom hyetograph: need at least 2 intervals, got %d", len(timeMin))
	}
	dtMin := timeMin[1] - timeMin[0]
	if dtMin <= 0 {
		return nil, fmt.Errorf("pluvial: custom hyetograph: times must increase")
	}
	return newHyetograph("custom_event", timeMin, depthMm, dtMin), nil
}
