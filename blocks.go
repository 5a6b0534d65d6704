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

// Alternating-blocks hyetographs. Cumulative depths are read off an IDF
// relation at multiples of the time step, differenced into blocks, and
// rearranged around the peak.

import (
	"fmt"
	"math"
	"sort"
)

func checkPeakPosition(p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("pluvial: alternating blocks: peak position must be in [0, 1], got %g", p)
	}
	return nil
}

// AlternatingBlocks builds a hyetograph from a Sherman IDF relation.
// When totalDepthMm differs from the depth the IDF curve yields for the
// full duration, the blocks are rescaled to match it.
func AlternatingBlocks(totalDepthMm, durationHr, dtMin float64, idf ShermanCoefficients, returnPeriodYr, peakPosition float64) (*Hyetograph, error) {
	n, err := checkStormGrid(durationHr, dtMin)
	if err != nil {
		return nil, err
	}
	if err := checkPeakPosition(peakPosition); err != nil {
		return nil, err
	}
	cumulative := make([]float64, n)
	for i := 0; i < n; i++ {
		d := float64(i+1) * dtMin
		intensity, err := idf.Intensity(d, returnPeriodYr)
		if err != nil {
			return nil, err
		}
		cumulative[i] = intensity * d / 60
	}
	increments := incrementsFromCumulative(cumulative)
	if idfTotal := cumulative[n-1]; math.Abs(idfTotal-totalDepthMm) > 0.01 {
		scale := totalDepthMm / idfTotal
		for i := range increments {
			increments[i] *= scale
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(increments)))
	depths := distributeAlternatingBlocks(increments, n, peakPosition)
	return newHyetograph("alternating_blocks", intervalCenters(n, dtMin), depths, dtMin), nil
}

// AlternatingBlocksDinagua builds an alternating-blocks hyetograph
// whose cumulative depths come from the DINAGUA IDF relation. Pass
// areaKm2 = 0 for point rainfall.
func AlternatingBlocksDinagua(p310, returnPeriodYr, durationHr, dtMin, areaKm2, peakPosition float64) (*Hyetograph, error) {
	n, err := checkStormGrid(durationHr, dtMin)
	if err != nil {
		return nil, err
	}
	if err := checkPeakPosition(peakPosition); err != nil {
		return nil, err
	}
	dtHr := dtMin / 60
	cumulative := make([]float64, n)
	for i := 0; i < n; i++ {
		depth, err := DinaguaDepth(p310, returnPeriodYr, float64(i+1)*dtHr, areaKm2)
		if err != nil {
			return nil, err
		}
		cumulative[i] = depth
	}
	increments := incrementsFromCumulative(cumulative)
	sort.Sort(sort.Reverse(sort.Float64Slice(increments)))
	depths := distributeAlternatingBlocks(increments, n, peakPosition)
	return newHyetograph("alternating_blocks_dinagua", intervalCenters(n, dtMin), depths, dtMin), nil
}
