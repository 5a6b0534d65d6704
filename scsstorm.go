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

// SCSDistribution shapes a total depth by one of the NRCS 24 h
// cumulative distributions. Durations other than 24 h compress or
// stretch the reference curve in time, which the NRCS tolerates for
// nearby durations. The cumulative curve is sampled at interval
// boundaries and differenced, so the blocks sum to the total exactly.
func SCSDistribution(totalDepthMm, durationHr, dtMin float64, stormType SCSStormType, curves *Curves) (*Hyetograph, error) {
	curve, err := curves.SCS(stormType)
	if err != nil {
		return nil, err
	}
	n, err := checkStormGrid(durationHr, dtMin)
	if err != nil {
		return nil, err
	}
	// The grid may truncate the duration to n whole steps; the curve
	// spans the gridded length so the blocks still sum to the total.
	spanHr := float64(n) * dtMin / 60
	depths := make([]float64, n)
	var prev float64
	for i := 0; i < n; i++ {
		tEdgeHr := float64(i+1) * dtMin / 60
		// Scale the boundary time back to the 24 h reference curve.
		cum := curve.At(tEdgeHr*24/spanHr) * totalDepthMm
		depths[i] = cum - prev
		prev = cum
	}
	return newHyetograph(string(stormType), intervalCenters(n, dtMin), depths, dtMin), nil
}
