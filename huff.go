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

import "fmt"

// HuffDistribution shapes a total depth by a Huff (1967) dimensionless
// curve. The quartile (1-4) says in which quarter of the storm the bulk
// of the rain falls; the probability level (10, 50 or 90) picks a
// steeper or flatter representative of that family.
func HuffDistribution(totalDepthMm, durationHr, dtMin float64, quartile, probability int, curves *Curves) (*Hyetograph, error) {
	curve, err := curves.Huff(quartile, probability)
	if err != nil {
		return nil, err
	}
	n, err := checkStormGrid(durationHr, dtMin)
	if err != nil {
		return nil, err
	}
	depths := make([]float64, n)
	var prev float64
	for i := 0; i < n; i++ {
		pct := float64(i+1) / float64(n) * 100
		cum := curve.At(pct) / 100 * totalDepthMm
		depths[i] = cum - prev
		prev = cum
	}
	return newHyetograph(fmt.Sprintf("huff_q%d_p%d", quartile, probability), intervalCenters(n, dtMin), depths, dtMin), nil
}
