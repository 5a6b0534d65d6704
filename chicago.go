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

// Chicago design storm, Keifer & Chu (1957).

import (
	"fmt"
	"math"
)

// ChicagoStorm builds a Chicago hyetograph from a Sherman IDF relation
// collapsed to a = k Tr^m, b = c, n. With time measured backward from
// the peak (t_b) before it and forward (t_a) after it, the branch
// intensity is
//
//	i = a[(1-n) t' + b] / (t' + b)^(n+1)
//
// where t' = t_b/r before the peak and t' = t_a/(1-r) after it, and r
// is the advancement coefficient (typically 0.3-0.5). The result is
// renormalized so the blocks sum exactly to totalDepthMm.
func ChicagoStorm(totalDepthMm, durationHr, dtMin float64, idf ShermanCoefficients, returnPeriodYr, advancement float64) (*Hyetograph, error) {
	n, err := checkStormGrid(durationHr, dtMin)
	if err != nil {
		return nil, err
	}
	if advancement <= 0 || advancement >= 1 {
		return nil, fmt.Errorf("pluvial: chicago storm: advancement coefficient must be in (0, 1), got %g", advancement)
	}
	r := advancement
	a := idf.K * math.Pow(returnPeriodYr, idf.M)
	b := idf.C
	exp := idf.N

	durationMin := durationHr * 60
	tPeak := r * durationMin
	centers := intervalCenters(n, dtMin)
	branch := func(tScaled float64) float64 {
		return a * ((1-exp)*tScaled + b) / math.Pow(tScaled+b, exp+1)
	}
	intensity := make([]float64, n)
	for i, t := range centers {
		if t <= tPeak {
			intensity[i] = branch((tPeak - t) / r)
		} else {
			intensity[i] = branch((t - tPeak) / (1 - r))
		}
	}
	depths := make([]float64, n)
	var total float64
	for i, in := range intensity {
		depths[i] = in * dtMin / 60
		total += depths[i]
	}
	if total > 0 {
		scale := totalDepthMm / total
		for i := range depths {
			depths[i] *= scale
		}
	}
	return newHyetograph("chicago", centers, depths, dtMin), nil
}
