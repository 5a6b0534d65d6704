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

// Double-peak design storms, used for mixed-imperviousness urban basins
// and long frontal events where a single-peak storm underestimates the
// second rise of the hydrograph.

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// BimodalConfig places the two peaks of a bimodal storm on normalized
// time (0 at storm start, 1 at the end).
type BimodalConfig struct {
	Peak1Position     float64 // default 0.25
	Peak2Position     float64 // default 0.75
	VolumeSplit       float64 // fraction of the depth in the first peak, default 0.5
	PeakWidthFraction float64 // half-width of each peak, default 0.15
}

// withDefaults fills zero fields with the standard peak layout.
func (c BimodalConfig) withDefaults() BimodalConfig {
	if c.Peak1Position == 0 {
		c.Peak1Position = 0.25
	}
	if c.Peak2Position == 0 {
		c.Peak2Position = 0.75
	}
	if c.VolumeSplit == 0 {
		c.VolumeSplit = 0.5
	}
	if c.PeakWidthFraction == 0 {
		c.PeakWidthFraction = 0.15
	}
	return c
}

func (c BimodalConfig) check() error {
	if c.Peak1Position < 0 || c.Peak1Position > 1 || c.Peak2Position < 0 || c.Peak2Position > 1 {
		return fmt.Errorf("pluvial: bimodal storm: peak positions must be in [0, 1]")
	}
	if c.VolumeSplit < 0 || c.VolumeSplit > 1 {
		return fmt.Errorf("pluvial: bimodal storm: volume split must be in [0, 1], got %g", c.VolumeSplit)
	}
	if c.PeakWidthFraction <= 0 {
		return fmt.Errorf("pluvial: bimodal storm: peak width must be positive, got %g", c.PeakWidthFraction)
	}
	return nil
}

// triangularPeak fills dst with a triangular pulse centered on center
// with the given half-width on normalized time t, scaled so its
// trapezoidal area equals volume.
func triangularPeak(dst, t []float64, center, width, volume float64) {
	left, right := center-width, center+width
	for i, x := range t {
		switch {
		case x >= left && x <= center:
			dst[i] = (x - left) / (center - left)
		case x > center && x <= right:
			dst[i] = (right - x) / (right - center)
		default:
			dst[i] = 0
		}
	}
	var area float64
	for i := 1; i < len(t); i++ {
		area += (dst[i] + dst[i-1]) / 2 * (t[i] - t[i-1])
	}
	if area > 0 {
		scale := volume / area
		for i := range dst {
			dst[i] *= scale
		}
	}
}

// BimodalStorm builds a double triangular-peak hyetograph. The two
// pulses are scaled to the volume split and then renormalized so the
// blocks sum exactly to totalDepthMm.
func BimodalStorm(totalDepthMm, durationHr, dtMin float64, cfg BimodalConfig) (*Hyetograph, error) {
	cfg = cfg.withDefaults()
	if err := cfg.check(); err != nil {
		return nil, err
	}
	n, err := checkStormGrid(durationHr, dtMin)
	if err != nil {
		return nil, err
	}
	centers := intervalCenters(n, dtMin)
	tNorm := make([]float64, n)
	for i, t := range centers {
		tNorm[i] = t / (durationHr * 60)
	}
	peak1 := make([]float64, n)
	peak2 := make([]float64, n)
	triangularPeak(peak1, tNorm, cfg.Peak1Position, cfg.PeakWidthFraction, totalDepthMm*cfg.VolumeSplit)
	triangularPeak(peak2, tNorm, cfg.Peak2Position, cfg.PeakWidthFraction, totalDepthMm*(1-cfg.VolumeSplit))
	depths := make([]float64, n)
	floats.AddTo(depths, peak1, peak2)
	if total := floats.Sum(depths); total > 0 {
		floats.Scale(totalDepthMm/total, depths)
	}
	return newHyetograph("bimodal", centers, depths, dtMin), nil
}

// BimodalDinagua builds a bimodal hyetograph whose total depth comes
// from the DINAGUA IDF relation. Pass areaKm2 = 0 for point rainfall.
func BimodalDinagua(p310, returnPeriodYr, durationHr, dtMin, areaKm2 float64, cfg BimodalConfig) (*Hyetograph, error) {
	total, err := DinaguaDepth(p310, returnPeriodYr, durationHr, areaKm2)
	if err != nil {
		return nil, err
	}
	h, err := BimodalStorm(total, durationHr, dtMin, cfg)
	if err != nil {
		return nil, err
	}
	h.Method = "bimodal_dinagua"
	return h, nil
}

// BimodalChicago superposes two Chicago storms with advancement
// coefficients at the two peak positions, splitting the depth between
// them and renormalizing the sum.
func BimodalChicago(totalDepthMm, durationHr, dtMin float64, idf ShermanCoefficients, returnPeriodYr float64, cfg BimodalConfig) (*Hyetograph, error) {
	cfg = cfg.withDefaults()
	if err := cfg.check(); err != nil {
		return nil, err
	}
	storm1, err := ChicagoStorm(totalDepthMm*cfg.VolumeSplit, durationHr, dtMin, idf, returnPeriodYr, cfg.Peak1Position)
	if err != nil {
		return nil, err
	}
	storm2, err := ChicagoStorm(totalDepthMm*(1-cfg.VolumeSplit), durationHr, dtMin, idf, returnPeriodYr, cfg.Peak2Position)
	if err != nil {
		return nil, err
	}
	depths := make([]float64, len(storm1.DepthMm))
	floats.AddTo(depths, storm1.DepthMm, storm2.DepthMm)
	if total := floats.Sum(depths); total > 0 {
		floats.Scale(totalDepthMm/total, depths)
	}
	return newHyetograph("bimodal_chicago", storm1.TimeMin, depths, dtMin), nil
}
