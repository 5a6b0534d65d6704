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

// NRCS TR-55 segmented velocity method for time of concentration. A flow
// path is described as an ordered list of segments of three regimes
// (sheet, shallow concentrated, open channel); the travel times of the
// segments add up to Tc.

import (
	"fmt"
	"math"
)

// ShallowSurface selects the velocity coefficient for shallow
// concentrated flow (TR-55 Figure 3-1, converted to SI).
type ShallowSurface string

const (
	ShallowPaved      ShallowSurface = "paved"
	ShallowUnpaved    ShallowSurface = "unpaved"
	ShallowGrassed    ShallowSurface = "grassed"
	ShallowShortGrass ShallowSurface = "short_grass"
)

// shallowFlowK is the intercept coefficient k in V = k √S [m/s].
var shallowFlowK = map[ShallowSurface]float64{
	ShallowPaved:      6.196,
	ShallowUnpaved:    4.918,
	ShallowGrassed:    4.572,
	ShallowShortGrass: 2.134,
}

// SheetFlowN gives typical Manning roughness values for sheet flow
// (TR-55 Table 3-1).
var SheetFlowN = map[string]float64{
	"smooth":      0.011,
	"fallow":      0.05,
	"short_grass": 0.15,
	"dense_grass": 0.24,
	"light_woods": 0.40,
	"dense_woods": 0.80,
}

// TCSegment is one reach of an NRCS flow path. The three implementations
// are SheetFlowSegment, ShallowFlowSegment and ChannelFlowSegment;
// NRCSVelocityMethod switches on the concrete type.
type TCSegment interface {
	isTCSegment()
}

// SheetFlowSegment is overland sheet flow over the first reach of the
// path, limited to 100 m. P2Mm is the 2 yr, 24 h precipitation depth; a
// zero value defers to the default passed to NRCSVelocityMethod.
type SheetFlowSegment struct {
	LengthM float64
	N       float64
	Slope   float64
	P2Mm    float64
}

// ShallowFlowSegment is shallow concentrated flow.
type ShallowFlowSegment struct {
	LengthM float64
	Slope   float64
	Surface ShallowSurface
}

// ChannelFlowSegment is open channel flow with Manning velocity.
type ChannelFlowSegment struct {
	LengthM          float64
	N                float64
	Slope            float64
	HydraulicRadiusM float64
}

func (SheetFlowSegment) isTCSegment()   {}
func (ShallowFlowSegment) isTCSegment() {}
func (ChannelFlowSegment) isTCSegment() {}

// NRCSSheetFlow computes the sheet-flow travel time in hours,
//
//	Tt = 0.007 (n L)^0.8 / (P2^0.5 S^0.4)  [Tt: hr, L: ft, P2: in]
//
// with L limited to 100 m as TR-55 recommends.
func NRCSSheetFlow(lengthM, n, slope, p2Mm float64) (float64, error) {
	if lengthM <= 0 || lengthM > 100 {
		return 0, fmt.Errorf("pluvial: nrcs sheet flow: length must be in (0, 100] m, got %g", lengthM)
	}
	if n <= 0 {
		return 0, fmt.Errorf("pluvial: nrcs sheet flow: Manning n must be positive, got %g", n)
	}
	if slope <= 0 {
		return 0, fmt.Errorf("pluvial: nrcs sheet flow: slope must be positive, got %g", slope)
	}
	if p2Mm <= 0 {
		return 0, fmt.Errorf("pluvial: nrcs sheet flow: P2 must be positive, got %g mm", p2Mm)
	}
	p2In := p2Mm / 25.4
	lengthFt := lengthM * 3.28084
	return 0.007 * math.Pow(n*lengthFt, 0.8) / (math.Sqrt(p2In) * math.Pow(slope, 0.4)), nil
}

// NRCSShallowFlow computes the shallow concentrated flow travel time in
// hours from V = k √S. Unknown surfaces fall back to the unpaved
// coefficient.
func NRCSShallowFlow(lengthM, slope float64, surface ShallowSurface) (float64, error) {
	if lengthM <= 0 {
		return 0, fmt.Errorf("pluvial: nrcs shallow flow: length must be positive, got %g m", lengthM)
	}
	if slope <= 0 {
		return 0, fmt.Errorf("pluvial: nrcs shallow flow: slope must be positive, got %g", slope)
	}
	k, ok := shallowFlowK[surface]
	if !ok {
		k = shallowFlowK[ShallowUnpaved]
	}
	v := k * math.Sqrt(slope)
	return lengthM / (v * 3600), nil
}

// NRCSChannelFlow computes the open-channel travel time in hours with
// the Manning velocity V = (1/n) R^(2/3) √S.
func NRCSChannelFlow(lengthM, n, slope, hydraulicRadiusM float64) (float64, error) {
	if lengthM <= 0 {
		return 0, fmt.Errorf("pluvial: nrcs channel flow: length must be positive, got %g m", lengthM)
	}
	if n <= 0 {
		return 0, fmt.Errorf("pluvial: nrcs channel flow: Manning n must be positive, got %g", n)
	}
	if slope <= 0 {
		return 0, fmt.Errorf("pluvial: nrcs channel flow: slope must be positive, got %g", slope)
	}
	if hydraulicRadiusM <= 0 {
		return 0, fmt.Errorf("pluvial: nrcs channel flow: hydraulic radius must be positive, got %g m", hydraulicRadiusM)
	}
	v := (1 / n) * math.Pow(hydraulicRadiusM, 2.0/3.0) * math.Sqrt(slope)
	return lengthM / (v * 3600), nil
}

// NRCSVelocityMethod sums the travel times of the flow path segments.
// defaultP2Mm is used for sheet flow segments that do not carry their
// own P2. An empty path has zero travel time.
func NRCSVelocityMethod(segments []TCSegment, defaultP2Mm float64) (float64, error) {
	var total float64
	for i, seg := range segments {
		var tt float64
		var err error
		switch s := seg.(type) {
		case SheetFlowSegment:
			p2 := s.P2Mm
			if p2 == 0 {
				p2 = defaultP2Mm
			}
			tt, err = NRCSSheetFlow(s.LengthM, s.N, s.Slope, p2)
		case ShallowFlowSegment:
			tt, err = NRCSShallowFlow(s.LengthM, s.Slope, s.Surface)
		case ChannelFlowSegment:
			tt, err = NRCSChannelFlow(s.LengthM, s.N, s.Slope, s.HydraulicRadiusM)
		default:
			err = fmt.Errorf("pluvial: nrcs velocity method: unknown segment type %T", seg)
		}
		if err != nil {
			return 0, fmt.Errorf("pluvial: nrcs velocity method: segment %d: %w", i, err)
		}
		total += tt
	}
	return total, nil
}
