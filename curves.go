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

// Tabulated storm and unit hydrograph shape curves: the four NRCS 24 h
// cumulative distributions, the Huff (1967) quartile curves, and the
// SCS dimensionless unit hydrograph. Curves live in an explicit
// registry built by the caller, usually from the embedded copies of the
// data files; generators take the registry as an argument instead of
// reading files themselves.

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed data/scs_distributions.json data/huff_curves.json data/unit_hydrographs.json
var curveData embed.FS

// SCSStormType names one of the four NRCS 24 h rainfall distributions.
type SCSStormType string

const (
	SCSTypeI   SCSStormType = "scs_type_i"
	SCSTypeIA  SCSStormType = "scs_type_ia"
	SCSTypeII  SCSStormType = "scs_type_ii"
	SCSTypeIII SCSStormType = "scs_type_iii"
)

// ShapeCurve is a monotone cumulative curve given by knots.
type ShapeCurve struct {
	x, y []float64
}

// At linearly interpolates the curve, clamping outside the knot range.
func (c ShapeCurve) At(x float64) float64 { return interpClamped(c.x, c.y, x) }

// Curves is an immutable registry of tabulated shape curves. Build one
// with LoadCurves (embedded data) or LoadCurvesFrom and share it across
// goroutines.
type Curves struct {
	scs         map[SCSStormType]ShapeCurve
	huff        map[int]map[int]ShapeCurve // quartile → probability → curve
	curvilinear ShapeCurve                 // SCS dimensionless UH, t/Tp → q/qp
}

type scsCurveJSON struct {
	TimeHr []float64 `json:"time_hr"`
	Ratio  []float64 `json:"ratio"`
}

type huffCurveJSON struct {
	TimePct []float64 `json:"time_pct"`
	RainPct []float64 `json:"rain_pct"`
}

type uhCurveJSON struct {
	TTp []float64 `json:"t_Tp"`
	QQp []float64 `json:"q_qp"`
}

// LoadCurves builds the curve registry from the data files compiled
// into the package.
func LoadCurves() (*Curves, error) {
	scsJSON, err := curveData.ReadFile("data/scs_distributions.json")
	if err != nil {
		return nil, err
	}
	huffJSON, err := curveData.ReadFile("data/huff_curves.json")
	if err != nil {
		return nil, err
	}
	uhJSON, err := curveData.ReadFile("data/unit_hydrographs.json")
	if err != nil {
		return nil, err
	}
	return LoadCurvesFrom(scsJSON, huffJSON, uhJSON)
}

// LoadCurvesFrom builds the registry from JSON documents in the layout
// of the data files, validating that every curve is monotone
// nondecreasing and normalized.
func LoadCurvesFrom(scsJSON, huffJSON, uhJSON []byte) (*Curves, error) {
	var scsRaw map[string]scsCurveJSON
	if err := json.Unmarshal(scsJSON, &scsRaw); err != nil {
		return nil, fmt.Errorf("pluvial: parsing SCS distributions: %w", err)
	}
	c := &Curves{
		scs:  make(map[SCSStormType]ShapeCurve),
		huff: make(map[int]map[int]ShapeCurve),
	}
	for name, raw := range scsRaw {
		curve := ShapeCurve{x: raw.TimeHr, y: raw.Ratio}
		if err := checkShapeCurve(name, curve, 24, 1); err != nil {
			return nil, err
		}
		c.scs[SCSStormType(name)] = curve
	}
	var huffRaw map[string]map[string]huffCurveJSON
	if err := json.Unmarshal(huffJSON, &huffRaw); err != nil {
		return nil, fmt.Errorf("pluvial: parsing Huff curves: %w", err)
	}
	for qKey, probs := range huffRaw {
		var q int
		if _, err := fmt.Sscanf(qKey, "huff_q%d", &q); err != nil || q < 1 || q > 4 {
			return nil, fmt.Errorf("pluvial: bad Huff quartile key %q", qKey)
		}
		c.huff[q] = make(map[int]ShapeCurve)
		for pKey, raw := range probs {
			var p int
			if _, err := fmt.Sscanf(pKey, "probability_%d", &p); err != nil {
				return nil, fmt.Errorf("pluvial: bad Huff probability key %q", pKey)
			}
			curve := ShapeCurve{x: raw.TimePct, y: raw.RainPct}
			if err := checkShapeCurve(qKey+"/"+pKey, curve, 100, 100); err != nil {
				return nil, err
			}
			c.huff[q][p] = curve
		}
	}
	var uhRaw map[string]uhCurveJSON
	if err := json.Unmarshal(uhJSON, &uhRaw); err != nil {
		return nil, fmt.Errorf("pluvial: parsing unit hydrograph curves: %w", err)
	}
	raw, ok := uhRaw["scs_curvilinear"]
	if !ok {
		return nil, fmt.Errorf("pluvial: unit hydrograph data is missing scs_curvilinear")
	}
	if len(raw.TTp) != len(raw.QQp) || len(raw.TTp) < 2 {
		return nil, fmt.Errorf("pluvial: malformed scs_curvilinear curve")
	}
	c.curvilinear = ShapeCurve{x: raw.TTp, y: raw.QQp}
	return c, nil
}

// checkShapeCurve verifies a cumulative curve: equal knot counts,
// sorted abscissae ending at xEnd, ordinates rising from 0 to yEnd.
func checkShapeCurve(name string, c ShapeCurve, xEnd, yEnd float64) error {
	if len(c.x) != len(c.y) || len(c.x) < 2 {
		return fmt.Errorf("pluvial: curve %s: malformed knots", name)
	}
	if !sort.Float64sAreSorted(c.x) {
		return fmt.Errorf("pluvial: curve %s: knots are not sorted", name)
	}
	if c.x[0] != 0 || c.x[len(c.x)-1] != xEnd {
		return fmt.Errorf("pluvial: curve %s: domain must be [0, %g]", name, xEnd)
	}
	if c.y[0] != 0 || c.y[len(c.y)-1] != yEnd {
		return fmt.Errorf("pluvial: curve %s: range must be [0, %g]", name, yEnd)
	}
	for i := 1; i < len(c.y); i++ {
		if c.y[i] < c.y[i-1] {
			return fmt.Errorf("pluvial: curve %s: cumulative values decrease at knot %d", name, i)
		}
	}
	return nil
}

// SCS returns the cumulative distribution for an NRCS storm type.
func (c *Curves) SCS(t SCSStormType) (ShapeCurve, error) {
	curve, ok := c.scs[t]
	if !ok {
		return ShapeCurve{}, fmt.Errorf("pluvial: unknown SCS storm type %q", t)
	}
	return curve, nil
}

// Huff returns the curve for a quartile (1-4) and probability level
// (10, 50 or 90 percent).
func (c *Curves) Huff(quartile, probability int) (ShapeCurve, error) {
	probs, ok := c.huff[quartile]
	if !ok {
		return ShapeCurve{}, fmt.Errorf("pluvial: Huff quartile must be 1-4, got %d", quartile)
	}
	curve, ok := probs[probability]
	if !ok {
		return ShapeCurve{}, fmt.Errorf("pluvial: Huff probability must be 10, 50 or 90, got %d", probability)
	}
	return curve, nil
}

// Curvilinear returns the SCS dimensionless unit hydrograph.
func (c *Curves) Curvilinear() ShapeCurve { return c.curvilinear }
