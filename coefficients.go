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

// Published runoff coefficient and curve number tables, area weighting,
// and return-period adjustment. Sources: Chow, Maidment & Mays, Applied
// Hydrology, Table 5.5.2; FHWA HEC-22 Urban Drainage Design Manual;
// NRCS TR-55.

import (
	"fmt"
)

// chowTrColumns are the return periods of the Chow Table 5.5.2 columns.
var chowTrColumns = []float64{2, 5, 10, 25, 50, 100}

// ChowCEntry is one row of Chow Table 5.5.2, giving the rational runoff
// coefficient at six return periods.
type ChowCEntry struct {
	Category    string
	Description string
	C           [6]float64 // at Tr = 2, 5, 10, 25, 50, 100 yr
}

// CForTr returns the coefficient at the given return period, linearly
// interpolating between table columns and clamping outside 2–100 yr.
func (e ChowCEntry) CForTr(tr float64) float64 {
	return interpClamped(chowTrColumns, e.C[:], tr)
}

// FHWACEntry is one row of the HEC-22 coefficient table. CBase applies
// for return periods up to 10 yr; larger storms scale it by a frequency
// factor growing to 1.25 at 100 yr, capped so C never exceeds 1.
type FHWACEntry struct {
	Category    string
	Description string
	CBase       float64
}

// CForTr returns the frequency-adjusted coefficient.
func (e FHWACEntry) CForTr(tr float64) float64 {
	var factor float64
	switch {
	case tr <= 10:
		factor = 1.0
	case tr <= 25:
		factor = 1.0 + 0.1*(tr-10)/15
	case tr <= 50:
		factor = 1.1 + 0.1*(tr-25)/25
	case tr <= 100:
		factor = 1.2 + 0.05*(tr-50)/50
	default:
		factor = 1.25
	}
	c := e.CBase * factor
	if c > 1 {
		c = 1
	}
	return c
}

// SoilGroup is an NRCS hydrologic soil group.
type SoilGroup string

const (
	SoilA SoilGroup = "A" // deep sands, lowest runoff potential
	SoilB SoilGroup = "B"
	SoilC SoilGroup = "C"
	SoilD SoilGroup = "D" // clays, highest runoff potential
)

// CNEntry is one row of the TR-55 curve number table with values for
// the four hydrologic soil groups.
type CNEntry struct {
	Category    string
	Description string
	Condition   string // hydrologic condition: good, fair, poor, or n/a
	A, B, C, D  int
}

// CN returns the curve number for the given soil group, defaulting to
// group B for unknown groups.
func (e CNEntry) CN(g SoilGroup) int {
	switch g {
	case SoilA:
		return e.A
	case SoilB:
		return e.B
	case SoilC:
		return e.C
	case SoilD:
		return e.D
	}
	return e.B
}

// ChowCTable is Chow Table 5.5.2 (runoff coefficients for use in the
// rational method, by return period).
var ChowCTable = []ChowCEntry{
	{"commercial", "Dense downtown business", [6]float64{0.75, 0.80, 0.85, 0.88, 0.90, 0.95}},
	{"commercial", "Neighborhood business", [6]float64{0.50, 0.55, 0.60, 0.65, 0.70, 0.75}},
	{"residential", "Single family", [6]float64{0.25, 0.30, 0.35, 0.40, 0.45, 0.50}},
	{"residential", "Detached multi-unit", [6]float64{0.35, 0.40, 0.45, 0.50, 0.55, 0.60}},
	{"residential", "Attached multi-unit", [6]float64{0.45, 0.50, 0.55, 0.60, 0.65, 0.70}},
	{"residential", "Suburban", [6]float64{0.20, 0.25, 0.30, 0.35, 0.40, 0.45}},
	{"residential", "Apartments", [6]float64{0.50, 0.55, 0.60, 0.65, 0.70, 0.75}},
	{"industrial", "Light industry", [6]float64{0.50, 0.55, 0.60, 0.65, 0.70, 0.80}},
	{"industrial", "Heavy industry", [6]float64{0.60, 0.65, 0.70, 0.75, 0.80, 0.85}},
	{"surfaces", "Asphalt pavement", [6]float64{0.70, 0.75, 0.80, 0.85, 0.90, 0.95}},
	{"surfaces", "Concrete pavement", [6]float64{0.75, 0.80, 0.85, 0.90, 0.92, 0.95}},
	{"surfaces", "Roofs", [6]float64{0.75, 0.80, 0.85, 0.90, 0.92, 0.95}},
	{"surfaces", "Brick pavers, open joints", [6]float64{0.50, 0.55, 0.60, 0.65, 0.70, 0.75}},
	{"surfaces", "Gravel and macadam", [6]float64{0.25, 0.30, 0.35, 0.40, 0.45, 0.50}},
	{"lawns, sandy soil", "Flat (<2%)", [6]float64{0.05, 0.08, 0.10, 0.13, 0.15, 0.18}},
	{"lawns, sandy soil", "Average (2-7%)", [6]float64{0.10, 0.13, 0.16, 0.19, 0.22, 0.25}},
	{"lawns, sandy soil", "Steep (>7%)", [6]float64{0.15, 0.18, 0.21, 0.25, 0.29, 0.32}},
	{"lawns, heavy clay soil", "Flat (<2%)", [6]float64{0.13, 0.16, 0.19, 0.23, 0.26, 0.29}},
	{"lawns, heavy clay soil", "Average (2-7%)", [6]float64{0.18, 0.21, 0.25, 0.29, 0.34, 0.37}},
	{"lawns, heavy clay soil", "Steep (>7%)", [6]float64{0.25, 0.29, 0.34, 0.40, 0.44, 0.50}},
}

// FHWACTable is the HEC-22 runoff coefficient table. The base values
// apply for 2–10 yr storms.
var FHWACTable = []FHWACEntry{
	{"commercial", "Downtown business", 0.85},
	{"commercial", "Neighborhood business", 0.60},
	{"industrial", "Light industry", 0.65},
	{"industrial", "Heavy industry", 0.75},
	{"residential", "Single family, lots >1000 m²", 0.40},
	{"residential", "Single family, lots 500-1000 m²", 0.50},
	{"residential", "Single family, lots <500 m²", 0.60},
	{"residential", "Multi-family, apartments", 0.70},
	{"residential", "Condominiums, townhouses", 0.60},
	{"surfaces", "Asphalt and concrete", 0.85},
	{"surfaces", "Brick pavers", 0.78},
	{"surfaces", "Roofs", 0.85},
	{"surfaces", "Gravel", 0.32},
	{"lawns, sandy soil", "Flat <2%", 0.08},
	{"lawns, sandy soil", "Average 2-7%", 0.12},
	{"lawns, sandy soil", "Steep >7%", 0.18},
	{"lawns, clay soil", "Flat <2%", 0.15},
	{"lawns, clay soil", "Average 2-7%", 0.20},
	{"lawns, clay soil", "Steep >7%", 0.28},
}

// SCSCNTable is the unified TR-55 curve number table (urban rows first,
// then agricultural).
var SCSCNTable = []CNEntry{
	{"residential", "Lots 500 m² (65% impervious)", "n/a", 77, 85, 90, 92},
	{"residential", "Lots 1000 m² (38% impervious)", "n/a", 61, 75, 83, 87},
	{"residential", "Lots 1500 m² (30% impervious)", "n/a", 57, 72, 81, 86},
	{"residential", "Lots 2000 m² (25% impervious)", "n/a", 54, 70, 80, 85},
	{"residential", "Lots 4000 m² (20% impervious)", "n/a", 51, 68, 79, 84},
	{"commercial", "Business districts (85% impervious)", "n/a", 89, 92, 94, 95},
	{"industrial", "Industrial districts (72% impervious)", "n/a", 81, 88, 91, 93},
	{"surfaces", "Impervious pavement", "n/a", 98, 98, 98, 98},
	{"surfaces", "Gravel", "n/a", 76, 85, 89, 91},
	{"surfaces", "Dirt", "n/a", 72, 82, 87, 89},
	{"open space", "Grass cover >75%", "good", 39, 61, 74, 80},
	{"open space", "Grass cover 50-75%", "fair", 49, 69, 79, 84},
	{"open space", "Grass cover <50%", "poor", 68, 79, 86, 89},
	{"fallow", "Bare soil", "n/a", 77, 86, 91, 94},
	{"row crops", "Straight row", "poor", 72, 81, 88, 91},
	{"row crops", "Straight row", "good", 67, 78, 85, 89},
	{"row crops", "Contoured", "poor", 70, 79, 84, 88},
	{"row crops", "Contoured", "good", 65, 75, 82, 86},
	{"row crops", "Terraced", "poor", 66, 74, 80, 82},
	{"row crops", "Terraced", "good", 62, 71, 78, 81},
	{"pasture", "Continuous forage", "poor", 68, 79, 86, 89},
	{"pasture", "Continuous forage", "fair", 49, 69, 79, 84},
	{"pasture", "Continuous forage", "good", 39, 61, 74, 80},
	{"meadow", "Natural", "good", 30, 58, 71, 78},
	{"woods", "With litter", "poor", 45, 66, 77, 83},
	{"woods", "With litter", "fair", 36, 60, 73, 79},
	{"woods", "With litter", "good", 30, 55, 70, 77},
}

// CTable names a published runoff coefficient table.
type CTable string

const (
	TableChow CTable = "chow"
	TableFHWA CTable = "fhwa"
)

// CForTrFromTable looks up row index of the named table and returns its
// coefficient at the given return period.
func CForTrFromTable(table CTable, index int, tr float64) (float64, error) {
	switch table {
	case TableChow:
		if index < 0 || index >= len(ChowCTable) {
			return 0, fmt.Errorf("pluvial: index %d out of range for table %s", index, table)
		}
		return ChowCTable[index].CForTr(tr), nil
	case TableFHWA:
		if index < 0 || index >= len(FHWACTable) {
			return 0, fmt.Errorf("pluvial: index %d out of range for table %s", index, table)
		}
		return FHWACTable[index].CForTr(tr), nil
	}
	return 0, fmt.Errorf("pluvial: unknown coefficient table %q", table)
}

// Weighted computes the area-weighted mean of coefficients, Σ(aᵢvᵢ)/Σaᵢ.
// It serves both composite C and composite CN.
func Weighted(areas, values []float64) (float64, error) {
	if len(areas) != len(values) {
		return 0, fmt.Errorf("pluvial: weighted coefficient: %d areas but %d values", len(areas), len(values))
	}
	var totalArea, sum float64
	for i, a := range areas {
		totalArea += a
		sum += a * values[i]
	}
	if totalArea == 0 {
		return 0, fmt.Errorf("pluvial: weighted coefficient: total area is zero")
	}
	return sum / totalArea, nil
}

// WeightedCoverage computes the area-weighted coefficient of a set of
// coverage items at their stored values.
func WeightedCoverage(items []CoverageItem) (float64, error) {
	areas := make([]float64, len(items))
	values := make([]float64, len(items))
	for i, it := range items {
		areas[i] = it.AreaHa
		values[i] = it.Value
	}
	return Weighted(areas, values)
}

// RecalcWeightedCForTr recomputes the area-weighted runoff coefficient
// of a coverage set for a new return period. Items that carry a table
// row are looked up exactly; opaque items keep their stored value.
func RecalcWeightedCForTr(items []CoverageItem, table CTable, tr float64) (float64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("pluvial: coverage list is empty")
	}
	areas := make([]float64, len(items))
	values := make([]float64, len(items))
	for i, it := range items {
		areas[i] = it.AreaHa
		if it.Exact() {
			v, err := CForTrFromTable(table, it.TableIndex, tr)
			if err != nil {
				return 0, err
			}
			values[i] = v
		} else {
			values[i] = it.Value
		}
	}
	return Weighted(areas, values)
}

// trFactorTr and trFactor hold average frequency factors derived from
// the Chow table, used when a C was entered by hand and its table row
// is unknown.
var (
	trFactorTr = []float64{2, 5, 10, 25, 50, 100}
	trFactor   = []float64{1.00, 1.17, 1.33, 1.50, 1.66, 1.84}
)

// AdjustCForTr scales a hand-entered runoff coefficient from its base
// return period to a target one using the average frequency factors,
// capped at 1. Less exact than RecalcWeightedCForTr, which should be
// preferred when table provenance is available.
func AdjustCForTr(cBase, tr, baseTr float64) float64 {
	if tr == baseTr {
		return cBase
	}
	fBase := interpClamped(trFactorTr, trFactor, baseTr)
	fTarget := interpClamped(trFactorTr, trFactor, tr)
	c := cBase * fTarget / fBase
	if c > 1 {
		c = 1
	}
	return c
}

// interpClamped linearly interpolates y(x) on the sorted knots xs,
// clamping to the end values outside the range.
func interpClamped(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	for i := 0; i < len(xs)-1; i++ {
		if x >= xs[i] && x <= xs[i+1] {
			t := (x - xs[i]) / (xs[i+1] - xs[i])
			return ys[i] + t*(ys[i+1]-ys[i])
		}
	}
	return ys[len(ys)-1]
}

// MinimumInfiltrationRate returns the minimum infiltration capacity fc
// in mm/h for a hydrologic soil group, used as a plausibility check on
// long-duration design storms.
func MinimumInfiltrationRate(g SoilGroup) (float64, error) {
	switch g {
	case SoilA:
		return 2.4, nil
	case SoilB, SoilC, SoilD:
		return 1.2, nil
	}
	return 0, fmt.Errorf("pluvial: unknown hydrologic soil group %q", g)
}

// RationalCRange holds a HEC-22 coefficient range for a land use.
type RationalCRange struct {
	Low, High float64
}

// Mid returns the midpoint of the range.
func (r RationalCRange) Mid() float64 { return (r.Low + r.High) / 2 }

// RationalC gives HEC-22 typical rational coefficient ranges by land
// use key.
var RationalC = map[string]RationalCRange{
	"downtown_commercial":       {0.70, 0.95},
	"neighborhood_commercial":   {0.50, 0.70},
	"residential_single_family": {0.30, 0.50},
	"residential_multi_units":   {0.40, 0.60},
	"residential_apartments":    {0.60, 0.75},
	"industrial_light":          {0.50, 0.80},
	"industrial_heavy":          {0.60, 0.90},
	"parks_cemeteries":          {0.10, 0.25},
	"playgrounds":               {0.20, 0.35},
	"railroad_yards":            {0.20, 0.40},
	"asphalt":                   {0.70, 0.95},
	"concrete":                  {0.80, 0.95},
	"brick":                     {0.70, 0.85},
	"roofs":                     {0.75, 0.95},
	"lawns_sandy_flat":          {0.05, 0.10},
	"lawns_sandy_steep":         {0.15, 0.20},
	"lawns_clay_flat":           {0.13, 0.17},
	"lawns_clay_steep":          {0.25, 0.35},
}

// GetRationalC returns the HEC-22 coefficient for a land use key.
// Condition selects "low", "high" or the midpoint ("average").
func GetRationalC(landUse, condition string) (float64, error) {
	r, ok := RationalC[landUse]
	if !ok {
		return 0, fmt.Errorf("pluvial: unknown land use %q", landUse)
	}
	switch condition {
	case "low":
		return r.Low, nil
	case "high":
		return r.High, nil
	default:
		return r.Mid(), nil
	}
}
