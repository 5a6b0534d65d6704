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

// The batch driver: the Cartesian product of Tc methods, design storms,
// return periods, shape factors and runoff methods, each combination
// carried through storm generation, rainfall excess and unit hydrograph
// convolution.

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// StormResult summarizes the hyetograph of one analysis.
type StormResult struct {
	Type              StormCode
	ReturnPeriodYr    int
	DurationHr        float64
	TotalDepthMm      float64
	PeakIntensityMmHr float64
	NIntervals        int
	TimeMin           []float64
	IntensityMmHr     []float64

	Bimodal *BimodalConfig // set only for bimodal storms
}

// HydrographResult summarizes the flood hydrograph of one analysis,
// carrying enough of its provenance to be read on its own.
type HydrographResult struct {
	TcMethod       TcMethod
	TcMin          float64
	StormType      StormCode
	ReturnPeriodYr int
	XFactor        float64

	PeakFlowM3s    float64
	TimeToPeakHr   float64
	TimeToPeakMin  float64
	TpUnitHr       float64 // unit hydrograph time to peak
	TpUnitMin      float64
	TbHr           float64 // unit hydrograph time base, (1+X)·Tp
	TbMin          float64
	VolumeM3       float64
	TotalDepthMm   float64
	RunoffMm       float64

	TimeHr  []float64
	FlowM3s []float64
}

// AnalysisRun is one completed combination of the batch.
type AnalysisRun struct {
	Tc         TcResult
	Storm      StormResult
	Hydrograph HydrographResult

	RunoffMethod RunoffMethod
}

// WeightedCoefficient records how a basin's runoff coefficient was
// composed from land covers, so the batch can recompute it exactly for
// each return period instead of scaling it by average factors.
type WeightedCoefficient struct {
	Table         CTable
	WeightedValue float64
	BaseTr        float64
	Items         []CoverageItem
}

// exact reports whether every item kept its table row.
func (w *WeightedCoefficient) exact() bool {
	for _, it := range w.Items {
		if !it.Exact() {
			return false
		}
	}
	return len(w.Items) > 0
}

// Batch describes a full design-flood study of one basin. Zero-valued
// optional fields take the documented defaults.
type Batch struct {
	Basin BasinParameters

	TcMethods     []TcMethod
	StormCodes    []StormCode
	ReturnPeriods []int
	XFactors      []float64 // GZ shape factors; default {1}

	AMC     AMC     // default AMC II
	Lambda  float64 // initial abstraction ratio, default 0.2
	StepMin float64 // storm time step, default 5 min
	T0Min   float64 // Desbordes inlet time, default 5 min
	Surface KirpichSurface

	BimodalDurationHr float64 // default 6 h
	Bimodal           BimodalConfig

	CustomDurationHr   float64 // default 6 h
	CustomDepthMm      float64
	CustomDistribution CustomDistribution
	CustomTimeMin      []float64
	CustomDepthMmSer   []float64

	CWeighted *WeightedCoefficient

	Curves  *Curves
	Workers int // default GOMAXPROCS
}

func (b *Batch) t0Min() float64 {
	if b.T0Min == 0 {
		return 5
	}
	return b.T0Min
}

func (b *Batch) stepMin() float64 {
	if b.StepMin == 0 {
		return 5
	}
	return b.StepMin
}

// cForTr returns the rational coefficient adjusted to a return period,
// using exact table recalculation when coverage provenance is present
// and the average frequency factors otherwise.
func (b *Batch) cForTr(tr int) (float64, error) {
	if b.CWeighted != nil && b.CWeighted.Table == TableChow && b.CWeighted.exact() {
		return RecalcWeightedCForTr(b.CWeighted.Items, b.CWeighted.Table, float64(tr))
	}
	baseTr := 2.0
	if b.CWeighted != nil && b.CWeighted.BaseTr > 0 {
		baseTr = b.CWeighted.BaseTr
	}
	return AdjustCForTr(b.Basin.C, float64(tr), baseTr), nil
}

// ComputeTc evaluates the requested Tc methods from the basin
// parameters. Methods whose inputs the basin does not carry are
// skipped, mirroring how runoff methods are skipped later.
func (b *Batch) ComputeTc() ([]TcResult, error) {
	surface := b.Surface
	if surface == "" {
		surface = SurfaceNatural
	}
	var out []TcResult
	for _, m := range b.TcMethods {
		params := map[string]interface{}{
			"slope_pct": b.Basin.SlopePct,
			"area_ha":   b.Basin.AreaHa,
			"t0_min":    b.t0Min(),
			"surface":   string(surface),
		}
		if b.Basin.LengthM > 0 {
			params["length_m"] = b.Basin.LengthM
		}
		if b.Basin.C > 0 {
			params["c"] = b.Basin.C
		}
		switch m {
		case TcKirpich, TcTemez:
			if b.Basin.LengthM == 0 {
				continue
			}
		case TcDesbordes:
			if b.Basin.C == 0 {
				continue
			}
		case TcFAA:
			if b.Basin.LengthM == 0 || b.Basin.C == 0 {
				continue
			}
		default:
			// Methods needing inputs outside BasinParameters (NRCS
			// segments, channel data) run through CalculateTc directly.
			continue
		}
		r, err := CalculateTc(m, params)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("pluvial: no tc method is computable from the basin parameters")
	}
	return out, nil
}

// generateStorm builds the hyetograph for one storm code.
func (b *Batch) generateStorm(code StormCode, tr int, durationHr, stepMin float64) (*Hyetograph, error) {
	p310 := b.Basin.P310
	trYr := float64(tr)
	switch {
	case code == StormGZ:
		return AlternatingBlocksDinagua(p310, trYr, durationHr, stepMin, 0, gzPeakPosition)
	case code == StormBimodal:
		return BimodalDinagua(p310, trYr, durationHr, stepMin, 0, b.Bimodal)
	case code == StormCustom:
		if len(b.CustomTimeMin) > 0 && len(b.CustomDepthMmSer) > 0 {
			return CustomHyetograph(b.CustomTimeMin, b.CustomDepthMmSer)
		}
		if b.CustomDepthMm > 0 {
			dist := b.CustomDistribution
			if dist == "" {
				dist = DistAlternatingBlocks
			}
			return CustomDepthStorm(b.CustomDepthMm, durationHr, stepMin, dist, 0.5, b.Curves)
		}
		return AlternatingBlocksDinagua(p310, trYr, durationHr, stepMin, 0, 0.5)
	case code.HuffQuartile() > 0:
		total, err := DinaguaDepth(p310, trYr, durationHr, 0)
		if err != nil {
			return nil, err
		}
		return HuffDistribution(total, durationHr, stepMin, code.HuffQuartile(), 50, b.Curves)
	case code == StormSCSII:
		total, err := DinaguaDepth(p310, trYr, durationHr, 0)
		if err != nil {
			return nil, err
		}
		return SCSDistribution(total, durationHr, stepMin, SCSTypeII, b.Curves)
	default:
		return AlternatingBlocksDinagua(p310, trYr, durationHr, stepMin, 0, 0.5)
	}
}

// combo is one cell of the Cartesian product.
type combo struct {
	tc     TcResult
	code   StormCode
	tr     int
	x      float64
	runoff RunoffMethod
}

// Run executes the batch. Combinations a basin cannot support (a runoff
// method with no coefficient) are skipped silently; any other failure
// aborts the run. Results are ordered by the product order Tc method,
// storm, return period, shape factor, runoff method regardless of how
// many workers execute them.
func (b *Batch) Run() ([]AnalysisRun, error) {
	if err := b.Basin.Check(); err != nil {
		return nil, err
	}
	if b.Curves == nil {
		c, err := LoadCurves()
		if err != nil {
			return nil, err
		}
		b.Curves = c
	}
	tcResults, err := b.ComputeTc()
	if err != nil {
		return nil, err
	}
	var runoffMethods []RunoffMethod
	if b.Basin.C > 0 {
		runoffMethods = append(runoffMethods, RunoffRational)
	}
	if b.Basin.CN > 0 {
		runoffMethods = append(runoffMethods, RunoffSCSCN)
	}
	if len(runoffMethods) == 0 {
		return nil, fmt.Errorf("pluvial: basin has neither a runoff coefficient nor a curve number")
	}
	xFactors := b.XFactors
	if len(xFactors) == 0 {
		xFactors = []float64{1}
	}

	var combos []combo
	for _, tc := range tcResults {
		for _, code := range b.StormCodes {
			for _, tr := range b.ReturnPeriods {
				for _, rm := range runoffMethods {
					if code == StormGZ {
						for _, x := range xFactors {
							combos = append(combos, combo{tc, code, tr, x, rm})
						}
					} else {
						combos = append(combos, combo{tc, code, tr, 1, rm})
					}
				}
			}
		}
	}

	results := make([]*AnalysisRun, len(combos))
	errs := make([]error, len(combos))
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = b.runOne(combos[i])
			}
		}()
	}
	for i := range combos {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var out []AnalysisRun
	for i, r := range results {
		if errs[i] != nil {
			if errors.Is(errs[i], ErrUnavailable) {
				continue
			}
			return nil, errs[i]
		}
		if r != nil {
			out = append(out, *r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("pluvial: batch produced no results")
	}
	return out, nil
}

// runOne carries a single combination through the full chain.
func (b *Batch) runOne(cb combo) (*AnalysisRun, error) {
	basin := b.Basin

	var cAdjusted float64
	if cb.runoff == RunoffRational {
		if basin.C == 0 {
			return nil, fmt.Errorf("%w: rational method needs a runoff coefficient", ErrUnavailable)
		}
		var err error
		cAdjusted, err = b.cForTr(cb.tr)
		if err != nil {
			return nil, err
		}
	}

	// Desbordes depends on C, so its Tc moves with the return period.
	tcHr := cb.tc.Hours
	tcParams := make(map[string]interface{}, len(cb.tc.Parameters)+2)
	for k, v := range cb.tc.Parameters {
		tcParams[k] = v
	}
	if cb.tc.Method == TcDesbordes && cAdjusted > 0 {
		var err error
		tcHr, err = Desbordes(basin.AreaHa, basin.SlopePct, cAdjusted, b.t0Min())
		if err != nil {
			return nil, err
		}
		tcParams["c"] = cAdjusted
	}

	durationHr, stepMin := StormDurationAndStep(cb.code, tcHr, b.stepMin(), b.bimodalDurationHr(), b.customDurationHr())
	h, err := b.generateStorm(cb.code, cb.tr, durationHr, stepMin)
	if err != nil {
		return nil, err
	}
	// A replayed event carries its own step.
	if s := h.StepMin(); s > 0 {
		stepMin = s
	}

	excess, err := b.excessFor(h, cb.runoff, cAdjusted, tcParams)
	if err != nil {
		return nil, err
	}

	dtHr := stepMin / 60
	x := cb.x
	var uh *UnitHydrograph
	if cb.runoff == RunoffRational || cb.code == StormGZ {
		uh, err = TriangularUHX(basin.AreaHa, tcHr, dtHr, x)
	} else {
		uh, err = SCSTriangularUH(basin.AreaKm2(), tcHr, dtHr)
		x = 1.67
	}
	if err != nil {
		return nil, err
	}
	flood, err := ComposeHydrograph(excess.ExcessMm, uh, dtHr)
	if err != nil {
		return nil, err
	}

	tpUnit := SCSTimeToPeak(tcHr, dtHr)
	tb := (1 + x) * tpUnit
	run := &AnalysisRun{
		Tc: TcResult{Method: cb.tc.Method, Hours: tcHr, Parameters: tcParams},
		Storm: StormResult{
			Type:              cb.code,
			ReturnPeriodYr:    cb.tr,
			DurationHr:        durationHr,
			TotalDepthMm:      h.TotalDepthMm,
			PeakIntensityMmHr: h.PeakIntensityMmHr,
			NIntervals:        len(h.TimeMin),
			TimeMin:           h.TimeMin,
			IntensityMmHr:     h.IntensityMmHr,
		},
		Hydrograph: HydrographResult{
			TcMethod:       cb.tc.Method,
			TcMin:          tcHr * 60,
			StormType:      cb.code,
			ReturnPeriodYr: cb.tr,
			XFactor:        x,
			PeakFlowM3s:    flood.PeakFlowM3s,
			TimeToPeakHr:   flood.TimeToPeakHr,
			TimeToPeakMin:  flood.TimeToPeakHr * 60,
			TpUnitHr:       tpUnit,
			TpUnitMin:      tpUnit * 60,
			TbHr:           tb,
			TbMin:          tb * 60,
			VolumeM3:       flood.VolumeM3,
			TotalDepthMm:   h.TotalDepthMm,
			RunoffMm:       excess.RunoffMm,
			TimeHr:         flood.TimeHr,
			FlowM3s:        flood.FlowM3s,
		},
		RunoffMethod: cb.runoff,
	}
	if cb.code == StormBimodal {
		cfg := b.Bimodal.withDefaults()
		run.Storm.Bimodal = &cfg
	}
	return run, nil
}

// excessFor computes the excess series for one combination and records
// the effective coefficient in the Tc parameter map.
func (b *Batch) excessFor(h *Hyetograph, rm RunoffMethod, cAdjusted float64, tcParams map[string]interface{}) (*ExcessResult, error) {
	tcParams["runoff_method"] = string(rm)
	switch rm {
	case RunoffRational:
		excess, err := RationalExcessSeries(h.DepthMm, cAdjusted)
		if err != nil {
			return nil, err
		}
		var total float64
		for _, e := range excess {
			total += e
		}
		tcParams["c"] = cAdjusted
		return &ExcessResult{Method: rm, ExcessMm: excess, RunoffMm: total, CUsed: cAdjusted}, nil
	case RunoffSCSCN:
		res, err := RainfallExcess(h, rm, &b.Basin, b.AMC, b.Lambda)
		if err != nil {
			return nil, err
		}
		tcParams["cn_adjusted"] = res.CNUsed
		tcParams["amc"] = string(b.amc())
		tcParams["lambda"] = b.lambda()
		return res, nil
	}
	return nil, fmt.Errorf("pluvial: unknown runoff method %q", rm)
}

func (b *Batch) amc() AMC {
	if b.AMC == "" {
		return AMCAverage
	}
	return b.AMC
}

func (b *Batch) lambda() float64 {
	if b.Lambda == 0 {
		return DefaultLambda
	}
	return b.Lambda
}

func (b *Batch) bimodalDurationHr() float64 {
	if b.BimodalDurationHr == 0 {
		return 6
	}
	return b.BimodalDurationHr
}

func (b *Batch) customDurationHr() float64 {
	if b.CustomDurationHr == 0 {
		return 6
	}
	return b.CustomDurationHr
}

// PeakRun returns the run with the highest peak discharge.
func PeakRun(runs []AnalysisRun) (AnalysisRun, error) {
	if len(runs) == 0 {
		return AnalysisRun{}, fmt.Errorf("pluvial: no analysis runs")
	}
	max := runs[0]
	for _, r := range runs[1:] {
		if r.Hydrograph.PeakFlowM3s > max.Hydrograph.PeakFlowM3s {
			max = r
		}
	}
	return max, nil
}
