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

package pluvialutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/hidromodel/pluvial"
	"github.com/sirupsen/logrus"
)

// resultHeader is the column layout of the CSV results file.
var resultHeader = []string{
	"tc_method", "tc_min", "storm", "return_period_yr", "x_factor",
	"runoff_method", "duration_hr", "total_depth_mm", "runoff_mm",
	"peak_flow_m3s", "time_to_peak_hr", "tp_unit_hr", "tb_hr", "volume_m3",
}

// WriteResults writes one CSV row per analysis run, in batch order.
func WriteResults(w io.Writer, runs []pluvial.AnalysisRun) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }
	for _, r := range runs {
		hg := r.Hydrograph
		row := []string{
			string(r.Tc.Method),
			f(hg.TcMin),
			string(r.Storm.Type),
			strconv.Itoa(r.Storm.ReturnPeriodYr),
			f(hg.XFactor),
			string(r.RunoffMethod),
			f(r.Storm.DurationHr),
			f(hg.TotalDepthMm),
			f(hg.RunoffMm),
			f(hg.PeakFlowM3s),
			f(hg.TimeToPeakHr),
			f(hg.TpUnitHr),
			f(hg.TbHr),
			f(hg.VolumeM3),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// logSummary logs descriptive statistics of the batch peak discharges
// and the single governing run.
func logSummary(runs []pluvial.AnalysisRun) {
	var s stats.Stats
	for _, r := range runs {
		s.Update(r.Hydrograph.PeakFlowM3s)
	}
	fields := logrus.Fields{
		"n":    s.Count(),
		"mean": fmt.Sprintf("%.3g", s.Mean()),
		"min":  fmt.Sprintf("%.3g", s.Min()),
		"max":  fmt.Sprintf("%.3g", s.Max()),
	}
	if s.Count() > 1 {
		fields["stddev"] = fmt.Sprintf("%.3g", s.SampleStandardDeviation())
	}
	logger.WithFields(fields).Info("peak discharge statistics [m³/s]")

	if peak, err := pluvial.PeakRun(runs); err == nil {
		logger.WithFields(logrus.Fields{
			"tc_method": peak.Tc.Method,
			"storm":     peak.Storm.Type,
			"tr_yr":     peak.Storm.ReturnPeriodYr,
			"peak_m3s":  fmt.Sprintf("%.3g", peak.Hydrograph.PeakFlowM3s),
		}).Info("governing combination")
	}
}
