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
	"fmt"
	"os"
	"path/filepath"

	"github.com/hidromodel/pluvial"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// WritePlots writes a hyetograph and a hydrograph PNG for every run
// into dir, which is created if needed. File names encode the
// combination so a batch writes each file once.
func WritePlots(dir string, runs []pluvial.AnalysisRun) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("pluvial: creating plot directory: %v", err)
	}
	for _, r := range runs {
		base := fmt.Sprintf("%s_%s_tr%d_x%g_%s", r.Tc.Method, r.Storm.Type,
			r.Storm.ReturnPeriodYr, r.Hydrograph.XFactor, r.RunoffMethod)
		if err := plotHyetograph(filepath.Join(dir, base+"_storm.png"), &r); err != nil {
			return err
		}
		if err := plotHydrograph(filepath.Join(dir, base+"_flow.png"), &r); err != nil {
			return err
		}
	}
	return nil
}

// plotHyetograph draws intensity bars against time in minutes.
func plotHyetograph(file string, r *pluvial.AnalysisRun) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = fmt.Sprintf("%s storm, Tr = %d yr\n%.1f mm in %g h",
		r.Storm.Type, r.Storm.ReturnPeriodYr, r.Hydrograph.TotalDepthMm, r.Storm.DurationHr)
	p.X.Label.Text = "Time (min)"
	p.Y.Label.Text = "Intensity (mm/h)"
	bars, err := plotter.NewBarChart(plotter.Values(r.Storm.IntensityMmHr), vg.Points(3))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.Y.Min = 0
	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}

// plotHydrograph draws the flood hydrograph as a line.
func plotHydrograph(file string, r *pluvial.AnalysisRun) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	hg := r.Hydrograph
	p.Title.Text = fmt.Sprintf("%s / %s, Tr = %d yr\nQp = %.2f m³/s at %.2f h",
		r.Tc.Method, r.Storm.Type, r.Storm.ReturnPeriodYr, hg.PeakFlowM3s, hg.TimeToPeakHr)
	p.X.Label.Text = "Time (h)"
	p.Y.Label.Text = "Discharge (m³/s)"
	xy := make(plotter.XYs, len(hg.TimeHr))
	for i, t := range hg.TimeHr {
		xy[i].X = t
		xy[i].Y = hg.FlowM3s[i]
	}
	if err := plotutil.AddLinePoints(p, xy); err != nil {
		return err
	}
	p.Y.Min = 0
	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}
