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
	"math"
	"testing"

	"github.com/hidromodel/pluvial"
	"github.com/lnashier/viper"
)

func testConfig() *viper.Viper {
	cfg := viper.New()
	cfg.Set("Basin.Name", "arroyo seco")
	cfg.Set("Basin.AreaHa", 50.0)
	cfg.Set("Basin.LengthM", 1200.0)
	cfg.Set("Basin.SlopePct", 2.0)
	cfg.Set("Basin.C", 0.6)
	cfg.Set("Basin.CN", 80.0)
	cfg.Set("Basin.P310", 78.0)
	cfg.Set("TcMethods", []string{"kirpich", "desbordes"})
	cfg.Set("Storms", []string{"gz", "scs_ii"})
	cfg.Set("ReturnPeriods", []int{2, 10})
	cfg.Set("XFactors", []string{"1", "2"})
	cfg.Set("AMC", "II")
	return cfg
}

func TestLoadPresets(t *testing.T) {
	p, err := LoadPresets()
	if err != nil {
		t.Fatal(err)
	}
	v, err := p.P310ForDepartment("Montevideo")
	if err != nil {
		t.Fatal(err)
	}
	if v != 78 {
		t.Errorf("montevideo: got %g, want 78", v)
	}
	if v, _ := p.P310ForDepartment("treinta y tres"); v != 80 {
		t.Errorf("treinta y tres: got %g, want 80", v)
	}
	if _, err := p.P310ForDepartment("atlantis"); err == nil {
		t.Error("expected error for unknown department")
	}
	s, err := p.ShermanSet("default")
	if err != nil {
		t.Fatal(err)
	}
	if s.K <= 0 || s.N <= 0 {
		t.Errorf("got %+v", s)
	}
	if _, err := p.ShermanSet("nonexistent"); err == nil {
		t.Error("expected error for unknown coefficient set")
	}
}

func TestBasinFromConfig(t *testing.T) {
	b, err := BasinFromConfig(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "arroyo seco" || b.AreaHa != 50 || b.P310 != 78 {
		t.Errorf("got %+v", b)
	}

	// An empty P310 falls back to the department preset.
	cfg := testConfig()
	cfg.Set("Basin.P310", 0.0)
	cfg.Set("Basin.Department", "salto")
	b, err = BasinFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if b.P310 != 81 {
		t.Errorf("department preset: got %g, want 81", b.P310)
	}

	cfg = testConfig()
	cfg.Set("Basin.AreaHa", 0.0)
	if _, err := BasinFromConfig(cfg); err == nil {
		t.Error("expected validation error for zero area")
	}
}

func TestBatchFromConfig(t *testing.T) {
	b, err := BatchFromConfig(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(b.TcMethods) != 2 || b.TcMethods[1] != pluvial.TcDesbordes {
		t.Errorf("tc methods: got %v", b.TcMethods)
	}
	if len(b.StormCodes) != 2 || b.StormCodes[1] != pluvial.StormSCSII {
		t.Errorf("storms: got %v", b.StormCodes)
	}
	if len(b.ReturnPeriods) != 2 || b.ReturnPeriods[1] != 10 {
		t.Errorf("return periods: got %v", b.ReturnPeriods)
	}
	if len(b.XFactors) != 2 || math.Abs(b.XFactors[1]-2) > 1e-12 {
		t.Errorf("x factors: got %v", b.XFactors)
	}
	if b.AMC != pluvial.AMCAverage {
		t.Errorf("amc: got %q", b.AMC)
	}
	if b.Curves == nil {
		t.Error("curves registry not loaded")
	}

	// The configured batch must actually run.
	runs, err := b.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) == 0 {
		t.Error("no runs")
	}

	cfg := testConfig()
	cfg.Set("Storms", []string{"monsoon"})
	if _, err := BatchFromConfig(cfg); err == nil {
		t.Error("expected error for unknown storm")
	}
	cfg = testConfig()
	cfg.Set("TcMethods", []string{"izzard"})
	if _, err := BatchFromConfig(cfg); err == nil {
		t.Error("expected error for unknown tc method")
	}
	cfg = testConfig()
	cfg.Set("AMC", "IV")
	if _, err := BatchFromConfig(cfg); err == nil {
		t.Error("expected error for unknown AMC")
	}
}

func TestSliceConversions(t *testing.T) {
	fs, err := toFloat64Slice([]string{"1", "1.67"})
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 2 || math.Abs(fs[1]-1.67) > 1e-12 {
		t.Errorf("got %v", fs)
	}
	// A bare scalar is treated as a one-element list.
	fs, err = toFloat64Slice(2.5)
	if err != nil || len(fs) != 1 || fs[0] != 2.5 {
		t.Errorf("got %v, %v", fs, err)
	}
	is, err := toIntSlice([]interface{}{2, "10", 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(is) != 3 || is[1] != 10 {
		t.Errorf("got %v", is)
	}
	if _, err := toFloat64Slice([]string{"not a number"}); err == nil {
		t.Error("expected conversion error")
	}
}
