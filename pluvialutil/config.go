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
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hidromodel/pluvial"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

//go:embed presets.toml
var presetData []byte

// Presets holds the regional constants shipped with the program: the
// published P(3 h, 10 yr) index depths by department and named Sherman
// IDF coefficient sets.
type Presets struct {
	P310    map[string]float64 `toml:"p310"`
	Sherman map[string]struct {
		K float64 `toml:"k"`
		M float64 `toml:"m"`
		C float64 `toml:"c"`
		N float64 `toml:"n"`
	} `toml:"sherman"`
}

// LoadPresets parses the preset table compiled into the program.
func LoadPresets() (*Presets, error) {
	p := new(Presets)
	if err := toml.Unmarshal(presetData, p); err != nil {
		return nil, fmt.Errorf("pluvial: parsing presets: %v", err)
	}
	return p, nil
}

// P310ForDepartment looks up the published index depth for a department
// name, case- and accent-insensitively for the common spellings.
func (p *Presets) P310ForDepartment(name string) (float64, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "_")
	if v, ok := p.P310[key]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("pluvial: no P(3 h, 10 yr) value for department %q", name)
}

// ShermanSet returns a named Sherman coefficient set from the presets.
func (p *Presets) ShermanSet(name string) (pluvial.ShermanCoefficients, error) {
	s, ok := p.Sherman[strings.ToLower(name)]
	if !ok {
		return pluvial.ShermanCoefficients{}, fmt.Errorf("pluvial: no Sherman coefficient set %q", name)
	}
	return pluvial.ShermanCoefficients{K: s.K, M: s.M, C: s.C, N: s.N}, nil
}

// BasinFromConfig reads the basin parameters from a viper configuration,
// resolving the department preset when no explicit index depth is given.
func BasinFromConfig(cfg *viper.Viper) (pluvial.BasinParameters, error) {
	b := pluvial.BasinParameters{
		Name:     cfg.GetString("Basin.Name"),
		AreaHa:   cfg.GetFloat64("Basin.AreaHa"),
		LengthM:  cfg.GetFloat64("Basin.LengthM"),
		SlopePct: cfg.GetFloat64("Basin.SlopePct"),
		C:        cfg.GetFloat64("Basin.C"),
		CN:       cfg.GetFloat64("Basin.CN"),
		P310:     cfg.GetFloat64("Basin.P310"),
	}
	if b.P310 == 0 {
		if dep := cfg.GetString("Basin.Department"); dep != "" {
			presets, err := LoadPresets()
			if err != nil {
				return b, err
			}
			p310, err := presets.P310ForDepartment(dep)
			if err != nil {
				return b, err
			}
			b.P310 = p310
		}
	}
	return b, b.Check()
}

// BatchFromConfig builds the full batch description from a viper
// configuration, loading the embedded shape curves.
func BatchFromConfig(cfg *viper.Viper) (*pluvial.Batch, error) {
	basin, err := BasinFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	curves, err := pluvial.LoadCurves()
	if err != nil {
		return nil, err
	}
	tcMethods, err := toTcMethods(cfg.GetStringSlice("TcMethods"))
	if err != nil {
		return nil, err
	}
	storms, err := toStormCodes(cfg.GetStringSlice("Storms"))
	if err != nil {
		return nil, err
	}
	trs, err := toIntSlice(cfg.Get("ReturnPeriods"))
	if err != nil {
		return nil, fmt.Errorf("pluvial: reading 'ReturnPeriods': %v", err)
	}
	xs, err := toFloat64Slice(cfg.Get("XFactors"))
	if err != nil {
		return nil, fmt.Errorf("pluvial: reading 'XFactors': %v", err)
	}
	amc, err := toAMC(cfg.GetString("AMC"))
	if err != nil {
		return nil, err
	}
	b := &pluvial.Batch{
		Basin:             basin,
		TcMethods:         tcMethods,
		StormCodes:        storms,
		ReturnPeriods:     trs,
		XFactors:          xs,
		AMC:               amc,
		Lambda:            cfg.GetFloat64("Lambda"),
		StepMin:           cfg.GetFloat64("StepMin"),
		T0Min:             cfg.GetFloat64("T0Min"),
		Surface:           pluvial.KirpichSurface(cfg.GetString("Surface")),
		BimodalDurationHr: cfg.GetFloat64("Bimodal.DurationHr"),
		Bimodal: pluvial.BimodalConfig{
			Peak1Position: cfg.GetFloat64("Bimodal.Peak1"),
			Peak2Position: cfg.GetFloat64("Bimodal.Peak2"),
			VolumeSplit:   cfg.GetFloat64("Bimodal.VolumeSplit"),
		},
		CustomDurationHr:   cfg.GetFloat64("Custom.DurationHr"),
		CustomDepthMm:      cfg.GetFloat64("Custom.DepthMm"),
		CustomDistribution: pluvial.CustomDistribution(cfg.GetString("Custom.Distribution")),
		Curves:             curves,
		Workers:            cfg.GetInt("Workers"),
	}
	return b, nil
}

// toTcMethods validates a list of estimator names.
func toTcMethods(names []string) ([]pluvial.TcMethod, error) {
	out := make([]pluvial.TcMethod, len(names))
	for i, n := range names {
		m := pluvial.TcMethod(strings.ToLower(n))
		var ok bool
		for _, known := range pluvial.TcMethods {
			if m == known {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("pluvial: unknown tc method %q", n)
		}
		out[i] = m
	}
	return out, nil
}

// toStormCodes validates a list of storm recipe names.
func toStormCodes(names []string) ([]pluvial.StormCode, error) {
	known := map[pluvial.StormCode]bool{
		pluvial.StormGZ: true, pluvial.StormBlocks24: true,
		pluvial.StormSCSII: true, pluvial.StormBimodal: true,
		pluvial.StormCustom: true, pluvial.StormHuffQ1: true,
		pluvial.StormHuffQ2: true, pluvial.StormHuffQ3: true,
		pluvial.StormHuffQ4: true,
	}
	out := make([]pluvial.StormCode, len(names))
	for i, n := range names {
		c := pluvial.StormCode(strings.ToLower(n))
		if !known[c] {
			return nil, fmt.Errorf("pluvial: unknown storm %q", n)
		}
		out[i] = c
	}
	return out, nil
}

func toAMC(s string) (pluvial.AMC, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "II":
		return pluvial.AMCAverage, nil
	case "I":
		return pluvial.AMCDry, nil
	case "III":
		return pluvial.AMCWet, nil
	}
	return "", fmt.Errorf("pluvial: antecedent moisture condition must be I, II or III, got %q", s)
}

// toFloat64Slice converts a configuration value that may arrive as a
// string slice (from flags), a native list (from a file) or a bare
// scalar, which is accepted as a one-element list.
func toFloat64Slice(v interface{}) ([]float64, error) {
	raw, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, r := range raw {
		f, err := cast.ToFloat64E(r)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// toIntSlice is the integer analogue of toFloat64Slice.
func toIntSlice(v interface{}) ([]int, error) {
	if out, err := cast.ToIntSliceE(v); err == nil {
		return out, nil
	}
	fs, err := toFloat64Slice(v)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = int(f)
	}
	return out, nil
}
