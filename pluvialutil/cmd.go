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

// Package pluvialutil provides the command-line interface and
// configuration handling for the Pluvial design-flood model.
package pluvialutil

import (
	"fmt"
	"os"
	"time"

	"github.com/hidromodel/pluvial"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
}

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to Pluvial.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Basin.Name",
			usage: `
              Basin.Name is a label for the catchment under analysis, carried
              into the output files.`,
			defaultVal: "basin",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Basin.AreaHa",
			usage: `
              Basin.AreaHa is the drainage area in hectares.`,
			shorthand:  "a",
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Basin.LengthM",
			usage: `
              Basin.LengthM is the main flow path length in meters. Time of
              concentration methods that need a length are skipped when it
              is zero.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Basin.SlopePct",
			usage: `
              Basin.SlopePct is the representative basin slope in percent.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Basin.C",
			usage: `
              Basin.C is the rational-method runoff coefficient. Zero means
              not set; the rational method is then skipped.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Basin.CN",
			usage: `
              Basin.CN is the SCS curve number for average antecedent
              moisture. Zero means not set; the curve-number method is then
              skipped.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Basin.P310",
			usage: `
              Basin.P310 is the 3 hour, 10 year precipitation depth in mm
              used as the index depth of the DINAGUA IDF relation. When zero
              it is looked up from Basin.Department.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Basin.Department",
			usage: `
              Basin.Department names a Uruguayan department whose published
              P(3 h, 10 yr) value should be used when Basin.P310 is zero.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "TcMethods",
			usage: `
              TcMethods lists the time of concentration estimators to use.
              Available: kirpich, temez, california, faa, kinematic,
              desbordes.`,
			defaultVal: []string{"kirpich", "desbordes"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), tcCmd.Flags()},
		},
		{
			name: "Surface",
			usage: `
              Surface adjusts the Kirpich estimate for channel lining:
              natural, grassy, concrete, or concrete_channel.`,
			defaultVal: "natural",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), tcCmd.Flags()},
		},
		{
			name: "T0Min",
			usage: `
              T0Min is the inlet time in minutes added by the Desbordes
              relation.`,
			defaultVal: 5.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), tcCmd.Flags()},
		},
		{
			name: "Storms",
			usage: `
              Storms lists the design storm recipes to run. Available: gz,
              blocks24, scs_ii, bimodal, custom, huff_q1 through huff_q4.`,
			defaultVal: []string{"gz"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ReturnPeriods",
			usage: `
              ReturnPeriods lists the return periods in years to analyze.`,
			defaultVal: []int{2, 10, 100},
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), idfCmd.Flags()},
		},
		{
			name: "XFactors",
			usage: `
              XFactors lists the triangular unit hydrograph shape factors to
              expand GZ storms over. X = 1 is the symmetric rational
              triangle; 1.67 the standard SCS shape.`,
			defaultVal: []string{"1"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "StepMin",
			usage: `
              StepMin is the hyetograph time step in minutes. 24 hour storms
              are floored at 10 minutes.`,
			defaultVal: 5.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "AMC",
			usage: `
              AMC is the antecedent moisture condition for the curve number
              method: I (dry), II (average) or III (wet).`,
			defaultVal: "II",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Lambda",
			usage: `
              Lambda is the initial abstraction ratio Ia/S of the curve
              number method.`,
			defaultVal: 0.2,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Bimodal.DurationHr",
			usage: `
              Bimodal.DurationHr is the duration of bimodal storms in hours.`,
			defaultVal: 6.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Bimodal.Peak1",
			usage: `
              Bimodal.Peak1 places the first peak on normalized storm time.`,
			defaultVal: 0.25,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Bimodal.Peak2",
			usage: `
              Bimodal.Peak2 places the second peak on normalized storm time.`,
			defaultVal: 0.75,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Bimodal.VolumeSplit",
			usage: `
              Bimodal.VolumeSplit is the fraction of the storm depth carried
              by the first peak.`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Custom.DurationHr",
			usage: `
              Custom.DurationHr is the duration of custom storms in hours.`,
			defaultVal: 6.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Custom.DepthMm",
			usage: `
              Custom.DepthMm is the known total depth distributed by custom
              storms. When zero the DINAGUA relation supplies the depth.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Custom.Distribution",
			usage: `
              Custom.Distribution shapes custom storms: uniform, triangular,
              alternating_blocks, scs_type_ii, or huff_q1 through huff_q4.`,
			defaultVal: "alternating_blocks",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Durations",
			usage: `
              Durations lists the storm durations in hours for the IDF
              table.`,
			defaultVal: []string{"0.5", "1", "2", "3", "6", "12", "24"},
			flagsets:   []*pflag.FlagSet{idfCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path of the CSV results file to write.`,
			shorthand:  "o",
			defaultVal: "pluvial_results.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotDir",
			usage: `
              PlotDir is a directory to write hyetograph and hydrograph PNG
              plots into. Empty disables plotting.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of combinations to process in parallel.
              Zero uses one worker per CPU.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("PLUVIAL")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(tcCmd)
	Root.AddCommand(idfCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("pluvial: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "pluvial",
	Short: "A design-flood hydrograph model.",
	Long: `Pluvial computes design flood hydrographs for small and mid-size
catchments from IDF relations, time of concentration estimators, design
hyetographs, rainfall-excess transforms and unit hydrograph convolution.
Use the subcommands specified below to access the model functionality.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'PLUVIAL_var'
where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Pluvial.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Pluvial v%s\n", pluvial.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd executes the full batch analysis.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the batch design-flood analysis.",
	Long: `run carries every combination of time of concentration method,
design storm, return period, shape factor and runoff method through storm
generation, rainfall excess and unit hydrograph convolution, and writes a
CSV summary of the resulting hydrographs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := BatchFromConfig(Cfg)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"basin":   batch.Basin.Name,
			"area_ha": batch.Basin.AreaHa,
			"storms":  batch.StormCodes,
		}).Info("starting batch")
		start := time.Now()
		runs, err := batch.Run()
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"runs":    len(runs),
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Info("batch finished")

		outputFile := Cfg.GetString("OutputFile")
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("pluvial: creating output file: %v", err)
		}
		defer f.Close()
		if err := WriteResults(f, runs); err != nil {
			return err
		}
		logger.WithField("file", outputFile).Info("wrote results")

		logSummary(runs)

		if dir := Cfg.GetString("PlotDir"); dir != "" {
			if err := WritePlots(dir, runs); err != nil {
				return err
			}
			logger.WithField("dir", dir).Info("wrote plots")
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// tcCmd prints the time of concentration estimates for the basin.
var tcCmd = &cobra.Command{
	Use:   "tc",
	Short: "Compute times of concentration.",
	Long: `tc evaluates the configured time of concentration estimators from
the basin parameters and prints the results. Methods whose inputs the
basin does not carry are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := BatchFromConfig(Cfg)
		if err != nil {
			return err
		}
		results, err := batch.ComputeTc()
		if err != nil {
			return err
		}
		for _, r := range results {
			cmd.Printf("%-12s %8.1f min  %6.3f h\n", r.Method, r.Minutes(), r.Hours)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// idfCmd prints a DINAGUA IDF table for the basin's index depth.
var idfCmd = &cobra.Command{
	Use:   "idf",
	Short: "Print the DINAGUA IDF table.",
	Long: `idf evaluates the DINAGUA intensity-duration-frequency relation
over the configured durations and return periods, using the basin's
P(3 h, 10 yr) index depth or the one published for its department.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		basin, err := BasinFromConfig(Cfg)
		if err != nil {
			return err
		}
		if basin.P310 <= 0 {
			return fmt.Errorf("pluvial: idf needs Basin.P310 or Basin.Department")
		}
		durations, err := toFloat64Slice(Cfg.Get("Durations"))
		if err != nil {
			return fmt.Errorf("pluvial: reading 'Durations': %v", err)
		}
		trs, err := toIntSlice(Cfg.Get("ReturnPeriods"))
		if err != nil {
			return fmt.Errorf("pluvial: reading 'ReturnPeriods': %v", err)
		}
		cmd.Printf("P(3 h, 10 yr) = %.0f mm\n", basin.P310)
		cmd.Printf("%-10s", "d [h]")
		for _, tr := range trs {
			cmd.Printf("%12s", fmt.Sprintf("%d yr [mm]", tr))
		}
		cmd.Println()
		for _, d := range durations {
			cmd.Printf("%-10.2g", d)
			for _, tr := range trs {
				depth, err := pluvial.DinaguaDepth(basin.P310, float64(tr), d, 0)
				if err != nil {
					return err
				}
				cmd.Printf("%12.1f", depth)
			}
			cmd.Println()
		}
		return nil
	},
	DisableAutoGenTag: true,
}
