/*
 * commands.go, part of nnpguard.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/report"
)

func nnpSpec() guard.NNPSpec {
	return guard.NNPSpec{Name: viper.GetString("nnp")}
}

func reporter(interval int) *guard.StateDataReporter {
	return guard.NewStateDataReporter(interval)
}

func newSmallMoleculeCommand() *cobra.Command {
	var (
		names        []string
		smiles       []string
		temperature  float64
		temperatures []float64
		steps        int
		interval     int
	)
	cmd := &cobra.Command{
		Use:   "small-molecule",
		Short: "Vacuum stability test for small molecules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext()
			if err != nil {
				return err
			}
			if len(smiles) > 0 && len(smiles) != len(names) {
				return fmt.Errorf("names and SMILES must pair up")
			}
			mols := make([]guard.SmallMoleculeVacuumOption, len(names))
			for i, n := range names {
				mols[i] = guard.SmallMoleculeVacuumOption{Name: n}
				if len(smiles) > 0 {
					mols[i].SMILES = smiles[i]
				}
			}
			return ctx.RunSmallMoleculeTest(&guard.SmallMoleculeTestOptions{
				NNP:          nnpSpec(),
				Molecules:    mols,
				Temperature:  temperature,
				Temperatures: temperatures,
				Reporter:     reporter(interval),
				OutputFolder: viper.GetString("output"),
				Steps:        steps,
			})
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&names, "name", nil, "molecule name(s)")
	f.StringSliceVar(&smiles, "smiles", nil, "SMILES string(s), paired with --name")
	f.Float64Var(&temperature, "temperature", 300, "simulation temperature (K)")
	f.Float64SliceVar(&temperatures, "temperatures", nil, "temperature list for the multi-temperature protocol")
	f.IntVar(&steps, "steps", 0, "simulation steps (default 5000000)")
	f.IntVar(&interval, "report-interval", 1000, "steps between reports")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newWaterboxCommand() *cobra.Command {
	var (
		edge         float64
		ensemble     string
		temperature  float64
		temperatures []float64
		annealing    bool
		steps        int
		interval     int
	)
	cmd := &cobra.Command{
		Use:   "waterbox",
		Short: "Stability test for a periodic waterbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext()
			if err != nil {
				return err
			}
			ens, err := guard.ParseEnsemble(ensemble)
			if err != nil {
				return err
			}
			return ctx.RunWaterboxTest(&guard.WaterboxTestOptions{
				NNP:          nnpSpec(),
				EdgeLength:   edge,
				Ensemble:     ens,
				Temperature:  temperature,
				Temperatures: temperatures,
				Reporter:     reporter(interval),
				OutputFolder: viper.GetString("output"),
				Annealing:    annealing,
				Steps:        steps,
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&edge, "edge", 10, "waterbox edge length (Angstrom)")
	f.StringVar(&ensemble, "ensemble", "nvt", "ensemble (npt, nvt, nve)")
	f.Float64Var(&temperature, "temperature", 300, "simulation temperature (K)")
	f.Float64SliceVar(&temperatures, "temperatures", nil, "temperature list for the multi-temperature protocol")
	f.BoolVar(&annealing, "annealing", false, "ramp the temperature up before the run")
	f.IntVar(&steps, "steps", 0, "simulation steps (default 5000000)")
	f.IntVar(&interval, "report-interval", 1000, "steps between reports")
	return cmd
}

func newLiquidCommand() *cobra.Command {
	var (
		names        []string
		counts       []int
		ensemble     string
		temperature  float64
		temperatures []float64
		annealing    bool
		steps        int
		interval     int
	)
	cmd := &cobra.Command{
		Use:   "liquid",
		Short: "Stability test for pure organic liquids",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext()
			if err != nil {
				return err
			}
			ens, err := guard.ParseEnsemble(ensemble)
			if err != nil {
				return err
			}
			return ctx.RunOrganicLiquidTest(&guard.OrganicLiquidTestOptions{
				NNP:          nnpSpec(),
				Names:        names,
				Counts:       counts,
				Ensemble:     ens,
				Temperature:  temperature,
				Temperatures: temperatures,
				Reporter:     reporter(interval),
				OutputFolder: viper.GetString("output"),
				Annealing:    annealing,
				Steps:        steps,
			})
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&names, "name", nil, "solvent molecule name(s)")
	f.IntSliceVar(&counts, "count", nil, "molecule count(s), paired with --name")
	f.StringVar(&ensemble, "ensemble", "nvt", "ensemble (npt, nvt, nve)")
	f.Float64Var(&temperature, "temperature", 300, "simulation temperature (K)")
	f.Float64SliceVar(&temperatures, "temperatures", nil, "temperature list for the multi-temperature protocol")
	f.BoolVar(&annealing, "annealing", false, "ramp the temperature up before the run")
	f.IntVar(&steps, "steps", 0, "simulation steps (default 5000000)")
	f.IntVar(&interval, "report-interval", 1000, "steps between reports")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("count")
	return cmd
}

func newAlanineDipeptideCommand() *cobra.Command {
	var (
		env         string
		ensemble    string
		temperature float64
		annealing   bool
		steps       int
		interval    int
	)
	cmd := &cobra.Command{
		Use:   "alanine-dipeptide",
		Short: "Stability test for alanine dipeptide",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext()
			if err != nil {
				return err
			}
			environment, err := guard.ParseEnvironment(env)
			if err != nil {
				return err
			}
			var ens guard.Ensemble
			if ensemble != "" {
				if ens, err = guard.ParseEnsemble(ensemble); err != nil {
					return err
				}
			}
			return ctx.RunAlanineDipeptideTest(&guard.AlanineDipeptideTestOptions{
				NNP:          nnpSpec(),
				Env:          environment,
				Ensemble:     ens,
				Temperature:  temperature,
				Reporter:     reporter(interval),
				OutputFolder: viper.GetString("output"),
				Annealing:    annealing,
				Steps:        steps,
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&env, "env", "vacuum", "environment (vacuum, solution)")
	f.StringVar(&ensemble, "ensemble", "", "ensemble for solution runs (npt, nvt, nve)")
	f.Float64Var(&temperature, "temperature", 300, "simulation temperature (K)")
	f.BoolVar(&annealing, "annealing", false, "ramp the temperature up before the run")
	f.IntVar(&steps, "steps", 0, "simulation steps (default 5000000)")
	f.IntVar(&interval, "report-interval", 1000, "steps between reports")
	return cmd
}

func newDOFScanCommand() *cobra.Command {
	var (
		molecule string
		bond     []int
		maxLen   float64
	)
	cmd := &cobra.Command{
		Use:   "dof-scan",
		Short: "Potential energy scan along one bond",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext()
			if err != nil {
				return err
			}
			return ctx.RunDOFScan(&guard.DOFScanOptions{
				NNP:           nnpSpec(),
				DOF:           guard.DOFDefinition{Bond: bond},
				Molecule:      molecule,
				BondLengthMax: maxLen,
				OutputFolder:  viper.GetString("output"),
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&molecule, "molecule", "ethanol", "molecule to scan")
	f.IntSliceVar(&bond, "bond", nil, "the two atom indexes of the scanned bond")
	f.Float64Var(&maxLen, "max-length", 10, "maximum bond distance (Angstrom)")
	cmd.MarkFlagRequired("bond")
	return cmd
}

func newDetectMinimumCommand() *cobra.Command {
	var (
		dataset    string
		percentage int
		threshold  int
		seed       int64
	)
	cmd := &cobra.Command{
		Use:   "detect-minimum",
		Short: "Benchmark minimum recovery against a reference dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext()
			if err != nil {
				return err
			}
			_, err = ctx.RunDetectMinimum(&guard.DetectMinimumOptions{
				NNP:                nnpSpec(),
				DatasetDir:         dataset,
				OutputFolder:       viper.GetString("output"),
				Percentage:         percentage,
				HeavyAtomThreshold: threshold,
				Seed:               seed,
			})
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&dataset, "dataset", "", "directory with one subdirectory per molecule")
	f.IntVar(&percentage, "percentage", 10, "percentage of the dataset to score")
	f.IntVar(&threshold, "heavy-atoms", 20, "skip molecules with more heavy atoms")
	f.Int64Var(&seed, "seed", 0, "shuffle seed")
	cmd.MarkFlagRequired("dataset")
	return cmd
}

func newReportCommand() *cobra.Command {
	var (
		rmax float64
		bins int
		scan bool
	)
	cmd := &cobra.Command{
		Use:   "report BASE",
		Short: "Plot the results of a finished run",
		Long: `Report reads the output files of a finished run, given by their
common base name (the path without extension), and writes the figures
next to them. With --scan the CSV is read as a bond scan log instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if scan {
				return report.Scan(args[0])
			}
			return report.Run(args[0], &report.Options{RMax: rmax, Bins: bins})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&rmax, "rmax", 6, "RDF cutoff (Angstrom)")
	f.IntVar(&bins, "bins", 50, "RDF bins")
	f.BoolVar(&scan, "scan", false, "treat the log as a bond scan")
	return cmd
}
