/*
 * main.go, part of nnpguard.
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

//nnpguard runs stability tests for neural network potentials from the
//command line.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/enginetest"
)

//Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

type rootOptions struct {
	configPath string
	logLevel   string
	noColor    bool
	engine     string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:     "nnpguard",
		Short:   "Stability tests for neural network potentials",
		Long:    "nnpguard runs molecular dynamics stability tests for neural network\npotentials (NNPs): vacuum and condensed-phase propagation, bond scans,\nand minimum-recovery benchmarks.",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (default: ./nnpguard.yaml)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored log output")
	pf.StringVar(&opts.engine, "engine", "reference", "simulation engine to run on")
	pf.StringP("output", "o", "test_output", "directory for output files")
	pf.String("nnp", "reference-nnp", "name of the potential under test")
	viper.BindPFlag("output", pf.Lookup("output"))
	viper.BindPFlag("nnp", pf.Lookup("nnp"))
	viper.BindPFlag("engine", pf.Lookup("engine"))

	cmd.AddCommand(
		newSmallMoleculeCommand(),
		newWaterboxCommand(),
		newLiquidCommand(),
		newAlanineDipeptideCommand(),
		newDOFScanCommand(),
		newDetectMinimumCommand(),
		newReportCommand(),
	)
	return cmd
}

func initConfig(opts *rootOptions) error {
	if opts.configPath != "" {
		viper.SetConfigFile(opts.configPath)
	} else {
		viper.SetConfigName("nnpguard")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("NNPGUARD")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		//a missing default config is fine, an explicit or broken one is not
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if opts.configPath != "" || !notFound {
			return err
		}
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(opts.logLevel),
		NoColor:    opts.noColor,
		TimeFormat: time.Kitchen,
	})))
	return nil
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

//buildContext assembles the run context for the configured engine. Only
//the reference engine ships with the library; real NNP engines register
//here.
func buildContext() (*guard.Context, error) {
	switch viper.GetString("engine") {
	case "reference":
		return &guard.Context{
			Engine:   enginetest.Engine{},
			Systems:  enginetest.Factory{},
			Builder:  enginetest.Builder{},
			Platform: guard.Platform{Name: viper.GetString("platform")},
			Log:      slog.Default(),
		}, nil
	}
	return nil, fmt.Errorf("unknown engine %q", viper.GetString("engine"))
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
