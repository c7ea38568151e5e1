/*
 * protocols_test.go, part of nnpguard.
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

package guard_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/enginetest"
	"github.com/qcmlkit/nnpguard/traj/dcd"
)

func testsystem(Te *testing.T, name string) (*guard.Testsystem, guard.System) {
	Te.Helper()
	var b enginetest.Builder
	ts, err := b.GenerateTestsystem(guard.SmallMoleculeVacuumOption{Name: name})
	if err != nil {
		Te.Fatal(err)
	}
	system, err := enginetest.Factory{}.InitializeSystem(nil, ts.Topology)
	if err != nil {
		Te.Fatal(err)
	}
	return ts, system
}

func testParameters(Te *testing.T, name string) *guard.StabilityTestParameters {
	Te.Helper()
	ts, system := testsystem(Te, name)
	return &guard.StabilityTestParameters{
		ProtocolLength: 500,
		Temperature:    300,
		Ensemble:       guard.NVT,
		System:         system,
		Testsystem:     ts,
		OutputFolder:   Te.TempDir(),
		LogFileName:    "run",
		Reporter:       guard.NewStateDataReporter(50),
		Env:            guard.Vacuum,
	}
}

func TestPropagationProducesOutputFiles(Te *testing.T) {
	parms := testParameters(Te, "water")
	prot := guard.NewPropagationProtocol(enginetest.Engine{}, nil)
	if err := prot.PerformStabilityTest(parms); err != nil {
		Te.Fatal(err)
	}
	base := filepath.Join(parms.OutputFolder, "run_300")
	for _, ext := range []string{".pdb", ".csv", ".dcd"} {
		if _, err := os.Stat(base + ext); err != nil {
			Te.Errorf("missing output file %s%s: %v", base, ext, err)
		}
	}
	//one CSV row per reporting interval, plus the header
	f, err := os.Open(base + ".csv")
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		Te.Fatal(err)
	}
	if len(rows) != 1+500/50 {
		Te.Errorf("got %d CSV rows, want %d", len(rows), 1+500/50)
	}
	if !strings.HasPrefix(rows[0][0], `#"Step"`) {
		Te.Errorf("unexpected CSV header %q", rows[0][0])
	}
	//and one trajectory frame per interval
	r, err := dcd.New(base + ".dcd")
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	frames := 0
	for {
		if err := r.Next(nil); err != nil {
			if !dcd.IsLastFrame(err) {
				Te.Fatal(err)
			}
			break
		}
		frames++
	}
	if frames != 500/50 {
		Te.Errorf("got %d trajectory frames, want %d", frames, 500/50)
	}
}

func TestPropagationNeedsScalarTemperature(Te *testing.T) {
	parms := testParameters(Te, "water")
	parms.Temperature = 0
	parms.Temperatures = []float64{300, 400}
	prot := guard.NewPropagationProtocol(enginetest.Engine{}, nil)
	err := prot.PerformStabilityTest(parms)
	if err == nil {
		Te.Fatal("a temperature list should be rejected by the single-temperature protocol")
	}
	if !guard.IsConfigError(err) {
		Te.Errorf("want a ConfigError, got %T", err)
	}
}

func TestMultiTemperatureNeedsList(Te *testing.T) {
	parms := testParameters(Te, "water")
	prot := guard.NewMultiTemperatureProtocol(enginetest.Engine{}, nil)
	err := prot.PerformStabilityTest(parms)
	if err == nil {
		Te.Fatal("a scalar temperature should be rejected by the multi-temperature protocol")
	}
	if !guard.IsConfigError(err) {
		Te.Errorf("want a ConfigError, got %T", err)
	}
	//and the failure must come before any output is produced
	entries, err2 := os.ReadDir(parms.OutputFolder)
	if err2 != nil {
		Te.Fatal(err2)
	}
	if len(entries) != 0 {
		Te.Error("a config failure should not leave output files behind")
	}
}

func TestMultiTemperatureRunsOnePerTemperature(Te *testing.T) {
	parms := testParameters(Te, "water")
	parms.Temperature = 0
	parms.Temperatures = []float64{250, 300, 350}
	prot := guard.NewMultiTemperatureProtocol(enginetest.Engine{}, nil)
	if err := prot.PerformStabilityTest(parms); err != nil {
		Te.Fatal(err)
	}
	for _, suffix := range []string{"run_250K", "run_300K", "run_350K"} {
		if _, err := os.Stat(filepath.Join(parms.OutputFolder, suffix+".csv")); err != nil {
			Te.Errorf("missing output for %s: %v", suffix, err)
		}
	}
}

func TestNPTInVacuumIsRejectedEarly(Te *testing.T) {
	parms := testParameters(Te, "water")
	parms.Ensemble = guard.NPT
	prot := guard.NewPropagationProtocol(enginetest.Engine{}, nil)
	err := prot.PerformStabilityTest(parms)
	if err == nil {
		Te.Fatal("npt in vacuum should be rejected")
	}
	if !guard.IsConfigError(err) {
		Te.Errorf("want a ConfigError, got %T", err)
	}
}

func TestAnnealingRunCompletes(Te *testing.T) {
	parms := testParameters(Te, "water")
	parms.SimulatedAnnealing = true
	parms.ProtocolLength = 200
	prot := guard.NewPropagationProtocol(enginetest.Engine{}, nil)
	if err := prot.PerformStabilityTest(parms); err != nil {
		Te.Fatal(err)
	}
	//after the ramp the reported temperature must be at the target
	f, err := os.Open(filepath.Join(parms.OutputFolder, "run_300.csv"))
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		Te.Fatal(err)
	}
	last := rows[len(rows)-1]
	if !strings.HasPrefix(last[4], "300") { //temperature column
		Te.Errorf("last reported temperature %q, want 300", last[4])
	}
}

func TestMinimizationProtocolReturnsState(Te *testing.T) {
	ts, system := testsystem(Te, "diatomic")
	stretched := ts.Positions.Clone()
	stretched.Set(1, 0, 1.6)
	parms := &guard.MinimizationTestParameters{
		System:       system,
		Testsystem:   &guard.Testsystem{Topology: ts.Topology, Positions: stretched},
		OutputFolder: Te.TempDir(),
		LogFileName:  "minimized",
	}
	prot := guard.NewMinimizationProtocol(enginetest.Engine{}, nil)
	state, err := prot.PerformStabilityTest(parms, true)
	if err != nil {
		Te.Fatal(err)
	}
	if state.Positions == nil {
		Te.Fatal("the returned state has no positions")
	}
	d := state.Positions.At(1, 0) - state.Positions.At(0, 0)
	if d < 0.7 || d > 0.8 {
		Te.Errorf("minimized bond length %.4f, want near 0.74", d)
	}
	if state.PotentialEnergy > 1 {
		Te.Errorf("minimized energy %.4f, want near zero", state.PotentialEnergy)
	}
	if _, err := os.Stat(filepath.Join(parms.OutputFolder, "minimized.pdb")); err != nil {
		Te.Errorf("missing post-minimization structure: %v", err)
	}
}
