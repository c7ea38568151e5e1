/*
 * report_test.go, part of nnpguard.
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

package report_test

import (
	"os"
	"path/filepath"
	"testing"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/enginetest"
	"github.com/qcmlkit/nnpguard/report"
)

//runs a short waterbox propagation and returns the base name of its
//output files.
func waterboxRun(Te *testing.T) string {
	Te.Helper()
	builder := enginetest.Builder{}
	ts, err := builder.GenerateTestsystem(guard.LiquidOption{Name: "water", EdgeLength: 7})
	if err != nil {
		Te.Fatal(err)
	}
	system, err := enginetest.Factory{}.InitializeSystem(nil, ts.Topology)
	if err != nil {
		Te.Fatal(err)
	}
	out := Te.TempDir()
	parms := &guard.StabilityTestParameters{
		ProtocolLength: 200,
		Temperature:    300,
		Ensemble:       guard.NVT,
		System:         system,
		Testsystem:     ts,
		OutputFolder:   out,
		LogFileName:    "run",
		Reporter:       guard.NewStateDataReporter(50),
		Env:            guard.Solution,
	}
	err = guard.NewPropagationProtocol(enginetest.Engine{}, nil).PerformStabilityTest(parms)
	if err != nil {
		Te.Fatal(err)
	}
	return filepath.Join(out, "run_300")
}

func TestRunWritesFigures(Te *testing.T) {
	base := waterboxRun(Te)
	if err := report.Run(base, nil); err != nil {
		Te.Fatal(err)
	}
	for _, suffix := range []string{"_energy.png", "_temperature.png", "_rdf.png"} {
		info, err := os.Stat(base + suffix)
		if err != nil {
			Te.Errorf("missing figure %s: %v", suffix, err)
			continue
		}
		if info.Size() == 0 {
			Te.Errorf("figure %s is empty", suffix)
		}
	}
}

func TestReadStateData(Te *testing.T) {
	base := waterboxRun(Te)
	data, err := report.ReadStateData(base + ".csv")
	if err != nil {
		Te.Fatal(err)
	}
	steps := data.Column("Step")
	if len(steps) != 4 {
		Te.Fatalf("got %d report rows, want 4", len(steps))
	}
	if steps[0] != 50 || steps[3] != 200 {
		Te.Errorf("unexpected step values %v", steps)
	}
	if data.Column("no such column") != nil {
		Te.Error("missing columns should yield nil")
	}
}

func TestScanWritesProfile(Te *testing.T) {
	builder := enginetest.Builder{}
	ts, err := builder.GenerateTestsystem(guard.SmallMoleculeVacuumOption{Name: "diatomic"})
	if err != nil {
		Te.Fatal(err)
	}
	system, err := enginetest.Factory{}.InitializeSystem(nil, ts.Topology)
	if err != nil {
		Te.Fatal(err)
	}
	out := Te.TempDir()
	parms := &guard.DOFTestParameters{
		System:        system,
		Testsystem:    ts,
		OutputFolder:  out,
		LogFileName:   "scan",
		Bond:          [2]int{0, 1},
		BondLengthMax: 3,
	}
	err = guard.NewBondProfileProtocol(enginetest.Engine{}, nil).PerformScan(parms)
	if err != nil {
		Te.Fatal(err)
	}
	base := filepath.Join(out, "scan")
	if err := report.Scan(base); err != nil {
		Te.Fatal(err)
	}
	if info, err := os.Stat(base + "_profile.png"); err != nil || info.Size() == 0 {
		Te.Fatalf("missing or empty profile figure: %v", err)
	}
}
