/*
 * scenarios_test.go, part of nnpguard.
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
	"os"
	"path/filepath"
	"testing"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/enginetest"
)

func testContext() *guard.Context {
	return &guard.Context{
		Engine:  enginetest.Engine{},
		Systems: enginetest.Factory{},
		Builder: enginetest.Builder{},
	}
}

func TestRunSmallMoleculeTest(Te *testing.T) {
	ctx := testContext()
	out := Te.TempDir()
	err := ctx.RunSmallMoleculeTest(&guard.SmallMoleculeTestOptions{
		NNP:          guard.NNPSpec{Name: "ref"},
		Molecules:    []guard.SmallMoleculeVacuumOption{{Name: "ethanol"}, {Name: "water"}},
		Temperature:  300,
		Reporter:     guard.NewStateDataReporter(100),
		OutputFolder: out,
		Steps:        300,
	})
	if err != nil {
		Te.Fatal(err)
	}
	for _, name := range []string{"vacuum_ethanol_ref_300", "vacuum_water_ref_300"} {
		if _, err := os.Stat(filepath.Join(out, name+".csv")); err != nil {
			Te.Errorf("missing output for %s: %v", name, err)
		}
	}
}

func TestRunWaterboxTestNPT(Te *testing.T) {
	ctx := testContext()
	out := Te.TempDir()
	err := ctx.RunWaterboxTest(&guard.WaterboxTestOptions{
		NNP:          guard.NNPSpec{Name: "ref"},
		EdgeLength:   7,
		Ensemble:     guard.NPT,
		Temperature:  300,
		Reporter:     guard.NewStateDataReporter(50),
		OutputFolder: out,
		Steps:        200,
	})
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "waterbox_7A_ref_npt_300.dcd")); err != nil {
		Te.Errorf("missing waterbox trajectory: %v", err)
	}
}

func TestRunOrganicLiquidMultiTemperature(Te *testing.T) {
	ctx := testContext()
	out := Te.TempDir()
	err := ctx.RunOrganicLiquidTest(&guard.OrganicLiquidTestOptions{
		NNP:          guard.NNPSpec{Name: "ref"},
		Names:        []string{"ethane"},
		Counts:       []int{8},
		Ensemble:     guard.NVT,
		Temperatures: []float64{280, 320},
		Reporter:     guard.NewStateDataReporter(50),
		OutputFolder: out,
		Steps:        200,
	})
	if err != nil {
		Te.Fatal(err)
	}
	for _, name := range []string{
		"pure_liquid_ethane_8_ref_nvt_multi-temp_280K",
		"pure_liquid_ethane_8_ref_nvt_multi-temp_320K",
	} {
		if _, err := os.Stat(filepath.Join(out, name+".csv")); err != nil {
			Te.Errorf("missing output for %s: %v", name, err)
		}
	}
}

func TestRunAlanineDipeptideVacuum(Te *testing.T) {
	ctx := testContext()
	out := Te.TempDir()
	err := ctx.RunAlanineDipeptideTest(&guard.AlanineDipeptideTestOptions{
		NNP:          guard.NNPSpec{Name: "ref"},
		Env:          guard.Vacuum,
		Temperature:  300,
		Reporter:     guard.NewStateDataReporter(50),
		OutputFolder: out,
		Steps:        200,
	})
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "alanine_dipeptide_vacuum_ref_300K_300.pdb")); err != nil {
		Te.Errorf("missing alanine dipeptide output: %v", err)
	}
}

func TestRunDOFScanDefaults(Te *testing.T) {
	ctx := testContext()
	out := Te.TempDir()
	err := ctx.RunDOFScan(&guard.DOFScanOptions{
		NNP:          guard.NNPSpec{Name: "ref"},
		DOF:          guard.DOFDefinition{Bond: []int{0, 1}},
		OutputFolder: out,
	})
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "DOF_scan_ethanol_ref.csv")); err != nil {
		Te.Errorf("missing scan output: %v", err)
	}
}

func TestRunDOFScanRejectsAnglesAndTorsions(Te *testing.T) {
	ctx := testContext()
	for _, dof := range []guard.DOFDefinition{
		{Angle: []int{0, 1, 2}},
		{Torsion: []int{0, 1, 2, 3}},
	} {
		err := ctx.RunDOFScan(&guard.DOFScanOptions{
			NNP:          guard.NNPSpec{Name: "ref"},
			DOF:          dof,
			OutputFolder: Te.TempDir(),
		})
		if err == nil {
			Te.Fatal("only bond scans are implemented, others should be rejected")
		}
		if !guard.IsConfigError(err) {
			Te.Errorf("an unimplemented DOF type should be a ConfigError, got %T", err)
		}
	}
}
