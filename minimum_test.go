/*
 * minimum_test.go, part of nnpguard.
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

const h2SDF = `hydrogen
  nnpguard

  2  1  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 H   0  0
    0.7400    0.0000    0.0000 H   0  0
  1  2  1  0
M  END
`

const se2SDF = `diselenium
  nnpguard

  2  1  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 Se  0  0
    2.1500    0.0000    0.0000 Se  0  0
  1  2  1  0
M  END
`

const h2ReferenceXYZ = "2\nreference\nH 0.000000 0.000000 0.000000\nH 0.740000 0.000000 0.000000\n"
const h2StartXYZ = "2\nperturbed\nH 0.000000 0.000000 0.000000\nH 1.200000 0.000000 0.000000\n"
const se2XYZ = "2\nreference\nSe 0.000000 0.000000 0.000000\nSe 2.150000 0.000000 0.000000\n"

func writeMolecule(Te *testing.T, dir, name, sdf, refXYZ, startXYZ string) {
	Te.Helper()
	moldir := filepath.Join(dir, name)
	if err := os.MkdirAll(moldir, 0755); err != nil {
		Te.Fatal(err)
	}
	files := map[string]string{
		name + ".sdf":     sdf,
		"orca_input.xyz":  refXYZ,
		name + "_gen.xyz": startXYZ,
	}
	for fname, content := range files {
		if err := os.WriteFile(filepath.Join(moldir, fname), []byte(content), 0644); err != nil {
			Te.Fatal(err)
		}
	}
}

func benchmarkDataset(Te *testing.T) string {
	Te.Helper()
	dir := Te.TempDir()
	writeMolecule(Te, dir, "mol_a", h2SDF, h2ReferenceXYZ, h2StartXYZ)
	writeMolecule(Te, dir, "mol_b", se2SDF, se2XYZ, se2XYZ)
	writeMolecule(Te, dir, "mol_c", h2SDF, h2ReferenceXYZ, h2StartXYZ)
	return dir
}

func TestScanDataset(Te *testing.T) {
	dir := benchmarkDataset(Te)
	//a subdirectory missing its SDF is not an entry
	if err := os.MkdirAll(filepath.Join(dir, "incomplete"), 0755); err != nil {
		Te.Fatal(err)
	}
	entries, err := guard.ScanDataset(dir)
	if err != nil {
		Te.Fatal(err)
	}
	if len(entries) != 3 {
		Te.Fatalf("got %d entries, want 3", len(entries))
	}
	for _, e := range entries {
		if e.MinimizedXYZ == "" || e.StartXYZ == "" || e.SDF == "" {
			Te.Errorf("incomplete entry %+v", e)
		}
		if filepath.Base(e.MinimizedXYZ) != "orca_input.xyz" {
			Te.Errorf("entry %s has the wrong reference file %s", e.Name, e.MinimizedXYZ)
		}
	}
}

func TestDetectMinimumSkipsAndScores(Te *testing.T) {
	dir := benchmarkDataset(Te)
	prot := guard.NewMinimumSearchProtocol(enginetest.Engine{}, enginetest.Builder{}, nil)
	parms := &guard.MinimumSearchParameters{
		DatasetDir:   dir,
		Percentage:   100,
		OutputFolder: Te.TempDir(),
		Seed:         1,
	}
	scores, err := prot.Run(parms, enginetest.Factory{}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	//mol_b has an element outside the supported set and must be
	//skipped without failing the run
	if len(scores) != 2 {
		Te.Fatalf("got %d scores, want 2", len(scores))
	}
	if _, ok := scores["mol_b"]; ok {
		Te.Fatal("the unsupported molecule was scored")
	}
	for name, s := range scores {
		if s.RMSD > 0.01 {
			Te.Errorf("%s: RMSD %.4f, want near zero for a harmonic diatomic", name, s.RMSD)
		}
		if s.EnergyError > 0.1 {
			Te.Errorf("%s: energy error %.4f, want near zero", name, s.EnergyError)
		}
	}
}

func TestDetectMinimumHonorsQuota(Te *testing.T) {
	dir := benchmarkDataset(Te)
	prot := guard.NewMinimumSearchProtocol(enginetest.Engine{}, enginetest.Builder{}, nil)
	parms := &guard.MinimumSearchParameters{
		DatasetDir:   dir,
		Percentage:   34, //floor(3*34/100) = 1
		OutputFolder: Te.TempDir(),
		Seed:         7,
	}
	scores, err := prot.Run(parms, enginetest.Factory{}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(scores) != 1 {
		Te.Fatalf("got %d scores, want 1", len(scores))
	}

	//a percentage whose truncation is zero still scores one molecule
	parms = &guard.MinimumSearchParameters{
		DatasetDir:   dir,
		Percentage:   10, //floor(3*10/100) = 0
		OutputFolder: Te.TempDir(),
		Seed:         7,
	}
	scores, err = prot.Run(parms, enginetest.Factory{}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(scores) != 1 {
		Te.Fatalf("got %d scores with a truncated-to-zero quota, want 1", len(scores))
	}
}

func TestDetectMinimumHeavyAtomThreshold(Te *testing.T) {
	dir := Te.TempDir()
	//a carbon diatomic counts two heavy atoms
	const c2SDF = `dicarbon
  nnpguard

  2  1  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0
    1.2400    0.0000    0.0000 C   0  0
  1  2  1  0
M  END
`
	const c2XYZ = "2\nreference\nC 0.000000 0.000000 0.000000\nC 1.240000 0.000000 0.000000\n"
	writeMolecule(Te, dir, "mol_c2", c2SDF, c2XYZ, c2XYZ)
	writeMolecule(Te, dir, "mol_h2", h2SDF, h2ReferenceXYZ, h2StartXYZ)
	prot := guard.NewMinimumSearchProtocol(enginetest.Engine{}, enginetest.Builder{}, nil)
	parms := &guard.MinimumSearchParameters{
		DatasetDir:         dir,
		Percentage:         100,
		HeavyAtomThreshold: 1,
		OutputFolder:       Te.TempDir(),
	}
	scores, err := prot.Run(parms, enginetest.Factory{}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(scores) != 1 {
		Te.Fatalf("got %d scores, want 1", len(scores))
	}
	if _, ok := scores["mol_h2"]; !ok {
		Te.Error("the hydrogen diatomic should have been scored")
	}
}
