/*
 * minimum.go, part of nnpguard.
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

package guard

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//implementedElements are the atomic numbers most NNPs are trained on
//(H, C, N, O, F, S, Cl). Molecules with other elements are skipped by
//the minimum-search benchmark.
var implementedElements = []int{1, 6, 7, 8, 9, 16, 17}

//MinimizationScore is the result of the minimum-search benchmark for one
//molecule: the RMSD between the NNP-minimized and the reference
//structure, in Angstrom, and the absolute difference between the NNP
//energies of both, in kJ/mol.
type MinimizationScore struct {
	RMSD        float64
	EnergyError float64
}

//DatasetEntry points to the files of one benchmark molecule: the
//reference (pre-minimized) geometry, the perturbed starting geometry,
//and the SDF carrying the topology.
type DatasetEntry struct {
	Name         string
	MinimizedXYZ string
	StartXYZ     string
	SDF          string
}

//MinimumSearchParameters configures the minimum-search benchmark. Unlike
//the other protocols it carries no prebuilt System: every dataset
//molecule has its own topology, so the benchmark builds one system per
//molecule from the factory and potential handed to Run.
type MinimumSearchParameters struct {
	DatasetDir         string
	Percentage         int   //of the dataset to score; 10 when zero
	HeavyAtomThreshold int   //skip molecules with more heavy atoms; 20 when zero
	Seed               int64 //for the dataset shuffle
	Platform           Platform
	OutputFolder       string
	DeviceIndex        int
}

func (p *MinimumSearchParameters) validate() error {
	if p.DatasetDir == "" || p.OutputFolder == "" {
		return NewConfigError("dataset and output folders must be set", "MinimumSearchParameters.validate")
	}
	if p.Percentage < 0 || p.Percentage > 100 {
		return NewConfigError(fmt.Sprintf("percentage %d out of range", p.Percentage), "MinimumSearchParameters.validate")
	}
	if p.Percentage == 0 {
		p.Percentage = 10
	}
	if p.HeavyAtomThreshold == 0 {
		p.HeavyAtomThreshold = 20
	}
	return nil
}

//MinimumSearchProtocol benchmarks how well an NNP recovers known minima:
//for a sample of dataset molecules it minimizes a perturbed geometry and
//scores the result against the reference minimum, with the same NNP
//providing the reference energy.
type MinimumSearchProtocol struct {
	stabilityTest
	builder Builder
}

//NewMinimumSearchProtocol returns a MinimumSearchProtocol running on the
//given engine, with builder providing topologies from the dataset SDF
//files. A nil logger selects slog.Default().
func NewMinimumSearchProtocol(engine Engine, builder Builder, log *slog.Logger) *MinimumSearchProtocol {
	return &MinimumSearchProtocol{newStabilityTest(engine, log), builder}
}

//ScanDataset walks dir, where every subdirectory holds one molecule:
//an orca_input.xyz with the reference geometry, exactly one other .xyz
//with the starting geometry, and one .sdf with the topology. Entries
//are returned sorted by name; incomplete subdirectories are skipped.
func ScanDataset(dir string) ([]DatasetEntry, error) {
	subdirs, err := os.ReadDir(dir)
	if err != nil {
		return nil, errDecorate(err, "ScanDataset")
	}
	entries := []DatasetEntry{}
	for _, sd := range subdirs {
		if !sd.IsDir() {
			continue
		}
		moldir := filepath.Join(dir, sd.Name())
		files, err := os.ReadDir(moldir)
		if err != nil {
			return nil, errDecorate(err, "ScanDataset")
		}
		entry := DatasetEntry{Name: sd.Name()}
		for _, f := range files {
			name := f.Name()
			switch {
			case name == "orca_input.xyz":
				entry.MinimizedXYZ = filepath.Join(moldir, name)
			case strings.HasSuffix(name, ".xyz"):
				entry.StartXYZ = filepath.Join(moldir, name)
			case strings.HasSuffix(name, ".sdf"):
				entry.SDF = filepath.Join(moldir, name)
			}
		}
		if entry.MinimizedXYZ == "" || entry.StartXYZ == "" || entry.SDF == "" {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func containsUnknownElements(top Atomer) bool {
	for i := 0; i < top.Len(); i++ {
		z := AtomicNumber(top.Atom(i))
		known := false
		for _, e := range implementedElements {
			if z == e {
				known = true
				break
			}
		}
		if !known {
			return true
		}
	}
	return false
}

//Run scores a shuffled sample of the dataset and returns the per-name
//scores. Molecules that cannot be prepared (unreadable files, unknown
//elements, too many heavy atoms) are skipped without counting against
//the sample quota; engine failures are fatal.
func (M *MinimumSearchProtocol) Run(parms *MinimumSearchParameters, systems SystemFactory, potential interface{}) (map[string]MinimizationScore, error) {
	if err := parms.validate(); err != nil {
		return nil, err
	}
	entries, err := ScanDataset(parms.DatasetDir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, CError{fmt.Sprintf("no usable molecules in dataset %s", parms.DatasetDir), []string{"Run"}}
	}
	rng := rand.New(rand.NewSource(parms.Seed))
	rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
	//floor(total * percentage / 100), with at least one molecule scored
	//even when the truncation reaches zero: a benchmark that scores
	//nothing has no result to report.
	quota := len(entries) * parms.Percentage / 100
	if quota < 1 {
		quota = 1
	}
	M.log.Info("running minimum-search benchmark", "molecules", len(entries), "quota", quota)

	scores := make(map[string]MinimizationScore, quota)
	minprot := &MinimizationProtocol{M.stabilityTest}
	for _, entry := range entries {
		if len(scores) >= quota {
			break
		}
		score, skip, err := M.scoreMolecule(minprot, parms, entry, systems, potential)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		scores[entry.Name] = score
	}
	printScoreTable(scores)
	return scores, nil
}

//scoreMolecule prepares one molecule and scores it. The skip return is
//true when the molecule cannot be prepared; errors are engine failures.
func (M *MinimumSearchProtocol) scoreMolecule(minprot *MinimizationProtocol, parms *MinimumSearchParameters, entry DatasetEntry, systems SystemFactory, potential interface{}) (MinimizationScore, bool, error) {
	var none MinimizationScore
	top, err := M.builder.MoleculeFromSDF(entry.SDF)
	if err != nil {
		M.log.Warn("skipping molecule, cannot read SDF", "name", entry.Name, "error", err)
		return none, true, nil
	}
	if heavy := HeavyAtoms(top); heavy > parms.HeavyAtomThreshold {
		M.log.Debug("skipping molecule above heavy-atom threshold", "name", entry.Name, "heavy", heavy)
		return none, true, nil
	}
	if containsUnknownElements(top) {
		M.log.Debug("skipping molecule with unsupported elements", "name", entry.Name)
		return none, true, nil
	}
	reference, _, err := XYZRead(entry.MinimizedXYZ)
	if err != nil {
		M.log.Warn("skipping molecule, cannot read reference geometry", "name", entry.Name, "error", err)
		return none, true, nil
	}
	start, _, err := XYZRead(entry.StartXYZ)
	if err != nil {
		M.log.Warn("skipping molecule, cannot read starting geometry", "name", entry.Name, "error", err)
		return none, true, nil
	}
	if reference.NVecs() != top.Len() || start.NVecs() != top.Len() {
		M.log.Warn("skipping molecule, geometry and topology disagree", "name", entry.Name)
		return none, true, nil
	}

	system, err := systems.InitializeSystem(potential, top)
	if err != nil {
		return none, false, errDecorate(err, "scoreMolecule")
	}

	//the same NNP provides the reference energy: evaluate without
	//minimizing at the reference geometry, then minimize from the
	//perturbed start.
	refParms := &MinimizationTestParameters{
		System:       system,
		Platform:     parms.Platform,
		Testsystem:   &Testsystem{Topology: top, Positions: reference},
		OutputFolder: parms.OutputFolder,
		LogFileName:  entry.Name + "_reference",
		DeviceIndex:  parms.DeviceIndex,
	}
	refState, err := minprot.PerformStabilityTest(refParms, false)
	if err != nil {
		return none, false, err
	}
	minParms := &MinimizationTestParameters{
		System:       system,
		Platform:     parms.Platform,
		Testsystem:   &Testsystem{Topology: top, Positions: start},
		OutputFolder: parms.OutputFolder,
		LogFileName:  entry.Name + "_minimized",
		DeviceIndex:  parms.DeviceIndex,
	}
	minState, err := minprot.PerformStabilityTest(minParms, true)
	if err != nil {
		return none, false, err
	}
	rmsd, err := SuperRMSD(minState.Positions, reference)
	if err != nil {
		return none, false, err
	}
	return MinimizationScore{
		RMSD:        rmsd,
		EnergyError: math.Abs(refState.PotentialEnergy - minState.PotentialEnergy),
	}, false, nil
}

func printScoreTable(scores map[string]MinimizationScore) {
	names := make([]string, 0, len(scores))
	for n := range scores {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Printf("%-40s %-20s %-20s\n", "Name", "RMSD [A]", "Energy error [kJ/mol]")
	for _, n := range names {
		s := scores[n]
		fmt.Printf("%-40s %-20.4f %-20.4f\n", n, s.RMSD, s.EnergyError)
	}
}
