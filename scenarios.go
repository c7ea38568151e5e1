/*
 * scenarios.go, part of nnpguard.
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
)

//defaultProtocolLength is the number of simulation steps a scenario runs
//when the caller doesn't say otherwise.
const defaultProtocolLength = 5_000_000

//NNPSpec identifies the potential under test: the initialized potential
//handed to the system factory, plus the short name used in output file
//names.
type NNPSpec struct {
	Name      string
	Potential interface{}
}

//propagate selects between the single- and the multi-temperature
//protocol based on which temperature field is set, and runs it.
func (c *Context) propagate(parms *StabilityTestParameters) error {
	if len(parms.Temperatures) > 0 {
		return NewMultiTemperatureProtocol(c.Engine, c.Log).PerformStabilityTest(parms)
	}
	return NewPropagationProtocol(c.Engine, c.Log).PerformStabilityTest(parms)
}

//SmallMoleculeTestOptions configures RunSmallMoleculeTest.
type SmallMoleculeTestOptions struct {
	NNP          NNPSpec
	Molecules    []SmallMoleculeVacuumOption
	Temperature  float64   //for the single-temperature protocol,
	Temperatures []float64 //or this for the multi-temperature one
	Reporter     *StateDataReporter
	OutputFolder string
	DeviceIndex  int
	Steps        int //defaultProtocolLength when zero
}

//RunSmallMoleculeTest performs a vacuum stability test for each of the
//given small molecules, in the nvt ensemble. A temperature list selects
//the multi-temperature protocol for every molecule.
func (c *Context) RunSmallMoleculeTest(opts *SmallMoleculeTestOptions) error {
	if len(opts.Molecules) == 0 {
		return NewConfigError("no molecules to test", "RunSmallMoleculeTest")
	}
	steps := opts.Steps
	if steps == 0 {
		steps = defaultProtocolLength
	}
	for _, mol := range opts.Molecules {
		c.logger().Info("performing vacuum stability test", "molecule", mol.Name)
		ts, err := c.Builder.GenerateTestsystem(mol)
		if err != nil {
			return errDecorate(err, "RunSmallMoleculeTest")
		}
		system, err := c.Systems.InitializeSystem(opts.NNP.Potential, ts.Topology)
		if err != nil {
			return errDecorate(err, "RunSmallMoleculeTest")
		}
		parms := &StabilityTestParameters{
			ProtocolLength: steps,
			Temperature:    opts.Temperature,
			Temperatures:   opts.Temperatures,
			Ensemble:       NVT,
			System:         system,
			Platform:       c.Platform,
			Testsystem:     ts,
			OutputFolder:   opts.OutputFolder,
			LogFileName:    fmt.Sprintf("vacuum_%s_%s", mol.Name, opts.NNP.Name),
			Reporter:       opts.Reporter,
			DeviceIndex:    opts.DeviceIndex,
			Env:            Vacuum,
		}
		if err := c.propagate(parms); err != nil {
			return err
		}
	}
	return nil
}

//WaterboxTestOptions configures RunWaterboxTest.
type WaterboxTestOptions struct {
	NNP          NNPSpec
	EdgeLength   float64 //Angstrom
	Ensemble     Ensemble
	Temperature  float64
	Temperatures []float64
	Reporter     *StateDataReporter
	OutputFolder string
	DeviceIndex  int
	Annealing    bool
	Steps        int
}

//RunWaterboxTest performs a stability test on a periodic waterbox of the
//given edge length.
func (c *Context) RunWaterboxTest(opts *WaterboxTestOptions) error {
	c.logger().Info("initiating waterbox stability test",
		"edge_A", opts.EdgeLength, "nnp", opts.NNP.Name, "ensemble", opts.Ensemble)
	steps := opts.Steps
	if steps == 0 {
		steps = defaultProtocolLength
	}
	ts, err := c.Builder.GenerateTestsystem(LiquidOption{Name: "water", EdgeLength: opts.EdgeLength})
	if err != nil {
		return errDecorate(err, "RunWaterboxTest")
	}
	system, err := c.Systems.InitializeSystem(opts.NNP.Potential, ts.Topology)
	if err != nil {
		return errDecorate(err, "RunWaterboxTest")
	}
	name := fmt.Sprintf("waterbox_%gA_%s_%s", opts.EdgeLength, opts.NNP.Name, opts.Ensemble)
	if len(opts.Temperatures) > 0 {
		name += "_multi-temp"
	}
	parms := &StabilityTestParameters{
		ProtocolLength:     steps,
		Temperature:        opts.Temperature,
		Temperatures:       opts.Temperatures,
		Ensemble:           opts.Ensemble,
		SimulatedAnnealing: opts.Annealing,
		System:             system,
		Platform:           c.Platform,
		Testsystem:         ts,
		OutputFolder:       opts.OutputFolder,
		LogFileName:        name,
		Reporter:           opts.Reporter,
		DeviceIndex:        opts.DeviceIndex,
		Env:                Solution,
	}
	return c.propagate(parms)
}

//OrganicLiquidTestOptions configures RunOrganicLiquidTest. Names and
//Counts are matched pairwise; each pair produces one independent test.
type OrganicLiquidTestOptions struct {
	NNP          NNPSpec
	Names        []string
	Counts       []int
	Ensemble     Ensemble
	Temperature  float64
	Temperatures []float64
	Reporter     *StateDataReporter
	OutputFolder string
	DeviceIndex  int
	Annealing    bool
	Steps        int
}

//RunOrganicLiquidTest performs stability tests on pure organic liquid
//boxes, one per name/count pair.
func (c *Context) RunOrganicLiquidTest(opts *OrganicLiquidTestOptions) error {
	if len(opts.Names) == 0 || len(opts.Names) != len(opts.Counts) {
		return NewConfigError("molecule names and counts must pair up", "RunOrganicLiquidTest")
	}
	steps := opts.Steps
	if steps == 0 {
		steps = defaultProtocolLength
	}
	tempStr := fmt.Sprintf("%gK", opts.Temperature)
	if len(opts.Temperatures) > 0 {
		tempStr = "multi-temp"
	}
	for i, molname := range opts.Names {
		count := opts.Counts[i]
		c.logger().Info("initiating pure liquid stability test", "molecule", molname, "n", count)
		ts, err := c.Builder.GenerateTestsystem(LiquidOption{Name: molname, NMolecules: count})
		if err != nil {
			return errDecorate(err, "RunOrganicLiquidTest")
		}
		system, err := c.Systems.InitializeSystem(opts.NNP.Potential, ts.Topology)
		if err != nil {
			return errDecorate(err, "RunOrganicLiquidTest")
		}
		parms := &StabilityTestParameters{
			ProtocolLength:     steps,
			Temperature:        opts.Temperature,
			Temperatures:       opts.Temperatures,
			Ensemble:           opts.Ensemble,
			SimulatedAnnealing: opts.Annealing,
			System:             system,
			Platform:           c.Platform,
			Testsystem:         ts,
			OutputFolder:       opts.OutputFolder,
			LogFileName: fmt.Sprintf("pure_liquid_%s_%d_%s_%s_%s",
				molname, count, opts.NNP.Name, opts.Ensemble, tempStr),
			Reporter:    opts.Reporter,
			DeviceIndex: opts.DeviceIndex,
			Env:         Solution,
		}
		if err := c.propagate(parms); err != nil {
			return err
		}
	}
	return nil
}

//AlanineDipeptideTestOptions configures RunAlanineDipeptideTest.
type AlanineDipeptideTestOptions struct {
	NNP          NNPSpec
	Env          Environment
	Ensemble     Ensemble //only used in solution
	Temperature  float64
	Reporter     *StateDataReporter
	OutputFolder string
	DeviceIndex  int
	Annealing    bool
	Steps        int
}

//RunAlanineDipeptideTest performs a stability test on alanine
//dipeptide, either in vacuum or solvated in a periodic water box.
func (c *Context) RunAlanineDipeptideTest(opts *AlanineDipeptideTestOptions) error {
	c.logger().Info("initiating alanine dipeptide stability test",
		"env", opts.Env, "nnp", opts.NNP.Name)
	steps := opts.Steps
	if steps == 0 {
		steps = defaultProtocolLength
	}
	var opt TestsystemOption
	var envStr string
	ensemble := opts.Ensemble
	switch opts.Env {
	case Vacuum:
		opt = SmallMoleculeVacuumOption{Name: "ala_dipeptide"}
		envStr = string(Vacuum)
		if ensemble == "" {
			ensemble = NVT
		}
	case Solution:
		opt = SolvatedSystemOption{Name: "ala_dipeptide"}
		envStr = fmt.Sprintf("%s_%s", opts.Env, ensemble)
	default:
		return NewConfigError(ErrUnknownEnvironment+": "+string(opts.Env), "RunAlanineDipeptideTest")
	}
	ts, err := c.Builder.GenerateTestsystem(opt)
	if err != nil {
		return errDecorate(err, "RunAlanineDipeptideTest")
	}
	system, err := c.Systems.InitializeSystem(opts.NNP.Potential, ts.Topology)
	if err != nil {
		return errDecorate(err, "RunAlanineDipeptideTest")
	}
	parms := &StabilityTestParameters{
		ProtocolLength:     steps,
		Temperature:        opts.Temperature,
		Ensemble:           ensemble,
		SimulatedAnnealing: opts.Annealing,
		System:             system,
		Platform:           c.Platform,
		Testsystem:         ts,
		OutputFolder:       opts.OutputFolder,
		LogFileName: fmt.Sprintf("alanine_dipeptide_%s_%s_%gK",
			envStr, opts.NNP.Name, opts.Temperature),
		Reporter:    opts.Reporter,
		DeviceIndex: opts.DeviceIndex,
		Env:         opts.Env,
	}
	return NewPropagationProtocol(c.Engine, c.Log).PerformStabilityTest(parms)
}

//DOFDefinition names the degree of freedom a scan samples. Exactly one
//field should be set; only bond scans are implemented.
type DOFDefinition struct {
	Bond    []int
	Angle   []int
	Torsion []int
}

//DOFScanOptions configures RunDOFScan.
type DOFScanOptions struct {
	NNP           NNPSpec
	DOF           DOFDefinition
	Molecule      string  //"ethanol" when empty
	BondLengthMax float64 //Angstrom; 10 when zero
	OutputFolder  string
	DeviceIndex   int
}

//RunDOFScan samples the potential energy along one degree of freedom of
//a small molecule in vacuum.
func (c *Context) RunDOFScan(opts *DOFScanOptions) error {
	molecule := opts.Molecule
	if molecule == "" {
		molecule = "ethanol"
	}
	maxLength := opts.BondLengthMax
	if maxLength == 0 {
		maxLength = 10
	}
	switch {
	case len(opts.DOF.Bond) == 2:
		//handled below
	case len(opts.DOF.Angle) > 0 || len(opts.DOF.Torsion) > 0:
		return NewConfigError(ErrDOFNotImplemented, "RunDOFScan")
	default:
		return NewConfigError("a DOF scan needs a bond definition with two atom indexes", "RunDOFScan")
	}
	c.logger().Info("initiating DOF scan", "molecule", molecule, "nnp", opts.NNP.Name,
		"bond", opts.DOF.Bond)
	ts, err := c.Builder.GenerateTestsystem(SmallMoleculeVacuumOption{Name: molecule})
	if err != nil {
		return errDecorate(err, "RunDOFScan")
	}
	system, err := c.Systems.InitializeSystem(opts.NNP.Potential, ts.Topology)
	if err != nil {
		return errDecorate(err, "RunDOFScan")
	}
	parms := &DOFTestParameters{
		System:        system,
		Platform:      c.Platform,
		Testsystem:    ts,
		OutputFolder:  opts.OutputFolder,
		LogFileName:   fmt.Sprintf("DOF_scan_%s_%s", molecule, opts.NNP.Name),
		Bond:          [2]int{opts.DOF.Bond[0], opts.DOF.Bond[1]},
		BondLengthMax: maxLength,
		DeviceIndex:   opts.DeviceIndex,
	}
	return NewBondProfileProtocol(c.Engine, c.Log).PerformScan(parms)
}

//DetectMinimumOptions configures RunDetectMinimum.
type DetectMinimumOptions struct {
	NNP                NNPSpec
	DatasetDir         string
	OutputFolder       string
	Percentage         int
	HeavyAtomThreshold int
	Seed               int64
	DeviceIndex        int
}

//RunDetectMinimum benchmarks how well the NNP recovers reference minima
//on a sample of the dataset, returning the per-molecule scores.
func (c *Context) RunDetectMinimum(opts *DetectMinimumOptions) (map[string]MinimizationScore, error) {
	c.logger().Info("initiating minimum-search benchmark", "nnp", opts.NNP.Name,
		"dataset", opts.DatasetDir)
	parms := &MinimumSearchParameters{
		DatasetDir:         opts.DatasetDir,
		Percentage:         opts.Percentage,
		HeavyAtomThreshold: opts.HeavyAtomThreshold,
		Seed:               opts.Seed,
		Platform:           c.Platform,
		OutputFolder:       opts.OutputFolder,
		DeviceIndex:        opts.DeviceIndex,
	}
	prot := NewMinimumSearchProtocol(c.Engine, c.Builder, c.Log)
	return prot.Run(parms, c.Systems, opts.NNP.Potential)
}
