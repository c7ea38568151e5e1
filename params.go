/*
 * params.go, part of nnpguard.
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

import "fmt"

//StabilityTestParameters describes one propagation-style stability test.
//Exactly one of Temperature and Temperatures must be set: a scalar
//selects the single-temperature protocols, a list selects the
//multi-temperature protocol. The struct is immutable by convention; only
//Clone copies derived per-temperature variants.
type StabilityTestParameters struct {
	ProtocolLength     int //steps
	Temperature        float64
	Temperatures       []float64
	Ensemble           Ensemble
	SimulatedAnnealing bool
	System             System
	Platform           Platform
	Testsystem         *Testsystem
	OutputFolder       string
	LogFileName        string
	Reporter           *StateDataReporter
	DeviceIndex        int
	Env                Environment
}

//Clone returns a copy of the parameters with its own temperature list.
//The system, testsystem and reporter handles are shared with the
//original.
func (p *StabilityTestParameters) Clone() *StabilityTestParameters {
	clone := *p
	if p.Temperatures != nil {
		clone.Temperatures = make([]float64, len(p.Temperatures))
		copy(clone.Temperatures, p.Temperatures)
	}
	return &clone
}

//validate checks everything that can be checked before any engine work
//begins. All failures are ConfigErrors.
func (p *StabilityTestParameters) validate() error {
	if p.Testsystem == nil || p.Testsystem.Topology == nil || p.Testsystem.Positions == nil {
		return NewConfigError(ErrNilTestsystem, "StabilityTestParameters.validate")
	}
	if p.ProtocolLength <= 0 {
		return NewConfigError(fmt.Sprintf("protocol length must be positive, got %d", p.ProtocolLength), "StabilityTestParameters.validate")
	}
	if p.OutputFolder == "" || p.LogFileName == "" {
		return NewConfigError("output folder and log file name must be set", "StabilityTestParameters.validate")
	}
	if p.Reporter == nil {
		return NewConfigError("a state data reporter is required", "StabilityTestParameters.validate")
	}
	ens, err := ParseEnsemble(string(p.Ensemble))
	if err != nil {
		return err
	}
	p.Ensemble = ens
	env, err := ParseEnvironment(string(p.Env))
	if err != nil {
		return err
	}
	p.Env = env
	//nve and nvt never attach a barostat; npt always does, and a
	//barostat needs a periodic box.
	if p.Ensemble == NPT && p.Env == Vacuum {
		return NewConfigError(ErrBarostatInVacuum, "StabilityTestParameters.validate")
	}
	return nil
}

//setupSpec reduces the parameters to what setupSimulation needs.
func (p *StabilityTestParameters) setupSpec() setupSpec {
	return setupSpec{
		system:      p.System,
		testsystem:  p.Testsystem,
		platform:    p.Platform,
		temperature: p.Temperature,
		env:         p.Env,
		deviceIndex: p.DeviceIndex,
		ensemble:    p.Ensemble,
		annealing:   p.SimulatedAnnealing,
	}
}

//DefaultConvergenceCriteria is the energy-gradient threshold down to
//which minimizations run, in kJ/mol/Angstrom.
const DefaultConvergenceCriteria = 1.0

//MinimizationTestParameters describes one minimization test: the system
//is minimized (or merely evaluated) and the resulting state returned,
//without running dynamics.
type MinimizationTestParameters struct {
	Temperature         float64 //K, only used to build the context; 300 when zero
	ConvergenceCriteria float64 //kJ/mol/A; DefaultConvergenceCriteria when zero
	System              System
	Platform            Platform
	Testsystem          *Testsystem
	OutputFolder        string
	LogFileName         string
	DeviceIndex         int
	Env                 Environment
	Ensemble            Ensemble //nvt when empty
}

func (p *MinimizationTestParameters) validate() error {
	if p.Testsystem == nil || p.Testsystem.Topology == nil || p.Testsystem.Positions == nil {
		return NewConfigError(ErrNilTestsystem, "MinimizationTestParameters.validate")
	}
	if p.OutputFolder == "" || p.LogFileName == "" {
		return NewConfigError("output folder and log file name must be set", "MinimizationTestParameters.validate")
	}
	if p.Temperature == 0 {
		p.Temperature = 300
	}
	if p.ConvergenceCriteria == 0 {
		p.ConvergenceCriteria = DefaultConvergenceCriteria
	}
	if p.Ensemble == "" {
		p.Ensemble = NVT
	}
	if p.Env == "" {
		p.Env = Vacuum
	}
	ens, err := ParseEnsemble(string(p.Ensemble))
	if err != nil {
		return err
	}
	p.Ensemble = ens
	env, err := ParseEnvironment(string(p.Env))
	if err != nil {
		return err
	}
	p.Env = env
	if p.Ensemble == NPT && p.Env == Vacuum {
		return NewConfigError(ErrBarostatInVacuum, "MinimizationTestParameters.validate")
	}
	return nil
}

func (p *MinimizationTestParameters) setupSpec() setupSpec {
	return setupSpec{
		system:      p.System,
		testsystem:  p.Testsystem,
		platform:    p.Platform,
		temperature: p.Temperature,
		env:         p.Env,
		deviceIndex: p.DeviceIndex,
		ensemble:    p.Ensemble,
	}
}

//DOFTestParameters describes a degree-of-freedom scan. Only bond scans
//are implemented; Bond holds the two atom indexes defining the scanned
//bond and BondLengthMax the maximum stretch, in Angstrom.
type DOFTestParameters struct {
	System        System
	Platform      Platform
	Testsystem    *Testsystem
	OutputFolder  string
	LogFileName   string
	Bond          [2]int
	BondLengthMax float64 //Angstrom
	DeviceIndex   int
}

func (p *DOFTestParameters) validate() error {
	if p.Testsystem == nil || p.Testsystem.Topology == nil || p.Testsystem.Positions == nil {
		return NewConfigError(ErrNilTestsystem, "DOFTestParameters.validate")
	}
	if p.OutputFolder == "" || p.LogFileName == "" {
		return NewConfigError("output folder and log file name must be set", "DOFTestParameters.validate")
	}
	n := p.Testsystem.Topology.Len()
	if p.Bond[0] < 0 || p.Bond[1] < 0 || p.Bond[0] >= n || p.Bond[1] >= n {
		return NewConfigError(fmt.Sprintf("bond atom indexes %v out of range for %d atoms", p.Bond, n), "DOFTestParameters.validate")
	}
	if p.Bond[0] == p.Bond[1] {
		return NewConfigError("a bond needs two different atoms", "DOFTestParameters.validate")
	}
	if p.BondLengthMax < 0 {
		return NewConfigError("the maximum bond stretch cannot be negative", "DOFTestParameters.validate")
	}
	return nil
}
