/*
 * engine.go, part of nnpguard.
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
	"log/slog"
	"strings"

	v3 "github.com/qcmlkit/nnpguard/v3"
)

//Ensemble is a statistical-mechanics sampling condition. The npt ensemble
//always attaches a barostat to the simulation, nvt and nve never do.
type Ensemble string

const (
	NPT Ensemble = "npt"
	NVT Ensemble = "nvt"
	NVE Ensemble = "nve"
)

//ParseEnsemble normalizes s (case-insensitive) into one of the
//implemented ensembles, or returns a ConfigError.
func ParseEnsemble(s string) (Ensemble, error) {
	e := Ensemble(strings.ToLower(s))
	switch e {
	case NPT, NVT, NVE:
		return e, nil
	}
	return "", NewConfigError(ErrUnknownEnsemble+": "+s, "ParseEnsemble")
}

//Environment tells whether a testsystem is simulated in vacuum or in a
//periodic, solvated box.
type Environment string

const (
	Vacuum   Environment = "vacuum"
	Solution Environment = "solution"
)

//ParseEnvironment normalizes s (case-insensitive) into one of the
//implemented environments, or returns a ConfigError.
func ParseEnvironment(s string) (Environment, error) {
	e := Environment(strings.ToLower(s))
	switch e {
	case Vacuum, Solution:
		return e, nil
	}
	return "", NewConfigError(ErrUnknownEnvironment+": "+s, "ParseEnvironment")
}

//Platform selects the compute platform the engine should run on, e.g.
//"CUDA" or "CPU". The empty Name lets the engine pick its fastest one.
type Platform struct {
	Name string
}

//System is the opaque handle to a molecular system with an attached
//potential. It is produced by a SystemFactory, owned by the caller and
//only ever interpreted by the Engine that built it.
type System interface{}

//SystemFactory initializes a System by combining an NNP (an initialized
//potential, opaque to this package) with a topology.
type SystemFactory interface {
	InitializeSystem(nnp interface{}, top Atomer) (System, error)
}

//State is a snapshot of the dynamical state of a simulation. Positions
//are in Angstrom and may be nil if they were not requested; the potential
//energy is in kJ/mol.
type State struct {
	Positions       *v3.Matrix
	PotentialEnergy float64
}

//Frame is the data handed to reporting sinks at every reporting
//interval.
type Frame struct {
	Step            int
	Time            float64 //ps
	Positions       *v3.Matrix
	PotentialEnergy float64 //kJ/mol
	TotalEnergy     float64 //kJ/mol
	Temperature     float64 //K
	Density         float64 //g/mL
	Speed           float64 //ns/day
	Box             []float64
}

//Sink consumes simulation snapshots as a side effect of stepping, e.g. to
//write a trajectory or a tabular log. Sinks must be closed by whoever
//attached them, on every exit path.
type Sink interface {

	//Interval returns the reporting cadence in steps.
	Interval() int

	Report(f *Frame) error

	Close() error
}

//Simulation is the stateful handle to one runnable simulation: a system,
//an integrator and the current positions/velocities/box. Exactly one
//protocol run owns a Simulation at a time; concurrent sharing is not
//allowed.
type Simulation interface {
	SetPositions(pos *v3.Matrix) error

	//Minimize runs an energy minimization down to the given
	//energy-gradient tolerance (kJ/mol/A) or until maxIterations.
	//Non-convergence reported by the engine is a hard error.
	Minimize(tolerance float64, maxIterations int) error

	//SetIntegratorTemperature updates the thermostat target.
	SetIntegratorTemperature(t float64) error

	//SetBarostatTemperature updates the barostat reference temperature.
	//It is an error to call it on a simulation without a barostat
	//(i.e. any non-npt ensemble).
	SetBarostatTemperature(t float64) error

	//Step advances the simulation n steps, invoking the attached sinks
	//at their intervals.
	Step(n int) error

	//State retrieves positions and/or potential energy of the current
	//state. Evaluating twice without stepping in between returns
	//identical values.
	State(wantPositions, wantEnergy bool) (*State, error)

	AttachSink(s Sink)
}

//Engine builds ready-to-step simulations. Implementations wrap the
//actual physics code; this package never looks behind this interface.
type Engine interface {
	Build(system System, top Atomer, platform Platform, temperature float64,
		env Environment, deviceIndex int, ensemble Ensemble) (Simulation, error)
}

//Context bundles the external collaborators a test run needs: the
//engine, the system factory, the molecule builder and the platform,
//plus the logger everything reports to. It is built once per process
//and passed around explicitly; there is no global state to configure.
type Context struct {
	Engine   Engine
	Systems  SystemFactory
	Builder  Builder
	Platform Platform
	Log      *slog.Logger
}

//logger returns the context logger, or the process default when unset.
func (c *Context) logger() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}
