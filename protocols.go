/*
 * protocols.go, part of nnpguard.
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
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
)

const (
	//minimizations give up after this many iterations.
	minimizationMaxIterations = 1000
	//simulated annealing ramps the temperature in this many stages,
	//linearly spaced from 0 to the target temperature, stepping the
	//simulation between stages.
	annealingStages        = 10
	annealingStepsPerStage = 100
)

//setupSpec is the common slice of the parameter variants that
//setupSimulation needs.
type setupSpec struct {
	system      System
	testsystem  *Testsystem
	platform    Platform
	temperature float64
	env         Environment
	deviceIndex int
	ensemble    Ensemble
	annealing   bool
}

//stabilityTest holds what all protocol variants share: the engine that
//materializes simulations and the logger. The exported protocols embed
//it.
type stabilityTest struct {
	engine Engine
	log    *slog.Logger
}

func newStabilityTest(engine Engine, log *slog.Logger) stabilityTest {
	if log == nil {
		log = slog.Default()
	}
	return stabilityTest{engine: engine, log: log}
}

//setupSimulation builds a simulation for the spec, positions the atoms,
//optionally minimizes to the given tolerance, and optionally runs the
//simulated-annealing temperature ramp. Engine failures, including
//non-converged minimizations, are returned as-is: they are fatal for
//the run.
func (st *stabilityTest) setupSimulation(spec setupSpec, tolerance float64, minimize bool) (Simulation, error) {
	sim, err := st.engine.Build(spec.system, spec.testsystem.Topology, spec.platform,
		spec.temperature, spec.env, spec.deviceIndex, spec.ensemble)
	if err != nil {
		return nil, errDecorate(err, "setupSimulation")
	}
	if err := sim.SetPositions(spec.testsystem.Positions); err != nil {
		return nil, errDecorate(err, "setupSimulation")
	}
	if minimize {
		st.log.Info("minimizing energy", "tolerance_kj_mol_A", tolerance)
		if err := sim.Minimize(tolerance, minimizationMaxIterations); err != nil {
			return nil, errDecorate(err, "setupSimulation")
		}
		st.log.Info("energy minimization complete")
	}
	if spec.annealing {
		st.log.Info("running simulated annealing", "stages", annealingStages, "target_K", spec.temperature)
		ramp := make([]float64, annealingStages)
		floats.Span(ramp, 0, spec.temperature)
		for _, t := range ramp {
			if err := sim.Step(annealingStepsPerStage); err != nil {
				return nil, errDecorate(err, "setupSimulation")
			}
			if err := sim.SetIntegratorTemperature(t); err != nil {
				return nil, errDecorate(err, "setupSimulation")
			}
			if spec.ensemble == NPT {
				if err := sim.SetBarostatTemperature(t); err != nil {
					return nil, errDecorate(err, "setupSimulation")
				}
			}
		}
	}
	return sim, nil
}

//runSimulation writes the initial PDB snapshot, attaches the trajectory
//writer (at the tabular reporter's cadence), the tabular reporter
//itself and a progress indicator, and steps the simulation for the full
//protocol length. All sinks are closed on every exit path.
func (st *stabilityTest) runSimulation(parms *StabilityTestParameters, sim Simulation) (rerr error) {
	if err := os.MkdirAll(parms.OutputFolder, 0755); err != nil {
		return errDecorate(err, "runSimulation")
	}
	base := filepath.Join(parms.OutputFolder, parms.LogFileName)

	if err := PDBFileWrite(base+".pdb", parms.Testsystem.Positions, parms.Testsystem.Topology); err != nil {
		return errDecorate(err, "runSimulation")
	}

	rep := parms.Reporter
	if !rep.Step {
		st.log.Info("setting the step column of the reporter to true")
		rep.Step = true
	}
	out, err := os.Create(base + ".csv")
	if err != nil {
		return errDecorate(err, "runSimulation")
	}
	rep.SetOutput(out)

	natoms := parms.Testsystem.Topology.Len()
	traj, err := NewDCDSink(base+".dcd", natoms, rep.Interval())
	if err != nil {
		rep.Close()
		return errDecorate(err, "runSimulation")
	}
	progress := NewProgressReporter(os.Stdout, 100, parms.ProtocolLength)

	sinks := []Sink{traj, rep, progress}
	for _, s := range sinks {
		sim.AttachSink(s)
	}
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil && rerr == nil {
				rerr = errDecorate(err, "runSimulation")
			}
		}
	}()

	return sim.Step(parms.ProtocolLength)
}

//PropagationProtocol runs one constant-condition simulation at a single
//temperature: minimize, thermalize as requested, then propagate for the
//protocol length while recording trajectory and observables.
type PropagationProtocol struct {
	stabilityTest
}

//NewPropagationProtocol returns a PropagationProtocol running on the
//given engine. A nil logger selects slog.Default().
func NewPropagationProtocol(engine Engine, log *slog.Logger) *PropagationProtocol {
	return &PropagationProtocol{newStabilityTest(engine, log)}
}

//PerformStabilityTest runs the protocol. The parameters must carry a
//single scalar temperature; the output name is suffixed with it.
func (P *PropagationProtocol) PerformStabilityTest(parms *StabilityTestParameters) error {
	if parms.Temperatures != nil || parms.Temperature <= 0 {
		return NewConfigError(ErrNoTemperature, "PerformStabilityTest")
	}
	if err := parms.validate(); err != nil {
		return err
	}
	run := parms.Clone()
	run.LogFileName = fmt.Sprintf("%s_%g", parms.LogFileName, parms.Temperature)
	sim, err := P.setupSimulation(run.setupSpec(), DefaultConvergenceCriteria, true)
	if err != nil {
		return err
	}
	return P.runSimulation(run, sim)
}

//MultiTemperatureProtocol runs one independent simulation per
//temperature in the parameters' temperature list, in order. No state
//carries over between temperatures; each run starts from the shared
//initial geometry without re-minimization.
type MultiTemperatureProtocol struct {
	PropagationProtocol
}

//NewMultiTemperatureProtocol returns a MultiTemperatureProtocol running
//on the given engine. A nil logger selects slog.Default().
func NewMultiTemperatureProtocol(engine Engine, log *slog.Logger) *MultiTemperatureProtocol {
	return &MultiTemperatureProtocol{PropagationProtocol{newStabilityTest(engine, log)}}
}

//PerformStabilityTest runs one simulation per temperature. The
//parameters must carry a temperature list; each run's output name is
//suffixed with "_{T}K".
func (M *MultiTemperatureProtocol) PerformStabilityTest(parms *StabilityTestParameters) error {
	if len(parms.Temperatures) == 0 {
		return NewConfigError(ErrTemperatureList, "PerformStabilityTest")
	}
	if err := parms.validate(); err != nil {
		return err
	}
	for _, temperature := range parms.Temperatures {
		run := parms.Clone()
		run.Temperatures = nil
		run.Temperature = temperature
		run.LogFileName = fmt.Sprintf("%s_%gK", parms.LogFileName, temperature)
		M.log.Info("running simulation", "temperature_K", temperature)
		sim, err := M.setupSimulation(run.setupSpec(), DefaultConvergenceCriteria, false)
		if err != nil {
			return err
		}
		if err := M.runSimulation(run, sim); err != nil {
			return err
		}
	}
	return nil
}

//MinimizationProtocol produces a single minimized (or, with
//minimize=false, merely evaluated) structure and returns the resulting
//state instead of running dynamics.
type MinimizationProtocol struct {
	stabilityTest
}

//NewMinimizationProtocol returns a MinimizationProtocol running on the
//given engine. A nil logger selects slog.Default().
func NewMinimizationProtocol(engine Engine, log *slog.Logger) *MinimizationProtocol {
	return &MinimizationProtocol{newStabilityTest(engine, log)}
}

//PerformStabilityTest minimizes (or only evaluates) the system and
//returns the final state with positions and potential energy. It always
//writes the post-minimization structure as a PDB snapshot.
func (M *MinimizationProtocol) PerformStabilityTest(parms *MinimizationTestParameters, minimize bool) (*State, error) {
	if err := parms.validate(); err != nil {
		return nil, err
	}
	M.log.Debug("minimization test parameters", "name", parms.LogFileName, "minimize", minimize)
	sim, err := M.setupSimulation(parms.setupSpec(), parms.ConvergenceCriteria, minimize)
	if err != nil {
		return nil, err
	}
	state, err := sim.State(true, true)
	if err != nil {
		return nil, errDecorate(err, "PerformStabilityTest")
	}
	if err := os.MkdirAll(parms.OutputFolder, 0755); err != nil {
		return nil, errDecorate(err, "PerformStabilityTest")
	}
	base := filepath.Join(parms.OutputFolder, parms.LogFileName)
	if err := PDBFileWrite(base+".pdb", state.Positions, parms.Testsystem.Topology); err != nil {
		return nil, errDecorate(err, "PerformStabilityTest")
	}
	return state, nil
}
