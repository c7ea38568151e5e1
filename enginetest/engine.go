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

//Package enginetest provides a self-contained reference engine: a
//harmonic bond potential with deterministic, integrator-free dynamics.
//It implements the same interfaces a real NNP engine does, so the
//protocols and scenarios can run end to end with no external physics
//code. It is meant for tests and for trying out the library, not for
//producing science.
package enginetest

import (
	"fmt"
	"math"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/v3"
)

//kb is the Boltzmann constant in kJ/mol/K.
const kb = 0.0083144621

//defaultForceConstant is the bond force constant, in kJ/mol/A^2.
const defaultForceConstant = 500.0

//HarmonicSystem is the System this engine interprets: a set of harmonic
//bonds over a topology.
type HarmonicSystem struct {
	Top   guard.Atomer
	Bonds []guard.Bond
	K     float64 //kJ/mol/A^2, defaultForceConstant when zero
}

func (h *HarmonicSystem) forceConstant() float64 {
	if h.K == 0 {
		return defaultForceConstant
	}
	return h.K
}

//energy returns the potential energy of pos under the system, in
//kJ/mol.
func (h *HarmonicSystem) energy(pos *v3.Matrix) float64 {
	k := h.forceConstant()
	var e float64
	d := v3.Zeros(1)
	for _, b := range h.Bonds {
		d.Sub(pos.VecView(b.A2), pos.VecView(b.A1))
		stretch := d.Norm() - b.Eq
		e += 0.5 * k * stretch * stretch
	}
	return e
}

//gradient returns the energy gradient at pos, one row per atom, in
//kJ/mol/A.
func (h *HarmonicSystem) gradient(pos *v3.Matrix) *v3.Matrix {
	k := h.forceConstant()
	g := v3.Zeros(pos.NVecs())
	d := v3.Zeros(1)
	for _, b := range h.Bonds {
		d.Sub(pos.VecView(b.A2), pos.VecView(b.A1))
		r := d.Norm()
		if r == 0 {
			continue //coincident atoms have no defined direction
		}
		f := k * (r - b.Eq) / r
		for j := 0; j < 3; j++ {
			g.Set(b.A2, j, g.At(b.A2, j)+f*d.At(0, j))
			g.Set(b.A1, j, g.At(b.A1, j)-f*d.At(0, j))
		}
	}
	return g
}

//Factory implements guard.SystemFactory. The nnp argument is accepted
//for interface compatibility and ignored; the topology must carry bonds.
type Factory struct{}

func (Factory) InitializeSystem(nnp interface{}, top guard.Atomer) (guard.System, error) {
	bonded, ok := top.(guard.Bonded)
	if !ok || len(bonded.Bonds()) == 0 {
		return nil, fmt.Errorf("enginetest: the topology carries no bonds")
	}
	return &HarmonicSystem{Top: top, Bonds: bonded.Bonds()}, nil
}

//Engine implements guard.Engine over HarmonicSystems.
type Engine struct{}

func (Engine) Build(system guard.System, top guard.Atomer, platform guard.Platform,
	temperature float64, env guard.Environment, deviceIndex int, ensemble guard.Ensemble) (guard.Simulation, error) {
	h, ok := system.(*HarmonicSystem)
	if !ok || h == nil {
		return nil, fmt.Errorf("enginetest: the system was not built by this engine's factory")
	}
	switch ensemble {
	case guard.NVT, guard.NVE:
	case guard.NPT:
		if env != guard.Solution {
			return nil, fmt.Errorf("enginetest: the npt ensemble needs a periodic box")
		}
	default:
		return nil, fmt.Errorf("enginetest: unknown ensemble %q", ensemble)
	}
	if h.Top.Len() != top.Len() {
		return nil, fmt.Errorf("enginetest: system and topology sizes disagree (%d vs %d)", h.Top.Len(), top.Len())
	}
	return &Simulation{
		sys:         h,
		top:         top,
		temperature: temperature,
		env:         env,
		barostat:    ensemble == guard.NPT,
	}, nil
}

//Simulation is one runnable harmonic simulation. The dynamics is a
//deterministic damped relaxation with a small bounded oscillation, which
//is enough to produce distinguishable frames without an integrator.
type Simulation struct {
	sys         *HarmonicSystem
	top         guard.Atomer
	temperature float64
	env         guard.Environment
	barostat    bool
	pos         *v3.Matrix
	step        int
	sinks       []guard.Sink
}

func (s *Simulation) SetPositions(pos *v3.Matrix) error {
	if pos == nil || pos.NVecs() != s.top.Len() {
		return fmt.Errorf("enginetest: positions do not match the topology")
	}
	s.pos = pos.Clone()
	return nil
}

//Minimize runs gradient descent until the largest per-coordinate
//gradient drops below tolerance. Non-convergence is an error.
func (s *Simulation) Minimize(tolerance float64, maxIterations int) error {
	if s.pos == nil {
		return fmt.Errorf("enginetest: no positions set")
	}
	rate := 0.45 / s.sys.forceConstant()
	for i := 0; i < maxIterations; i++ {
		g := s.sys.gradient(s.pos)
		if maxAbs(g) <= tolerance {
			return nil
		}
		g.Scale(rate, g)
		s.pos.Sub(s.pos, g)
	}
	if maxAbs(s.sys.gradient(s.pos)) > tolerance {
		return fmt.Errorf("enginetest: minimization did not converge in %d iterations", maxIterations)
	}
	return nil
}

func maxAbs(m *v3.Matrix) float64 {
	var max float64
	for i := 0; i < m.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			if a := math.Abs(m.At(i, j)); a > max {
				max = a
			}
		}
	}
	return max
}

func (s *Simulation) SetIntegratorTemperature(t float64) error {
	s.temperature = t
	return nil
}

func (s *Simulation) SetBarostatTemperature(t float64) error {
	if !s.barostat {
		return fmt.Errorf("enginetest: the simulation has no barostat")
	}
	return nil
}

func (s *Simulation) AttachSink(sink guard.Sink) {
	s.sinks = append(s.sinks, sink)
}

//Step advances the simulation n steps. Every step relaxes the geometry
//slightly toward the harmonic minimum and adds a bounded oscillation
//scaled with the thermostat temperature, then the attached sinks are
//invoked at their intervals.
func (s *Simulation) Step(n int) error {
	if s.pos == nil {
		return fmt.Errorf("enginetest: no positions set")
	}
	amplitude := 1e-4 * math.Sqrt(s.temperature)
	for i := 0; i < n; i++ {
		s.step++
		g := s.sys.gradient(s.pos)
		g.Scale(0.01/s.sys.forceConstant(), g)
		s.pos.Sub(s.pos, g)
		wiggle := amplitude * math.Sin(float64(s.step))
		for a := 0; a < s.pos.NVecs(); a++ {
			s.pos.Set(a, 0, s.pos.At(a, 0)+wiggle)
		}
		for _, sink := range s.sinks {
			if s.step%sink.Interval() != 0 {
				continue
			}
			if err := sink.Report(s.frame()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Simulation) frame() *guard.Frame {
	pe := s.sys.energy(s.pos)
	kinetic := 1.5 * kb * s.temperature * float64(s.top.Len())
	return &guard.Frame{
		Step:            s.step,
		Time:            float64(s.step) * 0.001, //1 fs steps
		Positions:       s.pos.Clone(),
		PotentialEnergy: pe,
		TotalEnergy:     pe + kinetic,
		Temperature:     s.temperature,
		Density:         s.density(),
		Speed:           100,
	}
}

//density is a nominal g/mL figure for periodic systems, zero in vacuum.
func (s *Simulation) density() float64 {
	if s.env != guard.Solution {
		return 0
	}
	return 1.0
}

func (s *Simulation) State(wantPositions, wantEnergy bool) (*guard.State, error) {
	if s.pos == nil {
		return nil, fmt.Errorf("enginetest: no positions set")
	}
	st := new(guard.State)
	if wantPositions {
		st.Positions = s.pos.Clone()
	}
	if wantEnergy {
		st.PotentialEnergy = s.sys.energy(s.pos)
	}
	return st, nil
}
