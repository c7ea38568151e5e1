/*
 * dof.go, part of nnpguard.
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
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/qcmlkit/nnpguard/v3"
	"gonum.org/v1/gonum/floats"
)

//bondScanSamples is the number of bond lengths sampled along a scan,
//linearly spaced from the unstretched geometry to the maximum stretch.
const bondScanSamples = 100

//BondProfileProtocol samples the potential energy along the stretch of
//one bond. No dynamics is run: each sample repositions one atom along
//the original bond direction and evaluates the energy there.
type BondProfileProtocol struct {
	stabilityTest
}

//NewBondProfileProtocol returns a BondProfileProtocol running on the
//given engine. A nil logger selects slog.Default().
func NewBondProfileProtocol(engine Engine, log *slog.Logger) *BondProfileProtocol {
	return &BondProfileProtocol{newStabilityTest(engine, log)}
}

//PerformScan runs the bond scan described by parms. It writes the
//unmodified starting structure as a PDB, one trajectory frame per
//sampled length, and a CSV with the bond distance and potential energy
//of every sample.
func (B *BondProfileProtocol) PerformScan(parms *DOFTestParameters) error {
	if err := parms.validate(); err != nil {
		return err
	}
	spec := setupSpec{
		system:      parms.System,
		testsystem:  parms.Testsystem,
		platform:    parms.Platform,
		temperature: 300,
		env:         Vacuum,
		deviceIndex: parms.DeviceIndex,
		ensemble:    NVT,
	}
	sim, err := B.setupSimulation(spec, DefaultConvergenceCriteria, false)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(parms.OutputFolder, 0755); err != nil {
		return errDecorate(err, "PerformScan")
	}
	base := filepath.Join(parms.OutputFolder, parms.LogFileName)
	if err := PDBFileWrite(base+".pdb", parms.Testsystem.Positions, parms.Testsystem.Topology); err != nil {
		return errDecorate(err, "PerformScan")
	}
	lengths, energies, frames, err := B.performScan(sim, parms)
	if err != nil {
		return err
	}
	traj, err := NewDCDSink(base+".dcd", parms.Testsystem.Topology.Len(), 1)
	if err != nil {
		return errDecorate(err, "PerformScan")
	}
	for i, f := range frames {
		if err := traj.Report(&Frame{Step: i, Positions: f}); err != nil {
			traj.Close()
			return errDecorate(err, "PerformScan")
		}
	}
	if err := traj.Close(); err != nil {
		return errDecorate(err, "PerformScan")
	}
	return writeScanCSV(base+".csv", lengths, energies)
}

//performScan evaluates the energy at every sampled bond length. The
//displaced atom is always repositioned from the original geometry, so
//the samples are independent and the scan direction never drifts.
func (B *BondProfileProtocol) performScan(sim Simulation, parms *DOFTestParameters) ([]float64, []float64, []*v3.Matrix, error) {
	orig := parms.Testsystem.Positions
	a1, a2 := parms.Bond[0], parms.Bond[1]
	axis := v3.Zeros(1)
	axis.Sub(orig.VecView(a2), orig.VecView(a1))
	if err := axis.Unit(axis); err != nil {
		return nil, nil, nil, errDecorate(err, "performScan")
	}
	lengths := make([]float64, bondScanSamples)
	floats.Span(lengths, 0, parms.BondLengthMax)

	energies := make([]float64, 0, bondScanSamples)
	frames := make([]*v3.Matrix, 0, bondScanSamples)
	displaced := v3.Zeros(1)
	for _, length := range lengths {
		pos := orig.Clone()
		displaced.Scale(length, axis)
		displaced.Add(displaced, orig.VecView(a1))
		pos.VecView(a2).Dense.Copy(displaced.Dense)
		if err := sim.SetPositions(pos); err != nil {
			return nil, nil, nil, errDecorate(err, "performScan")
		}
		state, err := sim.State(false, true)
		if err != nil {
			return nil, nil, nil, errDecorate(err, "performScan")
		}
		energies = append(energies, state.PotentialEnergy)
		frames = append(frames, pos)
	}
	return lengths, energies, frames, nil
}

func writeScanCSV(name string, lengths, energies []float64) error {
	f, err := os.Create(name)
	if err != nil {
		return errDecorate(err, "writeScanCSV")
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"bond distance [A]", "potential energy [kJ/mol]"}); err != nil {
		return errDecorate(err, "writeScanCSV")
	}
	for i := range lengths {
		if err := w.Write([]string{ffmt(lengths[i]), ffmt(energies[i])}); err != nil {
			return errDecorate(err, "writeScanCSV")
		}
	}
	w.Flush()
	return w.Error()
}
