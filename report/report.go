/*
 * report.go, part of nnpguard.
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

//Package report turns the raw output of a stability test (a PDB
//topology, a CSV state log and a DCD trajectory sharing one base name)
//into figures: energy and temperature time series, and for aqueous
//systems an O-O radial distribution function.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/analysis"
	"github.com/qcmlkit/nnpguard/chemplot"
	"github.com/qcmlkit/nnpguard/traj/dcd"
	"github.com/qcmlkit/nnpguard/v3"
)

//StateData holds the parsed contents of a state-data CSV log, one
//slice per row, in file order.
type StateData struct {
	Columns []string
	Rows    [][]float64
}

//Column returns the values of the named column, or nil if the log does
//not have it.
func (d *StateData) Column(name string) []float64 {
	idx := -1
	for i, c := range d.Columns {
		if strings.Contains(c, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	vals := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		vals[i] = row[idx]
	}
	return vals
}

//ReadStateData parses the CSV log written by a StateDataReporter or a
//bond scan. The first record is taken as the header.
func ReadStateData(name string) (*StateData, error) {
	fin, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	records, err := csv.NewReader(fin).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("report: %s has no data rows", name)
	}
	d := &StateData{Columns: records[0]}
	for _, rec := range records[1:] {
		if len(rec) != len(d.Columns) {
			return nil, fmt.Errorf("report: %s: row has %d fields for %d columns", name, len(rec), len(d.Columns))
		}
		row := make([]float64, len(rec))
		for i, field := range rec {
			row[i], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("report: %s: %v", name, err)
			}
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}

//ReadTrajectory reads every frame of a DCD trajectory for a system of
//natoms atoms.
func ReadTrajectory(name string, natoms int) ([]*v3.Matrix, error) {
	traj, err := dcd.New(name)
	if err != nil {
		return nil, err
	}
	defer traj.Close()
	if traj.Len() != natoms {
		return nil, fmt.Errorf("report: %s holds %d atoms, topology has %d", name, traj.Len(), natoms)
	}
	var frames []*v3.Matrix
	for {
		f := v3.Zeros(natoms)
		err := traj.Next(f)
		if err != nil {
			if dcd.IsLastFrame(err) {
				break
			}
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

//Options configures Run. Zero values select an RDF out to 6 A over 50
//bins.
type Options struct {
	RMax float64
	Bins int
}

//Run reads base.pdb, base.csv and base.dcd and writes the figures next
//to them: base_energy.png and base_temperature.png when the log has
//those columns, and base_rdf.png when the system contains water.
func Run(base string, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	rmax := opts.RMax
	if rmax <= 0 {
		rmax = 6
	}
	bins := opts.Bins
	if bins <= 0 {
		bins = 50
	}
	top, coords, err := guard.PDBFileRead(base + ".pdb")
	if err != nil {
		return err
	}
	if len(top.Bonds()) == 0 {
		top.SetBonds(guessWaterBonds(top, coords))
	}
	data, err := ReadStateData(base + ".csv")
	if err != nil {
		return err
	}
	steps := data.Column("Step")
	if steps == nil {
		return fmt.Errorf("report: %s.csv has no Step column", base)
	}
	if energy := data.Column("Potential Energy"); energy != nil {
		err = chemplot.TimeSeries(steps, energy, "Potential energy [kJ/mol]",
			"Potential energy", base+"_energy.png")
		if err != nil {
			return err
		}
	}
	if temp := data.Column("Temperature"); temp != nil {
		err = chemplot.TimeSeries(steps, temp, "Temperature [K]",
			"Temperature", base+"_temperature.png")
		if err != nil {
			return err
		}
	}
	frames, err := ReadTrajectory(base+".dcd", top.Len())
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return nil
	}
	calc, err := analysis.NewPropertyCalculator(top, frames)
	if err != nil {
		return err
	}
	if len(calc.WaterBonds()) < 4 { //fewer than two waters, no RDF
		return nil
	}
	r, g, err := calc.WaterRDF(rmax, bins)
	if err != nil {
		return err
	}
	return chemplot.RDF(r, g, "Water O-O RDF", base+"_rdf.png")
}

//PDB files carry no connectivity, so O-H bonds are recovered from the
//geometry: any hydrogen within covalent range of an oxygen.
func guessWaterBonds(top *guard.Topology, coords *v3.Matrix) []guard.Bond {
	const cutoff = 1.2 //Angstrom
	bonds := []guard.Bond{}
	d := v3.Zeros(1)
	for o := 0; o < top.Len(); o++ {
		if top.Atom(o).Symbol != "O" {
			continue
		}
		for h := 0; h < top.Len(); h++ {
			if top.Atom(h).Symbol != "H" {
				continue
			}
			d.Sub(coords.VecView(o), coords.VecView(h))
			if r := d.Norm(); r <= cutoff {
				bonds = append(bonds, guard.Bond{A1: o, A2: h, Eq: r})
			}
		}
	}
	return bonds
}

//Scan reads the CSV written by a bond scan and plots the energy
//profile to base_profile.png.
func Scan(base string) error {
	data, err := ReadStateData(base + ".csv")
	if err != nil {
		return err
	}
	lengths := data.Column("bond distance")
	energies := data.Column("potential energy")
	if lengths == nil || energies == nil {
		return fmt.Errorf("report: %s.csv is not a bond scan log", base)
	}
	return chemplot.EnergyProfile(lengths, energies, "Bond scan", base+"_profile.png")
}
