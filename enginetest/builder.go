/*
 * builder.go, part of nnpguard.
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

package enginetest

import (
	"fmt"
	"math"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/v3"
)

//template is a molecule the builder knows how to produce: symbols,
//coordinates (Angstrom, row per atom) and bonds as index pairs. The
//template geometry is the equilibrium geometry of the harmonic
//potential, since bond equilibrium lengths are measured from it.
type template struct {
	name    string
	symbols []string
	coords  []float64
	bonds   [][2]int
}

var templates = map[string]template{
	"diatomic": {
		name:    "diatomic",
		symbols: []string{"H", "H"},
		coords:  []float64{0, 0, 0, 0.74, 0, 0},
		bonds:   [][2]int{{0, 1}},
	},
	"water": {
		name:    "water",
		symbols: []string{"O", "H", "H"},
		coords: []float64{
			0, 0, 0,
			0.9572, 0, 0,
			-0.2396, 0.9266, 0,
		},
		bonds: [][2]int{{0, 1}, {0, 2}},
	},
	"methane": {
		name:    "methane",
		symbols: []string{"C", "H", "H", "H", "H"},
		coords: []float64{
			0, 0, 0,
			0.629, 0.629, 0.629,
			-0.629, -0.629, 0.629,
			-0.629, 0.629, -0.629,
			0.629, -0.629, -0.629,
		},
		bonds: [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}},
	},
	"ethane": {
		name:    "ethane",
		symbols: []string{"C", "C", "H", "H", "H", "H", "H", "H"},
		coords: []float64{
			0, 0, 0,
			1.54, 0, 0,
			-0.39, 0.96, 0.29,
			-0.39, -0.72, 0.68,
			-0.39, -0.24, -0.97,
			1.93, 0.24, 0.97,
			1.93, 0.72, -0.68,
			1.93, -0.96, -0.29,
		},
		bonds: [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 5}, {1, 6}, {1, 7}},
	},
	"ethanol": {
		name:    "ethanol",
		symbols: []string{"C", "C", "O", "H", "H", "H", "H", "H", "H"},
		coords: []float64{
			0, 0, 0,
			1.51, 0, 0,
			2.02, 1.29, 0,
			-0.38, 0.49, 0.90,
			-0.38, 0.49, -0.90,
			-0.38, -1.03, 0,
			1.89, -0.52, 0.89,
			1.89, -0.52, -0.89,
			2.98, 1.24, 0,
		},
		bonds: [][2]int{{0, 1}, {1, 2}, {0, 3}, {0, 4}, {0, 5}, {1, 6}, {1, 7}, {2, 8}},
	},
	"ala_dipeptide": {
		name: "ala_dipeptide",
		symbols: []string{
			"C", "H", "H", "H", "C", "O", //acetyl cap
			"N", "H", "C", "H", "C", "H", "H", "H", "C", "O", //alanine
			"N", "H", "C", "H", "H", "H", //N-methyl cap
		},
		coords: []float64{
			0, 0, 0,
			-0.51, 0.89, 0.36,
			-0.51, -0.89, 0.36,
			0, 0, -1.09,
			1.45, 0, 0.45,
			2.05, 1.02, 0.70,
			2.05, -1.20, 0.55,
			1.55, -2.04, 0.33,
			3.45, -1.31, 0.95,
			3.52, -1.05, 2.00,
			4.01, -2.72, 0.75,
			3.42, -3.46, 1.28,
			5.03, -2.77, 1.11,
			4.00, -2.98, -0.29,
			4.27, -0.33, 0.13,
			3.80, 0.52, -0.61,
			5.55, -0.47, 0.45,
			5.90, -1.20, 1.04,
			6.52, 0.45, 0.01,
			6.20, 1.45, 0.29,
			7.49, 0.22, 0.45,
			6.58, 0.41, -1.08,
		},
		bonds: [][2]int{
			{0, 1}, {0, 2}, {0, 3}, {0, 4}, {4, 5}, {4, 6},
			{6, 7}, {6, 8}, {8, 9}, {8, 10}, {10, 11}, {10, 12}, {10, 13},
			{8, 14}, {14, 15}, {14, 16},
			{16, 17}, {16, 18}, {18, 19}, {18, 20}, {18, 21},
		},
	},
}

//smiles maps the SMILES strings the builder recognizes to template
//names. This is a lookup, not a SMILES parser.
var smiles = map[string]string{
	"[HH]": "diatomic",
	"O":    "water",
	"C":    "methane",
	"CC":   "ethane",
	"CCO":  "ethanol",
}

//Builder implements guard.Builder with the template molecules above.
type Builder struct{}

func (t template) testsystem(molid int) (*guard.Testsystem, error) {
	atoms := make([]*guard.Atom, len(t.symbols))
	for i, s := range t.symbols {
		at := &guard.Atom{
			Name:    fmt.Sprintf("%s%d", s, i+1),
			Id:      i + 1,
			Molname: "LIG",
			Molid:   molid,
			Chain:   'A',
			Symbol:  s,
		}
		at.Z = guard.AtomicNumber(at)
		atoms[i] = at
	}
	pos, err := v3.NewMatrix(append([]float64{}, t.coords...))
	if err != nil {
		return nil, err
	}
	top, err := guard.NewTopology(atoms, 0, 0)
	if err != nil {
		return nil, err
	}
	top.SetBonds(bondsWithEq(t.bonds, pos))
	return &guard.Testsystem{Topology: top, Positions: pos}, nil
}

//bondsWithEq turns index pairs into bonds whose equilibrium length is
//the distance in pos.
func bondsWithEq(pairs [][2]int, pos *v3.Matrix) []guard.Bond {
	bonds := make([]guard.Bond, len(pairs))
	d := v3.Zeros(1)
	for i, p := range pairs {
		d.Sub(pos.VecView(p[1]), pos.VecView(p[0]))
		bonds[i] = guard.Bond{A1: p[0], A2: p[1], Eq: d.Norm()}
	}
	return bonds
}

//GenerateTestsystem builds the topology and coordinates for opt.
func (Builder) GenerateTestsystem(opt guard.TestsystemOption) (*guard.Testsystem, error) {
	switch o := opt.(type) {
	case guard.SmallMoleculeVacuumOption:
		return smallMolecule(o)
	case guard.LiquidOption:
		return liquid(o)
	case guard.SolvatedSystemOption:
		return solvated(o)
	}
	return nil, fmt.Errorf("enginetest: unknown testsystem option %T", opt)
}

func smallMolecule(o guard.SmallMoleculeVacuumOption) (*guard.Testsystem, error) {
	if o.Path != "" {
		return testsystemFromSDF(o.Path)
	}
	name := o.Name
	if o.SMILES != "" {
		mapped, ok := smiles[o.SMILES]
		if !ok {
			return nil, fmt.Errorf("enginetest: unknown SMILES %q", o.SMILES)
		}
		name = mapped
	}
	t, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("enginetest: unknown molecule %q", name)
	}
	return t.testsystem(1)
}

//liquid builds a periodic box of copies of one template molecule placed
//on a cubic grid. A waterbox can be requested by edge length instead of
//molecule count.
func liquid(o guard.LiquidOption) (*guard.Testsystem, error) {
	t, ok := templates[o.Name]
	if !ok {
		return nil, fmt.Errorf("enginetest: unknown solvent %q", o.Name)
	}
	const spacing = 3.1 //Angstrom between molecule origins
	n := o.NMolecules
	if n == 0 {
		if o.EdgeLength <= 0 {
			return nil, fmt.Errorf("enginetest: a liquid needs a molecule count or an edge length")
		}
		side := int(o.EdgeLength / spacing)
		if side < 1 {
			side = 1
		}
		n = side * side * side
	}
	return packMolecules(t, n, spacing, nil)
}

//solvated builds the named molecule surrounded by a grid of waters.
func solvated(o guard.SolvatedSystemOption) (*guard.Testsystem, error) {
	t, ok := templates[o.Name]
	if !ok {
		return nil, fmt.Errorf("enginetest: unknown molecule %q", o.Name)
	}
	solute, err := t.testsystem(1)
	if err != nil {
		return nil, err
	}
	const nwaters = 26 //a 3x3x3 shell minus the solute cell
	return packMolecules(templates["water"], nwaters, 4.2, solute)
}

//packMolecules places n copies of t on a cubic grid, optionally around
//an existing solute whose central cell is left empty.
func packMolecules(t template, n int, spacing float64, solute *guard.Testsystem) (*guard.Testsystem, error) {
	atoms := []*guard.Atom{}
	coords := []float64{}
	bonds := []guard.Bond{}
	molid := 0
	if solute != nil {
		molid = 1
		for i := 0; i < solute.Topology.Len(); i++ {
			atoms = append(atoms, solute.Topology.Atom(i))
		}
		coords = append(coords, v3.Matrix2Dense(solute.Positions).RawMatrix().Data...)
		bonds = append(bonds, solute.Topology.Bonds()...)
	}
	side := int(math.Ceil(math.Cbrt(float64(n))))
	center := float64(side-1) * spacing / 2
	placed := 0
grid:
	for ix := 0; ix < side; ix++ {
		for iy := 0; iy < side; iy++ {
			for iz := 0; iz < side; iz++ {
				if placed >= n {
					break grid
				}
				ox := float64(ix)*spacing - center
				oy := float64(iy)*spacing - center
				oz := float64(iz)*spacing - center
				if solute != nil && ox == 0 && oy == 0 && oz == 0 {
					continue //keep the solute cell empty
				}
				offset := len(atoms)
				ts, err := t.testsystem(molid + placed + 1)
				if err != nil {
					return nil, err
				}
				for i := 0; i < ts.Topology.Len(); i++ {
					atoms = append(atoms, ts.Topology.Atom(i))
					coords = append(coords,
						ts.Positions.At(i, 0)+ox,
						ts.Positions.At(i, 1)+oy,
						ts.Positions.At(i, 2)+oz)
				}
				for _, b := range ts.Topology.Bonds() {
					bonds = append(bonds, guard.Bond{A1: b.A1 + offset, A2: b.A2 + offset, Eq: b.Eq})
				}
				placed++
			}
		}
	}
	pos, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, err
	}
	top, err := guard.NewTopology(atoms, 0, 0)
	if err != nil {
		return nil, err
	}
	top.SetBonds(bonds)
	return &guard.Testsystem{Topology: top, Positions: pos}, nil
}
