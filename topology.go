/*
 * topology.go, part of nnpguard.
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

//Atom contains the properties of one atom, except for the coordinates,
//which live in a v3.Matrix, one row per atom.
type Atom struct {
	Name    string //PDB-style atom name, e.g. "OW" or "CA"
	Id      int
	Molname string //residue name, e.g. "HOH" or "ALA"
	Molid   int
	Chain   byte
	Mass    float64
	Symbol  string
	Z       int //atomic number
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	newat := *A
	return &newat
}

//Heavy tells whether the atom is not a hydrogen.
func (A *Atom) Heavy() bool {
	return A.Z != 1
}

//Bond is a covalent bond between the atoms with indexes A1 and A2, with
//equilibrium distance Eq, in Angstrom.
type Bond struct {
	A1, A2 int
	Eq     float64
}

//Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i.
	//Should panic if out of range.
	Atom(i int) *Atom

	Len() int
}

//Bonded is implemented by topologies that know their covalent bonds.
//Engines that need connectivity (and the analysis package) type-assert
//for it.
type Bonded interface {
	Bonds() []Bond
}

//Topology contains the information about a molecular system which is not
//expected to change during a simulation, i.e. everything except for the
//coordinates.
type Topology struct {
	Atoms    []*Atom
	bonds    []Bond
	charge   int
	unpaired int
}

//NewTopology makes a topology from the given atoms, charge and number of
//unpaired electrons. It returns an error if ats is nil. It doesn't check
//for consistency of charge or unpaired electrons.
func NewTopology(ats []*Atom, charge, unpaired int) (*Topology, error) {
	if ats == nil {
		return nil, CError{"Supplied a nil atom slice", []string{"NewTopology"}}
	}
	top := new(Topology)
	top.Atoms = ats
	top.charge = charge
	top.unpaired = unpaired
	return top, nil
}

//Atom returns the atom with index i. It panics if the index is out of
//range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic(fmt.Sprintf("Requested atom %d out of %d", i, T.Len()))
	}
	return T.Atoms[i]
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

//Charge gets the total charge of the topology.
func (T *Topology) Charge() int {
	return T.charge
}

//Unpaired gets the number of unpaired electrons in the topology.
func (T *Topology) Unpaired() int {
	return T.unpaired
}

//Bonds returns the covalent bonds of the topology, which can be empty.
func (T *Topology) Bonds() []Bond {
	return T.bonds
}

//SetBonds replaces the covalent bonds of the topology.
func (T *Topology) SetBonds(b []Bond) {
	T.bonds = b
}

//Masses returns a slice with the massess of all atoms in the topology.
//Atoms with a zero mass get it assigned from their symbol, when known.
func (T *Topology) Masses() ([]float64, error) {
	m := make([]float64, T.Len())
	for i, at := range T.Atoms {
		m[i] = at.Mass
		if m[i] == 0 {
			m[i] = symbolMass[at.Symbol]
		}
		if m[i] == 0 {
			return nil, CError{fmt.Sprintf("no mass for atom %d (%s)", i, at.Symbol), []string{"Masses"}}
		}
	}
	return m, nil
}

//HeavyAtoms returns the number of non-hydrogen atoms in the topology.
func HeavyAtoms(top Atomer) int {
	heavy := 0
	for i := 0; i < top.Len(); i++ {
		if top.Atom(i).Heavy() {
			heavy++
		}
	}
	return heavy
}

//A map for assigning masses to elements. Just the elements an NNP is
//likely to see are present.
var symbolMass = map[string]float64{
	"H":  1.008,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"F":  18.998,
	"P":  30.974,
	"S":  32.06,
	"Cl": 35.45,
	"Br": 79.904,
	"I":  126.90,
}

//A map from element symbols to atomic numbers, same coverage as
//symbolMass.
var symbolZ = map[string]int{
	"H":  1,
	"C":  6,
	"N":  7,
	"O":  8,
	"F":  9,
	"P":  15,
	"S":  16,
	"Cl": 17,
	"Br": 35,
	"I":  53,
}

//AtomicNumber returns the atomic number of at, deriving it from the
//symbol if the Z field is unset.
func AtomicNumber(at *Atom) int {
	if at.Z != 0 {
		return at.Z
	}
	return symbolZ[at.Symbol]
}
