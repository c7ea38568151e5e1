/*
 * testsystem.go, part of nnpguard.
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

import v3 "github.com/qcmlkit/nnpguard/v3"

//Testsystem is a topology plus an initial coordinate set describing one
//molecular configuration: a single molecule, a liquid box or a solvated
//complex.
type Testsystem struct {
	Topology  *Topology
	Positions *v3.Matrix //Angstrom
}

//TestsystemOption discriminates the different testsystem constructions a
//Builder supports. It is a sealed interface; the concrete options are
//SmallMoleculeVacuumOption, LiquidOption and SolvatedSystemOption.
type TestsystemOption interface {
	testsystemOption()
}

//SmallMoleculeVacuumOption requests a single small molecule in vacuum,
//identified by a known name, a SMILES string, or the path to an SDF
//file. Exactly one of the three should be set.
type SmallMoleculeVacuumOption struct {
	Name   string
	SMILES string
	Path   string
}

func (SmallMoleculeVacuumOption) testsystemOption() {}

//LiquidOption requests a periodic liquid box: either a waterbox with the
//given edge length (Angstrom), or NMolecules copies of the named solvent
//molecule.
type LiquidOption struct {
	Name       string
	NMolecules int
	EdgeLength float64 //Angstrom
}

func (LiquidOption) testsystemOption() {}

//SolvatedSystemOption requests the named molecule solvated in a periodic
//water box.
type SolvatedSystemOption struct {
	Name string
}

func (SolvatedSystemOption) testsystemOption() {}

//Builder constructs testsystems and molecular topologies. The
//implementation (RDKit-like construction from SMILES/SDF, waterbox
//packing, peptide solvation) is an external collaborator; this package
//only consumes the interface.
type Builder interface {

	//GenerateTestsystem builds a topology+coordinates pair for the
	//given option. A molecule that cannot be turned into a valid
	//topology yields an error.
	GenerateTestsystem(opt TestsystemOption) (*Testsystem, error)

	//MoleculeFromSDF reads only the topology (elements, bonds) from an
	//SDF file, without building a simulatable testsystem. The
	//minimization benchmark uses it for cheap suitability checks.
	MoleculeFromSDF(path string) (*Topology, error)
}
