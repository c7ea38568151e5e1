/*
 * doc.go, part of nnpguard.
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

//Package guard orchestrates molecular-dynamics stability tests for
//neural-network potentials (NNPs). It drives energy minimizations,
//constant-temperature and constant-pressure propagations, multi-temperature
//sweeps, simulated annealing, bond-length scans and a minimization
//benchmark over bulk molecule datasets, writing PDB/DCD/CSV outputs along
//the way. The actual physics (force evaluation, integration, barostats)
//and molecule construction from SMILES/SDF live behind the Engine,
//SystemFactory and Builder interfaces; package enginetest provides
//reference in-memory implementations for testing and dry runs.
package guard
