/*
 * pdb.go, part of nnpguard.
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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/qcmlkit/nnpguard/v3"
)

//PDBFileWrite writes coords and top as a single-model PDB file. Atoms
//with empty names are written with their element symbol as the name, and
//missing residue data falls back to "UNK"/1/'A'. Coordinates are in
//Angstrom.
func PDBFileWrite(name string, coords *v3.Matrix, top Atomer) error {
	if coords == nil || top == nil || coords.NVecs() != top.Len() {
		return CError{"mismatched or missing coordinates and topology", []string{"PDBFileWrite"}}
	}
	out, err := os.Create(name)
	if err != nil {
		return errDecorate(err, "PDBFileWrite")
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	fmt.Fprint(w, "REMARK     WRITTEN WITH NNPGUARD\n")
	fmt.Fprint(w, "MODEL 0\n")
	for i := 0; i < top.Len(); i++ {
		at := top.Atom(i)
		atname := at.Name
		if atname == "" {
			atname = at.Symbol
		}
		molname := at.Molname
		if molname == "" {
			molname = "UNK"
		}
		molid := at.Molid
		if molid == 0 {
			molid = 1
		}
		chain := at.Chain
		if chain == 0 {
			chain = 'A'
		}
		if len(atname) > 4 {
			return CError{fmt.Sprintf("atom name %q too long for the PDB format", atname), []string{"PDBFileWrite"}}
		}
		format := "ATOM  %5d  %-3s %3s %1c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n"
		if len(atname) == 4 {
			format = "ATOM  %5d %4s %3s %1c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n"
		}
		_, err = fmt.Fprintf(w, format, i+1, atname, molname, chain, molid,
			coords.At(i, 0), coords.At(i, 1), coords.At(i, 2), 1.0, 0.0, at.Symbol)
		if err != nil {
			return errDecorate(err, "PDBFileWrite")
		}
	}
	fmt.Fprint(w, "ENDMDL\nEND\n")
	if err := w.Flush(); err != nil {
		return errDecorate(err, "PDBFileWrite")
	}
	return nil
}

//PDBFileRead reads the first model of a PDB file, returning the topology
//and the coordinates. Only ATOM and HETATM records are considered.
func PDBFileRead(name string) (*Topology, *v3.Matrix, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, errDecorate(err, "PDBFileRead")
	}
	defer f.Close()
	atoms := []*Atom{}
	coords := []float64{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "ENDMDL") {
			break
		}
		if !strings.HasPrefix(line, "ATOM") && !strings.HasPrefix(line, "HETATM") {
			continue
		}
		at, c, err := readPDBLine(line)
		if err != nil {
			return nil, nil, errDecorate(err, "PDBFileRead")
		}
		atoms = append(atoms, at)
		coords = append(coords, c...)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errDecorate(err, "PDBFileRead")
	}
	if len(atoms) == 0 {
		return nil, nil, CError{fmt.Sprintf("no atoms found in %s", name), []string{"PDBFileRead"}}
	}
	pos, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, errDecorate(err, "PDBFileRead")
	}
	top, err := NewTopology(atoms, 0, 0)
	if err != nil {
		return nil, nil, errDecorate(err, "PDBFileRead")
	}
	return top, pos, nil
}

func readPDBLine(line string) (*Atom, []float64, error) {
	if len(line) < 54 {
		return nil, nil, CError{fmt.Sprintf("PDB line too short: %q", line), []string{"readPDBLine"}}
	}
	at := new(Atom)
	var err error
	at.Id, err = strconv.Atoi(strings.TrimSpace(line[6:12]))
	if err != nil {
		return nil, nil, errDecorate(err, "readPDBLine")
	}
	at.Name = strings.TrimSpace(line[12:16])
	at.Molname = strings.TrimSpace(line[17:20])
	at.Chain = line[21]
	at.Molid, err = strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return nil, nil, errDecorate(err, "readPDBLine")
	}
	c := make([]float64, 3)
	for j := 0; j < 3; j++ {
		c[j], err = strconv.ParseFloat(strings.TrimSpace(line[30+8*j:38+8*j]), 64)
		if err != nil {
			return nil, nil, errDecorate(err, "readPDBLine")
		}
	}
	if len(line) >= 78 {
		at.Symbol = strings.TrimSpace(line[76:78])
	}
	if at.Symbol == "" && at.Name != "" {
		//fall back on the first letter of the atom name.
		at.Symbol = at.Name[:1]
	}
	at.Mass = symbolMass[at.Symbol]
	at.Z = symbolZ[at.Symbol]
	return at, c, nil
}
