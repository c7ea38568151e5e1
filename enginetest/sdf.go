/*
 * sdf.go, part of nnpguard.
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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/v3"
)

//readSDF parses the first molecule of an SDF/MOL file (V2000 connection
//table): atom symbols, coordinates and bonds.
func readSDF(path string) ([]string, []float64, [][2]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lines := []string{}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "M  END") || line == "$$$$" {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, err
	}
	if len(lines) < 4 {
		return nil, nil, nil, fmt.Errorf("enginetest: %s is not a valid SDF file", path)
	}
	counts := lines[3]
	if len(counts) < 6 {
		return nil, nil, nil, fmt.Errorf("enginetest: malformed counts line in %s", path)
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(counts[0:3]))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("enginetest: malformed counts line in %s", path)
	}
	nbonds, err := strconv.Atoi(strings.TrimSpace(counts[3:6]))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("enginetest: malformed counts line in %s", path)
	}
	if len(lines) < 4+natoms+nbonds {
		return nil, nil, nil, fmt.Errorf("enginetest: truncated SDF file %s", path)
	}
	symbols := make([]string, 0, natoms)
	coords := make([]float64, 0, 3*natoms)
	for _, line := range lines[4 : 4+natoms] {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, nil, nil, fmt.Errorf("enginetest: malformed atom line in %s: %q", path, line)
		}
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("enginetest: malformed atom line in %s: %q", path, line)
			}
			coords = append(coords, v)
		}
		symbols = append(symbols, fields[3])
	}
	bonds := make([][2]int, 0, nbonds)
	for _, line := range lines[4+natoms : 4+natoms+nbonds] {
		if len(line) < 6 {
			return nil, nil, nil, fmt.Errorf("enginetest: malformed bond line in %s: %q", path, line)
		}
		a1, err1 := strconv.Atoi(strings.TrimSpace(line[0:3]))
		a2, err2 := strconv.Atoi(strings.TrimSpace(line[3:6]))
		if err1 != nil || err2 != nil || a1 < 1 || a2 < 1 || a1 > natoms || a2 > natoms {
			return nil, nil, nil, fmt.Errorf("enginetest: malformed bond line in %s: %q", path, line)
		}
		bonds = append(bonds, [2]int{a1 - 1, a2 - 1})
	}
	return symbols, coords, bonds, nil
}

func topologyFromSDF(symbols []string, coords []float64, pairs [][2]int) (*guard.Topology, *v3.Matrix, error) {
	atoms := make([]*guard.Atom, len(symbols))
	for i, s := range symbols {
		at := &guard.Atom{
			Name:    fmt.Sprintf("%s%d", s, i+1),
			Id:      i + 1,
			Molname: "LIG",
			Molid:   1,
			Chain:   'A',
			Symbol:  s,
		}
		at.Z = guard.AtomicNumber(at)
		atoms[i] = at
	}
	pos, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, err
	}
	top, err := guard.NewTopology(atoms, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	top.SetBonds(bondsWithEq(pairs, pos))
	return top, pos, nil
}

//MoleculeFromSDF reads the topology of the first molecule in an SDF
//file. Bond equilibrium lengths are taken from the file's geometry.
func (Builder) MoleculeFromSDF(path string) (*guard.Topology, error) {
	symbols, coords, pairs, err := readSDF(path)
	if err != nil {
		return nil, err
	}
	top, _, err := topologyFromSDF(symbols, coords, pairs)
	return top, err
}

func testsystemFromSDF(path string) (*guard.Testsystem, error) {
	symbols, coords, pairs, err := readSDF(path)
	if err != nil {
		return nil, err
	}
	top, pos, err := topologyFromSDF(symbols, coords, pairs)
	if err != nil {
		return nil, err
	}
	return &guard.Testsystem{Topology: top, Positions: pos}, nil
}
