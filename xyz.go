/*
 * xyz.go, part of nnpguard.
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

//XYZRead reads an XYZ file and returns the coordinates, in Angstrom, and
//the element symbols, in file order. Only the first frame of a
//multi-frame file is read.
func XYZRead(name string) (*v3.Matrix, []string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, errDecorate(err, "XYZRead")
	}
	defer f.Close()
	r := bufio.NewReader(f)
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, nil, CError{fmt.Sprintf("ill-formatted XYZ file %s", name), []string{"XYZRead"}}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, nil, CError{fmt.Sprintf("ill-formatted XYZ file %s", name), []string{"XYZRead"}}
	}
	if _, err := r.ReadString('\n'); err != nil { //comment line
		return nil, nil, CError{fmt.Sprintf("ill-formatted XYZ file %s", name), []string{"XYZRead"}}
	}
	coords := make([]float64, 0, 3*natoms)
	symbols := make([]string, 0, natoms)
	for i := 0; i < natoms; i++ {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return nil, nil, CError{fmt.Sprintf("XYZ file %s ends at atom %d of %d", name, i, natoms), []string{"XYZRead"}}
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, nil, CError{fmt.Sprintf("line %d of XYZ file %s ill-formed", i+3, name), []string{"XYZRead"}}
		}
		symbols = append(symbols, fields[0])
		for j := 1; j <= 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, nil, errDecorate(err, "XYZRead")
			}
			coords = append(coords, v)
		}
	}
	pos, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, errDecorate(err, "XYZRead")
	}
	return pos, symbols, nil
}

//XYZWrite writes coords and symbols as an XYZ file with the given
//comment on the second line.
func XYZWrite(name string, coords *v3.Matrix, symbols []string, comment string) error {
	if coords == nil || coords.NVecs() != len(symbols) {
		return CError{"mismatched or missing coordinates and symbols", []string{"XYZWrite"}}
	}
	f, err := os.Create(name)
	if err != nil {
		return errDecorate(err, "XYZWrite")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%d\n%s\n", len(symbols), comment)
	for i, s := range symbols {
		fmt.Fprintf(w, "%-2s %12.6f %12.6f %12.6f\n", s, coords.At(i, 0), coords.At(i, 1), coords.At(i, 2))
	}
	if err := w.Flush(); err != nil {
		return errDecorate(err, "XYZWrite")
	}
	return nil
}
