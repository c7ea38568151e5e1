/*
 * dcd_read.go, part of nnpguard.
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

package dcd

import (
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/qcmlkit/nnpguard/v3"
)

//Reader reads back trajectories produced by Writer: little-endian
//charmm-flavored DCD, plain or zstd-compressed, no fixed atoms, no unit
//cell block.
type Reader struct {
	natoms   int32
	readable bool
	filename string
	f        *os.File
	h        io.Reader
	zr       *zstd.Decoder
	fields   [][]float32
	endian   binary.ByteOrder
}

//New opens filename for reading and parses its header.
func New(filename string) (*Reader, error) {
	R := new(Reader)
	R.filename = filename
	R.endian = binary.LittleEndian
	var err error
	R.f, err = os.Open(filename)
	if err != nil {
		return nil, Error{err.Error(), filename, []string{"os.Open", "New"}, true}
	}
	R.h = R.f
	if strings.HasSuffix(strings.ToLower(filename), ".zst") {
		R.zr, err = zstd.NewReader(R.f)
		if err != nil {
			return nil, Error{err.Error(), filename, []string{"zstd.NewReader", "New"}, true}
		}
		R.h = R.zr
	}
	if err := R.readHeader(); err != nil {
		return nil, errDecorate(err, "New")
	}
	R.readable = true
	return R, nil
}

func (R *Reader) readHeader() error {
	var i32 int32
	bin := func(data interface{}) error {
		if err := binary.Read(R.h, R.endian, data); err != nil {
			return Error{err.Error(), R.filename, []string{"binary.Read", "readHeader"}, true}
		}
		return nil
	}
	if err := bin(&i32); err != nil {
		return err
	}
	if i32 != 84 {
		return Error{WrongFormat, R.filename, []string{"readHeader"}, true}
	}
	magic := make([]byte, 4)
	if err := bin(magic); err != nil {
		return err
	}
	if string(magic) != "CORD" {
		return Error{WrongFormat, R.filename, []string{"readHeader"}, true}
	}
	//frames, initial step, interval, 6 zeros, delta, unit-cell flag,
	//8 zeros, version, trailing/leading block sizes: skip 20 int32s
	//plus the float32 delta.
	skip := make([]byte, 21*4)
	if err := bin(skip); err != nil {
		return err
	}
	if err := bin(&i32); err != nil { //leading size of the title block
		return err
	}
	var ntitle int32
	if err := bin(&ntitle); err != nil {
		return err
	}
	title := make([]byte, ntitle*mAXTITLE)
	if err := bin(title); err != nil {
		return err
	}
	if err := bin(&i32); err != nil { //trailing size of the title block
		return err
	}
	if err := bin(&i32); err != nil { //block size, always 4
		return err
	}
	if err := bin(&R.natoms); err != nil {
		return err
	}
	if err := bin(&i32); err != nil { //trailing block size
		return err
	}
	return nil
}

//Readable tells whether the trajectory is ready to be read.
func (R *Reader) Readable() bool {
	return R.readable
}

//Len returns the number of atoms per frame.
func (R *Reader) Len() int {
	return int(R.natoms)
}

//Next reads the next frame into output, which must have one row per
//atom. When the trajectory is over, Next returns an error for which
//IsLastFrame is true.
func (R *Reader) Next(output *v3.Matrix) error {
	if !R.readable {
		return Error{TrajUnIni, R.filename, []string{"Next"}, true}
	}
	if R.fields == nil {
		R.fields = make([][]float32, 3)
		for i := range R.fields {
			R.fields[i] = make([]float32, int(R.natoms))
		}
	}
	var blocksize int32
	for _, block := range R.fields {
		if err := binary.Read(R.h, R.endian, &blocksize); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return lastFrameError{R.filename}
			}
			return Error{err.Error(), R.filename, []string{"binary.Read", "Next"}, true}
		}
		if blocksize != R.natoms*4 {
			return Error{WrongFormat, R.filename, []string{"Next"}, true}
		}
		if err := binary.Read(R.h, R.endian, block); err != nil {
			return Error{err.Error(), R.filename, []string{"binary.Read", "Next"}, true}
		}
		if err := binary.Read(R.h, R.endian, &blocksize); err != nil {
			return Error{err.Error(), R.filename, []string{"binary.Read", "Next"}, true}
		}
	}
	if output == nil { //frame discarded
		return nil
	}
	if output.NVecs() != int(R.natoms) {
		return Error{NotEnoughSpace, R.filename, []string{"Next"}, true}
	}
	for i := 0; i < int(R.natoms); i++ {
		output.Set(i, 0, float64(R.fields[0][i]))
		output.Set(i, 1, float64(R.fields[1][i]))
		output.Set(i, 2, float64(R.fields[2][i]))
	}
	return nil
}

//Close releases the file. Safe to call more than once.
func (R *Reader) Close() error {
	if !R.readable {
		return nil
	}
	R.readable = false
	if R.zr != nil {
		R.zr.Close()
	}
	return R.f.Close()
}
