/*
 * dcd.go, part of nnpguard.
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

//Package dcd writes and reads Charmm/NAMD binary trajectories. Only
//little-endian, charmm-flavored files without fixed atoms are produced.
//A filename ending in ".zst" selects transparent zstd compression; the
//frame count in the header of a compressed file stays zero, so readers
//must rely on EOF (this package's reader does).
package dcd

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/qcmlkit/nnpguard/v3"
)

const mAXTITLE int32 = 80

//Writer is a Charmm/NAMD binary trajectory file opened for writing.
type Writer struct {
	natoms     int32
	frames     int32
	writable   bool
	filename   string
	compressed bool
	f          *os.File
	h          io.WriteCloser //f itself, or a zstd stream on top of it
	dcdFields  [][]float32
	endian     binary.ByteOrder
}

//NewWriter initializes a DCD trajectory for writing frames of natoms
//atoms each.
func NewWriter(filename string, natoms int) (*Writer, error) {
	traj := new(Writer)
	traj.natoms = int32(natoms)
	traj.compressed = strings.HasSuffix(strings.ToLower(filename), ".zst")
	if err := traj.initWrite(filename); err != nil {
		return nil, errDecorate(err, "NewWriter")
	}
	return traj, nil
}

func (D *Writer) initWrite(name string) error {
	if D.natoms == 0 {
		return Error{"the number of atoms is set to zero", name, []string{"initWrite"}, true}
	}
	D.endian = binary.LittleEndian
	D.filename = name
	var err error
	D.f, err = os.Create(name)
	if err != nil {
		return Error{err.Error(), name, []string{"os.Create", "initWrite"}, true}
	}
	D.h = D.f
	if D.compressed {
		D.h, err = zstd.NewWriter(D.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return Error{err.Error(), name, []string{"zstd.NewWriter", "initWrite"}, true}
		}
	}
	if err := D.writeHeader(); err != nil {
		return errDecorate(err, "initWrite")
	}
	D.writable = true
	return nil
}

func (D *Writer) writeHeader() error {
	bin := func(data interface{}) error {
		if err := binary.Write(D.h, D.endian, data); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "writeHeader"}, true}
		}
		return nil
	}
	if err := bin(int32(84)); err != nil {
		return err
	}
	if err := bin([]byte("CORD")); err != nil {
		return err
	}
	//frames written so far; updated after every frame on seekable files.
	if err := bin(int32(0)); err != nil {
		return err
	}
	//initial step and save interval
	if err := bin(int32(0)); err != nil {
		return err
	}
	if err := bin(int32(1)); err != nil {
		return err
	}
	//5 zeros plus natom-nfreat
	for i := 0; i < 6; i++ {
		if err := bin(int32(0)); err != nil {
			return err
		}
	}
	//delta time
	if err := bin(float32(1)); err != nil {
		return err
	}
	//no unit cell
	if err := bin(int32(0)); err != nil {
		return err
	}
	//8 zeros for charmm
	for i := 0; i < 8; i++ {
		if err := bin(int32(0)); err != nil {
			return err
		}
	}
	//charmm version
	if err := bin(int32(24)); err != nil {
		return err
	}
	if err := bin(int32(84)); err != nil {
		return err
	}
	if err := bin(int32(244)); err != nil {
		return err
	}
	//title: 2 units of mAXTITLE bytes
	var ntitle int32 = 2
	if err := bin(ntitle); err != nil {
		return err
	}
	title := make([]byte, ntitle*mAXTITLE)
	copy(title, []byte("Created by nnpguard"))
	title[len(title)-1] = byte('\000')
	if err := bin(title); err != nil {
		return err
	}
	if err := bin(int32(244)); err != nil {
		return err
	}
	if err := bin(int32(4)); err != nil {
		return err
	}
	if err := bin(D.natoms); err != nil {
		return err
	}
	return bin(int32(4))
}

//WNext writes the next frame to the trajectory. The box, if given, is
//currently ignored; the parameter exists for interface compatibility
//with other trajectory writers.
func (D *Writer) WNext(towrite *v3.Matrix, box ...[]float64) error {
	if !D.writable {
		return Error{TrajUnIniWrite, D.filename, []string{"WNext"}, true}
	}
	if towrite == nil {
		return Error{NilCoordinates, D.filename, []string{"WNext"}, true}
	}
	if int32(towrite.NVecs()) != D.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", towrite.NVecs(), D.natoms), D.filename, []string{"WNext"}, true}
	}
	if D.dcdFields == nil {
		D.dcdFields = make([][]float32, 3)
		for i := range D.dcdFields {
			D.dcdFields[i] = make([]float32, int(D.natoms))
		}
	}
	for i := 0; i < int(D.natoms); i++ {
		D.dcdFields[0][i] = float32(towrite.At(i, 0))
		D.dcdFields[1][i] = float32(towrite.At(i, 1))
		D.dcdFields[2][i] = float32(towrite.At(i, 2))
	}
	if err := D.wnextRaw(D.dcdFields); err != nil {
		return errDecorate(err, "WNext")
	}
	D.frames++
	if !D.compressed {
		if err := D.updateFrames(); err != nil {
			return errDecorate(err, "WNext")
		}
	}
	return nil
}

func (D *Writer) wnextRaw(blocks [][]float32) error {
	blocksize := int32(len(blocks[0])) * 4 //size in bytes
	for _, block := range blocks {
		if err := binary.Write(D.h, D.endian, blocksize); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
		if err := binary.Write(D.h, D.endian, block); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
		if err := binary.Write(D.h, D.endian, blocksize); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
	}
	return nil
}

//DCD requires the number of frames near the beginning of the file, so
//every write seeks back to refresh it.
func (D *Writer) updateFrames() error {
	currentoffset, err := D.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return Error{err.Error(), D.filename, []string{"Seek", "updateFrames"}, true}
	}
	//the frame count sits right after the leading blocksize and the
	//"CORD" magic.
	if _, err := D.f.Seek(8, io.SeekStart); err != nil {
		return Error{err.Error(), D.filename, []string{"Seek", "updateFrames"}, true}
	}
	if err := binary.Write(D.f, D.endian, D.frames); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "updateFrames"}, true}
	}
	if _, err := D.f.Seek(currentoffset, io.SeekStart); err != nil {
		return Error{err.Error(), D.filename, []string{"Seek", "updateFrames"}, true}
	}
	return nil
}

//Close flushes and closes the trajectory. It is safe to call on an
//already closed Writer.
func (D *Writer) Close() error {
	if !D.writable {
		return nil
	}
	D.writable = false
	if D.compressed {
		if err := D.h.Close(); err != nil {
			D.f.Close()
			return Error{err.Error(), D.filename, []string{"Close"}, true}
		}
	}
	if err := D.f.Close(); err != nil {
		return Error{err.Error(), D.filename, []string{"Close"}, true}
	}
	return nil
}
