/*
 * dcd_test.go, part of nnpguard.
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
	"math"
	"path/filepath"
	"testing"

	v3 "github.com/qcmlkit/nnpguard/v3"
)

func testFrames(nframes, natoms int) []*v3.Matrix {
	frames := make([]*v3.Matrix, 0, nframes)
	for f := 0; f < nframes; f++ {
		m := v3.Zeros(natoms)
		for i := 0; i < natoms; i++ {
			m.Set(i, 0, float64(f)+0.25)
			m.Set(i, 1, float64(i))
			m.Set(i, 2, -1.5*float64(f*i))
		}
		frames = append(frames, m)
	}
	return frames
}

func writeRead(Te *testing.T, name string) {
	const natoms = 5
	frames := testFrames(3, natoms)
	w, err := NewWriter(name, natoms)
	if err != nil {
		Te.Fatal(err)
	}
	for _, f := range frames {
		if err := w.WNext(f); err != nil {
			Te.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
	r, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	if r.Len() != natoms {
		Te.Fatalf("expected %d atoms per frame, got %d", natoms, r.Len())
	}
	got := v3.Zeros(natoms)
	read := 0
	for {
		err := r.Next(got)
		if err != nil {
			if !IsLastFrame(err) {
				Te.Fatal(err)
			}
			break
		}
		want := frames[read]
		for i := 0; i < natoms; i++ {
			for j := 0; j < 3; j++ {
				//DCD stores float32, so the round trip loses precision
				if math.Abs(got.At(i, j)-want.At(i, j)) > 1e-5 {
					Te.Errorf("frame %d atom %d coord %d: got %f want %f", read, i, j, got.At(i, j), want.At(i, j))
				}
			}
		}
		read++
	}
	if read != len(frames) {
		Te.Errorf("wrote %d frames but read %d", len(frames), read)
	}
}

func TestWriteReadRoundTrip(Te *testing.T) {
	writeRead(Te, filepath.Join(Te.TempDir(), "test.dcd"))
}

func TestWriteReadCompressed(Te *testing.T) {
	writeRead(Te, filepath.Join(Te.TempDir(), "test.dcd.zst"))
}

func TestWNextRejectsBadInput(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bad.dcd")
	w, err := NewWriter(name, 4)
	if err != nil {
		Te.Fatal(err)
	}
	defer w.Close()
	if err := w.WNext(nil); err == nil {
		Te.Error("expected an error for nil coordinates")
	}
	if err := w.WNext(v3.Zeros(3)); err == nil {
		Te.Error("expected an error for mismatched atom count")
	}
}
