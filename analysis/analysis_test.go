/*
 * analysis_test.go, part of nnpguard.
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

package analysis

import (
	"math"
	"testing"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/enginetest"
	"github.com/qcmlkit/nnpguard/v3"
)

func waterTrajectory(Te *testing.T, nframes int) (*guard.Topology, []*v3.Matrix) {
	Te.Helper()
	var b enginetest.Builder
	ts, err := b.GenerateTestsystem(guard.LiquidOption{Name: "water", NMolecules: 8})
	if err != nil {
		Te.Fatal(err)
	}
	frames := make([]*v3.Matrix, nframes)
	for i := range frames {
		frames[i] = ts.Positions.Clone()
	}
	return ts.Topology, frames
}

func TestPropertyCalculatorRejectsMismatch(Te *testing.T) {
	top, frames := waterTrajectory(Te, 1)
	if _, err := NewPropertyCalculator(top, []*v3.Matrix{v3.Zeros(top.Len() + 1)}); err == nil {
		Te.Error("a frame with the wrong row count should be rejected")
	}
	if _, err := NewPropertyCalculator(top, frames); err != nil {
		Te.Error(err)
	}
}

func TestWaterBondLengths(Te *testing.T) {
	top, frames := waterTrajectory(Te, 3)
	p, err := NewPropertyCalculator(top, frames)
	if err != nil {
		Te.Fatal(err)
	}
	bonds := p.WaterBonds()
	if len(bonds) != 16 { //two O-H bonds per water
		Te.Fatalf("got %d O-H bonds for 8 waters, want 16", len(bonds))
	}
	lengths, err := p.WaterBondLengths()
	if err != nil {
		Te.Fatal(err)
	}
	if len(lengths) != 16*3 {
		Te.Fatalf("got %d lengths, want %d", len(lengths), 16*3)
	}
	for _, l := range lengths {
		if math.Abs(l-0.9572) > 0.01 {
			Te.Fatalf("unexpected O-H length %.4f", l)
		}
	}
}

func TestWaterAngles(Te *testing.T) {
	top, frames := waterTrajectory(Te, 2)
	p, err := NewPropertyCalculator(top, frames)
	if err != nil {
		Te.Fatal(err)
	}
	angles := p.WaterAngles()
	if len(angles) != 8*2 {
		Te.Fatalf("got %d angles, want 16", len(angles))
	}
	for _, a := range angles {
		if math.Abs(a-104.5) > 1.5 {
			Te.Fatalf("unexpected H-O-H angle %.2f", a)
		}
	}
}

func TestWaterRDF(Te *testing.T) {
	top, frames := waterTrajectory(Te, 1)
	p, err := NewPropertyCalculator(top, frames)
	if err != nil {
		Te.Fatal(err)
	}
	mids, g, err := p.WaterRDF(6, 30)
	if err != nil {
		Te.Fatal(err)
	}
	if len(mids) != 30 || len(g) != 30 {
		Te.Fatalf("got %d/%d bins, want 30", len(mids), len(g))
	}
	if !sorted(mids) {
		Te.Error("bin midpoints are not increasing")
	}
	//the grid spacing is 3.1 A, so there must be signal near it and
	//none below 2 A.
	var nearSpacing, below float64
	for i, m := range mids {
		if m < 2 {
			below += g[i]
		}
		if m > 2.9 && m < 3.3 {
			nearSpacing += g[i]
		}
	}
	if below != 0 {
		Te.Error("g(r) should vanish below 2 A for grid-packed water")
	}
	if nearSpacing == 0 {
		Te.Error("g(r) should peak near the 3.1 A grid spacing")
	}
}

func sorted(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return false
		}
	}
	return true
}

func TestAngleDegrees(Te *testing.T) {
	f, err := v3.NewMatrix([]float64{1, 0, 0, 0, 0, 0, 0, 1, 0})
	if err != nil {
		Te.Fatal(err)
	}
	if a := Angle(f, 0, 1, 2); math.Abs(a-90) > 1e-9 {
		Te.Errorf("right angle measured as %.4f", a)
	}
}
