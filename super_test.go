/*
 * super_test.go, part of nnpguard.
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

package guard_test

import (
	"math"
	"testing"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/v3"
	"gonum.org/v1/gonum/mat"
)

//rotateTranslate returns A rotated around z by angle (radians) and
//shifted by (dx, dy, dz).
func rotateTranslate(A *v3.Matrix, angle, dx, dy, dz float64) *v3.Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	rot := mat.NewDense(3, 3, []float64{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	})
	out := v3.Zeros(A.NVecs())
	out.Mul(A, rot)
	shift, _ := v3.NewMatrix([]float64{dx, dy, dz})
	out.AddVec(out, shift)
	return out
}

func TestSuperRecoversRigidTransform(Te *testing.T) {
	templa, err := v3.NewMatrix([]float64{
		0, 0, 0,
		1.5, 0, 0,
		2.1, 1.3, 0,
		2.9, 1.8, 1.1,
		-0.4, 0.9, -0.7,
	})
	if err != nil {
		Te.Fatal(err)
	}
	test := rotateTranslate(templa, 0.8, 3, -2, 5)

	before, err := guard.RMSD(test, templa)
	if err != nil {
		Te.Fatal(err)
	}
	if before < 1 {
		Te.Fatalf("the transformed copy should start far away, RMSD %.4f", before)
	}
	after, err := guard.SuperRMSD(test, templa)
	if err != nil {
		Te.Fatal(err)
	}
	if after > 1e-8 {
		Te.Errorf("superposition of a rigid transform should be exact, RMSD %g", after)
	}
	//the input must not be modified
	if r, _ := guard.RMSD(test, templa); math.Abs(r-before) > 1e-12 {
		Te.Error("Super modified its input")
	}
}

func TestSuperRejectsMismatchedSizes(Te *testing.T) {
	a := v3.Zeros(3)
	b := v3.Zeros(4)
	if _, err := guard.Super(a, b); err == nil {
		Te.Error("mismatched sizes should be an error")
	}
	if _, err := guard.RMSD(a, b); err == nil {
		Te.Error("mismatched sizes should be an error")
	}
}

func TestRMSDOfIdentical(Te *testing.T) {
	a, err := v3.NewMatrix([]float64{0, 0, 0, 1, 1, 1})
	if err != nil {
		Te.Fatal(err)
	}
	r, err := guard.RMSD(a, a.Clone())
	if err != nil {
		Te.Fatal(err)
	}
	if r != 0 {
		Te.Errorf("RMSD of identical structures is %g, want 0", r)
	}
}
