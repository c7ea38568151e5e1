/*
 * v3_test.go, part of nnpguard.
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

package v3

import (
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 0, 0, 0, 2, 0, 0, 0, 3})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 3 {
		Te.Errorf("expected 3 vectors, got %d", A.NVecs())
	}
	if _, err := NewMatrix([]float64{1, 2, 3, 4}); err == nil {
		Te.Error("expected error for slice not divisible by 3")
	}
}

func TestVecViewAliasesMatrix(Te *testing.T) {
	A := Zeros(2)
	v := A.VecView(1)
	v.Set(0, 2, 4.5)
	if A.At(1, 2) != 4.5 {
		Te.Error("VecView does not alias the original matrix")
	}
}

func TestUnit(Te *testing.T) {
	a, _ := NewMatrix([]float64{3, 4, 0})
	u := Zeros(1)
	if err := u.Unit(a); err != nil {
		Te.Fatal(err)
	}
	if math.Abs(u.Norm()-1) > 1e-12 {
		Te.Errorf("unit vector has norm %f", u.Norm())
	}
	if math.Abs(u.At(0, 0)-0.6) > 1e-12 || math.Abs(u.At(0, 1)-0.8) > 1e-12 {
		Te.Error("wrong unit vector direction")
	}
	zero := Zeros(1)
	if err := u.Unit(zero); err == nil {
		Te.Error("expected an error normalizing the zero vector")
	}
}

func TestAddVecAndSomeVecs(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 1, 1, 2, 2, 2, 3, 3, 3})
	d, _ := NewMatrix([]float64{1, 0, -1})
	B := Zeros(3)
	B.AddVec(A, d)
	if B.At(2, 0) != 4 || B.At(2, 2) != 2 {
		Te.Error("AddVec gave wrong results")
	}
	sel := Zeros(2)
	sel.SomeVecs(A, []int{2, 0})
	if sel.At(0, 1) != 3 || sel.At(1, 1) != 1 {
		Te.Error("SomeVecs gave wrong results")
	}
}

func TestMeanCentroid(Te *testing.T) {
	A, _ := NewMatrix([]float64{0, 0, 0, 2, 4, 6})
	c := Zeros(1)
	c.Mean(A)
	if c.At(0, 0) != 1 || c.At(0, 1) != 2 || c.At(0, 2) != 3 {
		Te.Error("wrong centroid")
	}
}
