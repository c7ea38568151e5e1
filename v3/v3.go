/*
 * v3.go, part of nnpguard.
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

//Package v3 implements matrices of 3D cartesian coordinates, backed by
//gonum. Within the package a "vector" is a row of the matrix, i.e. the
//coordinates of one atom. Atom positions are in Angstrom unless the caller
//says otherwise; the package itself is unit-agnostic.
package v3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of vectors in 3D space, one per row.
type Matrix struct {
	*mat.Dense
}

//NewMatrix builds a Matrix with 3 columns from data, which is read
//row-major. It returns an error if the length of data is not divisible
//by 3.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("input slice length %d not divisible by 3", l), []string{"NewMatrix"}}
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

//Zeros returns a vecs*3 matrix filled with zeros.
func Zeros(vecs int) *Matrix {
	f := make([]float64, 3*vecs)
	return &Matrix{mat.NewDense(vecs, 3, f)}
}

//Dense2Matrix wraps a gonum Dense into a Matrix. The Dense must have
//3 columns, otherwise the function panics.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(fmt.Sprintf("v3: Dense2Matrix: matrix has %d columns, need 3", c))
	}
	return &Matrix{A}
}

//Matrix2Dense returns the gonum Dense underlying A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

//NVecs returns the number of vectors (rows) in the matrix.
func (F *Matrix) NVecs() int {
	r, _ := F.Dims()
	return r
}

//VecView returns a view of the ith vector of the matrix. Changes in the
//view are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//Clone returns an independent copy of F.
func (F *Matrix) Clone() *Matrix {
	r := Zeros(F.NVecs())
	r.Dense.Copy(F.Dense)
	return r
}

//Sub puts A-B in the receiver. Panics on dimension mismatch.
func (F *Matrix) Sub(A, B *Matrix) {
	F.Dense.Sub(A.Dense, B.Dense)
}

//Add puts A+B in the receiver. Panics on dimension mismatch.
func (F *Matrix) Add(A, B *Matrix) {
	F.Dense.Add(A.Dense, B.Dense)
}

//Scale puts A scaled by v in the receiver.
func (F *Matrix) Scale(v float64, A *Matrix) {
	F.Dense.Scale(v, A.Dense)
}

//Mul puts A*B in the receiver. It works even if A or B is also the
//receiver, at the cost of an allocation.
func (F *Matrix) Mul(A *Matrix, B mat.Matrix) {
	if F == A {
		A = A.Clone()
	}
	F.Dense.Mul(A.Dense, B)
}

//AddVec adds the 1x3 vector vec to every vector of A and puts the result
//in the receiver.
func (F *Matrix) AddVec(A, vec *Matrix) {
	if vec.NVecs() != 1 {
		panic("v3: AddVec: vec must be a 1x3 matrix")
	}
	n := A.NVecs()
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)+vec.At(0, j))
		}
	}
}

//SubVec subtracts the 1x3 vector vec from every vector of A and puts the
//result in the receiver.
func (F *Matrix) SubVec(A, vec *Matrix) {
	v := Zeros(1)
	v.Scale(-1, vec)
	F.AddVec(A, v)
}

//SomeVecs copies the vectors of A given by the indexes in list into the
//receiver, in the order of the list. The receiver must have len(list)
//vectors.
func (F *Matrix) SomeVecs(A *Matrix, list []int) {
	if F.NVecs() != len(list) {
		panic("v3: SomeVecs: mismatched dimensions")
	}
	for k, i := range list {
		for j := 0; j < 3; j++ {
			F.Set(k, j, A.At(i, j))
		}
	}
}

//Norm returns the Euclidean norm of F, which is normally used with F
//being a single vector.
func (F *Matrix) Norm() float64 {
	return mat.Norm(F.Dense, 2)
}

//Dot returns the dot product between the vectors F and B. Both must be
//1x3 matrices.
func (F *Matrix) Dot(B *Matrix) float64 {
	if F.NVecs() != 1 || B.NVecs() != 1 {
		panic("v3: Dot: both arguments must be 1x3 matrices")
	}
	var d float64
	for j := 0; j < 3; j++ {
		d += F.At(0, j) * B.At(0, j)
	}
	return d
}

//Unit puts in the receiver the vector A scaled to norm 1. It returns an
//error if the norm of A is zero.
func (F *Matrix) Unit(A *Matrix) error {
	n := A.Norm()
	if n == 0 || math.IsNaN(n) {
		return Error{"attempted to normalize a zero vector", []string{"Unit"}}
	}
	F.Scale(1/n, A)
	return nil
}

//Mean puts the centroid (mean of every column) of A in the receiver,
//which must be a 1x3 matrix.
func (F *Matrix) Mean(A *Matrix) {
	n := A.NVecs()
	for j := 0; j < 3; j++ {
		var s float64
		for i := 0; i < n; i++ {
			s += A.At(i, j)
		}
		F.Set(0, j, s/float64(n))
	}
}

//Error is the error type for the v3 package, compatible with the
//Decorate convention of the rest of the library.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return err.message }

//Decorate adds dec to the decoration slice, unless it is empty, and
//returns the current decoration.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}
