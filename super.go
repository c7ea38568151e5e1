/*
 * super.go, part of nnpguard.
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
	"fmt"
	"math"

	"github.com/qcmlkit/nnpguard/v3"
	"gonum.org/v1/gonum/mat"
)

//Super superimposes test on templa with the Kabsch algorithm and returns
//the rotated-and-translated copy of test. Both matrices must have the
//same number of vectors, matched row by row; neither argument is
//modified.
func Super(test, templa *v3.Matrix) (*v3.Matrix, error) {
	n := test.NVecs()
	if n != templa.NVecs() {
		return nil, CError{fmt.Sprintf("cannot superimpose structures with %d and %d atoms", n, templa.NVecs()), []string{"Super"}}
	}
	ctest := v3.Zeros(1)
	ctest.Mean(test)
	ctempla := v3.Zeros(1)
	ctempla.Mean(templa)
	ptest := v3.Zeros(n)
	ptest.SubVec(test, ctest)
	ptempla := v3.Zeros(n)
	ptempla.SubVec(templa, ctempla)

	var cov mat.Dense
	cov.Mul(ptest.Dense.T(), v3.Matrix2Dense(ptempla))
	var svd mat.SVD
	if ok := svd.Factorize(&cov, mat.SVDFull); !ok {
		return nil, CError{"SVD of the covariance matrix failed to converge", []string{"Super"}}
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	//a reflection is not a rotation: flip the axis of smallest singular
	//value when the determinant comes out negative.
	var vut mat.Dense
	vut.Mul(&v, u.T())
	sign := 1.0
	if mat.Det(&vut) < 0 {
		sign = -1.0
	}
	s := mat.NewDiagDense(3, []float64{1, 1, sign})
	//rotation taking test onto templa, applied to row vectors.
	var rt mat.Dense
	rt.Mul(s, v.T())
	rt.Mul(&u, &rt)

	rotated := v3.Zeros(n)
	rotated.Mul(ptest, &rt)
	rotated.AddVec(rotated, ctempla)
	return rotated, nil
}

//RMSD returns the root-mean-square deviation between test and templa,
//matched row by row, without superimposing them first.
func RMSD(test, templa *v3.Matrix) (float64, error) {
	n := test.NVecs()
	if n != templa.NVecs() {
		return 0, CError{fmt.Sprintf("cannot compare structures with %d and %d atoms", n, templa.NVecs()), []string{"RMSD"}}
	}
	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			d := test.At(i, j) - templa.At(i, j)
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(n)), nil
}

//SuperRMSD superimposes test on templa and returns the RMSD of the
//superimposed pair.
func SuperRMSD(test, templa *v3.Matrix) (float64, error) {
	rotated, err := Super(test, templa)
	if err != nil {
		return 0, errDecorate(err, "SuperRMSD")
	}
	rmsd, err := RMSD(rotated, templa)
	if err != nil {
		return 0, errDecorate(err, "SuperRMSD")
	}
	return rmsd, nil
}
