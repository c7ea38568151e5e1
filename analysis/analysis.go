/*
 * analysis.go, part of nnpguard.
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

//Package analysis computes structural properties over recorded
//trajectories: bond length and angle time series, and radial
//distribution functions. It consumes topologies and coordinate frames,
//so it works the same on freshly produced and on re-read trajectories.
package analysis

import (
	"fmt"
	"math"
	"sort"

	guard "github.com/qcmlkit/nnpguard"
	"github.com/qcmlkit/nnpguard/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//PropertyCalculator computes properties of one trajectory: a topology
//plus a sequence of coordinate frames for it.
type PropertyCalculator struct {
	top    *guard.Topology
	frames []*v3.Matrix
}

//NewPropertyCalculator returns a calculator for the trajectory. Every
//frame must have exactly one coordinate row per topology atom.
func NewPropertyCalculator(top *guard.Topology, frames []*v3.Matrix) (*PropertyCalculator, error) {
	if top == nil || len(frames) == 0 {
		return nil, fmt.Errorf("analysis: a topology and at least one frame are needed")
	}
	for i, f := range frames {
		if f.NVecs() != top.Len() {
			return nil, fmt.Errorf("analysis: frame %d has %d rows for %d atoms", i, f.NVecs(), top.Len())
		}
	}
	return &PropertyCalculator{top: top, frames: frames}, nil
}

func distance(f *v3.Matrix, a, b int) float64 {
	d := v3.Zeros(1)
	d.Sub(f.VecView(b), f.VecView(a))
	return d.Norm()
}

//BondLengths returns one length series per given atom pair, each with
//one value per frame, in Angstrom.
func (p *PropertyCalculator) BondLengths(pairs [][2]int) ([][]float64, error) {
	n := p.top.Len()
	for _, pair := range pairs {
		if pair[0] < 0 || pair[1] < 0 || pair[0] >= n || pair[1] >= n {
			return nil, fmt.Errorf("analysis: atom pair %v out of range for %d atoms", pair, n)
		}
	}
	series := make([][]float64, len(pairs))
	for i, pair := range pairs {
		series[i] = make([]float64, len(p.frames))
		for j, f := range p.frames {
			series[i][j] = distance(f, pair[0], pair[1])
		}
	}
	return series, nil
}

//WaterBonds returns the O-H bonded pairs of the topology.
func (p *PropertyCalculator) WaterBonds() [][2]int {
	pairs := [][2]int{}
	for _, b := range p.top.Bonds() {
		s1 := p.top.Atom(b.A1).Symbol
		s2 := p.top.Atom(b.A2).Symbol
		if (s1 == "O" && s2 == "H") || (s1 == "H" && s2 == "O") {
			pairs = append(pairs, [2]int{b.A1, b.A2})
		}
	}
	return pairs
}

//WaterBondLengths returns all O-H bond lengths across all frames,
//flattened, in Angstrom.
func (p *PropertyCalculator) WaterBondLengths() ([]float64, error) {
	series, err := p.BondLengths(p.WaterBonds())
	if err != nil {
		return nil, err
	}
	lengths := []float64{}
	for _, s := range series {
		lengths = append(lengths, s...)
	}
	return lengths, nil
}

//Angle returns the a-b-c angle in frame f, in degrees, with b being the
//vertex.
func Angle(f *v3.Matrix, a, b, c int) float64 {
	v1 := v3.Zeros(1)
	v1.Sub(f.VecView(a), f.VecView(b))
	v2 := v3.Zeros(1)
	v2.Sub(f.VecView(c), f.VecView(b))
	cos := v1.Dot(v2) / (v1.Norm() * v2.Norm())
	//clamp against rounding
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

//WaterAngles returns the H-O-H angle of every water across all frames,
//flattened, in degrees. A water is an oxygen bonded to exactly two
//hydrogens.
func (p *PropertyCalculator) WaterAngles() []float64 {
	hydrogens := map[int][]int{}
	for _, b := range p.top.Bonds() {
		o, h := b.A1, b.A2
		if p.top.Atom(o).Symbol == "H" {
			o, h = h, o
		}
		if p.top.Atom(o).Symbol == "O" && p.top.Atom(h).Symbol == "H" {
			hydrogens[o] = append(hydrogens[o], h)
		}
	}
	angles := []float64{}
	for o := 0; o < p.top.Len(); o++ {
		hs := hydrogens[o]
		if len(hs) != 2 {
			continue
		}
		for _, f := range p.frames {
			angles = append(angles, Angle(f, hs[0], o, hs[1]))
		}
	}
	return angles
}

//WaterRDF returns the oxygen-oxygen radial distribution function up to
//rmax (Angstrom) in the given number of bins: the bin midpoints and the
//g(r) values. Counts are normalized by the ideal-gas expectation at the
//mean oxygen density of the first frame's bounding box.
func (p *PropertyCalculator) WaterRDF(rmax float64, bins int) ([]float64, []float64, error) {
	if rmax <= 0 || bins < 1 {
		return nil, nil, fmt.Errorf("analysis: need a positive rmax and at least one bin")
	}
	oxygens := []int{}
	for i := 0; i < p.top.Len(); i++ {
		if p.top.Atom(i).Symbol == "O" {
			oxygens = append(oxygens, i)
		}
	}
	if len(oxygens) < 2 {
		return nil, nil, fmt.Errorf("analysis: need at least two oxygens for an RDF")
	}
	samples := []float64{}
	for _, f := range p.frames {
		for i := 0; i < len(oxygens); i++ {
			for j := i + 1; j < len(oxygens); j++ {
				if r := distance(f, oxygens[i], oxygens[j]); r < rmax {
					samples = append(samples, r)
				}
			}
		}
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, 0, rmax)
	//stat.Histogram requires its samples in ascending order.
	sort.Float64s(samples)
	counts := stat.Histogram(nil, dividers, samples, nil)

	volume := boundingVolume(p.frames[0])
	density := float64(len(oxygens)) / volume
	//each pair is counted once, so the ideal-gas expectation per bin is
	//frames * N/2 reference atoms times the shell occupancy.
	norm := float64(len(p.frames)) * float64(len(oxygens)) / 2

	mids := make([]float64, bins)
	g := make([]float64, bins)
	for i := 0; i < bins; i++ {
		r1, r2 := dividers[i], dividers[i+1]
		mids[i] = (r1 + r2) / 2
		shell := 4.0 / 3.0 * math.Pi * (r2*r2*r2 - r1*r1*r1)
		ideal := density * shell * norm
		if ideal > 0 {
			g[i] = counts[i] / ideal
		}
	}
	return mids, g, nil
}

//boundingVolume returns the volume of the axis-aligned bounding box of
//f, with a floor to keep near-planar systems finite.
func boundingVolume(f *v3.Matrix) float64 {
	vol := 1.0
	for j := 0; j < 3; j++ {
		min, max := f.At(0, j), f.At(0, j)
		for i := 1; i < f.NVecs(); i++ {
			v := f.At(i, j)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		side := max - min
		if side < 1 {
			side = 1
		}
		vol *= side
	}
	return vol
}
