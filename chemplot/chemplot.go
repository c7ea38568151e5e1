/*
 * chemplot.go, part of nnpguard.
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

//Package chemplot renders the figures of a stability-test run: energy
//profiles from degree-of-freedom scans, observable time series from
//tabular reports, and radial distribution functions.
package chemplot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Error is the error type for the chemplot package, compatible with the
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

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

func xys(x, y []float64) (plotter.XYs, error) {
	if len(x) != len(y) || len(x) == 0 {
		return nil, Error{fmt.Sprintf("mismatched or empty data series: %d vs %d points", len(x), len(y)), []string{"xys"}}
	}
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts, nil
}

func saveLine(p *plot.Plot, x, y []float64, plotname string) error {
	pts, err := xys(x, y)
	if err != nil {
		return err
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return Error{err.Error(), []string{"saveLine"}}
	}
	p.Add(line)
	if err := p.Save(15*vg.Centimeter, 10*vg.Centimeter, plotname); err != nil {
		return Error{err.Error(), []string{"saveLine"}}
	}
	return nil
}

//EnergyProfile plots the potential energy along a scanned bond and saves
//it to plotname; the format is taken from the file extension (png, pdf,
//svg...).
func EnergyProfile(lengths, energies []float64, title, plotname string) error {
	p := basicPlot(title, "bond distance [A]", "potential energy [kJ/mol]")
	return saveLine(p, lengths, energies, plotname)
}

//TimeSeries plots one observable against the simulation step and saves
//it to plotname.
func TimeSeries(steps, values []float64, ylabel, title, plotname string) error {
	p := basicPlot(title, "step", ylabel)
	return saveLine(p, steps, values, plotname)
}

//RDF plots a radial distribution function and saves it to plotname.
func RDF(r, g []float64, title, plotname string) error {
	p := basicPlot(title, "r [A]", "g(r)")
	return saveLine(p, r, g, plotname)
}
