/*
 * reporters.go, part of nnpguard.
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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/qcmlkit/nnpguard/traj/dcd"
)

//StateDataReporter writes a tabular time series of simulation
//observables, one CSV row per reporting interval. The boolean fields
//select the columns; the Step column is forced on by the protocols
//before a run. A reporter can be reused across runs: each run redirects
//it to a fresh file with SetOutput, which also rearms the header.
type StateDataReporter struct {
	ReportInterval  int
	Step            bool
	Time            bool
	PotentialEnergy bool
	TotalEnergy     bool
	Temperature     bool
	Density         bool
	Speed           bool

	out           io.WriteCloser
	w             *csv.Writer
	headerWritten bool
}

//NewStateDataReporter returns a reporter with the standard column set
//(step, time, potential and total energy, temperature, density, speed)
//enabled.
func NewStateDataReporter(interval int) *StateDataReporter {
	return &StateDataReporter{
		ReportInterval:  interval,
		Step:            true,
		Time:            true,
		PotentialEnergy: true,
		TotalEnergy:     true,
		Temperature:     true,
		Density:         true,
		Speed:           true,
	}
}

//SetOutput redirects the reporter to out. The header will be written
//again on the next report.
func (r *StateDataReporter) SetOutput(out io.WriteCloser) {
	r.out = out
	r.w = csv.NewWriter(out)
	r.headerWritten = false
}

//Interval returns the reporting cadence in steps.
func (r *StateDataReporter) Interval() int {
	if r.ReportInterval <= 0 {
		return 1
	}
	return r.ReportInterval
}

func (r *StateDataReporter) header() []string {
	h := []string{}
	if r.Step {
		h = append(h, `#"Step"`)
	}
	if r.Time {
		h = append(h, "Time (ps)")
	}
	if r.PotentialEnergy {
		h = append(h, "Potential Energy (kJ/mole)")
	}
	if r.TotalEnergy {
		h = append(h, "Total Energy (kJ/mole)")
	}
	if r.Temperature {
		h = append(h, "Temperature (K)")
	}
	if r.Density {
		h = append(h, "Density (g/mL)")
	}
	if r.Speed {
		h = append(h, "Speed (ns/day)")
	}
	return h
}

func ffmt(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

//Report writes one CSV row for the frame.
func (r *StateDataReporter) Report(f *Frame) error {
	if r.w == nil {
		return CError{"reporter has no output, call SetOutput first", []string{"StateDataReporter.Report"}}
	}
	if !r.headerWritten {
		if err := r.w.Write(r.header()); err != nil {
			return errDecorate(err, "StateDataReporter.Report")
		}
		r.headerWritten = true
	}
	row := []string{}
	if r.Step {
		row = append(row, strconv.Itoa(f.Step))
	}
	if r.Time {
		row = append(row, ffmt(f.Time))
	}
	if r.PotentialEnergy {
		row = append(row, ffmt(f.PotentialEnergy))
	}
	if r.TotalEnergy {
		row = append(row, ffmt(f.TotalEnergy))
	}
	if r.Temperature {
		row = append(row, ffmt(f.Temperature))
	}
	if r.Density {
		row = append(row, ffmt(f.Density))
	}
	if r.Speed {
		row = append(row, ffmt(f.Speed))
	}
	if err := r.w.Write(row); err != nil {
		return errDecorate(err, "StateDataReporter.Report")
	}
	r.w.Flush()
	return r.w.Error()
}

//Close flushes and closes the current output file, leaving the reporter
//ready for a new SetOutput.
func (r *StateDataReporter) Close() error {
	if r.w != nil {
		r.w.Flush()
	}
	if r.out == nil {
		return nil
	}
	err := r.out.Close()
	r.out = nil
	r.w = nil
	return err
}

//DCDSink writes one binary trajectory frame per reporting interval. The
//protocols attach it at the same cadence as the tabular reporter so that
//CSV rows and trajectory frames line up.
type DCDSink struct {
	w        *dcd.Writer
	interval int
}

//NewDCDSink opens filename for writing a trajectory of natoms atoms.
//A filename ending in .zst produces a zstd-compressed trajectory.
func NewDCDSink(filename string, natoms, interval int) (*DCDSink, error) {
	w, err := dcd.NewWriter(filename, natoms)
	if err != nil {
		return nil, errDecorate(err, "NewDCDSink")
	}
	return &DCDSink{w: w, interval: interval}, nil
}

func (d *DCDSink) Interval() int {
	if d.interval <= 0 {
		return 1
	}
	return d.interval
}

func (d *DCDSink) Report(f *Frame) error {
	if f.Positions == nil {
		return CError{"frame without positions handed to the trajectory sink", []string{"DCDSink.Report"}}
	}
	if f.Box != nil {
		return d.w.WNext(f.Positions, f.Box)
	}
	return d.w.WNext(f.Positions)
}

func (d *DCDSink) Close() error {
	return d.w.Close()
}

//ProgressReporter prints a continuously updated progress line for a run
//of a known total length.
type ProgressReporter struct {
	out        io.Writer
	interval   int
	totalSteps int
	done       int
	started    time.Time
}

//NewProgressReporter reports to out every interval steps, for a run of
//totalSteps steps.
func NewProgressReporter(out io.Writer, interval, totalSteps int) *ProgressReporter {
	return &ProgressReporter{out: out, interval: interval, totalSteps: totalSteps}
}

func (p *ProgressReporter) Interval() int {
	if p.interval <= 0 {
		return 100
	}
	return p.interval
}

func (p *ProgressReporter) Report(f *Frame) error {
	if p.started.IsZero() {
		p.started = time.Now()
	}
	p.done = f.Step
	percent := 0.0
	if p.totalSteps > 0 {
		percent = 100 * float64(f.Step) / float64(p.totalSteps)
	}
	rate := float64(f.Step) / time.Since(p.started).Seconds()
	_, err := fmt.Fprintf(p.out, "\rcompleted %.1f%%, %.0f steps/s", percent, rate)
	return err
}

func (p *ProgressReporter) Close() error {
	_, err := fmt.Fprintln(p.out)
	return err
}
