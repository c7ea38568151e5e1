/*
 * errors.go, part of nnpguard.
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

//Error implements the library-wide Decorate convention, carrying also
//the name of the offending file and whether the error is critical.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string { return err.message }

//Decorate adds dec to the decoration unless it is empty, and returns
//the current decoration.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//FileName returns the file to which the error refers.
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file (always "dcd").
func (err Error) Format() string { return "dcd" }

//Critical tells whether the error is critical, as opposed to a normal
//end-of-trajectory condition.
func (err Error) Critical() bool { return err.critical }

//lastFrameError signals the harmless there-are-no-more-frames
//condition.
type lastFrameError struct {
	filename string
}

func (err lastFrameError) Error() string    { return "EOF" }
func (err lastFrameError) FileName() string { return err.filename }
func (err lastFrameError) Format() string   { return "dcd" }
func (err lastFrameError) Critical() bool   { return false }

func (err lastFrameError) NormalLastFrameTermination() {}

func (err lastFrameError) Decorate(dec string) []string { return []string{} }

//IsLastFrame tells whether err only signals the normal end of the
//trajectory.
func IsLastFrame(err error) bool {
	_, ok := err.(lastFrameError)
	return ok
}

func errDecorate(err error, caller string) error {
	err2, ok := err.(interface {
		Error() string
		Decorate(string) []string
	})
	if !ok {
		return Error{err.Error(), "", []string{caller}, true}
	}
	err2.Decorate(caller)
	return err2.(error)
}

//Messages for common errors.
const (
	TrajUnIni      = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NilCoordinates = "Given nil coordinates"
	NotEnoughSpace = "Not enough space in passed blocks"
	WrongFormat    = "Wrong format in the DCD file or frame"
)
