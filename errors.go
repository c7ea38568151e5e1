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

package guard

import "strings"

//Error is the interface for errors that the packages of this library
//implement. The Decorate method allows adding and retrieving information
//from the error as it is passed up the call stack, without wrapping it
//into another type. The decoration slice should contain the names of the
//functions in the calling stack, each optionally followed by extra
//information in the format "FunctionName: extra info".
type Error interface {
	Error() string
	Decorate(string) []string
}

//CError (Concrete Error) is the Error implementation used across the
//root package.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

//Decorate adds dec to the decoration unless it is empty, and returns the
//current decoration.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//ConfigError reports an inconsistent or unsupported parameter set. It is
//always returned before any simulation-engine work begins, so a run that
//fails with a ConfigError has produced no output files.
type ConfigError struct {
	CError
}

//NewConfigError returns a ConfigError with the given message, decorated
//with the caller's name.
func NewConfigError(msg string, caller string) ConfigError {
	return ConfigError{CError{msg, []string{caller}}}
}

//IsConfigError tells whether err, at any level, is a configuration error
//as opposed to an engine or I/O failure.
func IsConfigError(err error) bool {
	_, ok := err.(ConfigError)
	return ok
}

//errDecorate decorates err with caller if err implements Error, and
//otherwise wraps it into a CError carrying the original message.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return CError{err.Error(), []string{caller}}
	}
	err2.Decorate(caller)
	return err2
}

//decoString is a helper to print a decoration slice in diagnostics.
func decoString(deco []string) string {
	return strings.Join(deco, "/")
}

//Messages for common errors.
const (
	ErrNilTestsystem      = "Nil testsystem given"
	ErrNoTemperature      = "A single temperature is required for this protocol"
	ErrTemperatureList    = "You need to provide multiple temperatures to run the MultiTemperatureProtocol"
	ErrUnknownEnsemble    = "Unknown ensemble, implemented ensembles are npt, nvt and nve"
	ErrUnknownEnvironment = "Unknown environment, implemented environments are vacuum and solution"
	ErrBarostatInVacuum   = "The npt ensemble requires a periodic (solution) environment for the barostat"
	ErrDOFNotImplemented  = "Only bond DOF scans are implemented. Angle and torsion scans are not yet available"
)
