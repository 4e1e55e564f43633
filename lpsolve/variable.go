/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package lpsolve

// #cgo CFLAGS: -I/usr/include/lpsolve/
// #cgo linux LDFLAGS: -llpsolve55 -lm -ldl -lcolamd
// #cgo darwin LDFLAGS: -L/usr/local/lib -llpsolve55
// #cgo darwin CFLAGS: -I/usr/local/include
// #include <lp_lib.h>
import "C"

type Variable struct {
	model *Model
	index int
}

type VariableKind int

const (
	ContinuousVariable VariableKind = iota
	IntegerVariable
	BinaryVariable
)

func (v *Variable) Name() string {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	return C.GoString(C.get_col_name(v.model.prob, C.int(v.index+1)))
}

func (v *Variable) Kind() VariableKind {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	col := C.int(v.index + 1)
	switch {
	case C.is_binary(v.model.prob, col) == C.TRUE:
		return BinaryVariable
	case C.is_int(v.model.prob, col) == C.TRUE:
		return IntegerVariable
	default:
		return ContinuousVariable
	}
}

// Bounds returns the column bounds; lp_solve's infinity is reported as is.
func (v *Variable) Bounds() (lower, upper float64) {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	col := C.int(v.index + 1)
	return float64(C.get_lowbo(v.model.prob, col)), float64(C.get_upbo(v.model.prob, col))
}
