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

// Package cref hands out opaque C pointers that stand in for Go values in
// solver callbacks, since cgo forbids passing Go pointers to C for storage.
// Inspired by github.com/mattn/go-pointer
package cref

// #include <stdlib.h>
import "C"

import (
	"sync"
	"unsafe"
)

var (
	refsMu sync.Mutex
	refs   = make(map[unsafe.Pointer]interface{})
)

// Save stores ref and returns the handle that identifies it.
func Save(ref interface{}) unsafe.Pointer {
	refsMu.Lock()
	defer refsMu.Unlock()

	var p unsafe.Pointer = C.malloc(C.size_t(1))
	if p == nil {
		panic("could not allocate memory for CGO pointer tracking")
	}

	refs[p] = ref

	return p
}

// Load returns the value stored under ptr, or nil if there is none.
func Load(ptr unsafe.Pointer) interface{} {
	refsMu.Lock()
	defer refsMu.Unlock()

	return refs[ptr]
}

// Release forgets the value stored under ptr and frees the handle.
func Release(ptr unsafe.Pointer) {
	refsMu.Lock()
	defer refsMu.Unlock()

	if _, ok := refs[ptr]; !ok {
		return
	}
	delete(refs, ptr)
	C.free(ptr)
}
