/*
Copyright © 2017 the recons authors.
This file is part of recons.

recons is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

recons is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with recons.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package hash computes stable fingerprints of generated job batches.
package hash

import (
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// printer dumps values that gob cannot encode. The settings make the
// output independent of map order and pointer addresses.
var printer = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Hash returns a hex-encoded 128-bit FNV-1a hash of object. Values that
// implement fmt.Stringer are identified by their string representation.
func Hash(object interface{}) string {
	if s, ok := object.(fmt.Stringer); ok {
		return s.String()
	}
	h := fnv.New128a()
	if err := gob.NewEncoder(h).Encode(object); err != nil {
		// gob can't encode some values, e.g. nil pointers or
		// types without exported fields.
		h.Reset()
		printer.Fprintf(h, "%#v", object)
	}
	return hex.EncodeToString(h.Sum(nil))
}
