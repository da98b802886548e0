/*
   DiskRun - Commodore disk image runner
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of DiskRun.

   DiskRun is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   DiskRun is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with DiskRun. If not, see <http://www.gnu.org/licenses/>.
*/

package program

import (
	"fmt"
)

// CommandFor builds the keyboard sequence that starts a program according
// to plan: RUN for BASIC programs, SYS to the load address otherwise. The
// sequence is PETSCII and ends with a carriage return.
func CommandFor(plan *Plan) []byte {
	if plan.Interpreted() {
		return petscii("RUN\r")
	}
	return petscii(fmt.Sprintf("SYS %d\r", plan.LoadAddress))
}

// petscii converts plain upper case ASCII text to unshifted PETSCII. Digits,
// upper case letters, punctuation and CR share their codes.
func petscii(s string) []byte {
	ret := make([]byte, 0, len(s))
	for _, c := range []byte(s) {
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		ret = append(ret, c)
	}
	return ret
}
