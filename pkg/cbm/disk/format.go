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

package disk

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the physical layout of a disk image
type Format int

const (
	D64 Format = iota + 1
	D71
	D81
)

//
func (f Format) String() string {

	switch f {

	case D64:
		return "d64"

	case D71:
		return "d71"

	case D81:
		return "d81"

	default:
		return "<unknown>"
	}
}

// ParseFormat accepts a format name as used for file extensions, case does
// not matter and a leading dot is ignored.
func ParseFormat(typ string) (Format, error) {

	switch strings.ToLower(strings.TrimPrefix(typ, ".")) {

	case "d64":
		return D64, nil

	case "d71":
		return D71, nil

	case "d81":
		return D81, nil

	default:
		return 0, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, typ)
	}
}

// FormatOf determines the format from the extension of file.
func FormatOf(file string) (Format, error) {
	return ParseFormat(filepath.Ext(file))
}
