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

import "errors"

// validation errors; the image is structurally wrong and retrying won't help
var (
	ErrUnsupportedFormat = errors.New("unsupported disk format")
	ErrUnsupportedSize   = errors.New("unsupported disk image size")
	ErrInvalidTrack      = errors.New("track out of range")
	ErrInvalidSector     = errors.New("sector out of range")
	ErrShortSector       = errors.New("short sector read")
)

//
var ErrNoProgram = errors.New("no program found")

//
var ErrLoopDetected = errors.New("loop detected")

/*
	directoryLoop is returned when the directory chain links back to a sector
	that was already visited. The walk simply ends there, so this counts as
	ErrNoProgram for callers, but still matches ErrLoopDetected for anyone who
	wants to know why nothing was found.
*/
type directoryLoop struct {
	at SectorRef
}

//
func (d *directoryLoop) Error() string {
	return "no program found: directory chain loops back to " + d.at.String()
}

//
func (d *directoryLoop) Is(target error) bool {
	return target == ErrNoProgram || target == ErrLoopDetected
}
