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
)

//
const SectorSize = 256

// sectors per track for the four speed zones of a 1541
func sectors1541(track int) int {
	switch {
	case track <= 17:
		return 21
	case track <= 24:
		return 19
	case track <= 30:
		return 18
	default:
		return 17
	}
}

// the 1571 repeats the 1541 zones on its second side
func sectors1571(track int) int {
	return sectors1541((track-1)%35 + 1)
}

//
func sectors1581(int) int {
	return 40
}

//
type geometry struct {
	tracks    int
	directory SectorRef
	sectors   func(track int) int
}

// candidate geometries per format, in the order in which they are tried
var geometries = map[Format][]geometry{
	D64: {
		{tracks: 35, directory: SectorRef{18, 1}, sectors: sectors1541},
		{tracks: 40, directory: SectorRef{18, 1}, sectors: sectors1541},
	},
	D71: {
		{tracks: 70, directory: SectorRef{18, 1}, sectors: sectors1571},
	},
	D81: {
		{tracks: 80, directory: SectorRef{40, 3}, sectors: sectors1581},
	},
}

/*
	Layout describes the geometry of one disk image. It is derived from the
	format and the image length, and never changes afterwards.
*/
type Layout struct {
	format        Format
	tracks        int
	directory     SectorRef
	sectors       func(track int) int
	trackStart    []int
	totalSectors  int
	hasErrorTable bool
}

/*
	ResolveLayout determines the layout for an image of the given format and
	byte length. Per candidate geometry, the plain size without error table is
	checked first, then the size including one error byte per sector. Any other
	length is rejected.
*/
func ResolveLayout(f Format, size int) (*Layout, error) {

	candidates, ok := geometries[f]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, f)
	}

	for _, g := range candidates {

		l := newLayout(f, g)
		plain := l.totalSectors * SectorSize

		switch size {
		case plain:
			return l, nil
		case plain + l.totalSectors:
			l.hasErrorTable = true
			return l, nil
		}
	}

	return nil, fmt.Errorf("%w: %d bytes for %s", ErrUnsupportedSize, size, f)
}

//
func newLayout(f Format, g geometry) *Layout {

	l := &Layout{
		format:     f,
		tracks:     g.tracks,
		directory:  g.directory,
		sectors:    g.sectors,
		trackStart: make([]int, g.tracks+1),
	}

	for t := 1; t <= g.tracks; t++ {
		l.trackStart[t-1] = l.totalSectors
		l.totalSectors += g.sectors(t)
	}
	l.trackStart[g.tracks] = l.totalSectors

	return l
}

//
func (l *Layout) Format() Format {
	return l.format
}

//
func (l *Layout) Tracks() int {
	return l.tracks
}

// Directory returns the sector at which the directory chain starts.
func (l *Layout) Directory() SectorRef {
	return l.directory
}

// SectorsPerTrack returns the number of sectors on track t, or 0 if t is not
// a valid track for this layout.
func (l *Layout) SectorsPerTrack(t int) int {
	if t < 1 || t > l.tracks {
		return 0
	}
	return l.sectors(t)
}

//
func (l *Layout) TotalSectors() int {
	return l.totalSectors
}

//
func (l *Layout) HasErrorTable() bool {
	return l.hasErrorTable
}

// DataSize is the size of the image without the trailing error table.
func (l *Layout) DataSize() int {
	return l.totalSectors * SectorSize
}

//
func (l *Layout) String() string {
	ret := fmt.Sprintf("%s, %d tracks, %d sectors", l.format, l.tracks,
		l.totalSectors)
	if l.hasErrorTable {
		ret += ", error table"
	}
	return ret
}
