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
	"testing"
)

// blankImage creates an all zero image for format f with the given geometry
// index, optionally with error table.
func blankImage(t *testing.T, f Format, geo int, errTable bool) ([]byte, *Layout) {
	t.Helper()
	l := newLayout(f, geometries[f][geo])
	size := l.DataSize()
	if errTable {
		size += l.TotalSectors()
	}
	return make([]byte, size), l
}

// putSector writes data to the start of sector r
func putSector(t *testing.T, img []byte, l *Layout, r SectorRef, data ...byte) {
	t.Helper()
	off, err := l.Offset(r)
	if err != nil {
		t.Fatalf("invalid test sector %s: %v", r, err)
	}
	if len(data) > SectorSize {
		t.Fatalf("test data for sector %s too long: %d", r, len(data))
	}
	copy(img[off:off+SectorSize], data)
}

// putSlot writes a directory slot into the directory sector r
func putSlot(t *testing.T, img []byte, l *Layout, r SectorRef, slot int,
	typ byte, start SectorRef, name string) {
	t.Helper()
	off, err := l.Offset(r)
	if err != nil {
		t.Fatalf("invalid test sector %s: %v", r, err)
	}
	base := off + slotBase + slot*slotSize
	img[base] = typ
	img[base+1] = byte(start.Track)
	img[base+2] = byte(start.Sector)
	for ix := 0; ix < nameLength; ix++ {
		if ix < len(name) {
			img[base+3+ix] = name[ix]
		} else {
			img[base+3+ix] = 0xa0
		}
	}
	img[base+28] = 1
}

// setLink sets the link bytes of sector r
func setLink(t *testing.T, img []byte, l *Layout, r, next SectorRef) {
	t.Helper()
	off, err := l.Offset(r)
	if err != nil {
		t.Fatalf("invalid test sector %s: %v", r, err)
	}
	img[off] = byte(next.Track)
	img[off+1] = byte(next.Sector)
}
