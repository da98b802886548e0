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

// SectorRef is a track/sector coordinate. Tracks are 1-based, sectors are
// 0-based.
type SectorRef struct {
	Track  int
	Sector int
}

//
func (r SectorRef) String() string {
	return fmt.Sprintf("%d/%d", r.Track, r.Sector)
}

// link reads the track/sector link stored in the first two bytes of a sector
func link(sector []byte) SectorRef {
	return SectorRef{Track: int(sector[0]), Sector: int(sector[1])}
}

// Offset returns the byte offset of the first byte of sector r within the
// image.
func (l *Layout) Offset(r SectorRef) (int, error) {

	if r.Track < 1 || r.Track > l.tracks {
		return -1, fmt.Errorf("%w: %d", ErrInvalidTrack, r.Track)
	}

	if r.Sector < 0 || r.Sector >= l.sectors(r.Track) {
		return -1, fmt.Errorf("%w: track %d sector %d", ErrInvalidSector,
			r.Track, r.Sector)
	}

	return (l.trackStart[r.Track-1] + r.Sector) * SectorSize, nil
}

// ReadSector returns the 256 bytes of sector r. The returned slice shares
// memory with image and must not be modified.
func ReadSector(image []byte, l *Layout, r SectorRef) ([]byte, error) {

	off, err := l.Offset(r)
	if err != nil {
		return nil, err
	}

	if off+SectorSize > len(image) {
		got := len(image) - off
		if got < 0 {
			got = 0
		}
		return nil, fmt.Errorf("%w at %s: want %d bytes, got %d",
			ErrShortSector, r, SectorSize, got)
	}

	return image[off : off+SectorSize : off+SectorSize], nil
}
